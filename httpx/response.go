package httpx

import (
	"encoding/json"
	"net/http"
	"time"
)

// ErrorResponse is the wire shape of every failure: a structured code
// (prefix + service code + error suffix), a stable description, and the
// server timestamp. Internal detail never travels in it.
type ErrorResponse struct {
	ErrorCode string    `json:"errorCode"`
	ErrorDesc string    `json:"errorDesc"`
	Timestamp time.Time `json:"timestamp"`
	Details   any       `json:"details,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	var body []byte
	var err error
	if payload != nil {
		body, err = json.Marshal(payload)
		if err != nil {
			// best-effort error response; avoid writing partial JSON
			http.Error(w, `{"errorDesc":"encode_error"}`, http.StatusInternalServerError)
			return
		}
	} else {
		body = []byte("null")
	}
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		// nothing we can do at this point
		_ = err
	}
}

func JSONError(w http.ResponseWriter, status int, code, desc string, details any) {
	JSON(w, status, ErrorResponse{ErrorCode: code, ErrorDesc: desc, Timestamp: time.Now(), Details: details})
}
