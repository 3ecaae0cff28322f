package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/diewo77/onlineshop/httpx"
	"github.com/diewo77/onlineshop/internal/services"
)

// Error suffixes carried on the wire alongside the configured prefix and
// zero-padded service code, e.g. ORG-000-991.
const (
	codeValidationFailed = 990
	codeNotFound         = 991
	codeStockNotEnough   = 992
	codeGeneralError     = 999
)

// Codes formats structured error codes from the configured prefix and
// service code.
type Codes struct {
	Prefix      string
	ServiceCode int
}

func (c Codes) format(suffix int) string {
	return fmt.Sprintf("%s-%03d-%d", c.Prefix, c.ServiceCode, suffix)
}

// WriteError translates service failures into response classes: not-found,
// stock conflict, or a catch-all. Anything unexpected is logged here and
// reported with the generic code only.
func (c Codes) WriteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, c.format(codeNotFound), "RESOURCE_NOT_FOUND", nil)
	case errors.Is(err, services.ErrInsufficientStock):
		httpx.JSONError(w, http.StatusConflict, c.format(codeStockNotEnough), "STOCK_NOT_ENOUGH", nil)
	default:
		log.Printf("unhandled error: %v", err)
		httpx.JSONError(w, http.StatusInternalServerError, c.format(codeGeneralError), "GENERAL_ERROR", nil)
	}
}

func (c Codes) writeViolations(w http.ResponseWriter, details any) {
	httpx.JSONError(w, http.StatusBadRequest, c.format(codeValidationFailed), "VALIDATION_FAILED", details)
}

// pathID parses the {id} path segment; ok is false after a 400 was written.
func (c Codes) pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		c.writeViolations(w, map[string]string{"id": "must_be_integer"})
		return 0, false
	}
	return uint(id), true
}

// pageParams reads page/size query parameters, falling back to page 0 and
// the configured default size.
func pageParams(r *http.Request, defaultSize int) (page, size int) {
	page, size = 0, defaultSize
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			page = n
		}
	}
	if v := r.URL.Query().Get("size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			size = n
		}
	}
	return page, size
}

func totalPages(total int64, size int) int {
	if size <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}
