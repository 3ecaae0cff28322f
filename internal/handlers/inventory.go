package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/diewo77/onlineshop/httpx"
	"github.com/diewo77/onlineshop/internal/models"
	"github.com/diewo77/onlineshop/internal/services"
	"github.com/diewo77/onlineshop/validation"
)

type InventoryHandler struct {
	svc      *services.InventoryService
	codes    Codes
	pageSize int
}

func NewInventoryHandler(svc *services.InventoryService, codes Codes, pageSize int) *InventoryHandler {
	return &InventoryHandler{svc: svc, codes: codes, pageSize: pageSize}
}

func (h *InventoryHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/inventory", h.List)
	mux.HandleFunc("POST /api/inventory", h.Create)
	mux.HandleFunc("GET /api/inventory/{id}", h.Get)
	mux.HandleFunc("PUT /api/inventory/{id}", h.Update)
	mux.HandleFunc("DELETE /api/inventory/{id}", h.Delete)
}

type movementRequest struct {
	ItemID uint   `json:"itemId"`
	Qty    int    `json:"qty"`
	Type   string `json:"type"`
}

// movementType normalizes the direction code the way the original service
// did: upper-cased, one of T (top-up) or W (withdrawal).
func (req movementRequest) movementType() models.MovementType {
	return models.MovementType(strings.ToUpper(strings.TrimSpace(req.Type)))
}

func (req movementRequest) validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("type", req.Type, v)
	validation.NonNegativeInt("qty", req.Qty, v)
	if req.Type != "" {
		validation.OneOf("type", string(req.movementType()), []string{
			string(models.MovementTopUp), string(models.MovementWithdrawal),
		}, v)
	}
	return v
}

type movementResponse struct {
	ID     uint   `json:"id"`
	ItemID uint   `json:"itemId"`
	Qty    int    `json:"qty"`
	Type   string `json:"type"`
}

type movementListResponse struct {
	Inventories []movementResponse `json:"inventories"`
	Page        int                `json:"page"`
	Size        int                `json:"size"`
	TotalItems  int64              `json:"totalItems"`
	TotalPages  int                `json:"totalPages"`
}

func movementBody(m *models.Movement) movementResponse {
	return movementResponse{ID: m.ID, ItemID: m.ItemID, Qty: m.Qty, Type: string(m.Type)}
}

func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r, h.pageSize)
	ms, total, err := h.svc.List(page, size)
	if err != nil {
		h.codes.WriteError(w, err)
		return
	}
	body := movementListResponse{
		Inventories: make([]movementResponse, 0, len(ms)),
		Page:        page,
		Size:        size,
		TotalItems:  total,
		TotalPages:  totalPages(total, size),
	}
	for i := range ms {
		body.Inventories = append(body.Inventories, movementBody(&ms[i]))
	}
	httpx.JSON(w, http.StatusOK, body)
}

func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.codes.pathID(w, r)
	if !ok {
		return
	}
	m, err := h.svc.Get(id)
	if err != nil {
		h.codes.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, movementBody(m))
}

func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req movementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.codes.writeViolations(w, map[string]string{"body": "invalid_json"})
		return
	}
	if v := req.validate(); !v.Empty() {
		h.codes.writeViolations(w, v)
		return
	}
	m, err := h.svc.Create(req.ItemID, req.Qty, req.movementType())
	if err != nil {
		h.codes.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, movementBody(m))
}

func (h *InventoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.codes.pathID(w, r)
	if !ok {
		return
	}
	var req movementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.codes.writeViolations(w, map[string]string{"body": "invalid_json"})
		return
	}
	if v := req.validate(); !v.Empty() {
		h.codes.writeViolations(w, v)
		return
	}
	m, err := h.svc.Update(id, req.ItemID, req.Qty, req.movementType())
	if err != nil {
		h.codes.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, movementBody(m))
}

func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.codes.pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(id); err != nil {
		h.codes.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}
