package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/diewo77/onlineshop/httpx"
	"github.com/diewo77/onlineshop/internal/models"
	"github.com/diewo77/onlineshop/internal/services"
	"github.com/diewo77/onlineshop/validation"
)

type ItemHandler struct {
	svc      *services.ItemService
	codes    Codes
	pageSize int
}

func NewItemHandler(svc *services.ItemService, codes Codes, pageSize int) *ItemHandler {
	return &ItemHandler{svc: svc, codes: codes, pageSize: pageSize}
}

func (h *ItemHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/items", h.List)
	mux.HandleFunc("POST /api/items", h.Create)
	mux.HandleFunc("GET /api/items/{id}", h.Get)
	mux.HandleFunc("PUT /api/items/{id}", h.Update)
	mux.HandleFunc("DELETE /api/items/{id}", h.Delete)
}

type itemRequest struct {
	Name  string `json:"name"`
	Price int    `json:"price"`
}

func (req itemRequest) validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("name", req.Name, v)
	validation.NonNegativeInt("price", req.Price, v)
	return v
}

type itemResponse struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	Price          int    `json:"price"`
	RemainingStock int    `json:"remainingStock"`
}

type itemListResponse struct {
	Items      []itemResponse `json:"items"`
	Page       int            `json:"page"`
	Size       int            `json:"size"`
	TotalItems int64          `json:"totalItems"`
	TotalPages int            `json:"totalPages"`
}

func itemBody(item *models.Item, stock int) itemResponse {
	return itemResponse{ID: item.ID, Name: item.Name, Price: item.Price, RemainingStock: stock}
}

func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r, h.pageSize)
	items, total, err := h.svc.List(page, size)
	if err != nil {
		h.codes.WriteError(w, err)
		return
	}
	body := itemListResponse{
		Items:      make([]itemResponse, 0, len(items)),
		Page:       page,
		Size:       size,
		TotalItems: total,
		TotalPages: totalPages(total, size),
	}
	for i := range items {
		body.Items = append(body.Items, itemBody(&items[i].Item, items[i].RemainingStock))
	}
	httpx.JSON(w, http.StatusOK, body)
}

func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.codes.pathID(w, r)
	if !ok {
		return
	}
	item, err := h.svc.Get(id)
	if err != nil {
		h.codes.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, itemBody(&item.Item, item.RemainingStock))
}

func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.codes.writeViolations(w, map[string]string{"body": "invalid_json"})
		return
	}
	if v := req.validate(); !v.Empty() {
		h.codes.writeViolations(w, v)
		return
	}
	item, err := h.svc.Create(req.Name, req.Price)
	if err != nil {
		h.codes.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, itemBody(item, 0))
}

func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.codes.pathID(w, r)
	if !ok {
		return
	}
	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.codes.writeViolations(w, map[string]string{"body": "invalid_json"})
		return
	}
	if v := req.validate(); !v.Empty() {
		h.codes.writeViolations(w, v)
		return
	}
	item, err := h.svc.Update(id, req.Name, req.Price)
	if err != nil {
		h.codes.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, itemBody(item, 0))
}

func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
