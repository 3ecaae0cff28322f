package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/diewo77/onlineshop/httpx"
	"github.com/diewo77/onlineshop/internal/models"
	"github.com/diewo77/onlineshop/internal/services"
	"github.com/diewo77/onlineshop/validation"
)

type OrderHandler struct {
	svc      *services.OrderService
	codes    Codes
	pageSize int
}

func NewOrderHandler(svc *services.OrderService, codes Codes, pageSize int) *OrderHandler {
	return &OrderHandler{svc: svc, codes: codes, pageSize: pageSize}
}

func (h *OrderHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/order", h.List)
	mux.HandleFunc("POST /api/order", h.Create)
	mux.HandleFunc("GET /api/order/{orderNo}", h.Get)
	mux.HandleFunc("PUT /api/order/{orderNo}", h.Update)
	mux.HandleFunc("DELETE /api/order/{orderNo}", h.Delete)
}

type orderRequest struct {
	ItemID uint `json:"itemId"`
	Qty    int  `json:"qty"`
}

func (req orderRequest) validate() validation.Violations {
	v := validation.Violations{}
	validation.NonNegativeInt("qty", req.Qty, v)
	return v
}

type orderResponse struct {
	OrderNo string `json:"orderNo"`
	ItemID  uint   `json:"itemId"`
	Qty     int    `json:"qty"`
	Price   int    `json:"price"`
}

type orderListResponse struct {
	Orders     []orderResponse `json:"orders"`
	Page       int             `json:"page"`
	Size       int             `json:"size"`
	TotalItems int64           `json:"totalItems"`
	TotalPages int             `json:"totalPages"`
}

func orderBody(o *models.Order) orderResponse {
	return orderResponse{OrderNo: o.OrderNo, ItemID: o.ItemID, Qty: o.Qty, Price: o.Price}
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r, h.pageSize)
	os, total, err := h.svc.List(page, size)
	if err != nil {
		h.codes.WriteError(w, err)
		return
	}
	body := orderListResponse{
		Orders:     make([]orderResponse, 0, len(os)),
		Page:       page,
		Size:       size,
		TotalItems: total,
		TotalPages: totalPages(total, size),
	}
	for i := range os {
		body.Orders = append(body.Orders, orderBody(&os[i]))
	}
	httpx.JSON(w, http.StatusOK, body)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	o, err := h.svc.Get(r.PathValue("orderNo"))
	if err != nil {
		h.codes.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, orderBody(o))
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.codes.writeViolations(w, map[string]string{"body": "invalid_json"})
		return
	}
	if v := req.validate(); !v.Empty() {
		h.codes.writeViolations(w, v)
		return
	}
	o, err := h.svc.Create(req.ItemID, req.Qty)
	if err != nil {
		h.codes.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, orderBody(o))
}

func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.codes.writeViolations(w, map[string]string{"body": "invalid_json"})
		return
	}
	if v := req.validate(); !v.Empty() {
		h.codes.writeViolations(w, v)
		return
	}
	o, err := h.svc.Update(r.PathValue("orderNo"), req.ItemID, req.Qty)
	if err != nil {
		h.codes.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, orderBody(o))
}

func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	orderNo := r.PathValue("orderNo")
	if err := h.svc.Delete(orderNo); err != nil {
		h.codes.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": orderNo})
}
