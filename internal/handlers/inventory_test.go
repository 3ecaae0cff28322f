package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/diewo77/onlineshop/internal/models"
	"github.com/diewo77/onlineshop/internal/services"
)

func setupInventoryAPI(t *testing.T) *http.ServeMux {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&models.Item{}, &models.Movement{}, &models.Order{}, &models.OrderCounter{}, &models.StockLock{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	mux := http.NewServeMux()
	NewInventoryHandler(services.NewInventoryService(db, services.NewStockService()), testCodes, 2).Register(mux)
	return mux
}

func TestInventoryCreateAndGet(t *testing.T) {
	mux := setupInventoryAPI(t)

	w := doJSON(t, mux, http.MethodPost, "/api/inventory", `{"itemId":1,"qty":10,"type":"T"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	var created movementResponse
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ItemID != 1 || created.Qty != 10 || created.Type != "T" {
		t.Fatalf("unexpected body: %+v", created)
	}

	w = doJSON(t, mux, http.MethodGet, "/api/inventory/1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}

	// lower-case direction codes are normalized
	w = doJSON(t, mux, http.MethodPost, "/api/inventory", `{"itemId":1,"qty":4,"type":"w"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	var withdrawal movementResponse
	if err := json.Unmarshal(w.Body.Bytes(), &withdrawal); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if withdrawal.Type != "W" {
		t.Fatalf("type=%q, want W", withdrawal.Type)
	}
}

func TestInventoryWithdrawalConflict(t *testing.T) {
	mux := setupInventoryAPI(t)

	doJSON(t, mux, http.MethodPost, "/api/inventory", `{"itemId":1,"qty":3,"type":"T"}`)

	w := doJSON(t, mux, http.MethodPost, "/api/inventory", `{"itemId":1,"qty":5,"type":"W"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d body=%s", w.Code, w.Body.String())
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["errorCode"] != "ORG-000-992" || body["errorDesc"] != "STOCK_NOT_ENOUGH" {
		t.Fatalf("unexpected error body: %v", body)
	}
}

func TestInventoryValidation(t *testing.T) {
	mux := setupInventoryAPI(t)

	w := doJSON(t, mux, http.MethodPost, "/api/inventory", `{"itemId":1,"qty":-2,"type":"X"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
	var body struct {
		Details map[string]string `json:"details"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Details["qty"] != "must_not_be_negative" || body.Details["type"] != "invalid_value" {
		t.Fatalf("details=%v", body.Details)
	}
}

func TestInventoryUpdateAndDelete(t *testing.T) {
	mux := setupInventoryAPI(t)

	doJSON(t, mux, http.MethodPost, "/api/inventory", `{"itemId":1,"qty":10,"type":"T"}`)

	w := doJSON(t, mux, http.MethodPut, "/api/inventory/1", `{"itemId":1,"qty":8,"type":"T"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("update: expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	var updated movementResponse
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.Qty != 8 {
		t.Fatalf("qty=%d, want 8", updated.Qty)
	}

	if w := doJSON(t, mux, http.MethodPut, "/api/inventory/9", `{"itemId":1,"qty":1,"type":"T"}`); w.Code != http.StatusNotFound {
		t.Fatalf("update missing: expected 404 got %d", w.Code)
	}

	if w := doJSON(t, mux, http.MethodDelete, "/api/inventory/1", ""); w.Code != http.StatusOK {
		t.Fatalf("delete: expected 200 got %d", w.Code)
	}
	if w := doJSON(t, mux, http.MethodDelete, "/api/inventory/1", ""); w.Code != http.StatusNotFound {
		t.Fatalf("second delete: expected 404 got %d", w.Code)
	}
}

func TestInventoryListPaging(t *testing.T) {
	mux := setupInventoryAPI(t)

	for i := 0; i < 3; i++ {
		doJSON(t, mux, http.MethodPost, "/api/inventory", `{"itemId":1,"qty":1,"type":"T"}`)
	}
	w := doJSON(t, mux, http.MethodGet, "/api/inventory?page=0&size=2", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	var page movementListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(page.Inventories) != 2 || page.TotalItems != 3 || page.TotalPages != 2 {
		t.Fatalf("page=%+v, want 2 of 3 over 2 pages", page)
	}
}
