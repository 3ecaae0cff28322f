package server

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/diewo77/onlineshop/httpx"
	"github.com/diewo77/onlineshop/internal/config"
	"github.com/diewo77/onlineshop/internal/handlers"
	"github.com/diewo77/onlineshop/internal/services"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB, cfg config.Config) http.Handler {
	mux := http.NewServeMux()
	codes := handlers.Codes{Prefix: cfg.ErrorPrefix, ServiceCode: cfg.ServiceCode}

	// --- Health endpoints ---
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		// Lightweight DB check, no detailed errors in the body
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	stock := services.NewStockService()
	handlers.NewItemHandler(services.NewItemService(db, stock), codes, cfg.PageSize).Register(mux)
	handlers.NewInventoryHandler(services.NewInventoryService(db, stock), codes, cfg.PageSize).Register(mux)
	handlers.NewOrderHandler(services.NewOrderService(db, stock), codes, cfg.PageSize).Register(mux)

	return withRecover(codes, withLogging(withRequestID(mux)))
}

// withRequestID tags each request with an id, reusing the caller's when set.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
			r.Header.Set("X-Request-ID", id)
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s rid=%s", r.Method, r.URL.Path, time.Since(start), r.Header.Get("X-Request-ID"))
	})
}

func withRecover(codes handlers.Codes, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				codes.WriteError(w, fmt.Errorf("panic serving %s %s: %v", r.Method, r.URL.Path, rec))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
