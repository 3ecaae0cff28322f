package services

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/diewo77/onlineshop/internal/models"
)

func setupLedgerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Use a unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// single writer connection; sqlite has no FOR UPDATE
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&models.Item{}, &models.Movement{}, &models.Order{}, &models.OrderCounter{}, &models.StockLock{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestStockFold(t *testing.T) {
	db := setupLedgerTestDB(t)
	svc := NewInventoryService(db, NewStockService())

	if stock, err := svc.StockOf(1); err != nil || stock != 0 {
		t.Fatalf("empty ledger: stock=%d err=%v, want 0", stock, err)
	}

	if _, err := svc.Create(1, 10, models.MovementTopUp); err != nil {
		t.Fatalf("top up: %v", err)
	}
	if stock, _ := svc.StockOf(1); stock != 10 {
		t.Fatalf("after top up 10: stock=%d, want 10", stock)
	}

	if _, err := svc.Create(1, 4, models.MovementWithdrawal); err != nil {
		t.Fatalf("withdrawal: %v", err)
	}
	if stock, _ := svc.StockOf(1); stock != 6 {
		t.Fatalf("after withdrawal 4: stock=%d, want 6", stock)
	}

	// movements on other items do not leak into the fold
	if _, err := svc.Create(2, 100, models.MovementTopUp); err != nil {
		t.Fatalf("top up item 2: %v", err)
	}
	if stock, _ := svc.StockOf(1); stock != 6 {
		t.Fatalf("after unrelated top up: stock=%d, want 6", stock)
	}
}

func TestWithdrawalRejectedWhenInsufficient(t *testing.T) {
	db := setupLedgerTestDB(t)
	svc := NewInventoryService(db, NewStockService())

	if _, err := svc.Create(1, 3, models.MovementTopUp); err != nil {
		t.Fatalf("top up: %v", err)
	}
	if _, err := svc.Create(1, 5, models.MovementWithdrawal); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
	// the rejected withdrawal must leave no trace
	var count int64
	db.Model(&models.Movement{}).Count(&count)
	if count != 1 {
		t.Fatalf("movement count=%d, want 1", count)
	}
	if stock, _ := svc.StockOf(1); stock != 3 {
		t.Fatalf("stock=%d, want 3", stock)
	}
}

func TestMovementNotFound(t *testing.T) {
	db := setupLedgerTestDB(t)
	svc := NewInventoryService(db, NewStockService())

	if _, err := svc.Get(42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get: expected not found, got %v", err)
	}
	if _, err := svc.Update(42, 1, 1, models.MovementTopUp); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update: expected not found, got %v", err)
	}
	if err := svc.Delete(42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete: expected not found, got %v", err)
	}
}

func TestMovementUpdateReplacesContribution(t *testing.T) {
	db := setupLedgerTestDB(t)
	svc := NewInventoryService(db, NewStockService())

	if _, err := svc.Create(1, 10, models.MovementTopUp); err != nil {
		t.Fatalf("top up: %v", err)
	}
	w, err := svc.Create(1, 4, models.MovementWithdrawal)
	if err != nil {
		t.Fatalf("withdrawal: %v", err)
	}

	// growing the withdrawal to the full stock is fine: the old 4 is replaced
	if _, err := svc.Update(w.ID, 1, 10, models.MovementWithdrawal); err != nil {
		t.Fatalf("update to 10: %v", err)
	}
	if stock, _ := svc.StockOf(1); stock != 0 {
		t.Fatalf("stock=%d, want 0", stock)
	}

	// one unit more would drive the fold negative
	if _, err := svc.Update(w.ID, 1, 11, models.MovementWithdrawal); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("update to 11: expected insufficient stock, got %v", err)
	}
	if stock, _ := svc.StockOf(1); stock != 0 {
		t.Fatalf("stock after rejected update=%d, want 0", stock)
	}
}

func TestMovementUpdateAcrossItems(t *testing.T) {
	db := setupLedgerTestDB(t)
	svc := NewInventoryService(db, NewStockService())

	top, err := svc.Create(1, 10, models.MovementTopUp)
	if err != nil {
		t.Fatalf("top up: %v", err)
	}
	if _, err := svc.Create(1, 4, models.MovementWithdrawal); err != nil {
		t.Fatalf("withdrawal: %v", err)
	}

	// moving the top-up to another item would leave item 1 at -4
	if _, err := svc.Update(top.ID, 2, 10, models.MovementTopUp); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}

	// with the withdrawal shrunk to zero the move is legal
	var w models.Movement
	if err := db.Where("type = ?", models.MovementWithdrawal).First(&w).Error; err != nil {
		t.Fatalf("find withdrawal: %v", err)
	}
	if _, err := svc.Update(w.ID, 1, 0, models.MovementWithdrawal); err != nil {
		t.Fatalf("shrink withdrawal: %v", err)
	}
	if _, err := svc.Update(top.ID, 2, 10, models.MovementTopUp); err != nil {
		t.Fatalf("move top-up: %v", err)
	}
	if stock, _ := svc.StockOf(2); stock != 10 {
		t.Fatalf("item 2 stock=%d, want 10", stock)
	}
}

func TestMovementListPaging(t *testing.T) {
	db := setupLedgerTestDB(t)
	svc := NewInventoryService(db, NewStockService())

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(1, 1, models.MovementTopUp); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	ms, total, err := svc.List(0, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 3 || len(ms) != 2 {
		t.Fatalf("page 0: total=%d len=%d, want 3/2", total, len(ms))
	}
	ms, _, err = svc.List(1, 2)
	if err != nil {
		t.Fatalf("list page 1: %v", err)
	}
	if len(ms) != 1 {
		t.Fatalf("page 1: len=%d, want 1", len(ms))
	}
}

func TestConcurrentWithdrawalsNeverOversubscribe(t *testing.T) {
	db := setupLedgerTestDB(t)
	svc := NewInventoryService(db, NewStockService())

	if _, err := svc.Create(1, 10, models.MovementTopUp); err != nil {
		t.Fatalf("top up: %v", err)
	}

	var granted atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(1, 1, models.MovementWithdrawal)
			if err == nil {
				granted.Add(1)
				return
			}
			if !errors.Is(err, ErrInsufficientStock) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if granted.Load() != 10 {
		t.Fatalf("granted %d withdrawals, want exactly 10", granted.Load())
	}
	if stock, _ := svc.StockOf(1); stock != 0 {
		t.Fatalf("final stock=%d, want 0", stock)
	}
}
