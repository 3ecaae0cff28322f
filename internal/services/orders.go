package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/diewo77/onlineshop/internal/models"
)

const orderCounterID = 1

// OrderService issues orders against ledger-derived stock. The whole
// check-then-persist sequence of create and update runs inside one
// transaction holding the item's stock lock, so two requests racing for the
// same stock serialize instead of both passing the gate.
type OrderService struct {
	db    *gorm.DB
	stock StockOracle
}

func NewOrderService(db *gorm.DB, stock StockOracle) *OrderService {
	return &OrderService{db: db, stock: stock}
}

// Get resolves an order by number: input is upper-cased before lookup,
// matching the upper-case numbers the allocator issues.
func (s *OrderService) Get(orderNo string) (*models.Order, error) {
	var o models.Order
	if err := s.db.First(&o, "order_no = ?", strings.ToUpper(orderNo)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %s", ErrNotFound, orderNo)
		}
		return nil, fmt.Errorf("get order %s: %w", orderNo, err)
	}
	return &o, nil
}

// List returns orders in insertion (id) order.
func (s *OrderService) List(page, size int) ([]models.Order, int64, error) {
	var total int64
	if err := s.db.Model(&models.Order{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}
	var os []models.Order
	if err := s.db.Order("id").Limit(size).Offset(page * size).Find(&os).Error; err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	return os, total, nil
}

// Create admits or rejects an order in a single transaction: stock gate
// first, then item lookup (that ordering is load-bearing: a zero-quantity
// order on a missing item passes the gate and only then reports not-found),
// then order-number allocation and the insert. Nothing is written when the
// gate rejects. Issued orders do not append ledger movements.
func (s *OrderService) Create(itemID uint, qty int) (*models.Order, error) {
	var created models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := lockItemStock(tx, itemID); err != nil {
			return err
		}
		available, err := s.stock.Available(tx, itemID)
		if err != nil {
			return err
		}
		if available < qty {
			return fmt.Errorf("%w: item %d holds %d, ordered %d", ErrInsufficientStock, itemID, available, qty)
		}
		var item models.Item
		if err := tx.First(&item, itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: item %d", ErrNotFound, itemID)
			}
			return fmt.Errorf("get item %d: %w", itemID, err)
		}
		orderNo, err := s.nextOrderNo(tx)
		if err != nil {
			return err
		}
		created = models.Order{OrderNo: orderNo, ItemID: itemID, Qty: qty, Price: qty * item.Price}
		return tx.Create(&created).Error
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Update rewrites an existing order with the same stock and price logic as
// Create, but without reallocating the order number: the internal id is
// reused and the stored number keeps the caller-supplied casing. The stock
// gate runs once, before either lookup.
func (s *OrderService) Update(orderNo string, itemID uint, qty int) (*models.Order, error) {
	var updated models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := lockItemStock(tx, itemID); err != nil {
			return err
		}
		available, err := s.stock.Available(tx, itemID)
		if err != nil {
			return err
		}
		if available < qty {
			return fmt.Errorf("%w: item %d holds %d, ordered %d", ErrInsufficientStock, itemID, available, qty)
		}
		var existing models.Order
		if err := tx.First(&existing, "order_no = ?", strings.ToUpper(orderNo)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: order %s", ErrNotFound, orderNo)
			}
			return fmt.Errorf("get order %s: %w", orderNo, err)
		}
		var item models.Item
		if err := tx.First(&item, itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: item %d", ErrNotFound, itemID)
			}
			return fmt.Errorf("get item %d: %w", itemID, err)
		}
		updated = models.Order{
			ID:        existing.ID,
			OrderNo:   orderNo,
			ItemID:    itemID,
			Qty:       qty,
			Price:     qty * item.Price,
			CreatedAt: existing.CreatedAt,
		}
		return tx.Save(&updated).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes an order by number (case-insensitive) via its internal id.
func (s *OrderService) Delete(orderNo string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Order
		if err := tx.First(&existing, "order_no = ?", strings.ToUpper(orderNo)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: order %s", ErrNotFound, orderNo)
			}
			return fmt.Errorf("get order %s: %w", orderNo, err)
		}
		return tx.Delete(&models.Order{}, existing.ID).Error
	})
}

// nextOrderNo allocates from the order_counters row, held locked for the
// rest of the transaction. The row is seeded once from the newest order so
// the sequence continues over data that predates the counter.
func (s *OrderService) nextOrderNo(tx *gorm.DB) (string, error) {
	var c models.OrderCounter
	err := withWriteLock(tx).First(&c, orderCounterID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		last, serr := lastIssuedOrderNo(tx)
		if serr != nil {
			return "", serr
		}
		seed := models.OrderCounter{ID: orderCounterID, LastNo: last}
		if cerr := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; cerr != nil {
			return "", fmt.Errorf("seed order counter: %w", cerr)
		}
		if lerr := withWriteLock(tx).First(&c, orderCounterID).Error; lerr != nil {
			return "", fmt.Errorf("lock order counter: %w", lerr)
		}
	} else if err != nil {
		return "", fmt.Errorf("lock order counter: %w", err)
	}

	next, err := NextOrderNo(c.LastNo)
	if err != nil {
		return "", err
	}
	if err := tx.Model(&models.OrderCounter{}).Where("id = ?", orderCounterID).Update("last_no", next).Error; err != nil {
		return "", fmt.Errorf("advance order counter: %w", err)
	}
	return next, nil
}

// lastIssuedOrderNo is the legacy "most recently issued" query, kept only to
// seed the counter; "" when no order was ever issued.
func lastIssuedOrderNo(tx *gorm.DB) (string, error) {
	var nos []string
	if err := tx.Model(&models.Order{}).Order("id DESC").Limit(1).Pluck("order_no", &nos).Error; err != nil {
		return "", fmt.Errorf("last order number: %w", err)
	}
	if len(nos) == 0 {
		return "", nil
	}
	return nos[0], nil
}
