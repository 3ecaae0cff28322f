package services

import (
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/diewo77/onlineshop/internal/models"
)

// InventoryService is the ledger of stock movements. Stock itself is always
// derived from it, never stored, so any write that could drive an item's
// fold negative is checked and committed under that item's stock lock.
type InventoryService struct {
	db    *gorm.DB
	stock StockOracle
}

func NewInventoryService(db *gorm.DB, stock StockOracle) *InventoryService {
	return &InventoryService{db: db, stock: stock}
}

// StockOf reports the current fold for an item; 0 when no movements exist.
func (s *InventoryService) StockOf(itemID uint) (int, error) {
	return s.stock.Available(s.db, itemID)
}

func (s *InventoryService) Get(id uint) (*models.Movement, error) {
	var m models.Movement
	if err := s.db.First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: movement %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("get movement %d: %w", id, err)
	}
	return &m, nil
}

func (s *InventoryService) List(page, size int) ([]models.Movement, int64, error) {
	var total int64
	if err := s.db.Model(&models.Movement{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count movements: %w", err)
	}
	var ms []models.Movement
	if err := s.db.Order("id").Limit(size).Offset(page * size).Find(&ms).Error; err != nil {
		return nil, 0, fmt.Errorf("list movements: %w", err)
	}
	return ms, total, nil
}

// Create appends a movement. A withdrawal that would drive the item's fold
// negative is rejected before anything is written.
func (s *InventoryService) Create(itemID uint, qty int, typ models.MovementType) (*models.Movement, error) {
	m := models.Movement{ItemID: itemID, Qty: qty, Type: typ}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := lockItemStock(tx, itemID); err != nil {
			return err
		}
		if typ == models.MovementWithdrawal {
			stock, err := s.stock.Available(tx, itemID)
			if err != nil {
				return err
			}
			if stock < qty {
				return fmt.Errorf("%w: item %d holds %d, withdrawing %d", ErrInsufficientStock, itemID, stock, qty)
			}
		}
		return tx.Create(&m).Error
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Update replaces a movement in place. The folds of every item the
// replacement touches (the old row's item and the new one) must stay
// non-negative once the old contribution is swapped for the new.
func (s *InventoryService) Update(id, itemID uint, qty int, typ models.MovementType) (*models.Movement, error) {
	var updated models.Movement
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var old models.Movement
		if err := tx.First(&old, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: movement %d", ErrNotFound, id)
			}
			return fmt.Errorf("get movement %d: %w", id, err)
		}

		touched := []uint{old.ItemID}
		if itemID != old.ItemID {
			touched = append(touched, itemID)
		}
		// lock in ascending order so concurrent updates cannot deadlock
		sort.Slice(touched, func(i, j int) bool { return touched[i] < touched[j] })
		for _, tid := range touched {
			if err := lockItemStock(tx, tid); err != nil {
				return err
			}
		}
		for _, tid := range touched {
			stock, err := s.stock.Available(tx, tid)
			if err != nil {
				return err
			}
			after := stock
			if tid == old.ItemID {
				after -= old.Type.Signed(old.Qty)
			}
			if tid == itemID {
				after += typ.Signed(qty)
			}
			if after < 0 {
				return fmt.Errorf("%w: replacing movement %d leaves item %d at %d", ErrInsufficientStock, id, tid, after)
			}
		}

		updated = models.Movement{ID: id, ItemID: itemID, Qty: qty, Type: typ, CreatedAt: old.CreatedAt}
		return tx.Save(&updated).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a movement by id. Deletion is not a movement, so no stock
// guard applies; the caller owns the consequences of rewriting history.
func (s *InventoryService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var m models.Movement
		if err := tx.First(&m, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: movement %d", ErrNotFound, id)
			}
			return fmt.Errorf("get movement %d: %w", id, err)
		}
		return tx.Delete(&models.Movement{}, m.ID).Error
	})
}
