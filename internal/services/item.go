package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/diewo77/onlineshop/internal/models"
)

// ItemWithStock decorates a catalog item with its ledger-derived stock for
// read endpoints.
type ItemWithStock struct {
	models.Item
	RemainingStock int
}

// ItemService is the catalog of items. It performs no cross-entity checks:
// deleting an item that still has orders or movements is permitted and
// leaves those rows referencing the dead id.
type ItemService struct {
	db    *gorm.DB
	stock StockOracle
}

func NewItemService(db *gorm.DB, stock StockOracle) *ItemService {
	return &ItemService{db: db, stock: stock}
}

func (s *ItemService) Get(id uint) (*ItemWithStock, error) {
	var item models.Item
	if err := s.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: item %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("get item %d: %w", id, err)
	}
	stock, err := s.stock.Available(s.db, id)
	if err != nil {
		return nil, err
	}
	return &ItemWithStock{Item: item, RemainingStock: stock}, nil
}

func (s *ItemService) List(page, size int) ([]ItemWithStock, int64, error) {
	var total int64
	if err := s.db.Model(&models.Item{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count items: %w", err)
	}
	var items []models.Item
	if err := s.db.Order("id").Limit(size).Offset(page * size).Find(&items).Error; err != nil {
		return nil, 0, fmt.Errorf("list items: %w", err)
	}
	out := make([]ItemWithStock, 0, len(items))
	for _, it := range items {
		stock, err := s.stock.Available(s.db, it.ID)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, ItemWithStock{Item: it, RemainingStock: stock})
	}
	return out, total, nil
}

func (s *ItemService) Create(name string, price int) (*models.Item, error) {
	item := models.Item{Name: name, Price: price}
	if err := s.db.Create(&item).Error; err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	return &item, nil
}

func (s *ItemService) Update(id uint, name string, price int) (*models.Item, error) {
	var updated models.Item
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Item
		if err := tx.First(&existing, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: item %d", ErrNotFound, id)
			}
			return fmt.Errorf("get item %d: %w", id, err)
		}
		updated = models.Item{ID: id, Name: name, Price: price, CreatedAt: existing.CreatedAt}
		return tx.Save(&updated).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *ItemService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var item models.Item
		if err := tx.First(&item, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: item %d", ErrNotFound, id)
			}
			return fmt.Errorf("get item %d: %w", id, err)
		}
		return tx.Delete(&models.Item{}, item.ID).Error
	})
}
