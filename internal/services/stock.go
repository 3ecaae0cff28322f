package services

import (
	"fmt"

	"gorm.io/gorm"
)

// StockOracle answers how many units of an item are available right now.
// It runs against the caller's transaction handle so the answer is covered
// by whatever locks the caller holds; a stock policy with reservations or
// soft-holds could be substituted here without touching order issuance.
type StockOracle interface {
	Available(tx *gorm.DB, itemID uint) (int, error)
}

// StockService derives stock by folding the movement ledger: top-ups count
// positive, withdrawals negative. Stock is never persisted directly.
type StockService struct{}

func NewStockService() *StockService { return &StockService{} }

func (s *StockService) Available(tx *gorm.DB, itemID uint) (int, error) {
	var stock int
	err := tx.Raw(
		`SELECT COALESCE(SUM(CASE type WHEN 'T' THEN qty ELSE -qty END), 0)
		 FROM inventory_movements WHERE item_id = ?`, itemID,
	).Scan(&stock).Error
	if err != nil {
		return 0, fmt.Errorf("stock fold for item %d: %w", itemID, err)
	}
	return stock, nil
}
