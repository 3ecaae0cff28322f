package services

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/diewo77/onlineshop/internal/models"
)

// withWriteLock adds FOR UPDATE where the dialect supports it. sqlite has no
// locking clause; its single-writer model provides the same serialization.
func withWriteLock(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// lockItemStock serializes stock writers on one item. The stock_locks row is
// created on first use, then held locked for the rest of the transaction, so
// every check-then-write sequence on the item runs against a settled ledger.
func lockItemStock(tx *gorm.DB, itemID uint) error {
	lock := models.StockLock{ItemID: itemID}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&lock).Error; err != nil {
		return fmt.Errorf("ensure stock lock row for item %d: %w", itemID, err)
	}
	if err := withWriteLock(tx).First(&lock, "item_id = ?", itemID).Error; err != nil {
		return fmt.Errorf("lock stock row for item %d: %w", itemID, err)
	}
	return nil
}
