package models

import "time"

// MovementType is the direction of a ledger movement, stored as the
// single-character code used by the original schema.
type MovementType string

const (
	MovementTopUp      MovementType = "T"
	MovementWithdrawal MovementType = "W"
)

func (t MovementType) Valid() bool {
	return t == MovementTopUp || t == MovementWithdrawal
}

// Signed returns qty with the sign the movement contributes to stock.
func (t MovementType) Signed(qty int) int {
	if t == MovementWithdrawal {
		return -qty
	}
	return qty
}

// Movement is one entry of the inventory ledger. ItemID does not have to
// reference an existing catalog item.
type Movement struct {
	ID        uint         `gorm:"primaryKey"`
	ItemID    uint         `gorm:"not null;index"`
	Qty       int          `gorm:"not null"`
	Type      MovementType `gorm:"size:1;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Movement) TableName() string { return "inventory_movements" }

// StockLock carries one row per item. Transactions that check stock before
// writing lock this row first, so check-then-write sequences on the same
// item serialize instead of racing.
type StockLock struct {
	ItemID uint `gorm:"primaryKey;autoIncrement:false"`
}
