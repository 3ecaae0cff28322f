package models

import "time"

// Order couples the internal numeric id with the human-facing sequential
// order number. OrderNo is stored with whatever casing it was written with;
// lookups upper-case their input before matching.
type Order struct {
	ID        uint   `gorm:"primaryKey"`
	OrderNo   string `gorm:"not null;unique"`
	ItemID    uint   `gorm:"not null"`
	Qty       int    `gorm:"not null"`
	Price     int    `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Order) TableName() string { return "orders" }

// OrderCounter is the durable order-number sequence. A single row (id 1)
// holds the last issued number; the issuing transaction locks it, so
// allocations serialize and the sequence is strictly increasing.
type OrderCounter struct {
	ID     uint   `gorm:"primaryKey;autoIncrement:false"`
	LastNo string `gorm:"not null"`
}
