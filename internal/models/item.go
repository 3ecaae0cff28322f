package models

import "time"

// Item is a catalog entry. Price is a whole-unit amount; order prices are
// snapshotted from it at issuance time and never recomputed.
type Item struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	Price     int    `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
