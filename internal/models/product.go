package models

import "time"

type Product struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:100;not null"`
	SKU         string `gorm:"size:50;uniqueIndex;not null"` // human-facing identifier
	Type        string `gorm:"size:50"`
	Description string `gorm:"size:500"`
	Rate        *float64
	Quantity    int  `gorm:"not null;default:0"` // on-hand stock, never negative
	Version     uint `gorm:"not null;default:1"` // optimistic lock for quantity updates
	UserID      uint `gorm:"index;not null"`     // owning user
	User        User
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
