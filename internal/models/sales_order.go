package models

import "time"

type SalesOrderStatus string

const (
	SOStatusPending    SalesOrderStatus = "Pending"
	SOStatusConfirmed  SalesOrderStatus = "Confirmed"
	SOStatusProcessing SalesOrderStatus = "Processing"
	SOStatusShipped    SalesOrderStatus = "Shipped"
	SOStatusDelivered  SalesOrderStatus = "Delivered"
	SOStatusCancelled  SalesOrderStatus = "Cancelled"
)

type SalesOrder struct {
	ID              uint   `gorm:"primaryKey"`
	OrderNumber     string `gorm:"size:30;uniqueIndex;not null"`
	CustomerName    string `gorm:"size:100;not null"`
	CustomerEmail   string `gorm:"size:100"`
	CustomerPhone   string `gorm:"size:30"`
	CustomerAddress string `gorm:"size:255"`
	Subtotal        float64 `gorm:"not null"`
	Tax             float64 `gorm:"not null"`
	Discount        float64 `gorm:"not null;default:0"`
	ShippingCost    float64 `gorm:"not null;default:0"`
	Carrier         string  `gorm:"size:30"`
	Status          SalesOrderStatus `gorm:"size:20;index;not null;default:'Pending'"`
	Total           float64          `gorm:"not null"`
	CreatedBy       uint             `gorm:"index;not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Items []SalesOrderItem `gorm:"foreignKey:SalesOrderID;constraint:OnDelete:CASCADE"`
}

type SalesOrderItem struct {
	ID           uint `gorm:"primaryKey"`
	SalesOrderID uint `gorm:"index;not null"`
	ProductID    uint `gorm:"index;not null"`
	ProductName  string  `gorm:"size:100;not null"`
	SKU          string  `gorm:"size:50"`
	Quantity     int     `gorm:"not null"`
	UnitPrice    float64 `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
