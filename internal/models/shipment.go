package models

import "time"

type ShipmentStatus string

const (
	ShipmentStatusPending        ShipmentStatus = "Pending"
	ShipmentStatusPreparing      ShipmentStatus = "Preparing"
	ShipmentStatusReadyToShip    ShipmentStatus = "Ready to Ship"
	ShipmentStatusShipped        ShipmentStatus = "Shipped"
	ShipmentStatusInTransit      ShipmentStatus = "In Transit"
	ShipmentStatusOutForDelivery ShipmentStatus = "Out for Delivery"
	ShipmentStatusDelivered      ShipmentStatus = "Delivered"
	ShipmentStatusFailedDelivery ShipmentStatus = "Failed Delivery"
	ShipmentStatusReturned       ShipmentStatus = "Returned"
	ShipmentStatusCancelled      ShipmentStatus = "Cancelled"
)

type Shipment struct {
	ID                uint   `gorm:"primaryKey"`
	ShipmentNumber    string `gorm:"size:30;uniqueIndex;not null"`
	SalesOrderID      uint   `gorm:"index;not null"`
	SalesOrder        SalesOrder
	Carrier           string         `gorm:"size:30;not null"`
	ShippingMethod    string         `gorm:"size:50"`
	TrackingNumber    string         `gorm:"size:40;uniqueIndex;not null"`
	Status            ShipmentStatus `gorm:"size:20;index;not null;default:'Pending'"`
	ShippingAddress   string         `gorm:"size:255;not null"`
	Priority          POPriority     `gorm:"size:10;not null;default:'Medium'"`
	SignatureRequired bool           `gorm:"not null;default:false"`
	InsuranceValue    float64        `gorm:"not null;default:0"`
	CreatedBy         uint           `gorm:"index;not null"`
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Events []TrackingEvent `gorm:"foreignKey:ShipmentID;constraint:OnDelete:CASCADE"`
}

// TrackingEvent: append-only audit trail of a shipment's status history.
// Rows are never updated or deleted.
type TrackingEvent struct {
	ID         uint           `gorm:"primaryKey"`
	ShipmentID uint           `gorm:"index;not null"`
	Status     ShipmentStatus `gorm:"size:20;not null"`
	Location   string         `gorm:"size:100"`
	Notes      string         `gorm:"size:255"`
	CreatedAt  time.Time
}
