package models

import "time"

type PurchaseOrderStatus string

const (
	POStatusDraft             PurchaseOrderStatus = "Draft"
	POStatusSent              PurchaseOrderStatus = "Sent"
	POStatusAcknowledged      PurchaseOrderStatus = "Acknowledged"
	POStatusPartiallyReceived PurchaseOrderStatus = "Partially Received"
	POStatusReceived          PurchaseOrderStatus = "Received"
	POStatusCancelled         PurchaseOrderStatus = "Cancelled"
	POStatusClosed            PurchaseOrderStatus = "Closed"
)

type POPriority string

const (
	POPriorityLow    POPriority = "Low"
	POPriorityMedium POPriority = "Medium"
	POPriorityHigh   POPriority = "High"
	POPriorityUrgent POPriority = "Urgent"
)

// ValidPriority reports whether p is one of the defined priority levels.
func ValidPriority(p POPriority) bool {
	switch p {
	case POPriorityLow, POPriorityMedium, POPriorityHigh, POPriorityUrgent:
		return true
	}
	return false
}

type PurchaseOrder struct {
	ID            uint   `gorm:"primaryKey"`
	PONumber      string `gorm:"size:30;uniqueIndex;not null"`
	VendorName    string `gorm:"size:100;not null"`
	VendorEmail   string `gorm:"size:100;not null"`
	VendorPhone   string `gorm:"size:30"`
	VendorAddress string `gorm:"size:255"`
	Subtotal      float64 `gorm:"not null"`
	Tax           float64 `gorm:"not null"` // 9% of subtotal
	Discount      float64 `gorm:"not null;default:0"`
	ShippingCost  float64 `gorm:"not null;default:0"`
	Carrier       string  `gorm:"size:30"`
	Priority      POPriority          `gorm:"size:10;not null;default:'Medium'"`
	PaymentTerms  string              `gorm:"size:100"`
	Status        PurchaseOrderStatus `gorm:"size:20;index;not null;default:'Draft'"`
	Total         float64             `gorm:"not null"`
	Notes         string              `gorm:"size:500"`
	ApprovalNotes string              `gorm:"size:500"`
	Version       uint                `gorm:"not null;default:1"` // optimistic lock for receive
	CreatedBy     uint                `gorm:"index;not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Items []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID;constraint:OnDelete:CASCADE"`
}

// PurchaseOrderItem: one ordered line. ReceivedQuantity + PendingQuantity
// must equal Quantity at all times.
type PurchaseOrderItem struct {
	ID               uint `gorm:"primaryKey"`
	PurchaseOrderID  uint `gorm:"index;not null"`
	ProductID        *uint `gorm:"index"` // nil for not-yet-catalogued vendor products
	ProductName      string  `gorm:"size:100;not null"`
	SKU              string  `gorm:"size:50"`
	Quantity         int     `gorm:"not null"`
	UnitPrice        float64 `gorm:"not null"`
	ReceivedQuantity int     `gorm:"not null;default:0"`
	PendingQuantity  int     `gorm:"not null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
