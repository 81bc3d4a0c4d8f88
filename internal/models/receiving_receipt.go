package models

import "time"

type ReceiptStatus string

const (
	ReceiptStatusReceived  ReceiptStatus = "Received"
	ReceiptStatusInspected ReceiptStatus = "Inspected"
	ReceiptStatusApproved  ReceiptStatus = "Approved"
	ReceiptStatusRejected  ReceiptStatus = "Rejected"
	ReceiptStatusPartial   ReceiptStatus = "Partial"
)

type ItemCondition string

const (
	ConditionGood      ItemCondition = "Good"
	ConditionDamaged   ItemCondition = "Damaged"
	ConditionDefective ItemCondition = "Defective"
	ConditionPartial   ItemCondition = "Partial"
)

// ReceivingReceipt: immutable record of one receive operation against a
// purchase order. Vendor fields are snapshotted so the receipt stays intact
// even if the PO changes later. Rows are never updated or deleted.
type ReceivingReceipt struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	ReceiptNumber   string `gorm:"size:40;uniqueIndex;not null" json:"receipt_number"`
	PurchaseOrderID uint   `gorm:"index;not null" json:"purchase_order_id"`
	PONumber        string `gorm:"size:30;not null" json:"po_number"`
	VendorName      string `gorm:"size:100;not null" json:"vendor_name"`
	TrackingNumber  string `gorm:"size:40" json:"tracking_number"`
	Carrier         string `gorm:"size:30" json:"carrier"`
	DeliveryDate    *time.Time    `json:"delivery_date"`
	Status          ReceiptStatus `gorm:"size:20;not null" json:"status"`
	Notes           string        `gorm:"size:500" json:"notes"`
	DiscrepancyNotes string       `gorm:"size:500" json:"discrepancy_notes"`
	IdempotencyKey  *string       `gorm:"size:64;uniqueIndex" json:"-"` // guards duplicate receive submissions
	ReceivedBy      uint          `gorm:"index;not null" json:"received_by"`
	CreatedAt       time.Time     `json:"created_at"`

	Items []ReceivingReceiptItem `gorm:"foreignKey:ReceiptID;constraint:OnDelete:CASCADE" json:"items"`
}

type ReceivingReceiptItem struct {
	ID               uint `gorm:"primaryKey" json:"id"`
	ReceiptID        uint `gorm:"index;not null" json:"receipt_id"`
	ProductName      string        `gorm:"size:100;not null" json:"product_name"`
	SKU              string        `gorm:"size:50" json:"sku"`
	QuantityOrdered  int           `gorm:"not null" json:"quantity_ordered"`
	QuantityReceived int           `gorm:"not null" json:"quantity_received"`
	Condition        ItemCondition `gorm:"size:20;not null;default:'Good'" json:"condition"`
	BatchNumber      string        `gorm:"size:50" json:"batch_number"`
	Notes            string        `gorm:"size:255" json:"notes"`
	TotalValue       float64       `gorm:"not null" json:"total_value"`
	CreatedAt        time.Time     `json:"created_at"`
}
