package models

import "time"

type DocumentType string

const (
	DocumentTypeReport  DocumentType = "report"
	DocumentTypeInvoice DocumentType = "invoice"
	DocumentTypeReceipt DocumentType = "receipt"
	DocumentTypeOrder   DocumentType = "order"
	DocumentTypeOther   DocumentType = "other"
)

type Document struct {
	ID          uint         `gorm:"primaryKey"`
	Title       string       `gorm:"size:200;not null"`
	Type        DocumentType `gorm:"size:20;index;not null"`
	Description string       `gorm:"size:500"`
	StartDate   *time.Time
	EndDate     *time.Time
	FileData    string `gorm:"type:text"` // base64 payload, returned verbatim on download
	FileName    string `gorm:"size:200"`
	FileSize    int64  `gorm:"not null;default:0"`
	GeneratedBy uint   `gorm:"index;not null"`

	// Aggregate metadata filled in for generated reports.
	TotalStockAdded  int     `gorm:"not null;default:0"`
	TotalSalesAmount float64 `gorm:"not null;default:0"`
	TotalItemsSold   int     `gorm:"not null;default:0"`
	NumberOfOrders   int     `gorm:"not null;default:0"`

	Tags       string `gorm:"size:255"` // comma-separated
	IsArchived bool   `gorm:"not null;default:false"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
