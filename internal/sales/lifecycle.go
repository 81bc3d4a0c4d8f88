package sales

import (
	"fmt"

	"quantix-backend/internal/models"
)

// soTransitions: legal next states per current state. Delivered and
// Cancelled are terminal.
var soTransitions = map[models.SalesOrderStatus][]models.SalesOrderStatus{
	models.SOStatusPending:    {models.SOStatusConfirmed, models.SOStatusCancelled},
	models.SOStatusConfirmed:  {models.SOStatusProcessing, models.SOStatusCancelled},
	models.SOStatusProcessing: {models.SOStatusShipped, models.SOStatusCancelled},
	models.SOStatusShipped:    {models.SOStatusDelivered, models.SOStatusCancelled},
}

// CanTransition reports whether a sales order may move between statuses.
func CanTransition(from, to models.SalesOrderStatus) bool {
	for _, s := range soTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns a descriptive error for an illegal move.
func ValidateTransition(from, to models.SalesOrderStatus) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("sales order status cannot change from %q to %q", from, to)
	}
	return nil
}

// OrderLine: one requested line before dedupe.
type OrderLine struct {
	ProductID uint    `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// DedupeLines merges lines that reference the same product, summing
// quantities. The first occurrence's unit price wins and input order is kept.
func DedupeLines(lines []OrderLine) []OrderLine {
	merged := make([]OrderLine, 0, len(lines))
	index := make(map[uint]int, len(lines))
	for _, l := range lines {
		if i, ok := index[l.ProductID]; ok {
			merged[i].Quantity += l.Quantity
			continue
		}
		index[l.ProductID] = len(merged)
		merged = append(merged, l)
	}
	return merged
}
