package purchasing

import (
	"errors"
	"fmt"

	"quantix-backend/internal/models"
)

// poTransitions: legal next states per current state. Received, Cancelled and
// Closed are terminal. Receive-driven moves go through the same table.
var poTransitions = map[models.PurchaseOrderStatus][]models.PurchaseOrderStatus{
	models.POStatusDraft: {
		models.POStatusSent,
		models.POStatusCancelled,
		models.POStatusClosed,
	},
	models.POStatusSent: {
		models.POStatusAcknowledged,
		models.POStatusPartiallyReceived,
		models.POStatusReceived,
		models.POStatusCancelled,
		models.POStatusClosed,
	},
	models.POStatusAcknowledged: {
		models.POStatusPartiallyReceived,
		models.POStatusReceived,
		models.POStatusCancelled,
		models.POStatusClosed,
	},
	models.POStatusPartiallyReceived: {
		models.POStatusPartiallyReceived,
		models.POStatusReceived,
		models.POStatusCancelled,
		models.POStatusClosed,
	},
}

// CanTransition reports whether a purchase order may move between statuses.
func CanTransition(from, to models.PurchaseOrderStatus) bool {
	for _, s := range poTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns a descriptive error for an illegal move.
func ValidateTransition(from, to models.PurchaseOrderStatus) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("purchase order status cannot change from %q to %q", from, to)
	}
	return nil
}

// Receivable reports whether goods may be received against the order.
func Receivable(status models.PurchaseOrderStatus) bool {
	switch status {
	case models.POStatusSent, models.POStatusAcknowledged, models.POStatusPartiallyReceived:
		return true
	}
	return false
}

// ReceiveLine: one line of a receive request.
type ReceiveLine struct {
	ItemID           uint                 `json:"item_id"`
	QuantityReceived int                  `json:"quantity_received"`
	Condition        models.ItemCondition `json:"condition"`
	BatchNumber      string               `json:"batch_number"`
	Notes            string               `json:"notes"`
}

var (
	ErrNothingReceived = errors.New("at least one line must have quantity_received greater than zero")
)

// ApplyReceive applies receive lines to the order's items in place and
// returns the resulting order status. Received + Pending == Quantity holds
// for every item on both success and failure (items are only mutated after
// all lines validate).
func ApplyReceive(items []models.PurchaseOrderItem, lines []ReceiveLine) (models.PurchaseOrderStatus, error) {
	anyReceived := false

	byID := make(map[uint]int, len(items)) // item id -> index
	for i, item := range items {
		byID[item.ID] = i
	}

	// validate everything before touching counters; lines for the same item
	// are summed so a split line cannot sneak past the pending check
	requested := make(map[uint]int, len(lines))
	for _, line := range lines {
		if line.QuantityReceived < 0 {
			return "", fmt.Errorf("quantity_received cannot be negative for item %d", line.ItemID)
		}
		if line.QuantityReceived == 0 {
			continue
		}
		anyReceived = true

		idx, ok := byID[line.ItemID]
		if !ok {
			return "", fmt.Errorf("item %d does not belong to this purchase order", line.ItemID)
		}
		requested[line.ItemID] += line.QuantityReceived
		if requested[line.ItemID] > items[idx].PendingQuantity {
			return "", fmt.Errorf("item %d: quantity_received %d exceeds pending quantity %d",
				line.ItemID, requested[line.ItemID], items[idx].PendingQuantity)
		}
	}
	if !anyReceived {
		return "", ErrNothingReceived
	}

	for _, line := range lines {
		if line.QuantityReceived == 0 {
			continue
		}
		idx := byID[line.ItemID]
		items[idx].ReceivedQuantity += line.QuantityReceived
		items[idx].PendingQuantity -= line.QuantityReceived
	}

	for _, item := range items {
		if item.PendingQuantity > 0 {
			return models.POStatusPartiallyReceived, nil
		}
	}
	return models.POStatusReceived, nil
}
