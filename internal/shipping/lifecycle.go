package shipping

import (
	"fmt"

	"quantix-backend/internal/models"
)

// shipmentTransitions: legal next states per current state. Terminal states
// (Delivered, Returned, Cancelled) have no entries.
var shipmentTransitions = map[models.ShipmentStatus][]models.ShipmentStatus{
	models.ShipmentStatusPending:        {models.ShipmentStatusPreparing, models.ShipmentStatusCancelled},
	models.ShipmentStatusPreparing:      {models.ShipmentStatusReadyToShip, models.ShipmentStatusCancelled},
	models.ShipmentStatusReadyToShip:    {models.ShipmentStatusShipped, models.ShipmentStatusCancelled},
	models.ShipmentStatusShipped:        {models.ShipmentStatusInTransit, models.ShipmentStatusFailedDelivery, models.ShipmentStatusReturned, models.ShipmentStatusCancelled},
	models.ShipmentStatusInTransit:      {models.ShipmentStatusOutForDelivery, models.ShipmentStatusFailedDelivery, models.ShipmentStatusReturned, models.ShipmentStatusCancelled},
	models.ShipmentStatusOutForDelivery: {models.ShipmentStatusDelivered, models.ShipmentStatusFailedDelivery, models.ShipmentStatusReturned, models.ShipmentStatusCancelled},
	models.ShipmentStatusFailedDelivery: {models.ShipmentStatusOutForDelivery, models.ShipmentStatusReturned, models.ShipmentStatusCancelled},
}

// CanTransition reports whether a shipment may move from one status to another.
func CanTransition(from, to models.ShipmentStatus) bool {
	for _, s := range shipmentTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns a descriptive error for an illegal move.
func ValidateTransition(from, to models.ShipmentStatus) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("shipment status cannot change from %q to %q", from, to)
	}
	return nil
}
