package purchasing

import (
	"errors"
	"fmt"
	"time"

	"quantix-backend/internal/audit"
	"quantix-backend/internal/auth"
	"quantix-backend/internal/database"
	"quantix-backend/internal/models"
	"quantix-backend/internal/pricing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReceiveRequest struct {
	Items            []ReceiveLine `json:"items"`
	TrackingNumber   string        `json:"tracking_number"`
	Carrier          string        `json:"carrier"`
	DeliveryDate     string        `json:"delivery_date"` // "2006-01-02", optional
	Notes            string        `json:"notes"`
	DiscrepancyNotes string        `json:"discrepancy_notes"`
}

var errVersionConflict = errors.New("purchase order was modified concurrently")

// PATCH /api/purchase-orders/:id/receive
//
// The whole operation runs in one transaction: item counters, order status,
// receipt creation and product stock increments either all land or none do.
// An optional Idempotency-Key header makes retries safe; a replayed key
// returns the receipt created by the first submission.
func ReceivePOHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ReceiveRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if len(body.Items) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "At least one item is required")
		}

		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		idemKey := c.Get("Idempotency-Key")
		if existing, ok := replayByKey(idemKey); ok {
			// already applied, replay the original result
			return c.JSON(fiber.Map{
				"receipt":  existing,
				"replayed": true,
			})
		}

		var deliveryDate *time.Time
		if body.DeliveryDate != "" {
			d, err := time.Parse("2006-01-02", body.DeliveryDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "delivery_date must be 'YYYY-MM-DD'")
			}
			deliveryDate = &d
		}

		var po models.PurchaseOrder
		if err := database.DB.Preload("Items").First(&po, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Purchase order not found")
		}

		if !Receivable(po.Status) {
			return fiber.NewError(fiber.StatusBadRequest,
				fmt.Sprintf("Goods cannot be received while the order is %s", po.Status))
		}

		newStatus, err := ApplyReceive(po.Items, body.Items)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		receipt := buildReceipt(&po, body, userID, newStatus, deliveryDate, idemKey)

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			// compare-and-swap on version: a concurrent receive on the same
			// order bumps the version first and this update matches no rows
			res := tx.Model(&models.PurchaseOrder{}).
				Where("id = ? AND version = ?", po.ID, po.Version).
				Updates(map[string]interface{}{
					"status":  newStatus,
					"version": po.Version + 1,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return errVersionConflict
			}

			for _, item := range po.Items {
				if err := tx.Model(&models.PurchaseOrderItem{}).
					Where("id = ?", item.ID).
					Updates(map[string]interface{}{
						"received_quantity": item.ReceivedQuantity,
						"pending_quantity":  item.PendingQuantity,
					}).Error; err != nil {
					return err
				}
			}

			if err := tx.Create(&receipt).Error; err != nil {
				return err
			}

			// stock side effect: received catalogued goods go on hand
			for _, line := range body.Items {
				if line.QuantityReceived == 0 {
					continue
				}
				item := findItem(po.Items, line.ItemID)
				if item == nil || item.ProductID == nil {
					continue
				}
				if err := tx.Model(&models.Product{}).
					Where("id = ?", *item.ProductID).
					Updates(map[string]interface{}{
						"quantity": gorm.Expr("quantity + ?", line.QuantityReceived),
						"version":  gorm.Expr("version + 1"),
					}).Error; err != nil {
					return err
				}
			}

			return nil
		})
		if txErr != nil {
			if errors.Is(txErr, errVersionConflict) {
				return fiber.NewError(fiber.StatusConflict, "Purchase order was modified concurrently, retry the receive")
			}
			// a concurrent submit with the same key can pass the replay
			// lookup above and then lose on the unique idempotency_key
			// index; serve the winner's receipt instead of an error
			if existing, ok := replayByKey(idemKey); ok {
				return c.JSON(fiber.Map{
					"receipt":  existing,
					"replayed": true,
				})
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not record the receive operation")
		}

		audit.Write(c, audit.Entry{
			EntityType:  "purchase_order",
			EntityID:    po.ID,
			Action:      models.AuditActionReceive,
			Description: fmt.Sprintf("Purchase order %s received goods, receipt %s, status %s", po.PONumber, receipt.ReceiptNumber, newStatus),
			After:       receipt,
		})

		return c.JSON(fiber.Map{
			"id":      po.ID,
			"status":  newStatus,
			"receipt": receipt,
		})
	}
}

// replayByKey loads the receipt created by an earlier submission with the
// same idempotency key, if any.
func replayByKey(idemKey string) (*models.ReceivingReceipt, bool) {
	if idemKey == "" {
		return nil, false
	}
	var existing models.ReceivingReceipt
	err := database.DB.Preload("Items").
		First(&existing, "idempotency_key = ?", idemKey).Error
	if err != nil {
		return nil, false
	}
	return &existing, true
}

func buildReceipt(po *models.PurchaseOrder, body ReceiveRequest, userID uint, newStatus models.PurchaseOrderStatus, deliveryDate *time.Time, idemKey string) models.ReceivingReceipt {
	receiptStatus := models.ReceiptStatusReceived
	if newStatus == models.POStatusPartiallyReceived {
		receiptStatus = models.ReceiptStatusPartial
	}

	var items []models.ReceivingReceiptItem
	for _, line := range body.Items {
		if line.QuantityReceived == 0 {
			continue
		}
		item := findItem(po.Items, line.ItemID)
		if item == nil {
			continue
		}
		condition := line.Condition
		if condition == "" {
			condition = models.ConditionGood
		}
		items = append(items, models.ReceivingReceiptItem{
			ProductName:      item.ProductName,
			SKU:              item.SKU,
			QuantityOrdered:  item.Quantity,
			QuantityReceived: line.QuantityReceived,
			Condition:        condition,
			BatchNumber:      line.BatchNumber,
			Notes:            line.Notes,
			TotalValue:       pricing.RoundCents(float64(line.QuantityReceived) * item.UnitPrice),
		})
	}

	var keyPtr *string
	if idemKey != "" {
		keyPtr = &idemKey
	}

	return models.ReceivingReceipt{
		ReceiptNumber:    fmt.Sprintf("RCV-%s", uuid.NewString()[:18]),
		PurchaseOrderID:  po.ID,
		PONumber:         po.PONumber,
		VendorName:       po.VendorName,
		TrackingNumber:   body.TrackingNumber,
		Carrier:          body.Carrier,
		DeliveryDate:     deliveryDate,
		Status:           receiptStatus,
		Notes:            body.Notes,
		DiscrepancyNotes: body.DiscrepancyNotes,
		IdempotencyKey:   keyPtr,
		ReceivedBy:       userID,
		Items:            items,
	}
}

func findItem(items []models.PurchaseOrderItem, id uint) *models.PurchaseOrderItem {
	for i := range items {
		if items[i].ID == id {
			return &items[i]
		}
	}
	return nil
}
