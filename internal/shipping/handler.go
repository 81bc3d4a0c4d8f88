package shipping

import (
	"fmt"
	"strings"
	"time"

	"quantix-backend/internal/audit"
	"quantix-backend/internal/auth"
	"quantix-backend/internal/database"
	"quantix-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateShipmentRequest struct {
	SalesOrderID      uint    `json:"sales_order_id"`
	Carrier           string  `json:"carrier"`
	ShippingMethod    string  `json:"shipping_method"`
	ShippingAddress   string  `json:"shipping_address"`
	Priority          string  `json:"priority"`
	SignatureRequired bool    `json:"signature_required"`
	InsuranceValue    float64 `json:"insurance_value"`
}

type UpdateStatusRequest struct {
	Status   models.ShipmentStatus `json:"status"`
	Location string                `json:"location"`
	Notes    string                `json:"notes"`
}

type TrackingEventResponse struct {
	Status    models.ShipmentStatus `json:"status"`
	Location  string                `json:"location"`
	Notes     string                `json:"notes"`
	Timestamp string                `json:"timestamp"`
}

type ShipmentResponse struct {
	ID                uint                    `json:"id"`
	ShipmentNumber    string                  `json:"shipment_number"`
	SalesOrderID      uint                    `json:"sales_order_id"`
	Carrier           string                  `json:"carrier"`
	ShippingMethod    string                  `json:"shipping_method"`
	TrackingNumber    string                  `json:"tracking_number"`
	Status            models.ShipmentStatus   `json:"status"`
	ShippingAddress   string                  `json:"shipping_address"`
	Priority          models.POPriority       `json:"priority"`
	SignatureRequired bool                    `json:"signature_required"`
	InsuranceValue    float64                 `json:"insurance_value"`
	Events            []TrackingEventResponse `json:"tracking_history"`
	CreatedAt         string                  `json:"created_at"`
}

func toShipmentResponse(s *models.Shipment) ShipmentResponse {
	events := make([]TrackingEventResponse, 0, len(s.Events))
	for _, e := range s.Events {
		events = append(events, TrackingEventResponse{
			Status:    e.Status,
			Location:  e.Location,
			Notes:     e.Notes,
			Timestamp: e.CreatedAt.Format(time.RFC3339),
		})
	}
	return ShipmentResponse{
		ID:                s.ID,
		ShipmentNumber:    s.ShipmentNumber,
		SalesOrderID:      s.SalesOrderID,
		Carrier:           s.Carrier,
		ShippingMethod:    s.ShippingMethod,
		TrackingNumber:    s.TrackingNumber,
		Status:            s.Status,
		ShippingAddress:   s.ShippingAddress,
		Priority:          s.Priority,
		SignatureRequired: s.SignatureRequired,
		InsuranceValue:    s.InsuranceValue,
		Events:            events,
		CreatedAt:         s.CreatedAt.Format(time.RFC3339),
	}
}

func generateTrackingNumber(carrier string) string {
	prefix := "QX"
	if rate, ok := LookupCarrier(carrier); ok {
		prefix = strings.ToUpper(rate.Name[:2])
	}
	return fmt.Sprintf("%s-%s", prefix, strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:16]))
}

// POST /api/shipments
func CreateShipmentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateShipmentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.SalesOrderID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "sales_order_id is required")
		}
		if body.ShippingAddress == "" {
			return fiber.NewError(fiber.StatusBadRequest, "shipping_address is required")
		}

		var order models.SalesOrder
		if err := database.DB.First(&order, body.SalesOrderID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sales order not found")
		}
		if order.Status != models.SOStatusConfirmed && order.Status != models.SOStatusProcessing {
			return fiber.NewError(fiber.StatusBadRequest, "Shipments can only be created for Confirmed or Processing sales orders")
		}

		priority := models.POPriorityMedium
		if body.Priority != "" {
			priority = models.POPriority(body.Priority)
			if !models.ValidPriority(priority) {
				return fiber.NewError(fiber.StatusBadRequest, "priority must be one of Low, Medium, High, Urgent")
			}
		}

		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		shipment := models.Shipment{
			ShipmentNumber:    fmt.Sprintf("SHP-%s-%d", time.Now().Format("20060102"), time.Now().UnixNano()%100000),
			SalesOrderID:      order.ID,
			Carrier:           body.Carrier,
			ShippingMethod:    body.ShippingMethod,
			TrackingNumber:    generateTrackingNumber(body.Carrier),
			Status:            models.ShipmentStatusPending,
			ShippingAddress:   body.ShippingAddress,
			Priority:          priority,
			SignatureRequired: body.SignatureRequired,
			InsuranceValue:    body.InsuranceValue,
			CreatedBy:         userID,
			Events: []models.TrackingEvent{
				{Status: models.ShipmentStatusPending, Notes: "Shipment created"},
			},
		}

		if err := database.DB.Create(&shipment).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create shipment")
		}

		audit.Write(c, audit.Entry{
			EntityType:  "shipment",
			EntityID:    shipment.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Shipment %s created for order %s", shipment.ShipmentNumber, order.OrderNumber),
			After:       shipment,
		})

		return c.Status(fiber.StatusCreated).JSON(toShipmentResponse(&shipment))
	}
}

// GET /api/shipments
func ListShipmentsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Preload("Events", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).Order("created_at DESC")

		if status := c.Query("status"); status != "" {
			q = q.Where("status = ?", status)
		}

		var shipments []models.Shipment
		if err := q.Find(&shipments).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list shipments")
		}

		resp := make([]ShipmentResponse, 0, len(shipments))
		for i := range shipments {
			resp = append(resp, toShipmentResponse(&shipments[i]))
		}
		return c.JSON(resp)
	}
}

// PATCH /api/shipments/:id/status
// Appends a tracking event rather than overwriting history.
func UpdateShipmentStatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var body UpdateStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Status == "" {
			return fiber.NewError(fiber.StatusBadRequest, "status is required")
		}

		var shipment models.Shipment
		if err := database.DB.First(&shipment, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Shipment not found")
		}

		if err := ValidateTransition(shipment.Status, body.Status); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		before := shipment.Status

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&shipment).Update("status", body.Status).Error; err != nil {
				return err
			}
			event := models.TrackingEvent{
				ShipmentID: shipment.ID,
				Status:     body.Status,
				Location:   body.Location,
				Notes:      body.Notes,
			}
			return tx.Create(&event).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update shipment status")
		}

		audit.Write(c, audit.Entry{
			EntityType:  "shipment",
			EntityID:    shipment.ID,
			Action:      models.AuditActionStatus,
			Description: fmt.Sprintf("Shipment %s: %s -> %s", shipment.ShipmentNumber, before, body.Status),
			Before:      fiber.Map{"status": before},
			After:       fiber.Map{"status": body.Status},
		})

		return c.JSON(fiber.Map{
			"shipment_id": shipment.ID,
			"status":      body.Status,
		})
	}
}

// GET /api/shipments/tracking/:trackingNumber
// Public-shape read: full shipment plus history ordered oldest first.
func TrackShipmentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		trackingNumber := c.Params("trackingNumber")

		var shipment models.Shipment
		err := database.DB.Preload("Events", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).First(&shipment, "tracking_number = ?", trackingNumber).Error
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Tracking number not found")
		}

		return c.JSON(toShipmentResponse(&shipment))
	}
}
