package purchasing

import (
	"fmt"
	"time"

	"quantix-backend/internal/audit"
	"quantix-backend/internal/auth"
	"quantix-backend/internal/database"
	"quantix-backend/internal/models"
	"quantix-backend/internal/pricing"
	"quantix-backend/internal/shipping"

	"github.com/gofiber/fiber/v2"
)

type CreateItemRequest struct {
	ProductID   *uint   `json:"product_id"` // nil for not-yet-catalogued vendor products
	ProductName string  `json:"product_name"`
	SKU         string  `json:"sku"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

type CreatePORequest struct {
	VendorName    string              `json:"vendor_name"`
	VendorEmail   string              `json:"vendor_email"`
	VendorPhone   string              `json:"vendor_phone"`
	VendorAddress string              `json:"vendor_address"`
	Items         []CreateItemRequest `json:"items"`
	Discount      float64             `json:"discount"`
	ShippingCost  *float64            `json:"shipping_cost"` // manual override; nil means carrier-derived
	Carrier       string              `json:"carrier"`
	Priority      string              `json:"priority"`
	PaymentTerms  string              `json:"payment_terms"`
	Notes         string              `json:"notes"`
}

type POItemResponse struct {
	ID               uint    `json:"id"`
	ProductID        *uint   `json:"product_id"`
	ProductName      string  `json:"product_name"`
	SKU              string  `json:"sku"`
	Quantity         int     `json:"quantity"`
	UnitPrice        float64 `json:"unit_price"`
	ReceivedQuantity int     `json:"received_quantity"`
	PendingQuantity  int     `json:"pending_quantity"`
}

type POResponse struct {
	ID            uint                       `json:"id"`
	PONumber      string                     `json:"po_number"`
	VendorName    string                     `json:"vendor_name"`
	VendorEmail   string                     `json:"vendor_email"`
	VendorPhone   string                     `json:"vendor_phone"`
	VendorAddress string                     `json:"vendor_address"`
	Items         []POItemResponse           `json:"items"`
	Subtotal      float64                    `json:"subtotal"`
	Tax           float64                    `json:"tax"`
	Discount      float64                    `json:"discount"`
	ShippingCost  float64                    `json:"shipping_cost"`
	Carrier       string                     `json:"carrier"`
	Priority      models.POPriority          `json:"priority"`
	PaymentTerms  string                     `json:"payment_terms"`
	Status        models.PurchaseOrderStatus `json:"status"`
	Total         float64                    `json:"total"`
	Notes         string                     `json:"notes"`
	ApprovalNotes string                     `json:"approval_notes,omitempty"`
	CreatedAt     string                     `json:"created_at"`
}

func toPOResponse(po *models.PurchaseOrder) POResponse {
	items := make([]POItemResponse, 0, len(po.Items))
	for _, it := range po.Items {
		items = append(items, POItemResponse{
			ID:               it.ID,
			ProductID:        it.ProductID,
			ProductName:      it.ProductName,
			SKU:              it.SKU,
			Quantity:         it.Quantity,
			UnitPrice:        it.UnitPrice,
			ReceivedQuantity: it.ReceivedQuantity,
			PendingQuantity:  it.PendingQuantity,
		})
	}
	return POResponse{
		ID:            po.ID,
		PONumber:      po.PONumber,
		VendorName:    po.VendorName,
		VendorEmail:   po.VendorEmail,
		VendorPhone:   po.VendorPhone,
		VendorAddress: po.VendorAddress,
		Items:         items,
		Subtotal:      po.Subtotal,
		Tax:           po.Tax,
		Discount:      po.Discount,
		ShippingCost:  po.ShippingCost,
		Carrier:       po.Carrier,
		Priority:      po.Priority,
		PaymentTerms:  po.PaymentTerms,
		Status:        po.Status,
		Total:         po.Total,
		Notes:         po.Notes,
		ApprovalNotes: po.ApprovalNotes,
		CreatedAt:     po.CreatedAt.Format(time.RFC3339),
	}
}

func generatePONumber() string {
	return fmt.Sprintf("PO-%s-%05d", time.Now().Format("20060102"), time.Now().UnixNano()%100000)
}

// POST /api/purchase-orders
func CreatePOHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreatePORequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.VendorName == "" || body.VendorEmail == "" {
			return fiber.NewError(fiber.StatusBadRequest, "vendor_name and vendor_email are required")
		}
		if len(body.Items) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "At least one line item is required")
		}

		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var items []models.PurchaseOrderItem
		var lines []pricing.Line
		totalQty := 0
		for _, it := range body.Items {
			if it.ProductName == "" {
				return fiber.NewError(fiber.StatusBadRequest, "product_name is required for every item")
			}
			if it.Quantity <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "quantity must be greater than zero for every item")
			}
			if it.UnitPrice < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "unit_price cannot be negative")
			}
			if it.ProductID != nil {
				var product models.Product
				if err := database.DB.First(&product, *it.ProductID).Error; err != nil {
					return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Product not found: %d", *it.ProductID))
				}
			}

			items = append(items, models.PurchaseOrderItem{
				ProductID:        it.ProductID,
				ProductName:      it.ProductName,
				SKU:              it.SKU,
				Quantity:         it.Quantity,
				UnitPrice:        it.UnitPrice,
				ReceivedQuantity: 0,
				PendingQuantity:  it.Quantity,
			})
			lines = append(lines, pricing.Line{Quantity: it.Quantity, UnitPrice: it.UnitPrice})
			totalQty += it.Quantity
		}

		shippingCost := shipping.EstimateCost(body.Carrier, totalQty)
		if body.ShippingCost != nil {
			if *body.ShippingCost < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "shipping_cost cannot be negative")
			}
			shippingCost = *body.ShippingCost
		}

		totals := pricing.OrderTotals(lines, body.Discount, shippingCost)

		priority := models.POPriorityMedium
		if body.Priority != "" {
			priority = models.POPriority(body.Priority)
			if !models.ValidPriority(priority) {
				return fiber.NewError(fiber.StatusBadRequest, "priority must be one of Low, Medium, High, Urgent")
			}
		}

		po := models.PurchaseOrder{
			PONumber:      generatePONumber(),
			VendorName:    body.VendorName,
			VendorEmail:   body.VendorEmail,
			VendorPhone:   body.VendorPhone,
			VendorAddress: body.VendorAddress,
			Subtotal:      totals.Subtotal,
			Tax:           totals.Tax,
			Discount:      body.Discount,
			ShippingCost:  shippingCost,
			Carrier:       body.Carrier,
			Priority:      priority,
			PaymentTerms:  body.PaymentTerms,
			Status:        models.POStatusDraft,
			Total:         totals.Total,
			Notes:         body.Notes,
			CreatedBy:     userID,
			Items:         items,
		}

		if err := database.DB.Create(&po).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create purchase order")
		}

		audit.Write(c, audit.Entry{
			EntityType:  "purchase_order",
			EntityID:    po.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Purchase order %s created: %d items, total %.2f", po.PONumber, len(po.Items), po.Total),
			After:       po,
		})

		return c.Status(fiber.StatusCreated).JSON(toPOResponse(&po))
	}
}

// GET /api/purchase-orders
func ListPOsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Preload("Items").Order("created_at DESC")
		if status := c.Query("status"); status != "" {
			q = q.Where("status = ?", status)
		}
		if vendor := c.Query("vendor"); vendor != "" {
			q = q.Where("vendor_name ILIKE ?", "%"+vendor+"%")
		}

		var orders []models.PurchaseOrder
		if err := q.Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list purchase orders")
		}

		resp := make([]POResponse, 0, len(orders))
		for i := range orders {
			resp = append(resp, toPOResponse(&orders[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/purchase-orders/:id
func GetPOHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var po models.PurchaseOrder
		if err := database.DB.Preload("Items").First(&po, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Purchase order not found")
		}
		return c.JSON(toPOResponse(&po))
	}
}

type UpdateStatusRequest struct {
	Status models.PurchaseOrderStatus `json:"status"`
}

// PATCH /api/purchase-orders/:id/status
func UpdatePOStatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body UpdateStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Status == "" {
			return fiber.NewError(fiber.StatusBadRequest, "status is required")
		}

		var po models.PurchaseOrder
		if err := database.DB.First(&po, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Purchase order not found")
		}

		if err := ValidateTransition(po.Status, body.Status); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		before := po.Status
		if err := database.DB.Model(&po).Update("status", body.Status).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update status")
		}

		audit.Write(c, audit.Entry{
			EntityType:  "purchase_order",
			EntityID:    po.ID,
			Action:      models.AuditActionStatus,
			Description: fmt.Sprintf("Purchase order %s: %s -> %s", po.PONumber, before, body.Status),
			Before:      fiber.Map{"status": before},
			After:       fiber.Map{"status": body.Status},
		})

		return c.JSON(fiber.Map{"id": po.ID, "status": body.Status})
	}
}

type ApproveRequest struct {
	Notes string `json:"notes"`
}

// PATCH /api/purchase-orders/:id/approve (admin)
func ApprovePOHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// body is optional, approval notes only
		var body ApproveRequest
		_ = c.BodyParser(&body)

		var po models.PurchaseOrder
		if err := database.DB.First(&po, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Purchase order not found")
		}

		if po.Status != models.POStatusDraft {
			return fiber.NewError(fiber.StatusBadRequest, "Only Draft purchase orders can be approved")
		}

		updates := map[string]interface{}{
			"status":         models.POStatusSent,
			"approval_notes": body.Notes,
		}
		if err := database.DB.Model(&po).Updates(updates).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not approve purchase order")
		}

		audit.Write(c, audit.Entry{
			EntityType:  "purchase_order",
			EntityID:    po.ID,
			Action:      models.AuditActionStatus,
			Description: fmt.Sprintf("Purchase order %s approved and sent", po.PONumber),
			Before:      fiber.Map{"status": models.POStatusDraft},
			After:       fiber.Map{"status": models.POStatusSent, "approval_notes": body.Notes},
		})

		return c.JSON(fiber.Map{"id": po.ID, "status": models.POStatusSent})
	}
}

// GET /api/receiving-receipts
func ListReceiptsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Preload("Items").Order("created_at DESC")
		if poNumber := c.Query("po_number"); poNumber != "" {
			q = q.Where("po_number = ?", poNumber)
		}

		var receipts []models.ReceivingReceipt
		if err := q.Find(&receipts).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list receiving receipts")
		}
		return c.JSON(receipts)
	}
}
