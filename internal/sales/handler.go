package sales

import (
	"errors"
	"fmt"
	"time"

	"quantix-backend/internal/audit"
	"quantix-backend/internal/auth"
	"quantix-backend/internal/database"
	"quantix-backend/internal/models"
	"quantix-backend/internal/pricing"
	"quantix-backend/internal/shipping"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateOrderRequest struct {
	CustomerName    string      `json:"customer_name"`
	CustomerEmail   string      `json:"customer_email"`
	CustomerPhone   string      `json:"customer_phone"`
	CustomerAddress string      `json:"customer_address"`
	Items           []OrderLine `json:"items"`
	Discount        float64     `json:"discount"`
	ShippingCost    *float64    `json:"shipping_cost"` // manual override; nil means carrier-derived
	Carrier         string      `json:"carrier"`
}

type OrderItemResponse struct {
	ID          uint    `json:"id"`
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	SKU         string  `json:"sku"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

type OrderResponse struct {
	ID              uint                    `json:"id"`
	OrderNumber     string                  `json:"order_number"`
	CustomerName    string                  `json:"customer_name"`
	CustomerEmail   string                  `json:"customer_email"`
	CustomerPhone   string                  `json:"customer_phone"`
	CustomerAddress string                  `json:"customer_address"`
	Items           []OrderItemResponse     `json:"items"`
	Subtotal        float64                 `json:"subtotal"`
	Tax             float64                 `json:"tax"`
	Discount        float64                 `json:"discount"`
	ShippingCost    float64                 `json:"shipping_cost"`
	Carrier         string                  `json:"carrier"`
	Status          models.SalesOrderStatus `json:"status"`
	Total           float64                 `json:"total"`
	CreatedAt       string                  `json:"created_at"`
}

func toOrderResponse(o *models.SalesOrder) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			SKU:         it.SKU,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}
	return OrderResponse{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		CustomerName:    o.CustomerName,
		CustomerEmail:   o.CustomerEmail,
		CustomerPhone:   o.CustomerPhone,
		CustomerAddress: o.CustomerAddress,
		Items:           items,
		Subtotal:        o.Subtotal,
		Tax:             o.Tax,
		Discount:        o.Discount,
		ShippingCost:    o.ShippingCost,
		Carrier:         o.Carrier,
		Status:          o.Status,
		Total:           o.Total,
		CreatedAt:       o.CreatedAt.Format(time.RFC3339),
	}
}

// POST /api/sales
//
// Creating an order reserves stock: every line decrements its product's
// quantity inside the transaction, and the whole order fails if any line
// asks for more than is available.
func CreateOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.CustomerName == "" {
			return fiber.NewError(fiber.StatusBadRequest, "customer_name is required")
		}
		if len(body.Items) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "At least one line item is required")
		}
		for _, l := range body.Items {
			if l.ProductID == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "product_id is required for every item")
			}
			if l.Quantity <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "quantity must be greater than zero for every item")
			}
		}

		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		mergedLines := DedupeLines(body.Items)

		var order models.SalesOrder
		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			var items []models.SalesOrderItem
			var priceLines []pricing.Line
			totalQty := 0

			for _, line := range mergedLines {
				var product models.Product
				if err := tx.First(&product, line.ProductID).Error; err != nil {
					return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Product not found: %d", line.ProductID))
				}
				if line.Quantity > product.Quantity {
					return fiber.NewError(fiber.StatusBadRequest,
						fmt.Sprintf("Insufficient stock for %s: requested %d, available %d", product.Name, line.Quantity, product.Quantity))
				}

				unitPrice := line.UnitPrice
				if unitPrice == 0 && product.Rate != nil {
					unitPrice = *product.Rate
				}

				// guarded decrement: version CAS plus a quantity floor so a
				// concurrent order can never drive stock negative
				res := tx.Model(&models.Product{}).
					Where("id = ? AND version = ? AND quantity >= ?", product.ID, product.Version, line.Quantity).
					Updates(map[string]interface{}{
						"quantity": gorm.Expr("quantity - ?", line.Quantity),
						"version":  gorm.Expr("version + 1"),
					})
				if res.Error != nil {
					return res.Error
				}
				if res.RowsAffected == 0 {
					return fiber.NewError(fiber.StatusConflict,
						fmt.Sprintf("Stock for %s changed concurrently, retry the order", product.Name))
				}

				items = append(items, models.SalesOrderItem{
					ProductID:   product.ID,
					ProductName: product.Name,
					SKU:         product.SKU,
					Quantity:    line.Quantity,
					UnitPrice:   unitPrice,
				})
				priceLines = append(priceLines, pricing.Line{Quantity: line.Quantity, UnitPrice: unitPrice})
				totalQty += line.Quantity
			}

			shippingCost := shipping.EstimateCost(body.Carrier, totalQty)
			if body.ShippingCost != nil {
				if *body.ShippingCost < 0 {
					return fiber.NewError(fiber.StatusBadRequest, "shipping_cost cannot be negative")
				}
				shippingCost = *body.ShippingCost
			}

			totals := pricing.OrderTotals(priceLines, body.Discount, shippingCost)

			order = models.SalesOrder{
				OrderNumber:     fmt.Sprintf("SO-%s-%05d", time.Now().Format("20060102"), time.Now().UnixNano()%100000),
				CustomerName:    body.CustomerName,
				CustomerEmail:   body.CustomerEmail,
				CustomerPhone:   body.CustomerPhone,
				CustomerAddress: body.CustomerAddress,
				Subtotal:        totals.Subtotal,
				Tax:             totals.Tax,
				Discount:        body.Discount,
				ShippingCost:    shippingCost,
				Carrier:         body.Carrier,
				Status:          models.SOStatusPending,
				Total:           totals.Total,
				CreatedBy:       userID,
				Items:           items,
			}
			return tx.Create(&order).Error
		})
		if txErr != nil {
			var fe *fiber.Error
			if errors.As(txErr, &fe) {
				return fe
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create sales order")
		}

		audit.Write(c, audit.Entry{
			EntityType:  "sales_order",
			EntityID:    order.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Sales order %s created: %d items, total %.2f", order.OrderNumber, len(order.Items), order.Total),
			After:       order,
		})

		return c.Status(fiber.StatusCreated).JSON(toOrderResponse(&order))
	}
}

// GET /api/sales
func ListOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Preload("Items").Order("created_at DESC")
		if status := c.Query("status"); status != "" {
			q = q.Where("status = ?", status)
		}

		var orders []models.SalesOrder
		if err := q.Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list sales orders")
		}

		resp := make([]OrderResponse, 0, len(orders))
		for i := range orders {
			resp = append(resp, toOrderResponse(&orders[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/sales/:id
func GetOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var order models.SalesOrder
		if err := database.DB.Preload("Items").First(&order, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sales order not found")
		}
		return c.JSON(toOrderResponse(&order))
	}
}

type UpdateStatusRequest struct {
	Status models.SalesOrderStatus `json:"status"`
}

// PATCH /api/sales/:id/status
func UpdateOrderStatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body UpdateStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Status == "" {
			return fiber.NewError(fiber.StatusBadRequest, "status is required")
		}

		var order models.SalesOrder
		if err := database.DB.Preload("Items").First(&order, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sales order not found")
		}

		if err := ValidateTransition(order.Status, body.Status); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		before := order.Status
		restock := body.Status == models.SOStatusCancelled &&
			(before == models.SOStatusPending || before == models.SOStatusConfirmed)

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&order).Update("status", body.Status).Error; err != nil {
				return err
			}
			if !restock {
				return nil
			}
			// goods were never shipped, put the reserved stock back
			for _, item := range order.Items {
				if err := tx.Model(&models.Product{}).
					Where("id = ?", item.ProductID).
					Updates(map[string]interface{}{
						"quantity": gorm.Expr("quantity + ?", item.Quantity),
						"version":  gorm.Expr("version + 1"),
					}).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if txErr != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update order status")
		}

		audit.Write(c, audit.Entry{
			EntityType:  "sales_order",
			EntityID:    order.ID,
			Action:      models.AuditActionStatus,
			Description: fmt.Sprintf("Sales order %s: %s -> %s", order.OrderNumber, before, body.Status),
			Before:      fiber.Map{"status": before},
			After:       fiber.Map{"status": body.Status},
		})

		return c.JSON(fiber.Map{"id": order.ID, "status": body.Status})
	}
}
