package inventory

import (
	"fmt"
	"time"

	"quantix-backend/internal/audit"
	"quantix-backend/internal/auth"
	"quantix-backend/internal/database"
	"quantix-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateProductRequest struct {
	Name        string   `json:"name"`
	SKU         string   `json:"sku"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Rate        *float64 `json:"rate"`
	Quantity    int      `json:"quantity"`
}

type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	Type        *string  `json:"type"`
	Description *string  `json:"description"`
	Rate        *float64 `json:"rate"`
	Quantity    *int     `json:"quantity"`
}

type ProductResponse struct {
	ID          uint     `json:"id"`
	Name        string   `json:"name"`
	SKU         string   `json:"sku"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Rate        *float64 `json:"rate"`
	Quantity    int      `json:"quantity"`
	UserID      uint     `json:"user_id"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

func toProductResponse(p *models.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		SKU:         p.SKU,
		Type:        p.Type,
		Description: p.Description,
		Rate:        p.Rate,
		Quantity:    p.Quantity,
		UserID:      p.UserID,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.Format(time.RFC3339),
	}
}

// loadScopedProduct fetches a product the caller may touch: admins reach
// everything, staff only their own items.
func loadScopedProduct(c *fiber.Ctx, id string) (*models.Product, error) {
	var product models.Product
	if err := database.DB.First(&product, "id = ?", id).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Product not found")
	}

	if !auth.IsAdmin(c) {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return nil, err
		}
		if product.UserID != userID {
			return nil, fiber.NewError(fiber.StatusNotFound, "Product not found")
		}
	}
	return &product, nil
}

// POST /api/inventory/items
func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name == "" || body.SKU == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name and sku are required")
		}
		if body.Quantity < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "quantity cannot be negative")
		}

		var count int64
		database.DB.Model(&models.Product{}).Where("sku = ?", body.SKU).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "A product with this SKU already exists")
		}

		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		product := models.Product{
			Name:        body.Name,
			SKU:         body.SKU,
			Type:        body.Type,
			Description: body.Description,
			Rate:        body.Rate,
			Quantity:    body.Quantity,
			UserID:      userID,
		}

		if err := database.DB.Create(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create product")
		}

		audit.Write(c, audit.Entry{
			EntityType:  "product",
			EntityID:    product.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Product %s (%s) created with quantity %d", product.Name, product.SKU, product.Quantity),
			After:       product,
		})

		return c.Status(fiber.StatusCreated).JSON(toProductResponse(&product))
	}
}

// GET /api/inventory/items
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Order("created_at DESC")

		if !auth.IsAdmin(c) {
			userID, err := auth.CurrentUserID(c)
			if err != nil {
				return err
			}
			q = q.Where("user_id = ?", userID)
		}
		if search := c.Query("search"); search != "" {
			like := "%" + search + "%"
			q = q.Where("name ILIKE ? OR sku ILIKE ?", like, like)
		}
		if productType := c.Query("type"); productType != "" {
			q = q.Where("type = ?", productType)
		}

		var products []models.Product
		if err := q.Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list products")
		}

		resp := make([]ProductResponse, 0, len(products))
		for i := range products {
			resp = append(resp, toProductResponse(&products[i]))
		}
		return c.JSON(resp)
	}
}

// GET /api/inventory/items/:id
func GetProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		product, err := loadScopedProduct(c, c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(toProductResponse(product))
	}
}

// PATCH/PUT /api/inventory/items/:id
func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body UpdateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		product, err := loadScopedProduct(c, c.Params("id"))
		if err != nil {
			return err
		}

		before := *product

		updates := map[string]interface{}{}
		if body.Name != nil {
			if *body.Name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "name cannot be empty")
			}
			updates["name"] = *body.Name
		}
		if body.Type != nil {
			updates["type"] = *body.Type
		}
		if body.Description != nil {
			updates["description"] = *body.Description
		}
		if body.Rate != nil {
			updates["rate"] = *body.Rate
		}

		if body.Quantity != nil {
			if *body.Quantity < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "quantity cannot be negative")
			}
			// quantity goes through a version check so a racing receive or
			// sale is not silently overwritten
			updates["quantity"] = *body.Quantity
			updates["version"] = product.Version + 1

			res := database.DB.Model(&models.Product{}).
				Where("id = ? AND version = ?", product.ID, product.Version).
				Updates(updates)
			if res.Error != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not update product")
			}
			if res.RowsAffected == 0 {
				return fiber.NewError(fiber.StatusConflict, "Product was modified concurrently, reload and retry")
			}
		} else if len(updates) > 0 {
			if err := database.DB.Model(product).Updates(updates).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not update product")
			}
		}

		var updated models.Product
		if err := database.DB.First(&updated, product.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not reload product")
		}

		audit.Write(c, audit.Entry{
			EntityType:  "product",
			EntityID:    updated.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Product %s (%s) updated", updated.Name, updated.SKU),
			Before:      before,
			After:       updated,
		})

		return c.JSON(toProductResponse(&updated))
	}
}

// DELETE /api/inventory/items/:id (admin)
func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var product models.Product
		if err := database.DB.First(&product, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}

		// refuse deletion while live orders reference the product
		var refs int64
		database.DB.Model(&models.SalesOrderItem{}).Where("product_id = ?", product.ID).Count(&refs)
		if refs > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Product is referenced by sales orders and cannot be deleted")
		}

		if err := database.DB.Delete(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete product")
		}

		audit.Write(c, audit.Entry{
			EntityType:  "product",
			EntityID:    product.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Product %s (%s) deleted", product.Name, product.SKU),
			Before:      product,
		})

		return c.JSON(fiber.Map{"message": "Product deleted", "id": product.ID})
	}
}
