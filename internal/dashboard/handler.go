package dashboard

import (
	"quantix-backend/internal/auth"
	"quantix-backend/internal/database"
	"quantix-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

const lowStockThreshold = 5

type statusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// GET /api/dashboard/admin (admin)
func AdminDashboardHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var userCount, productCount, poCount, soCount, shipmentCount int64
		database.DB.Model(&models.User{}).Count(&userCount)
		database.DB.Model(&models.Product{}).Count(&productCount)
		database.DB.Model(&models.PurchaseOrder{}).Count(&poCount)
		database.DB.Model(&models.SalesOrder{}).Count(&soCount)
		database.DB.Model(&models.Shipment{}).Count(&shipmentCount)

		var stockValue float64
		database.DB.Model(&models.Product{}).
			Select("COALESCE(SUM(quantity * COALESCE(rate, 0)), 0)").
			Scan(&stockValue)

		var lowStock int64
		database.DB.Model(&models.Product{}).
			Where("quantity <= ?", lowStockThreshold).
			Count(&lowStock)

		var poByStatus []statusCount
		database.DB.Model(&models.PurchaseOrder{}).
			Select("status, COUNT(*) as count").
			Group("status").
			Scan(&poByStatus)

		var soByStatus []statusCount
		database.DB.Model(&models.SalesOrder{}).
			Select("status, COUNT(*) as count").
			Group("status").
			Scan(&soByStatus)

		var salesTotal float64
		database.DB.Model(&models.SalesOrder{}).
			Where("status <> ?", models.SOStatusCancelled).
			Select("COALESCE(SUM(total), 0)").
			Scan(&salesTotal)

		var recentReceipts []models.ReceivingReceipt
		database.DB.Preload("Items").
			Order("created_at DESC").
			Limit(5).
			Find(&recentReceipts)

		return c.JSON(fiber.Map{
			"users":                    userCount,
			"products":                 productCount,
			"purchase_orders":          poCount,
			"sales_orders":             soCount,
			"shipments":                shipmentCount,
			"stock_value":              stockValue,
			"low_stock_products":       lowStock,
			"purchase_order_breakdown": poByStatus,
			"sales_order_breakdown":    soByStatus,
			"sales_total":              salesTotal,
			"recent_receipts":          recentReceipts,
		})
	}
}

// GET /api/dashboard/staff
// Same shape as the admin dashboard, scoped to the caller's own records.
func StaffDashboardHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var productCount int64
		database.DB.Model(&models.Product{}).Where("user_id = ?", userID).Count(&productCount)

		var stockValue float64
		database.DB.Model(&models.Product{}).
			Where("user_id = ?", userID).
			Select("COALESCE(SUM(quantity * COALESCE(rate, 0)), 0)").
			Scan(&stockValue)

		var lowStock int64
		database.DB.Model(&models.Product{}).
			Where("user_id = ? AND quantity <= ?", userID, lowStockThreshold).
			Count(&lowStock)

		var myOrders int64
		database.DB.Model(&models.SalesOrder{}).Where("created_by = ?", userID).Count(&myOrders)

		var mySalesTotal float64
		database.DB.Model(&models.SalesOrder{}).
			Where("created_by = ? AND status <> ?", userID, models.SOStatusCancelled).
			Select("COALESCE(SUM(total), 0)").
			Scan(&mySalesTotal)

		var myDocuments int64
		database.DB.Model(&models.Document{}).Where("generated_by = ?", userID).Count(&myDocuments)

		return c.JSON(fiber.Map{
			"products":           productCount,
			"stock_value":        stockValue,
			"low_stock_products": lowStock,
			"sales_orders":       myOrders,
			"sales_total":        mySalesTotal,
			"documents":          myDocuments,
		})
	}
}
