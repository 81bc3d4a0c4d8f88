package main

import (
	"log"
	"strings"

	"quantix-backend/internal/audit"
	"quantix-backend/internal/auth"
	"quantix-backend/internal/config"
	"quantix-backend/internal/dashboard"
	"quantix-backend/internal/database"
	"quantix-backend/internal/documents"
	"quantix-backend/internal/inventory"
	"quantix-backend/internal/models"
	"quantix-backend/internal/purchasing"
	"quantix-backend/internal/ratelimit"
	"quantix-backend/internal/reports"
	"quantix-backend/internal/sales"
	"quantix-backend/internal/shipping"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)
	defer database.Close()
	ratelimit.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, Idempotency-Key",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public identity endpoints, rate limited per IP
	api.Post("/user/signup", ratelimit.Middleware(), auth.SignupHandler(cfg))
	api.Post("/user/login", ratelimit.Middleware(), auth.LoginHandler(cfg))

	// Public shipment tracking
	api.Get("/shipments/tracking/:trackingNumber", shipping.TrackShipmentHandler())

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/user/me", auth.MeHandler())

	// Inventory
	protected.Get("/inventory/items", inventory.ListProductsHandler())
	protected.Post("/inventory/items", inventory.CreateProductHandler())
	protected.Get("/inventory/items/:id", inventory.GetProductHandler())
	protected.Patch("/inventory/items/:id", inventory.UpdateProductHandler())
	protected.Put("/inventory/items/:id", inventory.UpdateProductHandler())
	protected.Delete("/inventory/items/:id", auth.RequireRole(models.RoleAdmin), inventory.DeleteProductHandler())

	// Purchase orders
	protected.Get("/purchase-orders", purchasing.ListPOsHandler())
	protected.Post("/purchase-orders", purchasing.CreatePOHandler())
	protected.Get("/purchase-orders/:id", purchasing.GetPOHandler())
	protected.Patch("/purchase-orders/:id/status", purchasing.UpdatePOStatusHandler())
	protected.Patch("/purchase-orders/:id/approve", auth.RequireRole(models.RoleAdmin), purchasing.ApprovePOHandler())
	protected.Patch("/purchase-orders/:id/receive", purchasing.ReceivePOHandler())
	protected.Get("/receiving-receipts", purchasing.ListReceiptsHandler())

	// Sales orders
	protected.Get("/sales", sales.ListOrdersHandler())
	protected.Post("/sales", sales.CreateOrderHandler())
	protected.Get("/sales/:id", sales.GetOrderHandler())
	protected.Patch("/sales/:id/status", sales.UpdateOrderStatusHandler())

	// Shipments
	protected.Get("/shipments", shipping.ListShipmentsHandler())
	protected.Post("/shipments", shipping.CreateShipmentHandler())
	protected.Patch("/shipments/:id/status", shipping.UpdateShipmentStatusHandler())

	// Documents
	protected.Get("/documents/stats", documents.DocumentStatsHandler())
	protected.Get("/documents", documents.ListDocumentsHandler())
	protected.Post("/documents", documents.CreateDocumentHandler())
	protected.Get("/documents/:id", documents.GetDocumentHandler())
	protected.Get("/documents/:id/download", documents.DownloadDocumentHandler())
	protected.Patch("/documents/:id/archive", documents.ArchiveDocumentHandler())
	protected.Patch("/documents/:id", documents.UpdateDocumentHandler())
	protected.Delete("/documents/:id", auth.RequireRole(models.RoleAdmin), documents.DeleteDocumentHandler())

	// Dashboards
	protected.Get("/dashboard/admin", auth.RequireRole(models.RoleAdmin), dashboard.AdminDashboardHandler())
	protected.Get("/dashboard/staff", dashboard.StaffDashboardHandler())

	// Reports
	protected.Get("/reports", auth.RequireRole(models.RoleAdmin), reports.RangeReportHandler())
	protected.Post("/reports/export", auth.RequireRole(models.RoleAdmin), reports.ExportReportHandler())

	// Audit logs
	protected.Get("/audit-logs", auth.RequireRole(models.RoleAdmin), audit.ListAuditLogsHandler())

	log.Println("Server listening on port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
