package database

import (
	"log"

	"quantix-backend/internal/config"
	"quantix-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.PurchaseOrder{},
		&models.PurchaseOrderItem{},
		&models.SalesOrder{},
		&models.SalesOrderItem{},
		&models.Shipment{},
		&models.TrackingEvent{},
		&models.ReceivingReceipt{},
		&models.ReceivingReceiptItem{},
		&models.Document{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	log.Println("Database connected, migration complete.")
}

// Close releases the underlying connection pool. Called on shutdown.
func Close() {
	if DB == nil {
		return
	}
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("Could not get sql.DB for close: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database pool: %v", err)
	}
}
