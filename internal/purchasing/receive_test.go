package purchasing

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"quantix-backend/internal/auth"
	"quantix-backend/internal/database"
	"quantix-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestBuildReceiptCarriesLineDetails(t *testing.T) {
	po := &models.PurchaseOrder{
		ID:         7,
		PONumber:   "PO-20260801-00042",
		VendorName: "Acme Supply",
		Items: []models.PurchaseOrderItem{
			{ID: 1, ProductName: "Widget", SKU: "WID-1", Quantity: 10, UnitPrice: 2.00},
		},
	}
	body := ReceiveRequest{
		Items: []ReceiveLine{
			{ItemID: 1, QuantityReceived: 4, Condition: models.ConditionDamaged, BatchNumber: "B-19", Notes: "two boxes dented"},
		},
		Notes: "left at dock",
	}

	receipt := buildReceipt(po, body, 3, models.POStatusPartiallyReceived, nil, "key-1")

	if receipt.Status != models.ReceiptStatusPartial {
		t.Errorf("status = %s, want Partial", receipt.Status)
	}
	if receipt.VendorName != "Acme Supply" || receipt.PONumber != "PO-20260801-00042" {
		t.Errorf("vendor snapshot not carried: %s / %s", receipt.VendorName, receipt.PONumber)
	}
	if receipt.IdempotencyKey == nil || *receipt.IdempotencyKey != "key-1" {
		t.Error("idempotency key not carried onto the receipt")
	}
	if len(receipt.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(receipt.Items))
	}
	item := receipt.Items[0]
	if item.Notes != "two boxes dented" {
		t.Errorf("item notes = %q, want the line notes", item.Notes)
	}
	if item.Condition != models.ConditionDamaged || item.BatchNumber != "B-19" {
		t.Errorf("condition/batch = %s/%s, want Damaged/B-19", item.Condition, item.BatchNumber)
	}
	if item.TotalValue != 8.00 {
		t.Errorf("total value = %.2f, want 8.00", item.TotalValue)
	}
}

func TestBuildReceiptDefaultsConditionToGood(t *testing.T) {
	po := &models.PurchaseOrder{
		Items: []models.PurchaseOrderItem{{ID: 1, ProductName: "Widget", Quantity: 5, UnitPrice: 1.00}},
	}
	body := ReceiveRequest{Items: []ReceiveLine{{ItemID: 1, QuantityReceived: 5}}}

	receipt := buildReceipt(po, body, 1, models.POStatusReceived, nil, "")

	if receipt.IdempotencyKey != nil {
		t.Error("empty idempotency key must be stored as NULL, not empty string")
	}
	if receipt.Items[0].Condition != models.ConditionGood {
		t.Errorf("condition = %s, want Good", receipt.Items[0].Condition)
	}
}

// testDB connects to the database named by TEST_DATABASE_DSN and resets the
// purchasing tables. Tests using it are skipped when the variable is unset.
func testDB(t *testing.T) {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("could not connect to test database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{}, &models.Product{},
		&models.PurchaseOrder{}, &models.PurchaseOrderItem{},
		&models.ReceivingReceipt{}, &models.ReceivingReceiptItem{},
		&models.AuditLog{},
	); err != nil {
		t.Fatalf("could not migrate test database: %v", err)
	}
	db.Exec("TRUNCATE users, products, purchase_orders, purchase_order_items, receiving_receipts, receiving_receipt_items, audit_logs RESTART IDENTITY CASCADE")
	database.DB = db
}

func testReceiveApp() *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(auth.CtxUserIDKey, uint(1))
		c.Locals(auth.CtxUserRoleKey, models.RoleStaff)
		return c.Next()
	})
	app.Patch("/purchase-orders/:id/receive", ReceivePOHandler())
	return app
}

func receiveRequest(t *testing.T, app *fiber.App, poID string, idemKey string, body ReceiveRequest) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPatch, "/purchase-orders/"+poID+"/receive", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if idemKey != "" {
		req.Header.Set("Idempotency-Key", idemKey)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestReceiveWithIdempotencyKeyAppliesOnce(t *testing.T) {
	testDB(t)
	app := testReceiveApp()

	product := models.Product{Name: "Widget", SKU: "WID-1", Quantity: 2, UserID: 1}
	if err := database.DB.Create(&product).Error; err != nil {
		t.Fatal(err)
	}
	productID := product.ID

	po := models.PurchaseOrder{
		PONumber:    "PO-TEST-00001",
		VendorName:  "Acme Supply",
		VendorEmail: "orders@acme.example",
		Status:      models.POStatusSent,
		CreatedBy:   1,
		Items: []models.PurchaseOrderItem{
			{ProductID: &productID, ProductName: "Widget", SKU: "WID-1", Quantity: 10, UnitPrice: 2.00, PendingQuantity: 10},
		},
	}
	if err := database.DB.Create(&po).Error; err != nil {
		t.Fatal(err)
	}

	body := ReceiveRequest{Items: []ReceiveLine{{ItemID: po.Items[0].ID, QuantityReceived: 4}}}

	first := receiveRequest(t, app, "1", "retry-key-1", body)
	if first.StatusCode != fiber.StatusOK {
		t.Fatalf("first receive status = %d, want 200", first.StatusCode)
	}
	second := receiveRequest(t, app, "1", "retry-key-1", body)
	if second.StatusCode != fiber.StatusOK {
		t.Fatalf("replayed receive status = %d, want 200", second.StatusCode)
	}

	var replay struct {
		Replayed bool `json:"replayed"`
	}
	if err := json.NewDecoder(second.Body).Decode(&replay); err != nil {
		t.Fatal(err)
	}
	if !replay.Replayed {
		t.Error("second submission with the same key should be flagged as a replay")
	}

	// stock moved exactly once: 2 on hand + 4 received
	var got models.Product
	if err := database.DB.First(&got, productID).Error; err != nil {
		t.Fatal(err)
	}
	if got.Quantity != 6 {
		t.Errorf("product quantity = %d, want 6 (single application)", got.Quantity)
	}

	var receipts int64
	database.DB.Model(&models.ReceivingReceipt{}).Count(&receipts)
	if receipts != 1 {
		t.Errorf("receipts = %d, want 1", receipts)
	}
}

func TestReplayByKeyFindsExistingReceipt(t *testing.T) {
	testDB(t)

	key := "race-key-1"
	receipt := models.ReceivingReceipt{
		ReceiptNumber:   "RCV-TEST-1",
		PurchaseOrderID: 1,
		PONumber:        "PO-TEST-00001",
		VendorName:      "Acme Supply",
		Status:          models.ReceiptStatusPartial,
		IdempotencyKey:  &key,
		ReceivedBy:      1,
	}
	if err := database.DB.Create(&receipt).Error; err != nil {
		t.Fatal(err)
	}

	got, ok := replayByKey(key)
	if !ok {
		t.Fatal("expected the stored receipt to be found by its key")
	}
	if got.ReceiptNumber != "RCV-TEST-1" {
		t.Errorf("receipt number = %s, want RCV-TEST-1", got.ReceiptNumber)
	}

	if _, ok := replayByKey("unknown-key"); ok {
		t.Error("an unknown key must not match")
	}
	if _, ok := replayByKey(""); ok {
		t.Error("an empty key must never match")
	}
}
