package reports

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"time"

	"quantix-backend/internal/audit"
	"quantix-backend/internal/auth"
	"quantix-backend/internal/database"
	"quantix-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

type rangeReport struct {
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	ProductsCreated int64   `json:"products_created"`
	TotalStockAdded int64   `json:"total_stock_added"`
	StockValue      float64 `json:"stock_value"`
	OrdersCreated   int64   `json:"orders_created"`
	ItemsSold       int64   `json:"items_sold"`
	SalesAmount     float64 `json:"sales_amount"`
}

func parseRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	startStr := c.Query("startDate")
	endStr := c.Query("endDate")
	if startStr == "" || endStr == "" {
		return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "startDate and endDate are required")
	}
	start, err := time.Parse("2006-01-02", startStr)
	if err != nil {
		return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "startDate must be 'YYYY-MM-DD'")
	}
	end, err := time.Parse("2006-01-02", endStr)
	if err != nil {
		return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "endDate must be 'YYYY-MM-DD'")
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, "endDate cannot be before startDate")
	}
	return start, end, nil
}

func buildRangeReport(start, end time.Time) rangeReport {
	endExclusive := end.AddDate(0, 0, 1)

	report := rangeReport{
		StartDate: start.Format("2006-01-02"),
		EndDate:   end.Format("2006-01-02"),
	}

	database.DB.Model(&models.Product{}).
		Where("created_at >= ? AND created_at < ?", start, endExclusive).
		Count(&report.ProductsCreated)

	database.DB.Model(&models.Product{}).
		Where("created_at >= ? AND created_at < ?", start, endExclusive).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&report.TotalStockAdded)

	database.DB.Model(&models.Product{}).
		Where("created_at >= ? AND created_at < ?", start, endExclusive).
		Select("COALESCE(SUM(quantity * COALESCE(rate, 0)), 0)").
		Scan(&report.StockValue)

	database.DB.Model(&models.SalesOrder{}).
		Where("created_at >= ? AND created_at < ? AND status <> ?", start, endExclusive, models.SOStatusCancelled).
		Count(&report.OrdersCreated)

	database.DB.Model(&models.SalesOrderItem{}).
		Joins("JOIN sales_orders ON sales_orders.id = sales_order_items.sales_order_id").
		Where("sales_orders.created_at >= ? AND sales_orders.created_at < ? AND sales_orders.status <> ?",
			start, endExclusive, models.SOStatusCancelled).
		Select("COALESCE(SUM(sales_order_items.quantity), 0)").
		Scan(&report.ItemsSold)

	database.DB.Model(&models.SalesOrder{}).
		Where("created_at >= ? AND created_at < ? AND status <> ?", start, endExclusive, models.SOStatusCancelled).
		Select("COALESCE(SUM(total), 0)").
		Scan(&report.SalesAmount)

	return report
}

// GET /api/reports?startDate&endDate (admin)
func RangeReportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start, end, err := parseRange(c)
		if err != nil {
			return err
		}
		return c.JSON(buildRangeReport(start, end))
	}
}

// POST /api/reports/export (admin)
// Renders the range report as an XLSX workbook and stores it as a document,
// so it shows up in the document list and can be downloaded later.
func ExportReportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start, end, err := parseRange(c)
		if err != nil {
			return err
		}

		report := buildRangeReport(start, end)

		endExclusive := end.AddDate(0, 0, 1)
		var products []models.Product
		if err := database.DB.
			Where("created_at >= ? AND created_at < ?", start, endExclusive).
			Order("created_at ASC").
			Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load products for export")
		}

		f := excelize.NewFile()
		defer f.Close()

		sheet := "Report"
		f.SetSheetName("Sheet1", sheet)

		summary := [][]interface{}{
			{"Quantix inventory report"},
			{"Period", report.StartDate + " to " + report.EndDate},
			{"Products created", report.ProductsCreated},
			{"Total stock added", report.TotalStockAdded},
			{"Stock value", report.StockValue},
			{"Orders created", report.OrdersCreated},
			{"Items sold", report.ItemsSold},
			{"Sales amount", report.SalesAmount},
			{},
			{"Name", "SKU", "Type", "Rate", "Quantity", "Created"},
		}
		for i, row := range summary {
			cell, _ := excelize.CoordinatesToCellName(1, i+1)
			if err := f.SetSheetRow(sheet, cell, &row); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not build report workbook")
			}
		}
		for i, p := range products {
			rate := 0.0
			if p.Rate != nil {
				rate = *p.Rate
			}
			row := []interface{}{p.Name, p.SKU, p.Type, rate, p.Quantity, p.CreatedAt.Format("2006-01-02")}
			cell, _ := excelize.CoordinatesToCellName(1, len(summary)+i+1)
			if err := f.SetSheetRow(sheet, cell, &row); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not build report workbook")
			}
		}

		var buf bytes.Buffer
		if err := f.Write(&buf); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not render report workbook")
		}

		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		fileName := fmt.Sprintf("inventory-report-%s-%s.xlsx", report.StartDate, report.EndDate)
		doc := models.Document{
			Title:            fmt.Sprintf("Inventory report %s to %s", report.StartDate, report.EndDate),
			Type:             models.DocumentTypeReport,
			Description:      "Generated inventory report",
			StartDate:        &start,
			EndDate:          &end,
			FileData:         base64.StdEncoding.EncodeToString(buf.Bytes()),
			FileName:         fileName,
			FileSize:         int64(buf.Len()),
			GeneratedBy:      userID,
			TotalStockAdded:  int(report.TotalStockAdded),
			TotalSalesAmount: report.SalesAmount,
			TotalItemsSold:   int(report.ItemsSold),
			NumberOfOrders:   int(report.OrdersCreated),
		}

		if err := database.DB.Create(&doc).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not store report document")
		}

		audit.Write(c, audit.Entry{
			EntityType:  "document",
			EntityID:    doc.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Report exported for %s to %s", report.StartDate, report.EndDate),
		})

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"document_id": doc.ID,
			"file_name":   fileName,
			"report":      report,
		})
	}
}
