package documents

import (
	"fmt"
	"strconv"
	"time"

	"quantix-backend/internal/audit"
	"quantix-backend/internal/auth"
	"quantix-backend/internal/database"
	"quantix-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateDocumentRequest struct {
	Title       string              `json:"title"`
	Type        models.DocumentType `json:"type"`
	Description string              `json:"description"`
	StartDate   string              `json:"start_date"` // "2006-01-02", optional
	EndDate     string              `json:"end_date"`
	FileData    string              `json:"file_data"` // base64 payload
	FileName    string              `json:"file_name"`
	FileSize    int64               `json:"file_size"`
	Tags        string              `json:"tags"`

	TotalStockAdded  int     `json:"total_stock_added"`
	TotalSalesAmount float64 `json:"total_sales_amount"`
	TotalItemsSold   int     `json:"total_items_sold"`
	NumberOfOrders   int     `json:"number_of_orders"`
}

type UpdateDocumentRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Tags        *string `json:"tags"`
}

type DocumentResponse struct {
	ID          uint                `json:"id"`
	Title       string              `json:"title"`
	Type        models.DocumentType `json:"type"`
	Description string              `json:"description"`
	StartDate   *string             `json:"start_date"`
	EndDate     *string             `json:"end_date"`
	FileName    string              `json:"file_name"`
	FileSize    int64               `json:"file_size"`
	GeneratedBy uint                `json:"generated_by"`
	Tags        string              `json:"tags"`
	IsArchived  bool                `json:"is_archived"`

	TotalStockAdded  int     `json:"total_stock_added"`
	TotalSalesAmount float64 `json:"total_sales_amount"`
	TotalItemsSold   int     `json:"total_items_sold"`
	NumberOfOrders   int     `json:"number_of_orders"`

	CreatedAt string `json:"created_at"`
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}

func toDocumentResponse(d *models.Document) DocumentResponse {
	return DocumentResponse{
		ID:               d.ID,
		Title:            d.Title,
		Type:             d.Type,
		Description:      d.Description,
		StartDate:        formatDate(d.StartDate),
		EndDate:          formatDate(d.EndDate),
		FileName:         d.FileName,
		FileSize:         d.FileSize,
		GeneratedBy:      d.GeneratedBy,
		Tags:             d.Tags,
		IsArchived:       d.IsArchived,
		TotalStockAdded:  d.TotalStockAdded,
		TotalSalesAmount: d.TotalSalesAmount,
		TotalItemsSold:   d.TotalItemsSold,
		NumberOfOrders:   d.NumberOfOrders,
		CreatedAt:        d.CreatedAt.Format(time.RFC3339),
	}
}

func validType(t models.DocumentType) bool {
	switch t {
	case models.DocumentTypeReport, models.DocumentTypeInvoice, models.DocumentTypeReceipt,
		models.DocumentTypeOrder, models.DocumentTypeOther:
		return true
	}
	return false
}

func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// scopedQuery limits non-admin callers to their own documents.
func scopedQuery(c *fiber.Ctx) (*gorm.DB, error) {
	q := database.DB.Model(&models.Document{})
	if auth.IsAdmin(c) {
		return q, nil
	}
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		return nil, err
	}
	return q.Where("generated_by = ?", userID), nil
}

// POST /api/documents
func CreateDocumentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateDocumentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Title == "" {
			return fiber.NewError(fiber.StatusBadRequest, "title is required")
		}
		if !validType(body.Type) {
			return fiber.NewError(fiber.StatusBadRequest, "type must be one of report, invoice, receipt, order, other")
		}

		startDate, err := parseOptionalDate(body.StartDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "start_date must be 'YYYY-MM-DD'")
		}
		endDate, err := parseOptionalDate(body.EndDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "end_date must be 'YYYY-MM-DD'")
		}

		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		doc := models.Document{
			Title:            body.Title,
			Type:             body.Type,
			Description:      body.Description,
			StartDate:        startDate,
			EndDate:          endDate,
			FileData:         body.FileData,
			FileName:         body.FileName,
			FileSize:         body.FileSize,
			GeneratedBy:      userID,
			TotalStockAdded:  body.TotalStockAdded,
			TotalSalesAmount: body.TotalSalesAmount,
			TotalItemsSold:   body.TotalItemsSold,
			NumberOfOrders:   body.NumberOfOrders,
			Tags:             body.Tags,
		}

		if err := database.DB.Create(&doc).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create document")
		}

		audit.Write(c, audit.Entry{
			EntityType:  "document",
			EntityID:    doc.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Document %q (%s) created", doc.Title, doc.Type),
		})

		return c.Status(fiber.StatusCreated).JSON(toDocumentResponse(&doc))
	}
}

// GET /api/documents
func ListDocumentsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q, err := scopedQuery(c)
		if err != nil {
			return err
		}

		if docType := c.Query("type"); docType != "" {
			q = q.Where("type = ?", docType)
		}
		if from := c.Query("start_date"); from != "" {
			d, err := time.Parse("2006-01-02", from)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "start_date must be 'YYYY-MM-DD'")
			}
			q = q.Where("created_at >= ?", d)
		}
		if to := c.Query("end_date"); to != "" {
			d, err := time.Parse("2006-01-02", to)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "end_date must be 'YYYY-MM-DD'")
			}
			q = q.Where("created_at < ?", d.AddDate(0, 0, 1))
		}
		if search := c.Query("search"); search != "" {
			like := "%" + search + "%"
			q = q.Where("title ILIKE ? OR description ILIKE ? OR file_name ILIKE ?", like, like, like)
		}
		if !c.QueryBool("include_archived", false) {
			q = q.Where("is_archived = ?", false)
		}

		page, _ := strconv.Atoi(c.Query("page", "1"))
		if page < 1 {
			page = 1
		}
		limit, _ := strconv.Atoi(c.Query("limit", "20"))
		if limit < 1 || limit > 100 {
			limit = 20
		}

		var total int64
		q.Count(&total)

		var docs []models.Document
		if err := q.Order("created_at DESC").
			Offset((page - 1) * limit).
			Limit(limit).
			Find(&docs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list documents")
		}

		resp := make([]DocumentResponse, 0, len(docs))
		for i := range docs {
			resp = append(resp, toDocumentResponse(&docs[i]))
		}

		return c.JSON(fiber.Map{
			"documents": resp,
			"page":      page,
			"limit":     limit,
			"total":     total,
		})
	}
}

func loadScopedDocument(c *fiber.Ctx, id string) (*models.Document, error) {
	var doc models.Document
	if err := database.DB.First(&doc, "id = ?", id).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Document not found")
	}
	if !auth.IsAdmin(c) {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return nil, err
		}
		if doc.GeneratedBy != userID {
			return nil, fiber.NewError(fiber.StatusNotFound, "Document not found")
		}
	}
	return &doc, nil
}

// GET /api/documents/:id
func GetDocumentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		doc, err := loadScopedDocument(c, c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(toDocumentResponse(doc))
	}
}

// GET /api/documents/:id/download
// Returns the stored base64 payload verbatim for client-side blob rebuild.
func DownloadDocumentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		doc, err := loadScopedDocument(c, c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"file_name": doc.FileName,
			"file_data": doc.FileData,
			"file_size": doc.FileSize,
		})
	}
}

// PATCH /api/documents/:id
func UpdateDocumentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body UpdateDocumentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		doc, err := loadScopedDocument(c, c.Params("id"))
		if err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if body.Title != nil {
			if *body.Title == "" {
				return fiber.NewError(fiber.StatusBadRequest, "title cannot be empty")
			}
			updates["title"] = *body.Title
		}
		if body.Description != nil {
			updates["description"] = *body.Description
		}
		if body.Tags != nil {
			updates["tags"] = *body.Tags
		}

		if len(updates) > 0 {
			if err := database.DB.Model(doc).Updates(updates).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not update document")
			}
		}

		return c.JSON(toDocumentResponse(doc))
	}
}

// PATCH /api/documents/:id/archive
// Soft hide for non-admins; the row stays until an admin hard-deletes it.
func ArchiveDocumentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		doc, err := loadScopedDocument(c, c.Params("id"))
		if err != nil {
			return err
		}

		if err := database.DB.Model(doc).Update("is_archived", !doc.IsArchived).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update document")
		}

		return c.JSON(fiber.Map{"id": doc.ID, "is_archived": !doc.IsArchived})
	}
}

// DELETE /api/documents/:id (admin)
func DeleteDocumentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var doc models.Document
		if err := database.DB.First(&doc, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Document not found")
		}

		if err := database.DB.Delete(&doc).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete document")
		}

		audit.Write(c, audit.Entry{
			EntityType:  "document",
			EntityID:    doc.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Document %q deleted", doc.Title),
		})

		return c.JSON(fiber.Map{"message": "Document deleted", "id": doc.ID})
	}
}

// GET /api/documents/stats
func DocumentStatsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q, err := scopedQuery(c)
		if err != nil {
			return err
		}

		var total, archived int64
		var totalSize int64
		q.Session(&gorm.Session{}).Count(&total)
		q.Session(&gorm.Session{}).Where("is_archived = ?", true).Count(&archived)
		q.Session(&gorm.Session{}).Select("COALESCE(SUM(file_size), 0)").Scan(&totalSize)

		type typeCount struct {
			Type  models.DocumentType `json:"type"`
			Count int64               `json:"count"`
		}
		var byType []typeCount
		q.Session(&gorm.Session{}).Select("type, COUNT(*) as count").Group("type").Scan(&byType)

		return c.JSON(fiber.Map{
			"total":      total,
			"archived":   archived,
			"total_size": totalSize,
			"by_type":    byType,
		})
	}
}
