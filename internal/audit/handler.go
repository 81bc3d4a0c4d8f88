package audit

import (
	"strconv"

	"quantix-backend/internal/database"
	"quantix-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/audit-logs (admin)
func ListAuditLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, _ := strconv.Atoi(c.Query("page", "1"))
		if page < 1 {
			page = 1
		}
		limit, _ := strconv.Atoi(c.Query("limit", "50"))
		if limit < 1 || limit > 200 {
			limit = 50
		}

		q := database.DB.Model(&models.AuditLog{})
		if entityType := c.Query("entity_type"); entityType != "" {
			q = q.Where("entity_type = ?", entityType)
		}
		if action := c.Query("action"); action != "" {
			q = q.Where("action = ?", action)
		}

		var total int64
		q.Count(&total)

		var logs []models.AuditLog
		if err := q.Order("created_at DESC").
			Offset((page - 1) * limit).
			Limit(limit).
			Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list audit logs")
		}

		return c.JSON(fiber.Map{
			"logs":  logs,
			"page":  page,
			"limit": limit,
			"total": total,
		})
	}
}
