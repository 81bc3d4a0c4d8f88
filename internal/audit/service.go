package audit

import (
	"encoding/json"
	"fmt"

	"quantix-backend/internal/auth"
	"quantix-backend/internal/database"
	"quantix-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type Entry struct {
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

// Write records a mutation in the audit log. Best-effort: handlers ignore the
// returned error so a logging failure never fails the request itself.
func Write(c *fiber.Ctx, e Entry) error {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		return err
	}

	userName := ""
	var user models.User
	if err := database.DB.Select("name").First(&user, userID).Error; err == nil {
		userName = user.Name
	}

	// jsonb columns need the JSON literal "null", not an empty string
	beforeStr := "null"
	afterStr := "null"
	if e.Before != nil {
		if b, err := json.Marshal(e.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if e.After != nil {
		if b, err := json.Marshal(e.After); err == nil {
			afterStr = string(b)
		}
	}

	log := models.AuditLog{
		UserID:      userID,
		UserName:    userName,
		EntityType:  e.EntityType,
		EntityID:    e.EntityID,
		Action:      e.Action,
		Description: e.Description,
		BeforeData:  beforeStr,
		AfterData:   afterStr,
	}

	if err := database.DB.Create(&log).Error; err != nil {
		return fmt.Errorf("could not write audit log: %w", err)
	}
	return nil
}
