package audit

import (
	"lokanta-backend/internal/database"
	"lokanta-backend/internal/models"
	"lokanta-backend/internal/respond"

	"github.com/gofiber/fiber/v2"
)

// GET /api/audit-logs?entity_type=sale&page=1&pageSize=20
func ListLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page := c.QueryInt("page", 1)
		pageSize := c.QueryInt("pageSize", 20)
		if page < 1 {
			page = 1
		}
		if pageSize < 1 {
			pageSize = 20
		}

		q := database.DB.Model(&models.AuditLog{})
		if et := c.Query("entity_type"); et != "" {
			q = q.Where("entity_type = ?", et)
		}

		var total int64
		if err := q.Count(&total).Error; err != nil {
			return err
		}

		var logs []models.AuditLog
		if err := q.Order("created_at DESC, id DESC").
			Limit(pageSize).Offset((page - 1) * pageSize).
			Find(&logs).Error; err != nil {
			return err
		}

		pagination := respond.NewPagination(page, pageSize, total)
		return respond.Success(c, fiber.StatusOK, logs, "", &respond.Meta{Pagination: &pagination})
	}
}
