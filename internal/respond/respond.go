// Package respond - standart yanıt zarfı ve sayfalama yardımcıları.
// Her yanıt {success, data?, message?, meta?, timestamp} şeklindedir;
// hatalar {success:false, error:{type, message, details?}, timestamp}.
package respond

import (
	"time"

	"lokanta-backend/internal/apperr"
	"lokanta-backend/internal/database"

	"github.com/gofiber/fiber/v2"
)

type Pagination struct {
	Page        int   `json:"page"`
	PageSize    int   `json:"pageSize"`
	PageCount   int   `json:"pageCount"`
	Total       int64 `json:"total"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// NewPagination - page/pageSize'ı 1'e, total'ı 0'a tabanlar.
func NewPagination(page, pageSize int, total int64) Pagination {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	if total < 0 {
		total = 0
	}

	pageCount := int((total + int64(pageSize) - 1) / int64(pageSize))
	if pageCount < 1 {
		pageCount = 1
	}

	return Pagination{
		Page:        page,
		PageSize:    pageSize,
		PageCount:   pageCount,
		Total:       total,
		HasNextPage: page < pageCount,
		HasPrevPage: page > 1,
	}
}

type Meta struct {
	Pagination *Pagination `json:"pagination,omitempty"`
	Filters    any         `json:"filters,omitempty"`
}

type envelope struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Data      any    `json:"data,omitempty"`
	Meta      *Meta  `json:"meta,omitempty"`
	Timestamp string `json:"timestamp"`
}

type errorBody struct {
	Type    apperr.Kind `json:"type"`
	Message string      `json:"message"`
	Details any         `json:"details,omitempty"`
}

type errorEnvelope struct {
	Success   bool      `json:"success"`
	Error     errorBody `json:"error"`
	Timestamp string    `json:"timestamp"`
}

// Timestamp - tutarlılık için saat veritabanından alınır, sorgu
// başarısız olursa yerel saate düşülür.
func Timestamp() string {
	if database.DB != nil {
		var t time.Time
		if err := database.DB.Raw("SELECT CURRENT_TIMESTAMP").Row().Scan(&t); err == nil {
			return t.UTC().Format(time.RFC3339)
		}
	}
	return time.Now().UTC().Format(time.RFC3339)
}

func Success(c *fiber.Ctx, status int, data any, message string, meta *Meta) error {
	return c.Status(status).JSON(envelope{
		Success:   true,
		Message:   message,
		Data:      data,
		Meta:      meta,
		Timestamp: Timestamp(),
	})
}

// Error - tipli hatayı zarfa çevirir. Bilinmeyen hatalar
// InternalServerError olarak sarılır, mesaj loglama için korunur.
func Error(c *fiber.Ctx, err error) error {
	e := apperr.From(err)
	return c.Status(e.Status).JSON(errorEnvelope{
		Success: false,
		Error: errorBody{
			Type:    e.Kind,
			Message: e.Message,
			Details: e.Details,
		},
		Timestamp: Timestamp(),
	})
}
