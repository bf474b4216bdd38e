// Package supplier - tedarikçi CRUD uçları.
package supplier

import (
	"errors"
	"strings"
	"time"

	"lokanta-backend/internal/apperr"
	"lokanta-backend/internal/database"
	"lokanta-backend/internal/models"
	"lokanta-backend/internal/respond"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SupplierRequest struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Status  string `json:"status"`
}

func (r SupplierRequest) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return apperr.BadRequest("Tedarikçi adı zorunlu")
	}
	if r.Status != "" && r.Status != string(models.StatusActive) && r.Status != string(models.StatusInactive) {
		return apperr.BadRequest("Durum 'Active' veya 'Inactive' olmalı")
	}
	return nil
}

// POST /api/suppliers
func CreateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body SupplierRequest
		if err := c.BodyParser(&body); err != nil {
			return apperr.BadRequest("Geçersiz istek gövdesi")
		}
		if err := body.validate(); err != nil {
			return err
		}

		s := models.Supplier{
			Name:    strings.TrimSpace(body.Name),
			Contact: body.Contact,
			Phone:   body.Phone,
			Email:   body.Email,
			Address: body.Address,
			Status:  models.StatusActive,
		}
		if body.Status != "" {
			s.Status = models.RecordStatus(body.Status)
		}
		if err := database.DB.Create(&s).Error; err != nil {
			return err
		}

		return respond.Success(c, fiber.StatusCreated, s, "Tedarikçi oluşturuldu", nil)
	}
}

// GET /api/suppliers
func ListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page := c.QueryInt("page", 1)
		pageSize := c.QueryInt("pageSize", 10)
		if page < 1 {
			page = 1
		}
		if pageSize < 1 {
			pageSize = 10
		}

		q := database.DB.Model(&models.Supplier{}).Where("deleted_at IS NULL")
		if s := c.Query("status"); s != "" {
			q = q.Where("status = ?", s)
		}
		if s := c.Query("search"); s != "" {
			term := "%" + strings.ToLower(s) + "%"
			q = q.Where("LOWER(name) LIKE ? OR LOWER(contact) LIKE ?", term, term)
		}

		var total int64
		if err := q.Count(&total).Error; err != nil {
			return err
		}

		var suppliers []models.Supplier
		err := q.Order("name ASC, id ASC").
			Limit(pageSize).Offset((page - 1) * pageSize).
			Find(&suppliers).Error
		if err != nil {
			return err
		}

		pagination := respond.NewPagination(page, pageSize, total)
		return respond.Success(c, fiber.StatusOK, suppliers, "", &respond.Meta{Pagination: &pagination})
	}
}

func loadSupplier(c *fiber.Ctx) (*models.Supplier, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return nil, apperr.BadRequest("id geçersiz")
	}
	var s models.Supplier
	err = database.DB.Where("id = ? AND deleted_at IS NULL", id).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Tedarikçi bulunamadı")
		}
		return nil, err
	}
	return &s, nil
}

// GET /api/suppliers/:id
func GetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := loadSupplier(c)
		if err != nil {
			return err
		}
		return respond.Success(c, fiber.StatusOK, s, "", nil)
	}
}

// PUT /api/suppliers/:id
func UpdateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := loadSupplier(c)
		if err != nil {
			return err
		}

		var body SupplierRequest
		if err := c.BodyParser(&body); err != nil {
			return apperr.BadRequest("Geçersiz istek gövdesi")
		}
		if err := body.validate(); err != nil {
			return err
		}

		updates := map[string]any{
			"name":    strings.TrimSpace(body.Name),
			"contact": body.Contact,
			"phone":   body.Phone,
			"email":   body.Email,
			"address": body.Address,
		}
		if body.Status != "" {
			updates["status"] = body.Status
		}
		if err := database.DB.Model(s).Updates(updates).Error; err != nil {
			return err
		}

		return respond.Success(c, fiber.StatusOK, s, "Tedarikçi güncellendi", nil)
	}
}

// DELETE /api/suppliers/:id (soft delete; geçmiş alışlar tedarikçiyi korur)
func DeleteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := loadSupplier(c)
		if err != nil {
			return err
		}

		if err := database.DB.Model(s).Update("deleted_at", time.Now()).Error; err != nil {
			return err
		}

		return respond.Success(c, fiber.StatusOK, nil, "Tedarikçi silindi", nil)
	}
}
