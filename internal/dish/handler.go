// Package dish - yemek, yemek kategorisi ve reçete satırı CRUD uçları.
package dish

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

type DishRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	CategoryID  *uint   `json:"category_id"`
	Price       float64 `json:"price"`
	Status      string  `json:"status"`
}

func (r DishRequest) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return apperr.BadRequest("Yemek adı zorunlu")
	}
	if r.Price < 0 {
		return apperr.BadRequest("Fiyat negatif olamaz")
	}
	if r.Status != "" && r.Status != string(models.StatusActive) && r.Status != string(models.StatusInactive) {
		return apperr.BadRequest("Durum 'Active' veya 'Inactive' olmalı")
	}
	return nil
}

func checkCategory(db *gorm.DB, id *uint) error {
	if id == nil {
		return nil
	}
	var count int64
	if err := db.Model(&models.DishCategory{}).Where("id = ?", *id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return apperr.NotFound("Yemek kategorisi bulunamadı")
	}
	return nil
}

// POST /api/dishes
func CreateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body DishRequest
		if err := c.BodyParser(&body); err != nil {
			return apperr.BadRequest("Geçersiz istek gövdesi")
		}
		if err := body.validate(); err != nil {
			return err
		}
		if err := checkCategory(database.DB, body.CategoryID); err != nil {
			return err
		}

		d := models.Dish{
			Name:        strings.TrimSpace(body.Name),
			Description: body.Description,
			CategoryID:  body.CategoryID,
			Price:       body.Price,
			Status:      models.StatusActive,
		}
		if body.Status != "" {
			d.Status = models.RecordStatus(body.Status)
		}
		if err := database.DB.Create(&d).Error; err != nil {
			return err
		}

		return respond.Success(c, fiber.StatusCreated, d, "Yemek oluşturuldu", nil)
	}
}

// GET /api/dishes
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

		q := database.DB.Model(&models.Dish{}).Where("deleted_at IS NULL")
		if s := c.Query("status"); s != "" {
			q = q.Where("status = ?", s)
		}
		if s := c.Query("search"); s != "" {
			q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(s)+"%")
		}
		if id := c.QueryInt("category_id", 0); id > 0 {
			q = q.Where("category_id = ?", id)
		}

		var total int64
		if err := q.Count(&total).Error; err != nil {
			return err
		}

		var dishes []models.Dish
		err := q.Preload("Category").
			Order("name ASC, id ASC").
			Limit(pageSize).Offset((page - 1) * pageSize).
			Find(&dishes).Error
		if err != nil {
			return err
		}

		pagination := respond.NewPagination(page, pageSize, total)
		return respond.Success(c, fiber.StatusOK, dishes, "", &respond.Meta{Pagination: &pagination})
	}
}

func loadDish(c *fiber.Ctx) (*models.Dish, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return nil, apperr.BadRequest("id geçersiz")
	}
	var d models.Dish
	err = database.DB.Preload("Category").
		Where("id = ? AND deleted_at IS NULL", id).First(&d).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Yemek bulunamadı")
		}
		return nil, err
	}
	return &d, nil
}

// GET /api/dishes/:id
func GetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		d, err := loadDish(c)
		if err != nil {
			return err
		}
		return respond.Success(c, fiber.StatusOK, d, "", nil)
	}
}

// PUT /api/dishes/:id
func UpdateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		d, err := loadDish(c)
		if err != nil {
			return err
		}

		var body DishRequest
		if err := c.BodyParser(&body); err != nil {
			return apperr.BadRequest("Geçersiz istek gövdesi")
		}
		if err := body.validate(); err != nil {
			return err
		}
		if err := checkCategory(database.DB, body.CategoryID); err != nil {
			return err
		}

		updates := map[string]any{
			"name":        strings.TrimSpace(body.Name),
			"description": body.Description,
			"category_id": body.CategoryID,
			"price":       body.Price,
		}
		if body.Status != "" {
			updates["status"] = body.Status
		}
		if err := database.DB.Model(d).Updates(updates).Error; err != nil {
			return err
		}

		return respond.Success(c, fiber.StatusOK, d, "Yemek güncellendi", nil)
	}
}

// DELETE /api/dishes/:id (soft delete, reçete satırları da temizlenir)
func DeleteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		d, err := loadDish(c)
		if err != nil {
			return err
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("dish_id = ?", d.ID).Delete(&models.DishIngredient{}).Error; err != nil {
				return err
			}
			return tx.Model(d).Update("deleted_at", time.Now()).Error
		})
		if err != nil {
			return err
		}

		return respond.Success(c, fiber.StatusOK, nil, "Yemek silindi", nil)
	}
}
