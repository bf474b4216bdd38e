// Package ingredient - malzeme ve malzeme kategorisi CRUD uçları.
package ingredient

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

type IngredientRequest struct {
	Name         string  `json:"name"`
	Unit         string  `json:"unit"`
	CategoryID   *uint   `json:"category_id"`
	Stock        float64 `json:"stock"`
	MinimumStock float64 `json:"minimum_stock"`
	Status       string  `json:"status"`
}

func (r IngredientRequest) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return apperr.BadRequest("Malzeme adı zorunlu")
	}
	if strings.TrimSpace(r.Unit) == "" {
		return apperr.BadRequest("Birim zorunlu (ör: kg, lt, adet)")
	}
	if r.Stock < 0 || r.MinimumStock < 0 {
		return apperr.BadRequest("Stok değerleri negatif olamaz")
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
	if err := db.Model(&models.IngredientCategory{}).Where("id = ?", *id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return apperr.NotFound("Malzeme kategorisi bulunamadı")
	}
	return nil
}

// POST /api/ingredients
func CreateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body IngredientRequest
		if err := c.BodyParser(&body); err != nil {
			return apperr.BadRequest("Geçersiz istek gövdesi")
		}
		if err := body.validate(); err != nil {
			return err
		}
		if err := checkCategory(database.DB, body.CategoryID); err != nil {
			return err
		}

		ing := models.Ingredient{
			Name:         strings.TrimSpace(body.Name),
			Unit:         strings.TrimSpace(body.Unit),
			CategoryID:   body.CategoryID,
			Stock:        body.Stock,
			MinimumStock: body.MinimumStock,
			Status:       models.StatusActive,
		}
		if body.Status != "" {
			ing.Status = models.RecordStatus(body.Status)
		}
		if err := database.DB.Create(&ing).Error; err != nil {
			return err
		}

		return respond.Success(c, fiber.StatusCreated, ing, "Malzeme oluşturuldu", nil)
	}
}

// GET /api/ingredients
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

		q := database.DB.Model(&models.Ingredient{}).Where("deleted_at IS NULL")
		if s := c.Query("status"); s != "" {
			q = q.Where("status = ?", s)
		}
		if s := c.Query("search"); s != "" {
			q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(s)+"%")
		}
		if id := c.QueryInt("category_id", 0); id > 0 {
			q = q.Where("category_id = ?", id)
		}
		if c.QueryBool("low_stock", false) {
			q = q.Where("minimum_stock > 0 AND stock <= minimum_stock")
		}

		var total int64
		if err := q.Count(&total).Error; err != nil {
			return err
		}

		var ingredients []models.Ingredient
		err := q.Preload("Category").
			Order("name ASC, id ASC").
			Limit(pageSize).Offset((page - 1) * pageSize).
			Find(&ingredients).Error
		if err != nil {
			return err
		}

		pagination := respond.NewPagination(page, pageSize, total)
		return respond.Success(c, fiber.StatusOK, ingredients, "", &respond.Meta{Pagination: &pagination})
	}
}

func loadIngredient(c *fiber.Ctx) (*models.Ingredient, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return nil, apperr.BadRequest("id geçersiz")
	}
	var ing models.Ingredient
	err = database.DB.Preload("Category").
		Where("id = ? AND deleted_at IS NULL", id).First(&ing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Malzeme bulunamadı")
		}
		return nil, err
	}
	return &ing, nil
}

// GET /api/ingredients/:id
func GetHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ing, err := loadIngredient(c)
		if err != nil {
			return err
		}
		return respond.Success(c, fiber.StatusOK, ing, "", nil)
	}
}

// PUT /api/ingredients/:id
func UpdateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ing, err := loadIngredient(c)
		if err != nil {
			return err
		}

		var body IngredientRequest
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
			"name":          strings.TrimSpace(body.Name),
			"unit":          strings.TrimSpace(body.Unit),
			"category_id":   body.CategoryID,
			"stock":         body.Stock,
			"minimum_stock": body.MinimumStock,
		}
		if body.Status != "" {
			updates["status"] = body.Status
		}
		if err := database.DB.Model(ing).Updates(updates).Error; err != nil {
			return err
		}

		return respond.Success(c, fiber.StatusOK, ing, "Malzeme güncellendi", nil)
	}
}

// DELETE /api/ingredients/:id (soft delete)
func DeleteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ing, err := loadIngredient(c)
		if err != nil {
			return err
		}

		// Reçetede geçen malzeme silinemez, önce reçeteden çıkarılmalı.
		var refs int64
		if err := database.DB.Model(&models.DishIngredient{}).
			Where("ingredient_id = ?", ing.ID).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return apperr.BadRequest("Malzeme reçetelerde kullanılıyor, önce reçetelerden çıkarın")
		}

		now := time.Now()
		if err := database.DB.Model(ing).Update("deleted_at", now).Error; err != nil {
			return err
		}

		return respond.Success(c, fiber.StatusOK, nil, "Malzeme silindi", nil)
	}
}
