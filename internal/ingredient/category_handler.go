package ingredient

import (
	"errors"
	"strings"

	"lokanta-backend/internal/apperr"
	"lokanta-backend/internal/database"
	"lokanta-backend/internal/models"
	"lokanta-backend/internal/respond"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// POST /api/ingredient-categories
func CreateCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return apperr.BadRequest("Geçersiz istek gövdesi")
		}
		if strings.TrimSpace(body.Name) == "" {
			return apperr.BadRequest("Kategori adı zorunlu")
		}

		cat := models.IngredientCategory{
			Name:        strings.TrimSpace(body.Name),
			Description: body.Description,
		}
		if err := database.DB.Create(&cat).Error; err != nil {
			return err
		}

		return respond.Success(c, fiber.StatusCreated, cat, "Kategori oluşturuldu", nil)
	}
}

// GET /api/ingredient-categories
func ListCategoriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var categories []models.IngredientCategory
		if err := database.DB.Order("name ASC").Find(&categories).Error; err != nil {
			return err
		}
		return respond.Success(c, fiber.StatusOK, categories, "", nil)
	}
}

// PUT /api/ingredient-categories/:id
func UpdateCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return apperr.BadRequest("id geçersiz")
		}

		var body CategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return apperr.BadRequest("Geçersiz istek gövdesi")
		}
		if strings.TrimSpace(body.Name) == "" {
			return apperr.BadRequest("Kategori adı zorunlu")
		}

		var cat models.IngredientCategory
		if err := database.DB.First(&cat, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Kategori bulunamadı")
			}
			return err
		}

		cat.Name = strings.TrimSpace(body.Name)
		cat.Description = body.Description
		if err := database.DB.Save(&cat).Error; err != nil {
			return err
		}

		return respond.Success(c, fiber.StatusOK, cat, "Kategori güncellendi", nil)
	}
}

// DELETE /api/ingredient-categories/:id
func DeleteCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return apperr.BadRequest("id geçersiz")
		}

		var refs int64
		if err := database.DB.Model(&models.Ingredient{}).
			Where("category_id = ? AND deleted_at IS NULL", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return apperr.BadRequest("Kategori malzemeler tarafından kullanılıyor")
		}

		res := database.DB.Delete(&models.IngredientCategory{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("Kategori bulunamadı")
		}

		return respond.Success(c, fiber.StatusOK, nil, "Kategori silindi", nil)
	}
}
