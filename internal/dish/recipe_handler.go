package dish

import (
	"errors"

	"lokanta-backend/internal/apperr"
	"lokanta-backend/internal/database"
	"lokanta-backend/internal/models"
	"lokanta-backend/internal/respond"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type RecipeLineRequest struct {
	IngredientID uint    `json:"ingredient_id"`
	QuantityUsed float64 `json:"quantity_used"`
}

// GET /api/dishes/:id/ingredients - yemeğin reçetesi
func ListRecipeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		d, err := loadDish(c)
		if err != nil {
			return err
		}

		var lines []models.DishIngredient
		err = database.DB.Preload("Ingredient").
			Where("dish_id = ?", d.ID).
			Order("id ASC").
			Find(&lines).Error
		if err != nil {
			return err
		}

		return respond.Success(c, fiber.StatusOK, lines, "", nil)
	}
}

// POST /api/dishes/:id/ingredients - reçeteye satır ekler.
// Aynı (yemek, malzeme) ikilisi için ikinci satır reddedilir.
func AddRecipeLineHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		d, err := loadDish(c)
		if err != nil {
			return err
		}

		var body RecipeLineRequest
		if err := c.BodyParser(&body); err != nil {
			return apperr.BadRequest("Geçersiz istek gövdesi")
		}
		if body.IngredientID == 0 {
			return apperr.BadRequest("ingredient_id zorunlu")
		}
		if body.QuantityUsed <= 0 {
			return apperr.BadRequest("Porsiyon başına miktar sıfırdan büyük olmalı")
		}

		var ingCount int64
		err = database.DB.Model(&models.Ingredient{}).
			Where("id = ? AND deleted_at IS NULL", body.IngredientID).
			Count(&ingCount).Error
		if err != nil {
			return err
		}
		if ingCount == 0 {
			return apperr.NotFound("Malzeme bulunamadı")
		}

		var dup int64
		err = database.DB.Model(&models.DishIngredient{}).
			Where("dish_id = ? AND ingredient_id = ?", d.ID, body.IngredientID).
			Count(&dup).Error
		if err != nil {
			return err
		}
		if dup > 0 {
			return apperr.BadRequest("Bu malzeme reçetede zaten var")
		}

		line := models.DishIngredient{
			DishID:       d.ID,
			IngredientID: body.IngredientID,
			QuantityUsed: body.QuantityUsed,
		}
		if err := database.DB.Create(&line).Error; err != nil {
			return err
		}

		return respond.Success(c, fiber.StatusCreated, line, "Reçete satırı eklendi", nil)
	}
}

// PUT /api/dishes/:id/ingredients/:lineId - satır miktarını günceller
func UpdateRecipeLineHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		d, err := loadDish(c)
		if err != nil {
			return err
		}
		lineID, err := c.ParamsInt("lineId")
		if err != nil || lineID <= 0 {
			return apperr.BadRequest("lineId geçersiz")
		}

		var body RecipeLineRequest
		if err := c.BodyParser(&body); err != nil {
			return apperr.BadRequest("Geçersiz istek gövdesi")
		}
		if body.QuantityUsed <= 0 {
			return apperr.BadRequest("Porsiyon başına miktar sıfırdan büyük olmalı")
		}

		var line models.DishIngredient
		err = database.DB.Where("id = ? AND dish_id = ?", lineID, d.ID).First(&line).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Reçete satırı bulunamadı")
			}
			return err
		}

		if err := database.DB.Model(&line).Update("quantity_used", body.QuantityUsed).Error; err != nil {
			return err
		}

		return respond.Success(c, fiber.StatusOK, line, "Reçete satırı güncellendi", nil)
	}
}

// DELETE /api/dishes/:id/ingredients/:lineId
func DeleteRecipeLineHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		d, err := loadDish(c)
		if err != nil {
			return err
		}
		lineID, err := c.ParamsInt("lineId")
		if err != nil || lineID <= 0 {
			return apperr.BadRequest("lineId geçersiz")
		}

		res := database.DB.Where("id = ? AND dish_id = ?", lineID, d.ID).Delete(&models.DishIngredient{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("Reçete satırı bulunamadı")
		}

		return respond.Success(c, fiber.StatusOK, nil, "Reçete satırı silindi", nil)
	}
}
