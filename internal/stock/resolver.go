package stock

import (
	"errors"

	"lokanta-backend/internal/apperr"
	"lokanta-backend/internal/models"

	"gorm.io/gorm"
)

// Requirement - bir satış kalemi için gereken malzeme miktarı
type Requirement struct {
	IngredientID     uint    `json:"ingredientId"`
	Name             string  `json:"name"`
	RequiredQuantity float64 `json:"requiredQuantity"`
	AvailableStock   float64 `json:"availableStock"`
	Unit             string  `json:"unit"`
}

// ResolveRequirements - yemeğin reçetesinden quantity porsiyon için toplam
// malzeme ihtiyacını çıkarır. Reçetesi olmayan yemek boş liste döner;
// böyle bir satış stok doğrulamasından hiçbir zaman kalamaz.
func ResolveRequirements(db *gorm.DB, dishID uint, quantity float64) ([]Requirement, error) {
	var dish models.Dish
	if err := db.Where("id = ? AND deleted_at IS NULL", dishID).First(&dish).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Yemek bulunamadı")
		}
		return nil, err
	}

	var lines []models.DishIngredient
	if err := db.Preload("Ingredient").
		Joins("INNER JOIN ingredients ON ingredients.id = dish_ingredients.ingredient_id AND ingredients.deleted_at IS NULL").
		Where("dish_ingredients.dish_id = ?", dishID).
		Find(&lines).Error; err != nil {
		return nil, err
	}

	reqs := make([]Requirement, 0, len(lines))
	for _, line := range lines {
		reqs = append(reqs, Requirement{
			IngredientID:     line.IngredientID,
			Name:             line.Ingredient.Name,
			RequiredQuantity: line.QuantityUsed * quantity,
			AvailableStock:   line.Ingredient.Stock,
			Unit:             line.Ingredient.Unit,
		})
	}

	return reqs, nil
}
