package stock

import (
	"gorm.io/gorm"
)

// SaleItem - doğrulanacak (yemek, adet) ikilisi
type SaleItem struct {
	DishID   uint    `json:"dishId"`
	Quantity float64 `json:"quantity"`
}

// Shortfall - tek malzeme için eksik-stok kaydı
type Shortfall struct {
	IngredientID uint    `json:"ingredientId"`
	Name         string  `json:"name"`
	Required     float64 `json:"required"`
	Available    float64 `json:"available"`
	Shortfall    float64 `json:"shortfall"`
	Unit         string  `json:"unit"`
}

// ShortfallReport - en az bir malzemesi yetersiz olan yemeğin raporu
type ShortfallReport struct {
	DishID                  uint        `json:"dishId"`
	DishName                string      `json:"dishName"`
	Quantity                float64     `json:"quantity"`
	InsufficientIngredients []Shortfall `json:"insufficientIngredients"`
}

type Validation struct {
	IsValid            bool              `json:"isValid"`
	InsufficientDishes []ShortfallReport `json:"insufficientDishes"`
}

// ValidateSale - satış kalemlerinin mevcut stokla karşılanabilirliğini
// kontrol eder. Tüm kontroller mutasyon öncesi tutarlı anlık görüntü
// üzerinde okunur: önceki kalemlerin tüketimi sonraki kontrolleri etkilemez.
func ValidateSale(db *gorm.DB, items []SaleItem) (Validation, error) {
	result := Validation{IsValid: true, InsufficientDishes: []ShortfallReport{}}

	for _, item := range items {
		reqs, err := ResolveRequirements(db, item.DishID, item.Quantity)
		if err != nil {
			return Validation{}, err
		}
		if len(reqs) == 0 {
			continue
		}

		var insufficient []Shortfall
		for _, req := range reqs {
			if req.AvailableStock < req.RequiredQuantity {
				insufficient = append(insufficient, Shortfall{
					IngredientID: req.IngredientID,
					Name:         req.Name,
					Required:     req.RequiredQuantity,
					Available:    req.AvailableStock,
					Shortfall:    req.RequiredQuantity - req.AvailableStock,
					Unit:         req.Unit,
				})
			}
		}

		if len(insufficient) > 0 {
			dishName := "Bilinmeyen"
			var name string
			if err := db.Table("dishes").Select("name").Where("id = ?", item.DishID).Scan(&name).Error; err == nil && name != "" {
				dishName = name
			}
			result.InsufficientDishes = append(result.InsufficientDishes, ShortfallReport{
				DishID:                  item.DishID,
				DishName:                dishName,
				Quantity:                item.Quantity,
				InsufficientIngredients: insufficient,
			})
		}
	}

	result.IsValid = len(result.InsufficientDishes) == 0
	return result, nil
}
