package models

import "time"

// DishCategory - yemek kategorisi (ör: çorbalar, ana yemekler)
type DishCategory struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:100;not null;uniqueIndex"`
	Description string `gorm:"size:255"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Dish - menüdeki yemek
type Dish struct {
	ID          uint          `gorm:"primaryKey"`
	Name        string        `gorm:"size:100;not null"`
	Description string        `gorm:"size:255"`
	CategoryID  *uint         `gorm:"index"`
	Category    *DishCategory `gorm:"foreignKey:CategoryID"`
	Price       float64       `gorm:"not null;default:0"`
	Status      RecordStatus  `gorm:"size:20;not null;default:Active"`
	DeletedAt   *time.Time    `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DishIngredient - reçete satırı: bir birim yemek için tüketilen malzeme miktarı.
// (DishID, IngredientID) ikilisi tekildir.
type DishIngredient struct {
	ID           uint       `gorm:"primaryKey"`
	DishID       uint       `gorm:"not null;uniqueIndex:idx_dish_ingredient"`
	Dish         Dish       `gorm:"foreignKey:DishID"`
	IngredientID uint       `gorm:"not null;uniqueIndex:idx_dish_ingredient"`
	Ingredient   Ingredient `gorm:"foreignKey:IngredientID"`
	QuantityUsed float64    `gorm:"not null"` // bir porsiyon için tüketim (>0)
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
