package models

import "time"

// Sale - satış fişi. Total uygulama katmanında hesaplanır.
type Sale struct {
	ID        uint       `gorm:"primaryKey"`
	SaleDate  time.Time  `gorm:"index;not null"`
	Customer  string     `gorm:"size:100"`
	Notes     string     `gorm:"size:255"`
	Total     float64    `gorm:"not null;default:0"`
	Status    TxStatus   `gorm:"size:20;not null;default:Completed"`
	DeletedAt *time.Time `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Details []SaleDetail `gorm:"foreignKey:SaleID"`
}

// SaleDetail - satış kalemi. Subtotal = Quantity*UnitPrice - Discount.
type SaleDetail struct {
	ID        uint       `gorm:"primaryKey"`
	SaleID    uint       `gorm:"index;not null"`
	DishID    uint       `gorm:"index;not null"`
	Dish      Dish       `gorm:"foreignKey:DishID"`
	Quantity  float64    `gorm:"not null"` // >=1
	UnitPrice float64    `gorm:"not null"` // >=0
	Discount  float64    `gorm:"not null;default:0"`
	Subtotal  float64    `gorm:"not null"`
	DeletedAt *time.Time `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
