package models

import "time"

// TxStatus - alış/satış işlem durumu. Cancelled terminal durumdur.
type TxStatus string

const (
	TxCompleted TxStatus = "Completed"
	TxCancelled TxStatus = "Cancelled"
)

// Purchase - tedarikçiden malzeme alımı. Total uygulama katmanında
// detay ara toplamlarından hesaplanır, asla trigger ile değil.
type Purchase struct {
	ID           uint       `gorm:"primaryKey"`
	SupplierID   *uint      `gorm:"index"`
	Supplier     *Supplier  `gorm:"foreignKey:SupplierID"`
	PurchaseDate time.Time  `gorm:"index;not null"`
	Notes        string     `gorm:"size:255"`
	Total        float64    `gorm:"not null;default:0"`
	Status       TxStatus   `gorm:"size:20;not null;default:Completed"`
	DeletedAt    *time.Time `gorm:"index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Details []PurchaseDetail `gorm:"foreignKey:PurchaseID"`
}

// PurchaseDetail - alış kalemi. Subtotal = Quantity * UnitPrice.
type PurchaseDetail struct {
	ID           uint       `gorm:"primaryKey"`
	PurchaseID   uint       `gorm:"index;not null"`
	IngredientID uint       `gorm:"index;not null"`
	Ingredient   Ingredient `gorm:"foreignKey:IngredientID"`
	Quantity     float64    `gorm:"not null"` // >0
	UnitPrice    float64    `gorm:"not null"` // >=0
	Subtotal     float64    `gorm:"not null"`
	DeletedAt    *time.Time `gorm:"index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
