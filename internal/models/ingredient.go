package models

import "time"

// RecordStatus - malzeme/yemek/tedarikçi kayıtlarının durumu
type RecordStatus string

const (
	StatusActive   RecordStatus = "Active"
	StatusInactive RecordStatus = "Inactive"
)

// IngredientCategory - malzeme kategorisi (ör: sebze, et, baharat)
type IngredientCategory struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:100;not null;uniqueIndex"`
	Description string `gorm:"size:255"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Ingredient - stok takibi yapılan malzeme.
// Stock hiçbir zaman negatif olarak kalıcılaştırılmaz; geri alma yolları
// sıfırda tabanlanır, zorunlu satış sonrası FixNegative süpürmesi çalışır.
type Ingredient struct {
	ID           uint                `gorm:"primaryKey"`
	Name         string              `gorm:"size:100;not null"`
	Unit         string              `gorm:"size:20;not null"` // kg, lt, adet vs.
	CategoryID   *uint               `gorm:"index"`
	Category     *IngredientCategory `gorm:"foreignKey:CategoryID"`
	Stock        float64             `gorm:"not null;default:0"`
	MinimumStock float64             `gorm:"not null;default:0"`
	Status       RecordStatus        `gorm:"size:20;not null;default:Active"`
	DeletedAt    *time.Time          `gorm:"index"` // soft delete; Status'tan bağımsız
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
