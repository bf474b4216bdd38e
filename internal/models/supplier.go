package models

import "time"

// Supplier - malzeme tedarikçisi
type Supplier struct {
	ID        uint         `gorm:"primaryKey"`
	Name      string       `gorm:"size:100;not null"`
	Contact   string       `gorm:"size:100"`
	Phone     string       `gorm:"size:30"`
	Email     string       `gorm:"size:100"`
	Address   string       `gorm:"size:255"`
	Status    RecordStatus `gorm:"size:20;not null;default:Active"`
	DeletedAt *time.Time   `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
