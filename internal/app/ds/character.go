package ds

import "github.com/shopspring/decimal"

// Персонаж аниматора (костюм). Выбирается к услуге и добавляет наценку.
type Character struct {
	ID          uint            `gorm:"primaryKey"`
	ProfileID   uint            `gorm:"not null;index"`
	Name        string          `gorm:"type:varchar(100);not null"`
	Description string          `gorm:"type:text"`
	ImageURL    *string         `gorm:"type:varchar(255)"`
	ExtraPrice  decimal.Decimal `gorm:"type:decimal(10,2);default:0"`
	IsDeleted   bool            `gorm:"type:boolean;default:false;not null"`
}
