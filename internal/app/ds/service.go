package ds

import (
	"time"

	"github.com/shopspring/decimal"
)

// Услуга исполнителя (программа аниматора, аренда зала, фотосессия и т.д.)
type Service struct {
	ID              uint            `gorm:"primaryKey"`
	ProfileID       uint            `gorm:"not null;index"`
	Name            string          `gorm:"type:varchar(100);not null"`
	Description     string          `gorm:"type:text"`
	Price           decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	DurationMinutes int             `gorm:"type:int;default:60"`
	ImageURL        *string         `gorm:"type:varchar(255)"`
	IsDeleted       bool            `gorm:"type:boolean;default:false;not null"`
	CreatedAt       time.Time

	Profile Profile `gorm:"foreignKey:ProfileID"`
}
