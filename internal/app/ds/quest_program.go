package ds

import "github.com/shopspring/decimal"

// Программа квеста
type QuestProgram struct {
	ID              uint            `gorm:"primaryKey"`
	ProfileID       uint            `gorm:"not null;index"`
	Title           string          `gorm:"type:varchar(100);not null"`
	Description     string          `gorm:"type:text"`
	AgeMin          int             `gorm:"type:int;default:0"`
	AgeMax          int             `gorm:"type:int;default:0"`
	PlayersMin      int             `gorm:"type:int;default:1"`
	PlayersMax      int             `gorm:"type:int;default:1"`
	DurationMinutes int             `gorm:"type:int;default:60"`
	Price           decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	IsDeleted       bool            `gorm:"type:boolean;default:false;not null"`
}
