package ds

import "github.com/shopspring/decimal"

// Позиция заявки: услуга (и персонаж) с количеством и зафиксированной ценой
type OrderItem struct {
	ID          uint            `gorm:"primaryKey"`
	OrderID     uint            `gorm:"not null;index"`
	ServiceID   uint            `gorm:"not null;index"`
	CharacterID *uint           `gorm:"default:null"`
	Quantity    int             `gorm:"type:int;default:1;not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(10,2);default:0"`
	SubTotal    decimal.Decimal `gorm:"type:decimal(12,2);default:0"`

	Service   Service    `gorm:"foreignKey:ServiceID"`
	Character *Character `gorm:"foreignKey:CharacterID"`
}
