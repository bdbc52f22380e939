package ds

import (
	"time"

	"github.com/shopspring/decimal"
)

// Статусы рекламной кампании
const (
	CampaignDraft    = "draft"
	CampaignActive   = "active"
	CampaignPaused   = "paused"
	CampaignFinished = "finished"
)

// Места размещения
const (
	PlacementCatalogTop = "catalog_top"
	PlacementSearch     = "search"
	PlacementBanner     = "banner"
)

// Рекламная кампания исполнителя. Может нести промокод со скидкой.
type Campaign struct {
	ID              uint            `gorm:"primaryKey"`
	ProfileID       uint            `gorm:"not null;index"`
	Name            string          `gorm:"type:varchar(100);not null"`
	Placement       string          `gorm:"type:varchar(20);not null"`
	Status          string          `gorm:"type:varchar(20);default:'draft';not null;index"`
	Budget          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CostPerClick    decimal.Decimal `gorm:"type:decimal(10,2);default:0"`
	Spent           decimal.Decimal `gorm:"type:decimal(12,2);default:0"`
	Impressions     int64           `gorm:"default:0"`
	Clicks          int64           `gorm:"default:0"`
	StartsAt        time.Time       `gorm:"not null"`
	EndsAt          time.Time       `gorm:"not null"`
	PromoCode       *string         `gorm:"type:varchar(50);uniqueIndex"`
	DiscountPercent int             `gorm:"type:int;default:0"`
	CreatedAt       time.Time

	Profile Profile `gorm:"foreignKey:ProfileID"`
}

// InWindow сообщает попадает ли момент в период показа
func (c *Campaign) InWindow(t time.Time) bool {
	return !t.Before(c.StartsAt) && !t.After(c.EndsAt)
}
