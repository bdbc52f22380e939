package ds

import (
	"time"

	"github.com/shopspring/decimal"
)

// Статусы заявки (жизненный цикл корзины)
const (
	OrderStatusDraft     = "draft"
	OrderStatusSubmitted = "submitted"
	OrderStatusDeleted   = "deleted"
)

// Этапы воронки. Переходы между ними не ограничены.
const (
	StageNew        = "new"
	StageConfirmed  = "confirmed"
	StagePrepaid    = "prepaid"
	StageInProgress = "in_progress"
	StageCompleted  = "completed"
	StageCancelled  = "cancelled"
)

// OrderStages в порядке отображения в воронке
var OrderStages = []string{StageNew, StageConfirmed, StagePrepaid, StageInProgress, StageCompleted, StageCancelled}

// IsValidStage проверяет что метка этапа известна
func IsValidStage(stage string) bool {
	for _, s := range OrderStages {
		if s == stage {
			return true
		}
	}
	return false
}

// Заявка. Принадлежит ровно одному профилю исполнителя.
type Order struct {
	ID             uint      `gorm:"primaryKey"`
	CustomerID     uint      `gorm:"not null;index"`
	ProfileID      uint      `gorm:"not null;index"`
	Status         string    `gorm:"type:varchar(20);not null;index"`
	Stage          string    `gorm:"type:varchar(20);default:'new';not null"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time
	SubmittedAt    *time.Time `gorm:"default:null"`
	StageChangedAt *time.Time `gorm:"default:null"`

	EventDate     *time.Time `gorm:"default:null"`
	Address       string     `gorm:"type:varchar(255)"`
	ChildrenCount int        `gorm:"type:int;default:0"`
	ContactPhone  string     `gorm:"type:varchar(32)"`
	Comment       string     `gorm:"type:text"`

	PromoCode       string          `gorm:"type:varchar(50)"`
	CampaignID      *uint           `gorm:"default:null"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(12,2);default:0"`
	DiscountPercent int             `gorm:"type:int;default:0"`
	DiscountAmount  decimal.Decimal `gorm:"type:decimal(12,2);default:0"`
	Total           decimal.Decimal `gorm:"type:decimal(12,2);default:0"`

	Customer User        `gorm:"foreignKey:CustomerID"`
	Profile  Profile     `gorm:"foreignKey:ProfileID"`
	Items    []OrderItem `gorm:"foreignKey:OrderID"`
}
