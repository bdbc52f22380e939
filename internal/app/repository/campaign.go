package repository

import (
	"errors"
	"strings"
	"time"

	"kidsevents/internal/app/ds"
	"kidsevents/internal/app/pricing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Методы для рекламных кампаний

func normalizePromo(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsValidPlacement проверяет место размещения
func IsValidPlacement(p string) bool {
	switch p {
	case ds.PlacementCatalogTop, ds.PlacementSearch, ds.PlacementBanner:
		return true
	}
	return false
}

func validateCampaign(c *ds.Campaign) error {
	if !IsValidPlacement(c.Placement) {
		return ErrInvalidInput
	}
	if !c.EndsAt.After(c.StartsAt) {
		return ErrInvalidInput
	}
	if !c.Budget.IsPositive() || c.CostPerClick.IsNegative() {
		return ErrInvalidInput
	}
	if c.DiscountPercent < 0 || c.DiscountPercent > pricing.MaxDiscountPercent {
		return ErrInvalidInput
	}
	return nil
}

// promoTaken сообщает занят ли промокод другой кампанией
func promoTaken(tx *gorm.DB, code string, exceptID uint) (bool, error) {
	var count int64
	err := tx.Model(&ds.Campaign{}).Where("promo_code = ? AND id <> ?", code, exceptID).Count(&count).Error
	return count > 0, err
}

func (r *Repository) CreateCampaign(c *ds.Campaign) error {
	if c.PromoCode != nil {
		code := normalizePromo(*c.PromoCode)
		if code == "" {
			c.PromoCode = nil
		} else {
			c.PromoCode = &code
		}
	}
	c.Status = ds.CampaignDraft
	c.Spent = decimal.Zero
	if err := validateCampaign(c); err != nil {
		return err
	}

	if c.PromoCode != nil {
		taken, err := promoTaken(r.db, *c.PromoCode, 0)
		if err != nil {
			return err
		}
		if taken {
			return ErrAlreadyExists
		}
	}
	return r.db.Create(c).Error
}

// ListCampaigns кампании профиля или все (profileID == nil)
func (r *Repository) ListCampaigns(profileID *uint) ([]ds.Campaign, error) {
	q := r.db.Model(&ds.Campaign{})
	if profileID != nil {
		q = q.Where("profile_id = ?", *profileID)
	}
	var campaigns []ds.Campaign
	err := q.Order("created_at DESC").Order("id DESC").Find(&campaigns).Error
	return campaigns, err
}

func (r *Repository) GetCampaign(id uint) (*ds.Campaign, error) {
	var c ds.Campaign
	if err := r.db.First(&c, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// CampaignUpdate изменяемые поля кампании; nil означает "не менять"
type CampaignUpdate struct {
	Name            *string
	Placement       *string
	Budget          *decimal.Decimal
	CostPerClick    *decimal.Decimal
	StartsAt        *time.Time
	EndsAt          *time.Time
	PromoCode       *string // пустая строка снимает промокод
	DiscountPercent *int
}

func (r *Repository) UpdateCampaign(id uint, upd CampaignUpdate) (*ds.Campaign, error) {
	var result *ds.Campaign
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var c ds.Campaign
		if err := tx.First(&c, id).Error; err != nil {
			return notFound(err)
		}
		if c.Status == ds.CampaignFinished {
			return ErrInvalidStatus
		}

		if upd.Name != nil {
			c.Name = *upd.Name
		}
		if upd.Placement != nil {
			c.Placement = *upd.Placement
		}
		if upd.Budget != nil {
			c.Budget = *upd.Budget
		}
		if upd.CostPerClick != nil {
			c.CostPerClick = *upd.CostPerClick
		}
		if upd.StartsAt != nil {
			c.StartsAt = *upd.StartsAt
		}
		if upd.EndsAt != nil {
			c.EndsAt = *upd.EndsAt
		}
		if upd.DiscountPercent != nil {
			c.DiscountPercent = *upd.DiscountPercent
		}
		if upd.PromoCode != nil {
			code := normalizePromo(*upd.PromoCode)
			if code == "" {
				c.PromoCode = nil
			} else {
				taken, err := promoTaken(tx, code, c.ID)
				if err != nil {
					return err
				}
				if taken {
					return ErrAlreadyExists
				}
				c.PromoCode = &code
			}
		}
		if err := validateCampaign(&c); err != nil {
			return err
		}
		if err := tx.Omit("Profile").Save(&c).Error; err != nil {
			return err
		}
		result = &c
		return nil
	})
	return result, err
}

// DeleteCampaign удаляет кампанию, если она сейчас не показывается
func (r *Repository) DeleteCampaign(id uint) error {
	c, err := r.GetCampaign(id)
	if err != nil {
		return err
	}
	if c.Status == ds.CampaignActive {
		return ErrInvalidStatus
	}
	return r.db.Delete(&ds.Campaign{}, id).Error
}

// ActivateCampaign запускает показ: из draft или paused, если период не закончился
// и бюджет не израсходован
func (r *Repository) ActivateCampaign(id uint, now time.Time) error {
	c, err := r.GetCampaign(id)
	if err != nil {
		return err
	}
	if c.Status != ds.CampaignDraft && c.Status != ds.CampaignPaused {
		return ErrInvalidStatus
	}
	if now.After(c.EndsAt) || c.Spent.GreaterThanOrEqual(c.Budget) {
		return ErrInvalidStatus
	}
	return r.db.Model(&ds.Campaign{}).Where("id = ?", id).Update("status", ds.CampaignActive).Error
}

// PauseCampaign приостанавливает активную кампанию
func (r *Repository) PauseCampaign(id uint) error {
	result := r.db.Model(&ds.Campaign{}).
		Where("id = ? AND status = ?", id, ds.CampaignActive).
		Update("status", ds.CampaignPaused)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetCampaign(id); err != nil {
			return err
		}
		return ErrInvalidStatus
	}
	return nil
}

// ListPromoted активные кампании в периоде показа с профилями, сначала с большей ставкой
func (r *Repository) ListPromoted(placement string, now time.Time, limit int) ([]ds.Campaign, error) {
	q := r.db.Preload("Profile").
		Where("status = ? AND starts_at <= ? AND ends_at >= ?", ds.CampaignActive, now, now)
	if placement != "" {
		q = q.Where("placement = ?", placement)
	}
	if limit <= 0 {
		limit = 10
	}

	var campaigns []ds.Campaign
	err := q.Order("cost_per_click DESC").Order("id ASC").Limit(limit).Find(&campaigns).Error
	return campaigns, err
}

// RecordImpression увеличивает счётчик показов активной кампании
func (r *Repository) RecordImpression(id uint) error {
	result := r.db.Model(&ds.Campaign{}).
		Where("id = ? AND status = ?", id, ds.CampaignActive).
		UpdateColumn("impressions", gorm.Expr("impressions + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// RecordClick учитывает клик: списывает стоимость клика, по исчерпании бюджета кампания завершается
func (r *Repository) RecordClick(id uint, now time.Time) (*ds.Campaign, error) {
	var result *ds.Campaign
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var c ds.Campaign
		// строка блокируется до конца транзакции: расход считается от актуального значения
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND status = ?", id, ds.CampaignActive).First(&c).Error
		if err != nil {
			return notFound(err)
		}
		if !c.InWindow(now) {
			return ErrInvalidStatus
		}

		c.Clicks++
		c.Spent = c.Spent.Add(c.CostPerClick)
		if c.Spent.GreaterThanOrEqual(c.Budget) {
			c.Spent = c.Budget
			c.Status = ds.CampaignFinished
		}

		err = tx.Model(&ds.Campaign{}).Where("id = ?", c.ID).Updates(map[string]interface{}{
			"clicks": gorm.Expr("clicks + ?", 1),
			"spent":  c.Spent,
			"status": c.Status,
		}).Error
		if err != nil {
			return err
		}
		result = &c
		return nil
	})
	return result, err
}

// resolvePromo находит активную кампанию исполнителя с этим промокодом
func resolvePromo(tx *gorm.DB, profileID uint, code string, now time.Time) (*ds.Campaign, error) {
	var c ds.Campaign
	err := tx.Where("promo_code = ? AND profile_id = ?", normalizePromo(code), profileID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidPromo
	}
	if err != nil {
		return nil, err
	}
	if c.Status != ds.CampaignActive || !c.InWindow(now) {
		return nil, ErrInvalidPromo
	}
	return &c, nil
}

// FinishExpiredCampaigns завершает активные и приостановленные кампании с прошедшим периодом
func (r *Repository) FinishExpiredCampaigns(now time.Time) (int64, error) {
	result := r.db.Model(&ds.Campaign{}).
		Where("status IN ? AND ends_at < ?", []string{ds.CampaignActive, ds.CampaignPaused}, now).
		Update("status", ds.CampaignFinished)
	return result.RowsAffected, result.Error
}
