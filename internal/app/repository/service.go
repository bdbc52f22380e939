package repository

import (
	"strings"

	"kidsevents/internal/app/ds"

	"github.com/shopspring/decimal"
)

// ServiceFilter параметры каталога услуг
type ServiceFilter struct {
	Query     string
	Kind      string
	City      string
	ProfileID *uint
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
	Sort      string // price_asc, price_desc, name, newest
	Page      Page
}

// Методы для работы с услугами

// ListServices услуги опубликованных профилей (без удалённых)
func (r *Repository) ListServices(f ServiceFilter) ([]ds.Service, error) {
	q := r.db.Model(&ds.Service{}).
		Joins("JOIN profiles ON profiles.id = services.profile_id").
		Where("services.is_deleted = ? AND profiles.is_published = ?", false, true).
		Preload("Profile")

	if f.Query != "" {
		pattern := likePattern(f.Query)
		q = q.Where(`(LOWER(services.name) LIKE ? ESCAPE '\' OR LOWER(services.description) LIKE ? ESCAPE '\')`, pattern, pattern)
	}
	if f.Kind != "" {
		q = q.Where("profiles.kind = ?", f.Kind)
	}
	if f.City != "" {
		q = q.Where("LOWER(profiles.city) = ?", strings.ToLower(strings.TrimSpace(f.City)))
	}
	if f.ProfileID != nil {
		q = q.Where("services.profile_id = ?", *f.ProfileID)
	}
	if f.MinPrice != nil {
		q = q.Where("services.price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("services.price <= ?", *f.MaxPrice)
	}

	switch f.Sort {
	case "price_asc":
		q = q.Order("services.price ASC")
	case "price_desc":
		q = q.Order("services.price DESC")
	case "newest":
		q = q.Order("services.created_at DESC")
	default:
		q = q.Order("services.name ASC")
	}
	q = q.Order("services.id ASC")

	var services []ds.Service
	err := f.Page.apply(q).Find(&services).Error
	return services, err
}

// GetServiceByID услуга (не удалённая) вместе с профилем
func (r *Repository) GetServiceByID(id uint) (*ds.Service, error) {
	var s ds.Service
	err := r.db.Preload("Profile").Where("id = ? AND is_deleted = ?", id, false).First(&s).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

func (r *Repository) CreateService(s *ds.Service) error {
	return r.db.Create(s).Error
}

// ServiceUpdate изменяемые поля услуги; nil означает "не менять"
type ServiceUpdate struct {
	Name            *string
	Description     *string
	Price           *decimal.Decimal
	DurationMinutes *int
}

func (r *Repository) UpdateService(id uint, upd ServiceUpdate) error {
	updates := map[string]interface{}{}
	if upd.Name != nil {
		updates["name"] = *upd.Name
	}
	if upd.Description != nil {
		updates["description"] = *upd.Description
	}
	if upd.Price != nil {
		updates["price"] = *upd.Price
	}
	if upd.DurationMinutes != nil {
		updates["duration_minutes"] = *upd.DurationMinutes
	}
	if len(updates) == 0 {
		return nil
	}

	result := r.db.Model(&ds.Service{}).Where("id = ? AND is_deleted = ?", id, false).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteService логическое удаление
func (r *Repository) DeleteService(id uint) error {
	result := r.db.Model(&ds.Service{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]interface{}{"is_deleted": true, "image_url": nil})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) UpdateServiceImage(id uint, imageURL string) error {
	return r.db.Model(&ds.Service{}).Where("id = ?", id).Update("image_url", imageURL).Error
}
