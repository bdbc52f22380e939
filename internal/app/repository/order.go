package repository

import (
	"time"

	"kidsevents/internal/app/ds"

	"gorm.io/gorm"
)

// Методы для работы с заявками

// OrderFilter параметры списка заявок. CustomerID и ProfileID задаются по роли.
type OrderFilter struct {
	CustomerID *uint
	ProfileID  *uint
	Status     string
	Stage      string
	DateFrom   *time.Time
	DateTo     *time.Time
	// BySubmitted период и сортировка по дате оформления вместо даты создания черновика
	BySubmitted bool
	Sort        string // newest, oldest, total
	Page        Page
}

func preloadOrder(q *gorm.DB) *gorm.DB {
	return q.Preload("Customer").
		Preload("Profile").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Items.Service").
		Preload("Items.Character")
}

// ListOrders список заявок. Без фильтра статуса возвращает только оформленные,
// удалённые не возвращаются никогда.
func (r *Repository) ListOrders(f OrderFilter) ([]ds.Order, error) {
	q := r.db.Model(&ds.Order{})

	status := f.Status
	if status == "" || status == ds.OrderStatusDeleted {
		status = ds.OrderStatusSubmitted
	}
	q = q.Where("status = ?", status)

	if f.CustomerID != nil {
		q = q.Where("customer_id = ?", *f.CustomerID)
	}
	if f.ProfileID != nil {
		q = q.Where("profile_id = ?", *f.ProfileID)
	}
	if f.Stage != "" {
		q = q.Where("stage = ?", f.Stage)
	}
	dateColumn := "created_at"
	if f.BySubmitted {
		dateColumn = "submitted_at"
	}
	if f.DateFrom != nil {
		q = q.Where(dateColumn+" >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		// включительно: до конца дня
		q = q.Where(dateColumn+" < ?", f.DateTo.Add(24*time.Hour))
	}

	switch f.Sort {
	case "oldest":
		q = q.Order(dateColumn + " ASC")
	case "total":
		q = q.Order("total DESC")
	default:
		q = q.Order(dateColumn + " DESC")
	}
	q = q.Order("id DESC")

	var orders []ds.Order
	err := f.Page.apply(preloadOrder(q)).Find(&orders).Error
	return orders, err
}

// GetOrderWithItems заявка (не удалённая) с позициями, заказчиком и профилем
func (r *Repository) GetOrderWithItems(orderID uint) (*ds.Order, error) {
	var order ds.Order
	err := preloadOrder(r.db).Where("id = ? AND status <> ?", orderID, ds.OrderStatusDeleted).First(&order).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &order, nil
}

// SetOrderStage выставляет этап воронки. Допустим любой этап из любого,
// но только для оформленной заявки.
func (r *Repository) SetOrderStage(orderID uint, stage string, now time.Time) error {
	if !ds.IsValidStage(stage) {
		return ErrInvalidStage
	}

	var order ds.Order
	err := r.db.Where("id = ? AND status <> ?", orderID, ds.OrderStatusDeleted).First(&order).Error
	if err != nil {
		return notFound(err)
	}
	if order.Status != ds.OrderStatusSubmitted {
		return ErrInvalidStatus
	}

	return r.db.Model(&ds.Order{}).Where("id = ?", orderID).Updates(map[string]interface{}{
		"stage":            stage,
		"stage_changed_at": now,
	}).Error
}

// PurgeStaleDrafts логически удаляет черновики, не менявшиеся с момента before
func (r *Repository) PurgeStaleDrafts(before time.Time) (int64, error) {
	result := r.db.Model(&ds.Order{}).
		Where("status = ? AND updated_at < ?", ds.OrderStatusDraft, before).
		Update("status", ds.OrderStatusDeleted)
	return result.RowsAffected, result.Error
}

// ProviderOrders оформленные заявки исполнителя за период (для аналитики)
func (r *Repository) ProviderOrders(profileID uint, from, to *time.Time) ([]ds.Order, error) {
	return r.ListOrders(OrderFilter{
		ProfileID:   &profileID,
		Status:      ds.OrderStatusSubmitted,
		DateFrom:    from,
		DateTo:      to,
		BySubmitted: true,
		Sort:        "oldest",
		Page:        NoLimit,
	})
}
