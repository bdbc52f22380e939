package repository

import (
	"errors"
	"fmt"
	"time"

	"kidsevents/internal/app/ds"
	"kidsevents/internal/app/pricing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Методы для корзины: черновики заявок, по одному на исполнителя

// CartOrder черновик с рассчитанными итогами
type CartOrder struct {
	Order  ds.Order
	Totals pricing.Result
}

// CheckoutInput данные мероприятия, которые заказчик указывает при оформлении
type CheckoutInput struct {
	EventDate     *time.Time
	Address       string
	ChildrenCount int
	ContactPhone  string
	Comment       string
	PromoCode     string
}

// lineKey услуга и персонаж позиции (0 без персонажа)
type lineKey struct {
	serviceID   uint
	characterID uint
}

func newLineKey(serviceID uint, characterID *uint) lineKey {
	k := lineKey{serviceID: serviceID}
	if characterID != nil {
		k.characterID = *characterID
	}
	return k
}

// orderLines переводит позиции заявки в строки для расчёта
func orderLines(items []ds.OrderItem) []pricing.Line {
	lines := make([]pricing.Line, 0, len(items))
	for _, it := range items {
		lines = append(lines, pricing.Line{UnitPrice: it.UnitPrice, Quantity: it.Quantity})
	}
	return lines
}

func touchOrder(tx *gorm.DB, orderID uint) error {
	return tx.Model(&ds.Order{}).Where("id = ?", orderID).Update("updated_at", time.Now().UTC()).Error
}

// getDraftOrder черновик заказчика у исполнителя
func getDraftOrder(tx *gorm.DB, customerID, profileID uint) (*ds.Order, error) {
	var order ds.Order
	err := tx.Where("customer_id = ? AND profile_id = ? AND status = ?", customerID, profileID, ds.OrderStatusDraft).
		First(&order).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &order, nil
}

// findLine позиция черновика с той же услугой и тем же персонажем, кроме exceptID; nil если нет
func findLine(tx *gorm.DB, orderID, serviceID uint, characterID *uint, exceptID uint) (*ds.OrderItem, error) {
	q := tx.Where("order_id = ? AND service_id = ? AND id <> ?", orderID, serviceID, exceptID)
	if characterID != nil {
		q = q.Where("character_id = ?", *characterID)
	} else {
		q = q.Where("character_id IS NULL")
	}
	var item ds.OrderItem
	err := q.First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// AddToCart добавляет услугу в черновик исполнителя этой услуги (создаёт черновик при необходимости).
// Повторное добавление той же услуги с тем же персонажем увеличивает количество.
func (r *Repository) AddToCart(customerID, serviceID uint, characterID *uint, quantity int) (*ds.Order, error) {
	if quantity < 1 {
		return nil, ErrInvalidInput
	}

	var order *ds.Order
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var service ds.Service
		err := tx.Where("id = ? AND is_deleted = ?", serviceID, false).First(&service).Error
		if err != nil {
			return notFound(err)
		}

		var extra *decimal.Decimal
		if characterID != nil {
			var character ds.Character
			err = tx.Where("id = ? AND is_deleted = ?", *characterID, false).First(&character).Error
			if err != nil {
				return notFound(err)
			}
			if character.ProfileID != service.ProfileID {
				return ErrProfileMismatch
			}
			extra = &character.ExtraPrice
		}

		order, err = getDraftOrder(tx, customerID, service.ProfileID)
		if errors.Is(err, ErrNotFound) {
			order = &ds.Order{
				CustomerID: customerID,
				ProfileID:  service.ProfileID,
				Status:     ds.OrderStatusDraft,
				Stage:      ds.StageNew,
			}
			err = tx.Create(order).Error
		}
		if err != nil {
			return err
		}

		unitPrice := pricing.UnitPrice(service.Price, extra)

		existing, err := findLine(tx, order.ID, serviceID, characterID, 0)
		if err != nil {
			return err
		}
		item := ds.OrderItem{
			OrderID:     order.ID,
			ServiceID:   serviceID,
			CharacterID: characterID,
			Quantity:    quantity,
		}
		if existing != nil {
			item = *existing
			item.Quantity += quantity
		}
		item.UnitPrice = unitPrice
		item.SubTotal = pricing.Line{UnitPrice: unitPrice, Quantity: item.Quantity}.SubTotal()

		if err := tx.Omit(clause.Associations).Save(&item).Error; err != nil {
			return err
		}
		return touchOrder(tx, order.ID)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// GetCart черновики заказчика с позициями и итогами
func (r *Repository) GetCart(customerID uint) ([]CartOrder, error) {
	var orders []ds.Order
	err := r.db.Where("customer_id = ? AND status = ?", customerID, ds.OrderStatusDraft).
		Preload("Profile").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Items.Service").
		Preload("Items.Character").
		Order("id").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	cart := make([]CartOrder, 0, len(orders))
	for _, o := range orders {
		cart = append(cart, CartOrder{Order: o, Totals: pricing.Totals(orderLines(o.Items), 0)})
	}
	return cart, nil
}

// CartItemCount количество позиций во всех черновиках заказчика
func (r *Repository) CartItemCount(customerID uint) (int64, error) {
	var count int64
	err := r.db.Model(&ds.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.customer_id = ? AND orders.status = ?", customerID, ds.OrderStatusDraft).
		Count(&count).Error
	return count, err
}

// draftItem позиция черновика, принадлежащего заказчику
func draftItem(tx *gorm.DB, customerID, itemID uint) (*ds.OrderItem, *ds.Order, error) {
	var item ds.OrderItem
	if err := tx.First(&item, itemID).Error; err != nil {
		return nil, nil, notFound(err)
	}
	var order ds.Order
	if err := tx.First(&order, item.OrderID).Error; err != nil {
		return nil, nil, notFound(err)
	}
	if order.CustomerID != customerID {
		return nil, nil, ErrNotFound
	}
	if order.Status != ds.OrderStatusDraft {
		return nil, nil, ErrInvalidStatus
	}
	return &item, &order, nil
}

// UpdateCartItem меняет количество и (если передан) персонажа позиции.
// Если с новым персонажем такая позиция уже есть, количество переносится в неё, а эта удаляется.
func (r *Repository) UpdateCartItem(customerID, itemID uint, quantity int, characterID *uint, clearCharacter bool) error {
	if quantity < 1 {
		return ErrInvalidInput
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		item, order, err := draftItem(tx, customerID, itemID)
		if err != nil {
			return err
		}

		var service ds.Service
		if err := tx.First(&service, item.ServiceID).Error; err != nil {
			return notFound(err)
		}

		switch {
		case clearCharacter:
			item.CharacterID = nil
		case characterID != nil:
			item.CharacterID = characterID
		}

		var extra *decimal.Decimal
		if item.CharacterID != nil {
			var character ds.Character
			err := tx.Where("id = ? AND is_deleted = ?", *item.CharacterID, false).First(&character).Error
			if err != nil {
				return notFound(err)
			}
			if character.ProfileID != order.ProfileID {
				return ErrProfileMismatch
			}
			extra = &character.ExtraPrice
		}

		item.Quantity = quantity
		twin, err := findLine(tx, order.ID, item.ServiceID, item.CharacterID, item.ID)
		if err != nil {
			return err
		}
		if twin != nil {
			if err := tx.Delete(&ds.OrderItem{}, item.ID).Error; err != nil {
				return err
			}
			twin.Quantity += quantity
			item = twin
		}

		item.UnitPrice = pricing.UnitPrice(service.Price, extra)
		item.SubTotal = pricing.Line{UnitPrice: item.UnitPrice, Quantity: item.Quantity}.SubTotal()
		if err := tx.Omit(clause.Associations).Save(item).Error; err != nil {
			return err
		}
		return touchOrder(tx, order.ID)
	})
}

// RemoveCartItem удаляет позицию из черновика
func (r *Repository) RemoveCartItem(customerID, itemID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		item, order, err := draftItem(tx, customerID, itemID)
		if err != nil {
			return err
		}
		if err := tx.Delete(&ds.OrderItem{}, item.ID).Error; err != nil {
			return err
		}
		return touchOrder(tx, order.ID)
	})
}

// DeleteOrder логическое удаление черновика
func (r *Repository) DeleteOrder(orderID, customerID uint) error {
	result := r.db.Model(&ds.Order{}).
		Where("id = ? AND customer_id = ? AND status = ?", orderID, customerID, ds.OrderStatusDraft).
		Update("status", ds.OrderStatusDeleted)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("заявку нельзя удалить - неверный статус или ID: %w", ErrInvalidStatus)
	}

	return nil
}

// customerDraft черновик заказчика со всеми позициями
func customerDraft(tx *gorm.DB, orderID, customerID uint) (*ds.Order, error) {
	var order ds.Order
	err := tx.Where("id = ? AND customer_id = ? AND status <> ?", orderID, customerID, ds.OrderStatusDeleted).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&order).Error
	if err != nil {
		return nil, notFound(err)
	}
	if order.Status != ds.OrderStatusDraft {
		return nil, ErrInvalidStatus
	}
	return &order, nil
}

// Quote предварительный расчёт итогов черновика с промокодом, без сохранения
func (r *Repository) Quote(orderID, customerID uint, promoCode string, now time.Time) (pricing.Result, error) {
	order, err := customerDraft(r.db, orderID, customerID)
	if err != nil {
		return pricing.Result{}, err
	}
	percent := 0
	if promoCode != "" {
		campaign, err := resolvePromo(r.db, order.ProfileID, promoCode, now)
		if err != nil {
			return pricing.Result{}, err
		}
		percent = campaign.DiscountPercent
	}
	return pricing.Totals(orderLines(order.Items), percent), nil
}

// Checkout оформляет черновик: актуализирует цены по каталогу, отбрасывает удалённые услуги,
// применяет промокод и фиксирует итоги. Статус становится submitted, этап new.
func (r *Repository) Checkout(orderID, customerID uint, in CheckoutInput, now time.Time) (*ds.Order, error) {
	var result *ds.Order
	err := r.db.Transaction(func(tx *gorm.DB) error {
		order, err := customerDraft(tx, orderID, customerID)
		if err != nil {
			return err
		}

		kept := make([]ds.OrderItem, 0, len(order.Items))
		// позиции без удалённого персонажа могут совпасть с уже имеющимися
		keptIndex := make(map[lineKey]int, len(order.Items))
		for _, item := range order.Items {
			var service ds.Service
			err := tx.First(&service, item.ServiceID).Error
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if err != nil || service.IsDeleted {
				if err := tx.Delete(&ds.OrderItem{}, item.ID).Error; err != nil {
					return err
				}
				continue
			}

			var extra *decimal.Decimal
			if item.CharacterID != nil {
				var character ds.Character
				err := tx.Where("id = ? AND is_deleted = ?", *item.CharacterID, false).First(&character).Error
				switch {
				case err == nil:
					extra = &character.ExtraPrice
				case errors.Is(err, gorm.ErrRecordNotFound):
					item.CharacterID = nil
				default:
					return err
				}
			}

			key := newLineKey(item.ServiceID, item.CharacterID)
			if idx, ok := keptIndex[key]; ok {
				if err := tx.Delete(&ds.OrderItem{}, item.ID).Error; err != nil {
					return err
				}
				twin := &kept[idx]
				twin.Quantity += item.Quantity
				twin.SubTotal = pricing.Line{UnitPrice: twin.UnitPrice, Quantity: twin.Quantity}.SubTotal()
				if err := tx.Omit(clause.Associations).Save(twin).Error; err != nil {
					return err
				}
				continue
			}

			item.UnitPrice = pricing.UnitPrice(service.Price, extra)
			item.SubTotal = pricing.Line{UnitPrice: item.UnitPrice, Quantity: item.Quantity}.SubTotal()
			if err := tx.Omit(clause.Associations).Save(&item).Error; err != nil {
				return err
			}
			keptIndex[key] = len(kept)
			kept = append(kept, item)
		}

		if len(kept) == 0 {
			return ErrEmptyOrder
		}

		percent := 0
		var campaignID *uint
		if in.PromoCode != "" {
			campaign, err := resolvePromo(tx, order.ProfileID, in.PromoCode, now)
			if err != nil {
				return err
			}
			percent = campaign.DiscountPercent
			campaignID = &campaign.ID
		}

		totals := pricing.Totals(orderLines(kept), percent)

		err = tx.Model(&ds.Order{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
			"status":           ds.OrderStatusSubmitted,
			"stage":            ds.StageNew,
			"submitted_at":     now,
			"stage_changed_at": now,
			"event_date":       in.EventDate,
			"address":          in.Address,
			"children_count":   in.ChildrenCount,
			"contact_phone":    in.ContactPhone,
			"comment":          in.Comment,
			"promo_code":       normalizePromo(in.PromoCode),
			"campaign_id":      campaignID,
			"subtotal":         totals.Subtotal,
			"discount_percent": totals.DiscountPercent,
			"discount_amount":  totals.DiscountAmount,
			"total":            totals.Total,
		}).Error
		if err != nil {
			return err
		}

		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetOrderWithItems(result.ID)
}
