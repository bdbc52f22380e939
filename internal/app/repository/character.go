package repository

import (
	"kidsevents/internal/app/ds"

	"github.com/shopspring/decimal"
)

func (r *Repository) ListCharacters(profileID uint) ([]ds.Character, error) {
	var characters []ds.Character
	err := r.db.Where("profile_id = ? AND is_deleted = ?", profileID, false).Order("name").Find(&characters).Error
	return characters, err
}

func (r *Repository) GetCharacterByID(id uint) (*ds.Character, error) {
	var c ds.Character
	err := r.db.Where("id = ? AND is_deleted = ?", id, false).First(&c).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *Repository) CreateCharacter(c *ds.Character) error {
	return r.db.Create(c).Error
}

// CharacterUpdate изменяемые поля персонажа
type CharacterUpdate struct {
	Name        *string
	Description *string
	ExtraPrice  *decimal.Decimal
}

func (r *Repository) UpdateCharacter(id uint, upd CharacterUpdate) error {
	updates := map[string]interface{}{}
	if upd.Name != nil {
		updates["name"] = *upd.Name
	}
	if upd.Description != nil {
		updates["description"] = *upd.Description
	}
	if upd.ExtraPrice != nil {
		updates["extra_price"] = *upd.ExtraPrice
	}
	if len(updates) == 0 {
		return nil
	}

	result := r.db.Model(&ds.Character{}).Where("id = ? AND is_deleted = ?", id, false).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteCharacter(id uint) error {
	result := r.db.Model(&ds.Character{}).Where("id = ? AND is_deleted = ?", id, false).Update("is_deleted", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) UpdateCharacterImage(id uint, imageURL string) error {
	return r.db.Model(&ds.Character{}).Where("id = ?", id).Update("image_url", imageURL).Error
}
