package repository

import (
	"kidsevents/internal/app/ds"
)

// validateQuest проверяет согласованность диапазонов возраста и числа игроков
func validateQuest(q *ds.QuestProgram) error {
	if q.AgeMin < 0 || q.AgeMax < q.AgeMin {
		return ErrInvalidInput
	}
	if q.PlayersMin < 1 || q.PlayersMax < q.PlayersMin {
		return ErrInvalidInput
	}
	if q.Price.IsNegative() {
		return ErrInvalidInput
	}
	return nil
}

func (r *Repository) ListQuestPrograms(profileID uint) ([]ds.QuestProgram, error) {
	var quests []ds.QuestProgram
	err := r.db.Where("profile_id = ? AND is_deleted = ?", profileID, false).Order("title").Find(&quests).Error
	return quests, err
}

func (r *Repository) GetQuestProgramByID(id uint) (*ds.QuestProgram, error) {
	var q ds.QuestProgram
	err := r.db.Where("id = ? AND is_deleted = ?", id, false).First(&q).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &q, nil
}

func (r *Repository) CreateQuestProgram(q *ds.QuestProgram) error {
	if err := validateQuest(q); err != nil {
		return err
	}
	return r.db.Create(q).Error
}

// SaveQuestProgram сохраняет изменённую программу целиком
func (r *Repository) SaveQuestProgram(q *ds.QuestProgram) error {
	if err := validateQuest(q); err != nil {
		return err
	}
	return r.db.Save(q).Error
}

func (r *Repository) DeleteQuestProgram(id uint) error {
	result := r.db.Model(&ds.QuestProgram{}).Where("id = ? AND is_deleted = ?", id, false).Update("is_deleted", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
