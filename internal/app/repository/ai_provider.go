package repository

import (
	"strings"

	"kidsevents/internal/app/ds"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Методы для настроек AI провайдеров

// IsValidAIKind проверяет тип провайдера
func IsValidAIKind(kind string) bool {
	switch kind {
	case ds.AIKindOpenAI, ds.AIKindAnthropic, ds.AIKindOllama, ds.AIKindYandexGPT, ds.AIKindGigaChat:
		return true
	}
	return false
}

func validateAIProvider(p *ds.AIProviderConfig) error {
	if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Model) == "" {
		return ErrInvalidInput
	}
	if !IsValidAIKind(p.Kind) {
		return ErrInvalidInput
	}
	if !strings.HasPrefix(p.BaseURL, "http://") && !strings.HasPrefix(p.BaseURL, "https://") {
		return ErrInvalidInput
	}
	if p.Temperature < 0 || p.Temperature > 2 || p.MaxTokens < 0 {
		return ErrInvalidInput
	}
	return nil
}

// clearDefault снимает признак default со всех провайдеров
func clearDefault(tx *gorm.DB) error {
	return tx.Model(&ds.AIProviderConfig{}).Where("is_default = ?", true).Update("is_default", false).Error
}

func (r *Repository) ListAIProviders() ([]ds.AIProviderConfig, error) {
	var providers []ds.AIProviderConfig
	err := r.db.Order("is_default DESC").Order("name").Order("id").Find(&providers).Error
	return providers, err
}

func (r *Repository) GetAIProvider(id uint) (*ds.AIProviderConfig, error) {
	var p ds.AIProviderConfig
	if err := r.db.First(&p, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// CreateAIProvider создаёт настройки. Первый провайдер становится провайдером по умолчанию.
func (r *Repository) CreateAIProvider(p *ds.AIProviderConfig) error {
	if p.MaxTokens == 0 {
		p.MaxTokens = 1024
	}
	if err := validateAIProvider(p); err != nil {
		return err
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&ds.AIProviderConfig{}).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			p.IsDefault = true
		}
		if p.IsDefault {
			if err := clearDefault(tx); err != nil {
				return err
			}
		}
		return tx.Create(p).Error
	})
}

// AIProviderUpdate изменяемые поля; пустой APIKey оставляет ключ прежним
type AIProviderUpdate struct {
	Name           *string
	Kind           *string
	BaseURL        *string
	Model          *string
	EmbeddingModel *string
	APIKey         *string
	Temperature    *float64
	MaxTokens      *int
	Enabled        *bool
}

func (r *Repository) UpdateAIProvider(id uint, upd AIProviderUpdate) (*ds.AIProviderConfig, error) {
	p, err := r.GetAIProvider(id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Kind != nil {
		p.Kind = *upd.Kind
	}
	if upd.BaseURL != nil {
		p.BaseURL = *upd.BaseURL
	}
	if upd.Model != nil {
		p.Model = *upd.Model
	}
	if upd.EmbeddingModel != nil {
		p.EmbeddingModel = *upd.EmbeddingModel
	}
	if upd.APIKey != nil && *upd.APIKey != "" {
		p.APIKey = *upd.APIKey
	}
	if upd.Temperature != nil {
		p.Temperature = *upd.Temperature
	}
	if upd.MaxTokens != nil {
		p.MaxTokens = *upd.MaxTokens
	}
	if upd.Enabled != nil {
		p.Enabled = *upd.Enabled
	}
	if err := validateAIProvider(p); err != nil {
		return nil, err
	}

	if err := r.db.Omit(clause.Associations).Save(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

func (r *Repository) DeleteAIProvider(id uint) error {
	result := r.db.Delete(&ds.AIProviderConfig{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetDefaultAIProvider делает провайдер единственным провайдером по умолчанию
func (r *Repository) SetDefaultAIProvider(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var p ds.AIProviderConfig
		if err := tx.First(&p, id).Error; err != nil {
			return notFound(err)
		}
		if !p.Enabled {
			return ErrInvalidStatus
		}
		if err := clearDefault(tx); err != nil {
			return err
		}
		return tx.Model(&ds.AIProviderConfig{}).Where("id = ?", id).Update("is_default", true).Error
	})
}

// GetDefaultAIProvider включённый провайдер по умолчанию
func (r *Repository) GetDefaultAIProvider() (*ds.AIProviderConfig, error) {
	var p ds.AIProviderConfig
	err := r.db.Where("is_default = ? AND enabled = ?", true, true).First(&p).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// GetEnabledAIProvider включённый провайдер по id
func (r *Repository) GetEnabledAIProvider(id uint) (*ds.AIProviderConfig, error) {
	p, err := r.GetAIProvider(id)
	if err != nil {
		return nil, err
	}
	if !p.Enabled {
		return nil, ErrInvalidStatus
	}
	return p, nil
}
