package ds

import "time"

// Типы AI провайдеров
const (
	AIKindOpenAI    = "openai"
	AIKindAnthropic = "anthropic"
	AIKindOllama    = "ollama"
	AIKindYandexGPT = "yandexgpt"
	AIKindGigaChat  = "gigachat"
)

// Настройки подключения к AI провайдеру. Не более одной записи с IsDefault.
type AIProviderConfig struct {
	ID             uint    `gorm:"primaryKey"`
	Name           string  `gorm:"type:varchar(100);not null"`
	Kind           string  `gorm:"type:varchar(20);not null"`
	BaseURL        string  `gorm:"type:varchar(255);not null"`
	Model          string  `gorm:"type:varchar(100);not null"`
	EmbeddingModel string  `gorm:"type:varchar(100)"`
	APIKey         string  `gorm:"type:varchar(255)"`
	Temperature    float64 `gorm:"not null"`
	MaxTokens      int     `gorm:"default:1024"`
	IsDefault      bool    `gorm:"type:boolean;default:false;not null"`
	Enabled        bool    `gorm:"type:boolean;not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
