package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ============ Общие структуры ============

type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type SuccessResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ListResponse список с количеством элементов в выдаче
type ListResponse struct {
	Items interface{} `json:"items"`
	Total int         `json:"total"`
}

// ============ Пользователи (Users) ============

type UserResponse struct {
	ID        uint      `json:"id"`
	Login     string    `json:"login"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type RegisterRequest struct {
	Login    string `json:"login" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name" binding:"required,max=100"`
	Role     string `json:"role" binding:"omitempty,oneof=customer provider"`
}

type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresIn int          `json:"expires_in"`
	User      UserResponse `json:"user"`
}

type UpdateUserRequest struct {
	FullName *string `json:"full_name" binding:"omitempty,max=100"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Phone    *string `json:"phone" binding:"omitempty,max=32"`
	Password *string `json:"password" binding:"omitempty,min=6"`
}

// ============ Профили исполнителей (Profiles) ============

type ProfileResponse struct {
	ID          uint      `json:"id"`
	UserID      uint      `json:"user_id"`
	Kind        string    `json:"kind"`
	DisplayName string    `json:"display_name"`
	City        string    `json:"city"`
	Description string    `json:"description"`
	Phone       string    `json:"phone"`
	AvatarURL   *string   `json:"avatar_url"`
	Latitude    *float64  `json:"latitude"`
	Longitude   *float64  `json:"longitude"`
	IsPublished bool      `json:"is_published"`
	DistanceKm  *float64  `json:"distance_km,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type ProfileDetailsResponse struct {
	ProfileResponse
	Services   []ServiceResponse      `json:"services"`
	Characters []CharacterResponse    `json:"characters"`
	Quests     []QuestProgramResponse `json:"quests"`
}

type CreateProfileRequest struct {
	Kind        string   `json:"kind" binding:"required,oneof=animator venue quest photographer"`
	DisplayName string   `json:"display_name" binding:"required,max=100"`
	City        string   `json:"city" binding:"max=100"`
	Description string   `json:"description"`
	Phone       string   `json:"phone" binding:"max=32"`
	Latitude    *float64 `json:"latitude" binding:"omitempty,gte=-90,lte=90"`
	Longitude   *float64 `json:"longitude" binding:"omitempty,gte=-180,lte=180"`
	IsPublished bool     `json:"is_published"`
}

type UpdateProfileRequest struct {
	DisplayName *string  `json:"display_name" binding:"omitempty,max=100"`
	City        *string  `json:"city" binding:"omitempty,max=100"`
	Description *string  `json:"description"`
	Phone       *string  `json:"phone" binding:"omitempty,max=32"`
	Latitude    *float64 `json:"latitude" binding:"omitempty,gte=-90,lte=90"`
	Longitude   *float64 `json:"longitude" binding:"omitempty,gte=-180,lte=180"`
	IsPublished *bool    `json:"is_published"`
}

// ============ Услуги (Services) ============

type ServiceResponse struct {
	ID              uint            `json:"id"`
	ProfileID       uint            `json:"profile_id"`
	ProfileName     string          `json:"profile_name,omitempty"`
	ProfileKind     string          `json:"profile_kind,omitempty"`
	City            string          `json:"city,omitempty"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	DurationMinutes int             `json:"duration_minutes"`
	ImageURL        *string         `json:"image_url"`
	CreatedAt       time.Time       `json:"created_at"`
}

type CreateServiceRequest struct {
	Name            string          `json:"name" binding:"required,max=100"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	DurationMinutes int             `json:"duration_minutes" binding:"omitempty,gte=0,lte=1440"`
	// ProfileID обязателен только для администратора
	ProfileID uint `json:"profile_id"`
}

type UpdateServiceRequest struct {
	Name            *string          `json:"name" binding:"omitempty,max=100"`
	Description     *string          `json:"description"`
	Price           *decimal.Decimal `json:"price"`
	DurationMinutes *int             `json:"duration_minutes" binding:"omitempty,gte=0,lte=1440"`
}

// ============ Персонажи (Characters) ============

type CharacterResponse struct {
	ID          uint            `json:"id"`
	ProfileID   uint            `json:"profile_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	ImageURL    *string         `json:"image_url"`
	ExtraPrice  decimal.Decimal `json:"extra_price"`
}

type CreateCharacterRequest struct {
	Name        string          `json:"name" binding:"required,max=100"`
	Description string          `json:"description"`
	ExtraPrice  decimal.Decimal `json:"extra_price"`
	ProfileID   uint            `json:"profile_id"`
}

type UpdateCharacterRequest struct {
	Name        *string          `json:"name" binding:"omitempty,max=100"`
	Description *string          `json:"description"`
	ExtraPrice  *decimal.Decimal `json:"extra_price"`
}

// ============ Программы квестов (Quest programs) ============

type QuestProgramResponse struct {
	ID              uint            `json:"id"`
	ProfileID       uint            `json:"profile_id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	AgeMin          int             `json:"age_min"`
	AgeMax          int             `json:"age_max"`
	PlayersMin      int             `json:"players_min"`
	PlayersMax      int             `json:"players_max"`
	DurationMinutes int             `json:"duration_minutes"`
	Price           decimal.Decimal `json:"price"`
}

type QuestProgramRequest struct {
	Title           string          `json:"title" binding:"required,max=100"`
	Description     string          `json:"description"`
	AgeMin          int             `json:"age_min" binding:"gte=0,lte=18"`
	AgeMax          int             `json:"age_max" binding:"gte=0,lte=18"`
	PlayersMin      int             `json:"players_min" binding:"required,gte=1"`
	PlayersMax      int             `json:"players_max" binding:"required,gte=1"`
	DurationMinutes int             `json:"duration_minutes" binding:"omitempty,gte=0,lte=1440"`
	Price           decimal.Decimal `json:"price"`
	ProfileID       uint            `json:"profile_id"`
}

// ============ Корзина и заявки (Cart, Orders) ============

type AddToCartRequest struct {
	ServiceID   uint  `json:"service_id" binding:"required"`
	Quantity    int   `json:"quantity" binding:"omitempty,gte=1,lte=100"`
	CharacterID *uint `json:"character_id"`
}

type UpdateCartItemRequest struct {
	Quantity       int   `json:"quantity" binding:"required,gte=1,lte=100"`
	CharacterID    *uint `json:"character_id"`
	ClearCharacter bool  `json:"clear_character"`
}

type OrderItemResponse struct {
	ID            uint            `json:"id"`
	ServiceID     uint            `json:"service_id"`
	ServiceName   string          `json:"service_name"`
	CharacterID   *uint           `json:"character_id,omitempty"`
	CharacterName string          `json:"character_name,omitempty"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	SubTotal      decimal.Decimal `json:"subtotal"`
}

type OrderResponse struct {
	ID              uint                `json:"id"`
	CustomerID      uint                `json:"customer_id"`
	Customer        string              `json:"customer,omitempty"`
	ProfileID       uint                `json:"profile_id"`
	ProfileName     string              `json:"profile_name,omitempty"`
	Status          string              `json:"status"`
	Stage           string              `json:"stage"`
	CreatedAt       time.Time           `json:"created_at"`
	SubmittedAt     *time.Time          `json:"submitted_at,omitempty"`
	StageChangedAt  *time.Time          `json:"stage_changed_at,omitempty"`
	EventDate       *time.Time          `json:"event_date,omitempty"`
	Address         string              `json:"address,omitempty"`
	ChildrenCount   int                 `json:"children_count"`
	ContactPhone    string              `json:"contact_phone,omitempty"`
	Comment         string              `json:"comment,omitempty"`
	PromoCode       string              `json:"promo_code,omitempty"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	DiscountPercent int                 `json:"discount_percent"`
	DiscountAmount  decimal.Decimal     `json:"discount_amount"`
	Total           decimal.Decimal     `json:"total"`
	Items           []OrderItemResponse `json:"items"`
}

type CartResponse struct {
	Orders    []OrderResponse `json:"orders"`
	ItemCount int64           `json:"item_count"`
	Total     decimal.Decimal `json:"total"`
}

type CheckoutRequest struct {
	EventDate     *time.Time `json:"event_date"`
	Address       string     `json:"address" binding:"required,max=255"`
	ChildrenCount int        `json:"children_count" binding:"gte=0,lte=500"`
	ContactPhone  string     `json:"contact_phone" binding:"required,max=32"`
	Comment       string     `json:"comment"`
	PromoCode     string     `json:"promo_code" binding:"max=50"`
}

type UpdateStageRequest struct {
	Stage string `json:"stage" binding:"required,stage"`
}

// ============ Рекламные кампании (Campaigns) ============

type CampaignResponse struct {
	ID              uint             `json:"id"`
	ProfileID       uint             `json:"profile_id"`
	Name            string           `json:"name"`
	Placement       string           `json:"placement"`
	Status          string           `json:"status"`
	Budget          decimal.Decimal  `json:"budget"`
	CostPerClick    decimal.Decimal  `json:"cost_per_click"`
	Spent           decimal.Decimal  `json:"spent"`
	Impressions     int64            `json:"impressions"`
	Clicks          int64            `json:"clicks"`
	StartsAt        time.Time        `json:"starts_at"`
	EndsAt          time.Time        `json:"ends_at"`
	PromoCode       *string          `json:"promo_code"`
	DiscountPercent int              `json:"discount_percent"`
	Profile         *ProfileResponse `json:"profile,omitempty"`
}

type CreateCampaignRequest struct {
	Name            string          `json:"name" binding:"required,max=100"`
	Placement       string          `json:"placement" binding:"required,oneof=catalog_top search banner"`
	Budget          decimal.Decimal `json:"budget"`
	CostPerClick    decimal.Decimal `json:"cost_per_click"`
	StartsAt        time.Time       `json:"starts_at"`
	EndsAt          time.Time       `json:"ends_at"`
	PromoCode       *string         `json:"promo_code" binding:"omitempty,max=50"`
	DiscountPercent int             `json:"discount_percent" binding:"gte=0,lte=90"`
	ProfileID       uint            `json:"profile_id"`
}

type UpdateCampaignRequest struct {
	Name            *string          `json:"name" binding:"omitempty,max=100"`
	Placement       *string          `json:"placement" binding:"omitempty,oneof=catalog_top search banner"`
	Budget          *decimal.Decimal `json:"budget"`
	CostPerClick    *decimal.Decimal `json:"cost_per_click"`
	StartsAt        *time.Time       `json:"starts_at"`
	EndsAt          *time.Time       `json:"ends_at"`
	PromoCode       *string          `json:"promo_code" binding:"omitempty,max=50"`
	DiscountPercent *int             `json:"discount_percent" binding:"omitempty,gte=0,lte=90"`
}

// ============ AI провайдеры (AI providers) ============

type AIProviderResponse struct {
	ID             uint      `json:"id"`
	Name           string    `json:"name"`
	Kind           string    `json:"kind"`
	BaseURL        string    `json:"base_url"`
	Model          string    `json:"model"`
	EmbeddingModel string    `json:"embedding_model"`
	APIKeySet      bool      `json:"api_key_set"`
	APIKeyHint     string    `json:"api_key_hint,omitempty"`
	Temperature    float64   `json:"temperature"`
	MaxTokens      int       `json:"max_tokens"`
	IsDefault      bool      `json:"is_default"`
	Enabled        bool      `json:"enabled"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type CreateAIProviderRequest struct {
	Name           string  `json:"name" binding:"required,max=100"`
	Kind           string  `json:"kind" binding:"required,oneof=openai anthropic ollama yandexgpt gigachat"`
	BaseURL        string  `json:"base_url" binding:"required,url"`
	Model          string  `json:"model" binding:"required,max=100"`
	EmbeddingModel string  `json:"embedding_model" binding:"max=100"`
	APIKey         string  `json:"api_key"`
	Temperature    float64 `json:"temperature" binding:"gte=0,lte=2"`
	MaxTokens      int     `json:"max_tokens" binding:"omitempty,gte=1,lte=32000"`
	IsDefault      bool    `json:"is_default"`
	Enabled        *bool   `json:"enabled"`
}

type UpdateAIProviderRequest struct {
	Name           *string  `json:"name" binding:"omitempty,max=100"`
	Kind           *string  `json:"kind" binding:"omitempty,oneof=openai anthropic ollama yandexgpt gigachat"`
	BaseURL        *string  `json:"base_url" binding:"omitempty,url"`
	Model          *string  `json:"model" binding:"omitempty,max=100"`
	EmbeddingModel *string  `json:"embedding_model" binding:"omitempty,max=100"`
	APIKey         *string  `json:"api_key"`
	Temperature    *float64 `json:"temperature" binding:"omitempty,gte=0,lte=2"`
	MaxTokens      *int     `json:"max_tokens" binding:"omitempty,gte=1,lte=32000"`
	Enabled        *bool    `json:"enabled"`
}

type AITestResponse struct {
	LatencyMs int64  `json:"latency_ms"`
	Reply     string `json:"reply"`
	Model     string `json:"model"`
}

// ============ AI шлюз (AI gateway) ============

type ChatMessage struct {
	Role    string `json:"role" binding:"required,oneof=system user assistant"`
	Content string `json:"content" binding:"required"`
}

type ChatRequest struct {
	Messages   []ChatMessage `json:"messages" binding:"required,min=1,max=50,dive"`
	ProviderID *uint         `json:"provider_id"`
}

type EmbeddingsRequest struct {
	Input      []string `json:"input" binding:"required,min=1,max=100"`
	ProviderID *uint    `json:"provider_id"`
}

type EmbeddingsResponse struct {
	Vectors [][]float64 `json:"vectors"`
}

type DescribeServiceRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Kind  string `json:"kind" binding:"omitempty,oneof=animator venue quest photographer"`
	Notes string `json:"notes" binding:"max=2000"`
}
