package repository

import (
	"errors"
	"fmt"
	"time"

	"kidsevents/internal/app/ds"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	ErrNotFound        = errors.New("запись не найдена")
	ErrForbidden       = errors.New("нет доступа к записи")
	ErrAlreadyExists   = errors.New("запись уже существует")
	ErrConflict        = errors.New("конфликт данных")
	ErrInvalidStatus   = errors.New("операция недоступна в текущем статусе")
	ErrInvalidStage    = errors.New("неизвестный этап заявки")
	ErrInvalidInput    = errors.New("некорректные данные")
	ErrProfileMismatch = errors.New("позиции заявки должны относиться к одному исполнителю")
	ErrEmptyOrder      = errors.New("в заявке нет услуг")
	ErrInvalidPromo    = errors.New("промокод недействителен")
)

type Repository struct {
	db *gorm.DB
}

// Models перечисляет все таблицы для миграции
func Models() []interface{} {
	return []interface{}{
		&ds.User{},
		&ds.Profile{},
		&ds.Service{},
		&ds.Character{},
		&ds.QuestProgram{},
		&ds.Order{},
		&ds.OrderItem{},
		&ds.Campaign{},
		&ds.AIProviderConfig{},
	}
}

// GormConfig общие настройки gorm: время храним в UTC
func GormConfig() *gorm.Config {
	return &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
	}
}

func New(dsn string) (*Repository, error) {
	db, err := gorm.Open(postgres.Open(dsn), GormConfig())
	if err != nil {
		return nil, err
	}

	// Автоматическая миграция всех таблиц
	err = db.AutoMigrate(Models()...)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Repository{
		db: db,
	}, nil
}

// NewWithDB создаёт репозиторий поверх готового соединения
func NewWithDB(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// DB отдаёт соединение (для миграций и сидов)
func (r *Repository) DB() *gorm.DB {
	return r.db
}

// notFound приводит gorm.ErrRecordNotFound к ErrNotFound
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// Page ограничение выборки. Отрицательный Limit снимает ограничение.
type Page struct {
	Limit  int
	Offset int
}

const (
	defaultLimit = 50
	maxLimit     = 200
)

// NoLimit выборка без ограничения (экспорт, аналитика)
var NoLimit = Page{Limit: -1}

func (p Page) apply(q *gorm.DB) *gorm.DB {
	if p.Limit < 0 {
		return q
	}
	limit := p.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	q = q.Limit(limit)
	if p.Offset > 0 {
		q = q.Offset(p.Offset)
	}
	return q
}
