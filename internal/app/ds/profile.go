package ds

import "time"

// Виды исполнителей
const (
	KindAnimator     = "animator"
	KindVenue        = "venue"
	KindQuest        = "quest"
	KindPhotographer = "photographer"
)

// ProfileKinds перечисляет допустимые виды профилей
var ProfileKinds = []string{KindAnimator, KindVenue, KindQuest, KindPhotographer}

// Профиль исполнителя. Один профиль на пользователя с ролью provider.
type Profile struct {
	ID          uint     `gorm:"primaryKey"`
	UserID      uint     `gorm:"not null;uniqueIndex"`
	Kind        string   `gorm:"type:varchar(20);not null;index"`
	DisplayName string   `gorm:"type:varchar(100);not null"`
	City        string   `gorm:"type:varchar(100);index"`
	Description string   `gorm:"type:text"`
	Phone       string   `gorm:"type:varchar(32)"`
	AvatarURL   *string  `gorm:"type:varchar(255)"`
	Latitude    *float64 `gorm:"index"`
	Longitude   *float64 `gorm:"index"`
	IsPublished bool     `gorm:"type:boolean;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	User User `gorm:"foreignKey:UserID"`
}

// HasLocation сообщает заданы ли координаты
func (p *Profile) HasLocation() bool {
	return p.Latitude != nil && p.Longitude != nil
}
