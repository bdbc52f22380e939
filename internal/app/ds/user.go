package ds

import (
	"time"

	"kidsevents/internal/app/role"
)

// Таблица пользователей
type User struct {
	ID        uint      `gorm:"primaryKey"`
	Login     string    `gorm:"type:varchar(50);unique;not null"`
	Password  string    `gorm:"type:varchar(255);not null"` // bcrypt хеш
	Role      role.Role `gorm:"type:int;default:0;not null"`
	Email     string    `gorm:"type:varchar(100)"`
	Phone     string    `gorm:"type:varchar(32)"`
	FullName  string    `gorm:"type:varchar(100)"`
	CreatedAt time.Time `gorm:"not null"`
}
