package repository

import (
	"kidsevents/internal/app/ds"
	"kidsevents/internal/app/role"
)

// Методы для пользователей (ORM)

func (r *Repository) GetUserByID(id uint) (*ds.User, error) {
	var user ds.User
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *Repository) GetUserByLogin(login string) (*ds.User, error) {
	var user ds.User
	err := r.db.Where("login = ?", login).First(&user).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *Repository) UserExistsByLogin(login string) (bool, error) {
	var count int64
	err := r.db.Model(&ds.User{}).Where("login = ?", login).Count(&count).Error
	return count > 0, err
}

func (r *Repository) CreateUser(login, passwordHash, fullName string, userRole role.Role) (*ds.User, error) {
	exists, err := r.UserExistsByLogin(login)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyExists
	}

	user := ds.User{
		Login:    login,
		Password: passwordHash,
		FullName: fullName,
		Role:     userRole,
	}

	err = r.db.Create(&user).Error
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// UserUpdate изменяемые поля аккаунта; nil означает "не менять"
type UserUpdate struct {
	FullName     *string
	Email        *string
	Phone        *string
	PasswordHash *string
}

func (r *Repository) UpdateUser(id uint, upd UserUpdate) error {
	updates := map[string]interface{}{}
	if upd.FullName != nil {
		updates["full_name"] = *upd.FullName
	}
	if upd.Email != nil {
		updates["email"] = *upd.Email
	}
	if upd.Phone != nil {
		updates["phone"] = *upd.Phone
	}
	if upd.PasswordHash != nil {
		updates["password"] = *upd.PasswordHash
	}
	if len(updates) == 0 {
		return nil
	}

	result := r.db.Model(&ds.User{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
