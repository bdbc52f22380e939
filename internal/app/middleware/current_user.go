package middleware

import (
	"kidsevents/internal/app/ds"
	"kidsevents/internal/app/role"

	"github.com/gin-gonic/gin"
)

// Ключи контекста gin с данными пользователя
const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
)

// CurrentUser пользователь текущего запроса (из JWT)
type CurrentUser struct {
	ID   uint
	Role role.Role
}

func (u CurrentUser) IsAdmin() bool {
	return u.Role == role.Admin
}

func (u CurrentUser) IsProvider() bool {
	return u.Role == role.Provider
}

func setCurrentUser(c *gin.Context, claims *ds.JWTClaims) {
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextUserRole, claims.Role)
}

// GetUserFromContext извлекает пользователя из контекста
func GetUserFromContext(c *gin.Context) (CurrentUser, bool) {
	id, ok := c.Get(ContextUserID)
	if !ok {
		return CurrentUser{}, false
	}
	userID, ok := id.(uint)
	if !ok || userID == 0 {
		return CurrentUser{}, false
	}

	user := CurrentUser{ID: userID}
	if r, ok := c.Get(ContextUserRole); ok {
		user.Role, _ = r.(role.Role)
	}
	return user, true
}
