package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"kidsevents/internal/app/config"
	"kidsevents/internal/app/ds"
	"kidsevents/internal/app/redis"
	"kidsevents/internal/app/role"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	log "github.com/sirupsen/logrus"
)

type AuthMiddleware struct {
	// RedisClient может быть nil: тогда blacklist не проверяется
	RedisClient *redis.Client
	Config      *config.Config
}

func NewAuthMiddleware(redisClient *redis.Client, cfg *config.Config) *AuthMiddleware {
	return &AuthMiddleware{
		RedisClient: redisClient,
		Config:      cfg,
	}
}

// BearerToken достаёт токен из заголовка Authorization
func BearerToken(gCtx *gin.Context) string {
	jwtStr := strings.TrimSpace(gCtx.GetHeader("Authorization"))
	if len(jwtStr) > 7 && strings.EqualFold(jwtStr[:7], "Bearer ") {
		jwtStr = strings.TrimSpace(jwtStr[7:])
	}
	return jwtStr
}

// WithAuthCheck middleware для проверки авторизации с ролями
func (am *AuthMiddleware) WithAuthCheck(assignedRoles ...role.Role) gin.HandlerFunc {
	return gin.HandlerFunc(func(gCtx *gin.Context) {
		jwtStr := BearerToken(gCtx)
		if jwtStr == "" {
			gCtx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		status, claims := am.authenticate(gCtx, jwtStr)
		if status != http.StatusOK {
			gCtx.AbortWithStatus(status)
			return
		}

		// Проверяем роли пользователя
		if len(assignedRoles) > 0 && !am.hasRequiredRole(claims.Role, assignedRoles) {
			gCtx.AbortWithStatus(http.StatusForbidden)
			return
		}

		setCurrentUser(gCtx, claims)
		gCtx.Next()
	})
}

// OptionalAuth заполняет пользователя в контексте, если передан валидный токен.
// Запрос не прерывает никогда.
func (am *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(gCtx *gin.Context) {
		if jwtStr := BearerToken(gCtx); jwtStr != "" {
			if status, claims := am.authenticate(gCtx, jwtStr); status == http.StatusOK {
				setCurrentUser(gCtx, claims)
			}
		}
		gCtx.Next()
	}
}

// authenticate проверяет blacklist и подпись. Возвращает http статус и claims при успехе.
func (am *AuthMiddleware) authenticate(gCtx *gin.Context, jwtStr string) (int, *ds.JWTClaims) {
	if am.RedisClient != nil {
		err := am.RedisClient.CheckJWTInBlacklist(gCtx.Request.Context(), jwtStr)
		if err == nil {
			// Токен в blacklist
			return http.StatusUnauthorized, nil
		}
		if !errors.Is(err, redis.ErrNotBlacklisted) {
			log.WithError(err).Error("jwt blacklist check failed")
			return http.StatusServiceUnavailable, nil
		}
	}

	claims, err := am.ParseClaims(jwtStr)
	if err != nil {
		return http.StatusUnauthorized, nil
	}
	return http.StatusOK, claims
}

// ParseClaims парсит и валидирует JWT токен
func (am *AuthMiddleware) ParseClaims(tokenString string) (*ds.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ds.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(am.Config.JWT.Token), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*ds.JWTClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if !claims.Role.Valid() || claims.UserID == 0 {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// hasRequiredRole проверяет, есть ли у пользователя необходимая роль
func (am *AuthMiddleware) hasRequiredRole(userRole role.Role, requiredRoles []role.Role) bool {
	for _, requiredRole := range requiredRoles {
		if userRole == requiredRole {
			return true
		}
	}
	return false
}
