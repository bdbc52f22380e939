package handler

import (
	"net/http"
	"testing"

	"kidsevents/internal/app/dto"
	"kidsevents/internal/app/role"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/auth/register", dto.RegisterRequest{
		Login: "anna", Password: testPassword, FullName: "Anna", Role: "provider",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	reg := decode[successOf[dto.LoginResponse]](t, w)
	assert.Equal(t, "success", reg.Status)
	assert.Equal(t, "provider", reg.Data.User.Role)
	assert.Equal(t, "Bearer", reg.Data.TokenType)
	assert.NotEmpty(t, reg.Data.Token)

	w = env.do(t, http.MethodPost, "/api/auth/register", dto.RegisterRequest{
		Login: "anna", Password: testPassword, FullName: "Other",
	}, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodPost, "/api/auth/login", dto.LoginRequest{Login: "anna", Password: "wrong-pass"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, "/api/auth/login", dto.LoginRequest{Login: "anna", Password: testPassword}, "")
	require.Equal(t, http.StatusOK, w.Code)
	login := decode[successOf[dto.LoginResponse]](t, w)

	w = env.do(t, http.MethodGet, "/api/auth/me", nil, login.Data.Token)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[dto.UserResponse](t, w)
	assert.Equal(t, "anna", me.Login)
	assert.Equal(t, "Anna", me.FullName)
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/auth/register", dto.RegisterRequest{
		Login: "boss", Password: testPassword, FullName: "Boss", Role: "admin",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/auth/register", map[string]string{"login": "x"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogoutBlacklistsToken(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.user(t, "parent", role.Customer)

	w := env.do(t, http.MethodPost, "/api/auth/logout", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodGet, "/api/auth/me", nil, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutWithoutRedis(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.user(t, "parent", role.Customer)
	env.handler.AuthHandler.RedisClient = nil

	w := env.do(t, http.MethodPost, "/api/auth/logout", nil, token)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAuthFailsClosedWhenRedisDown(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.user(t, "parent", role.Customer)
	env.mr.Close()

	w := env.do(t, http.MethodGet, "/api/auth/me", nil, token)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAuthRequired(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodGet, "/api/auth/me", nil, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateMe(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.user(t, "parent", role.Customer)

	name, email, password := "Anna P", "anna@example.com", "newpass1"
	w := env.do(t, http.MethodPut, "/api/auth/me", dto.UpdateUserRequest{
		FullName: &name, Email: &email, Password: &password,
	}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	me := decode[dto.UserResponse](t, w)
	assert.Equal(t, name, me.FullName)
	assert.Equal(t, email, me.Email)

	w = env.do(t, http.MethodPost, "/api/auth/login", dto.LoginRequest{Login: "parent", Password: password}, "")
	assert.Equal(t, http.StatusOK, w.Code)

	bad := "not-an-email"
	w = env.do(t, http.MethodPut, "/api/auth/me", dto.UpdateUserRequest{Email: &bad}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
