package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"kidsevents/internal/app/config"
	"kidsevents/internal/app/ds"
	"kidsevents/internal/app/dto"
	"kidsevents/internal/app/middleware"
	"kidsevents/internal/app/redis"
	"kidsevents/internal/app/repository"
	"kidsevents/internal/app/role"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	Repository  *repository.Repository
	RedisClient *redis.Client
	Config      *config.Config
}

func NewAuthHandler(r *repository.Repository, redisClient *redis.Client, config *config.Config) *AuthHandler {
	return &AuthHandler{
		Repository:  r,
		RedisClient: redisClient,
		Config:      config,
	}
}

// hashPassword bcrypt хеш пароля
func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// issueToken подписывает JWT для пользователя
func (h *AuthHandler) issueToken(user *ds.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(h.Config.JWT.SigningMethod, ds.JWTClaims{
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(h.Config.JWT.ExpiresIn).Unix(),
			IssuedAt:  now.Unix(),
			Issuer:    h.Config.JWT.Issuer,
			Id:        uuid.NewString(),
		},
		UserID: user.ID,
		Role:   user.Role,
	})
	return token.SignedString([]byte(h.Config.JWT.Token))
}

func (h *AuthHandler) loginResponse(user *ds.User) (dto.LoginResponse, error) {
	token, err := h.issueToken(user)
	if err != nil {
		return dto.LoginResponse{}, err
	}
	return dto.LoginResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int(h.Config.JWT.ExpiresIn.Seconds()),
		User:      toUserResponse(user),
	}, nil
}

// RegisterUser регистрация нового пользователя
// @Summary Регистрация пользователя
// @Description Создание заказчика или исполнителя; администратора зарегистрировать нельзя
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Данные для регистрации"
// @Success 201 {object} dto.SuccessResponse{data=dto.LoginResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/auth/register [post]
func (h *AuthHandler) RegisterUser(ctx *gin.Context) {
	var request dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		h.errorResponse(ctx, http.StatusBadRequest, "Неверные данные: "+err.Error())
		return
	}

	userRole, ok := role.FromString(request.Role)
	if !ok || userRole == role.Admin {
		h.errorResponse(ctx, http.StatusBadRequest, "Недопустимая роль")
		return
	}

	login := strings.TrimSpace(request.Login)
	exists, err := h.Repository.UserExistsByLogin(login)
	if err != nil {
		logrus.Error("Error checking login: ", err)
		h.errorResponse(ctx, http.StatusInternalServerError, "Ошибка регистрации пользователя")
		return
	}
	if exists {
		h.errorResponse(ctx, http.StatusConflict, "Пользователь с таким логином уже существует")
		return
	}

	hashedPassword, err := hashPassword(request.Password)
	if err != nil {
		logrus.Error("Error hashing password: ", err)
		h.errorResponse(ctx, http.StatusInternalServerError, "Ошибка регистрации пользователя")
		return
	}

	user, err := h.Repository.CreateUser(login, hashedPassword, request.FullName, userRole)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			h.errorResponse(ctx, http.StatusConflict, "Пользователь с таким логином уже существует")
			return
		}
		logrus.Error("Error creating user: ", err)
		h.errorResponse(ctx, http.StatusInternalServerError, "Ошибка регистрации пользователя")
		return
	}

	response, err := h.loginResponse(user)
	if err != nil {
		logrus.Error("Error signing token: ", err)
		h.errorResponse(ctx, http.StatusInternalServerError, "Ошибка создания токена")
		return
	}

	logrus.Infof("user %s registered as %s", user.Login, user.Role)
	ctx.JSON(http.StatusCreated, dto.SuccessResponse{
		Status:  "success",
		Message: "Пользователь успешно зарегистрирован",
		Data:    response,
	})
}

// LoginUser аутентификация пользователя
// @Summary Вход в систему
// @Description Аутентификация пользователя с возвратом JWT токена
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Данные для входа"
// @Success 200 {object} dto.SuccessResponse{data=dto.LoginResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Router /api/auth/login [post]
func (h *AuthHandler) LoginUser(ctx *gin.Context) {
	var request dto.LoginRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		h.errorResponse(ctx, http.StatusBadRequest, "Неверные данные: "+err.Error())
		return
	}

	user, err := h.Repository.GetUserByLogin(strings.TrimSpace(request.Login))
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		logrus.Error("Error loading user: ", err)
		h.errorResponse(ctx, http.StatusInternalServerError, "Ошибка авторизации")
		return
	}
	if err != nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(request.Password)) != nil {
		h.errorResponse(ctx, http.StatusUnauthorized, "Неверный логин или пароль")
		return
	}

	response, err := h.loginResponse(user)
	if err != nil {
		logrus.Error("Error signing token: ", err)
		h.errorResponse(ctx, http.StatusInternalServerError, "Ошибка создания токена")
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{
		Status:  "success",
		Message: "Пользователь успешно авторизован",
		Data:    response,
	})
}

// LogoutUser выход пользователя из системы
// @Summary Выход из системы
// @Description Добавляет токен в blacklist до истечения его срока
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SuccessResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/auth/logout [post]
func (h *AuthHandler) LogoutUser(ctx *gin.Context) {
	tokenString := middleware.BearerToken(ctx)
	if tokenString == "" {
		h.errorResponse(ctx, http.StatusUnauthorized, "Отсутствует заголовок Authorization")
		return
	}

	claims := &ds.JWTClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(h.Config.JWT.Token), nil
	})
	if err != nil {
		h.errorResponse(ctx, http.StatusUnauthorized, "Недействительный токен")
		return
	}

	ttl := time.Until(time.Unix(claims.ExpiresAt, 0))
	if ttl <= 0 {
		// Токен уже истек
		h.successResponse(ctx, "Пользователь успешно вышел из системы")
		return
	}

	if h.RedisClient == nil {
		logrus.Warn("logout requested but redis is not configured")
		h.errorResponse(ctx, http.StatusServiceUnavailable, "Хранилище сессий недоступно")
		return
	}

	err = h.RedisClient.WriteJWTToBlacklist(ctx.Request.Context(), tokenString, ttl)
	if err != nil {
		logrus.Error("Error writing token to blacklist: ", err)
		h.errorResponse(ctx, http.StatusServiceUnavailable, "Хранилище сессий недоступно")
		return
	}

	h.successResponse(ctx, "Пользователь успешно вышел из системы")
}

// GetMe данные текущего пользователя
// @Summary Текущий пользователь
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/auth/me [get]
func (h *AuthHandler) GetMe(ctx *gin.Context) {
	current, ok := middleware.GetUserFromContext(ctx)
	if !ok {
		h.errorResponse(ctx, http.StatusUnauthorized, "Пользователь не авторизован")
		return
	}

	user, err := h.Repository.GetUserByID(current.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.errorResponse(ctx, http.StatusNotFound, "Пользователь не найден")
			return
		}
		logrus.Error("Error loading user: ", err)
		h.errorResponse(ctx, http.StatusInternalServerError, "Ошибка получения пользователя")
		return
	}

	ctx.JSON(http.StatusOK, toUserResponse(user))
}

// UpdateMe изменение данных текущего пользователя
// @Summary Изменение аккаунта
// @Description Изменяет ФИО, email, телефон или пароль
// @Tags Authentication
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateUserRequest true "Изменяемые поля"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/auth/me [put]
func (h *AuthHandler) UpdateMe(ctx *gin.Context) {
	current, ok := middleware.GetUserFromContext(ctx)
	if !ok {
		h.errorResponse(ctx, http.StatusUnauthorized, "Пользователь не авторизован")
		return
	}

	var request dto.UpdateUserRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		h.errorResponse(ctx, http.StatusBadRequest, "Неверные данные: "+err.Error())
		return
	}

	upd := repository.UserUpdate{
		FullName: request.FullName,
		Email:    request.Email,
		Phone:    request.Phone,
	}
	if request.Password != nil {
		hash, err := hashPassword(*request.Password)
		if err != nil {
			logrus.Error("Error hashing password: ", err)
			h.errorResponse(ctx, http.StatusInternalServerError, "Ошибка изменения пароля")
			return
		}
		upd.PasswordHash = &hash
	}

	if err := h.Repository.UpdateUser(current.ID, upd); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.errorResponse(ctx, http.StatusNotFound, "Пользователь не найден")
			return
		}
		logrus.Error("Error updating user: ", err)
		h.errorResponse(ctx, http.StatusInternalServerError, "Ошибка изменения пользователя")
		return
	}

	user, err := h.Repository.GetUserByID(current.ID)
	if err != nil {
		logrus.Error("Error loading user: ", err)
		h.errorResponse(ctx, http.StatusInternalServerError, "Ошибка получения пользователя")
		return
	}
	ctx.JSON(http.StatusOK, toUserResponse(user))
}

func (h *AuthHandler) successResponse(ctx *gin.Context, message string) {
	ctx.JSON(http.StatusOK, dto.SuccessResponse{
		Status:  "success",
		Message: message,
	})
}

func (h *AuthHandler) errorResponse(ctx *gin.Context, code int, message string) {
	ctx.JSON(code, dto.ErrorResponse{
		Status:  "fail",
		Message: message,
	})
}
