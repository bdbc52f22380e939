package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"kidsevents/internal/app/ai"
	"kidsevents/internal/app/config"
	"kidsevents/internal/app/ds"
	"kidsevents/internal/app/dto"
	"kidsevents/internal/app/middleware"
	"kidsevents/internal/app/repository"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// ImageStore хранилище изображений (MinIO)
type ImageStore interface {
	UploadFile(ctx context.Context, prefix string, fileData []byte, originalFilename string) (string, error)
	DeleteFile(ctx context.Context, filename string) error
	DownloadFile(ctx context.Context, filename string) ([]byte, error)
	FileExists(ctx context.Context, filename string) (bool, error)
}

// AIClient обращения к AI провайдерам
type AIClient interface {
	Chat(ctx context.Context, p ai.Provider, messages []ai.Message) (*ai.ChatResult, error)
	Embeddings(ctx context.Context, p ai.Provider, input []string) ([][]float64, error)
}

// APIHandler содержит обработчики для REST API
type APIHandler struct {
	Repository  *repository.Repository
	Images      ImageStore
	AI          AIClient
	AuthHandler *AuthHandler
	Config      *config.Config
	// now подменяется в тестах
	now func() time.Time
}

func NewAPIHandler(r *repository.Repository, images ImageStore, aiClient AIClient, authHandler *AuthHandler, cfg *config.Config) *APIHandler {
	return &APIHandler{
		Repository:  r,
		Images:      images,
		AI:          aiClient,
		AuthHandler: authHandler,
		Config:      cfg,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		// этап воронки: любой из известных
		_ = v.RegisterValidation("stage", func(fl validator.FieldLevel) bool {
			return ds.IsValidStage(fl.Field().String())
		})
	}
}

// ============ Вспомогательные функции ============

func (h *APIHandler) errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, dto.ErrorResponse{
		Status:  "fail",
		Message: message,
	})
}

func (h *APIHandler) successResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	response := dto.SuccessResponse{
		Status:  "success",
		Message: message,
	}
	if data != nil {
		response.Data = data
	}
	c.JSON(statusCode, response)
}

// statusFromError сопоставляет ошибки репозитория http статусам
func statusFromError(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, repository.ErrAlreadyExists),
		errors.Is(err, repository.ErrConflict),
		errors.Is(err, repository.ErrProfileMismatch):
		return http.StatusConflict
	case errors.Is(err, repository.ErrInvalidStatus),
		errors.Is(err, repository.ErrInvalidStage),
		errors.Is(err, repository.ErrInvalidInput),
		errors.Is(err, repository.ErrEmptyOrder),
		errors.Is(err, repository.ErrInvalidPromo):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// repoError отвечает по ошибке репозитория; внутренние ошибки логируются и скрываются
func (h *APIHandler) repoError(c *gin.Context, err error, internalMessage string) {
	status := statusFromError(err)
	if status == http.StatusInternalServerError {
		logrus.WithError(err).WithField("path", c.FullPath()).Error(internalMessage)
		h.errorResponse(c, status, internalMessage)
		return
	}
	h.errorResponse(c, status, err.Error())
}

func (h *APIHandler) bindError(c *gin.Context, err error) {
	h.errorResponse(c, http.StatusBadRequest, "Неверные данные: "+err.Error())
}

// parseID разбирает положительный числовой параметр пути
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// currentUser пользователь из контекста (установлен middleware)
func (h *APIHandler) currentUser(c *gin.Context) (middleware.CurrentUser, bool) {
	user, ok := middleware.GetUserFromContext(c)
	if !ok {
		h.errorResponse(c, http.StatusUnauthorized, "Ошибка авторизации")
	}
	return user, ok
}

// parsePage limit/offset из query
func parsePage(c *gin.Context) repository.Page {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	if limit < 0 {
		limit = 0
	}
	if offset < 0 {
		offset = 0
	}
	return repository.Page{Limit: limit, Offset: offset}
}

const dateLayout = "2006-01-02"

// parseDate дата YYYY-MM-DD из query; пустое значение даёт nil
func parseDate(c *gin.Context, name string) (*time.Time, error) {
	v := strings.TrimSpace(c.Query(name))
	if v == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, v, time.UTC)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ownProfile профиль исполнителя текущего пользователя
func (h *APIHandler) ownProfile(c *gin.Context, user middleware.CurrentUser) (*ds.Profile, bool) {
	profile, err := h.Repository.GetProfileByUserID(user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.errorResponse(c, http.StatusNotFound, "Сначала создайте профиль исполнителя")
			return nil, false
		}
		h.repoError(c, err, "Ошибка получения профиля")
		return nil, false
	}
	return profile, true
}

// targetProfile профиль, с которым работает запрос: администратор указывает его явно,
// исполнитель всегда работает со своим
func (h *APIHandler) targetProfile(c *gin.Context, user middleware.CurrentUser, requested uint) (*ds.Profile, bool) {
	if user.IsAdmin() {
		if requested == 0 {
			h.errorResponse(c, http.StatusBadRequest, "Не указан profile_id")
			return nil, false
		}
		profile, err := h.Repository.GetProfileByID(requested)
		if err != nil {
			h.repoError(c, err, "Ошибка получения профиля")
			return nil, false
		}
		return profile, true
	}
	return h.ownProfile(c, user)
}

// canManage может ли пользователь изменять данные профиля
func (h *APIHandler) canManage(c *gin.Context, user middleware.CurrentUser, profileID uint) bool {
	if user.IsAdmin() {
		return true
	}
	profile, err := h.Repository.GetProfileByUserID(user.ID)
	if err == nil && profile.ID == profileID {
		return true
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		h.repoError(c, err, "Ошибка проверки прав")
		return false
	}
	h.errorResponse(c, http.StatusForbidden, "Нет доступа к чужому профилю")
	return false
}

// Ping проверяет работоспособность API
// @Summary Проверка работоспособности
// @Description Возвращает простой ответ для проверки работы сервера
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /ping [get]
func (h *APIHandler) Ping(ctx *gin.Context) {
	ctx.JSON(200, gin.H{"message": "pong"})
}
