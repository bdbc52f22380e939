package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"kidsevents/internal/app/ai"
	"kidsevents/internal/app/ds"
	"kidsevents/internal/app/dto"
	"kidsevents/internal/app/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ============ AI провайдеры (администратор) ============

// testPrompt короткий запрос для проверки подключения
const testPrompt = "Ответь одним словом: готов?"

// GetAIProviders список провайдеров
// @Summary Список AI провайдеров
// @Description Ключи API не возвращаются, только признак и маска
// @Tags AI providers
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ListResponse{items=[]dto.AIProviderResponse}
// @Router /api/ai-providers [get]
func (h *APIHandler) GetAIProviders(c *gin.Context) {
	providers, err := h.Repository.ListAIProviders()
	if err != nil {
		h.repoError(c, err, "Ошибка получения провайдеров")
		return
	}

	resp := make([]dto.AIProviderResponse, 0, len(providers))
	for i := range providers {
		resp = append(resp, toAIProviderResponse(&providers[i]))
	}
	c.JSON(http.StatusOK, dto.ListResponse{Items: resp, Total: len(resp)})
}

// CreateAIProvider добавление провайдера
// @Summary Добавление AI провайдера
// @Description Первый провайдер становится провайдером по умолчанию
// @Tags AI providers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateAIProviderRequest true "Настройки"
// @Success 201 {object} dto.AIProviderResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/ai-providers [post]
func (h *APIHandler) CreateAIProvider(c *gin.Context) {
	var req dto.CreateAIProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}
	provider := ds.AIProviderConfig{
		Name:           strings.TrimSpace(req.Name),
		Kind:           req.Kind,
		BaseURL:        strings.TrimSpace(req.BaseURL),
		Model:          strings.TrimSpace(req.Model),
		EmbeddingModel: strings.TrimSpace(req.EmbeddingModel),
		APIKey:         strings.TrimSpace(req.APIKey),
		Temperature:    req.Temperature,
		MaxTokens:      req.MaxTokens,
		IsDefault:      req.IsDefault,
		Enabled:        enabled,
	}
	if err := h.Repository.CreateAIProvider(&provider); err != nil {
		h.repoError(c, err, "Ошибка создания провайдера")
		return
	}

	logrus.Infof("ai provider %s (%s) created", provider.Name, provider.Kind)
	c.JSON(http.StatusCreated, toAIProviderResponse(&provider))
}

// UpdateAIProvider изменение провайдера
// @Summary Изменение AI провайдера
// @Description Пустой api_key оставляет прежний ключ
// @Tags AI providers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID провайдера"
// @Param request body dto.UpdateAIProviderRequest true "Изменяемые поля"
// @Success 200 {object} dto.AIProviderResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/ai-providers/{id} [put]
func (h *APIHandler) UpdateAIProvider(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID провайдера")
		return
	}

	var req dto.UpdateAIProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	provider, err := h.Repository.UpdateAIProvider(id, repository.AIProviderUpdate{
		Name:           req.Name,
		Kind:           req.Kind,
		BaseURL:        req.BaseURL,
		Model:          req.Model,
		EmbeddingModel: req.EmbeddingModel,
		APIKey:         req.APIKey,
		Temperature:    req.Temperature,
		MaxTokens:      req.MaxTokens,
		Enabled:        req.Enabled,
	})
	if err != nil {
		h.repoError(c, err, "Ошибка изменения провайдера")
		return
	}
	c.JSON(http.StatusOK, toAIProviderResponse(provider))
}

// DeleteAIProvider удаление провайдера
// @Summary Удаление AI провайдера
// @Tags AI providers
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID провайдера"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/ai-providers/{id} [delete]
func (h *APIHandler) DeleteAIProvider(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID провайдера")
		return
	}
	if err := h.Repository.DeleteAIProvider(id); err != nil {
		h.repoError(c, err, "Ошибка удаления провайдера")
		return
	}
	h.successResponse(c, http.StatusOK, "Провайдер удалён", nil)
}

// SetDefaultAIProvider выбор провайдера по умолчанию
// @Summary Провайдер по умолчанию
// @Tags AI providers
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID провайдера"
// @Success 200 {object} dto.AIProviderResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/ai-providers/{id}/default [post]
func (h *APIHandler) SetDefaultAIProvider(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID провайдера")
		return
	}
	if err := h.Repository.SetDefaultAIProvider(id); err != nil {
		h.repoError(c, err, "Ошибка выбора провайдера")
		return
	}

	provider, err := h.Repository.GetAIProvider(id)
	if err != nil {
		h.repoError(c, err, "Ошибка получения провайдера")
		return
	}
	c.JSON(http.StatusOK, toAIProviderResponse(provider))
}

// TestAIProvider проверка подключения
// @Summary Проверка AI провайдера
// @Description Отправляет короткий запрос и возвращает задержку и ответ модели
// @Tags AI providers
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID провайдера"
// @Success 200 {object} dto.AITestResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /api/ai-providers/{id}/test [post]
func (h *APIHandler) TestAIProvider(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID провайдера")
		return
	}

	provider, err := h.Repository.GetAIProvider(id)
	if err != nil {
		h.repoError(c, err, "Ошибка получения провайдера")
		return
	}

	start := time.Now()
	result, err := h.AI.Chat(c.Request.Context(), ai.FromConfig(provider), []ai.Message{
		{Role: "user", Content: testPrompt},
	})
	latency := time.Since(start)
	if err != nil {
		h.aiError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AITestResponse{
		LatencyMs: latency.Milliseconds(),
		Reply:     result.Content,
		Model:     result.Model,
	})
}

// aiError ответ на ошибку обращения к провайдеру
func (h *APIHandler) aiError(c *gin.Context, err error) {
	var apiErr *ai.APIError
	switch {
	case errors.Is(err, ai.ErrNoMessages):
		h.errorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ai.ErrEmbeddingsUnsupported):
		h.errorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		logrus.Warn("ai provider timeout: ", err)
		h.errorResponse(c, http.StatusGatewayTimeout, "AI провайдер не ответил вовремя")
	case errors.As(err, &apiErr):
		logrus.Warnf("ai provider error %d: %s", apiErr.StatusCode, apiErr.Message)
		h.errorResponse(c, http.StatusBadGateway, "AI провайдер вернул ошибку: "+apiErr.Message)
	default:
		logrus.Error("ai provider request failed: ", err)
		h.errorResponse(c, http.StatusBadGateway, "Ошибка обращения к AI провайдеру")
	}
}
