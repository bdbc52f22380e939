package handler

import (
	"errors"
	"net/http"

	"kidsevents/internal/app/ai"
	"kidsevents/internal/app/ds"
	"kidsevents/internal/app/dto"
	"kidsevents/internal/app/repository"

	"github.com/gin-gonic/gin"
)

// ============ AI шлюз ============

// resolveProvider включённый провайдер по ID или провайдер по умолчанию
func (h *APIHandler) resolveProvider(c *gin.Context, id *uint) (*ds.AIProviderConfig, bool) {
	var (
		provider *ds.AIProviderConfig
		err      error
	)
	if id != nil {
		provider, err = h.Repository.GetEnabledAIProvider(*id)
	} else {
		provider, err = h.Repository.GetDefaultAIProvider()
	}
	if err != nil {
		if id == nil && statusFromError(err) == http.StatusNotFound {
			h.errorResponse(c, http.StatusServiceUnavailable, "AI провайдер не настроен")
			return nil, false
		}
		h.repoError(c, err, "Ошибка получения провайдера")
		return nil, false
	}
	return provider, true
}

// Chat диалог с моделью
// @Summary Чат с моделью
// @Description Отправляет диалог провайдеру по умолчанию или указанному
// @Tags AI
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ChatRequest true "Сообщения"
// @Success 200 {object} ai.ChatResult
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/ai/chat [post]
func (h *APIHandler) Chat(c *gin.Context) {
	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	provider, ok := h.resolveProvider(c, req.ProviderID)
	if !ok {
		return
	}

	messages := make([]ai.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, ai.Message{Role: m.Role, Content: m.Content})
	}

	result, err := h.AI.Chat(c.Request.Context(), ai.FromConfig(provider), messages)
	if err != nil {
		h.aiError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Embeddings векторы для текстов
// @Summary Эмбеддинги
// @Tags AI
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.EmbeddingsRequest true "Тексты"
// @Success 200 {object} dto.EmbeddingsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /api/ai/embeddings [post]
func (h *APIHandler) Embeddings(c *gin.Context) {
	var req dto.EmbeddingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	provider, ok := h.resolveProvider(c, req.ProviderID)
	if !ok {
		return
	}

	vectors, err := h.AI.Embeddings(c.Request.Context(), ai.FromConfig(provider), req.Input)
	if err != nil {
		h.aiError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.EmbeddingsResponse{Vectors: vectors})
}

// DescribeService черновик описания услуги
// @Summary Описание услуги
// @Description Просит модель составить описание услуги для каталога
// @Tags AI
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.DescribeServiceRequest true "Услуга"
// @Success 200 {object} ai.ChatResult
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /api/ai/describe-service [post]
func (h *APIHandler) DescribeService(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req dto.DescribeServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	kind := req.Kind
	if kind == "" && user.IsProvider() {
		if profile, err := h.Repository.GetProfileByUserID(user.ID); err == nil {
			kind = profile.Kind
		} else if !errors.Is(err, repository.ErrNotFound) {
			h.repoError(c, err, "Ошибка получения профиля")
			return
		}
	}

	provider, ok := h.resolveProvider(c, nil)
	if !ok {
		return
	}

	result, err := h.AI.Chat(c.Request.Context(), ai.FromConfig(provider), ai.DescribeServicePrompt(req.Name, kind, req.Notes))
	if err != nil {
		h.aiError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
