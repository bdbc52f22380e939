package handler

import (
	"net/http"
	"strconv"
	"strings"

	"kidsevents/internal/app/ds"
	"kidsevents/internal/app/dto"
	"kidsevents/internal/app/repository"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ============ Рекламные кампании (Campaigns) ============

// GetCampaigns кампании исполнителя (администратор видит все)
// @Summary Список кампаний
// @Tags Campaigns
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ListResponse{items=[]dto.CampaignResponse}
// @Router /api/campaigns [get]
func (h *APIHandler) GetCampaigns(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var profileID *uint
	if !user.IsAdmin() {
		profile, ok := h.ownProfile(c, user)
		if !ok {
			return
		}
		profileID = &profile.ID
	}

	campaigns, err := h.Repository.ListCampaigns(profileID)
	if err != nil {
		h.repoError(c, err, "Ошибка получения кампаний")
		return
	}

	resp := make([]dto.CampaignResponse, 0, len(campaigns))
	for i := range campaigns {
		resp = append(resp, toCampaignResponse(&campaigns[i]))
	}
	c.JSON(http.StatusOK, dto.ListResponse{Items: resp, Total: len(resp)})
}

// CreateCampaign создание кампании
// @Summary Создание кампании
// @Description Кампания создаётся в статусе draft; промокод должен быть уникальным
// @Tags Campaigns
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCampaignRequest true "Кампания"
// @Success 201 {object} dto.CampaignResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/campaigns [post]
func (h *APIHandler) CreateCampaign(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req dto.CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}
	if req.StartsAt.IsZero() || req.EndsAt.IsZero() {
		h.errorResponse(c, http.StatusBadRequest, "Не указан период показа")
		return
	}
	if !req.Budget.IsPositive() {
		h.errorResponse(c, http.StatusBadRequest, "Бюджет должен быть больше нуля")
		return
	}

	profile, ok := h.targetProfile(c, user, req.ProfileID)
	if !ok {
		return
	}

	campaign := ds.Campaign{
		ProfileID:       profile.ID,
		Name:            strings.TrimSpace(req.Name),
		Placement:       req.Placement,
		Budget:          req.Budget.Round(2),
		CostPerClick:    req.CostPerClick.Round(2),
		StartsAt:        req.StartsAt.UTC(),
		EndsAt:          req.EndsAt.UTC(),
		PromoCode:       req.PromoCode,
		DiscountPercent: req.DiscountPercent,
	}
	if err := h.Repository.CreateCampaign(&campaign); err != nil {
		h.campaignError(c, err, "Ошибка создания кампании")
		return
	}

	c.JSON(http.StatusCreated, toCampaignResponse(&campaign))
}

// campaignError уточняет сообщения для ошибок кампаний
func (h *APIHandler) campaignError(c *gin.Context, err error, internalMessage string) {
	switch statusFromError(err) {
	case http.StatusConflict:
		h.errorResponse(c, http.StatusConflict, "Промокод уже используется")
	default:
		h.repoError(c, err, internalMessage)
	}
}

func (h *APIHandler) campaignForEdit(c *gin.Context) (*ds.Campaign, bool) {
	user, ok := h.currentUser(c)
	if !ok {
		return nil, false
	}
	id, ok := parseID(c, "id")
	if !ok {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID кампании")
		return nil, false
	}

	campaign, err := h.Repository.GetCampaign(id)
	if err != nil {
		h.repoError(c, err, "Ошибка получения кампании")
		return nil, false
	}
	if !h.canManage(c, user, campaign.ProfileID) {
		return nil, false
	}
	return campaign, true
}

// GetCampaign одна кампания
// @Summary Получение кампании
// @Tags Campaigns
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID кампании"
// @Success 200 {object} dto.CampaignResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/campaigns/{id} [get]
func (h *APIHandler) GetCampaign(c *gin.Context) {
	campaign, ok := h.campaignForEdit(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toCampaignResponse(campaign))
}

// UpdateCampaign изменение кампании
// @Summary Изменение кампании
// @Description Завершённую кампанию изменить нельзя; пустой промокод снимает его
// @Tags Campaigns
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID кампании"
// @Param request body dto.UpdateCampaignRequest true "Изменяемые поля"
// @Success 200 {object} dto.CampaignResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/campaigns/{id} [put]
func (h *APIHandler) UpdateCampaign(c *gin.Context) {
	campaign, ok := h.campaignForEdit(c)
	if !ok {
		return
	}

	var req dto.UpdateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	upd := repository.CampaignUpdate{
		Name:            req.Name,
		Placement:       req.Placement,
		Budget:          req.Budget,
		CostPerClick:    req.CostPerClick,
		PromoCode:       req.PromoCode,
		DiscountPercent: req.DiscountPercent,
	}
	if req.StartsAt != nil {
		t := req.StartsAt.UTC()
		upd.StartsAt = &t
	}
	if req.EndsAt != nil {
		t := req.EndsAt.UTC()
		upd.EndsAt = &t
	}

	updated, err := h.Repository.UpdateCampaign(campaign.ID, upd)
	if err != nil {
		h.campaignError(c, err, "Ошибка изменения кампании")
		return
	}
	c.JSON(http.StatusOK, toCampaignResponse(updated))
}

// DeleteCampaign удаление кампании
// @Summary Удаление кампании
// @Description Активную кампанию сначала нужно приостановить
// @Tags Campaigns
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID кампании"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /api/campaigns/{id} [delete]
func (h *APIHandler) DeleteCampaign(c *gin.Context) {
	campaign, ok := h.campaignForEdit(c)
	if !ok {
		return
	}
	if err := h.Repository.DeleteCampaign(campaign.ID); err != nil {
		h.repoError(c, err, "Ошибка удаления кампании")
		return
	}
	h.successResponse(c, http.StatusOK, "Кампания удалена", nil)
}

// ActivateCampaign запуск кампании
// @Summary Запуск кампании
// @Description Из draft или paused; период не закончился и бюджет не израсходован
// @Tags Campaigns
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID кампании"
// @Success 200 {object} dto.CampaignResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/campaigns/{id}/activate [post]
func (h *APIHandler) ActivateCampaign(c *gin.Context) {
	campaign, ok := h.campaignForEdit(c)
	if !ok {
		return
	}
	if err := h.Repository.ActivateCampaign(campaign.ID, h.now()); err != nil {
		h.repoError(c, err, "Ошибка запуска кампании")
		return
	}
	h.respondCampaign(c, campaign.ID)
}

// PauseCampaign приостановка кампании
// @Summary Пауза кампании
// @Tags Campaigns
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID кампании"
// @Success 200 {object} dto.CampaignResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/campaigns/{id}/pause [post]
func (h *APIHandler) PauseCampaign(c *gin.Context) {
	campaign, ok := h.campaignForEdit(c)
	if !ok {
		return
	}
	if err := h.Repository.PauseCampaign(campaign.ID); err != nil {
		h.repoError(c, err, "Ошибка приостановки кампании")
		return
	}
	h.respondCampaign(c, campaign.ID)
}

func (h *APIHandler) respondCampaign(c *gin.Context, id uint) {
	campaign, err := h.Repository.GetCampaign(id)
	if err != nil {
		h.repoError(c, err, "Ошибка получения кампании")
		return
	}
	c.JSON(http.StatusOK, toCampaignResponse(campaign))
}

// GetPromoted продвигаемые исполнители
// @Summary Продвижение
// @Description Активные кампании в периоде показа вместе с профилями исполнителей
// @Tags Campaigns
// @Produce json
// @Param placement query string false "Место размещения" Enums(catalog_top, search, banner)
// @Param limit query int false "Лимит"
// @Success 200 {object} dto.ListResponse{items=[]dto.CampaignResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/campaigns/promoted [get]
func (h *APIHandler) GetPromoted(c *gin.Context) {
	placement := c.Query("placement")
	if placement != "" && !repository.IsValidPlacement(placement) {
		h.errorResponse(c, http.StatusBadRequest, "Неизвестное место размещения")
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	if limit > 50 {
		limit = 50
	}

	campaigns, err := h.Repository.ListPromoted(placement, h.now(), limit)
	if err != nil {
		h.repoError(c, err, "Ошибка получения продвижения")
		return
	}

	resp := make([]dto.CampaignResponse, 0, len(campaigns))
	for i := range campaigns {
		item := toCampaignResponse(&campaigns[i])
		// бюджет и расход видит только владелец
		item.Budget, item.Spent = decimal.Zero, decimal.Zero
		resp = append(resp, item)
	}
	c.JSON(http.StatusOK, dto.ListResponse{Items: resp, Total: len(resp)})
}

// RecordImpression учёт показа
// @Summary Показ кампании
// @Tags Campaigns
// @Produce json
// @Param id path int true "ID кампании"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/campaigns/{id}/impression [post]
func (h *APIHandler) RecordImpression(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID кампании")
		return
	}
	if err := h.Repository.RecordImpression(id); err != nil {
		h.repoError(c, err, "Ошибка учёта показа")
		return
	}
	h.successResponse(c, http.StatusOK, "Показ учтён", nil)
}

// RecordClick учёт клика
// @Summary Клик по кампании
// @Description Списывает стоимость клика; при исчерпании бюджета кампания завершается
// @Tags Campaigns
// @Produce json
// @Param id path int true "ID кампании"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/campaigns/{id}/click [post]
func (h *APIHandler) RecordClick(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID кампании")
		return
	}
	campaign, err := h.Repository.RecordClick(id, h.now())
	if err != nil {
		h.repoError(c, err, "Ошибка учёта клика")
		return
	}
	h.successResponse(c, http.StatusOK, "Клик учтён", gin.H{
		"profile_id": campaign.ProfileID,
		"status":     campaign.Status,
	})
}
