package handler

import (
	"errors"
	"net/http"
	"strconv"

	"kidsevents/internal/app/ds"
	"kidsevents/internal/app/dto"
	"kidsevents/internal/app/middleware"
	"kidsevents/internal/app/repository"

	"github.com/gin-gonic/gin"
)

// ============ Заявки (Orders) ============

// GetOrders список заявок по роли
// @Summary Список заявок
// @Description Заказчик видит свои заявки, исполнитель заявки своего профиля, администратор все
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Param status query string false "Статус" Enums(submitted, draft)
// @Param stage query string false "Этап" Enums(new, confirmed, prepaid, in_progress, completed, cancelled)
// @Param date_from query string false "Дата создания с (YYYY-MM-DD)"
// @Param date_to query string false "Дата создания по (YYYY-MM-DD)"
// @Param profile_id query int false "ID профиля (для администратора)"
// @Param sort query string false "Сортировка" Enums(newest, oldest, total)
// @Param limit query int false "Лимит"
// @Param offset query int false "Смещение"
// @Success 200 {object} dto.ListResponse{items=[]dto.OrderResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/orders [get]
func (h *APIHandler) GetOrders(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	filter := repository.OrderFilter{
		Status: c.Query("status"),
		Stage:  c.Query("stage"),
		Sort:   c.Query("sort"),
		Page:   parsePage(c),
	}
	if filter.Stage != "" && !ds.IsValidStage(filter.Stage) {
		h.errorResponse(c, http.StatusBadRequest, repository.ErrInvalidStage.Error())
		return
	}

	var err error
	if filter.DateFrom, err = parseDate(c, "date_from"); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверный формат date_from, ожидается YYYY-MM-DD")
		return
	}
	if filter.DateTo, err = parseDate(c, "date_to"); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверный формат date_to, ожидается YYYY-MM-DD")
		return
	}

	switch {
	case user.IsAdmin():
		if v := c.Query("profile_id"); v != "" {
			id, err := strconv.ParseUint(v, 10, 32)
			if err != nil {
				h.errorResponse(c, http.StatusBadRequest, "Неверный profile_id")
				return
			}
			profileID := uint(id)
			filter.ProfileID = &profileID
		}
	case user.IsProvider():
		profile, err := h.Repository.GetProfileByUserID(user.ID)
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusOK, dto.ListResponse{Items: []dto.OrderResponse{}, Total: 0})
			return
		}
		if err != nil {
			h.repoError(c, err, "Ошибка получения профиля")
			return
		}
		filter.ProfileID = &profile.ID
	default:
		filter.CustomerID = &user.ID
	}

	orders, err := h.Repository.ListOrders(filter)
	if err != nil {
		h.repoError(c, err, "Ошибка получения заявок")
		return
	}

	resp := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, toOrderResponse(&orders[i]))
	}
	c.JSON(http.StatusOK, dto.ListResponse{Items: resp, Total: len(resp)})
}

// canSeeOrder заказчик-владелец, исполнитель заявки или администратор
func (h *APIHandler) canSeeOrder(user middleware.CurrentUser, order *ds.Order) bool {
	if user.IsAdmin() || order.CustomerID == user.ID {
		return true
	}
	return order.Profile.UserID == user.ID
}

// GetOrder заявка с позициями
// @Summary Получение заявки
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID заявки"
// @Success 200 {object} dto.OrderResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/orders/{id} [get]
func (h *APIHandler) GetOrder(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	orderID, ok := parseID(c, "id")
	if !ok {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID заявки")
		return
	}

	order, err := h.Repository.GetOrderWithItems(orderID)
	if err != nil {
		h.repoError(c, err, "Ошибка получения заявки")
		return
	}
	if !h.canSeeOrder(user, order) {
		h.errorResponse(c, http.StatusForbidden, "Нет доступа к заявке")
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(order))
}

// UpdateOrderStage смена этапа воронки
// @Summary Этап заявки
// @Description Исполнитель заявки или администратор выставляет любой этап; только для оформленных заявок
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID заявки"
// @Param request body dto.UpdateStageRequest true "Этап"
// @Success 200 {object} dto.OrderResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/orders/{id}/stage [put]
func (h *APIHandler) UpdateOrderStage(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	orderID, ok := parseID(c, "id")
	if !ok {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID заявки")
		return
	}

	var req dto.UpdateStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	order, err := h.Repository.GetOrderWithItems(orderID)
	if err != nil {
		h.repoError(c, err, "Ошибка получения заявки")
		return
	}
	if !user.IsAdmin() && order.Profile.UserID != user.ID {
		h.errorResponse(c, http.StatusForbidden, "Этап меняет только исполнитель заявки")
		return
	}

	if err := h.Repository.SetOrderStage(orderID, req.Stage, h.now()); err != nil {
		h.repoError(c, err, "Ошибка смены этапа")
		return
	}

	updated, err := h.Repository.GetOrderWithItems(orderID)
	if err != nil {
		h.repoError(c, err, "Ошибка получения заявки")
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(updated))
}
