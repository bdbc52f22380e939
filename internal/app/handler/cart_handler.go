package handler

import (
	"net/http"
	"strings"

	"kidsevents/internal/app/dto"
	"kidsevents/internal/app/repository"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ============ Корзина (черновики заявок) ============

// buildCart черновики заказчика с итогами и общим количеством позиций
func (h *APIHandler) buildCart(customerID uint) (dto.CartResponse, error) {
	cart, err := h.Repository.GetCart(customerID)
	if err != nil {
		return dto.CartResponse{}, err
	}
	count, err := h.Repository.CartItemCount(customerID)
	if err != nil {
		return dto.CartResponse{}, err
	}

	resp := dto.CartResponse{
		Orders:    make([]dto.OrderResponse, 0, len(cart)),
		ItemCount: count,
		Total:     decimal.Zero,
	}
	for i := range cart {
		resp.Orders = append(resp.Orders, toCartOrderResponse(&cart[i]))
		resp.Total = resp.Total.Add(cart[i].Totals.Total)
	}
	return resp, nil
}

// GetCart корзина текущего заказчика
// @Summary Корзина
// @Description Черновики заявок (по одному на исполнителя) с рассчитанными итогами
// @Tags Cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.CartResponse
// @Router /api/cart [get]
func (h *APIHandler) GetCart(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	resp, err := h.buildCart(user.ID)
	if err != nil {
		h.repoError(c, err, "Ошибка получения корзины")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AddToCart добавление услуги в корзину
// @Summary Добавление в корзину
// @Description Услуга попадает в черновик исполнителя; повторное добавление увеличивает количество
// @Tags Cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AddToCartRequest true "Услуга"
// @Success 201 {object} dto.CartResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/cart/items [post]
func (h *APIHandler) AddToCart(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req dto.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	if _, err := h.Repository.AddToCart(user.ID, req.ServiceID, req.CharacterID, quantity); err != nil {
		h.repoError(c, err, "Ошибка добавления в корзину")
		return
	}

	resp, err := h.buildCart(user.ID)
	if err != nil {
		h.repoError(c, err, "Ошибка получения корзины")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// UpdateCartItem изменение позиции корзины
// @Summary Изменение позиции
// @Tags Cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID позиции"
// @Param request body dto.UpdateCartItemRequest true "Количество и персонаж"
// @Success 200 {object} dto.CartResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/cart/items/{id} [put]
func (h *APIHandler) UpdateCartItem(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	itemID, ok := parseID(c, "id")
	if !ok {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID позиции")
		return
	}

	var req dto.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	err := h.Repository.UpdateCartItem(user.ID, itemID, req.Quantity, req.CharacterID, req.ClearCharacter)
	if err != nil {
		h.repoError(c, err, "Ошибка изменения позиции")
		return
	}

	resp, err := h.buildCart(user.ID)
	if err != nil {
		h.repoError(c, err, "Ошибка получения корзины")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RemoveCartItem удаление позиции из корзины
// @Summary Удаление позиции
// @Tags Cart
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID позиции"
// @Success 200 {object} dto.CartResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/cart/items/{id} [delete]
func (h *APIHandler) RemoveCartItem(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	itemID, ok := parseID(c, "id")
	if !ok {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID позиции")
		return
	}

	if err := h.Repository.RemoveCartItem(user.ID, itemID); err != nil {
		h.repoError(c, err, "Ошибка удаления позиции")
		return
	}

	resp, err := h.buildCart(user.ID)
	if err != nil {
		h.repoError(c, err, "Ошибка получения корзины")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// QuoteOrder предварительный расчёт черновика
// @Summary Расчёт итогов
// @Description Итоги черновика с промокодом без сохранения
// @Tags Cart
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID заявки"
// @Param promo_code query string false "Промокод"
// @Success 200 {object} pricing.Result
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/orders/{id}/quote [get]
func (h *APIHandler) QuoteOrder(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	orderID, ok := parseID(c, "id")
	if !ok {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID заявки")
		return
	}

	totals, err := h.Repository.Quote(orderID, user.ID, strings.TrimSpace(c.Query("promo_code")), h.now())
	if err != nil {
		h.repoError(c, err, "Ошибка расчёта заявки")
		return
	}
	c.JSON(http.StatusOK, totals)
}

// CheckoutOrder оформление черновика
// @Summary Оформление заявки
// @Description Актуализирует цены, применяет промокод и переводит черновик в статус submitted
// @Tags Cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID заявки"
// @Param request body dto.CheckoutRequest true "Данные мероприятия"
// @Success 200 {object} dto.OrderResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/orders/{id}/checkout [post]
func (h *APIHandler) CheckoutOrder(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	orderID, ok := parseID(c, "id")
	if !ok {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID заявки")
		return
	}

	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	now := h.now()
	if req.EventDate != nil {
		eventDate := req.EventDate.UTC()
		if eventDate.Before(now) {
			h.errorResponse(c, http.StatusBadRequest, "Дата мероприятия уже прошла")
			return
		}
		req.EventDate = &eventDate
	}

	order, err := h.Repository.Checkout(orderID, user.ID, repository.CheckoutInput{
		EventDate:     req.EventDate,
		Address:       strings.TrimSpace(req.Address),
		ChildrenCount: req.ChildrenCount,
		ContactPhone:  strings.TrimSpace(req.ContactPhone),
		Comment:       req.Comment,
		PromoCode:     strings.TrimSpace(req.PromoCode),
	}, now)
	if err != nil {
		h.repoError(c, err, "Ошибка оформления заявки")
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(order))
}

// DeleteOrder удаление черновика
// @Summary Удаление черновика
// @Tags Cart
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID заявки"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/orders/{id} [delete]
func (h *APIHandler) DeleteOrder(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	orderID, ok := parseID(c, "id")
	if !ok {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID заявки")
		return
	}

	if err := h.Repository.DeleteOrder(orderID, user.ID); err != nil {
		h.repoError(c, err, "Ошибка удаления заявки")
		return
	}
	h.successResponse(c, http.StatusOK, "Заявка удалена", nil)
}
