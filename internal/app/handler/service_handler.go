package handler

import (
	"net/http"
	"strconv"
	"strings"

	"kidsevents/internal/app/ds"
	"kidsevents/internal/app/dto"
	"kidsevents/internal/app/repository"
	"kidsevents/internal/app/storage"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ============ Услуги (Services) ============

func parseDecimalQuery(c *gin.Context, name string) (*decimal.Decimal, bool) {
	v := strings.TrimSpace(c.Query(name))
	if v == "" {
		return nil, true
	}
	d, err := decimal.NewFromString(v)
	if err != nil || d.IsNegative() {
		return nil, false
	}
	return &d, true
}

// GetServices каталог услуг
// @Summary Список услуг
// @Description Услуги опубликованных исполнителей с фильтрацией и сортировкой
// @Tags Services
// @Produce json
// @Param query query string false "Поиск по названию и описанию"
// @Param kind query string false "Вид исполнителя"
// @Param profile_id query int false "ID профиля"
// @Param city query string false "Город"
// @Param min_price query number false "Минимальная цена"
// @Param max_price query number false "Максимальная цена"
// @Param sort query string false "Сортировка" Enums(price_asc, price_desc, name, newest)
// @Param limit query int false "Лимит"
// @Param offset query int false "Смещение"
// @Success 200 {object} dto.ListResponse{items=[]dto.ServiceResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/services [get]
func (h *APIHandler) GetServices(c *gin.Context) {
	filter := repository.ServiceFilter{
		Query: c.Query("query"),
		Kind:  c.Query("kind"),
		City:  c.Query("city"),
		Sort:  c.Query("sort"),
		Page:  parsePage(c),
	}

	if v := c.Query("profile_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			h.errorResponse(c, http.StatusBadRequest, "Неверный profile_id")
			return
		}
		profileID := uint(id)
		filter.ProfileID = &profileID
	}

	var ok bool
	if filter.MinPrice, ok = parseDecimalQuery(c, "min_price"); !ok {
		h.errorResponse(c, http.StatusBadRequest, "Неверный min_price")
		return
	}
	if filter.MaxPrice, ok = parseDecimalQuery(c, "max_price"); !ok {
		h.errorResponse(c, http.StatusBadRequest, "Неверный max_price")
		return
	}

	services, err := h.Repository.ListServices(filter)
	if err != nil {
		h.repoError(c, err, "Ошибка получения услуг")
		return
	}

	resp := make([]dto.ServiceResponse, 0, len(services))
	for i := range services {
		resp = append(resp, toServiceResponse(&services[i]))
	}
	c.JSON(http.StatusOK, dto.ListResponse{Items: resp, Total: len(resp)})
}

// GetService одна услуга
// @Summary Получение услуги
// @Tags Services
// @Produce json
// @Param id path int true "ID услуги"
// @Success 200 {object} dto.ServiceResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/services/{id} [get]
func (h *APIHandler) GetService(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID услуги")
		return
	}

	service, err := h.Repository.GetServiceByID(id)
	if err != nil {
		h.repoError(c, err, "Ошибка получения услуги")
		return
	}
	if !service.Profile.IsPublished && !h.isOwnerOrAdmin(c, service.Profile.UserID) {
		h.errorResponse(c, http.StatusNotFound, repository.ErrNotFound.Error())
		return
	}

	c.JSON(http.StatusOK, toServiceResponse(service))
}

// CreateService создание услуги
// @Summary Создание услуги
// @Description Исполнитель создаёт услугу в своём профиле, администратор указывает profile_id
// @Tags Services
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateServiceRequest true "Данные услуги"
// @Success 201 {object} dto.ServiceResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/services [post]
func (h *APIHandler) CreateService(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req dto.CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}
	if req.Price.IsNegative() {
		h.errorResponse(c, http.StatusBadRequest, "Цена не может быть отрицательной")
		return
	}

	profile, ok := h.targetProfile(c, user, req.ProfileID)
	if !ok {
		return
	}

	duration := req.DurationMinutes
	if duration == 0 {
		duration = 60
	}
	service := ds.Service{
		ProfileID:       profile.ID,
		Name:            strings.TrimSpace(req.Name),
		Description:     req.Description,
		Price:           req.Price.Round(2),
		DurationMinutes: duration,
	}
	if err := h.Repository.CreateService(&service); err != nil {
		h.repoError(c, err, "Ошибка создания услуги")
		return
	}

	c.JSON(http.StatusCreated, toServiceResponse(&service))
}

// serviceForEdit услуга, которую пользователь может изменять
func (h *APIHandler) serviceForEdit(c *gin.Context) (*ds.Service, bool) {
	user, ok := h.currentUser(c)
	if !ok {
		return nil, false
	}
	id, ok := parseID(c, "id")
	if !ok {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID услуги")
		return nil, false
	}

	service, err := h.Repository.GetServiceByID(id)
	if err != nil {
		h.repoError(c, err, "Ошибка получения услуги")
		return nil, false
	}
	if !h.canManage(c, user, service.ProfileID) {
		return nil, false
	}
	return service, true
}

// UpdateService изменение услуги
// @Summary Изменение услуги
// @Tags Services
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID услуги"
// @Param request body dto.UpdateServiceRequest true "Изменяемые поля"
// @Success 200 {object} dto.ServiceResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/services/{id} [put]
func (h *APIHandler) UpdateService(c *gin.Context) {
	service, ok := h.serviceForEdit(c)
	if !ok {
		return
	}

	var req dto.UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			h.errorResponse(c, http.StatusBadRequest, "Цена не может быть отрицательной")
			return
		}
		rounded := req.Price.Round(2)
		req.Price = &rounded
	}

	err := h.Repository.UpdateService(service.ID, repository.ServiceUpdate{
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		h.repoError(c, err, "Ошибка изменения услуги")
		return
	}

	updated, err := h.Repository.GetServiceByID(service.ID)
	if err != nil {
		h.repoError(c, err, "Ошибка получения услуги")
		return
	}
	c.JSON(http.StatusOK, toServiceResponse(updated))
}

// DeleteService логическое удаление услуги
// @Summary Удаление услуги
// @Description Помечает услугу удалённой и удаляет её изображение
// @Tags Services
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID услуги"
// @Success 200 {object} dto.SuccessResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/services/{id} [delete]
func (h *APIHandler) DeleteService(c *gin.Context) {
	service, ok := h.serviceForEdit(c)
	if !ok {
		return
	}

	if err := h.Repository.DeleteService(service.ID); err != nil {
		h.repoError(c, err, "Ошибка удаления услуги")
		return
	}
	h.removeImage(c, service.ImageURL)

	h.successResponse(c, http.StatusOK, "Услуга удалена", nil)
}

// UploadServiceImage загрузка изображения услуги
// @Summary Изображение услуги
// @Tags Services
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID услуги"
// @Param image formData file true "Изображение"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /api/services/{id}/image [post]
func (h *APIHandler) UploadServiceImage(c *gin.Context) {
	service, ok := h.serviceForEdit(c)
	if !ok {
		return
	}

	object, ok := h.uploadImage(c, storage.PrefixServices)
	if !ok {
		return
	}
	url := imageURL(object)
	if err := h.Repository.UpdateServiceImage(service.ID, url); err != nil {
		h.repoError(c, err, "Ошибка сохранения изображения")
		return
	}
	h.removeImage(c, service.ImageURL)

	h.successResponse(c, http.StatusOK, "Изображение загружено", gin.H{"image_url": url})
}
