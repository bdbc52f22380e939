package handler

import (
	"net/http"
	"strconv"
	"strings"

	"kidsevents/internal/app/ds"
	"kidsevents/internal/app/dto"
	"kidsevents/internal/app/geo"
	"kidsevents/internal/app/middleware"
	"kidsevents/internal/app/repository"
	"kidsevents/internal/app/storage"

	"github.com/gin-gonic/gin"
)

// defaultRadiusKm радиус поиска рядом, если не указан
const defaultRadiusKm = 10

// parseNear разбирает lat/lng/radius_km; без координат поиск рядом не выполняется
func parseNear(c *gin.Context) (*repository.Near, bool) {
	latStr, lngStr := c.Query("lat"), c.Query("lng")
	if latStr == "" && lngStr == "" {
		return nil, true
	}
	lat, err1 := strconv.ParseFloat(latStr, 64)
	lng, err2 := strconv.ParseFloat(lngStr, 64)
	if err1 != nil || err2 != nil || !geo.ValidPoint(lat, lng) {
		return nil, false
	}
	radius := float64(defaultRadiusKm)
	if r := c.Query("radius_km"); r != "" {
		v, err := strconv.ParseFloat(r, 64)
		if err != nil || v <= 0 || v > 500 {
			return nil, false
		}
		radius = v
	}
	return &repository.Near{Lat: lat, Lng: lng, RadiusKm: radius}, true
}

// GetProfiles каталог исполнителей
// @Summary Список исполнителей
// @Description Опубликованные профили с фильтрами; при указании lat/lng сортируются по расстоянию
// @Tags Profiles
// @Produce json
// @Param kind query string false "Вид исполнителя" Enums(animator, venue, quest, photographer)
// @Param city query string false "Город"
// @Param query query string false "Поиск по названию и описанию"
// @Param lat query number false "Широта"
// @Param lng query number false "Долгота"
// @Param radius_km query number false "Радиус поиска, км"
// @Param sort query string false "Сортировка" Enums(name, newest)
// @Param limit query int false "Лимит"
// @Param offset query int false "Смещение"
// @Success 200 {object} dto.ListResponse{items=[]dto.ProfileResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/profiles [get]
func (h *APIHandler) GetProfiles(c *gin.Context) {
	near, ok := parseNear(c)
	if !ok {
		h.errorResponse(c, http.StatusBadRequest, "Неверные координаты поиска")
		return
	}

	items, err := h.Repository.ListProfiles(repository.ProfileFilter{
		Kind:  c.Query("kind"),
		City:  c.Query("city"),
		Query: c.Query("query"),
		Near:  near,
		Sort:  c.Query("sort"),
		Page:  parsePage(c),
	})
	if err != nil {
		h.repoError(c, err, "Ошибка получения профилей")
		return
	}

	resp := make([]dto.ProfileResponse, 0, len(items))
	for i := range items {
		p := toProfileResponse(&items[i].Profile)
		p.DistanceKm = items[i].DistanceKm
		resp = append(resp, p)
	}
	c.JSON(http.StatusOK, dto.ListResponse{Items: resp, Total: len(resp)})
}

// GetProfile профиль с каталогом исполнителя
// @Summary Профиль исполнителя
// @Description Профиль с услугами, персонажами и программами квестов
// @Tags Profiles
// @Produce json
// @Param id path int true "ID профиля"
// @Success 200 {object} dto.ProfileDetailsResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/profiles/{id} [get]
func (h *APIHandler) GetProfile(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID профиля")
		return
	}

	details, err := h.Repository.GetProfileDetails(id)
	if err != nil {
		h.repoError(c, err, "Ошибка получения профиля")
		return
	}

	// неопубликованный профиль видят только владелец и администратор
	if !details.Profile.IsPublished && !h.isOwnerOrAdmin(c, details.Profile.UserID) {
		h.errorResponse(c, http.StatusNotFound, repository.ErrNotFound.Error())
		return
	}

	c.JSON(http.StatusOK, toProfileDetailsResponse(details))
}

func (h *APIHandler) isOwnerOrAdmin(c *gin.Context, userID uint) bool {
	user, ok := middleware.GetUserFromContext(c)
	return ok && (user.IsAdmin() || user.ID == userID)
}

// GetMyProfile профиль текущего исполнителя
// @Summary Мой профиль
// @Tags Profiles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ProfileResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/profiles/me [get]
func (h *APIHandler) GetMyProfile(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	profile, ok := h.ownProfile(c, user)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toProfileResponse(profile))
}

// CreateProfile создание профиля исполнителя
// @Summary Создание профиля
// @Description Один профиль на пользователя
// @Tags Profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateProfileRequest true "Данные профиля"
// @Success 201 {object} dto.ProfileResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/profiles [post]
func (h *APIHandler) CreateProfile(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req dto.CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}
	if (req.Latitude == nil) != (req.Longitude == nil) {
		h.errorResponse(c, http.StatusBadRequest, "Координаты задаются парой")
		return
	}

	profile := ds.Profile{
		UserID:      user.ID,
		Kind:        req.Kind,
		DisplayName: strings.TrimSpace(req.DisplayName),
		City:        strings.TrimSpace(req.City),
		Description: req.Description,
		Phone:       req.Phone,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		IsPublished: req.IsPublished,
	}
	if err := h.Repository.CreateProfile(&profile); err != nil {
		h.repoError(c, err, "Ошибка создания профиля")
		return
	}

	c.JSON(http.StatusCreated, toProfileResponse(&profile))
}

// UpdateMyProfile изменение профиля исполнителя
// @Summary Изменение профиля
// @Tags Profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "Изменяемые поля"
// @Success 200 {object} dto.ProfileResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/profiles/me [put]
func (h *APIHandler) UpdateMyProfile(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	profile, ok := h.ownProfile(c, user)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}
	if (req.Latitude == nil) != (req.Longitude == nil) {
		h.errorResponse(c, http.StatusBadRequest, "Координаты задаются парой")
		return
	}

	err := h.Repository.UpdateProfile(profile.ID, repository.ProfileUpdate{
		DisplayName: req.DisplayName,
		City:        req.City,
		Description: req.Description,
		Phone:       req.Phone,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		IsPublished: req.IsPublished,
	})
	if err != nil {
		h.repoError(c, err, "Ошибка изменения профиля")
		return
	}

	updated, err := h.Repository.GetProfileByID(profile.ID)
	if err != nil {
		h.repoError(c, err, "Ошибка получения профиля")
		return
	}
	c.JSON(http.StatusOK, toProfileResponse(updated))
}

// UploadAvatar загрузка аватара профиля
// @Summary Аватар профиля
// @Tags Profiles
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param image formData file true "Изображение"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/profiles/me/avatar [post]
func (h *APIHandler) UploadAvatar(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	profile, ok := h.ownProfile(c, user)
	if !ok {
		return
	}

	object, ok := h.uploadImage(c, storage.PrefixAvatars)
	if !ok {
		return
	}
	url := imageURL(object)
	if err := h.Repository.UpdateProfileAvatar(profile.ID, url); err != nil {
		h.repoError(c, err, "Ошибка сохранения аватара")
		return
	}
	h.removeImage(c, profile.AvatarURL)

	h.successResponse(c, http.StatusOK, "Аватар загружен", gin.H{"avatar_url": url})
}
