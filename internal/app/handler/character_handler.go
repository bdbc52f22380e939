package handler

import (
	"net/http"
	"strings"

	"kidsevents/internal/app/ds"
	"kidsevents/internal/app/dto"
	"kidsevents/internal/app/repository"
	"kidsevents/internal/app/storage"

	"github.com/gin-gonic/gin"
)

// ============ Персонажи аниматоров (Characters) ============

// GetCharacters персонажи профиля
// @Summary Персонажи аниматора
// @Tags Characters
// @Produce json
// @Param id path int true "ID профиля"
// @Success 200 {object} dto.ListResponse{items=[]dto.CharacterResponse}
// @Router /api/profiles/{id}/characters [get]
func (h *APIHandler) GetCharacters(c *gin.Context) {
	profileID, ok := parseID(c, "id")
	if !ok {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID профиля")
		return
	}

	characters, err := h.Repository.ListCharacters(profileID)
	if err != nil {
		h.repoError(c, err, "Ошибка получения персонажей")
		return
	}

	resp := make([]dto.CharacterResponse, 0, len(characters))
	for i := range characters {
		resp = append(resp, toCharacterResponse(&characters[i]))
	}
	c.JSON(http.StatusOK, dto.ListResponse{Items: resp, Total: len(resp)})
}

// CreateCharacter создание персонажа
// @Summary Создание персонажа
// @Description Доступно только профилям аниматоров
// @Tags Characters
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCharacterRequest true "Данные персонажа"
// @Success 201 {object} dto.CharacterResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/characters [post]
func (h *APIHandler) CreateCharacter(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req dto.CreateCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}
	if req.ExtraPrice.IsNegative() {
		h.errorResponse(c, http.StatusBadRequest, "Наценка не может быть отрицательной")
		return
	}

	profile, ok := h.targetProfile(c, user, req.ProfileID)
	if !ok {
		return
	}
	if profile.Kind != ds.KindAnimator {
		h.errorResponse(c, http.StatusBadRequest, "Персонажи доступны только аниматорам")
		return
	}

	character := ds.Character{
		ProfileID:   profile.ID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		ExtraPrice:  req.ExtraPrice.Round(2),
	}
	if err := h.Repository.CreateCharacter(&character); err != nil {
		h.repoError(c, err, "Ошибка создания персонажа")
		return
	}

	c.JSON(http.StatusCreated, toCharacterResponse(&character))
}

func (h *APIHandler) characterForEdit(c *gin.Context) (*ds.Character, bool) {
	user, ok := h.currentUser(c)
	if !ok {
		return nil, false
	}
	id, ok := parseID(c, "id")
	if !ok {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID персонажа")
		return nil, false
	}

	character, err := h.Repository.GetCharacterByID(id)
	if err != nil {
		h.repoError(c, err, "Ошибка получения персонажа")
		return nil, false
	}
	if !h.canManage(c, user, character.ProfileID) {
		return nil, false
	}
	return character, true
}

// UpdateCharacter изменение персонажа
// @Summary Изменение персонажа
// @Tags Characters
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID персонажа"
// @Param request body dto.UpdateCharacterRequest true "Изменяемые поля"
// @Success 200 {object} dto.CharacterResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/characters/{id} [put]
func (h *APIHandler) UpdateCharacter(c *gin.Context) {
	character, ok := h.characterForEdit(c)
	if !ok {
		return
	}

	var req dto.UpdateCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}
	if req.ExtraPrice != nil && req.ExtraPrice.IsNegative() {
		h.errorResponse(c, http.StatusBadRequest, "Наценка не может быть отрицательной")
		return
	}

	err := h.Repository.UpdateCharacter(character.ID, repository.CharacterUpdate{
		Name:        req.Name,
		Description: req.Description,
		ExtraPrice:  req.ExtraPrice,
	})
	if err != nil {
		h.repoError(c, err, "Ошибка изменения персонажа")
		return
	}

	updated, err := h.Repository.GetCharacterByID(character.ID)
	if err != nil {
		h.repoError(c, err, "Ошибка получения персонажа")
		return
	}
	c.JSON(http.StatusOK, toCharacterResponse(updated))
}

// DeleteCharacter удаление персонажа
// @Summary Удаление персонажа
// @Tags Characters
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID персонажа"
// @Success 200 {object} dto.SuccessResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/characters/{id} [delete]
func (h *APIHandler) DeleteCharacter(c *gin.Context) {
	character, ok := h.characterForEdit(c)
	if !ok {
		return
	}

	if err := h.Repository.DeleteCharacter(character.ID); err != nil {
		h.repoError(c, err, "Ошибка удаления персонажа")
		return
	}
	h.removeImage(c, character.ImageURL)

	h.successResponse(c, http.StatusOK, "Персонаж удалён", nil)
}

// UploadCharacterImage загрузка изображения персонажа
// @Summary Изображение персонажа
// @Tags Characters
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID персонажа"
// @Param image formData file true "Изображение"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/characters/{id}/image [post]
func (h *APIHandler) UploadCharacterImage(c *gin.Context) {
	character, ok := h.characterForEdit(c)
	if !ok {
		return
	}

	object, ok := h.uploadImage(c, storage.PrefixCharacters)
	if !ok {
		return
	}
	url := imageURL(object)
	if err := h.Repository.UpdateCharacterImage(character.ID, url); err != nil {
		h.repoError(c, err, "Ошибка сохранения изображения")
		return
	}
	h.removeImage(c, character.ImageURL)

	h.successResponse(c, http.StatusOK, "Изображение загружено", gin.H{"image_url": url})
}
