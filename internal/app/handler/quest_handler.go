package handler

import (
	"net/http"
	"strings"

	"kidsevents/internal/app/ds"
	"kidsevents/internal/app/dto"

	"github.com/gin-gonic/gin"
)

// ============ Программы квестов (Quest programs) ============

// GetQuestPrograms программы квестов профиля
// @Summary Программы квестов
// @Tags Quests
// @Produce json
// @Param id path int true "ID профиля"
// @Success 200 {object} dto.ListResponse{items=[]dto.QuestProgramResponse}
// @Router /api/profiles/{id}/quests [get]
func (h *APIHandler) GetQuestPrograms(c *gin.Context) {
	profileID, ok := parseID(c, "id")
	if !ok {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID профиля")
		return
	}

	quests, err := h.Repository.ListQuestPrograms(profileID)
	if err != nil {
		h.repoError(c, err, "Ошибка получения квестов")
		return
	}

	resp := make([]dto.QuestProgramResponse, 0, len(quests))
	for i := range quests {
		resp = append(resp, toQuestResponse(&quests[i]))
	}
	c.JSON(http.StatusOK, dto.ListResponse{Items: resp, Total: len(resp)})
}

func applyQuestRequest(q *ds.QuestProgram, req *dto.QuestProgramRequest) {
	q.Title = strings.TrimSpace(req.Title)
	q.Description = req.Description
	q.AgeMin = req.AgeMin
	q.AgeMax = req.AgeMax
	q.PlayersMin = req.PlayersMin
	q.PlayersMax = req.PlayersMax
	q.DurationMinutes = req.DurationMinutes
	if q.DurationMinutes == 0 {
		q.DurationMinutes = 60
	}
	q.Price = req.Price.Round(2)
}

// CreateQuestProgram создание программы квеста
// @Summary Создание программы квеста
// @Description Доступно только профилям квестов; возраст и число игроков задаются диапазонами
// @Tags Quests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.QuestProgramRequest true "Программа"
// @Success 201 {object} dto.QuestProgramResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/quests [post]
func (h *APIHandler) CreateQuestProgram(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req dto.QuestProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	profile, ok := h.targetProfile(c, user, req.ProfileID)
	if !ok {
		return
	}
	if profile.Kind != ds.KindQuest {
		h.errorResponse(c, http.StatusBadRequest, "Программы доступны только квестам")
		return
	}

	quest := ds.QuestProgram{ProfileID: profile.ID}
	applyQuestRequest(&quest, &req)
	if err := h.Repository.CreateQuestProgram(&quest); err != nil {
		h.repoError(c, err, "Ошибка создания программы")
		return
	}

	c.JSON(http.StatusCreated, toQuestResponse(&quest))
}

func (h *APIHandler) questForEdit(c *gin.Context) (*ds.QuestProgram, bool) {
	user, ok := h.currentUser(c)
	if !ok {
		return nil, false
	}
	id, ok := parseID(c, "id")
	if !ok {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID программы")
		return nil, false
	}

	quest, err := h.Repository.GetQuestProgramByID(id)
	if err != nil {
		h.repoError(c, err, "Ошибка получения программы")
		return nil, false
	}
	if !h.canManage(c, user, quest.ProfileID) {
		return nil, false
	}
	return quest, true
}

// UpdateQuestProgram изменение программы квеста
// @Summary Изменение программы квеста
// @Tags Quests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID программы"
// @Param request body dto.QuestProgramRequest true "Программа"
// @Success 200 {object} dto.QuestProgramResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/quests/{id} [put]
func (h *APIHandler) UpdateQuestProgram(c *gin.Context) {
	quest, ok := h.questForEdit(c)
	if !ok {
		return
	}

	var req dto.QuestProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	applyQuestRequest(quest, &req)
	if err := h.Repository.SaveQuestProgram(quest); err != nil {
		h.repoError(c, err, "Ошибка изменения программы")
		return
	}

	c.JSON(http.StatusOK, toQuestResponse(quest))
}

// DeleteQuestProgram удаление программы квеста
// @Summary Удаление программы квеста
// @Tags Quests
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID программы"
// @Success 200 {object} dto.SuccessResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/quests/{id} [delete]
func (h *APIHandler) DeleteQuestProgram(c *gin.Context) {
	quest, ok := h.questForEdit(c)
	if !ok {
		return
	}

	if err := h.Repository.DeleteQuestProgram(quest.ID); err != nil {
		h.repoError(c, err, "Ошибка удаления программы")
		return
	}
	h.successResponse(c, http.StatusOK, "Программа удалена", nil)
}
