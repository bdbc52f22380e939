package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"kidsevents/internal/app/analytics"
	"kidsevents/internal/app/ds"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ============ Аналитика исполнителя ============

const (
	// defaultReportDays период отчёта по умолчанию
	defaultReportDays = 30
	// maxReportDays ограничение длины дневного ряда
	maxReportDays = 366
)

// reportScope профиль и период отчёта
type reportScope struct {
	profile *ds.Profile
	from    time.Time
	to      time.Time
}

func (h *APIHandler) parseReportScope(c *gin.Context) (*reportScope, bool) {
	user, ok := h.currentUser(c)
	if !ok {
		return nil, false
	}

	var requested uint
	if v := c.Query("profile_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			h.errorResponse(c, http.StatusBadRequest, "Неверный profile_id")
			return nil, false
		}
		requested = uint(id)
	}
	profile, ok := h.targetProfile(c, user, requested)
	if !ok {
		return nil, false
	}

	from, err := parseDate(c, "date_from")
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверный формат date_from, ожидается YYYY-MM-DD")
		return nil, false
	}
	to, err := parseDate(c, "date_to")
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверный формат date_to, ожидается YYYY-MM-DD")
		return nil, false
	}

	scope := &reportScope{profile: profile}
	now := h.now()
	scope.to = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if to != nil {
		scope.to = *to
	}
	scope.from = scope.to.AddDate(0, 0, -(defaultReportDays - 1))
	if from != nil {
		scope.from = *from
	}

	if scope.to.Before(scope.from) {
		h.errorResponse(c, http.StatusBadRequest, "date_from позже date_to")
		return nil, false
	}
	if scope.to.Sub(scope.from) > maxReportDays*24*time.Hour {
		h.errorResponse(c, http.StatusBadRequest, fmt.Sprintf("Период отчёта не больше %d дней", maxReportDays))
		return nil, false
	}
	return scope, true
}

// GetProviderAnalytics дашборд исполнителя
// @Summary Аналитика исполнителя
// @Description Заявки по этапам, выручка, средний чек, дневной ряд, топ услуг и статистика кампаний
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param profile_id query int false "ID профиля (для администратора)"
// @Param date_from query string false "Начало периода (YYYY-MM-DD)"
// @Param date_to query string false "Конец периода (YYYY-MM-DD)"
// @Success 200 {object} analytics.Report
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/analytics/provider [get]
func (h *APIHandler) GetProviderAnalytics(c *gin.Context) {
	scope, ok := h.parseReportScope(c)
	if !ok {
		return
	}

	orders, err := h.Repository.ProviderOrders(scope.profile.ID, &scope.from, &scope.to)
	if err != nil {
		h.repoError(c, err, "Ошибка получения заявок")
		return
	}
	campaigns, err := h.Repository.ListCampaigns(&scope.profile.ID)
	if err != nil {
		h.repoError(c, err, "Ошибка получения кампаний")
		return
	}

	c.JSON(http.StatusOK, analytics.Build(orders, campaigns, scope.from, scope.to))
}

// ExportProviderOrders выгрузка заявок в CSV
// @Summary Экспорт заявок
// @Description CSV тех же заявок, по которым строится аналитика
// @Tags Analytics
// @Produce text/csv
// @Security BearerAuth
// @Param profile_id query int false "ID профиля (для администратора)"
// @Param date_from query string false "Начало периода (YYYY-MM-DD)"
// @Param date_to query string false "Конец периода (YYYY-MM-DD)"
// @Success 200 {file} binary
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/analytics/provider/export [get]
func (h *APIHandler) ExportProviderOrders(c *gin.Context) {
	scope, ok := h.parseReportScope(c)
	if !ok {
		return
	}

	orders, err := h.Repository.ProviderOrders(scope.profile.ID, &scope.from, &scope.to)
	if err != nil {
		h.repoError(c, err, "Ошибка получения заявок")
		return
	}

	filename := fmt.Sprintf("orders_%d_%s_%s.csv", scope.profile.ID,
		scope.from.Format(dateLayout), scope.to.Format(dateLayout))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)

	if err := analytics.WriteCSV(c.Writer, orders); err != nil {
		// заголовки уже отправлены, остаётся только записать в лог
		logrus.Error("Error writing csv: ", err)
	}
}
