package handler

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"kidsevents/internal/app/ds"
	"kidsevents/internal/app/dto"
	"kidsevents/internal/app/middleware"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func campaignRequest(promo string) dto.CreateCampaignRequest {
	now := time.Now().UTC()
	req := dto.CreateCampaignRequest{
		Name: "Summer", Placement: ds.PlacementCatalogTop,
		Budget: dec("20"), CostPerClick: dec("10"),
		StartsAt: now.Add(-time.Hour), EndsAt: now.Add(24 * time.Hour),
		DiscountPercent: 15,
	}
	if promo != "" {
		req.PromoCode = &promo
	}
	return req
}

func TestCreateCampaignValidation(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.provider(t, "heroes", ds.KindAnimator)
	_, rivalToken := env.provider(t, "rivals", ds.KindAnimator)

	noPeriod := campaignRequest("")
	noPeriod.StartsAt = time.Time{}
	w := env.do(t, http.MethodPost, "/api/campaigns", noPeriod, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	noBudget := campaignRequest("")
	noBudget.Budget = dec("0")
	w = env.do(t, http.MethodPost, "/api/campaigns", noBudget, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/campaigns", campaignRequest("kids"), token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[dto.CampaignResponse](t, w)
	assert.Equal(t, ds.CampaignDraft, created.Status)
	require.NotNil(t, created.PromoCode)
	assert.Equal(t, "KIDS", *created.PromoCode)

	// промокод уникален без учёта регистра
	w = env.do(t, http.MethodPost, "/api/campaigns", campaignRequest("Kids"), rivalToken)
	assert.Equal(t, http.StatusConflict, w.Code)

	path := fmt.Sprintf("/api/campaigns/%d", created.ID)
	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodGet, path, nil, rivalToken).Code)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, path, nil, token).Code)

	w = env.do(t, http.MethodGet, "/api/campaigns", nil, rivalToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, decode[listOf[dto.CampaignResponse]](t, w).Total)
}

func TestCampaignLifecycle(t *testing.T) {
	env := setupTestEnv(t)
	profile, token := env.provider(t, "heroes", ds.KindAnimator)

	w := env.do(t, http.MethodPost, "/api/campaigns", campaignRequest(""), token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	campaign := decode[dto.CampaignResponse](t, w)
	base := fmt.Sprintf("/api/campaigns/%d", campaign.ID)

	promoted := func() []dto.CampaignResponse {
		w := env.do(t, http.MethodGet, "/api/campaigns/promoted?placement=catalog_top", nil, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		return decode[listOf[dto.CampaignResponse]](t, w).Items
	}
	assert.Empty(t, promoted())

	// черновик не учитывает показы
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodPost, base+"/impression", nil, "").Code)

	w = env.do(t, http.MethodPost, base+"/activate", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, ds.CampaignActive, decode[dto.CampaignResponse](t, w).Status)

	items := promoted()
	require.Len(t, items, 1)
	assert.True(t, items[0].Budget.IsZero())
	assert.True(t, items[0].Spent.IsZero())
	require.NotNil(t, items[0].Profile)
	assert.Equal(t, profile.ID, items[0].Profile.ID)

	w = env.do(t, http.MethodGet, "/api/campaigns/promoted?placement=popup", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// пауза и повторный запуск
	w = env.do(t, http.MethodPost, base+"/pause", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, ds.CampaignPaused, decode[dto.CampaignResponse](t, w).Status)
	assert.Empty(t, promoted())
	w = env.do(t, http.MethodPost, base+"/activate", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, base+"/impression", nil, "").Code)

	w = env.do(t, http.MethodPost, base+"/click", nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	click := decode[successOf[map[string]interface{}]](t, w)
	assert.Equal(t, ds.CampaignActive, click.Data["status"])

	// второй клик исчерпывает бюджет
	w = env.do(t, http.MethodPost, base+"/click", nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	click = decode[successOf[map[string]interface{}]](t, w)
	assert.Equal(t, ds.CampaignFinished, click.Data["status"])

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodPost, base+"/click", nil, "").Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, base+"/pause", nil, token).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, base+"/activate", nil, token).Code)

	w = env.do(t, http.MethodGet, base, nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[dto.CampaignResponse](t, w)
	assert.Equal(t, int64(1), stats.Impressions)
	assert.Equal(t, int64(2), stats.Clicks)
	assert.True(t, stats.Spent.Equal(dec("20")), stats.Spent.String())

	w = env.do(t, http.MethodDelete, base, nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, base, nil, token).Code)
}

func TestDeleteActiveCampaign(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.provider(t, "heroes", ds.KindAnimator)

	w := env.do(t, http.MethodPost, "/api/campaigns", campaignRequest(""), token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	base := fmt.Sprintf("/api/campaigns/%d", decode[dto.CampaignResponse](t, w).ID)

	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, base+"/activate", nil, token).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodDelete, base, nil, token).Code)

	name := "Autumn"
	w = env.do(t, http.MethodPut, base, dto.UpdateCampaignRequest{Name: &name}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, name, decode[dto.CampaignResponse](t, w).Name)

	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, base+"/pause", nil, token).Code)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodDelete, base, nil, token).Code)
}

func TestCampaignTrackingRateLimited(t *testing.T) {
	env := setupTestEnvWithTracking(t, middleware.NewRateLimiter(0.001, 3))
	_, token := env.provider(t, "heroes", ds.KindAnimator)

	big := campaignRequest("")
	big.Budget = dec("1000")
	w := env.do(t, http.MethodPost, "/api/campaigns", big, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	base := fmt.Sprintf("/api/campaigns/%d", decode[dto.CampaignResponse](t, w).ID)
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, base+"/activate", nil, token).Code)

	// показы и клики делят одну квоту на адрес
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, base+"/impression", nil, "").Code)
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, base+"/click", nil, "").Code)
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, base+"/click", nil, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, env.do(t, http.MethodPost, base+"/click", nil, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, env.do(t, http.MethodPost, base+"/impression", nil, "").Code)

	// отказ не списывает бюджет, остальные маршруты не ограничены
	w = env.do(t, http.MethodGet, base, nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[dto.CampaignResponse](t, w)
	assert.Equal(t, int64(2), stats.Clicks)
	assert.Equal(t, int64(1), stats.Impressions)
	assert.True(t, stats.Spent.Equal(dec("20")), stats.Spent.String())
}
