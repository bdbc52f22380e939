package handler

import (
	"fmt"
	"net/http"
	"testing"

	"kidsevents/internal/app/ds"
	"kidsevents/internal/app/dto"
	"kidsevents/internal/app/role"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrdersVisibility(t *testing.T) {
	f := newCartFixture(t)
	env := f.env
	order := f.checkout(t, f.addToCart(t).Orders[0].ID, "")

	_, otherProviderToken := env.provider(t, "rivals", ds.KindAnimator)
	_, noProfileToken := env.user(t, "newbie", role.Provider)
	_, otherCustomerToken := env.user(t, "stranger", role.Customer)
	_, adminToken := env.user(t, "admin", role.Admin)

	count := func(token, query string) int {
		w := env.do(t, http.MethodGet, "/api/orders"+query, nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		return decode[listOf[dto.OrderResponse]](t, w).Total
	}
	assert.Equal(t, 1, count(f.customerToken, ""))
	assert.Equal(t, 1, count(f.providerToken, ""))
	assert.Equal(t, 0, count(otherProviderToken, ""))
	assert.Equal(t, 0, count(noProfileToken, ""))
	assert.Equal(t, 0, count(otherCustomerToken, ""))
	assert.Equal(t, 1, count(adminToken, ""))
	assert.Equal(t, 1, count(adminToken, fmt.Sprintf("?profile_id=%d", f.profile.ID)))
	assert.Equal(t, 1, count(f.providerToken, "?stage=new"))
	assert.Equal(t, 0, count(f.providerToken, "?stage=completed"))

	w := env.do(t, http.MethodGet, "/api/orders?stage=bogus", nil, f.providerToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = env.do(t, http.MethodGet, "/api/orders?date_from=01.01.2026", nil, f.providerToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	path := fmt.Sprintf("/api/orders/%d", order.ID)
	w = env.do(t, http.MethodGet, path, nil, f.providerToken)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[dto.OrderResponse](t, w)
	assert.Equal(t, "parent", got.Customer)
	assert.Equal(t, "heroes", got.ProfileName)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Party", got.Items[0].ServiceName)

	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodGet, path, nil, otherProviderToken).Code)
	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodGet, path, nil, otherCustomerToken).Code)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, path, nil, adminToken).Code)
}

func TestUpdateOrderStage(t *testing.T) {
	f := newCartFixture(t)
	env := f.env
	draft := f.addToCart(t).Orders[0]

	_, otherProviderToken := env.provider(t, "rivals", ds.KindAnimator)
	_, adminToken := env.user(t, "admin", role.Admin)

	stagePath := func(id uint) string { return fmt.Sprintf("/api/orders/%d/stage", id) }

	// черновику этап не выставляется
	w := env.do(t, http.MethodPut, stagePath(draft.ID), dto.UpdateStageRequest{Stage: ds.StageConfirmed}, f.providerToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	order := f.checkout(t, draft.ID, "")

	w = env.do(t, http.MethodPut, stagePath(order.ID), dto.UpdateStageRequest{Stage: "bogus"}, f.providerToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPut, stagePath(order.ID), dto.UpdateStageRequest{Stage: ds.StageConfirmed}, f.customerToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodPut, stagePath(order.ID), dto.UpdateStageRequest{Stage: ds.StageConfirmed}, otherProviderToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodPut, stagePath(order.ID), dto.UpdateStageRequest{Stage: ds.StageCompleted}, f.providerToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[dto.OrderResponse](t, w)
	assert.Equal(t, ds.StageCompleted, updated.Stage)
	assert.NotNil(t, updated.StageChangedAt)

	// переходы не ограничены: можно вернуться назад
	w = env.do(t, http.MethodPut, stagePath(order.ID), dto.UpdateStageRequest{Stage: ds.StageNew}, adminToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, ds.StageNew, decode[dto.OrderResponse](t, w).Stage)

	w = env.do(t, http.MethodPut, stagePath(9999), dto.UpdateStageRequest{Stage: ds.StageNew}, adminToken)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
