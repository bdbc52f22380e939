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

func TestCreateProfile(t *testing.T) {
	env := setupTestEnv(t)
	_, providerToken := env.user(t, "heroes", role.Provider)
	_, customerToken := env.user(t, "parent", role.Customer)

	req := dto.CreateProfileRequest{Kind: ds.KindAnimator, DisplayName: "Heroes", City: "Moscow", IsPublished: true}

	w := env.do(t, http.MethodPost, "/api/profiles", req, customerToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	lat := 55.75
	half := req
	half.Latitude = &lat
	w = env.do(t, http.MethodPost, "/api/profiles", half, providerToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	bad := req
	bad.Kind = "clown"
	w = env.do(t, http.MethodPost, "/api/profiles", bad, providerToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/profiles", req, providerToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[dto.ProfileResponse](t, w)
	assert.Equal(t, "Heroes", created.DisplayName)
	assert.Equal(t, ds.KindAnimator, created.Kind)

	w = env.do(t, http.MethodPost, "/api/profiles", req, providerToken)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodGet, "/api/profiles/me", nil, providerToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created.ID, decode[dto.ProfileResponse](t, w).ID)
}

func TestMyProfileRequiresProfile(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.user(t, "newbie", role.Provider)

	w := env.do(t, http.MethodGet, "/api/profiles/me", nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUnpublishedProfileHidden(t *testing.T) {
	env := setupTestEnv(t)
	profile, ownerToken := env.provider(t, "hidden", ds.KindVenue)
	_, adminToken := env.user(t, "admin", role.Admin)
	_, customerToken := env.user(t, "parent", role.Customer)
	env.service(t, profile.ID, "Hall rent", "3000")

	unpublished := false
	w := env.do(t, http.MethodPut, "/api/profiles/me", dto.UpdateProfileRequest{IsPublished: &unpublished}, ownerToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.False(t, decode[dto.ProfileResponse](t, w).IsPublished)

	path := fmt.Sprintf("/api/profiles/%d", profile.ID)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, path, nil, "").Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, path, nil, customerToken).Code)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, path, nil, adminToken).Code)

	w = env.do(t, http.MethodGet, path, nil, ownerToken)
	require.Equal(t, http.StatusOK, w.Code)
	details := decode[dto.ProfileDetailsResponse](t, w)
	require.Len(t, details.Services, 1)
	assert.Equal(t, "Hall rent", details.Services[0].Name)

	w = env.do(t, http.MethodGet, "/api/profiles", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, decode[listOf[dto.ProfileResponse]](t, w).Total)
}

func TestGetProfilesNear(t *testing.T) {
	env := setupTestEnv(t)
	_, moscowToken := env.user(t, "moscow", role.Provider)
	_, spbToken := env.user(t, "spb", role.Provider)

	mLat, mLng := 55.7558, 37.6173
	sLat, sLng := 59.9343, 30.3351
	w := env.do(t, http.MethodPost, "/api/profiles", dto.CreateProfileRequest{
		Kind: ds.KindAnimator, DisplayName: "Moscow fun", Latitude: &mLat, Longitude: &mLng, IsPublished: true,
	}, moscowToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = env.do(t, http.MethodPost, "/api/profiles", dto.CreateProfileRequest{
		Kind: ds.KindAnimator, DisplayName: "Piter fun", Latitude: &sLat, Longitude: &sLng, IsPublished: true,
	}, spbToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = env.do(t, http.MethodGet, "/api/profiles?lat=55.76&lng=37.62&radius_km=20", nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	list := decode[listOf[dto.ProfileResponse]](t, w)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Moscow fun", list.Items[0].DisplayName)
	require.NotNil(t, list.Items[0].DistanceKm)
	assert.Less(t, *list.Items[0].DistanceKm, 2.0)

	w = env.do(t, http.MethodGet, "/api/profiles?lat=100&lng=37", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodGet, "/api/profiles?kind=animator", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decode[listOf[dto.ProfileResponse]](t, w).Total)
}

func TestUploadAvatar(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.provider(t, "photo", ds.KindPhotographer)

	w := env.upload(t, "/api/profiles/me/avatar", "me.png", []byte("png-bytes"), token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[successOf[map[string]string]](t, w)
	url := resp.Data["avatar_url"]
	assert.Contains(t, url, imagesPath)

	w = env.do(t, http.MethodGet, url, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "png-bytes", w.Body.String())
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	w = env.upload(t, "/api/profiles/me/avatar", "me.exe", []byte("x"), token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
