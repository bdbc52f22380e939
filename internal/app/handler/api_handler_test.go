package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"kidsevents/internal/app/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFromError(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{repository.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("get order: %w", repository.ErrNotFound), http.StatusNotFound},
		{repository.ErrForbidden, http.StatusForbidden},
		{repository.ErrAlreadyExists, http.StatusConflict},
		{repository.ErrConflict, http.StatusConflict},
		{repository.ErrProfileMismatch, http.StatusConflict},
		{repository.ErrInvalidStatus, http.StatusBadRequest},
		{repository.ErrInvalidStage, http.StatusBadRequest},
		{repository.ErrInvalidInput, http.StatusBadRequest},
		{repository.ErrEmptyOrder, http.StatusBadRequest},
		{repository.ErrInvalidPromo, http.StatusBadRequest},
		{errors.New("connection refused"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusFromError(tc.err), tc.err.Error())
	}
}

func TestPing(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodGet, "/ping", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())

	w = env.do(t, http.MethodGet, "/metrics", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBadIDs(t *testing.T) {
	env := setupTestEnv(t)

	for _, path := range []string{"/api/services/abc", "/api/profiles/0", "/api/services/-1"} {
		w := env.do(t, http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}
