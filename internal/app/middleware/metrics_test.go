package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics()
	router := gin.New()
	router.Use(m.Handler())
	router.GET("/api/services/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/metrics", m.Expose())

	for _, path := range []string{"/api/services/1", "/api/services/2", "/nowhere"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	// путь считается по шаблону маршрута
	assert.Contains(t, body, `kids_events_http_requests_total{method="GET",path="/api/services/:id",status="200"} 2`)
	assert.Contains(t, body, `kids_events_http_requests_total{method="GET",path="unmatched",status="404"} 1`)
	assert.Contains(t, body, "kids_events_http_request_duration_seconds_bucket")
	assert.NotContains(t, body, "/api/services/1")
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)

	preflight := func(router *gin.Engine, origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/api/ping", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	open := gin.New()
	open.Use(CORS(nil))
	w := preflight(open, "https://any.example")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	strict := gin.New()
	strict.Use(CORS([]string{"https://kids.example"}))
	w = preflight(strict, "https://kids.example")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://kids.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	w = preflight(strict, "https://evil.example")
	assert.Equal(t, http.StatusForbidden, w.Code)
}
