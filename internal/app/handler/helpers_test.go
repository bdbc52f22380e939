package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kidsevents/internal/app/ai"
	"kidsevents/internal/app/config"
	"kidsevents/internal/app/ds"
	"kidsevents/internal/app/middleware"
	"kidsevents/internal/app/redis"
	"kidsevents/internal/app/repository"
	"kidsevents/internal/app/role"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testPassword = "secret1"

// fakeImages хранилище изображений в памяти
type fakeImages struct {
	objects map[string][]byte
}

func newFakeImages() *fakeImages {
	return &fakeImages{objects: map[string][]byte{}}
}

func (f *fakeImages) UploadFile(_ context.Context, prefix string, data []byte, name string) (string, error) {
	object := prefix + "/" + name
	f.objects[object] = data
	return object, nil
}

func (f *fakeImages) DeleteFile(_ context.Context, name string) error {
	delete(f.objects, name)
	return nil
}

func (f *fakeImages) DownloadFile(_ context.Context, name string) ([]byte, error) {
	data, ok := f.objects[name]
	if !ok {
		return nil, errors.New("no such object")
	}
	return data, nil
}

func (f *fakeImages) FileExists(_ context.Context, name string) (bool, error) {
	_, ok := f.objects[name]
	return ok, nil
}

// fakeAI запоминает последний запрос и отвечает заданным текстом
type fakeAI struct {
	reply    string
	err      error
	provider ai.Provider
	messages []ai.Message
}

func (f *fakeAI) Chat(_ context.Context, p ai.Provider, messages []ai.Message) (*ai.ChatResult, error) {
	f.provider = p
	f.messages = messages
	if f.err != nil {
		return nil, f.err
	}
	return &ai.ChatResult{Content: f.reply, Model: p.Model, PromptTokens: 3, CompletionTokens: 5}, nil
}

func (f *fakeAI) Embeddings(_ context.Context, p ai.Provider, input []string) ([][]float64, error) {
	f.provider = p
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float64, len(input))
	for i := range input {
		out[i] = []float64{float64(i), 0.5}
	}
	return out, nil
}

type testEnv struct {
	router  *gin.Engine
	repo    *repository.Repository
	handler *APIHandler
	mr      *miniredis.Miniredis
	images  *fakeImages
	ai      *fakeAI
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return setupTestEnvWithTracking(t, middleware.NewRateLimiter(1000, 1000))
}

// setupTestEnvWithTracking окружение с заданным лимитером показов и кликов
func setupTestEnvWithTracking(t *testing.T, tracking *middleware.RateLimiter) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), repository.GormConfig())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(repository.Models()...))
	repo := repository.NewWithDB(db)

	mr := miniredis.RunT(t)
	redisClient := redis.NewWithClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))

	cfg := &config.Config{
		JWT: config.JWTConfig{
			Token:         "test-secret",
			ExpiresIn:     time.Hour,
			SigningMethod: jwt.SigningMethodHS256,
			Issuer:        "test",
		},
	}

	env := &testEnv{repo: repo, mr: mr, images: newFakeImages(), ai: &fakeAI{reply: "Привет"}}
	authHandler := NewAuthHandler(repo, redisClient, cfg)
	env.handler = NewAPIHandler(repo, env.images, env.ai, authHandler, cfg)

	env.router = gin.New()
	env.handler.RegisterAPIRoutes(env.router,
		middleware.NewAuthMiddleware(redisClient, cfg),
		middleware.NewRateLimiter(1000, 1000),
		tracking,
		middleware.NewMetrics())
	return env
}

// user создаёт пользователя и выдаёт ему токен
func (e *testEnv) user(t *testing.T, login string, userRole role.Role) (*ds.User, string) {
	t.Helper()
	hash, err := hashPassword(testPassword)
	require.NoError(t, err)
	user, err := e.repo.CreateUser(login, hash, login, userRole)
	require.NoError(t, err)
	token, err := e.handler.AuthHandler.issueToken(user)
	require.NoError(t, err)
	return user, token
}

// provider исполнитель с опубликованным профилем
func (e *testEnv) provider(t *testing.T, login, kind string) (*ds.Profile, string) {
	t.Helper()
	user, token := e.user(t, login, role.Provider)
	p := &ds.Profile{UserID: user.ID, Kind: kind, DisplayName: login, City: "Moscow", IsPublished: true}
	require.NoError(t, e.repo.CreateProfile(p))
	return p, token
}

func (e *testEnv) service(t *testing.T, profileID uint, name, price string) *ds.Service {
	t.Helper()
	s := &ds.Service{ProfileID: profileID, Name: name, Price: decimal.RequireFromString(price), DurationMinutes: 60}
	require.NoError(t, e.repo.CreateService(s))
	return s
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) upload(t *testing.T, path, filename string, data []byte, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

// listOf разбирает dto.ListResponse с типизированными элементами
type listOf[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// successOf разбирает dto.SuccessResponse с типизированными данными
type successOf[T any] struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
