package handler

import (
	"fmt"
	"net/http"
	"testing"

	"kidsevents/internal/app/ai"
	"kidsevents/internal/app/ds"
	"kidsevents/internal/app/dto"
	"kidsevents/internal/app/role"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func providerRequest(name string) dto.CreateAIProviderRequest {
	return dto.CreateAIProviderRequest{
		Name: name, Kind: "openai", BaseURL: "https://api.example.com/v1",
		Model: "gpt-test", EmbeddingModel: "embed-test", APIKey: "sk-abcdef123456",
		Temperature: 0.5,
	}
}

func TestAIProvidersAdminOnly(t *testing.T) {
	env := setupTestEnv(t)
	_, providerToken := env.provider(t, "heroes", ds.KindAnimator)
	_, customerToken := env.user(t, "parent", role.Customer)

	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodGet, "/api/ai-providers", nil, providerToken).Code)
	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodPost, "/api/ai-providers", providerRequest("main"), customerToken).Code)
	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/api/ai-providers", nil, "").Code)
}

func TestAIProvidersCRUD(t *testing.T) {
	env := setupTestEnv(t)
	_, adminToken := env.user(t, "admin", role.Admin)

	bad := providerRequest("broken")
	bad.Kind = "skynet"
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/api/ai-providers", bad, adminToken).Code)

	w := env.do(t, http.MethodPost, "/api/ai-providers", providerRequest("main"), adminToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	first := decode[dto.AIProviderResponse](t, w)
	assert.True(t, first.IsDefault)
	assert.True(t, first.Enabled)
	assert.True(t, first.APIKeySet)
	assert.Equal(t, "sk-...3456", first.APIKeyHint)
	assert.Equal(t, 1024, first.MaxTokens)
	assert.NotContains(t, w.Body.String(), "sk-abcdef123456")

	w = env.do(t, http.MethodPost, "/api/ai-providers", providerRequest("backup"), adminToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	second := decode[dto.AIProviderResponse](t, w)
	assert.False(t, second.IsDefault)

	w = env.do(t, http.MethodPost, fmt.Sprintf("/api/ai-providers/%d/default", second.ID), nil, adminToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, decode[dto.AIProviderResponse](t, w).IsDefault)

	w = env.do(t, http.MethodGet, "/api/ai-providers", nil, adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[listOf[dto.AIProviderResponse]](t, w)
	require.Len(t, list.Items, 2)
	assert.Equal(t, second.ID, list.Items[0].ID)
	assert.False(t, list.Items[1].IsDefault)

	// пустой ключ не затирает сохранённый
	empty := ""
	model := "gpt-next"
	w = env.do(t, http.MethodPut, fmt.Sprintf("/api/ai-providers/%d", first.ID), dto.UpdateAIProviderRequest{
		APIKey: &empty, Model: &model,
	}, adminToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[dto.AIProviderResponse](t, w)
	assert.Equal(t, model, updated.Model)
	assert.True(t, updated.APIKeySet)

	disabled := false
	w = env.do(t, http.MethodPut, fmt.Sprintf("/api/ai-providers/%d", first.ID), dto.UpdateAIProviderRequest{Enabled: &disabled}, adminToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = env.do(t, http.MethodPost, fmt.Sprintf("/api/ai-providers/%d/default", first.ID), nil, adminToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	env.ai.reply = "готов"
	w = env.do(t, http.MethodPost, fmt.Sprintf("/api/ai-providers/%d/test", second.ID), nil, adminToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	test := decode[dto.AITestResponse](t, w)
	assert.Equal(t, "готов", test.Reply)
	assert.Equal(t, "gpt-test", test.Model)
	assert.Equal(t, "sk-abcdef123456", env.ai.provider.APIKey)

	w = env.do(t, http.MethodDelete, fmt.Sprintf("/api/ai-providers/%d", first.ID), nil, adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodDelete, fmt.Sprintf("/api/ai-providers/%d", first.ID), nil, adminToken)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestChat(t *testing.T) {
	env := setupTestEnv(t)
	_, adminToken := env.user(t, "admin", role.Admin)
	_, customerToken := env.user(t, "parent", role.Customer)

	chat := dto.ChatRequest{Messages: []dto.ChatMessage{{Role: "user", Content: "Идеи для праздника?"}}}

	w := env.do(t, http.MethodPost, "/api/ai/chat", chat, customerToken)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = env.do(t, http.MethodPost, "/api/ai-providers", providerRequest("main"), adminToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = env.do(t, http.MethodPost, "/api/ai/chat", dto.ChatRequest{
		Messages: []dto.ChatMessage{{Role: "robot", Content: "hi"}},
	}, customerToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	env.ai.reply = "Пиратская вечеринка"
	w = env.do(t, http.MethodPost, "/api/ai/chat", chat, customerToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := decode[ai.ChatResult](t, w)
	assert.Equal(t, "Пиратская вечеринка", result.Content)
	assert.Equal(t, "gpt-test", result.Model)
	require.Len(t, env.ai.messages, 1)
	assert.Equal(t, "Идеи для праздника?", env.ai.messages[0].Content)

	env.ai.err = &ai.APIError{StatusCode: http.StatusTooManyRequests, Message: "rate limited"}
	w = env.do(t, http.MethodPost, "/api/ai/chat", chat, customerToken)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "rate limited")

	env.ai.err = ai.ErrNoMessages
	w = env.do(t, http.MethodPost, "/api/ai/chat", chat, customerToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	missing := uint(9999)
	env.ai.err = nil
	w = env.do(t, http.MethodPost, "/api/ai/chat", dto.ChatRequest{Messages: chat.Messages, ProviderID: &missing}, customerToken)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEmbeddings(t *testing.T) {
	env := setupTestEnv(t)
	_, adminToken := env.user(t, "admin", role.Admin)
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/ai-providers", providerRequest("main"), adminToken).Code)

	w := env.do(t, http.MethodPost, "/api/ai/embeddings", dto.EmbeddingsRequest{Input: []string{"clown", "quest"}}, adminToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[dto.EmbeddingsResponse](t, w)
	require.Len(t, resp.Vectors, 2)
	assert.Equal(t, []float64{1, 0.5}, resp.Vectors[1])
	assert.Equal(t, "embed-test", env.ai.provider.EmbeddingModel)

	env.ai.err = ai.ErrEmbeddingsUnsupported
	w = env.do(t, http.MethodPost, "/api/ai/embeddings", dto.EmbeddingsRequest{Input: []string{"clown"}}, adminToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/ai/embeddings", dto.EmbeddingsRequest{}, adminToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDescribeService(t *testing.T) {
	env := setupTestEnv(t)
	_, adminToken := env.user(t, "admin", role.Admin)
	_, questToken := env.provider(t, "secret", ds.KindQuest)
	_, customerToken := env.user(t, "parent", role.Customer)
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/ai-providers", providerRequest("main"), adminToken).Code)

	req := dto.DescribeServiceRequest{Name: "Pirates", Notes: "for 8-10 years"}
	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodPost, "/api/ai/describe-service", req, customerToken).Code)

	env.ai.reply = "Описание"
	w := env.do(t, http.MethodPost, "/api/ai/describe-service", req, questToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Описание", decode[ai.ChatResult](t, w).Content)

	require.Len(t, env.ai.messages, 2)
	assert.Equal(t, "system", env.ai.messages[0].Role)
	prompt := env.ai.messages[1].Content
	assert.Contains(t, prompt, "квест")
	assert.Contains(t, prompt, "Pirates")
	assert.Contains(t, prompt, "for 8-10 years")
}
