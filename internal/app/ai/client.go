// Package ai клиент к AI провайдерам: чат и эмбеддинги.
// Поддерживает OpenAI-совместимый протокол (openai, ollama, шлюзы yandexgpt и gigachat)
// и протокол Anthropic Messages.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"kidsevents/internal/app/ds"

	"github.com/tidwall/gjson"
)

const (
	DefaultTimeout   = 30 * time.Second
	anthropicVersion = "2023-06-01"
	maxErrorBody     = 512
)

var (
	ErrNoMessages            = errors.New("нет сообщений для модели")
	ErrEmbeddingsUnsupported = errors.New("провайдер не поддерживает эмбеддинги")
	ErrEmptyReply            = errors.New("модель вернула пустой ответ")
)

// Message сообщение диалога
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Provider параметры обращения к конкретному провайдеру
type Provider struct {
	Kind           string
	BaseURL        string
	Model          string
	EmbeddingModel string
	APIKey         string
	Temperature    float64
	MaxTokens      int
}

// FromConfig собирает параметры из сохранённых настроек
func FromConfig(cfg *ds.AIProviderConfig) Provider {
	return Provider{
		Kind:           cfg.Kind,
		BaseURL:        cfg.BaseURL,
		Model:          cfg.Model,
		EmbeddingModel: cfg.EmbeddingModel,
		APIKey:         cfg.APIKey,
		Temperature:    cfg.Temperature,
		MaxTokens:      cfg.MaxTokens,
	}
}

// ChatResult ответ модели
type ChatResult struct {
	Content          string `json:"content"`
	Model            string `json:"model"`
	PromptTokens     int64  `json:"prompt_tokens"`
	CompletionTokens int64  `json:"completion_tokens"`
}

// APIError ответ провайдера с кодом не 2xx
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("provider returned %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	httpClient *http.Client
}

func New(timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// endpoint склеивает базовый адрес и путь, не дублируя /v1
func endpoint(baseURL, path string) string {
	base := strings.TrimRight(baseURL, "/")
	if strings.HasSuffix(base, "/v1") {
		base = strings.TrimSuffix(base, "/v1")
	}
	return base + path
}

// Chat отправляет диалог модели и возвращает ответ
func (c *Client) Chat(ctx context.Context, p Provider, messages []Message) (*ChatResult, error) {
	if len(messages) == 0 {
		return nil, ErrNoMessages
	}
	if p.Kind == ds.AIKindAnthropic {
		return c.anthropicChat(ctx, p, messages)
	}
	return c.openAIChat(ctx, p, messages)
}

func (c *Client) openAIChat(ctx context.Context, p Provider, messages []Message) (*ChatResult, error) {
	req := map[string]interface{}{
		"model":       p.Model,
		"messages":    messages,
		"temperature": p.Temperature,
	}
	if p.MaxTokens > 0 {
		req["max_tokens"] = p.MaxTokens
	}

	body, err := c.post(ctx, endpoint(p.BaseURL, "/v1/chat/completions"), bearerHeaders(p.APIKey), req)
	if err != nil {
		return nil, err
	}

	res := gjson.ParseBytes(body)
	content := res.Get("choices.0.message.content").String()
	if content == "" {
		return nil, ErrEmptyReply
	}
	return &ChatResult{
		Content:          content,
		Model:            firstNonEmpty(res.Get("model").String(), p.Model),
		PromptTokens:     res.Get("usage.prompt_tokens").Int(),
		CompletionTokens: res.Get("usage.completion_tokens").Int(),
	}, nil
}

func (c *Client) anthropicChat(ctx context.Context, p Provider, messages []Message) (*ChatResult, error) {
	// системные сообщения идут отдельным полем
	var system []string
	dialog := make([]Message, 0, len(messages))
	for _, m := range messages {
		if m.Role == "system" {
			system = append(system, m.Content)
			continue
		}
		dialog = append(dialog, m)
	}
	if len(dialog) == 0 {
		return nil, ErrNoMessages
	}

	maxTokens := p.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	req := map[string]interface{}{
		"model":       p.Model,
		"messages":    dialog,
		"max_tokens":  maxTokens,
		"temperature": p.Temperature,
	}
	if len(system) > 0 {
		req["system"] = strings.Join(system, "\n\n")
	}

	headers := map[string]string{
		"x-api-key":         p.APIKey,
		"anthropic-version": anthropicVersion,
	}
	body, err := c.post(ctx, endpoint(p.BaseURL, "/v1/messages"), headers, req)
	if err != nil {
		return nil, err
	}

	res := gjson.ParseBytes(body)
	var parts []string
	for _, block := range res.Get("content").Array() {
		if block.Get("type").String() == "text" {
			parts = append(parts, block.Get("text").String())
		}
	}
	content := strings.Join(parts, "")
	if content == "" {
		return nil, ErrEmptyReply
	}
	return &ChatResult{
		Content:          content,
		Model:            firstNonEmpty(res.Get("model").String(), p.Model),
		PromptTokens:     res.Get("usage.input_tokens").Int(),
		CompletionTokens: res.Get("usage.output_tokens").Int(),
	}, nil
}

// Embeddings векторы для списка строк в том же порядке
func (c *Client) Embeddings(ctx context.Context, p Provider, input []string) ([][]float64, error) {
	if p.Kind == ds.AIKindAnthropic {
		return nil, ErrEmbeddingsUnsupported
	}
	if len(input) == 0 {
		return [][]float64{}, nil
	}

	model := firstNonEmpty(p.EmbeddingModel, p.Model)
	req := map[string]interface{}{
		"model": model,
		"input": input,
	}
	body, err := c.post(ctx, endpoint(p.BaseURL, "/v1/embeddings"), bearerHeaders(p.APIKey), req)
	if err != nil {
		return nil, err
	}

	data := gjson.GetBytes(body, "data").Array()
	if len(data) != len(input) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(input), len(data))
	}

	vectors := make([][]float64, len(input))
	for i, item := range data {
		idx := i
		if v := item.Get("index"); v.Exists() {
			idx = int(v.Int())
		}
		if idx < 0 || idx >= len(vectors) {
			return nil, fmt.Errorf("embedding index %d out of range", idx)
		}
		values := item.Get("embedding").Array()
		vec := make([]float64, len(values))
		for j, v := range values {
			vec[j] = v.Float()
		}
		vectors[idx] = vec
	}
	return vectors, nil
}

func bearerHeaders(apiKey string) map[string]string {
	if apiKey == "" {
		return nil
	}
	return map[string]string{"Authorization": "Bearer " + apiKey}
}

func (c *Client) post(ctx context.Context, url string, headers map[string]string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := gjson.GetBytes(respBody, "error.message").String()
		if msg == "" {
			msg = string(respBody)
			if len(msg) > maxErrorBody {
				msg = msg[:maxErrorBody]
			}
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	if !gjson.ValidBytes(respBody) {
		return nil, errors.New("provider returned invalid JSON")
	}

	return respBody, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
