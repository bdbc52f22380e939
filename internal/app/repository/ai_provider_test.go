package repository

import (
	"testing"

	"kidsevents/internal/app/ds"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProvider(name, kind string) *ds.AIProviderConfig {
	return &ds.AIProviderConfig{
		Name:        name,
		Kind:        kind,
		BaseURL:     "https://api.example.com",
		Model:       "model-1",
		APIKey:      "sk-secret",
		Temperature: 0.7,
		Enabled:     true,
	}
}

func defaultIDs(t *testing.T, r *Repository) []uint {
	t.Helper()
	providers, err := r.ListAIProviders()
	require.NoError(t, err)
	var ids []uint
	for _, p := range providers {
		if p.IsDefault {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

func TestAIProviderDefault(t *testing.T) {
	r := setupTestRepository(t)

	_, err := r.GetDefaultAIProvider()
	assert.ErrorIs(t, err, ErrNotFound)

	first := newProvider("OpenAI", ds.AIKindOpenAI)
	require.NoError(t, r.CreateAIProvider(first))
	assert.True(t, first.IsDefault)
	assert.Equal(t, 1024, first.MaxTokens)

	second := newProvider("Claude", ds.AIKindAnthropic)
	require.NoError(t, r.CreateAIProvider(second))
	assert.False(t, second.IsDefault)
	assert.Equal(t, []uint{first.ID}, defaultIDs(t, r))

	third := newProvider("Local", ds.AIKindOllama)
	third.IsDefault = true
	require.NoError(t, r.CreateAIProvider(third))
	assert.Equal(t, []uint{third.ID}, defaultIDs(t, r))

	require.NoError(t, r.SetDefaultAIProvider(second.ID))
	assert.Equal(t, []uint{second.ID}, defaultIDs(t, r))

	def, err := r.GetDefaultAIProvider()
	require.NoError(t, err)
	assert.Equal(t, second.ID, def.ID)

	disabled := false
	_, err = r.UpdateAIProvider(first.ID, AIProviderUpdate{Enabled: &disabled})
	require.NoError(t, err)
	assert.ErrorIs(t, r.SetDefaultAIProvider(first.ID), ErrInvalidStatus)
	_, err = r.GetEnabledAIProvider(first.ID)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	assert.ErrorIs(t, r.SetDefaultAIProvider(999), ErrNotFound)
}

func TestAIProviderUpdateKeepsKey(t *testing.T) {
	r := setupTestRepository(t)
	p := newProvider("OpenAI", ds.AIKindOpenAI)
	require.NoError(t, r.CreateAIProvider(p))

	empty := ""
	model := "model-2"
	updated, err := r.UpdateAIProvider(p.ID, AIProviderUpdate{APIKey: &empty, Model: &model})
	require.NoError(t, err)
	assert.Equal(t, "sk-secret", updated.APIKey)
	assert.Equal(t, "model-2", updated.Model)

	key := "sk-new"
	updated, err = r.UpdateAIProvider(p.ID, AIProviderUpdate{APIKey: &key})
	require.NoError(t, err)
	assert.Equal(t, "sk-new", updated.APIKey)

	kind := "skynet"
	_, err = r.UpdateAIProvider(p.ID, AIProviderUpdate{Kind: &kind})
	assert.ErrorIs(t, err, ErrInvalidInput)

	require.NoError(t, r.DeleteAIProvider(p.ID))
	assert.ErrorIs(t, r.DeleteAIProvider(p.ID), ErrNotFound)
}

func TestCreateAIProviderValidation(t *testing.T) {
	r := setupTestRepository(t)

	p := newProvider("", ds.AIKindOpenAI)
	assert.ErrorIs(t, r.CreateAIProvider(p), ErrInvalidInput)

	p = newProvider("x", ds.AIKindOpenAI)
	p.BaseURL = "ftp://host"
	assert.ErrorIs(t, r.CreateAIProvider(p), ErrInvalidInput)

	p = newProvider("x", ds.AIKindOpenAI)
	p.Temperature = 3
	assert.ErrorIs(t, r.CreateAIProvider(p), ErrInvalidInput)
}
