package handler

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"
	"testing"

	"kidsevents/docs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ginParam = regexp.MustCompile(`[:*](\w+)`)

// swaggerPath переводит шаблон маршрута gin в путь swagger: /a/:id -> /a/{id}
func swaggerPath(ginPath string) string {
	return ginParam.ReplaceAllString(ginPath, "{$1}")
}

func TestSwaggerDocCoversRoutes(t *testing.T) {
	env := setupTestEnv(t)

	var doc struct {
		Paths       map[string]map[string]json.RawMessage `json:"paths"`
		Definitions map[string]json.RawMessage            `json:"definitions"`
	}
	raw := docs.SwaggerInfo.ReadDoc()
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	documented := map[string]bool{}
	for path, methods := range doc.Paths {
		for method := range methods {
			documented[strings.ToUpper(method)+" "+path] = true
		}
	}

	registered := map[string]bool{}
	for _, r := range env.router.Routes() {
		if r.Path == "/metrics" || strings.HasPrefix(r.Path, "/swagger/") {
			continue
		}
		registered[r.Method+" "+swaggerPath(r.Path)] = true
	}

	var missing, stale []string
	for route := range registered {
		if !documented[route] {
			missing = append(missing, route)
		}
	}
	for route := range documented {
		if !registered[route] {
			stale = append(stale, route)
		}
	}
	sort.Strings(missing)
	sort.Strings(stale)
	assert.Empty(t, missing, "маршруты без описания")
	assert.Empty(t, stale, "описаны несуществующие маршруты")

	// каждая ссылка на схему указывает на существующее определение
	for _, m := range regexp.MustCompile(`"#/definitions/([\w.]+)"`).FindAllStringSubmatch(raw, -1) {
		assert.Contains(t, doc.Definitions, m[1])
	}
}

func TestSwaggerPath(t *testing.T) {
	assert.Equal(t, "/api/orders/{id}/stage", swaggerPath("/api/orders/:id/stage"))
	assert.Equal(t, "/api/images/{object}", swaggerPath("/api/images/*object"))
	assert.Equal(t, "/ping", swaggerPath("/ping"))
}
