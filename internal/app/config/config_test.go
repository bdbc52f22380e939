package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test_config.toml"), []byte(body), 0o600))
	t.Setenv("CONFIG_DIR", dir)
	t.Setenv("CONFIG_NAME", "test_config")
}

func TestNewConfig(t *testing.T) {
	writeConfig(t, `
ServicePort = 9090
CORSOrigins = ["http://a.test", "http://b.test"]
DraftTTL = "48h"
`)
	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("MINIO_BUCKET", "")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.ServicePort)
	assert.Equal(t, "0.0.0.0", cfg.ServiceHost)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, 48*time.Hour, cfg.DraftTTL)
	assert.Equal(t, "@every 10m", cfg.MaintenanceSpec)
	assert.Equal(t, 2.0, cfg.TrackingRateLimitRPS)
	assert.Equal(t, 20, cfg.TrackingRateLimitBurst)
	assert.Equal(t, 6380, cfg.Redis.Port)
	assert.Equal(t, "s3cret", cfg.JWT.Token)
	assert.Equal(t, 2*time.Hour, cfg.JWT.ExpiresIn)
	assert.Equal(t, "kids-events", cfg.MinIO.Bucket)
}

func TestNewConfigBadRedisPort(t *testing.T) {
	writeConfig(t, `ServicePort = 8080`)
	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("REDIS_PORT", "six")

	_, err := NewConfig()
	assert.Error(t, err)
}

func TestNewConfigBadJWTTTL(t *testing.T) {
	writeConfig(t, `ServicePort = 8080`)
	t.Setenv("REDIS_HOST", "")
	t.Setenv("JWT_TTL", "soon")

	_, err := NewConfig()
	assert.Error(t, err)
}
