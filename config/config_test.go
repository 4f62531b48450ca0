package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "campus-student-hub", cfg.App.Name)
	assert.Equal(t, EnvDevelopment, cfg.App.Environment)
	assert.True(t, cfg.App.Debug)
	assert.Equal(t, "Asia/Kolkata", cfg.App.Timezone)
	assert.Equal(t, StoreMemory, cfg.Store.Backend)
	assert.Equal(t, "hub", cfg.Store.Namespace)
	assert.Equal(t, 30*time.Second, cfg.Campus.RequestTimeout)
	assert.Equal(t, "info", cfg.Observability.LogLevel)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("CAMPUS_BASE_URL", "https://portal.example.edu")
	t.Setenv("CAMPUS_REQUEST_TIMEOUT", "10s")
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("REDIS_PORT", "6380")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://portal.example.edu", cfg.Campus.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Campus.RequestTimeout)
	assert.Equal(t, StoreRedis, cfg.Store.Backend)
	assert.Equal(t, 6380, cfg.Store.RedisPort)
}

func TestInvalidValuesFallBackToDefaults(t *testing.T) {
	t.Setenv("CAMPUS_REQUEST_TIMEOUT", "not-a-duration")
	t.Setenv("REDIS_PORT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Campus.RequestTimeout)
	assert.Equal(t, 6379, cfg.Store.RedisPort)
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "sqlite")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE_BACKEND")
}

func TestValidatePostgresRequiresURL(t *testing.T) {
	t.Setenv("STORE_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestValidateProductionConstraints(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("STORE_BACKEND", "memory")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SNAPSHOT_PASSPHRASE")
	assert.Contains(t, err.Error(), "STORE_BACKEND=memory")
}
