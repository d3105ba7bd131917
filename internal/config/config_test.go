package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "transit-equity-auth", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.False(t, cfg.App.IsProduction())
	assert.Equal(t, "migrations", cfg.Postgres.MigrationsDir)
	assert.Equal(t, 60, cfg.Auth.AccessTokenTTLMinutes)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, 60, cfg.Redis.UserCacheTTLSec)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_MINUTES", "15")
	t.Setenv("REDIS_USER_CACHE_TTL_SECONDS", "0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.App.IsProduction())
	assert.Equal(t, "0.0.0.0:9090", cfg.App.Addr())
	assert.Equal(t, 15, cfg.Auth.AccessTokenTTLMinutes)
	assert.Zero(t, cfg.Redis.UserCacheTTL())
}

func TestLoadInvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")

	_, err := Load()
	assert.Error(t, err)
}
