package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/woavlite/woav/internal/woav/service"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	require.Equal(t, "woav-identity", cfg.Issuer)
	require.Equal(t, "EdDSA", cfg.Algorithm)
	require.Equal(t, KeyStorageEphemeral, cfg.KeyStorageMode)
	require.Equal(t, service.DefaultKeyGracePeriod, cfg.KeyGracePeriod)
	require.Zero(t, cfg.KeyRotationPeriod)
	require.Equal(t, ReplayBackendSQLite, cfg.ReplayBackend)
	require.False(t, cfg.RevokeOnLogout)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, time.Hour, cfg.HousekeepingInterval)
	require.False(t, cfg.CookieOptions().Secure)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("WOAV_ISSUER", "https://id.example.com")
	t.Setenv("WOAV_PROJECT_ID", "example")
	t.Setenv("WOAV_ALGORITHM", "ES256")
	t.Setenv("WOAV_NUM_KEYS", "2")
	t.Setenv("WOAV_KEY_STORAGE_MODE", "persistent")
	t.Setenv("WOAV_KEY_GRACE_PERIOD", "72h")
	t.Setenv("WOAV_KEY_ROTATION_INTERVAL", "30")
	t.Setenv("WOAV_REPLAY_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("WOAV_REVOKE_ON_LOGOUT", "true")
	t.Setenv("ENV", "prod")
	t.Setenv("PORT", "9090")

	cfg := LoadConfig()

	require.Equal(t, "https://id.example.com", cfg.Issuer)
	require.Equal(t, "example", cfg.ProjectID)
	require.Equal(t, "ES256", cfg.Algorithm)
	require.Equal(t, 2, cfg.NumKeys)
	require.Equal(t, KeyStoragePersistent, cfg.KeyStorageMode)
	require.Equal(t, 72*time.Hour, cfg.KeyGracePeriod)
	require.Equal(t, 30*time.Minute, cfg.KeyRotationPeriod, "bare integers are minutes")
	require.Equal(t, ReplayBackendRedis, cfg.ReplayBackend)
	require.Equal(t, "cache:6379", cfg.RedisAddr)
	require.Equal(t, 3, cfg.RedisDB)
	require.True(t, cfg.RevokeOnLogout)
	require.Equal(t, 9090, cfg.Port)
	require.True(t, cfg.CookieOptions().Secure)
}

func TestLoadConfigIgnoresGarbage(t *testing.T) {
	t.Setenv("PORT", "eighty")
	t.Setenv("WOAV_REVOKE_ON_LOGOUT", "sometimes")
	t.Setenv("HOUSEKEEPING_INTERVAL", "often")

	cfg := LoadConfig()

	require.Equal(t, 8080, cfg.Port)
	require.False(t, cfg.RevokeOnLogout)
	require.Equal(t, time.Hour, cfg.HousekeepingInterval)
}
