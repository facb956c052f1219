package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "3002", cfg.Server.Port)
	require.Equal(t, "iftar_db", cfg.Database.Name)
	require.Equal(t, "https://api.muftyat.kz", cfg.Prayer.BaseURL)
	require.Equal(t, 24*time.Hour, cfg.Prayer.CacheTTL)
	require.Equal(t, "iftar", cfg.Metrics.Prefix)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("PRAYER_CACHE_TTL", "1h")
	t.Setenv("BOT_ADMIN_IDS", "100, 200,bogus,300")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.Server.Port)
	require.Equal(t, time.Hour, cfg.Prayer.CacheTTL)
	require.Equal(t, []int64{100, 200, 300}, cfg.Bot.AdminIDs)
}

func TestGetEnvAsInt64Slice(t *testing.T) {
	t.Setenv("TEST_IDS", "")
	require.Nil(t, getEnvAsInt64Slice("TEST_IDS", nil))

	t.Setenv("TEST_IDS", "1,2")
	require.Equal(t, []int64{1, 2}, getEnvAsInt64Slice("TEST_IDS", nil))

	require.Equal(t, []int64{9}, getEnvAsInt64Slice("TEST_MISSING", []int64{9}))
}
