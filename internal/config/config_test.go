package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "hard", cfg.Bot.Difficulty)
	assert.InDelta(t, 0.5, cfg.Bot.MediumRandomRate, 1e-9)
	assert.True(t, cfg.Bot.Pruning)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 24*time.Hour, cfg.Redis.TTL)
	assert.Equal(t, "localhost:6379", cfg.Redis.GetRedisAddr())
	assert.True(t, cfg.Book.Enabled)
	assert.False(t, cfg.Telemetry.Enabled)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := `
log-level: debug
bot:
  difficulty: medium
  medium-random-rate: 0.25
redis:
  enabled: true
  host: cache
  port: "6380"
  ttl: 1h
book:
  path: /tmp/book.db
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "medium", cfg.Bot.Difficulty)
	assert.InDelta(t, 0.25, cfg.Bot.MediumRandomRate, 1e-9)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "cache:6380", cfg.Redis.GetRedisAddr())
	assert.Equal(t, time.Hour, cfg.Redis.TTL)
	assert.Equal(t, "/tmp/book.db", cfg.Book.Path)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("BOT_DIFFICULTY", "easy")
	t.Setenv("REDIS_PORT", "7000")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "easy", cfg.Bot.Difficulty)
	assert.Equal(t, "localhost:7000", cfg.Redis.GetRedisAddr())
}

func TestMustLoad_MissingFile(t *testing.T) {
	assert.Panics(t, func() {
		MustLoad(filepath.Join(t.TempDir(), "missing.yml"))
	})
}
