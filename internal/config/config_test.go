package config_test

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/aretw0/formflow/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{
		"FORMFLOW_OUTPUT_DIR", "FORMFLOW_TEMPLATE_DIR", "FORMFLOW_PDFTK", "FORMFLOW_REDIS_ADDR",
		"FORMFLOW_REDIS_TTL", "FORMFLOW_ADDR", "FORMFLOW_LOG_LEVEL", "FORMFLOW_LANES",
	} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "published", cfg.OutputDir)
	assert.Equal(t, "templates", cfg.TemplateDir)
	assert.Equal(t, "pdftk", cfg.Pdftk)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, 10*time.Minute, cfg.RedisTTL)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 4, cfg.Lanes)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("FORMFLOW_OUTPUT_DIR", "/srv/out")
	t.Setenv("FORMFLOW_REDIS_ADDR", "localhost:6379")
	t.Setenv("FORMFLOW_REDIS_TTL", "90s")
	t.Setenv("FORMFLOW_LOG_LEVEL", "debug")
	t.Setenv("FORMFLOW_LANES", "2")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "/srv/out", cfg.OutputDir)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 90*time.Second, cfg.RedisTTL)
	assert.Equal(t, 2, cfg.Lanes)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("FORMFLOW_LANES", "0")
	_, err := config.Load()
	assert.Error(t, err)

	t.Setenv("FORMFLOW_LANES", "many")
	_, err = config.Load()
	assert.Error(t, err)
}
