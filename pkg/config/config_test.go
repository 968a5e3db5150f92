package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("PORT", "")
	t.Setenv("SENTRY_DSN", "")
	t.Setenv("MAX_UPLOAD_BYTES", "")

	cfg := FromEnv()
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.Port)
	assert.Empty(t, cfg.SentryDSN)
	assert.Equal(t, int64(1<<20), cfg.MaxUploadBytes)
	assert.False(t, cfg.IsProduction())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("PORT", "9000")
	t.Setenv("SENTRY_DSN", "https://key@example.com/1")
	t.Setenv("MAX_UPLOAD_BYTES", "2048")

	cfg := FromEnv()
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "https://key@example.com/1", cfg.SentryDSN)
	assert.Equal(t, int64(2048), cfg.MaxUploadBytes)
}

func TestFromEnvBadNumbers(t *testing.T) {
	t.Setenv("PORT", "eighty")
	t.Setenv("MAX_UPLOAD_BYTES", "-5")

	cfg := FromEnv()
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, int64(1<<20), cfg.MaxUploadBytes)
}
