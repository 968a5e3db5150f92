// Package config loads server configuration from the environment
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const defaultMaxUploadBytes = 1 << 20

// Config holds the API server configuration
type Config struct {
	Environment    string
	Port           int
	SentryDSN      string
	MaxUploadBytes int64 // largest accepted MIDI upload
}

// Load reads an optional .env file and then the environment.
// It reports whether a .env file was found.
func Load() (*Config, bool) {
	found := godotenv.Load() == nil
	return FromEnv(), found
}

// FromEnv builds a Config from environment variables only
func FromEnv() *Config {
	return &Config{
		Environment:    getEnv("ENVIRONMENT", "development"),
		Port:           getEnvInt("PORT", 8080),
		SentryDSN:      getEnv("SENTRY_DSN", ""),
		MaxUploadBytes: int64(getEnvInt("MAX_UPLOAD_BYTES", defaultMaxUploadBytes)),
	}
}

// IsProduction returns true when running in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}
