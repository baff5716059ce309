package web

import (
	"log/slog"
	"os"
	"strconv"
)

// Config holds web server configuration.
type Config struct {
	Port    int
	DevMode bool

	// CommentRate is the sustained number of comment submissions allowed per
	// client IP per minute. Zero disables rate limiting.
	CommentRate  float64
	CommentBurst int
}

// DefaultConfig returns the configuration used when no environment is set.
func DefaultConfig() Config {
	return Config{
		Port:         8080,
		CommentRate:  6,
		CommentBurst: 3,
	}
}

// ConfigFromEnv creates a Config from CF_* environment variables.
func ConfigFromEnv() Config {
	def := DefaultConfig()
	return Config{
		Port:         envInt("CF_PORT", def.Port),
		DevMode:      os.Getenv("CF_DEV_MODE") == "true",
		CommentRate:  envFloat("CF_COMMENT_RATE", def.CommentRate),
		CommentBurst: envInt("CF_COMMENT_BURST", def.CommentBurst),
	}
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("ignoring invalid integer env var", "key", key, "value", v)
		return fallback
	}
	return n
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		slog.Warn("ignoring invalid number env var", "key", key, "value", v)
		return fallback
	}
	return f
}
