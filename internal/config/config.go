package config

import (
	"os"
	"strconv"
)

type Config struct {
	HTTPAddr  string
	StaticDir string

	// Per-client rate for the credential endpoints, in requests per second.
	// Zero or negative disables limiting.
	AuthRateLimit float64
	AuthRateBurst int
}

func Load() Config {
	return Config{
		HTTPAddr:      getenv("HTTP_ADDR", ":8080"),
		StaticDir:     getenv("STATIC_DIR", "web/static"),
		AuthRateLimit: getenvFloat("AUTH_RATE_LIMIT", 1),
		AuthRateBurst: getenvInt("AUTH_RATE_BURST", 20),
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getenvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return fallback
}
