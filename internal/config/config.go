package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

const defaultModelPath = "models/v4_weather_model_combined.json"

type AppConfig struct {
	// ModelPath is a local file or an http(s) URL of the model package.
	ModelPath string

	// ModelReloadInterval controls how often the package is reloaded
	// (0 = only at startup).
	ModelReloadInterval time.Duration

	// HTTPTimeout bounds outbound model downloads.
	HTTPTimeout time.Duration

	// In-memory run store retention.
	StoreMaxHistory int           // max number of prediction runs kept (0 = unlimited)
	StoreMaxAge     time.Duration // max age of prediction runs (0 = unlimited)

	Port     string
	LogLevel string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found or error loading it", "error", err)
	}
	cfg := &AppConfig{}

	cfg.ModelPath = getenvDefault("MODEL_PATH", defaultModelPath)

	var err error
	if cfg.ModelReloadInterval, err = getenvDuration("MODEL_RELOAD_INTERVAL", "0s"); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "30s"); err != nil {
		return nil, err
	}

	// Store retention.
	cfg.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", 500)
	if cfg.StoreMaxAge, err = getenvDuration("STORE_MAX_AGE", "1h"); err != nil {
		return nil, err
	}

	cfg.Port = getenvDefault("PORT", "8000")
	cfg.LogLevel = getenvDefault("LOG_LEVEL", "info")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := cast.ToIntE(v)
		if err == nil {
			return n
		}
		slog.Warn("ignoring invalid integer setting", "key", key, "value", v)
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := cast.ToDurationE(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return d, nil
}
