// Package config loads client settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultAPIURL      = "http://localhost:5000/api"
	DefaultHTTPTimeout = 12 * time.Second
	DefaultMockAddr    = ":5000"
)

// Config holds all client settings, populated from environment variables.
type Config struct {
	APIURL      string
	HTTPTimeout time.Duration

	// Debug enables file logging; the TUI owns the terminal.
	Debug   bool
	LogFile string

	// Building preselects a building in the picker.
	Building string

	MockAddr   string
	MockSecret string
}

// Load reads an optional .env file and then the environment, applying defaults where unset.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	timeout, err := parseDuration("SICKSENSE_HTTP_TIMEOUT", DefaultHTTPTimeout)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		APIURL:      strings.TrimRight(envOrDefault("SICKSENSE_API_URL", DefaultAPIURL), "/"),
		HTTPTimeout: timeout,
		Debug:       envBool("SICKSENSE_DEBUG"),
		LogFile:     envOrDefault("SICKSENSE_LOG_FILE", "sicksense-debug.log"),
		Building:    strings.TrimSpace(os.Getenv("SICKSENSE_BUILDING")),
		MockAddr:    envOrDefault("SICKSENSE_MOCK_ADDR", DefaultMockAddr),
		MockSecret:  envOrDefault("SICKSENSE_MOCK_SECRET", "sicksense-dev-secret"),
	}

	if !strings.HasPrefix(cfg.APIURL, "http://") && !strings.HasPrefix(cfg.APIURL, "https://") {
		return nil, fmt.Errorf("invalid SICKSENSE_API_URL %q", cfg.APIURL)
	}
	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envBool(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func parseDuration(key string, def time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}
