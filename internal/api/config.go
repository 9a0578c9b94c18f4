package api

import (
	"os"
	"strconv"
	"time"
)

// DefaultConfig returns a Config pointing at the hosted Evident service.
func DefaultConfig() Config {
	return Config{
		BaseURL: "https://evident-api.onrender.com/api",
		Timeout: 10 * time.Second,
	}
}

// LoadConfig reads client configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("EVIDENT_API_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("EVIDENT_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Timeout = time.Duration(n) * time.Millisecond
		}
	}
	return cfg
}
