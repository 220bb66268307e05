package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the service configuration
type Config struct {
	Port        string
	Environment string
	MaxFileSize int64 // in bytes
	Window      int   // match window for aPLib compression; 0 means unlimited
}

// Load loads configuration from environment variables with defaults
func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("GO_ENV", "development"),
		MaxFileSize: 8 * 1024 * 1024, // 8MB default; the match search is quadratic
	}

	if v := os.Getenv("MAX_FILE_SIZE"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid MAX_FILE_SIZE %q", v)
		}
		cfg.MaxFileSize = n
	}
	if v := os.Getenv("APLIB_WINDOW"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid APLIB_WINDOW %q", v)
		}
		cfg.Window = n
	}

	return cfg, nil
}

// IsProduction reports whether the service runs with GO_ENV=production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
