package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// Application
	LogLevel string
	HTTPPort string

	// Calculation
	ReportingCurrency string
	InitialLosses     float64

	// Rate cache
	RateCacheNumCounters int64
	RateCacheMaxEntries  int64
	RateCacheTTL         time.Duration

	// Storage
	StorageMode  string // "postgres" or "console"
	PostgresHost string
	PostgresPort string
	PostgresUser string
	PostgresPass string
	PostgresDB   string
	PostgresSSL  string
}

// LoadFromEnv loads configuration from environment variables with defaults.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		// Application defaults
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
		HTTPPort: getEnvOrDefault("HTTP_PORT", "8080"),

		// Calculation defaults
		ReportingCurrency: getEnvOrDefault("REPORTING_CURRENCY", "AUD"),
		InitialLosses:     getFloat64OrDefault("INITIAL_CAPITAL_LOSSES", 0),

		// Rate cache defaults
		RateCacheNumCounters: int64(getIntOrDefault("RATE_CACHE_NUM_COUNTERS", 100_000)),
		RateCacheMaxEntries:  int64(getIntOrDefault("RATE_CACHE_MAX_ENTRIES", 10_000)),
		RateCacheTTL:         getDurationOrDefault("RATE_CACHE_TTL", 24*time.Hour),

		// Storage defaults
		StorageMode:  getEnvOrDefault("STORAGE_MODE", "console"),
		PostgresHost: getEnvOrDefault("POSTGRES_HOST", "localhost"),
		PostgresPort: getEnvOrDefault("POSTGRES_PORT", "5432"),
		PostgresUser: getEnvOrDefault("POSTGRES_USER", "cgtcalc"),
		PostgresPass: getEnvOrDefault("POSTGRES_PASSWORD", "cgtcalc123"),
		PostgresDB:   getEnvOrDefault("POSTGRES_DB", "cgtcalc"),
		PostgresSSL:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
	}

	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks that configuration values are valid.
func (c *Config) Validate() error {
	if c.HTTPPort == "" {
		return fmt.Errorf("HTTP_PORT cannot be empty")
	}

	if len(c.ReportingCurrency) != 3 {
		return fmt.Errorf("REPORTING_CURRENCY must be a 3-letter code, got %q", c.ReportingCurrency)
	}

	if c.InitialLosses > 0 {
		return fmt.Errorf("INITIAL_CAPITAL_LOSSES must be zero or negative, got %f", c.InitialLosses)
	}

	if c.StorageMode != "console" && c.StorageMode != "postgres" {
		return fmt.Errorf("STORAGE_MODE must be 'console' or 'postgres', got %q", c.StorageMode)
	}

	if c.RateCacheMaxEntries <= 0 {
		return fmt.Errorf("RATE_CACHE_MAX_ENTRIES must be positive, got %d", c.RateCacheMaxEntries)
	}

	return nil
}

func getEnvOrDefault(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intVal
}

func getFloat64OrDefault(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	floatVal, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}

	return floatVal
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}
