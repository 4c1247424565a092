// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port              int
	LogLevel          string
	DevMode           bool
	MarketDataBaseURL string        // Base URL of the market data provider API
	MarketDataTimeout time.Duration // Per-request timeout for provider calls
	PriceLookbackDays int           // Calendar days of price history to request
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getEnvAsInt("ADVISOR_PORT", 8000),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		DevMode:           getEnvAsBool("DEV_MODE", false),
		MarketDataBaseURL: getEnv("MARKET_DATA_URL", "https://query1.finance.yahoo.com"),
		MarketDataTimeout: time.Duration(getEnvAsInt("MARKET_DATA_TIMEOUT_SECONDS", 30)) * time.Second,
		// 2 years plus a buffer for exchange holidays, matching the
		// analysis window the optimizer expects.
		PriceLookbackDays: getEnvAsInt("PRICE_LOOKBACK_DAYS", 2*365+60),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.MarketDataBaseURL == "" {
		return fmt.Errorf("market data base URL is required")
	}
	if c.PriceLookbackDays < 60 {
		return fmt.Errorf("price lookback must cover at least 60 days, got %d", c.PriceLookbackDays)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
