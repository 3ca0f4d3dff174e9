package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the trading CLI
type Config struct {
	Binance BinanceConfig `json:"binance"`
	Logging LoggingConfig `json:"logging"`
}

// BinanceConfig holds Binance futures API configuration
type BinanceConfig struct {
	APIKey          string        `json:"api_key"`
	SecretKey       string        `json:"-"`
	BaseURL         string        `json:"base_url"`
	Timeout         time.Duration `json:"timeout"`
	MaxRetries      int           `json:"max_retries"`
	RecvWindow      int64         `json:"recv_window"`
	DefaultLeverage int           `json:"default_leverage"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"` // json or console
}

// Load loads configuration from a .env file (when present) and the
// environment. Environment variables win over .env entries.
func Load() (*Config, error) {
	// Missing .env is fine; the environment still applies
	_ = godotenv.Load()

	config := &Config{
		Binance: BinanceConfig{
			APIKey:          getEnv("BINANCE_API_KEY", ""),
			SecretKey:       getEnv("BINANCE_API_SECRET", ""),
			BaseURL:         getEnv("BINANCE_BASE_URL", "https://testnet.binancefuture.com"),
			Timeout:         getEnvAsDuration("BINANCE_TIMEOUT", "30s"),
			MaxRetries:      getEnvAsInt("BINANCE_MAX_RETRIES", 3),
			RecvWindow:      getEnvAsInt64("BINANCE_RECV_WINDOW", 5000),
			DefaultLeverage: getEnvAsInt("BINANCE_DEFAULT_LEVERAGE", 0),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Binance.APIKey == "" {
		return fmt.Errorf("BINANCE_API_KEY is required")
	}
	if c.Binance.SecretKey == "" {
		return fmt.Errorf("BINANCE_API_SECRET is required")
	}
	if c.Binance.BaseURL == "" {
		return fmt.Errorf("BINANCE_BASE_URL cannot be empty")
	}
	if c.Binance.MaxRetries < 1 {
		return fmt.Errorf("invalid max retries: %d", c.Binance.MaxRetries)
	}
	if c.Binance.RecvWindow <= 0 {
		return fmt.Errorf("invalid recv window: %d", c.Binance.RecvWindow)
	}
	return nil
}

// String renders the configuration for logs. The secret is never included;
// the API key is truncated to its prefix.
func (c *Config) String() string {
	return fmt.Sprintf("Config{APIKey: %s, BaseURL: %s, Timeout: %s, MaxRetries: %d, RecvWindow: %d}",
		redactKey(c.Binance.APIKey), c.Binance.BaseURL, c.Binance.Timeout,
		c.Binance.MaxRetries, c.Binance.RecvWindow)
}

func redactKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "****"
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if int64Value, err := strconv.ParseInt(value, 10, 64); err == nil {
			return int64Value
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
