package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// SSOT: every environment variable is read here and nowhere else.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Paths
	OutputDir    string // flat-file artifacts (signals, logs, sentinels)
	ConfigDir    string // core_stocks.json / pool_stocks.json
	StrategyFile string // strategy.yaml

	// Notification channels
	Telegram TelegramConfig
	Webhook  WebhookConfig

	// Market data provider
	Provider ProviderConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken string
	ChatID   string
	BaseURL  string
}

// WebhookConfig holds the outbound signal webhook configuration
type WebhookConfig struct {
	URL     string
	Timeout time.Duration
}

// ProviderConfig holds the market data provider configuration
type ProviderConfig struct {
	BaseURL     string
	Timeout     time.Duration
	RatePerSec  float64 // sustained requests per second
	RateBurst   int
	MaxRetries  int
}

// Load reads configuration from environment variables.
// SSOT: this is the only function that calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "10000"),
		Env:  getEnv("ENV", "development"),

		OutputDir:    getEnv("OUTPUT_DIR", "output"),
		ConfigDir:    getEnv("CONFIG_DIR", "config"),
		StrategyFile: getEnv("STRATEGY_FILE", "config/strategy.yaml"),

		Telegram: TelegramConfig{
			BotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
			ChatID:   getEnv("TELEGRAM_CHAT_ID", ""),
			BaseURL:  getEnv("TELEGRAM_BASE_URL", "https://api.telegram.org"),
		},

		Webhook: WebhookConfig{
			URL:     getEnv("WEBHOOK_URL", ""),
			Timeout: getEnvAsDuration("WEBHOOK_TIMEOUT", "10s"),
		},

		Provider: ProviderConfig{
			BaseURL:    getEnv("PROVIDER_BASE_URL", "https://query1.finance.yahoo.com"),
			Timeout:    getEnvAsDuration("PROVIDER_TIMEOUT", "15s"),
			RatePerSec: getEnvAsFloat("PROVIDER_RATE_PER_SEC", 4.0),
			RateBurst:  getEnvAsInt("PROVIDER_RATE_BURST", 2),
			MaxRetries: getEnvAsInt("PROVIDER_MAX_RETRIES", 2),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.OutputDir == "" {
		return fmt.Errorf("OUTPUT_DIR must not be empty")
	}

	return nil
}

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
