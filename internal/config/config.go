// Package config provides application configuration management.
// Settings come from environment variables with sensible defaults;
// a local .env file is honored for development.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// Server Configuration
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration

	// Data Configuration
	DataDir     string // directory for the WhatsApp session database
	CatalogPath string // JSON course catalog file

	// WhatsApp Configuration
	DeviceName string // name shown in the phone's linked devices list

	// LLM Configuration
	LLMProvider    string  // "openai" (default) or "gemini"
	LLMModel       string  // empty = provider default
	LLMTemperature float64 // sampling temperature for the fallback
	LLMTimeout     time.Duration
	LLMMaxPerHour  float64 // fallback calls allowed per chat per hour
	OpenAIAPIKey   string
	GeminiAPIKey   string

	// Metrics Authentication
	MetricsUsername string // Basic Auth user for /metrics (default: "prometheus")
	MetricsPassword string // empty = no auth

	// Better Stack log shipping
	BetterStackToken    string
	BetterStackEndpoint string

	// Sentry error reporting (Better Stack Errors)
	SentryToken       string
	SentryHost        string
	SentryEnvironment string
}

// Load reads configuration from environment variables. A .env file is
// loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv(EnvPort, "10000"),
		LogLevel:        getEnv(EnvLogLevel, "info"),
		ShutdownTimeout: getDurationEnv(EnvShutdownTimeout, GracefulShutdown),

		DataDir:     getEnv(EnvDataDir, "./data"),
		CatalogPath: getEnv(EnvCatalogPath, "./cursos_personalizados.json"),

		DeviceName: getEnv(EnvDeviceName, "Camila"),

		LLMProvider:    getEnv(EnvLLMProvider, "openai"),
		LLMModel:       getEnv(EnvLLMModel, ""),
		LLMTemperature: getFloatEnv(EnvLLMTemperature, 0.2),
		LLMTimeout:     getDurationEnv(EnvLLMTimeout, LLMRequest),
		LLMMaxPerHour:  getFloatEnv(EnvLLMMaxPerHour, 30.0),
		OpenAIAPIKey:   getEnv(EnvOpenAIAPIKey, ""),
		GeminiAPIKey:   getEnv(EnvGeminiAPIKey, ""),

		MetricsUsername: getEnv(EnvMetricsUsername, "prometheus"),
		MetricsPassword: getEnv(EnvMetricsPassword, ""),

		BetterStackToken:    getEnv(EnvBetterStackToken, ""),
		BetterStackEndpoint: getEnv(EnvBetterStackEndpoint, ""),

		SentryToken:       getEnv(EnvSentryToken, ""),
		SentryHost:        getEnv(EnvSentryHost, "errors.betterstack.com"),
		SentryEnvironment: getEnv(EnvSentryEnvironment, "production"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required settings are present and coherent. A
// missing catalog file is not checked here: catalog load degrades at
// startup instead of refusing to boot.
func (c *Config) Validate() error {
	var errs []error

	if c.Port == "" {
		errs = append(errs, errors.New(EnvPort+" is required"))
	}
	if c.DataDir == "" {
		errs = append(errs, errors.New(EnvDataDir+" is required"))
	}
	if c.CatalogPath == "" {
		errs = append(errs, errors.New(EnvCatalogPath+" is required"))
	}

	switch c.LLMProvider {
	case "openai":
		if c.OpenAIAPIKey == "" {
			errs = append(errs, errors.New(EnvOpenAIAPIKey+" is required for provider openai"))
		}
	case "gemini":
		if c.GeminiAPIKey == "" {
			errs = append(errs, errors.New(EnvGeminiAPIKey+" is required for provider gemini"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown LLM provider %q (want openai or gemini)", c.LLMProvider))
	}

	if c.LLMTemperature < 0 || c.LLMTemperature > 2 {
		errs = append(errs, fmt.Errorf("LLM temperature out of range: %v", c.LLMTemperature))
	}
	if c.LLMTimeout <= 0 {
		errs = append(errs, fmt.Errorf("LLM timeout must be positive, got %v", c.LLMTimeout))
	}
	if c.LLMMaxPerHour <= 0 {
		errs = append(errs, fmt.Errorf("LLM per-hour limit must be positive, got %v", c.LLMMaxPerHour))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// SelectedAPIKey returns the credential for the configured provider.
func (c *Config) SelectedAPIKey() string {
	if c.LLMProvider == "gemini" {
		return c.GeminiAPIKey
	}
	return c.OpenAIAPIKey
}

// WhatsAppDBPath returns the SQLite file holding the WhatsApp session.
func (c *Config) WhatsAppDBPath() string {
	return filepath.Join(c.DataDir, "whatsapp.db")
}

// getEnv retrieves an environment variable with a fallback default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv retrieves a duration environment variable with a
// fallback default.
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getFloatEnv retrieves a float64 environment variable with a fallback
// default.
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
