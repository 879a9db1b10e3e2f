// Package config reads service settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/satheeshds/condo/db"
)

type Config struct {
	Port     string
	LogLevel string

	// Database
	DBDriver    string
	DBPath      string
	DatabaseURL string

	ReceiptsDir string

	// Tokens
	JWTSecret string
	TokenTTL  time.Duration

	// Payment provider, optional
	StripeSecretKey     string
	StripeWebhookSecret string
	AppURL              string
	Currency            string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:                getEnv("PORT", "8080"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		DBDriver:            getEnv("DB_DRIVER", db.SQLite),
		DBPath:              getEnv("DB_PATH", "./data/billing.db"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		ReceiptsDir:         getEnv("RECEIPTS_DIR", "./receipts"),
		JWTSecret:           getEnv("JWT_SECRET", ""),
		StripeSecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
		AppURL:              strings.TrimRight(getEnv("APP_URL", "http://localhost:5173"), "/"),
		Currency:            strings.ToLower(getEnv("CURRENCY", "usd")),
	}

	ttl, err := time.ParseDuration(getEnv("TOKEN_TTL", "8h"))
	if err != nil {
		return nil, fmt.Errorf("TOKEN_TTL: %w", err)
	}
	cfg.TokenTTL = ttl

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case db.SQLite:
	case db.Postgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when DB_DRIVER=%s", db.Postgres)
		}
	default:
		return fmt.Errorf("DB_DRIVER must be %s or %s", db.SQLite, db.Postgres)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	return nil
}

// DSN is the data source passed to db.Open for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == db.Postgres {
		return c.DatabaseURL
	}
	return c.DBPath
}

// ProviderConfigured reports whether checkout through Stripe is available.
func (c *Config) ProviderConfigured() bool {
	return c.StripeSecretKey != ""
}

// SlogLevel maps LOG_LEVEL onto a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
