// Package config provides configuration management for SchemeBot.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	// Environment
	Environment string
	LogLevel    string

	// HTTP server
	Port int

	// Gemini oracle
	GeminiAPIKey string
	GeminiModel  string

	// Catalog
	CatalogPath string

	// Conversation flow
	MaxRetries     int
	MinConfidence  float64
	SessionTimeout time.Duration
	HistoryWindow  int

	// Database (optional catalog source)
	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	// Email notifications (optional)
	AWSRegion     string
	SESFromEmail  string
	ReportToEmail string
	NotifyOnMatch bool
}

// Load reads configuration from environment variables.
// A .env file is loaded first if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		Port: getEnvInt("PORT", 8080),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),

		CatalogPath: getEnv("CATALOG_PATH", ""),

		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		MinConfidence:  getEnvFloat("MIN_CONFIDENCE", 0.7),
		SessionTimeout: time.Duration(getEnvInt("SESSION_TIMEOUT_SECONDS", 600)) * time.Second,
		HistoryWindow:  getEnvInt("HISTORY_WINDOW", 5),

		DBHost:     getEnv("DB_HOST", getEnv("SCHEMEBOT_DB_HOST", "localhost")),
		DBPort:     getEnvInt("DB_PORT", 5432),
		DBName:     getEnv("DB_NAME", "schemebot"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", getEnv("SCHEMEBOT_DB_PASSWORD", "")),
		DBSSLMode:  getEnv("DB_SSLMODE", ""),

		AWSRegion:     getEnv("AWS_REGION", "ap-south-1"),
		SESFromEmail:  getEnv("SES_FROM_EMAIL", ""),
		ReportToEmail: getEnv("REPORT_TO_EMAIL", ""),
		NotifyOnMatch: getEnvBool("NOTIFY_ON_MATCH", false),
	}

	if cfg.MaxRetries < 1 {
		return nil, fmt.Errorf("MAX_RETRIES must be at least 1, got %d", cfg.MaxRetries)
	}
	if cfg.MinConfidence < 0 || cfg.MinConfidence > 1 {
		return nil, fmt.Errorf("MIN_CONFIDENCE must be between 0 and 1, got %.2f", cfg.MinConfidence)
	}

	return cfg, nil
}

// DatabaseURL builds a postgres connection string from the DB settings.
func (c *Config) DatabaseURL() string {
	sslMode := c.DBSSLMode
	if sslMode == "" {
		sslMode = "require"
		if c.DBHost == "localhost" || c.DBHost == "127.0.0.1" {
			sslMode = "disable"
		}
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, sslMode)
}

// OracleEnabled reports whether the Gemini oracle is configured.
func (c *Config) OracleEnabled() bool {
	return c.GeminiAPIKey != ""
}

// NotifierEnabled reports whether match report emails are configured.
func (c *Config) NotifierEnabled() bool {
	return c.NotifyOnMatch && c.SESFromEmail != "" && c.ReportToEmail != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
