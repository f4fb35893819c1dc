package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// clearEnv blanks every variable Load reads so ambient shell settings
// cannot leak into assertions. t.Setenv restores the originals.
func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"ENVIRONMENT", "LOG_LEVEL", "PORT",
		"GEMINI_API_KEY", "GEMINI_MODEL", "CATALOG_PATH",
		"MAX_RETRIES", "MIN_CONFIDENCE", "SESSION_TIMEOUT_SECONDS", "HISTORY_WINDOW",
		"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD", "DB_SSLMODE",
		"SCHEMEBOT_DB_HOST", "SCHEMEBOT_DB_PASSWORD",
		"AWS_REGION", "SES_FROM_EMAIL", "REPORT_TO_EMAIL", "NOTIFY_ON_MATCH",
	}
	for _, key := range keys {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()

	assert.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "gemini-2.0-flash", cfg.GeminiModel)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 0.7, cfg.MinConfidence)
	assert.Equal(t, 10*time.Minute, cfg.SessionTimeout)
	assert.Equal(t, 5, cfg.HistoryWindow)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, 5432, cfg.DBPort)
	assert.Equal(t, "schemebot", cfg.DBName)
	assert.Equal(t, "postgres", cfg.DBUser)
	assert.Equal(t, "ap-south-1", cfg.AWSRegion)
	assert.False(t, cfg.NotifyOnMatch)
	assert.False(t, cfg.OracleEnabled())
	assert.False(t, cfg.NotifierEnabled())
}

func TestLoad_ReadsOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_TIMEOUT_SECONDS", "60")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("MAX_RETRIES", "5")
	t.Setenv("MIN_CONFIDENCE", "0.5")
	t.Setenv("NOTIFY_ON_MATCH", "true")

	cfg, err := Load()

	assert.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, time.Minute, cfg.SessionTimeout)
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, 0.5, cfg.MinConfidence)
	assert.True(t, cfg.NotifyOnMatch)
	assert.True(t, cfg.OracleEnabled())
}

func TestLoad_FallbackDatabaseVariables(t *testing.T) {
	clearEnv(t)
	t.Setenv("SCHEMEBOT_DB_HOST", "db.internal")
	t.Setenv("SCHEMEBOT_DB_PASSWORD", "secret")

	cfg, err := Load()

	assert.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, "secret", cfg.DBPassword)

	// The unprefixed variables win when both are present.
	t.Setenv("DB_HOST", "db.primary")
	cfg, err = Load()
	assert.NoError(t, err)
	assert.Equal(t, "db.primary", cfg.DBHost)
}

func TestLoad_RejectsInvalidSettings(t *testing.T) {
	clearEnv(t)
	t.Setenv("MAX_RETRIES", "0")
	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "MAX_RETRIES")

	clearEnv(t)
	t.Setenv("MIN_CONFIDENCE", "1.5")
	_, err = Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "MIN_CONFIDENCE")
}

func TestDatabaseURL(t *testing.T) {
	cfg := &Config{DBUser: "postgres", DBPassword: "pw", DBHost: "localhost", DBPort: 5432, DBName: "schemebot"}
	assert.Equal(t, "postgres://postgres:pw@localhost:5432/schemebot?sslmode=disable", cfg.DatabaseURL())

	cfg.DBHost = "db.example.com"
	assert.Equal(t, "postgres://postgres:pw@db.example.com:5432/schemebot?sslmode=require", cfg.DatabaseURL())

	cfg.DBSSLMode = "verify-full"
	assert.Equal(t, "postgres://postgres:pw@db.example.com:5432/schemebot?sslmode=verify-full", cfg.DatabaseURL())
}

func TestNotifierEnabled(t *testing.T) {
	enabled := &Config{NotifyOnMatch: true, SESFromEmail: "bot@example.com", ReportToEmail: "admin@example.com"}
	assert.True(t, enabled.NotifierEnabled())

	assert.False(t, (&Config{NotifyOnMatch: false, SESFromEmail: "a@b.c", ReportToEmail: "d@e.f"}).NotifierEnabled())
	assert.False(t, (&Config{NotifyOnMatch: true, ReportToEmail: "d@e.f"}).NotifierEnabled())
	assert.False(t, (&Config{NotifyOnMatch: true, SESFromEmail: "a@b.c"}).NotifierEnabled())
}
