package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	GinMode        string
	OpenAIAPIKey   string
	ResendAPIKey   string
	IdentitySecret string
	CronSecret     string
	AppBaseURL     string
	EmailFrom      string

	// Cron schedules in "HH:MM" form. Empty disables in-process scheduling
	// for that job (the HTTP cron endpoints remain available either way).
	DailyAssessmentAt string
	DependencyCheckAt string
}

func Load() (*Config, error) {
	// Optional; real deployments set env vars directly.
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBUser:            getEnv("DB_USER", "taskuser"),
		DBPassword:        getEnv("DB_PASSWORD", "taskpassword"),
		DBName:            getEnv("DB_NAME", "taskmaster"),
		GinMode:           getEnv("GIN_MODE", "debug"),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		ResendAPIKey:      getEnv("RESEND_API_KEY", ""),
		IdentitySecret:    getEnv("IDENTITY_JWT_SECRET", ""),
		CronSecret:        getEnv("CRON_SECRET", ""),
		AppBaseURL:        getEnv("APP_BASE_URL", "http://localhost:3000"),
		EmailFrom:         getEnv("EMAIL_FROM", "TaskMasterPro <onboarding@resend.dev>"),
		DailyAssessmentAt: getEnv("CRON_SCHEDULE_DAILY_ASSESSMENT", ""),
		DependencyCheckAt: getEnv("CRON_SCHEDULE_DEPENDENCY_CHECK", ""),
	}

	if cfg.IdentitySecret == "" {
		return nil, fmt.Errorf("IDENTITY_JWT_SECRET is required")
	}
	if cfg.CronSecret == "" {
		return nil, fmt.Errorf("CRON_SECRET is required")
	}

	return cfg, nil
}

// IsProduction reports whether the server runs in release mode. Verbose
// error details are suppressed in production responses.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

func getEnv(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}
