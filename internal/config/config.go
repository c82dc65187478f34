// Package config provides application configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/horizonweb/horizon-chat/internal/domain"
)

// Config holds all application configuration.
type Config struct {
	Port        string
	SiteName    string
	Contact     domain.Contact
	FrontendURL string

	MaxMsgsPerSession int
	Cooldown          time.Duration
	RateLimitPerMin   int
	SessionCacheSize  int

	OpenAIAPIKey string
	OpenAIModel  string

	PlanCatalogFile string
	PlanCatalogJSON string

	Transcript TranscriptConfig
}

// TranscriptConfig controls NDJSON chat transcript logging.
type TranscriptConfig struct {
	Enabled   bool
	Dir       string
	QueueSize int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:     getEnv("PORT", "3001"),
		SiteName: getEnv("SITE_NAME", "Horizon"),
		Contact: domain.Contact{
			Phone: digitsOnly(getEnv("CONTACT_PHONE", "5491122334455")),
			Email: getEnv("CONTACT_EMAIL", "hola@horizonweb.ar"),
		},
		FrontendURL:       getEnv("FRONTEND_URL", ""),
		MaxMsgsPerSession: getEnvInt("MAX_MSGS_PER_SESSION", 50),
		Cooldown:          time.Duration(getEnvInt("COOLDOWN_MINUTES", 20)) * time.Minute,
		RateLimitPerMin:   getEnvInt("RATE_LIMIT_PER_MIN", 5),
		SessionCacheSize:  getEnvInt("SESSION_CACHE_SIZE", 10000),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:       getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
		PlanCatalogFile:   getEnv("PLAN_CATALOG_FILE", ""),
		PlanCatalogJSON:   getEnv("PLAN_CATALOG_JSON", ""),
		Transcript: TranscriptConfig{
			Enabled:   getEnvBool("TRANSCRIPT_LOG_ENABLED", true),
			Dir:       getEnv("TRANSCRIPT_LOG_DIR", "./data/transcripts"),
			QueueSize: getEnvInt("TRANSCRIPT_LOG_QUEUE_SIZE", 1000),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// An unset FRONTEND_URL means development mode: wildcard CORS and
	// non-Secure cookies. A production deploy must not run like that silently.
	if cfg.FrontendURL == "" {
		slog.Warn("FRONTEND_URL not set, serving with development CORS and cookie settings")
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.Contact.Phone == "" {
		return fmt.Errorf("CONTACT_PHONE cannot be empty")
	}
	if c.MaxMsgsPerSession <= 0 {
		return fmt.Errorf("MAX_MSGS_PER_SESSION must be > 0")
	}
	if c.Cooldown <= 0 {
		return fmt.Errorf("COOLDOWN_MINUTES must be > 0")
	}
	if c.RateLimitPerMin <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MIN must be > 0")
	}
	if c.SessionCacheSize <= 0 {
		return fmt.Errorf("SESSION_CACHE_SIZE must be > 0")
	}
	if c.Transcript.Enabled {
		if c.Transcript.Dir == "" {
			return fmt.Errorf("TRANSCRIPT_LOG_DIR cannot be empty")
		}
		if c.Transcript.QueueSize <= 0 {
			return fmt.Errorf("TRANSCRIPT_LOG_QUEUE_SIZE must be > 0")
		}
	}
	return nil
}

// RemoteEnabled reports whether the remote answer provider is configured.
func (c *Config) RemoteEnabled() bool {
	return c.OpenAIAPIKey != ""
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}
