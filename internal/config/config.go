package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"ussd_lms/internal/logger"
)

// Config is the full environment-driven configuration for the gateway.
type Config struct {
	Log     logger.Config
	Server  ServerConfig
	Session SessionConfig
	SMS     SMSConfig
	Lookup  LookupConfig
	Summary SummaryConfig
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr     string `envconfig:"USSD_ADDR" default:":8001"`
	MenuFile string `envconfig:"MENU_FILE"`
}

// SessionConfig controls the session store and sweeper.
type SessionConfig struct {
	Backend       string        `envconfig:"SESSION_BACKEND" default:"memory"`
	RedisURL      string        `envconfig:"REDIS_URL"`
	TTL           time.Duration `envconfig:"SESSION_TTL" default:"120s"`
	SweepInterval time.Duration `envconfig:"SWEEP_INTERVAL" default:"60s"`
}

// SMSConfig holds Africa's Talking messaging credentials.
type SMSConfig struct {
	APIKey   string `envconfig:"AT_API_KEY"`
	Username string `envconfig:"AT_USERNAME"`
	URL      string `envconfig:"AT_SMS_URL" default:"https://api.africastalking.com/version1/messaging"`
	SenderID string `envconfig:"AT_SENDER_ID" default:"LMS"`
}

// LookupConfig holds the upstream resource store settings. When URL is
// empty the gateway falls back to a built-in static catalog.
type LookupConfig struct {
	SupabaseURL string        `envconfig:"SUPABASE_URL"`
	SupabaseKey string        `envconfig:"SUPABASE_KEY"`
	Timeout     time.Duration `envconfig:"COLLABORATOR_TIMEOUT" default:"8s"`
}

// SummaryConfig holds the AI summarizer settings.
type SummaryConfig struct {
	APIKey  string `envconfig:"OPENAI_API_KEY"`
	BaseURL string `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com/v1"`
	Model   string `envconfig:"SUMMARY_MODEL" default:"gpt-3.5-turbo"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("error processing environment configuration: %w", err)
	}
	return &config, nil
}
