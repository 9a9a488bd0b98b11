package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Environment string `envconfig:"ENV" default:"development"` // production, development, etc.
	Port        string `envconfig:"PORT" default:"8080"`
	Debug       bool   `envconfig:"DEBUG" default:"false"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	PostgresURI string `envconfig:"POSTGRES_URI" default:"postgres://localhost:5432/inouttracker?sslmode=disable"`
	RedisURI    string `envconfig:"REDIS_URI" default:"redis://localhost:6379/0"`
	// Audit trail is disabled when empty.
	MongoURI string `envconfig:"MONGODB_URI"`

	SessionBackend    string        `envconfig:"SESSION_BACKEND" default:"redis"`
	SessionCookieName string        `envconfig:"SESSION_COOKIE_NAME" default:"inouttracker_session"`
	SessionTTL        time.Duration `envconfig:"SESSION_TTL" default:"24h"`
	TrustProxy        bool          `envconfig:"TRUST_PROXY" default:"false"`
	RateLimitKey      string        `envconfig:"RATE_LIMIT_KEY" default:"ip"`

	AllowedOriginsRaw string   `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	AllowedOrigins    []string `ignored:"true"`

	AppURL          string `envconfig:"APP_URL" default:"http://localhost:8080"`
	MailFromAddress string `envconfig:"MAIL_FROM_ADDRESS" default:"noreply@example.com"`
	MailFromName    string `envconfig:"MAIL_FROM_NAME" default:"inouttracker"`

	AdminEmail    string `envconfig:"ADMIN_EMAIL"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD"`
	AdminPseudo   string `envconfig:"ADMIN_PSEUDO" default:"admin"`
}

// Load reads the environment into a Config and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	cfg.Environment = strings.ToLower(strings.TrimSpace(cfg.Environment))
	cfg.AppURL = strings.TrimRight(cfg.AppURL, "/")
	cfg.AllowedOrigins = parseOrigins(cfg.AllowedOriginsRaw)
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"http://localhost:3000"}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.SessionBackend {
	case "redis", "memory":
	default:
		return fmt.Errorf("SESSION_BACKEND must be redis or memory, got %q", c.SessionBackend)
	}
	switch c.RateLimitKey {
	case "ip", "ip_session":
	default:
		return fmt.Errorf("RATE_LIMIT_KEY must be ip or ip_session, got %q", c.RateLimitKey)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be > 0")
	}
	if c.SessionCookieName == "" {
		return fmt.Errorf("SESSION_COOKIE_NAME must not be empty")
	}
	if (c.AdminEmail == "") != (c.AdminPassword == "") {
		return fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}
	return nil
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// SeedAdmin reports whether a bootstrap admin account is configured.
func (c *Config) SeedAdmin() bool {
	return c.AdminEmail != "" && c.AdminPassword != ""
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
