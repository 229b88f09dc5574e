package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

const (
	// DefaultCookieName is the session cookie used when COOKIE_NAME is unset
	DefaultCookieName = "hl_jwt"

	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTesting     = "testing"
)

// Config holds the application configuration
type Config struct {
	Environment string `validate:"oneof=development production testing"`
	Server      ServerConfig
	Backend     BackendConfig
	Session     SessionConfig
	Logging     LoggingConfig
	Metrics     MetricsConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string        `validate:"required,numeric"`
	ReadTimeout     time.Duration `validate:"gt=0"`
	WriteTimeout    time.Duration `validate:"gt=0"`
	IdleTimeout     time.Duration `validate:"gt=0"`
	ShutdownTimeout time.Duration `validate:"gt=0"`
}

// BackendConfig describes the shortener API the dashboard proxies to
type BackendConfig struct {
	BaseURL string        `validate:"required,url"`
	Timeout time.Duration `validate:"gt=0"`
	// ShortLinkBaseURL prefixes codes when the backend omits a full short URL
	ShortLinkBaseURL string `validate:"omitempty,url"`
}

// SessionConfig holds session cookie configuration
type SessionConfig struct {
	CookieName string        `validate:"required,excludesall=;"`
	MaxAge     time.Duration `validate:"gt=0"`
	Secure     bool
	// JWTSecret turns on local token verification in the session gate when set
	JWTSecret string
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Verbose bool
	Level   string `validate:"oneof=debug info warn error"`
}

// MetricsConfig controls the Prometheus exposition endpoint
type MetricsConfig struct {
	Enabled bool
	Path    string `validate:"omitempty,startswith=/"`
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := FromEnv()
	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv applies environment variables over the defaults without validating,
// so callers can layer flags on top before calling Finalize.
func FromEnv() *Config {
	cfg := Default()

	cfg.Environment = getEnv("APP_ENV", cfg.Environment)
	cfg.Server.Port = getEnv("PORT", cfg.Server.Port)
	cfg.Server.ShutdownTimeout = getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", cfg.Server.ShutdownTimeout)
	cfg.Backend.BaseURL = getEnv("API_BASE_URL", cfg.Backend.BaseURL)
	cfg.Backend.Timeout = getDurationEnv("BACKEND_TIMEOUT", cfg.Backend.Timeout)
	cfg.Backend.ShortLinkBaseURL = getEnv("SHORT_LINK_BASE_URL", "")
	cfg.Session.CookieName = getEnv("COOKIE_NAME", cfg.Session.CookieName)
	cfg.Session.MaxAge = getDurationEnv("SESSION_MAX_AGE", cfg.Session.MaxAge)
	cfg.Session.JWTSecret = os.Getenv("SESSION_JWT_SECRET")
	cfg.Logging.Level = getEnv("LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Verbose = getBoolEnv("VERBOSE", cfg.Logging.Verbose)
	cfg.Metrics.Enabled = getBoolEnv("METRICS_ENABLED", cfg.Metrics.Enabled)
	cfg.Metrics.Path = getEnv("METRICS_PATH", cfg.Metrics.Path)

	return cfg
}

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	return &Config{
		Environment: EnvDevelopment,
		Server: ServerConfig{
			Port:            "3000",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    40 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Backend: BackendConfig{
			BaseURL: "http://localhost:8080",
			Timeout: 30 * time.Second,
		},
		Session: SessionConfig{
			CookieName: DefaultCookieName,
			MaxAge:     time.Hour,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/-/metrics",
		},
	}
}

// Finalize derives dependent values and validates the configuration
func (c *Config) Finalize() error {
	c.Backend.BaseURL = strings.TrimRight(c.Backend.BaseURL, "/")
	if c.Backend.ShortLinkBaseURL == "" {
		c.Backend.ShortLinkBaseURL = c.Backend.BaseURL
	}
	c.Session.Secure = c.IsProduction()

	if err := c.validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// validate validates the configuration values
func (c *Config) validate() error {
	if err := validate.Struct(c); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("config validation failed: %w", err)
	}

	if c.Metrics.Enabled && c.Metrics.Path == "" {
		return fmt.Errorf("metrics path cannot be empty when metrics are enabled")
	}

	if c.Metrics.Enabled && reservedPath(c.Metrics.Path) {
		return fmt.Errorf("metrics path %q collides with a dashboard route", c.Metrics.Path)
	}

	return nil
}

// reservedPath reports whether path is served by the dashboard itself
func reservedPath(path string) bool {
	switch path {
	case "/", "/login", "/signup", "/dashboard", "/create", "/metrics", "/settings", "/settings/theme", "/logout", "/healthz":
		return true
	}
	return strings.HasPrefix(path, "/api/") || strings.HasPrefix(path, "/dashboard/")
}

// formatValidationErrors formats validation errors into a user-friendly error message
func formatValidationErrors(errs validator.ValidationErrors) error {
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		msgs = append(msgs, fmt.Sprintf("field '%s' failed validation: %s", err.Namespace(), err.Tag()))
	}
	return fmt.Errorf("validation errors: %s", strings.Join(msgs, "; "))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}
