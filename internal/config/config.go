package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// minProductionKeyLen is the shortest ACCESS_KEY accepted in production.
const minProductionKeyLen = 32

// Config holds all application configuration
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig `envPrefix:"DB_"`
	Session     SessionConfig
	Redis       RedisConfig
	RateLimit   RateLimitConfig `envPrefix:"RATE_LIMIT_"`
	Idempotency IdempotencyConfig
	Log         LogConfig `envPrefix:"LOG_"`

	// ApplicantsOwnerCheck restricts /apply-jobs/jobs/{id} to the job's hr_email.
	ApplicantsOwnerCheck bool `env:"APPLICANTS_OWNER_CHECK" envDefault:"false"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string        `env:"PORT" envDefault:"5000"`
	Env             string        `env:"APP_ENV"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"15s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	AllowedOrigins  []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5174,http://localhost:5173,https://job-portal-pro.web.app,https://job-portal-pro.firebaseapp.com"`
}

// DatabaseConfig holds SurrealDB connection settings
type DatabaseConfig struct {
	Host      string `env:"HOST" envDefault:"localhost"`
	Port      string `env:"PORT" envDefault:"8000"`
	User      string `env:"USER" envDefault:"root"`
	Password  string `env:"PASS" envDefault:"root"`
	Namespace string `env:"NAMESPACE" envDefault:"jobPortal"`
	Database  string `env:"DATABASE" envDefault:"main"`

	BreakerMaxFailures uint32        `env:"BREAKER_MAX_FAILURES" envDefault:"5"`
	BreakerOpenTimeout time.Duration `env:"BREAKER_OPEN_TIMEOUT" envDefault:"30s"`
}

// SessionConfig holds session token settings
type SessionConfig struct {
	AccessKey string        `env:"ACCESS_KEY"`
	TTL       time.Duration `env:"SESSION_TTL" envDefault:"5h"`
	Issuer    string        `env:"SESSION_ISSUER" envDefault:"job-portal"`
}

// RedisConfig holds the optional Redis connection used for idempotency keys
type RedisConfig struct {
	URL string `env:"REDIS_URL"`
}

// RateLimitConfig holds per-client rate limiting settings
type RateLimitConfig struct {
	RPS   float64 `env:"RPS" envDefault:"10"`
	Burst int     `env:"BURST" envDefault:"20"`
}

// IdempotencyConfig holds Idempotency-Key retention settings
type IdempotencyConfig struct {
	TTL time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"24h"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT"`
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("load .env file: %w", err)
		}
	}

	return Parse()
}

// Parse reads configuration from environment variables only.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.sanitize()
	return &cfg, nil
}

// sanitize normalizes values that env parsing leaves loose.
func (c *Config) sanitize() {
	// NODE_ENV is honored so existing deployment manifests keep working.
	if c.Server.Env == "" {
		c.Server.Env = strings.ToLower(strings.TrimSpace(os.Getenv("NODE_ENV")))
	}
	if c.Server.Env == "" {
		c.Server.Env = "development"
	}

	origins := c.Server.AllowedOrigins[:0]
	for _, o := range c.Server.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	c.Server.AllowedOrigins = origins

	c.Log.Level = strings.ToLower(c.Log.Level)
	if c.Log.Format == "" {
		if c.IsProduction() {
			c.Log.Format = "json"
		} else {
			c.Log.Format = "text"
		}
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Validate checks that all required configuration values are present and valid.
// It returns an error describing all validation failures, or nil if valid.
func (c *Config) Validate() error {
	var errs []error

	// Server validation
	if c.Server.Port == "" {
		errs = append(errs, errors.New("PORT is required"))
	}
	if !slices.Contains([]string{"development", "production", "test"}, c.Server.Env) {
		errs = append(errs, fmt.Errorf("APP_ENV must be 'development', 'production', or 'test', got '%s'", c.Server.Env))
	}
	if len(c.Server.AllowedOrigins) == 0 {
		errs = append(errs, errors.New("CORS_ALLOWED_ORIGINS must have at least one origin"))
	}

	// Database validation
	if c.Database.Host == "" {
		errs = append(errs, errors.New("DB_HOST is required"))
	}
	if c.Database.Port == "" {
		errs = append(errs, errors.New("DB_PORT is required"))
	}
	if c.Database.Namespace == "" {
		errs = append(errs, errors.New("DB_NAMESPACE is required"))
	}
	if c.Database.Database == "" {
		errs = append(errs, errors.New("DB_DATABASE is required"))
	}
	if c.Database.BreakerMaxFailures == 0 {
		errs = append(errs, errors.New("DB_BREAKER_MAX_FAILURES must be positive"))
	}

	// Session validation - the key is critical in production
	if c.Session.AccessKey == "" {
		errs = append(errs, errors.New("ACCESS_KEY is required"))
	} else if c.IsProduction() && len(c.Session.AccessKey) < minProductionKeyLen {
		errs = append(errs, fmt.Errorf("ACCESS_KEY must be at least %d bytes in production", minProductionKeyLen))
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}

	// Rate limit validation
	if c.RateLimit.RPS <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_RPS must be positive"))
	}
	if c.RateLimit.Burst <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_BURST must be positive"))
	}

	if c.Idempotency.TTL <= 0 {
		errs = append(errs, errors.New("IDEMPOTENCY_TTL must be positive"))
	}

	if !slices.Contains([]string{"debug", "info", "warn", "error"}, c.Log.Level) {
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error, got '%s'", c.Log.Level))
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be 'json' or 'text', got '%s'", c.Log.Format))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
