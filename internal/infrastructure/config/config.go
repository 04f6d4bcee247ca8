package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Environment controls logger flavour
	Environment string `env:"ENVIRONMENT" envDefault:"development"`

	// Server configuration
	ServerPort         int      `env:"PORT" envDefault:"8080"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	// Database configuration
	DBHost         string `env:"DB_HOST" envDefault:"localhost"`
	DBPort         int    `env:"DB_PORT" envDefault:"5432"`
	DBUser         string `env:"DB_USER" envDefault:"postgres"`
	DBPassword     string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName         string `env:"DB_NAME" envDefault:"coffeeshop"`
	DBSSLMode      string `env:"DB_SSLMODE" envDefault:"disable"`
	DBResetOnStart bool   `env:"DB_RESET_ON_START" envDefault:"false"`
	MigrationsPath string `env:"MIGRATIONS_PATH" envDefault:"migrations"`

	// Auth configuration
	Auth AuthConfig
}

// AuthConfig describes the trusted token issuer
type AuthConfig struct {
	// Issuer is the issuer base URL, e.g. https://tenant.auth0.com/
	Issuer     string   `env:"AUTH_ISSUER"`
	Audience   string   `env:"AUTH_AUDIENCE"`
	Algorithms []string `env:"AUTH_ALGORITHMS" envSeparator:"," envDefault:"RS256"`
	// JWKSURL defaults to <issuer>.well-known/jwks.json
	JWKSURL string `env:"AUTH_JWKS_URL"`

	JWKSFetchTimeout       time.Duration `env:"AUTH_JWKS_FETCH_TIMEOUT" envDefault:"5s"`
	JWKSCacheTTL           time.Duration `env:"AUTH_JWKS_CACHE_TTL" envDefault:"10m"`
	JWKSMinRefreshInterval time.Duration `env:"AUTH_JWKS_MIN_REFRESH_INTERVAL" envDefault:"30s"`
	JWKSMaxStale           time.Duration `env:"AUTH_JWKS_MAX_STALE" envDefault:"1h"`
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env from project root
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration and fills derived values
func (c *Config) Validate() error {
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("invalid PORT %d", c.ServerPort)
	}
	if c.DBPort <= 0 || c.DBPort > 65535 {
		return fmt.Errorf("invalid DB_PORT %d", c.DBPort)
	}
	return c.Auth.Validate()
}

// Validate checks the issuer settings and derives the JWKS URL
func (a *AuthConfig) Validate() error {
	if a.Issuer == "" {
		return errors.New("AUTH_ISSUER is required")
	}
	if a.Audience == "" {
		return errors.New("AUTH_AUDIENCE is required")
	}
	if len(a.Algorithms) == 0 {
		return errors.New("AUTH_ALGORITHMS must name at least one algorithm")
	}
	for _, alg := range a.Algorithms {
		if strings.HasPrefix(alg, "HS") || alg == "none" {
			return fmt.Errorf("algorithm %q cannot be verified with a public key set", alg)
		}
	}

	issuer, err := url.Parse(a.Issuer)
	if err != nil || issuer.Scheme == "" || issuer.Host == "" {
		return fmt.Errorf("invalid AUTH_ISSUER %q", a.Issuer)
	}

	if a.JWKSURL == "" {
		a.JWKSURL = strings.TrimSuffix(a.Issuer, "/") + "/.well-known/jwks.json"
	}
	if a.JWKSFetchTimeout <= 0 {
		return errors.New("AUTH_JWKS_FETCH_TIMEOUT must be positive")
	}
	if a.JWKSCacheTTL <= 0 {
		return errors.New("AUTH_JWKS_CACHE_TTL must be positive")
	}
	if a.JWKSMinRefreshInterval <= 0 {
		return errors.New("AUTH_JWKS_MIN_REFRESH_INTERVAL must be positive")
	}
	if a.JWKSMaxStale < a.JWKSCacheTTL {
		return errors.New("AUTH_JWKS_MAX_STALE must not be shorter than AUTH_JWKS_CACHE_TTL")
	}
	return nil
}

// DatabaseURL returns the postgres connection URL used by pgx and migrate
func (c *Config) DatabaseURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     fmt.Sprintf("%s:%d", c.DBHost, c.DBPort),
		Path:     c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.DBSSLMode),
	}
	return u.String()
}
