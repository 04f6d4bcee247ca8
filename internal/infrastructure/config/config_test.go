package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setAuthEnv(t *testing.T) {
	t.Setenv("AUTH_ISSUER", "https://coffee.example.auth0.com/")
	t.Setenv("AUTH_AUDIENCE", "drinks")
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T)
		wantErr bool
	}{
		{
			name:    "valid config",
			setup:   setAuthEnv,
			wantErr: false,
		},
		{
			name: "missing issuer",
			setup: func(t *testing.T) {
				t.Setenv("AUTH_ISSUER", "")
				t.Setenv("AUTH_AUDIENCE", "drinks")
			},
			wantErr: true,
		},
		{
			name: "missing audience",
			setup: func(t *testing.T) {
				t.Setenv("AUTH_ISSUER", "https://coffee.example.auth0.com/")
				t.Setenv("AUTH_AUDIENCE", "")
			},
			wantErr: true,
		},
		{
			name: "invalid db port",
			setup: func(t *testing.T) {
				setAuthEnv(t)
				t.Setenv("DB_PORT", "invalid")
			},
			wantErr: true,
		},
		{
			name: "invalid server port",
			setup: func(t *testing.T) {
				setAuthEnv(t)
				t.Setenv("PORT", "70000")
			},
			wantErr: true,
		},
		{
			name: "invalid jwks timeout",
			setup: func(t *testing.T) {
				setAuthEnv(t)
				t.Setenv("AUTH_JWKS_FETCH_TIMEOUT", "invalid")
			},
			wantErr: true,
		},
		{
			name: "symmetric algorithm rejected",
			setup: func(t *testing.T) {
				setAuthEnv(t)
				t.Setenv("AUTH_ALGORITHMS", "HS256")
			},
			wantErr: true,
		},
		{
			name: "zero cache ttl",
			setup: func(t *testing.T) {
				setAuthEnv(t)
				t.Setenv("AUTH_JWKS_CACHE_TTL", "0s")
			},
			wantErr: true,
		},
		{
			name: "negative min refresh interval",
			setup: func(t *testing.T) {
				setAuthEnv(t)
				t.Setenv("AUTH_JWKS_MIN_REFRESH_INTERVAL", "-5s")
			},
			wantErr: true,
		},
		{
			name: "zero min refresh interval",
			setup: func(t *testing.T) {
				setAuthEnv(t)
				t.Setenv("AUTH_JWKS_MIN_REFRESH_INTERVAL", "0s")
			},
			wantErr: true,
		},
		{
			name: "max stale shorter than ttl",
			setup: func(t *testing.T) {
				setAuthEnv(t)
				t.Setenv("AUTH_JWKS_CACHE_TTL", "2h")
				t.Setenv("AUTH_JWKS_MAX_STALE", "1h")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup(t)

			cfg, err := LoadConfig()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, cfg)
		})
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	setAuthEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, 5432, cfg.DBPort)
	assert.Equal(t, []string{"RS256"}, cfg.Auth.Algorithms)
	assert.Equal(t, "https://coffee.example.auth0.com/.well-known/jwks.json", cfg.Auth.JWKSURL)
	assert.Equal(t, 5*time.Second, cfg.Auth.JWKSFetchTimeout)
	assert.Equal(t, 10*time.Minute, cfg.Auth.JWKSCacheTTL)
	assert.Equal(t, 30*time.Second, cfg.Auth.JWKSMinRefreshInterval)
	assert.Equal(t, time.Hour, cfg.Auth.JWKSMaxStale)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.DBResetOnStart)
}

func TestLoadConfig_Overrides(t *testing.T) {
	setAuthEnv(t)
	t.Setenv("AUTH_ALGORITHMS", "RS256,ES256")
	t.Setenv("AUTH_JWKS_URL", "https://keys.example.com/jwks")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:4200,https://coffee.example.com")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, []string{"RS256", "ES256"}, cfg.Auth.Algorithms)
	assert.Equal(t, "https://keys.example.com/jwks", cfg.Auth.JWKSURL)
	assert.Equal(t, []string{"http://localhost:4200", "https://coffee.example.com"}, cfg.CORSAllowedOrigins)
}

func TestConfig_DatabaseURL(t *testing.T) {
	cfg := &Config{
		DBHost:     "db",
		DBPort:     5433,
		DBUser:     "barista",
		DBPassword: "p@ss",
		DBName:     "coffeeshop",
		DBSSLMode:  "disable",
	}

	assert.Equal(t, "postgres://barista:p%40ss@db:5433/coffeeshop?sslmode=disable", cfg.DatabaseURL())
}
