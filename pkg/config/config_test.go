package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE_BACKEND", "memory")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.ServerPort)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "memory", cfg.StoreBackend)
	assert.Equal(t, "wattbill", cfg.MongoDatabase)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 20, cfg.AuthRateLimit)
	assert.Equal(t, 1.0, cfg.TraceSampleRatio)
	assert.Equal(t, time.Minute, cfg.AuthRateWindow)
	assert.Equal(t, 5, cfg.StoreConnectAttempts)
	assert.False(t, cfg.IsProduction())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("SERVER_PORT", "8081")
	t.Setenv("STORE_BACKEND", "postgres")
	t.Setenv("POSTGRES_DSN", "postgres://localhost/wattbill?sslmode=disable")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("ENVIRONMENT", "production")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.ServerPort)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.IsProduction())
}

func TestFromEnvRejectsBadNumber(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("SERVER_PORT", "abc")

	_, err := FromEnv()
	assert.Error(t, err)
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := &Config{
		ServerPort:           0,
		TokenTTL:             time.Hour,
		StoreBackend:         "mongo",
		StoreConnectAttempts: 1,
		LogFormat:            "xml",
		TraceSampleRatio:     2,
	}

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "SERVER_PORT")
	assert.Contains(t, msg, "JWT_SECRET is required")
	assert.Contains(t, msg, "MONGODB_URI")
	assert.Contains(t, msg, "LOG_FORMAT")
	assert.Contains(t, msg, "OTEL_TRACES_SAMPLER_ARG")
}

func TestValidateUnknownBackend(t *testing.T) {
	cfg := &Config{
		ServerPort:           5000,
		JWTSecret:            "x",
		TokenTTL:             time.Hour,
		StoreBackend:         "sqlite",
		StoreConnectAttempts: 1,
		LogFormat:            "json",
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE_BACKEND")
}
