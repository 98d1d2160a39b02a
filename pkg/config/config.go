package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the application configuration
type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	ServerPort  int    `envconfig:"SERVER_PORT" default:"5000"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat   string `envconfig:"LOG_FORMAT" default:"json"`

	JWTSecret string        `envconfig:"JWT_SECRET"`
	TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"24h"`

	StoreBackend         string `envconfig:"STORE_BACKEND" default:"mongo"`
	MongoURI             string `envconfig:"MONGODB_URI"`
	MongoDatabase        string `envconfig:"MONGODB_DATABASE" default:"wattbill"`
	PostgresDSN          string `envconfig:"POSTGRES_DSN"`
	StoreConnectAttempts int    `envconfig:"STORE_CONNECT_ATTEMPTS" default:"5"`

	RedisURL       string        `envconfig:"REDIS_URL"`
	AuthRateLimit  int           `envconfig:"AUTH_RATE_LIMIT" default:"20"`
	AuthRateWindow time.Duration `envconfig:"AUTH_RATE_WINDOW" default:"1m"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	StaticDir          string   `envconfig:"STATIC_DIR"`
	OTLPEndpoint       string   `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	TraceSampleRatio   float64  `envconfig:"OTEL_TRACES_SAMPLER_ARG" default:"1"`
}

// Load reads an optional .env file, then the environment, then validates
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads the environment without touching .env files
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	cfg.CORSAllowedOrigins = trimAll(cfg.CORSAllowedOrigins)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every configuration problem at once
func (c *Config) Validate() error {
	var errs []error

	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		errs = append(errs, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.ServerPort))
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if c.TraceSampleRatio < 0 || c.TraceSampleRatio > 1 {
		errs = append(errs, fmt.Errorf("OTEL_TRACES_SAMPLER_ARG must be between 0 and 1, got %v", c.TraceSampleRatio))
	}

	switch c.StoreBackend {
	case "mongo":
		if c.MongoURI == "" {
			errs = append(errs, errors.New("MONGODB_URI is required for the mongo backend"))
		}
		if c.MongoDatabase == "" {
			errs = append(errs, errors.New("MONGODB_DATABASE is required for the mongo backend"))
		}
	case "postgres":
		if c.PostgresDSN == "" {
			errs = append(errs, errors.New("POSTGRES_DSN is required for the postgres backend"))
		}
	case "memory":
	default:
		errs = append(errs, fmt.Errorf("STORE_BACKEND must be mongo, postgres or memory, got %q", c.StoreBackend))
	}

	if c.StoreConnectAttempts < 1 {
		errs = append(errs, errors.New("STORE_CONNECT_ATTEMPTS must be at least 1"))
	}
	if c.AuthRateLimit < 0 {
		errs = append(errs, errors.New("AUTH_RATE_LIMIT must not be negative"))
	}
	if c.AuthRateLimit > 0 && c.AuthRateWindow <= 0 {
		errs = append(errs, errors.New("AUTH_RATE_WINDOW must be positive when rate limiting is enabled"))
	}

	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat))
	}

	return errors.Join(errs...)
}

// IsProduction reports whether ENVIRONMENT is production
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
