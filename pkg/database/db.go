package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/lib/pq"
)

// Pool defaults used when Config leaves a limit at zero
const (
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 5 * time.Minute
	pingTimeout            = 5 * time.Second
	healthTimeout          = 3 * time.Second
)

// Config holds database configuration
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// ConnectionPool is the PostgreSQL pool behind the relational bill store
type ConnectionPool struct {
	db *sql.DB
}

// NewConnectionPool opens a PostgreSQL pool and verifies it with a ping.
// DSN may be a postgres:// URL or a key=value connection string.
func NewConnectionPool(ctx context.Context, config *Config, logger *slog.Logger) (*ConnectionPool, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if config == nil || config.DSN == "" {
		return nil, fmt.Errorf("database dsn is required")
	}

	connector, err := pq.NewConnector(config.DSN)
	if err != nil {
		return nil, fmt.Errorf("invalid postgres dsn: %w", err)
	}
	db := sql.OpenDB(connector)
	applyPoolLimits(db, config)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	host, name := dsnTarget(config.DSN)
	logger.Info("postgres connected",
		slog.String("host", host),
		slog.String("database", name),
		slog.Int("max_open_conns", db.Stats().MaxOpenConnections),
	)
	return &ConnectionPool{db: db}, nil
}

func applyPoolLimits(db *sql.DB, config *Config) {
	maxOpen, maxIdle, lifetime := config.MaxOpenConns, config.MaxIdleConns, config.ConnMaxLifetime
	if maxOpen <= 0 {
		maxOpen = defaultMaxOpenConns
	}
	if maxIdle <= 0 {
		maxIdle = defaultMaxIdleConns
	}
	if lifetime <= 0 {
		lifetime = defaultConnMaxLifetime
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(lifetime)
}

// dsnTarget extracts host and database name for logging. Credentials are
// never returned.
func dsnTarget(dsn string) (host, name string) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return "", ""
		}
		return u.Host, strings.TrimPrefix(u.Path, "/")
	}
	for _, field := range strings.Fields(dsn) {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			continue
		}
		value = strings.Trim(value, "'")
		switch key {
		case "host":
			host = value
		case "dbname":
			name = value
		}
	}
	return host, name
}

// GetDB returns the underlying sql.DB connection
func (cp *ConnectionPool) GetDB() *sql.DB {
	return cp.db
}

func (cp *ConnectionPool) Close() error {
	if cp.db != nil {
		return cp.db.Close()
	}
	return nil
}

// Health pings with a short timeout; used by /readyz through the store
func (cp *ConnectionPool) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()
	return cp.db.PingContext(ctx)
}
