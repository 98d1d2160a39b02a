package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aryan0dhankhar/wattbill/internal/domain"
	"github.com/aryan0dhankhar/wattbill/internal/infrastructure/mongodb"
	"github.com/aryan0dhankhar/wattbill/internal/reliability/retry"
	"github.com/aryan0dhankhar/wattbill/pkg/database"
)

// Backend names a storage implementation
type Backend string

const (
	MongoBackend    Backend = "mongo"
	PostgresBackend Backend = "postgres"
	MemoryBackend   Backend = "memory"
)

// IsValid reports whether b is a known backend
func (b Backend) IsValid() bool {
	switch b {
	case MongoBackend, PostgresBackend, MemoryBackend:
		return true
	}
	return false
}

// StoreConfig selects and configures the backend
type StoreConfig struct {
	Backend       Backend
	MongoURI      string
	MongoDatabase string
	PostgresDSN   string
	Retry         *retry.Config
}

// Stores bundles the repositories of one backend with its connection lifecycle
type Stores struct {
	Users   domain.UserRepository
	Bills   domain.BillRepository
	Backend Backend

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

// Ping checks the underlying connection
func (s *Stores) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

// Close releases the underlying connection
func (s *Stores) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// OpenStores connects to the configured backend. The connection is opened
// once here and released by Close.
func OpenStores(ctx context.Context, cfg StoreConfig, logger *slog.Logger) (*Stores, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if !cfg.Backend.IsValid() {
		return nil, fmt.Errorf("invalid store backend: %q", cfg.Backend)
	}

	switch cfg.Backend {
	case MongoBackend:
		return openMongo(ctx, cfg, logger)
	case PostgresBackend:
		return openPostgres(ctx, cfg, logger)
	default:
		logger.Warn("using in-memory store, data is lost on restart")
		return &Stores{
			Users:   NewMemoryUserRepository(),
			Bills:   NewMemoryBillRepository(),
			Backend: MemoryBackend,
		}, nil
	}
}

func openMongo(ctx context.Context, cfg StoreConfig, logger *slog.Logger) (*Stores, error) {
	client, err := retry.Do(ctx, cfg.Retry, logger, "mongodb connect", func(ctx context.Context) (*mongodb.Client, error) {
		return mongodb.NewClient(ctx, cfg.MongoURI, cfg.MongoDatabase)
	})
	if err != nil {
		return nil, err
	}

	users := NewMongoUserRepository(client.Database(), logger)
	if err := users.EnsureIndexes(ctx); err != nil {
		_ = client.Close(ctx)
		return nil, err
	}

	logger.Info("mongodb store ready", slog.String("database", cfg.MongoDatabase))
	return &Stores{
		Users:   users,
		Bills:   NewMongoBillRepository(client.Database(), logger),
		Backend: MongoBackend,
		ping:    client.Ping,
		close:   client.Close,
	}, nil
}

func openPostgres(ctx context.Context, cfg StoreConfig, logger *slog.Logger) (*Stores, error) {
	pool, err := retry.Do(ctx, cfg.Retry, logger, "postgres connect", func(ctx context.Context) (*database.ConnectionPool, error) {
		return database.NewConnectionPool(ctx, &database.Config{DSN: cfg.PostgresDSN}, logger)
	})
	if err != nil {
		return nil, err
	}

	if err := RunPostgresMigrations(cfg.PostgresDSN); err != nil {
		_ = pool.Close()
		return nil, err
	}

	logger.Info("postgres store ready")
	return &Stores{
		Users:   NewPostgresUserRepository(pool.GetDB(), logger),
		Bills:   NewPostgresBillRepository(pool.GetDB(), logger),
		Backend: PostgresBackend,
		ping:    pool.Health,
		close:   func(context.Context) error { return pool.Close() },
	}, nil
}
