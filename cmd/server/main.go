package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aryan0dhankhar/wattbill/internal/handler"
	"github.com/aryan0dhankhar/wattbill/internal/infrastructure/logger"
	"github.com/aryan0dhankhar/wattbill/internal/infrastructure/redis"
	"github.com/aryan0dhankhar/wattbill/internal/observability/tracing"
	"github.com/aryan0dhankhar/wattbill/internal/reliability/circuitbreaker"
	"github.com/aryan0dhankhar/wattbill/internal/reliability/retry"
	"github.com/aryan0dhankhar/wattbill/internal/repository"
	"github.com/aryan0dhankhar/wattbill/internal/security/auth"
	"github.com/aryan0dhankhar/wattbill/internal/security/ratelimit"
	"github.com/aryan0dhankhar/wattbill/internal/service"
	"github.com/aryan0dhankhar/wattbill/pkg/config"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize structured logger
	log := logger.NewLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)
	log.Info("starting wattbill server",
		slog.String("environment", cfg.Environment),
		slog.String("store", cfg.StoreBackend),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Tracing (no-op without an OTLP endpoint)
	shutdownTracing, err := tracing.Init(ctx, log, tracing.Config{
		Endpoint:    cfg.OTLPEndpoint,
		ServiceName: "wattbill",
		Environment: cfg.Environment,
		SampleRatio: cfg.TraceSampleRatio,
	})
	if err != nil {
		log.Error("failed to initialize tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	connectRetry := retry.DefaultConfig()
	connectRetry.MaxAttempts = cfg.StoreConnectAttempts

	// 4. Open the store once for the life of the process
	stores, err := repository.OpenStores(ctx, repository.StoreConfig{
		Backend:       repository.Backend(cfg.StoreBackend),
		MongoURI:      cfg.MongoURI,
		MongoDatabase: cfg.MongoDatabase,
		PostgresDSN:   cfg.PostgresDSN,
		Retry:         connectRetry,
	}, log)
	if err != nil {
		log.Error("failed to open store", slog.String("error", err.Error()))
		os.Exit(1)
	}

	readyChecks := map[string]handler.Check{"store": stores.Ping}

	// 5. Auth rate limiter: Redis when configured (with in-process fallback), in-process otherwise
	var (
		authLimiter  ratelimit.Allower
		redisClient  *redis.Client
		localLimiter *ratelimit.Limiter
	)
	if cfg.AuthRateLimit > 0 {
		if cfg.RedisURL != "" {
			redisClient, err = retry.Do(ctx, connectRetry, log, "redis connect", func(ctx context.Context) (*redis.Client, error) {
				return redis.NewClient(ctx, cfg.RedisURL)
			})
			if err != nil {
				log.Error("failed to connect to Redis", slog.String("error", err.Error()))
				os.Exit(1)
			}
			readyChecks["redis"] = redisClient.Ping
			localLimiter = ratelimit.NewLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow)
			authLimiter = ratelimit.NewFallbackLimiter(
				ratelimit.NewRedisLimiter(redisClient, "wattbill:auth", cfg.AuthRateLimit, cfg.AuthRateWindow),
				localLimiter,
				circuitbreaker.New(5, 1, 30*time.Second),
				log,
			)
		} else {
			localLimiter = ratelimit.NewLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow)
			authLimiter = localLimiter
		}
	}

	// 6. Initialize services
	tokenManager := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(stores.Users, tokenManager, log)
	billService := service.NewBillService(stores.Bills, log)
	dashboardService := service.NewDashboardService(stores.Bills, log)

	// 7. Setup HTTP routes
	rootHandler := handler.NewRouter(handler.RouterConfig{
		Auth:               authService,
		Bills:              billService,
		Dashboard:          dashboardService,
		Estimator:          service.NewEstimator(),
		AuthLimiter:        authLimiter,
		ReadyChecks:        readyChecks,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		StaticDir:          cfg.StaticDir,
		Logger:             log,
	})

	// 8. Start HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      rootHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("server starting",
		slog.Int("port", cfg.ServerPort),
		slog.Int("auth_rate_limit", cfg.AuthRateLimit),
		slog.Duration("auth_rate_window", cfg.AuthRateWindow),
		slog.Bool("redis_limiter", redisClient != nil),
		slog.Bool("static_ui", cfg.StaticDir != ""),
	)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case <-sigChan:
		log.Info("shutdown signal received")
	case err := <-serverErr:
		log.Error("server error", slog.String("error", err.Error()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", slog.String("error", err.Error()))
	}

	if localLimiter != nil {
		localLimiter.Stop()
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Warn("failed to close redis", slog.String("error", err.Error()))
		}
	}
	if err := stores.Close(shutdownCtx); err != nil {
		log.Warn("failed to close store", slog.String("error", err.Error()))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn("failed to flush traces", slog.String("error", err.Error()))
	}
	cancel()
	log.Info("server stopped")
}
