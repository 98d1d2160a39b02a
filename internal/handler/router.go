package handler

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/aryan0dhankhar/wattbill/internal/observability/metrics"
	"github.com/aryan0dhankhar/wattbill/internal/security/audit"
	"github.com/aryan0dhankhar/wattbill/internal/security/middleware"
	"github.com/aryan0dhankhar/wattbill/internal/security/ratelimit"
	"github.com/aryan0dhankhar/wattbill/internal/service"
)

// RouterConfig wires services into the HTTP surface
type RouterConfig struct {
	Auth      *service.AuthService
	Bills     *service.BillService
	Dashboard *service.DashboardService
	Estimator *service.Estimator

	// AuthLimiter limits signup and login per client IP. Nil disables it.
	AuthLimiter ratelimit.Allower
	// ReadyChecks are pinged by /readyz
	ReadyChecks map[string]Check

	CORSAllowedOrigins []string
	StaticDir          string
	Logger             *slog.Logger
}

// NewRouter builds the complete handler chain
func NewRouter(cfg RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	auditLogger := audit.NewLogger(log)

	authHandler := NewAuthHandler(cfg.Auth, log)
	billHandler := NewBillHandler(cfg.Bills, log)
	dashboardHandler := NewDashboardHandler(cfg.Dashboard, log)
	estimateHandler := NewEstimateHandler(cfg.Estimator)
	healthHandler := NewHealthHandler(cfg.ReadyChecks, log)

	limited := func(h http.HandlerFunc) http.Handler {
		if cfg.AuthLimiter == nil {
			return h
		}
		return middleware.RateLimit(cfg.AuthLimiter, log)(h)
	}
	protected := middleware.RequireAuth(cfg.Auth, auditLogger)

	mux := http.NewServeMux()
	mux.Handle("POST /api/signup", limited(authHandler.Signup))
	mux.Handle("POST /api/login", limited(authHandler.Login))
	mux.Handle("POST /api/estimate", estimateHandler)

	mux.Handle("GET /api/bills", protected(http.HandlerFunc(billHandler.List)))
	mux.Handle("POST /api/bills", protected(http.HandlerFunc(billHandler.Create)))
	mux.Handle("PATCH /api/bills/{id}", protected(http.HandlerFunc(billHandler.Update)))
	mux.Handle("DELETE /api/bills/{id}", protected(http.HandlerFunc(billHandler.Delete)))
	mux.Handle("GET /api/dashboard", protected(dashboardHandler))

	mux.HandleFunc("GET /healthz", healthHandler.Health)
	mux.HandleFunc("GET /readyz", healthHandler.Ready)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("/", newFallbackHandler(cfg.StaticDir))

	// request id -> logging -> metrics -> content type -> recover -> routes
	var h http.Handler = mux
	h = middleware.Recover(log)(h)
	h = middleware.ValidateJSONContentType(log)(h)
	h = metrics.HTTPMetricsMiddleware(h)
	h = middleware.Logging(log)(h)
	h = middleware.RequestID(h)

	origins := cfg.CORSAllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	h = cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	}).Handler(h)

	return otelhttp.NewHandler(h, "wattbill")
}
