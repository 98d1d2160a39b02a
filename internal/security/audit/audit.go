package audit

import (
	"context"
	"log/slog"
	"time"
)

type ctxKey struct{}

// WithRequestID stores the request id for later audit lines.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// RequestID returns the id stored by WithRequestID, or "".
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(ctxKey{}).(string); ok {
		return id
	}
	return ""
}

// Logger writes security events as structured log lines. Nothing is persisted.
type Logger struct {
	logger *slog.Logger
}

func NewLogger(logger *slog.Logger) *Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logger{logger: logger}
}

func (al *Logger) LogAction(ctx context.Context, action, subject, status, details string) {
	al.logger.Info("audit",
		slog.String("action", action),
		slog.String("subject", subject),
		slog.String("status", status),
		slog.String("details", details),
		slog.String("request_id", RequestID(ctx)),
		slog.Time("timestamp", time.Now()),
	)
}

func (al *Logger) LogSignup(ctx context.Context, email, status, details string) {
	al.LogAction(ctx, "signup", email, status, details)
}

func (al *Logger) LogLogin(ctx context.Context, email, status, details string) {
	al.LogAction(ctx, "login", email, status, details)
}

func (al *Logger) LogDenied(ctx context.Context, path, reason string) {
	al.LogAction(ctx, "access_denied", path, "denied", reason)
}
