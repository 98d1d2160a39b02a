package ratelimit

import (
	"context"
	"log/slog"

	"github.com/aryan0dhankhar/wattbill/internal/reliability/circuitbreaker"
)

// FallbackLimiter uses primary while it is healthy and switches to fallback
// once the breaker opens, so an outage of the shared counter store keeps
// per-instance limits instead of dropping them.
type FallbackLimiter struct {
	primary  Allower
	fallback Allower
	breaker  *circuitbreaker.Breaker
}

func NewFallbackLimiter(primary, fallback Allower, breaker *circuitbreaker.Breaker, log *slog.Logger) *FallbackLimiter {
	if log == nil {
		log = slog.Default()
	}
	breaker.OnStateChange(func(from, to circuitbreaker.State) {
		log.Warn("rate limiter breaker state changed",
			slog.String("from", from.String()),
			slog.String("to", to.String()),
		)
	})
	return &FallbackLimiter{primary: primary, fallback: fallback, breaker: breaker}
}

// Allow never returns a primary error; those are absorbed by the breaker.
func (l *FallbackLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if !l.breaker.Allow() {
		return l.fallback.Allow(ctx, key)
	}
	ok, err := l.primary.Allow(ctx, key)
	if err != nil {
		l.breaker.Failure()
		return l.fallback.Allow(ctx, key)
	}
	l.breaker.Success()
	return ok, nil
}
