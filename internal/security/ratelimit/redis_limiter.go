package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/aryan0dhankhar/wattbill/internal/infrastructure/redis"
)

// RedisLimiter is a fixed window limiter shared by every server instance
type RedisLimiter struct {
	client  *redis.Client
	prefix  string
	maxReqs int
	window  time.Duration
}

func NewRedisLimiter(client *redis.Client, prefix string, maxRequests int, window time.Duration) *RedisLimiter {
	if prefix == "" {
		prefix = "wattbill:ratelimit"
	}
	return &RedisLimiter{client: client, prefix: prefix, maxReqs: maxRequests, window: window}
}

// Allow counts the request in the current window. On a Redis error the
// request is allowed and the error returned for logging.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return true, nil
	}
	n, err := l.client.IncrWindow(ctx, fmt.Sprintf("%s:%s", l.prefix, key), l.window)
	if err != nil {
		return true, fmt.Errorf("rate limit counter: %w", err)
	}
	return n <= int64(l.maxReqs), nil
}
