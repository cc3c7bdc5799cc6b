package redis

import (
	"context"
	"fmt"
	"time"

	"pocat/pkg/redis"
)

// RateLimiter allows at most limit events per subject in a fixed window.
// A limit of zero disables it.
type RateLimiter struct {
	client *redis.Client
	prefix string
	limit  int
	window time.Duration
}

func NewRateLimiter(client *redis.Client, prefix string, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, prefix: prefix, limit: limit, window: window}
}

// Allow records one event for subject and reports whether it fits the
// window.
func (l *RateLimiter) Allow(ctx context.Context, subject string) (bool, error) {
	const operation = "redis.RateLimiter.Allow"

	if l.limit <= 0 {
		return true, nil
	}

	key := fmt.Sprintf("ratelimit:%s:%s", l.prefix, subject)
	n, err := l.client.IncrWindow(ctx, key, l.window)
	if err != nil {
		return false, fmt.Errorf("%s: %w", operation, err)
	}
	return n <= int64(l.limit), nil
}
