package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultMaxFailures = 10
	defaultWindow      = 15 * time.Minute
)

// LoginLimiter tracks failed login attempts in Redis, keyed by normalized
// email plus client IP. Once the failure count for a key reaches the limit,
// further attempts are refused until the window expires.
// Key format: login_fail:<email>:<ip>
type LoginLimiter struct {
	client      *redis.Client
	maxFailures int
	window      time.Duration
}

// NewLoginLimiter creates a LoginLimiter wrapping the given Redis client.
// Non-positive limits fall back to the defaults.
func NewLoginLimiter(client *redis.Client, maxFailures int, window time.Duration) *LoginLimiter {
	if maxFailures <= 0 {
		maxFailures = defaultMaxFailures
	}
	if window <= 0 {
		window = defaultWindow
	}
	return &LoginLimiter{client: client, maxFailures: maxFailures, window: window}
}

// TooManyAttempts reports whether the key has reached the failure limit.
func (l *LoginLimiter) TooManyAttempts(ctx context.Context, email, ip string) (bool, error) {
	n, err := l.client.Get(ctx, l.key(email, ip)).Int()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("login limiter check: %w", err)
	}
	return n >= l.maxFailures, nil
}

// RecordFailure increments the failure counter and refreshes its expiry.
func (l *LoginLimiter) RecordFailure(ctx context.Context, email, ip string) error {
	key := l.key(email, ip)
	pipe := l.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("login limiter record: %w", err)
	}
	return nil
}

// Reset clears the counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, email, ip string) error {
	return l.client.Del(ctx, l.key(email, ip)).Err()
}

func (l *LoginLimiter) key(email, ip string) string {
	return fmt.Sprintf("login_fail:%s:%s", email, ip)
}
