// Package redis provides the Redis connection shared by the login throttle
// and the generation status cache.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultTimeout  = 5 * time.Second
	defaultPoolSize = 10
)

// Config holds the connection settings. Password is optional; leave it empty
// for unauthenticated local instances.
type Config struct {
	Addr     string
	Password string
	DB       int
	Timeout  time.Duration
	// PoolSize bounds concurrent connections. Both consumers of this client
	// issue short single-key commands, so a small pool is enough.
	PoolSize int
}

// Connect builds a Redis client and verifies it with a ping before returning,
// so a bad address or password fails at startup rather than on the first
// login attempt.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = defaultPoolSize
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: poolSize,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}
