package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/draftforge/content-platform/internal/core/domain"
)

const statusTTL = time.Hour

// StatusCache stores the last observed generation snapshot per request id so
// that status polls can be served during backend outages.
// Key format: genstatus:<request_id>
type StatusCache struct {
	client *redis.Client
}

// NewStatusCache creates a StatusCache wrapping the given Redis client.
func NewStatusCache(client *redis.Client) *StatusCache {
	return &StatusCache{client: client}
}

// Get returns the cached snapshot, or domain.ErrGenerationNotFound when no
// snapshot exists for the request id.
func (c *StatusCache) Get(ctx context.Context, requestID string) (*domain.Generation, error) {
	raw, err := c.client.Get(ctx, c.key(requestID)).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrGenerationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("status cache get: %w", err)
	}

	var gen domain.Generation
	if err := json.Unmarshal(raw, &gen); err != nil {
		return nil, fmt.Errorf("status cache decode: %w", err)
	}
	return &gen, nil
}

// Put stores the snapshot with a bounded TTL. Terminal snapshots are kept
// too: they answer polls for requests the backend has already forgotten.
func (c *StatusCache) Put(ctx context.Context, gen *domain.Generation) error {
	raw, err := json.Marshal(gen)
	if err != nil {
		return fmt.Errorf("status cache encode: %w", err)
	}
	return c.client.Set(ctx, c.key(gen.RequestID), raw, statusTTL).Err()
}

func (c *StatusCache) key(requestID string) string {
	return fmt.Sprintf("genstatus:%s", requestID)
}
