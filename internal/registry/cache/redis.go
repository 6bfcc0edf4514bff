// Package cache provides the optional redis-backed current-CID cache. The
// store stays authoritative; the cache only accelerates the hot read path
// (generation tooling polling current CIDs).
package cache

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"easel/internal/platform/redis"
)

const keyPrefix = "easel:cid:"

// RedisCIDCache stores each attribute's current CID under easel:cid:<id>.
// Entries have no TTL: the registry write-through keeps them fresh, and a
// stale read after a cache flush falls back to the store.
type RedisCIDCache struct {
	client *redis.Client
}

func NewRedisCIDCache(client *redis.Client) *RedisCIDCache {
	return &RedisCIDCache{client: client}
}

func key(attributeID int) string {
	return fmt.Sprintf("%s%d", keyPrefix, attributeID)
}

func (c *RedisCIDCache) Get(ctx context.Context, attributeID int) (string, bool, error) {
	cid, err := c.client.Get(ctx, key(attributeID)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cid cache get: %w", err)
	}
	return cid, true, nil
}

func (c *RedisCIDCache) Set(ctx context.Context, attributeID int, cid string) error {
	if err := c.client.Set(ctx, key(attributeID), cid, 0).Err(); err != nil {
		return fmt.Errorf("cid cache set: %w", err)
	}
	return nil
}
