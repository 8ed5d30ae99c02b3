package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/anonto42/newsfeed/backend/internal/models"
	"github.com/redis/go-redis/v9"
)

const keyTrendingFmt = "trending:%s:%dh:%d"

// TrendingCache stores ranked trending lists
type TrendingCache interface {
	Get(ctx context.Context, key string) ([]models.ContentItem, bool, error)
	Set(ctx context.Context, key string, items []models.ContentItem, ttl time.Duration) error
}

// TrendingKey builds the cache key for one trending query. An empty kind means every kind.
func TrendingKey(kind models.ContentKind, windowHours, limit int) string {
	k := string(kind)
	if k == "" {
		k = "all"
	}
	return fmt.Sprintf(keyTrendingFmt, k, windowHours, limit)
}

type redisTrendingCache struct {
	rdb *redis.Client
}

// NewRedisTrendingCache creates a TrendingCache backed by rdb
func NewRedisTrendingCache(rdb *redis.Client) TrendingCache {
	return &redisTrendingCache{rdb: rdb}
}

// Get reads a cached ranking; ok is false on a miss
func (c *redisTrendingCache) Get(ctx context.Context, key string) ([]models.ContentItem, bool, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var items []models.ContentItem
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, false, fmt.Errorf("decode trending cache %s: %w", key, err)
	}
	return items, true, nil
}

// Set stores a ranking under key for ttl
func (c *redisTrendingCache) Set(ctx context.Context, key string, items []models.ContentItem, ttl time.Duration) error {
	b, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, ttl).Err()
}
