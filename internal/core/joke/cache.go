// Copyright (c) 2026 Punchline. All rights reserved.

package joke

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/punchline-app/punchline/internal/platform/constants"
)

// # Volatile Data Access

// RecentCache is the volatile read-through cache for the shared list view.
//
// A cache miss is (nil, nil); only transport failures produce an error.
// The service treats every cache error as a miss — the cache can never make
// a read fail.
type RecentCache interface {
	Get(ctx context.Context) ([]ListItem, error)
	Set(ctx context.Context, items []ListItem) error
	Invalidate(ctx context.Context) error
}

// recentJokesTTL bounds staleness when an invalidation is lost.
const recentJokesTTL = 1 * time.Minute

// recentJokesKey is the single cache key for the shared list.
const recentJokesKey = constants.RedisPrefixRecentJokes + "v1"

// RedisRecentCache implements [RecentCache] on Redis, storing the list as a
// single JSON blob with a short TTL.
type RedisRecentCache struct {
	client *redis.Client
}

// NewRecentCache creates a Redis-backed [RecentCache].
func NewRecentCache(client *redis.Client) *RedisRecentCache {
	return &RedisRecentCache{client: client}
}

// Get returns the cached list, or (nil, nil) on a miss.
func (cache *RedisRecentCache) Get(ctx context.Context) ([]ListItem, error) {
	payload, err := cache.client.Get(ctx, recentJokesKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis_recent_cache_get_failed: %w", err)
	}

	var items []ListItem
	if err := json.Unmarshal(payload, &items); err != nil {
		// A corrupt entry is a miss; it will be overwritten on the next Set.
		return nil, nil
	}

	return items, nil
}

// Set stores the list with the cache TTL.
func (cache *RedisRecentCache) Set(ctx context.Context, items []ListItem) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("redis_recent_cache_marshal_failed: %w", err)
	}

	if err := cache.client.Set(ctx, recentJokesKey, payload, recentJokesTTL).Err(); err != nil {
		return fmt.Errorf("redis_recent_cache_set_failed: %w", err)
	}

	return nil
}

// Invalidate drops the cached list after a create or delete.
func (cache *RedisRecentCache) Invalidate(ctx context.Context) error {
	if err := cache.client.Del(ctx, recentJokesKey).Err(); err != nil {
		return fmt.Errorf("redis_recent_cache_invalidate_failed: %w", err)
	}
	return nil
}
