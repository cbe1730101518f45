// Package redis provides the Redis-backed ResultCache used when multiple
// instances share one cache.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"dishradar/pkg/common"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "dishradar:popular:"

// ResultCache stores aggregation results as JSON values with native Redis
// expiry, so lazy eviction is handled by the server itself.
type ResultCache struct {
	client *redis.Client
}

// NewResultCache creates a cache on top of an existing Redis client.
func NewResultCache(client *redis.Client) *ResultCache {
	return &ResultCache{client: client}
}

// Get returns the cached aggregation for venueID, or nil on miss. Redis
// drops expired keys itself, so an expired entry reads as a plain miss.
func (c *ResultCache) Get(ctx context.Context, venueID string) (*common.AggregationResult, error) {
	payload, err := c.client.Get(ctx, keyPrefix+venueID).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get %s: %w", venueID, err)
	}

	var result common.AggregationResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("cache entry %s corrupt: %w", venueID, err)
	}
	return &result, nil
}

// Put stores result under venueID for ttl, replacing any existing entry. A
// non-positive ttl deletes the key instead: Redis treats zero expiry as
// "never expires", which is the opposite of what an already-expired entry
// means.
func (c *ResultCache) Put(ctx context.Context, venueID string, result *common.AggregationResult, ttl time.Duration) error {
	if ttl <= 0 {
		if err := c.client.Del(ctx, keyPrefix+venueID).Err(); err != nil {
			return fmt.Errorf("cache delete %s: %w", venueID, err)
		}
		return nil
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("cache marshal %s: %w", venueID, err)
	}

	if err := c.client.Set(ctx, keyPrefix+venueID, payload, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", venueID, err)
	}
	return nil
}
