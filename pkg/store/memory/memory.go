// Package memory provides the in-process ResultCache backend used for
// single-instance deployments and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"dishradar/pkg/common"
)

type entry struct {
	result    *common.AggregationResult
	expiresAt time.Time
}

// ResultCache is a mutex-guarded map with per-entry expiry. Expired entries
// are dropped lazily on read; Sweep removes them eagerly.
type ResultCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// NewResultCache creates an empty in-memory cache.
func NewResultCache() *ResultCache {
	return &ResultCache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the cached aggregation for venueID, or nil if none exists or
// the entry has expired.
func (c *ResultCache) Get(_ context.Context, venueID string) (*common.AggregationResult, error) {
	c.mu.RLock()
	e, ok := c.entries[venueID]
	c.mu.RUnlock()

	if !ok || !c.now().Before(e.expiresAt) {
		return nil, nil
	}
	return e.result, nil
}

// Put stores result under venueID for ttl, replacing any existing entry.
// A non-positive ttl stores an entry that is already expired.
func (c *ResultCache) Put(_ context.Context, venueID string, result *common.AggregationResult, ttl time.Duration) error {
	c.mu.Lock()
	c.entries[venueID] = entry{
		result:    result,
		expiresAt: c.now().Add(ttl),
	}
	c.mu.Unlock()
	return nil
}

// Sweep removes all expired entries and reports how many were dropped.
func (c *ResultCache) Sweep(_ context.Context) (int64, error) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	var removed int64
	for id, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, id)
			removed++
		}
	}
	return removed, nil
}
