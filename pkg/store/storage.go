package store

import (
	"context"
	"time"

	"dishradar/pkg/common"
)

// ResultCache is a time-bounded cache mapping a venue identifier to its most
// recently computed aggregation.
//
// Get returns (nil, nil) both when no entry exists and when an existing
// entry has expired; an expired entry is never surfaced as a hit. Put
// replaces any existing entry wholesale and must be atomic: a concurrent
// reader observes either the old entry or the new one, never a mix.
type ResultCache interface {
	Get(ctx context.Context, venueID string) (*common.AggregationResult, error)
	Put(ctx context.Context, venueID string, result *common.AggregationResult, ttl time.Duration) error
}

// Sweeper is implemented by backends that support eager removal of expired
// entries. Sweeping is an optimization only; every backend already treats
// expired entries as absent on read.
type Sweeper interface {
	Sweep(ctx context.Context) (int64, error)
}
