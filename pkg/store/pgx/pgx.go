// Package pgx provides the Postgres-backed ResultCache. It is the backend of
// choice when cache entries should survive process restarts.
package pgx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"dishradar/pkg/common"

	"github.com/golang-migrate/migrate/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// ResultCache stores aggregation results as JSONB rows with an explicit
// expires_at column. Expired rows read as misses; Sweep deletes them.
type ResultCache struct {
	pool *pgxpool.Pool
}

// NewResultCacheParams configures the Postgres cache backend. MigrationsURL
// defaults to file://migrations relative to the working directory.
type NewResultCacheParams struct {
	DatabaseURL   string
	MigrationsURL string
}

// NewResultCache connects to Postgres, applies pending migrations, and
// returns the cache backend.
func NewResultCache(ctx context.Context, params NewResultCacheParams) (*ResultCache, error) {
	migrationsURL := params.MigrationsURL
	if migrationsURL == "" {
		migrationsURL = "file://migrations"
	}

	m, err := migrate.New(migrationsURL, params.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("migrate setup failed: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return nil, fmt.Errorf("migrate up failed: %w", err)
	}

	pool, err := pgxpool.New(ctx, params.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres connect failed: %w", err)
	}

	return &ResultCache{pool: pool}, nil
}

// Close releases the connection pool.
func (c *ResultCache) Close() {
	c.pool.Close()
}

// Get returns the cached aggregation for venueID, or nil when no row exists
// or the row has expired.
func (c *ResultCache) Get(ctx context.Context, venueID string) (*common.AggregationResult, error) {
	var payload []byte
	err := c.pool.QueryRow(ctx, `
		SELECT payload
		FROM popular_items_cache
		WHERE venue_id = $1 AND expires_at > now()`,
		venueID,
	).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get %s: %w", venueID, err)
	}

	var result common.AggregationResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("cache entry %s corrupt: %w", venueID, err)
	}
	return &result, nil
}

// Put upserts the row for venueID. The upsert is a single statement, so a
// concurrent reader sees either the previous row or the new one.
func (c *ResultCache) Put(ctx context.Context, venueID string, result *common.AggregationResult, ttl time.Duration) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("cache marshal %s: %w", venueID, err)
	}

	_, err = c.pool.Exec(ctx, `
		INSERT INTO popular_items_cache (venue_id, payload, computed_at, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (venue_id) DO UPDATE
		SET payload = EXCLUDED.payload,
		    computed_at = EXCLUDED.computed_at,
		    expires_at = EXCLUDED.expires_at`,
		venueID, payload, result.ComputedAt, time.Now().UTC().Add(ttl),
	)
	if err != nil {
		return fmt.Errorf("cache put %s: %w", venueID, err)
	}
	return nil
}

// Sweep deletes expired rows and reports how many were removed.
func (c *ResultCache) Sweep(ctx context.Context) (int64, error) {
	tag, err := c.pool.Exec(ctx, `DELETE FROM popular_items_cache WHERE expires_at <= now()`)
	if err != nil {
		return 0, fmt.Errorf("cache sweep: %w", err)
	}
	return tag.RowsAffected(), nil
}
