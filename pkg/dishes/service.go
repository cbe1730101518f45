// Package dishes implements the venue-resolution and popular-items pipeline:
// resolve a free-text query to venue candidates, fetch a venue's review
// corpus, extract per-review item mentions, and merge them into a ranked,
// cached popular-items list.
package dishes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dishradar/internal/util"
	"dishradar/pkg/common"
	"dishradar/pkg/logger"
	"dishradar/pkg/store"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/sync/errgroup"
)

// VenueSearcher is the search-provider capability pair the resolver consumes:
// an exact lookup for well-formed name/location queries and a fuzzy text
// search fallback.
type VenueSearcher interface {
	ExactLookup(ctx context.Context, query string, language string) (common.LookupResult, error)
	FuzzySearch(ctx context.Context, query string, language string) ([]common.Candidate, error)
}

// VenueFetcher retrieves venue metadata plus the review corpus for a
// resolved identifier.
type VenueFetcher interface {
	FetchDetail(ctx context.Context, placeID string) (*common.VenueDetail, error)
}

// MentionExtractor turns one review into zero or more item mentions.
type MentionExtractor interface {
	Extract(ctx context.Context, review common.Review) ([]common.Mention, error)
}

// Service wires resolver, fetcher, extractor, aggregation, and cache into
// the two operations exposed to the API layer.
type Service struct {
	searcher  VenueSearcher
	fetcher   VenueFetcher
	extractor MentionExtractor
	cache     store.ResultCache

	cacheTTL    time.Duration
	parallelMax int
	maxRetries  int
}

// NewServiceParams configures a Service. Zero values fall back to defaults:
// one hour cache TTL, four parallel extraction calls, two attempts per
// review.
type NewServiceParams struct {
	Searcher  VenueSearcher
	Fetcher   VenueFetcher
	Extractor MentionExtractor
	Cache     store.ResultCache

	CacheTTL    time.Duration
	ParallelMax int
	MaxRetries  int
}

// NewService creates a Service with the provided collaborators.
func NewService(params NewServiceParams) *Service {
	cacheTTL := params.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Hour
	}
	parallelMax := params.ParallelMax
	if parallelMax <= 0 {
		parallelMax = 4
	}
	maxRetries := params.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 2
	}

	return &Service{
		searcher:  params.Searcher,
		fetcher:   params.Fetcher,
		extractor: params.Extractor,
		cache:     params.Cache,

		cacheTTL:    cacheTTL,
		parallelMax: parallelMax,
		maxRetries:  maxRetries,
	}
}

// ResolveQuery resolves free-text query to venue candidates. The exact
// lookup runs first; a single unambiguous match returns immediately. No
// match or an ambiguous one falls back to fuzzy search, whose provider
// ranking is preserved. Zero candidates from both stages is an empty, valid
// result.
func (s *Service) ResolveQuery(ctx context.Context, query string, locale string) ([]common.Candidate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query must not be empty: %w", common.ErrInvalidQuery)
	}

	lookup, err := s.searcher.ExactLookup(ctx, query, locale)
	if err != nil {
		return nil, fmt.Errorf("exact lookup: %w", err)
	}

	if lookup.Status == common.LookupFound {
		logger.Debug("[Resolve] Exact match", "query", query, "place_id", lookup.Candidate.PlaceID)
		return []common.Candidate{*lookup.Candidate}, nil
	}

	logger.Debug("[Resolve] Falling back to fuzzy search", "query", query)
	candidates, err := s.searcher.FuzzySearch(ctx, query, locale)
	if err != nil {
		return nil, fmt.Errorf("fuzzy search: %w", err)
	}
	return candidates, nil
}

// GetPopularItems returns the ranked popular-items list for a venue, serving
// from the cache when a live entry exists and running the full
// fetch/extract/aggregate pass otherwise.
func (s *Service) GetPopularItems(ctx context.Context, placeID string) (*common.AggregationResult, error) {
	cached, err := s.cache.Get(ctx, placeID)
	if err != nil {
		logger.Warn("[Pipeline] Cache read failed, recomputing", "place_id", placeID, "err", err)
	}
	if cached != nil {
		logger.Debug("[Pipeline] Cache hit", "place_id", placeID)
		return cached, nil
	}

	detail, err := s.fetcher.FetchDetail(ctx, placeID)
	if err != nil {
		return nil, fmt.Errorf("fetch detail: %w", err)
	}

	return s.computeAndCache(ctx, detail)
}

// GetVenue returns the venue snapshot together with its popular items. The
// detail fetch happens exactly once; cached aggregations are reused.
func (s *Service) GetVenue(ctx context.Context, placeID string) (*common.VenueDetail, *common.AggregationResult, error) {
	detail, err := s.fetcher.FetchDetail(ctx, placeID)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch detail: %w", err)
	}

	cached, err := s.cache.Get(ctx, placeID)
	if err != nil {
		logger.Warn("[Pipeline] Cache read failed, recomputing", "place_id", placeID, "err", err)
	}
	if cached != nil {
		return detail, cached, nil
	}

	result, err := s.computeAndCache(ctx, detail)
	if err != nil {
		return nil, nil, err
	}
	return detail, result, nil
}

// Refresh recomputes the popular-items list for a venue regardless of any
// cached entry and stores the fresh result.
func (s *Service) Refresh(ctx context.Context, placeID string) (*common.AggregationResult, error) {
	detail, err := s.fetcher.FetchDetail(ctx, placeID)
	if err != nil {
		return nil, fmt.Errorf("fetch detail: %w", err)
	}
	return s.computeAndCache(ctx, detail)
}

// computeAndCache runs extraction and aggregation over the venue's reviews
// and stores the result. The put only happens after a complete aggregation
// pass; a canceled context aborts before anything is written.
func (s *Service) computeAndCache(ctx context.Context, detail *common.VenueDetail) (*common.AggregationResult, error) {
	mentions, err := s.extractMentions(ctx, detail.Reviews)
	if err != nil {
		return nil, err
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate aggregation ID: %w", err)
	}

	result := &common.AggregationResult{
		ID:          id,
		PlaceID:     detail.PlaceID,
		Items:       Aggregate(mentions),
		ReviewCount: len(detail.Reviews),
		ComputedAt:  time.Now().UTC(),
	}

	if err := s.cache.Put(ctx, detail.PlaceID, result, s.cacheTTL); err != nil {
		// A broken cache bounds cost poorly but never wrongly; serve the
		// computed result anyway.
		logger.Warn("[Pipeline] Cache write failed", "place_id", detail.PlaceID, "err", err)
	}

	logger.Info("[Pipeline] Aggregation computed",
		"place_id", detail.PlaceID,
		"reviews", len(detail.Reviews),
		"items", len(result.Items),
	)
	return result, nil
}

// extractMentions fans the per-review extraction calls out over a bounded
// worker group and collects results indexed by review position, so the
// mention sequence fed to aggregation is the review order no matter which
// call finishes first. A failed review contributes nothing and never cancels
// its siblings; only context cancellation aborts the batch.
func (s *Service) extractMentions(ctx context.Context, reviews []common.Review) ([]common.Mention, error) {
	perReview := make([][]common.Mention, len(reviews))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelMax)
	for i, review := range reviews {
		g.Go(func() error {
			if gCtx.Err() != nil {
				return gCtx.Err()
			}

			mentions, err := util.RetryWithContext(gCtx, s.maxRetries, func(ctx context.Context) ([]common.Mention, error) {
				return s.extractor.Extract(ctx, review)
			})
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				logger.Warn("[Pipeline] Extraction failed for review, continuing without it",
					"review_id", review.ID, "err", err)
				return nil
			}

			perReview[i] = mentions
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var mentions []common.Mention
	for _, m := range perReview {
		mentions = append(mentions, m...)
	}
	return mentions, nil
}
