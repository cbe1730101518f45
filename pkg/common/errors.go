package common

import "errors"

// Error taxonomy for the resolution and aggregation pipeline. Callers match
// with errors.Is; everything else wraps one of these with fmt.Errorf and %w.
var (
	// ErrInvalidQuery means the caller's query text was empty after trimming.
	// Fail fast, never retried.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrProviderUnavailable means an external call failed for transient,
	// infrastructural reasons. The caller may retry with backoff; this core
	// never retries it internally.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrVenueNotFound means the provider does not know the given place ID.
	// Terminal for that identifier.
	ErrVenueNotFound = errors.New("venue not found")

	// ErrExtractionFailed means the text-understanding call for a single
	// review errored. It never crosses the aggregation boundary: the pipeline
	// logs it and treats the review as contributing no mentions.
	ErrExtractionFailed = errors.New("extraction failed")
)
