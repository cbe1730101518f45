// Package yelp wraps the Yelp Fusion API as an alternative venue provider:
// Business Search for lookup and Business Details plus Business Reviews for
// metadata and the review corpus.
//
// Fusion has no single-match endpoint and every search needs a location, so
// the client carries a configured default location and treats a one-result
// search as an exact hit. The reviews endpoint returns at most three reviews
// per business; the cap is the provider's.
package yelp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"dishradar/pkg/common"
)

const defaultBaseURL = "https://api.yelp.com/v3"

const (
	exactSearchLimit = 2
	fuzzySearchLimit = 5
	reviewLimit      = 3
)

// Client calls the Yelp Fusion API. It is safe for concurrent use.
type Client struct {
	apiKey     string
	location   string
	baseURL    string
	httpClient *http.Client
}

// NewClientParams configures a yelp Client. Location is the search area sent
// with every business search; BaseURL is only overridden in tests; HTTPClient
// defaults to a 10 second timeout.
type NewClientParams struct {
	ApiKey     string
	Location   string
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a Client with the provided parameters.
func NewClient(params NewClientParams) *Client {
	baseURL := params.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := params.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		apiKey:     params.ApiKey,
		location:   params.Location,
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// ExactLookup searches for the query and maps the result count onto the
// lookup outcomes: one business is found, none is not found, more than one
// is ambiguous.
func (c *Client) ExactLookup(ctx context.Context, query string, language string) (common.LookupResult, error) {
	businesses, err := c.search(ctx, query, language, exactSearchLimit)
	if err != nil {
		return common.LookupResult{}, err
	}

	switch len(businesses) {
	case 0:
		return common.LookupResult{Status: common.LookupNotFound}, nil
	case 1:
		candidate := businesses[0].toCandidate()
		return common.LookupResult{Status: common.LookupFound, Candidate: &candidate}, nil
	default:
		return common.LookupResult{Status: common.LookupAmbiguous}, nil
	}
}

// FuzzySearch runs a broad business search and returns the provider's
// candidates in the provider's ranking order. Zero results is not an error.
func (c *Client) FuzzySearch(ctx context.Context, query string, language string) ([]common.Candidate, error) {
	businesses, err := c.search(ctx, query, language, fuzzySearchLimit)
	if err != nil {
		return nil, err
	}

	candidates := make([]common.Candidate, 0, len(businesses))
	for _, b := range businesses {
		candidates = append(candidates, b.toCandidate())
	}
	return candidates, nil
}

// FetchDetail retrieves business metadata and the review corpus for a
// business ID. An unknown ID surfaces as common.ErrVenueNotFound. A missing
// reviews endpoint is non-fatal; the detail comes back with no reviews.
func (c *Client) FetchDetail(ctx context.Context, placeID string) (*common.VenueDetail, error) {
	var business businessDetail
	err := c.getJSON(ctx, "/businesses/"+url.PathEscape(placeID), nil, &business)
	if err != nil {
		return nil, err
	}

	detail := business.toDetail()

	params := url.Values{}
	params.Set("limit", fmt.Sprint(reviewLimit))

	var reviews reviewsResponse
	err = c.getJSON(ctx, "/businesses/"+url.PathEscape(placeID)+"/reviews", params, &reviews)
	switch {
	case err == nil:
		for _, r := range reviews.Reviews {
			detail.Reviews = append(detail.Reviews, r.toReview())
		}
	case errors.Is(err, common.ErrVenueNotFound):
		// Reviews need extra API permissions for some businesses.
	default:
		return nil, err
	}

	return &detail, nil
}

func (c *Client) search(ctx context.Context, query string, language string, limit int) ([]business, error) {
	params := url.Values{}
	params.Set("term", query)
	params.Set("location", c.location)
	params.Set("limit", fmt.Sprint(limit))
	if language != "" {
		params.Set("locale", language)
	}

	var resp searchResponse
	if err := c.getJSON(ctx, "/businesses/search", params, &resp); err != nil {
		return nil, err
	}
	return resp.Businesses, nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("yelp request failed: %v: %w", err, common.ErrProviderUnavailable)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("yelp resource %s: %w", path, common.ErrVenueNotFound)
	default:
		return fmt.Errorf("yelp request returned HTTP %d: %w", resp.StatusCode, common.ErrProviderUnavailable)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("yelp response decode failed: %v: %w", err, common.ErrProviderUnavailable)
	}
	return nil
}
