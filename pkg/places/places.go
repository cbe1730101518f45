// Package places wraps the legacy Google Places web service endpoints used
// for venue lookup: Find Place from Text for exact matching, Text Search for
// fuzzy matching, and Place Details for metadata plus the review corpus.
//
// The legacy endpoints still work with plain API keys, which keeps the
// integration to simple GET requests.
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"dishradar/pkg/common"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api"

const (
	statusOK          = "OK"
	statusZeroResults = "ZERO_RESULTS"
	statusNotFound    = "NOT_FOUND"
	statusInvalid     = "INVALID_REQUEST"
)

// detailFields is the field mask requested from Place Details. Reviews come
// back capped by the provider; the cap is theirs, not ours.
const detailFields = "place_id,name,rating,user_ratings_total,price_level,formatted_address," +
	"formatted_phone_number,opening_hours,website,photos,geometry,types,reviews"

const findPlaceFields = "place_id,name,formatted_address,rating,user_ratings_total," +
	"price_level,types,geometry,photos,business_status"

// Client calls the Places web service. It is safe for concurrent use.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClientParams configures a places Client. BaseURL is only overridden in
// tests; HTTPClient defaults to a 10 second timeout.
type NewClientParams struct {
	ApiKey     string
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
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// ExactLookup treats the query as a specific name/location pair and asks the
// Find Place from Text endpoint for a single match. The outcome is sum-typed:
// found with exactly one candidate, not found, or ambiguous.
func (c *Client) ExactLookup(ctx context.Context, query string, language string) (common.LookupResult, error) {
	params := url.Values{}
	params.Set("input", query)
	params.Set("inputtype", "textquery")
	params.Set("fields", findPlaceFields)
	if language != "" {
		params.Set("language", language)
	}

	var resp findPlaceResponse
	if err := c.getJSON(ctx, "/place/findplacefromtext/json", params, &resp); err != nil {
		return common.LookupResult{}, err
	}

	switch resp.Status {
	case statusOK:
		if len(resp.Candidates) == 1 {
			candidate := resp.Candidates[0].toCandidate()
			return common.LookupResult{Status: common.LookupFound, Candidate: &candidate}, nil
		}
		return common.LookupResult{Status: common.LookupAmbiguous}, nil
	case statusZeroResults:
		return common.LookupResult{Status: common.LookupNotFound}, nil
	default:
		return common.LookupResult{}, fmt.Errorf("find place status %s: %w", resp.Status, common.ErrProviderUnavailable)
	}
}

// FuzzySearch runs a broad Text Search and returns the provider's candidates
// in the provider's ranking order. Zero results is not an error.
func (c *Client) FuzzySearch(ctx context.Context, query string, language string) ([]common.Candidate, error) {
	params := url.Values{}
	params.Set("query", query)
	if language != "" {
		params.Set("language", language)
	}

	var resp textSearchResponse
	if err := c.getJSON(ctx, "/place/textsearch/json", params, &resp); err != nil {
		return nil, err
	}

	switch resp.Status {
	case statusOK, statusZeroResults:
		candidates := make([]common.Candidate, 0, len(resp.Results))
		for _, r := range resp.Results {
			candidates = append(candidates, r.toCandidate())
		}
		return candidates, nil
	default:
		return nil, fmt.Errorf("text search status %s: %w", resp.Status, common.ErrProviderUnavailable)
	}
}

// FetchDetail retrieves venue metadata and the review corpus for a place ID.
// A stale or unknown ID surfaces as common.ErrVenueNotFound.
func (c *Client) FetchDetail(ctx context.Context, placeID string) (*common.VenueDetail, error) {
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", detailFields)

	var resp detailResponse
	if err := c.getJSON(ctx, "/place/details/json", params, &resp); err != nil {
		return nil, err
	}

	switch resp.Status {
	case statusOK:
		detail := resp.Result.toDetail(c)
		return &detail, nil
	case statusNotFound, statusInvalid, statusZeroResults:
		return nil, fmt.Errorf("place %s: %w", placeID, common.ErrVenueNotFound)
	default:
		return nil, fmt.Errorf("place details status %s: %w", resp.Status, common.ErrProviderUnavailable)
	}
}

// PhotoURL builds the public URL for a photo reference returned by the
// provider.
func (c *Client) PhotoURL(photoReference string, maxWidth int) string {
	return fmt.Sprintf(
		"%s/place/photo?maxwidth=%d&photoreference=%s&key=%s",
		c.baseURL, maxWidth, url.QueryEscape(photoReference), url.QueryEscape(c.apiKey),
	)
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("places request failed: %v: %w", err, common.ErrProviderUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("places request returned HTTP %d: %w", resp.StatusCode, common.ErrProviderUnavailable)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("places response decode failed: %v: %w", err, common.ErrProviderUnavailable)
	}
	return nil
}
