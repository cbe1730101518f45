package common

import "time"

// Candidate is one venue returned by the search provider for a free-text
// query. The caller picks exactly one candidate and feeds its PlaceID into
// the detail fetch.
type Candidate struct {
	PlaceID   string   `json:"place_id"`
	Name      string   `json:"name"`
	Address   string   `json:"address"`
	Rating    *float64 `json:"rating,omitempty"`
	Types     []string `json:"types,omitempty"`
	PriceTier *int     `json:"price_tier,omitempty"`
}

// Review is one user-submitted review embedded in a venue detail response.
// Reviews are never mutated after fetch.
type Review struct {
	ID         string    `json:"id"`
	AuthorName string    `json:"author_name"`
	Rating     float64   `json:"rating"`
	Text       string    `json:"text"`
	Time       time.Time `json:"time"`
}

// VenueDetail is an immutable snapshot of provider state for a single venue,
// including whatever review corpus the provider was willing to return.
type VenueDetail struct {
	PlaceID   string   `json:"place_id"`
	Name      string   `json:"name"`
	Address   string   `json:"address"`
	Phone     string   `json:"phone,omitempty"`
	Website   string   `json:"website,omitempty"`
	Rating    *float64 `json:"rating,omitempty"`
	PriceTier *int     `json:"price_tier,omitempty"`
	Types     []string `json:"types,omitempty"`
	PhotoURLs []string `json:"photo_urls,omitempty"`
	Reviews   []Review `json:"reviews"`
}

// Mention is one item reference extracted from one review. Mentions are
// transient: they exist only between extraction and aggregation.
type Mention struct {
	ItemName  string  `json:"item_name"`
	Sentiment float64 `json:"sentiment"`
	ReviewID  string  `json:"review_id"`
	Quote     string  `json:"quote"`
}

// PopularItem is a deduplicated, ranked item built from one or more mentions.
// MentionCount always equals the number of mentions folded into the item and
// AvgSentiment is their arithmetic mean.
type PopularItem struct {
	Name         string   `json:"name"`
	MentionCount int      `json:"mention_count"`
	AvgSentiment float64  `json:"avg_sentiment"`
	SampleQuotes []string `json:"sample_quotes"`
}

// AggregationResult is the ranked popular-items list for one venue. Once
// stored in the cache it is treated as immutable and only ever replaced
// wholesale.
type AggregationResult struct {
	ID          string        `json:"id"`
	PlaceID     string        `json:"place_id"`
	Items       []PopularItem `json:"items"`
	ReviewCount int           `json:"review_count"`
	ComputedAt  time.Time     `json:"computed_at"`
}

// LookupStatus is the outcome of an exact-lookup call against the search
// provider.
type LookupStatus int

const (
	// LookupFound means the provider returned exactly one unambiguous match.
	LookupFound LookupStatus = iota
	// LookupNotFound means the provider knows no venue for the query.
	LookupNotFound
	// LookupAmbiguous means the provider returned multiple candidates for a
	// query that was supposed to be specific.
	LookupAmbiguous
)

// LookupResult is the sum-typed result of an exact lookup. Candidate is only
// set when Status is LookupFound.
type LookupResult struct {
	Status    LookupStatus
	Candidate *Candidate
}
