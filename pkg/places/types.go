package places

import (
	"fmt"
	"time"

	"dishradar/pkg/common"
)

// Wire shapes for the legacy Places endpoints. Only the fields the pipeline
// consumes are decoded.

type findPlaceResponse struct {
	Candidates []placeResult `json:"candidates"`
	Status     string        `json:"status"`
}

type textSearchResponse struct {
	Results []placeResult `json:"results"`
	Status  string        `json:"status"`
}

type detailResponse struct {
	Result placeDetailResult `json:"result"`
	Status string            `json:"status"`
}

type placeResult struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formatted_address"`
	Rating           *float64 `json:"rating"`
	PriceLevel       *int     `json:"price_level"`
	Types            []string `json:"types"`
}

type placePhoto struct {
	PhotoReference string `json:"photo_reference"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
}

type placeReview struct {
	AuthorName string  `json:"author_name"`
	Rating     float64 `json:"rating"`
	Text       string  `json:"text"`
	Time       int64   `json:"time"`
}

type placeDetailResult struct {
	PlaceID          string        `json:"place_id"`
	Name             string        `json:"name"`
	FormattedAddress string        `json:"formatted_address"`
	Phone            string        `json:"formatted_phone_number"`
	Website          string        `json:"website"`
	Rating           *float64      `json:"rating"`
	PriceLevel       *int          `json:"price_level"`
	Types            []string      `json:"types"`
	Photos           []placePhoto  `json:"photos"`
	Reviews          []placeReview `json:"reviews"`
}

func (r placeResult) toCandidate() common.Candidate {
	return common.Candidate{
		PlaceID:   r.PlaceID,
		Name:      r.Name,
		Address:   r.FormattedAddress,
		Rating:    r.Rating,
		PriceTier: r.PriceLevel,
		Types:     r.Types,
	}
}

func (r placeDetailResult) toDetail(c *Client) common.VenueDetail {
	detail := common.VenueDetail{
		PlaceID:   r.PlaceID,
		Name:      r.Name,
		Address:   r.FormattedAddress,
		Phone:     r.Phone,
		Website:   r.Website,
		Rating:    r.Rating,
		PriceTier: r.PriceLevel,
		Types:     r.Types,
		Reviews:   make([]common.Review, 0, len(r.Reviews)),
	}

	for _, p := range r.Photos {
		detail.PhotoURLs = append(detail.PhotoURLs, c.PhotoURL(p.PhotoReference, 400))
	}

	// The provider does not assign review IDs; the place ID plus position is
	// stable within one detail snapshot, which is all aggregation needs.
	for i, rev := range r.Reviews {
		detail.Reviews = append(detail.Reviews, common.Review{
			ID:         fmt.Sprintf("%s:%d", r.PlaceID, i),
			AuthorName: rev.AuthorName,
			Rating:     rev.Rating,
			Text:       rev.Text,
			Time:       time.Unix(rev.Time, 0).UTC(),
		})
	}

	return detail
}
