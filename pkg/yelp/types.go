package yelp

import (
	"strings"
	"time"

	"dishradar/pkg/common"
)

// Wire shapes for the Fusion endpoints. Only the fields the pipeline
// consumes are decoded.

type searchResponse struct {
	Businesses []business `json:"businesses"`
	Total      int        `json:"total"`
}

type business struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Rating     *float64   `json:"rating"`
	Price      string     `json:"price"`
	Location   location   `json:"location"`
	Categories []category `json:"categories"`
	ImageURL   string     `json:"image_url"`
}

type businessDetail struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Rating     *float64   `json:"rating"`
	Price      string     `json:"price"`
	Location   location   `json:"location"`
	Categories []category `json:"categories"`
	Phone      string     `json:"display_phone"`
	URL        string     `json:"url"`
	Photos     []string   `json:"photos"`
}

type location struct {
	DisplayAddress []string `json:"display_address"`
}

type category struct {
	Alias string `json:"alias"`
	Title string `json:"title"`
}

type reviewsResponse struct {
	Reviews []review `json:"reviews"`
}

type review struct {
	ID          string  `json:"id"`
	Rating      float64 `json:"rating"`
	Text        string  `json:"text"`
	TimeCreated string  `json:"time_created"`
	User        struct {
		Name string `json:"name"`
	} `json:"user"`
}

// Fusion reports price as a "$".."$$$$" string; tier is its length.
func priceTier(price string) *int {
	if price == "" {
		return nil
	}
	tier := len(price)
	return &tier
}

func categoryAliases(categories []category) []string {
	aliases := make([]string, 0, len(categories))
	for _, c := range categories {
		aliases = append(aliases, c.Alias)
	}
	return aliases
}

func (b business) toCandidate() common.Candidate {
	return common.Candidate{
		PlaceID:   b.ID,
		Name:      b.Name,
		Address:   strings.Join(b.Location.DisplayAddress, ", "),
		Rating:    b.Rating,
		PriceTier: priceTier(b.Price),
		Types:     categoryAliases(b.Categories),
	}
}

func (b businessDetail) toDetail() common.VenueDetail {
	return common.VenueDetail{
		PlaceID:   b.ID,
		Name:      b.Name,
		Address:   strings.Join(b.Location.DisplayAddress, ", "),
		Phone:     b.Phone,
		Website:   b.URL,
		Rating:    b.Rating,
		PriceTier: priceTier(b.Price),
		Types:     categoryAliases(b.Categories),
		PhotoURLs: b.Photos,
	}
}

func (r review) toReview() common.Review {
	created, err := time.Parse("2006-01-02 15:04:05", r.TimeCreated)
	if err != nil {
		created = time.Time{}
	}
	return common.Review{
		ID:         r.ID,
		AuthorName: r.User.Name,
		Rating:     r.Rating,
		Text:       r.Text,
		Time:       created.UTC(),
	}
}
