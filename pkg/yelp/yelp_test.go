package yelp

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"dishradar/pkg/common"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClient(NewClientParams{
		ApiKey:     "test-key",
		Location:   "Los Angeles, CA",
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
	})
	return client, server
}

func TestExactLookup(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus common.LookupStatus
	}{
		{
			name: "single business is found",
			body: `{"total":1,"businesses":[
				{"id":"b1","name":"Sun Nong Dan","rating":4.5,"price":"$$",
				 "location":{"display_address":["3463 W 6th St","Los Angeles, CA"]}}
			]}`,
			wantStatus: common.LookupFound,
		},
		{
			name: "multiple businesses are ambiguous",
			body: `{"total":2,"businesses":[
				{"id":"b1","name":"Tofu House"},
				{"id":"b2","name":"BCD Tofu House"}
			]}`,
			wantStatus: common.LookupAmbiguous,
		},
		{
			name:       "zero businesses is not found",
			body:       `{"total":0,"businesses":[]}`,
			wantStatus: common.LookupNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/businesses/search" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				if got := r.URL.Query().Get("term"); got != "some query" {
					t.Errorf("expected term param, got %q", got)
				}
				if got := r.URL.Query().Get("location"); got != "Los Angeles, CA" {
					t.Errorf("expected configured location, got %q", got)
				}
				if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
					t.Errorf("expected bearer auth, got %q", got)
				}
				w.Write([]byte(tt.body))
			})
			defer server.Close()

			result, err := client.ExactLookup(context.Background(), "some query", "")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Status != tt.wantStatus {
				t.Fatalf("expected status %v, got %v", tt.wantStatus, result.Status)
			}
			if tt.wantStatus == common.LookupFound {
				if result.Candidate == nil || result.Candidate.PlaceID != "b1" {
					t.Fatalf("expected candidate b1, got %+v", result.Candidate)
				}
				if result.Candidate.PriceTier == nil || *result.Candidate.PriceTier != 2 {
					t.Fatalf("expected price tier 2 for $$, got %v", result.Candidate.PriceTier)
				}
			} else if result.Candidate != nil {
				t.Fatalf("non-found outcomes must carry no candidate, got %+v", result.Candidate)
			}
		})
	}
}

func TestFuzzySearch_PreservesProviderOrder(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"total":3,"businesses":[
			{"id":"b3","name":"Third Best"},
			{"id":"b1","name":"First Best"},
			{"id":"b2","name":"Second Best"}
		]}`))
	})
	defer server.Close()

	candidates, err := client.FuzzySearch(context.Background(), "tofu house", "en_US")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"b3", "b1", "b2"}
	if len(candidates) != len(want) {
		t.Fatalf("expected %d candidates, got %d", len(want), len(candidates))
	}
	for i, id := range want {
		if candidates[i].PlaceID != id {
			t.Fatalf("candidate %d: expected %s, got %s", i, id, candidates[i].PlaceID)
		}
	}
}

func TestFetchDetail(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/businesses/b1":
			w.Write([]byte(`{
				"id":"b1",
				"name":"BCD Tofu House",
				"rating":4.3,
				"price":"$$",
				"display_phone":"(213) 380-3807",
				"url":"https://www.yelp.com/biz/bcd-tofu-house",
				"location":{"display_address":["3575 Wilshire Blvd","Los Angeles, CA"]},
				"categories":[{"alias":"korean","title":"Korean"}],
				"photos":["https://example.com/photo1.jpg"]
			}`))
		case "/businesses/b1/reviews":
			w.Write([]byte(`{"reviews":[
				{"id":"rev-1","rating":5,"text":"soondubu was incredible",
				 "time_created":"2023-11-14 22:13:20","user":{"name":"A"}},
				{"id":"rev-2","rating":4,"text":"good soondubu",
				 "time_created":"2023-11-14 22:30:00","user":{"name":"B"}}
			]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
	defer server.Close()

	detail, err := client.FetchDetail(context.Background(), "b1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.Name != "BCD Tofu House" {
		t.Fatalf("expected name, got %q", detail.Name)
	}
	if detail.Address != "3575 Wilshire Blvd, Los Angeles, CA" {
		t.Fatalf("expected joined display address, got %q", detail.Address)
	}
	if detail.PriceTier == nil || *detail.PriceTier != 2 {
		t.Fatalf("expected price tier 2, got %v", detail.PriceTier)
	}
	if len(detail.Types) != 1 || detail.Types[0] != "korean" {
		t.Fatalf("expected category aliases, got %v", detail.Types)
	}
	if len(detail.Reviews) != 2 {
		t.Fatalf("expected 2 reviews, got %d", len(detail.Reviews))
	}
	if detail.Reviews[0].ID != "rev-1" || detail.Reviews[1].ID != "rev-2" {
		t.Fatalf("expected provider review IDs, got %s / %s",
			detail.Reviews[0].ID, detail.Reviews[1].ID)
	}
	if detail.Reviews[0].Time.IsZero() {
		t.Fatal("expected parsed review time")
	}
}

func TestFetchDetail_ReviewsNotAvailableIsNonFatal(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/businesses/b1":
			w.Write([]byte(`{"id":"b1","name":"BCD Tofu House"}`))
		case "/businesses/b1/reviews":
			w.WriteHeader(http.StatusNotFound)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
	defer server.Close()

	detail, err := client.FetchDetail(context.Background(), "b1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(detail.Reviews) != 0 {
		t.Fatalf("expected no reviews, got %d", len(detail.Reviews))
	}
}

func TestFetchDetail_UnknownBusinessIsNotFound(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	defer server.Close()

	_, err := client.FetchDetail(context.Background(), "stale-id")
	if !errors.Is(err, common.ErrVenueNotFound) {
		t.Fatalf("expected ErrVenueNotFound, got %v", err)
	}
}

func TestGetJSON_HTTPErrorIsProviderFault(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	defer server.Close()

	_, err := client.FuzzySearch(context.Background(), "tofu", "")
	if !errors.Is(err, common.ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}
