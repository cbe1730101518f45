package places

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
		wantErr    error
	}{
		{
			name: "single candidate is found",
			body: `{"status":"OK","candidates":[
				{"place_id":"p1","name":"Sun Nong Dan","formatted_address":"3463 W 6th St","rating":4.5}
			]}`,
			wantStatus: common.LookupFound,
		},
		{
			name: "multiple candidates are ambiguous",
			body: `{"status":"OK","candidates":[
				{"place_id":"p1","name":"Tofu House"},
				{"place_id":"p2","name":"BCD Tofu House"}
			]}`,
			wantStatus: common.LookupAmbiguous,
		},
		{
			name:       "zero results is not found",
			body:       `{"status":"ZERO_RESULTS","candidates":[]}`,
			wantStatus: common.LookupNotFound,
		},
		{
			name:    "quota exceeded is a provider fault",
			body:    `{"status":"OVER_QUERY_LIMIT","candidates":[]}`,
			wantErr: common.ErrProviderUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/place/findplacefromtext/json" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				if got := r.URL.Query().Get("input"); got != "some query" {
					t.Errorf("expected input param, got %q", got)
				}
				if r.URL.Query().Get("key") != "test-key" {
					t.Error("api key missing from request")
				}
				w.Write([]byte(tt.body))
			})
			defer server.Close()

			result, err := client.ExactLookup(context.Background(), "some query", "")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Status != tt.wantStatus {
				t.Fatalf("expected status %v, got %v", tt.wantStatus, result.Status)
			}
			if tt.wantStatus == common.LookupFound {
				if result.Candidate == nil || result.Candidate.PlaceID != "p1" {
					t.Fatalf("expected candidate p1, got %+v", result.Candidate)
				}
			} else if result.Candidate != nil {
				t.Fatalf("non-found outcomes must carry no candidate, got %+v", result.Candidate)
			}
		})
	}
}

func TestFuzzySearch_PreservesProviderOrder(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/place/textsearch/json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"status":"OK","results":[
			{"place_id":"p3","name":"Third Best"},
			{"place_id":"p1","name":"First Best"},
			{"place_id":"p2","name":"Second Best"}
		]}`))
	})
	defer server.Close()

	candidates, err := client.FuzzySearch(context.Background(), "tofu house", "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"p3", "p1", "p2"}
	if len(candidates) != len(want) {
		t.Fatalf("expected %d candidates, got %d", len(want), len(candidates))
	}
	for i, id := range want {
		if candidates[i].PlaceID != id {
			t.Fatalf("candidate %d: expected %s, got %s", i, id, candidates[i].PlaceID)
		}
	}
}

func TestFuzzySearch_ZeroResultsIsEmptyNotError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"status":"ZERO_RESULTS","results":[]}`))
	})
	defer server.Close()

	candidates, err := client.FuzzySearch(context.Background(), "nowhere", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 0 {
		t.Fatalf("expected no candidates, got %+v", candidates)
	}
}

func TestFetchDetail(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/place/details/json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("place_id"); got != "p1" {
			t.Errorf("expected place_id p1, got %q", got)
		}
		w.Write([]byte(`{"status":"OK","result":{
			"place_id":"p1",
			"name":"BCD Tofu House",
			"formatted_address":"3575 Wilshire Blvd",
			"rating":4.3,
			"price_level":2,
			"photos":[{"photo_reference":"ref-1","width":800,"height":600}],
			"reviews":[
				{"author_name":"A","rating":5,"text":"soondubu was incredible","time":1700000000},
				{"author_name":"B","rating":4,"text":"good soondubu","time":1700001000}
			]
		}}`))
	})
	defer server.Close()

	detail, err := client.FetchDetail(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.Name != "BCD Tofu House" {
		t.Fatalf("expected name, got %q", detail.Name)
	}
	if detail.Rating == nil || *detail.Rating != 4.3 {
		t.Fatalf("expected rating 4.3, got %v", detail.Rating)
	}
	if len(detail.Reviews) != 2 {
		t.Fatalf("expected 2 reviews, got %d", len(detail.Reviews))
	}
	if detail.Reviews[0].ID != "p1:0" || detail.Reviews[1].ID != "p1:1" {
		t.Fatalf("review IDs must be stable within a snapshot, got %s / %s",
			detail.Reviews[0].ID, detail.Reviews[1].ID)
	}
	if len(detail.PhotoURLs) != 1 {
		t.Fatalf("expected 1 photo URL, got %d", len(detail.PhotoURLs))
	}
}

func TestFetchDetail_NotFoundStatuses(t *testing.T) {
	for _, status := range []string{"NOT_FOUND", "INVALID_REQUEST", "ZERO_RESULTS"} {
		t.Run(status, func(t *testing.T) {
			client, server := newTestClient(func(w http.ResponseWriter, _ *http.Request) {
				w.Write([]byte(`{"status":"` + status + `","result":{}}`))
			})
			defer server.Close()

			_, err := client.FetchDetail(context.Background(), "stale-id")
			if !errors.Is(err, common.ErrVenueNotFound) {
				t.Fatalf("expected ErrVenueNotFound for %s, got %v", status, err)
			}
		})
	}
}

func TestGetJSON_HTTPErrorIsProviderFault(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	defer server.Close()

	_, err := client.FetchDetail(context.Background(), "p1")
	if !errors.Is(err, common.ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestGetJSON_CancellationPassesThrough(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchDetail(ctx, "p1")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
