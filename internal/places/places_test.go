// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

package places

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/wwte/internal/config"
	"github.com/tomtom215/wwte/internal/geo"
	"github.com/tomtom215/wwte/internal/logging"
	"github.com/tomtom215/wwte/internal/models"
	"github.com/tomtom215/wwte/internal/recommend"
)

var _ recommend.Searcher = (*Client)(nil)

const testAPIKey = "AIzaTestKey-0123456789"

var testOrigin = geo.Coordinate{Latitude: 25.0330, Longitude: 121.5654}

// fakePlaces is a scripted Places web service.
type fakePlaces struct {
	t *testing.T

	mu          sync.Mutex
	pages       map[string]nearbyResponse // keyed by pagetoken, "" for the first page
	pageCode    map[string]int            // optional HTTP status override per page
	details     map[string]detailsResponse
	detailsCode int // optional HTTP status for every details call

	nearbyQueries  []url.Values
	detailsQueries []url.Values
}

func newFakePlaces(t *testing.T) *fakePlaces {
	return &fakePlaces{
		t:        t,
		pages:    map[string]nearbyResponse{},
		pageCode: map[string]int{},
		details:  map[string]detailsResponse{},
	}
}

func (f *fakePlaces) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("key") != testAPIKey {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.URL.Path {
	case "/" + endpointNearby:
		f.nearbyQueries = append(f.nearbyQueries, q)
		token := q.Get("pagetoken")
		if code, ok := f.pageCode[token]; ok {
			w.WriteHeader(code)
			return
		}
		resp, ok := f.pages[token]
		if !ok {
			resp = nearbyResponse{Status: StatusInvalidRequest}
		}
		writeJSON(w, resp)
	case "/" + endpointDetails:
		f.detailsQueries = append(f.detailsQueries, q)
		if f.detailsCode != 0 {
			w.WriteHeader(f.detailsCode)
			return
		}
		resp, ok := f.details[q.Get("place_id")]
		if !ok {
			resp = detailsResponse{Status: StatusOK, Result: &Details{
				FormattedPhoneNumber: "02-1234-" + q.Get("place_id"),
				FormattedAddress:     "Full address of " + q.Get("place_id"),
				Website:              "https://example.com/" + q.Get("place_id"),
			}}
		}
		writeJSON(w, resp)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakePlaces) nearbyCalls() []url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]url.Values(nil), f.nearbyQueries...)
}

func (f *fakePlaces) detailsCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.detailsQueries)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func ptrF(v float64) *float64 { return &v }

// result builds a nearby result; rating/reviews < 0 means "absent".
func result(id string, rating float64, reviews int) placeResult {
	r := placeResult{
		PlaceID:  id,
		Name:     "Restaurant " + id,
		Vicinity: "Vicinity of " + id,
		Types:    []string{"restaurant", "food"},
		Geometry: geometry{Location: latLng{Lat: 25.0340, Lng: 121.5664}},
	}
	if rating >= 0 {
		r.Rating = ptrF(rating)
	}
	if reviews >= 0 {
		r.UserRatingsTotal = models.IntPtr(reviews)
	}
	return r
}

func goodResults(prefix string, n int) []placeResult {
	out := make([]placeResult, n)
	for i := range out {
		out[i] = result(fmt.Sprintf("%s%02d", prefix, i), 4.5, 200)
	}
	return out
}

// recordedWaits captures page-delay and backoff waits without sleeping.
type recordedWaits struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (r *recordedWaits) wait(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	r.waits = append(r.waits, d)
	r.mu.Unlock()
	return ctx.Err()
}

func (r *recordedWaits) all() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Duration(nil), r.waits...)
}

func testConfig(baseURL string) *config.PlacesConfig {
	return &config.PlacesConfig{
		APIKey:            testAPIKey,
		BaseURL:           baseURL,
		Language:          "zh-TW",
		MaxPages:          3,
		TargetCount:       20,
		PageDelay:         1500 * time.Millisecond,
		RequestTimeout:    5 * time.Second,
		MaxRetries:        2,
		RetryBaseDelay:    time.Millisecond,
		DetailConcurrency: 4,
		PhotoMaxWidth:     800,
	}
}

func newTestClient(t *testing.T, cfg *config.PlacesConfig) (*Client, *recordedWaits) {
	t.Helper()
	waits := &recordedWaits{}
	c, err := NewClient(cfg, WithWaitFunc(waits.wait), WithLogger(logging.Nop()))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return c, waits
}

func startFake(t *testing.T) (*fakePlaces, *httptest.Server) {
	t.Helper()
	fake := newFakePlaces(t)
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	return fake, srv
}
