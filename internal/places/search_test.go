// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

package places

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/wwte/internal/models"
)

func TestSearch_FirstPageQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		filters func(*models.SearchFilters)
		want    map[string]string // "" means the parameter must be absent
	}{
		{
			name:    "defaults",
			filters: func(*models.SearchFilters) {},
			want: map[string]string{
				"location": "25.033,121.5654",
				"radius":   "1000",
				"language": "zh-TW",
				"key":      testAPIKey,
				"opennow":  "true",
				"minprice": "0",
				"maxprice": "3",
				"keyword":  "",
			},
		},
		{
			name: "categories and price subset",
			filters: func(f *models.SearchFilters) {
				f.Categories = []string{"ramen", "sushi"}
				f.PriceLevels = []int{3, 1}
				f.Radius = 2500
			},
			want: map[string]string{
				"radius":   "2500",
				"keyword":  "ramen sushi",
				"minprice": "1",
				"maxprice": "3",
			},
		},
		{
			name: "no open-now no prices",
			filters: func(f *models.SearchFilters) {
				f.OpenNow = false
				f.PriceLevels = nil
			},
			want: map[string]string{
				"opennow":  "",
				"minprice": "",
				"maxprice": "",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fake, srv := startFake(t)
			fake.pages[""] = nearbyResponse{Status: StatusZeroResults}
			client, _ := newTestClient(t, testConfig(srv.URL))

			filters := models.DefaultFilters()
			tt.filters(&filters)

			if _, err := client.Search(context.Background(), testOrigin, filters, nil); err != nil {
				t.Fatalf("Search() error = %v", err)
			}

			calls := fake.nearbyCalls()
			if len(calls) != 1 {
				t.Fatalf("nearby calls = %d, want 1", len(calls))
			}
			for key, want := range tt.want {
				if got := calls[0].Get(key); got != want {
					t.Errorf("query %s = %q, want %q", key, got, want)
				}
			}
		})
	}
}

func TestSearch_PaginatesWithDelay(t *testing.T) {
	t.Parallel()

	fake, srv := startFake(t)
	fake.pages[""] = nearbyResponse{Status: StatusOK, Results: goodResults("a", 5), NextPageToken: "tok1"}
	fake.pages["tok1"] = nearbyResponse{Status: StatusOK, Results: goodResults("b", 5), NextPageToken: "tok2"}
	fake.pages["tok2"] = nearbyResponse{Status: StatusOK, Results: goodResults("c", 5), NextPageToken: "tok3"}

	client, waits := newTestClient(t, testConfig(srv.URL))

	got, err := client.Search(context.Background(), testOrigin, models.DefaultFilters(), nil)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 15 {
		t.Errorf("len(results) = %d, want 15", len(got))
	}

	calls := fake.nearbyCalls()
	if len(calls) != 3 {
		t.Fatalf("nearby calls = %d, want 3 (page cap)", len(calls))
	}
	for i, q := range calls[1:] {
		if len(q) != 2 || q.Get("pagetoken") == "" || q.Get("key") == "" {
			t.Errorf("continuation %d query = %v, want only pagetoken and key", i+1, q)
		}
	}

	wantWaits := []time.Duration{1500 * time.Millisecond, 1500 * time.Millisecond}
	if w := waits.all(); !reflect.DeepEqual(w, wantWaits) {
		t.Errorf("waits = %v, want %v", w, wantWaits)
	}

	// Order follows pages
	if got[0].PlaceID != "a00" || got[5].PlaceID != "b00" || got[14].PlaceID != "c04" {
		t.Errorf("order = %s, %s, %s; want a00, b00, c04", got[0].PlaceID, got[5].PlaceID, got[14].PlaceID)
	}
}

func TestSearch_StopsAtTargetCount(t *testing.T) {
	t.Parallel()

	fake, srv := startFake(t)
	fake.pages[""] = nearbyResponse{Status: StatusOK, Results: goodResults("a", 20), NextPageToken: "tok1"}

	client, waits := newTestClient(t, testConfig(srv.URL))

	got, err := client.Search(context.Background(), testOrigin, models.DefaultFilters(), nil)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 20 {
		t.Errorf("len(results) = %d, want 20", len(got))
	}
	if n := len(fake.nearbyCalls()); n != 1 {
		t.Errorf("nearby calls = %d, want 1", n)
	}
	if n := len(waits.all()); n != 0 {
		t.Errorf("waits = %d, want 0", n)
	}
}

func TestSearch_FiltersCandidates(t *testing.T) {
	t.Parallel()

	fake, srv := startFake(t)
	fake.pages[""] = nearbyResponse{
		Status: StatusOK,
		Results: []placeResult{
			result("keep1", 4.5, 100),
			result("excluded", 4.9, 900),
			result("lowrating", 4.1, 900),
			result("fewreviews", 4.8, 49),
			result("norating", -1, 900),
			result("noreviews", 4.8, -1),
			result("edge", 4.2, 50),
		},
		NextPageToken: "tok1",
	}
	fake.pages["tok1"] = nearbyResponse{
		Status:  StatusOK,
		Results: []placeResult{result("keep1", 4.5, 100), result("keep2", 5, 60)},
	}

	client, _ := newTestClient(t, testConfig(srv.URL))
	exclude := map[string]struct{}{"excluded": {}}

	got, err := client.Search(context.Background(), testOrigin, models.DefaultFilters(), exclude)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	var ids []string
	for _, r := range got {
		ids = append(ids, r.PlaceID)
	}
	want := []string{"keep1", "edge", "keep2"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("ids = %v, want %v", ids, want)
	}
}

func TestSearch_MapsResult(t *testing.T) {
	t.Parallel()

	fake, srv := startFake(t)
	r := result("p1", 4.6, 321)
	r.PriceLevel = models.IntPtr(2)
	r.OpeningHours = &openingHours{OpenNow: models.BoolPtr(true)}
	r.Photos = []photo{{PhotoReference: "ref-1"}, {PhotoReference: "ref-2"}}
	fake.pages[""] = nearbyResponse{Status: StatusOK, Results: []placeResult{r}}
	fake.details["p1"] = detailsResponse{Status: StatusOK, Result: &Details{
		FormattedPhoneNumber: "02 2720 1234",
		FormattedAddress:     "110 Taipei, Xinyi Rd",
		Website:              "https://p1.example.com",
	}}

	client, _ := newTestClient(t, testConfig(srv.URL))

	got, err := client.Search(context.Background(), testOrigin, models.DefaultFilters(), nil)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(got))
	}

	rest := got[0]
	if rest.Rating != 4.6 || rest.UserRatingsTotal != 321 {
		t.Errorf("rating/reviews = %v/%d, want 4.6/321", rest.Rating, rest.UserRatingsTotal)
	}
	if rest.PriceLevel == nil || *rest.PriceLevel != 2 {
		t.Errorf("PriceLevel = %v, want 2", rest.PriceLevel)
	}
	if rest.OpenNow == nil || !*rest.OpenNow {
		t.Errorf("OpenNow = %v, want true", rest.OpenNow)
	}
	if !strings.Contains(rest.PhotoURL, "/photo?") ||
		!strings.Contains(rest.PhotoURL, "maxwidth=800") ||
		!strings.Contains(rest.PhotoURL, "photo_reference=ref-1") {
		t.Errorf("PhotoURL = %q, want first photo at maxwidth 800", rest.PhotoURL)
	}
	if rest.Phone != "02 2720 1234" || rest.Website != "https://p1.example.com" {
		t.Errorf("phone/website = %q/%q", rest.Phone, rest.Website)
	}
	if rest.Address != "110 Taipei, Xinyi Rd" {
		t.Errorf("Address = %q, want formatted address", rest.Address)
	}
	if rest.DistanceMeters < 149 || rest.DistanceMeters > 152 {
		t.Errorf("DistanceMeters = %v, want about 150", rest.DistanceMeters)
	}
}

func TestSearch_ZeroResults(t *testing.T) {
	t.Parallel()

	fake, srv := startFake(t)
	fake.pages[""] = nearbyResponse{Status: StatusZeroResults}
	client, _ := newTestClient(t, testConfig(srv.URL))

	got, err := client.Search(context.Background(), testOrigin, models.DefaultFilters(), nil)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("len(results) = %d, want 0", len(got))
	}
	if n := fake.detailsCalls(); n != 0 {
		t.Errorf("details calls = %d, want 0", n)
	}
}

func TestSearch_FirstPageFailures(t *testing.T) {
	t.Parallel()

	t.Run("status error", func(t *testing.T) {
		t.Parallel()
		fake, srv := startFake(t)
		fake.pages[""] = nearbyResponse{Status: StatusRequestDenied, ErrorMessage: "The provided API key is invalid."}
		client, _ := newTestClient(t, testConfig(srv.URL))

		_, err := client.Search(context.Background(), testOrigin, models.DefaultFilters(), nil)
		var se *StatusError
		if !errors.As(err, &se) {
			t.Fatalf("Search() error = %v, want *StatusError", err)
		}
		if se.Status != StatusRequestDenied {
			t.Errorf("Status = %q, want %q", se.Status, StatusRequestDenied)
		}
		if !strings.Contains(err.Error(), "REQUEST_DENIED") {
			t.Errorf("Error() = %q, want status in message", err.Error())
		}
	})

	t.Run("http error", func(t *testing.T) {
		t.Parallel()
		fake, srv := startFake(t)
		fake.pageCode[""] = http.StatusBadGateway
		client, _ := newTestClient(t, testConfig(srv.URL))

		_, err := client.Search(context.Background(), testOrigin, models.DefaultFilters(), nil)
		var he *HTTPError
		if !errors.As(err, &he) {
			t.Fatalf("Search() error = %v, want *HTTPError", err)
		}
		if he.StatusCode != http.StatusBadGateway {
			t.Errorf("StatusCode = %d, want 502", he.StatusCode)
		}
	})
}

func TestSearch_ContinuationFailureKeepsResults(t *testing.T) {
	t.Parallel()

	fake, srv := startFake(t)
	fake.pages[""] = nearbyResponse{Status: StatusOK, Results: goodResults("a", 4), NextPageToken: "tok1"}
	// tok1 is not scripted, so the fake answers INVALID_REQUEST

	client, _ := newTestClient(t, testConfig(srv.URL))

	got, err := client.Search(context.Background(), testOrigin, models.DefaultFilters(), nil)
	if err != nil {
		t.Fatalf("Search() error = %v, want nil", err)
	}
	if len(got) != 4 {
		t.Errorf("len(results) = %d, want 4", len(got))
	}
}

func TestSearch_CancelledDuringPageDelay(t *testing.T) {
	t.Parallel()

	fake, srv := startFake(t)
	fake.pages[""] = nearbyResponse{Status: StatusOK, Results: goodResults("a", 2), NextPageToken: "tok1"}
	fake.pages["tok1"] = nearbyResponse{Status: StatusOK, Results: goodResults("b", 2)}

	ctx, cancel := context.WithCancel(context.Background())
	client, err := NewClient(testConfig(srv.URL), WithWaitFunc(func(context.Context, time.Duration) error {
		cancel()
		return context.Canceled
	}))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := client.Search(ctx, testOrigin, models.DefaultFilters(), nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Search() error = %v, want context.Canceled", err)
	}
	if n := len(fake.nearbyCalls()); n != 1 {
		t.Errorf("nearby calls = %d, want 1", n)
	}
}

func TestSearch_RealPageDelay(t *testing.T) {
	t.Parallel()

	fake, srv := startFake(t)
	fake.pages[""] = nearbyResponse{Status: StatusOK, Results: goodResults("a", 1), NextPageToken: "tok1"}
	fake.pages["tok1"] = nearbyResponse{Status: StatusOK, Results: goodResults("b", 1)}

	cfg := testConfig(srv.URL)
	cfg.PageDelay = 50 * time.Millisecond
	client, err := NewClient(cfg)
	if err != nil {
		t.Fatal(err)
	}

	start := time.Now()
	if _, err := client.Search(context.Background(), testOrigin, models.DefaultFilters(), nil); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("elapsed = %v, want at least the page delay", elapsed)
	}
}
