// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/wwte/internal/config"
	"github.com/tomtom215/wwte/internal/geo"
	"github.com/tomtom215/wwte/internal/models"
	"github.com/tomtom215/wwte/internal/preferences"
	"github.com/tomtom215/wwte/internal/recommend"
)

type stubSearcher struct {
	calls int
}

func (s *stubSearcher) Search(_ context.Context, origin geo.Coordinate, _ models.SearchFilters, exclude map[string]struct{}) ([]models.Restaurant, error) {
	s.calls++
	var out []models.Restaurant
	for i := 0; i < 6; i++ {
		id := fmt.Sprintf("cli-place-%d", i)
		if _, skip := exclude[id]; skip {
			continue
		}
		out = append(out, models.Restaurant{
			PlaceID:          id,
			Name:             "Noodle Bar " + id,
			Rating:           4.4,
			UserRatingsTotal: 80,
			Address:          "1 Test Road",
			Location:         geo.Coordinate{Latitude: origin.Latitude + 0.002, Longitude: origin.Longitude},
		})
	}
	return out, nil
}

// testDeps stores preferences in a badger directory private to the test,
// so state carries across runs the way it does for a real user.
func testDeps(t *testing.T, searcher recommend.Searcher) deps {
	t.Helper()
	dir := t.TempDir()
	return deps{
		loadConfig: func() (*config.Config, error) {
			cfg := config.Defaults()
			cfg.Preferences.Backend = string(preferences.BackendBadger)
			cfg.Preferences.Path = dir
			return cfg, nil
		},
		newSearcher: func(*config.Config) (recommend.Searcher, error) {
			if searcher == nil {
				return nil, errors.New("no searcher")
			}
			return searcher, nil
		},
	}
}

func run(t *testing.T, d deps, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := newApp(&out, d).Run(append([]string{"wwte"}, args...))
	return out.String(), err
}

func TestPick(t *testing.T) {
	searcher := &stubSearcher{}
	d := testDeps(t, searcher)

	out, err := run(t, d, "--ephemeral", "pick", "--lat", "25.0338", "--lng", "121.5645", "--reroll", "2", "--json")
	if err != nil {
		t.Fatalf("pick error = %v", err)
	}

	var picks []models.Restaurant
	if err := json.Unmarshal([]byte(out), &picks); err != nil {
		t.Fatalf("decode output %q: %v", out, err)
	}
	if len(picks) != 3 {
		t.Fatalf("len(picks) = %d, want 3", len(picks))
	}
	seen := map[string]bool{}
	for _, p := range picks {
		if seen[p.PlaceID] {
			t.Errorf("place %s picked twice within the rotation window", p.PlaceID)
		}
		seen[p.PlaceID] = true
		if p.DistanceMeters == 0 {
			t.Errorf("pick %s has no distance", p.PlaceID)
		}
	}
}

func TestPick_TextOutput(t *testing.T) {
	d := testDeps(t, &stubSearcher{})

	out, err := run(t, d, "pick", "--lat", "25.0338", "--lng", "121.5645")
	if err != nil {
		t.Fatalf("pick error = %v", err)
	}
	for _, want := range []string{"1. Noodle Bar", "4.4 (80 reviews)", "222 m", "1 Test Road", "https://www.google.com/maps/"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPick_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"latitude out of range", []string{"pick", "--lat", "95", "--lng", "121"}},
		{"negative reroll", []string{"pick", "--lat", "25", "--lng", "121", "--reroll", "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			searcher := &stubSearcher{}
			_, err := run(t, testDeps(t, searcher), tt.args...)
			if !errors.Is(err, errUsage) {
				t.Errorf("error = %v, want usage error", err)
			}
			if searcher.calls != 0 {
				t.Errorf("searcher called %d times, want 0", searcher.calls)
			}
		})
	}
}

func TestFavoriteAndBlacklist_Persist(t *testing.T) {
	d := testDeps(t, nil)
	const id = "ChIJ_cli-1"

	out, err := run(t, d, "favorite", id)
	if err != nil {
		t.Fatalf("favorite error = %v", err)
	}
	if !strings.Contains(out, "added "+id+" to favorites") {
		t.Errorf("output = %q", out)
	}

	if _, err := run(t, d, "block", id); err != nil {
		t.Fatalf("blacklist error = %v", err)
	}

	out, err = run(t, d, "filters", "show")
	if err != nil {
		t.Fatalf("filters show error = %v", err)
	}
	var snap preferences.Snapshot
	if err := json.Unmarshal([]byte(out), &snap); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if slices.Contains(snap.Favorites, id) || !slices.Contains(snap.Blacklist, id) {
		t.Errorf("favorites = %v, blacklist = %v, want %s only blacklisted", snap.Favorites, snap.Blacklist, id)
	}
}

func TestToggle_InvalidArgs(t *testing.T) {
	d := testDeps(t, nil)

	for _, args := range [][]string{
		{"favorite"},
		{"favorite", "a", "b"},
		{"blacklist", "not a place"},
	} {
		if _, err := run(t, d, args...); !errors.Is(err, errUsage) {
			t.Errorf("%v: error = %v, want usage error", args, err)
		}
	}
}

func TestFiltersSet(t *testing.T) {
	d := testDeps(t, nil)

	out, err := run(t, d, "filters", "set", "--radius", "1500", "--price", "1", "--price", "2", "--category", "ramen")
	if err != nil {
		t.Fatalf("filters set error = %v", err)
	}
	var got models.SearchFilters
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if got.Radius != 1500 || !slices.Equal(got.PriceLevels, []int{1, 2}) || !slices.Equal(got.Categories, []string{"ramen"}) {
		t.Errorf("filters = %+v", got)
	}
	if got.MinRating != models.DefaultFilters().MinRating {
		t.Errorf("min_rating = %v, want default kept", got.MinRating)
	}

	if _, err := run(t, d, "filters", "set", "--radius", "0"); !errors.Is(err, errUsage) {
		t.Errorf("radius 0: error = %v, want usage error", err)
	}

	out, err = run(t, d, "filters", "show")
	if err != nil {
		t.Fatalf("filters show error = %v", err)
	}
	var snap preferences.Snapshot
	if err := json.Unmarshal([]byte(out), &snap); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if snap.Filters.Radius != 1500 {
		t.Errorf("persisted radius = %d, want 1500", snap.Filters.Radius)
	}
}

func TestFiltersReset(t *testing.T) {
	d := testDeps(t, nil)

	if _, err := run(t, d, "filters", "set", "--radius", "2200", "--price", "4"); err != nil {
		t.Fatalf("filters set error = %v", err)
	}

	out, err := run(t, d, "filters", "reset")
	if err != nil {
		t.Fatalf("filters reset error = %v", err)
	}
	var got models.SearchFilters
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if want := models.DefaultFilters(); got.Radius != want.Radius || !slices.Equal(got.PriceLevels, want.PriceLevels) {
		t.Errorf("filters = %+v, want defaults", got)
	}

	out, err = run(t, d, "filters", "show")
	if err != nil {
		t.Fatalf("filters show error = %v", err)
	}
	var snap preferences.Snapshot
	if err := json.Unmarshal([]byte(out), &snap); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if snap.Filters.Radius != models.DefaultFilters().Radius {
		t.Errorf("persisted radius = %d, want default", snap.Filters.Radius)
	}
}

func TestEphemeral_DoesNotPersist(t *testing.T) {
	d := testDeps(t, nil)

	if _, err := run(t, d, "--ephemeral", "favorite", "ChIJ_temp"); err != nil {
		t.Fatalf("favorite error = %v", err)
	}
	out, err := run(t, d, "filters", "show")
	if err != nil {
		t.Fatalf("filters show error = %v", err)
	}
	if strings.Contains(out, "ChIJ_temp") {
		t.Errorf("ephemeral favorite leaked into persistent store:\n%s", out)
	}
}
