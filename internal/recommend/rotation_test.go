// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

package recommend

import (
	"reflect"
	"testing"

	"github.com/tomtom215/wwte/internal/models"
)

func TestPushRecent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		recent []string
		id     string
		want   []string
	}{
		{"empty", nil, "a", []string{"a"}},
		{"prepends", []string{"a"}, "b", []string{"b", "a"}},
		{"evicts oldest", []string{"c", "b", "a"}, "d", []string{"d", "c", "b"}},
		{"moves existing to front", []string{"c", "b", "a"}, "b", []string{"b", "c", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := pushRecent(tt.recent, tt.id, 3); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("pushRecent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPushHistory(t *testing.T) {
	t.Parallel()

	r := func(id string) models.Restaurant { return models.Restaurant{PlaceID: id} }
	ids := func(h []models.Restaurant) []string {
		out := make([]string, len(h))
		for i := range h {
			out[i] = h[i].PlaceID
		}
		return out
	}

	tests := []struct {
		name    string
		history []models.Restaurant
		add     string
		limit   int
		want    []string
	}{
		{"empty", nil, "a", 20, []string{"a"}},
		{"most recent first", []models.Restaurant{r("a")}, "b", 20, []string{"b", "a"}},
		{"dedups on reinsert", []models.Restaurant{r("c"), r("b"), r("a")}, "a", 20, []string{"a", "c", "b"}},
		{"truncates", []models.Restaurant{r("c"), r("b"), r("a")}, "d", 3, []string{"d", "c", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ids(pushHistory(tt.history, r(tt.add), tt.limit))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("pushHistory() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExclusionSet(t *testing.T) {
	t.Parallel()

	got := exclusionSet([]string{"x"}, []string{"a", "b"}, map[string]struct{}{"z": {}, "a": {}})
	want := map[string]struct{}{"x": {}, "a": {}, "b": {}, "z": {}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("exclusionSet() = %v, want %v", got, want)
	}
}

func TestRerollCandidates(t *testing.T) {
	t.Parallel()

	history := []models.Restaurant{{PlaceID: "d"}, {PlaceID: "c"}, {PlaceID: "b"}, {PlaceID: "a"}}
	got := rerollCandidates(history, []string{"d", "c"}, map[string]struct{}{"a": {}})
	if len(got) != 1 || got[0].PlaceID != "b" {
		t.Errorf("rerollCandidates() = %v, want [b]", got)
	}
}

func TestSnapshot_RecentHistory(t *testing.T) {
	t.Parallel()

	history := make([]models.Restaurant, 8)
	for i := range history {
		history[i] = models.Restaurant{PlaceID: string(rune('a' + i))}
	}

	tests := []struct {
		name    string
		history []models.Restaurant
		n       int
		want    int
	}{
		{"empty", nil, 5, 0},
		{"only current", history[:1], 5, 0},
		{"fewer than n", history[:3], 5, 2},
		{"capped at n", history, 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Snapshot{History: tt.history}.RecentHistory(tt.n)
			if len(got) != tt.want {
				t.Errorf("RecentHistory(%d) len = %d, want %d", tt.n, len(got), tt.want)
			}
			if len(got) > 0 && got[0].PlaceID != "b" {
				t.Errorf("RecentHistory()[0] = %q, want %q", got[0].PlaceID, "b")
			}
		})
	}
}
