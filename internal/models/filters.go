// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

package models

// Price level bounds as defined by the Places API.
const (
	MinPriceLevel = 0
	MaxPriceLevel = 4
)

// SearchFilters holds the user's search configuration. It is owned by the
// preference store and read by the selection engine.
type SearchFilters struct {
	Radius           int      `json:"radius" validate:"min=1,max=50000"`
	MinRating        float64  `json:"min_rating" validate:"min=0,max=5"`
	MinUserRatings   int      `json:"min_user_ratings" validate:"min=0"`
	PriceLevels      []int    `json:"price_levels" validate:"max=5,dive,min=0,max=4"`
	Categories       []string `json:"categories" validate:"max=20,dive,required,max=64"`
	OpenNow          bool     `json:"open_now"`
	ExcludedPlaceIDs []string `json:"excluded_place_ids" validate:"dive,required"`
}

// DefaultFilters returns the filters used before the user changes anything.
func DefaultFilters() SearchFilters {
	return SearchFilters{
		Radius:           1000,
		MinRating:        4.2,
		MinUserRatings:   50,
		PriceLevels:      []int{0, 1, 2, 3},
		Categories:       []string{},
		OpenNow:          true,
		ExcludedPlaceIDs: []string{},
	}
}

// Clone returns a deep copy so callers can't mutate shared slices.
func (f SearchFilters) Clone() SearchFilters {
	out := f
	out.PriceLevels = append([]int(nil), f.PriceLevels...)
	out.Categories = append([]string(nil), f.Categories...)
	out.ExcludedPlaceIDs = append([]string(nil), f.ExcludedPlaceIDs...)
	return out
}

// PriceRange returns the min and max of the selected price levels.
// ok is false when no price levels are selected.
func (f SearchFilters) PriceRange() (lowest, highest int, ok bool) {
	if len(f.PriceLevels) == 0 {
		return 0, 0, false
	}
	lowest, highest = f.PriceLevels[0], f.PriceLevels[0]
	for _, p := range f.PriceLevels[1:] {
		if p < lowest {
			lowest = p
		}
		if p > highest {
			highest = p
		}
	}
	return lowest, highest, true
}

// Accepts reports whether a restaurant meets the rating and review-count thresholds.
func (f SearchFilters) Accepts(r *Restaurant) bool {
	return r.Rating >= f.MinRating && r.UserRatingsTotal >= f.MinUserRatings
}
