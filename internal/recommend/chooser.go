// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

package recommend

import (
	"errors"
	"fmt"
	"math"

	"github.com/tomtom215/wwte/internal/models"
)

// ErrInvalidArgument is returned when Choose is called with empty input,
// mismatched lengths, or weights that are negative or not finite.
var ErrInvalidArgument = errors.New("invalid argument")

// Rand is the random source used by Choose. *math/rand/v2.Rand satisfies it.
type Rand interface {
	// Float64 returns a value in [0.0, 1.0).
	Float64() float64
	// IntN returns a value in [0, n).
	IntN(n int) int
}

// Choose picks one item with probability proportional to its weight.
//
// When every weight is zero the choice is uniform. A threshold landing
// exactly on a cumulative boundary resolves to the later item, and if
// floating-point drift leaves the threshold unconsumed the last item is
// returned.
func Choose[T any](r Rand, items []T, weights []float64) (T, error) {
	var zero T

	if len(items) == 0 {
		return zero, fmt.Errorf("%w: no items to choose from", ErrInvalidArgument)
	}
	if len(items) != len(weights) {
		return zero, fmt.Errorf("%w: %d items but %d weights", ErrInvalidArgument, len(items), len(weights))
	}

	total := 0.0
	for i, w := range weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return zero, fmt.Errorf("%w: weight[%d] = %v", ErrInvalidArgument, i, w)
		}
		total += w
	}

	if total <= 0 {
		return items[r.IntN(len(items))], nil
	}

	threshold := r.Float64() * total
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if cumulative > threshold {
			return items[i], nil
		}
	}

	return items[len(items)-1], nil
}

// Weight scores a candidate: rating * ln(reviews + 1). Unrated or
// unreviewed places score zero.
func Weight(r *models.Restaurant) float64 {
	reviews := r.UserRatingsTotal
	if reviews < 0 {
		reviews = 0
	}
	w := r.Rating * math.Log(float64(reviews)+1)
	if w < 0 || math.IsNaN(w) {
		return 0
	}
	return w
}

// chooseRestaurant weights candidates and picks one.
func chooseRestaurant(r Rand, candidates []models.Restaurant) (models.Restaurant, error) {
	weights := make([]float64, len(candidates))
	for i := range candidates {
		weights[i] = Weight(&candidates[i])
	}
	return Choose(r, candidates, weights)
}
