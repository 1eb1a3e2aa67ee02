// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

package models

import (
	"fmt"
	"math"
	"strings"
)

// FormatDistance renders meters for display: whole meters below 1 km,
// kilometers with one decimal place otherwise.
func FormatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%d m", int(math.Round(meters)))
	}
	return fmt.Sprintf("%.1f km", meters/1000)
}

// FormatPriceLevel renders a price tier as repeated dollar signs
// (level 0 is "$"). Returns "" for an unknown tier.
func FormatPriceLevel(level *int) string {
	if level == nil || *level < MinPriceLevel || *level > MaxPriceLevel {
		return ""
	}
	return strings.Repeat("$", *level+1)
}
