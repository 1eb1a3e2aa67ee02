// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

package geo

import (
	"math"
	"testing"
)

func TestDistance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		a, b      Coordinate
		expected  float64
		tolerance float64
	}{
		{
			name:      "same point",
			a:         Coordinate{Latitude: 25.0330, Longitude: 121.5654},
			b:         Coordinate{Latitude: 25.0330, Longitude: 121.5654},
			expected:  0,
			tolerance: 0,
		},
		{
			name:      "taipei 101 neighbourhood",
			a:         Coordinate{Latitude: 25.0330, Longitude: 121.5654},
			b:         Coordinate{Latitude: 25.0340, Longitude: 121.5664},
			expected:  150.05,
			tolerance: 1,
		},
		{
			name:      "taipei to kaohsiung",
			a:         Coordinate{Latitude: 25.0478, Longitude: 121.5170},
			b:         Coordinate{Latitude: 22.6273, Longitude: 120.3014},
			expected:  296180.58,
			tolerance: 1,
		},
		{
			name:      "one degree of longitude on the equator",
			a:         Coordinate{Latitude: 0, Longitude: 0},
			b:         Coordinate{Latitude: 0, Longitude: 1},
			expected:  EarthRadiusMeters * math.Pi / 180,
			tolerance: 0.001,
		},
		{
			name:      "antipodal points",
			a:         Coordinate{Latitude: 0, Longitude: 0},
			b:         Coordinate{Latitude: 0, Longitude: 180},
			expected:  EarthRadiusMeters * math.Pi,
			tolerance: 0.001,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Distance(tt.a, tt.b)
			if math.Abs(got-tt.expected) > tt.tolerance {
				t.Errorf("Distance() = %.4f m, want %.4f m (+/- %.3f)", got, tt.expected, tt.tolerance)
			}
		})
	}
}

func TestDistance_Symmetric(t *testing.T) {
	t.Parallel()

	points := []Coordinate{
		{Latitude: 25.0330, Longitude: 121.5654},
		{Latitude: -33.8688, Longitude: 151.2093},
		{Latitude: 51.5074, Longitude: -0.1278},
		{Latitude: 89.9, Longitude: 45},
		{Latitude: 0, Longitude: -179.9},
	}

	for i, a := range points {
		for j, b := range points {
			ab := Distance(a, b)
			ba := Distance(b, a)
			if math.Abs(ab-ba) > 1e-6 {
				t.Errorf("Distance(p%d, p%d) = %f, Distance(p%d, p%d) = %f", i, j, ab, j, i, ba)
			}
			if i == j && ab != 0 {
				t.Errorf("Distance(p%d, p%d) = %f, want 0", i, i, ab)
			}
		}
	}
}

func TestCoordinate_String(t *testing.T) {
	t.Parallel()

	c := Coordinate{Latitude: 25.033, Longitude: 121.5654}
	if got := c.String(); got != "25.033,121.5654" {
		t.Errorf("String() = %q, want %q", got, "25.033,121.5654")
	}
}

func TestCoordinate_Equal(t *testing.T) {
	t.Parallel()

	a := Coordinate{Latitude: 1, Longitude: 2}
	if !a.Equal(Coordinate{Latitude: 1, Longitude: 2}) {
		t.Error("Equal() = false for identical coordinates")
	}
	if a.Equal(Coordinate{Latitude: 1, Longitude: 2.0001}) {
		t.Error("Equal() = true for different coordinates")
	}
}
