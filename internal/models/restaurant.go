// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

package models

import "github.com/tomtom215/wwte/internal/geo"

// Restaurant is a candidate returned by the places search, optionally
// enriched with detail fields. A value is immutable for a given query;
// use WithDistanceFrom to derive a copy for a different origin.
type Restaurant struct {
	PlaceID          string         `json:"place_id"`
	Name             string         `json:"name"`
	Rating           float64        `json:"rating"`             // 0.0 - 5.0, 0 when unrated
	UserRatingsTotal int            `json:"user_ratings_total"` // Review count
	PriceLevel       *int           `json:"price_level,omitempty"`
	Types            []string       `json:"types,omitempty"`
	OpenNow          *bool          `json:"open_now,omitempty"`
	PhotoURL         string         `json:"photo_url,omitempty"`
	DistanceMeters   float64        `json:"distance_meters"`
	Address          string         `json:"address"`
	Phone            string         `json:"phone,omitempty"`
	Website          string         `json:"website,omitempty"`
	Location         geo.Coordinate `json:"location"`
}

// WithDistanceFrom returns a copy of the restaurant with its distance
// recomputed against origin.
func (r Restaurant) WithDistanceFrom(origin geo.Coordinate) Restaurant {
	r.DistanceMeters = geo.Distance(origin, r.Location)
	return r
}

// NavigationURL returns the Google Maps directions deep link for the restaurant.
func (r Restaurant) NavigationURL() string {
	return NavigationURL(r.Location, r.PlaceID)
}

// PhoneURL returns the tel: link, or "" when no phone number is known.
func (r Restaurant) PhoneURL() string {
	return PhoneURL(r.Phone)
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}

// BoolPtr returns a pointer to v.
func BoolPtr(v bool) *bool {
	return &v
}
