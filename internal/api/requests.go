// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

package api

import "github.com/tomtom215/wwte/internal/geo"

// LocationRequest is the body of POST /sessions/{id}/location. Either both
// coordinates are set, or Denied is true.
type LocationRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Denied    bool     `json:"denied"`
}

// coordinateParams validates a location fix once both values are present.
type coordinateParams struct {
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
}

func (p coordinateParams) coordinate() geo.Coordinate {
	return geo.Coordinate{Latitude: p.Latitude, Longitude: p.Longitude}
}

// placeIDParam validates a place ID taken from the URL.
type placeIDParam struct {
	PlaceID string `json:"place_id" validate:"required,place_id"`
}
