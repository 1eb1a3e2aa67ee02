// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

package models

import (
	"net/url"

	"github.com/tomtom215/wwte/internal/geo"
)

const mapsDirectionsURL = "https://www.google.com/maps/dir/"

// NavigationURL builds a maps directions link to destination. The place ID
// lets the maps app open the listing rather than a bare pin.
func NavigationURL(destination geo.Coordinate, placeID string) string {
	q := url.Values{}
	q.Set("api", "1")
	q.Set("destination", destination.String())
	if placeID != "" {
		q.Set("destination_place_id", placeID)
	}
	return mapsDirectionsURL + "?" + q.Encode()
}

// PhoneURL builds a tel: link.
func PhoneURL(phone string) string {
	if phone == "" {
		return ""
	}
	return "tel:" + phone
}
