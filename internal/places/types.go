// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

package places

import (
	"errors"
	"fmt"
)

// Status values carried in the "status" field of Places responses.
const (
	StatusOK             = "OK"
	StatusZeroResults    = "ZERO_RESULTS"
	StatusInvalidRequest = "INVALID_REQUEST"
	StatusOverQueryLimit = "OVER_QUERY_LIMIT"
	StatusRequestDenied  = "REQUEST_DENIED"
	StatusNotFound       = "NOT_FOUND"
	StatusUnknownError   = "UNKNOWN_ERROR"
)

// ErrMissingAPIKey is returned by NewClient when no API key is configured.
var ErrMissingAPIKey = errors.New("places API key is required (set GOOGLE_PLACES_API_KEY)")

// StatusError reports a response whose status field was not acceptable.
type StatusError struct {
	Endpoint string
	Status   string
	Message  string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("places %s returned status %s: %s", e.Endpoint, e.Status, e.Message)
	}
	return fmt.Sprintf("places %s returned status %s", e.Endpoint, e.Status)
}

// HTTPError reports a non-2xx HTTP response.
type HTTPError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("places %s request failed with status %d: %s", e.Endpoint, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("places %s request failed with status %d", e.Endpoint, e.StatusCode)
}

// Details is the subset of place details used to enrich a candidate.
type Details struct {
	FormattedPhoneNumber string `json:"formatted_phone_number,omitempty"`
	FormattedAddress     string `json:"formatted_address,omitempty"`
	Website              string `json:"website,omitempty"`
}

// nearbyResponse is the nearbysearch/json payload.
type nearbyResponse struct {
	Results       []placeResult `json:"results"`
	Status        string        `json:"status"`
	ErrorMessage  string        `json:"error_message,omitempty"`
	NextPageToken string        `json:"next_page_token,omitempty"`
}

type placeResult struct {
	PlaceID          string        `json:"place_id"`
	Name             string        `json:"name"`
	Rating           *float64      `json:"rating,omitempty"`
	UserRatingsTotal *int          `json:"user_ratings_total,omitempty"`
	PriceLevel       *int          `json:"price_level,omitempty"`
	BusinessStatus   string        `json:"business_status,omitempty"`
	OpeningHours     *openingHours `json:"opening_hours,omitempty"`
	Photos           []photo       `json:"photos,omitempty"`
	Geometry         geometry      `json:"geometry"`
	Vicinity         string        `json:"vicinity,omitempty"`
	Types            []string      `json:"types,omitempty"`
}

type openingHours struct {
	OpenNow *bool `json:"open_now,omitempty"`
}

type photo struct {
	PhotoReference string `json:"photo_reference"`
}

type geometry struct {
	Location latLng `json:"location"`
}

type latLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// detailsResponse is the details/json payload.
type detailsResponse struct {
	Result       *Details `json:"result,omitempty"`
	Status       string   `json:"status"`
	ErrorMessage string   `json:"error_message,omitempty"`
}
