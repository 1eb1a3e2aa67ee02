// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

package places

import (
	"net/url"
	"strconv"
)

// Endpoint paths relative to the configured base URL.
const (
	endpointNearby  = "nearbysearch/json"
	endpointDetails = "details/json"
	endpointPhoto   = "photo"
)

// apiRequest holds the path and query parameters of one Places call.
// The key parameter is added by buildURL so it never sits in a request value.
type apiRequest struct {
	path   string
	params url.Values
}

func newAPIRequest(path string) *apiRequest {
	return &apiRequest{
		path:   path,
		params: url.Values{},
	}
}

// addParam adds a parameter to the request (only if non-empty)
func (r *apiRequest) addParam(key, value string) *apiRequest {
	if value != "" {
		r.params.Set(key, value)
	}
	return r
}

// addIntParam adds an integer parameter to the request, zero included
func (r *apiRequest) addIntParam(key string, value int) *apiRequest {
	r.params.Set(key, strconv.Itoa(value))
	return r
}

// buildURL constructs the full URL with all parameters and the API key
func (r *apiRequest) buildURL(baseURL, apiKey string) string {
	params := url.Values{}
	for key, values := range r.params {
		params[key] = values
	}
	params.Set("key", apiKey)
	return baseURL + "/" + r.path + "?" + params.Encode()
}
