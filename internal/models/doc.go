// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

/*
Package models defines the data structures shared across WWTE.

Key types:

  - Restaurant: a nearby-search candidate, optionally enriched with
    place details (phone, website, address)
  - SearchFilters: the user's search configuration, owned by the
    preference store and validated with go-playground/validator tags
  - APIResponse, APIError, Metadata: the HTTP response envelope

Display helpers turn a Restaurant into what a client shows: FormatDistance
("850 m", "1.2 km"), FormatPriceLevel ("$$"), NavigationURL and PhoneURL
deep links.

Restaurant values are treated as immutable once returned by a search;
WithDistanceFrom derives a copy for a different origin. SearchFilters
carries slices, so use Clone before handing filters to another goroutine.
*/
package models
