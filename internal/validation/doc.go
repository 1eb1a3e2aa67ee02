// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

// Package validation wraps go-playground/validator v10 behind a shared,
// lazily built instance and turns field errors into the API's
// VALIDATION_ERROR shape.
//
// Field names in messages come from the struct's json tags, so a client
// posting {"radius": 0} reads "radius must be at least 1" rather than the Go
// field name.
//
// Custom tags:
//
//	place_id  - a non-empty Google place ID (letters, digits, '-' and '_')
//
// Usage:
//
//	if verr := validation.ValidateStruct(&filters); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
//	    return
//	}
package validation
