// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/wwte/internal/recommend"
	"github.com/tomtom215/wwte/internal/session"
	"github.com/tomtom215/wwte/internal/validation"
)

// Error codes returned in APIError.Code.
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeNotFound           = "NOT_FOUND"
	CodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	CodeRateLimited        = "RATE_LIMITED"
	CodeValidation         = validation.CodeValidation
	CodeSessionNotFound    = "SESSION_NOT_FOUND"
	CodeSelectionBusy      = "SELECTION_BUSY"
	CodeNoLocation         = "NO_LOCATION"
	CodeNoCurrent          = "NO_CURRENT_PICK"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeInternal           = "INTERNAL_ERROR"
)

// errorStatus maps domain errors to an HTTP status and error code.
func errorStatus(err error) (status int, code string) {
	var verr *validation.RequestValidationError
	switch {
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound, CodeSessionNotFound
	case errors.Is(err, recommend.ErrBusy):
		return http.StatusConflict, CodeSelectionBusy
	case errors.Is(err, recommend.ErrNoLocation):
		return http.StatusBadRequest, CodeNoLocation
	case errors.Is(err, recommend.ErrNoCurrent):
		return http.StatusConflict, CodeNoCurrent
	case errors.As(err, &verr):
		return http.StatusBadRequest, CodeValidation
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}
