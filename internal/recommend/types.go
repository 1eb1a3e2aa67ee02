// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

package recommend

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/wwte/internal/geo"
	"github.com/tomtom215/wwte/internal/models"
)

// State is the selection engine's lifecycle state.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateError   State = "error"
	// StateBlocked means the client refused to share its location.
	StateBlocked State = "blocked"
)

// User-facing messages attached to the Error and Blocked states.
const (
	MessageNoMatch         = "no matching restaurant found"
	MessageUnknownError    = "an unknown error occurred"
	MessageLocationBlocked = "location permission is required to find nearby restaurants; enable it and try again"
)

// Pick sources, used as metric labels.
const (
	SourceSearch  = "search"
	SourceHistory = "history"
)

var (
	// ErrBusy is returned when an event arrives while another is being processed.
	ErrBusy = errors.New("selection already in progress")

	// ErrNoLocation is returned by events that need an origin before one was set.
	ErrNoLocation = errors.New("no location available")

	// ErrNoCurrent is returned by Dislike when nothing has been picked yet.
	ErrNoCurrent = errors.New("no current restaurant")
)

// Searcher finds candidate restaurants around an origin. Places in exclude
// must not be returned.
type Searcher interface {
	Search(ctx context.Context, origin geo.Coordinate, filters models.SearchFilters, exclude map[string]struct{}) ([]models.Restaurant, error)
}

// Preferences is the subset of the preference store the engine reads and mutates.
type Preferences interface {
	Filters() models.SearchFilters
	BlacklistSet() map[string]struct{}
	AddToBlacklist(ctx context.Context, placeID string)
}

// Snapshot is a point-in-time copy of the engine state. Its slices are
// owned by the caller.
type Snapshot struct {
	State     State               `json:"state"`
	Current   *models.Restaurant  `json:"current,omitempty"`
	History   []models.Restaurant `json:"history"`
	Recent    []string            `json:"recent"`
	Message   string              `json:"message,omitempty"`
	Origin    *geo.Coordinate     `json:"origin,omitempty"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// RecentHistory returns up to n previously shown restaurants, excluding the
// current pick at the head of History.
func (s Snapshot) RecentHistory(n int) []models.Restaurant {
	if len(s.History) <= 1 || n <= 0 {
		return []models.Restaurant{}
	}
	end := 1 + n
	if end > len(s.History) {
		end = len(s.History)
	}
	return s.History[1:end]
}
