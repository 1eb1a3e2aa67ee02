// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

package api

import (
	"time"

	"github.com/tomtom215/wwte/internal/geo"
	"github.com/tomtom215/wwte/internal/models"
	"github.com/tomtom215/wwte/internal/recommend"
)

// RecentHistoryLimit is how many earlier picks a session view lists.
const RecentHistoryLimit = 5

// FavoriteChecker reports whether a place is a favorite.
type FavoriteChecker interface {
	IsFavorite(placeID string) bool
}

// RestaurantView is a restaurant with everything a client needs to render it.
type RestaurantView struct {
	models.Restaurant
	DistanceText  string `json:"distance_text"`
	PriceText     string `json:"price_text,omitempty"`
	NavigationURL string `json:"navigation_url"`
	PhoneURL      string `json:"phone_url,omitempty"`
	Favorite      bool   `json:"favorite"`
}

// SessionView is the public state of a selection session, returned by the
// session endpoints and pushed over WebSocket.
type SessionView struct {
	SessionID     string           `json:"session_id"`
	State         recommend.State  `json:"state"`
	Message       string           `json:"message,omitempty"`
	Current       *RestaurantView  `json:"current,omitempty"`
	RecentHistory []RestaurantView `json:"recent_history"`
	Origin        *geo.Coordinate  `json:"origin,omitempty"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// ToggleResult reports a favorite or blacklist toggle.
type ToggleResult struct {
	PlaceID string `json:"place_id"`
	Active  bool   `json:"active"`
}

// NewSessionView renders snap. Distances are recomputed against the
// session's current origin.
func NewSessionView(sessionID string, snap recommend.Snapshot, favorites FavoriteChecker) SessionView {
	view := SessionView{
		SessionID:     sessionID,
		State:         snap.State,
		Message:       snap.Message,
		Origin:        snap.Origin,
		UpdatedAt:     snap.UpdatedAt,
		RecentHistory: []RestaurantView{},
	}

	if snap.Current != nil {
		current := newRestaurantView(*snap.Current, snap.Origin, favorites)
		view.Current = &current
	}
	for _, r := range snap.RecentHistory(RecentHistoryLimit) {
		view.RecentHistory = append(view.RecentHistory, newRestaurantView(r, snap.Origin, favorites))
	}
	return view
}

func newRestaurantView(r models.Restaurant, origin *geo.Coordinate, favorites FavoriteChecker) RestaurantView {
	if origin != nil {
		r = r.WithDistanceFrom(*origin)
	}
	return RestaurantView{
		Restaurant:    r,
		DistanceText:  models.FormatDistance(r.DistanceMeters),
		PriceText:     models.FormatPriceLevel(r.PriceLevel),
		NavigationURL: r.NavigationURL(),
		PhoneURL:      r.PhoneURL(),
		Favorite:      favorites != nil && favorites.IsFavorite(r.PlaceID),
	}
}
