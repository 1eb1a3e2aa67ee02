// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// GetPreferences returns filters, favorites and blacklist together.
func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	respondData(w, r, http.StatusOK, h.prefs.Snapshot())
}

// GetFilters returns the current search filters.
func (h *Handler) GetFilters(w http.ResponseWriter, r *http.Request) {
	respondData(w, r, http.StatusOK, h.prefs.Filters())
}

// UpdateFilters merges the body over the current filters, so a client can
// send only the fields it changes. Arrays in the body replace stored arrays.
func (h *Handler) UpdateFilters(w http.ResponseWriter, r *http.Request) {
	filters := h.prefs.Filters()
	if !h.decodeJSON(w, r, &filters) {
		return
	}

	if err := h.prefs.SetFilters(r.Context(), filters); err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, h.prefs.Filters())
}

// ResetFilters restores the default filters. Excluded place IDs are kept.
func (h *Handler) ResetFilters(w http.ResponseWriter, r *http.Request) {
	respondData(w, r, http.StatusOK, h.prefs.ResetFilters(r.Context()))
}

// ToggleFavorite flips a place's favorite flag. Favoriting a blacklisted
// place removes it from the blacklist.
func (h *Handler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	placeID, ok := placeIDFromURL(w, r)
	if !ok {
		return
	}
	active := h.prefs.ToggleFavorite(r.Context(), placeID)
	respondData(w, r, http.StatusOK, ToggleResult{PlaceID: placeID, Active: active})
}

// ToggleBlacklist flips a place's blacklist flag. Blacklisting a favorite
// removes it from favorites.
func (h *Handler) ToggleBlacklist(w http.ResponseWriter, r *http.Request) {
	placeID, ok := placeIDFromURL(w, r)
	if !ok {
		return
	}
	active := h.prefs.ToggleBlacklist(r.Context(), placeID)
	respondData(w, r, http.StatusOK, ToggleResult{PlaceID: placeID, Active: active})
}

func placeIDFromURL(w http.ResponseWriter, r *http.Request) (string, bool) {
	param := placeIDParam{PlaceID: chi.URLParam(r, "placeID")}
	if !validateRequest(w, r, &param) {
		return "", false
	}
	return param.PlaceID, true
}
