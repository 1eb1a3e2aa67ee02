// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/wwte/internal/logging"
	"github.com/tomtom215/wwte/internal/recommend"
	"github.com/tomtom215/wwte/internal/session"
)

// CreateSession starts a new Idle session.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	s, err := h.sessions.Create()
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	logging.Ctx(logging.ContextWithSessionID(r.Context(), s.ID)).Info().Msg("session created")
	w.Header().Set("Location", "/api/v1/sessions/"+s.ID)
	respondData(w, r, http.StatusCreated, NewSessionView(s.ID, s.Engine.Snapshot(), h.prefs))
}

// GetSession returns the current view of a session.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookupSession(w, r)
	if !ok {
		return
	}
	respondData(w, r, http.StatusOK, NewSessionView(s.ID, s.Engine.Snapshot(), h.prefs))
}

// DeleteSession ends a session and disconnects its WebSocket clients.
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Delete(chi.URLParam(r, "sessionID")); err != nil {
		respondDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetLocation handles a location fix or a refusal to share one.
func (h *Handler) SetLocation(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookupSession(w, r)
	if !ok {
		return
	}

	var req LocationRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	if req.Denied {
		h.runEvent(w, r, s, func(ctx context.Context) (recommend.Snapshot, error) {
			return s.Engine.DenyLocation(ctx)
		})
		return
	}

	if req.Latitude == nil || req.Longitude == nil {
		respondError(w, r, http.StatusBadRequest, CodeValidation, "latitude and longitude are required unless denied is true", nil)
		return
	}
	params := coordinateParams{Latitude: *req.Latitude, Longitude: *req.Longitude}
	if !validateRequest(w, r, &params) {
		return
	}

	h.runEvent(w, r, s, func(ctx context.Context) (recommend.Snapshot, error) {
		return s.Engine.SetLocation(ctx, params.coordinate())
	})
}

// Refresh searches again around the current origin.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	if s, ok := h.lookupSession(w, r); ok {
		h.runEvent(w, r, s, s.Engine.Refresh)
	}
}

// Reroll picks again, preferring history outside the rotation window.
func (h *Handler) Reroll(w http.ResponseWriter, r *http.Request) {
	if s, ok := h.lookupSession(w, r); ok {
		h.runEvent(w, r, s, s.Engine.Reroll)
	}
}

// Dislike blacklists the current pick and searches again.
func (h *Handler) Dislike(w http.ResponseWriter, r *http.Request) {
	if s, ok := h.lookupSession(w, r); ok {
		h.runEvent(w, r, s, s.Engine.Dislike)
	}
}

func (h *Handler) lookupSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, err := h.sessions.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		respondDomainError(w, r, err)
		return nil, false
	}
	return s, true
}

// runEvent drives one engine event and responds with the resulting view.
// The event outlives a dropped request: WebSocket clients of the same
// session still receive the outcome, and the engine bounds the search.
func (h *Handler) runEvent(w http.ResponseWriter, r *http.Request, s *session.Session, event func(context.Context) (recommend.Snapshot, error)) {
	ctx := logging.ContextWithSessionID(context.WithoutCancel(r.Context()), s.ID)

	snap, err := event(ctx)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, NewSessionView(s.ID, snap, h.prefs))
}
