// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/wwte/internal/middleware"
)

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status           string  `json:"status"` // "healthy" or "degraded"
	Version          string  `json:"version"`
	PlacesCircuit    string  `json:"places_circuit"`
	ActiveSessions   int     `json:"active_sessions"`
	WebSocketClients int     `json:"websocket_clients"`
	Uptime           float64 `json:"uptime_seconds"`
}

// Health reports overall status. An open Places circuit degrades the
// service but does not take it down: cached sessions can still reroll.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	circuit := h.placesCircuit()
	status := "healthy"
	if circuit == "open" {
		status = "degraded"
	}

	health := HealthStatus{
		Status:         status,
		Version:        Version,
		PlacesCircuit:  circuit,
		ActiveSessions: h.sessions.Count(),
		Uptime:         time.Since(h.startTime).Seconds(),
	}
	if h.wsHub != nil {
		health.WebSocketClients = h.wsHub.GetClientCount()
	}

	respondData(w, r, http.StatusOK, health)
}

// HealthLive reports that the process is serving requests.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondData(w, r, http.StatusOK, map[string]any{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady returns 503 while the Places circuit is open, since no new
// search can succeed.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	circuit := h.placesCircuit()
	if circuit == "open" {
		respondError(w, r, http.StatusServiceUnavailable, CodeServiceUnavailable, "places circuit breaker is open", nil)
		return
	}
	respondData(w, r, http.StatusOK, map[string]any{
		"ready":          true,
		"places_circuit": circuit,
	})
}

// HealthPerformance returns latency statistics per endpoint.
func (h *Handler) HealthPerformance(w http.ResponseWriter, r *http.Request) {
	stats := h.perfMon.GetStats()
	if stats == nil {
		stats = []middleware.EndpointStats{}
	}
	respondData(w, r, http.StatusOK, stats)
}

func (h *Handler) placesCircuit() string {
	if h.places == nil {
		return "disabled"
	}
	return h.places.BreakerState()
}
