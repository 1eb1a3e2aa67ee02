// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/wwte/internal/config"
	"github.com/tomtom215/wwte/internal/logging"
	"github.com/tomtom215/wwte/internal/middleware"
	"github.com/tomtom215/wwte/internal/preferences"
	"github.com/tomtom215/wwte/internal/recommend"
	"github.com/tomtom215/wwte/internal/session"
	ws "github.com/tomtom215/wwte/internal/websocket"
)

// Version is reported by the health endpoint. Overridden at build time.
var Version = "dev"

// BreakerReporter exposes the Places circuit breaker state.
type BreakerReporter interface {
	BreakerState() string
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers.go: Handler struct, constructor, WebSocket origin policy
//   - handlers_helpers.go: JSON envelope, body decoding, validation
//   - handlers_health.go: health, liveness, readiness, performance
//   - handlers_sessions.go: session lifecycle and selection events
//   - handlers_preferences.go: filters, favorites, blacklist
//   - handlers_websocket.go: per-session state stream
type Handler struct {
	config       *config.Config
	sessions     *session.Manager
	prefs        *preferences.Store
	wsHub        *ws.Hub
	places       BreakerReporter
	perfMon      *middleware.PerformanceMonitor
	startTime    time.Time
	maxBodyBytes int64
}

// NewHandler creates the API handler. places may be nil, in which case
// readiness does not consider the Places circuit.
func NewHandler(cfg *config.Config, sessions *session.Manager, prefs *preferences.Store, wsHub *ws.Hub, places BreakerReporter) *Handler {
	maxBody := cfg.API.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 64 << 10
	}
	return &Handler{
		config:       cfg,
		sessions:     sessions,
		prefs:        prefs,
		wsHub:        wsHub,
		places:       places,
		perfMon:      middleware.NewPerformanceMonitor(1000, 0),
		startTime:    time.Now(),
		maxBodyBytes: maxBody,
	}
}

// PerformanceMonitor returns the monitor fed by the router's middleware.
func (h *Handler) PerformanceMonitor() *middleware.PerformanceMonitor {
	return h.perfMon
}

// BindSessionEvents pushes every session state change to that session's
// WebSocket clients and disconnects them when the session ends.
func (h *Handler) BindSessionEvents() {
	if h.wsHub == nil {
		return
	}
	h.sessions.Observe(func(sessionID string, snap recommend.Snapshot) {
		h.wsHub.BroadcastState(sessionID, NewSessionView(sessionID, snap, h.prefs))
	})
	h.sessions.OnClose(h.wsHub.CloseSession)
}

// getUpgrader creates a WebSocket upgrader with origin checking and a
// handshake timeout.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin applies the CORS origin list to WebSocket upgrades.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")

	// Browsers always send Origin on WebSocket handshakes.
	if origin == "" {
		logging.Ctx(r.Context()).Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}

	for _, allowed := range h.config.API.CORSOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	logging.Ctx(r.Context()).Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected from unauthorized origin")
	return false
}
