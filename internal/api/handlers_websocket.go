// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

package api

import (
	"net/http"

	"github.com/tomtom215/wwte/internal/logging"
	ws "github.com/tomtom215/wwte/internal/websocket"
)

// SessionWebSocket upgrades to a WebSocket that streams the session's state.
// The current view is sent first, then every change until the session ends.
func (h *Handler) SessionWebSocket(w http.ResponseWriter, r *http.Request) {
	if h.wsHub == nil {
		respondError(w, r, http.StatusServiceUnavailable, CodeServiceUnavailable, "WebSocket service unavailable", nil)
		return
	}

	s, ok := h.lookupSession(w, r)
	if !ok {
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		logging.Ctx(r.Context()).Debug().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := ws.NewClient(h.wsHub, conn, s.ID)
	client.Prime(ws.Message{
		Type: ws.MessageTypeState,
		Data: NewSessionView(s.ID, s.Engine.Snapshot(), h.prefs),
	})
	h.wsHub.Register <- client
	client.Start()
}
