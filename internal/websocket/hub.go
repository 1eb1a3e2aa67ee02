// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

package websocket

import (
	"context"
	"sort"
	"sync"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/wwte/internal/logging"
	"github.com/tomtom215/wwte/internal/metrics"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	// ShutdownReasonContextCanceled is the normal graceful shutdown path.
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"

	// ShutdownReasonContextDeadline may indicate a hung operation during shutdown.
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Message types
const (
	MessageTypeState         = "state"
	MessageTypeSessionClosed = "session_closed"
	MessageTypePing          = "ping"
	MessageTypePong          = "pong"
)

// Message is the JSON frame exchanged with browsers.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// SessionClosedData is the payload of a session_closed message.
type SessionClosedData struct {
	SessionID string `json:"session_id"`
	Reason    string `json:"reason"`
}

// envelope routes a message to one session's clients. closeAfter
// disconnects them once the message is queued.
type envelope struct {
	sessionID  string
	message    Message
	closeAfter bool
}

// Hub tracks connected clients by session and routes messages to them.
type Hub struct {
	clients    map[*Client]bool
	sessions   map[string]map[*Client]struct{}
	broadcast  chan envelope
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
	logger     zerolog.Logger
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan envelope, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		sessions:   make(map[string]map[*Client]struct{}),
		logger:     logging.WithComponent("websocket-hub"),
	}
}

// RunWithContext runs the hub until ctx is cancelled, then closes every
// client and returns ctx.Err(). It is meant to run under a supervisor.
//
// Shutdown is checked first, then client lifecycle events, then messages,
// so a client is always registered before messages for it are routed.
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case client := <-h.Register:
			h.register(client)
			continue
		case client := <-h.Unregister:
			h.unregister(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.register(client)
		case client := <-h.Unregister:
			h.unregister(client)
		case env := <-h.broadcast:
			h.deliver(env)
		}
	}
}

func (h *Hub) register(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	set, ok := h.sessions[client.sessionID]
	if !ok {
		set = make(map[*Client]struct{})
		h.sessions[client.sessionID] = set
	}
	set[client] = struct{}{}
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Set(float64(total))
	h.logger.Info().Str("session_id", client.sessionID).Int("total_clients", total).Msg("websocket client connected")
}

func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	removed := h.removeLocked(client)
	total := len(h.clients)
	h.mu.Unlock()

	if removed {
		metrics.WSConnections.Set(float64(total))
		h.logger.Info().Str("session_id", client.sessionID).Int("total_clients", total).Msg("websocket client disconnected")
	}
}

// removeLocked drops client from both indexes and closes its send queue.
func (h *Hub) removeLocked(client *Client) bool {
	if _, ok := h.clients[client]; !ok {
		return false
	}
	delete(h.clients, client)
	if set, ok := h.sessions[client.sessionID]; ok {
		delete(set, client)
		if len(set) == 0 {
			delete(h.sessions, client.sessionID)
		}
	}
	close(client.send)
	return true
}

func (h *Hub) logGracefulShutdown(ctx context.Context) {
	clientCount := h.GetClientCount()
	h.closeAllClients()

	h.logger.Info().
		Str("reason", string(getShutdownReason(ctx))).
		Int("clients_closed", clientCount).
		Msg("websocket hub stopped")
}

func getShutdownReason(ctx context.Context) ShutdownReason {
	if ctx.Err() == context.DeadlineExceeded {
		return ShutdownReasonContextDeadline
	}
	return ShutdownReasonContextCanceled
}

// sortedLocked returns clients ordered by ID so delivery order is stable.
func sortedLocked(set map[*Client]struct{}) []*Client {
	clients := make([]*Client, 0, len(set))
	for client := range set {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	return clients
}

// deliver queues a message on every client of the envelope's session.
// Clients whose queue is full are disconnected.
func (h *Hub) deliver(env envelope) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.sessions[env.sessionID]
	if !ok {
		return
	}

	for _, client := range sortedLocked(set) {
		select {
		case client.send <- env.message:
			if env.closeAfter {
				h.removeLocked(client)
			}
		default:
			metrics.WSMessagesDropped.Inc()
			h.logger.Warn().Str("session_id", env.sessionID).Uint64("client_id", client.id).Msg("client send queue full, disconnecting")
			h.removeLocked(client)
		}
	}
	metrics.WSConnections.Set(float64(len(h.clients)))
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	all := make(map[*Client]struct{}, len(h.clients))
	for client := range h.clients {
		all[client] = struct{}{}
	}
	for _, client := range sortedLocked(all) {
		h.removeLocked(client)
	}
	metrics.WSConnections.Set(0)
}

func (h *Hub) enqueue(env envelope) bool {
	select {
	case h.broadcast <- env:
		return true
	default:
		metrics.WSMessagesDropped.Inc()
		h.logger.Warn().Str("session_id", env.sessionID).Str("message_type", env.message.Type).Msg("broadcast channel full, dropping message")
		return false
	}
}

// BroadcastState sends a state message to every client of sessionID.
// It never blocks.
func (h *Hub) BroadcastState(sessionID string, payload any) {
	h.enqueue(envelope{
		sessionID: sessionID,
		message:   Message{Type: MessageTypeState, Data: payload},
	})
}

// CloseSession tells the session's clients why the session ended and
// disconnects them.
func (h *Hub) CloseSession(sessionID, reason string) {
	h.enqueue(envelope{
		sessionID:  sessionID,
		message:    Message{Type: MessageTypeSessionClosed, Data: SessionClosedData{SessionID: sessionID, Reason: reason}},
		closeAfter: true,
	})
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// SessionClientCount returns the number of clients bound to sessionID.
func (h *Hub) SessionClientCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}

// MarshalMessage converts a message to JSON
func MarshalMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

// enqueueDirect queues msg for one registered client. The hub lock makes
// this safe against the hub closing the client's queue concurrently.
func (h *Hub) enqueueDirect(client *Client, msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[client]; !ok {
		return
	}
	select {
	case client.send <- msg:
	default:
		metrics.WSMessagesDropped.Inc()
	}
}
