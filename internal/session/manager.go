// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

package session

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/tomtom215/wwte/internal/cache"
	"github.com/tomtom215/wwte/internal/config"
	"github.com/tomtom215/wwte/internal/logging"
	"github.com/tomtom215/wwte/internal/metrics"
	"github.com/tomtom215/wwte/internal/recommend"
)

// ErrNotFound is returned for unknown, expired or deleted sessions.
var ErrNotFound = errors.New("session not found")

// Close reasons passed to OnClose observers.
const (
	ReasonExpired = "expired"
	ReasonDeleted = "deleted"
)

// Session is one client's selection engine.
type Session struct {
	ID        string
	Engine    *recommend.Engine
	CreatedAt time.Time
}

// Manager creates, finds and expires sessions. It is safe for concurrent use.
type Manager struct {
	selection *recommend.Config
	searcher  recommend.Searcher
	prefs     recommend.Preferences
	sessions  *cache.LRU[string, *Session]
	logger    zerolog.Logger
	now       func() time.Time
	active    prometheus.Gauge

	obsMu     sync.RWMutex
	observers []func(sessionID string, snap recommend.Snapshot)
	closers   []func(sessionID, reason string)
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the manager's logger; engines inherit it.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func WithLogger(logger zerolog.Logger) Option {
	return func(m *Manager) { m.logger = logger.With().Str("component", "sessions").Logger() }
}

// WithClock replaces the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a session manager. Every session gets its own engine
// built from selection, sharing searcher and prefs.
func NewManager(cfg *config.SessionsConfig, selection *recommend.Config, searcher recommend.Searcher, prefs recommend.Preferences, opts ...Option) (*Manager, error) {
	if cfg == nil {
		return nil, errors.New("sessions config is required")
	}
	if selection == nil {
		selection = recommend.DefaultConfig()
	}
	if err := selection.Validate(); err != nil {
		return nil, fmt.Errorf("invalid selection config: %w", err)
	}
	if searcher == nil || prefs == nil {
		return nil, errors.New("searcher and preferences are required")
	}

	m := &Manager{
		selection: selection,
		searcher:  searcher,
		prefs:     prefs,
		sessions:  cache.NewLRU[string, *Session](cfg.MaxSessions, cfg.IdleTimeout),
		logger:    logging.WithComponent("sessions"),
		now:       time.Now,
		active:    metrics.ActiveSessions,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.sessions.SetClock(m.now)
	m.sessions.OnEvict(func(id string, _ *Session) {
		metrics.SessionsExpired.Inc()
		m.recordActive()
		m.logger.Debug().Str("session_id", id).Msg("session expired")
		m.closed(id, ReasonExpired)
	})
	return m, nil
}

// Observe registers fn to receive every state change of every session.
// fn runs synchronously on the goroutine that drove the change.
func (m *Manager) Observe(fn func(sessionID string, snap recommend.Snapshot)) {
	m.obsMu.Lock()
	defer m.obsMu.Unlock()
	m.observers = append(m.observers, fn)
}

// OnClose registers fn to be told when a session ends.
func (m *Manager) OnClose(fn func(sessionID, reason string)) {
	m.obsMu.Lock()
	defer m.obsMu.Unlock()
	m.closers = append(m.closers, fn)
}

// Create starts a new session in the Idle state.
func (m *Manager) Create() (*Session, error) {
	id := uuid.New()

	engine, err := recommend.NewEngine(m.selection, m.searcher, m.prefs, m.logger.With().Str("session_id", id.String()).Logger())
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}
	if m.selection.Seed == 0 {
		// Without a configured seed every session would replay the same picks.
		engine.SetRand(rand.New(rand.NewPCG(binary.BigEndian.Uint64(id[:8]), binary.BigEndian.Uint64(id[8:])))) //nolint:gosec // not security sensitive
	}

	s := &Session{ID: id.String(), Engine: engine, CreatedAt: m.now()}
	engine.OnChange(func(snap recommend.Snapshot) {
		m.sessions.Touch(s.ID)
		m.publish(s.ID, snap)
	})

	m.sessions.Add(s.ID, s)
	m.recordActive()
	m.logger.Debug().Str("session_id", s.ID).Msg("session created")
	return s, nil
}

// Get returns a live session and extends its idle deadline.
func (m *Manager) Get(id string) (*Session, error) {
	s, ok := m.sessions.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	m.sessions.Touch(id)
	return s, nil
}

// Delete ends a session.
func (m *Manager) Delete(id string) error {
	if !m.sessions.Remove(id) {
		return ErrNotFound
	}
	m.recordActive()
	m.logger.Debug().Str("session_id", id).Msg("session deleted")
	m.closed(id, ReasonDeleted)
	return nil
}

// Sweep removes idle sessions and returns how many were removed.
func (m *Manager) Sweep() int {
	n := m.sessions.CleanupExpired()
	m.recordActive()
	if n > 0 {
		m.logger.Info().Int("expired", n).Int("active", m.sessions.Len()).Msg("swept idle sessions")
	}
	return n
}

// Count returns the number of sessions held, including any expired ones
// not yet swept.
func (m *Manager) Count() int {
	return m.sessions.Len()
}

// recordActive runs outside the cache lock, including from eviction callbacks.
func (m *Manager) recordActive() {
	m.active.Set(float64(m.sessions.Len()))
}

func (m *Manager) publish(id string, snap recommend.Snapshot) {
	m.obsMu.RLock()
	observers := m.observers
	m.obsMu.RUnlock()
	for _, fn := range observers {
		fn(id, snap)
	}
}

func (m *Manager) closed(id, reason string) {
	m.obsMu.RLock()
	closers := m.closers
	m.obsMu.RUnlock()
	for _, fn := range closers {
		fn(id, reason)
	}
}
