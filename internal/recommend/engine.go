// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/wwte/internal/geo"
	"github.com/tomtom215/wwte/internal/metrics"
	"github.com/tomtom215/wwte/internal/models"
)

// Engine is the selection state machine for one client session.
// It is safe for concurrent use; events are admitted one at a time.
type Engine struct {
	config   *Config
	logger   zerolog.Logger
	searcher Searcher
	prefs    Preferences

	// inflight admits a single event; rng is only touched while it is held.
	inflight sync.Mutex
	rng      Rand

	mu        sync.RWMutex
	state     State
	origin    *geo.Coordinate
	current   *models.Restaurant
	recent    []string
	history   []models.Restaurant
	message   string
	updatedAt time.Time

	obsMu     sync.RWMutex
	observers []func(Snapshot)

	now func() time.Time
}

// NewEngine creates a selection engine in the Idle state.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, searcher Searcher, prefs Preferences, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if searcher == nil {
		return nil, errors.New("searcher is required")
	}
	if prefs == nil {
		return nil, errors.New("preferences are required")
	}

	// Use provided seed or default for determinism
	seed := cfg.Seed
	if seed == 0 {
		seed = 42
	}

	return &Engine{
		config:    cfg,
		logger:    logger.With().Str("component", "selection").Logger(),
		searcher:  searcher,
		prefs:     prefs,
		rng:       rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15)), //nolint:gosec // not security sensitive
		state:     StateIdle,
		recent:    []string{},
		history:   []models.Restaurant{},
		updatedAt: time.Now(),
		now:       time.Now,
	}, nil
}

// SetRand replaces the random source. Intended for tests.
func (e *Engine) SetRand(r Rand) {
	e.inflight.Lock()
	defer e.inflight.Unlock()
	e.rng = r
}

// OnChange registers fn to receive a snapshot after every state transition.
// fn is called synchronously and must not call back into the engine's event methods.
func (e *Engine) OnChange(fn func(Snapshot)) {
	e.obsMu.Lock()
	defer e.obsMu.Unlock()
	e.observers = append(e.observers, fn)
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snapshotLocked()
}

// SetLocation handles a new (or repeated) location fix. A changed location
// resets the rotation window and history; either way a new pick is loaded.
func (e *Engine) SetLocation(ctx context.Context, coord geo.Coordinate) (Snapshot, error) {
	if !e.acquire() {
		return e.Snapshot(), ErrBusy
	}
	defer e.inflight.Unlock()

	e.mu.Lock()
	if e.origin == nil || !e.origin.Equal(coord) {
		e.resetLocked()
		e.logger.Debug().
			Float64("lat", coord.Latitude).
			Float64("lng", coord.Longitude).
			Msg("location changed, rotation reset")
	}
	origin := coord
	e.origin = &origin
	e.mu.Unlock()

	e.load(ctx)
	return e.Snapshot(), nil
}

// DenyLocation records that the client refused location access. The engine
// moves to Blocked and forgets any previous origin.
func (e *Engine) DenyLocation(_ context.Context) (Snapshot, error) {
	if !e.acquire() {
		return e.Snapshot(), ErrBusy
	}
	defer e.inflight.Unlock()

	e.mu.Lock()
	e.origin = nil
	e.resetLocked()
	e.transitionLocked(StateBlocked, MessageLocationBlocked)
	e.mu.Unlock()

	e.notify()
	return e.Snapshot(), nil
}

// Refresh forces a new search around the current origin.
func (e *Engine) Refresh(ctx context.Context) (Snapshot, error) {
	if !e.acquire() {
		return e.Snapshot(), ErrBusy
	}
	defer e.inflight.Unlock()

	if !e.hasOrigin() {
		return e.Snapshot(), ErrNoLocation
	}

	e.load(ctx)
	return e.Snapshot(), nil
}

// Reroll picks again. Candidates already in history that are outside the
// rotation window and not blacklisted are preferred and need no network
// call; when none remain a new search runs.
func (e *Engine) Reroll(ctx context.Context) (Snapshot, error) {
	if !e.acquire() {
		return e.Snapshot(), ErrBusy
	}
	defer e.inflight.Unlock()

	if !e.hasOrigin() {
		return e.Snapshot(), ErrNoLocation
	}

	e.mu.RLock()
	candidates := rerollCandidates(e.history, e.recent, e.prefs.BlacklistSet())
	e.mu.RUnlock()

	if len(candidates) == 0 {
		e.logger.Debug().Msg("history exhausted, searching again")
		e.load(ctx)
		return e.Snapshot(), nil
	}

	selected, err := chooseRestaurant(e.rng, candidates)
	if err != nil {
		e.fail(err)
		return e.Snapshot(), nil
	}

	e.commit(selected, SourceHistory)
	return e.Snapshot(), nil
}

// Dislike blacklists the current pick and searches again. It never reuses history.
func (e *Engine) Dislike(ctx context.Context) (Snapshot, error) {
	if !e.acquire() {
		return e.Snapshot(), ErrBusy
	}
	defer e.inflight.Unlock()

	e.mu.RLock()
	current := e.current
	hasOrigin := e.origin != nil
	e.mu.RUnlock()

	if current == nil {
		return e.Snapshot(), ErrNoCurrent
	}

	e.prefs.AddToBlacklist(ctx, current.PlaceID)
	e.logger.Info().Str("place_id", current.PlaceID).Msg("restaurant disliked")

	if !hasOrigin {
		return e.Snapshot(), ErrNoLocation
	}

	e.load(ctx)
	return e.Snapshot(), nil
}

// acquire admits one event at a time without queueing.
func (e *Engine) acquire() bool {
	if e.inflight.TryLock() {
		return true
	}
	metrics.SelectionBusyRejections.Inc()
	return false
}

func (e *Engine) hasOrigin() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.origin != nil
}

// load runs the Loading cycle: search with the current exclusion set, then
// pick among the results. Must be called with inflight held.
func (e *Engine) load(ctx context.Context) {
	e.mu.Lock()
	origin := *e.origin
	recent := append([]string(nil), e.recent...)
	e.transitionLocked(StateLoading, "")
	e.mu.Unlock()
	e.notify()

	filters := e.prefs.Filters()
	exclude := exclusionSet(filters.ExcludedPlaceIDs, recent, e.prefs.BlacklistSet())

	if e.config.SearchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.SearchTimeout)
		defer cancel()
	}

	start := time.Now()
	results, err := e.searcher.Search(ctx, origin, filters, exclude)
	if err != nil {
		e.logger.Warn().Err(err).Dur("elapsed", time.Since(start)).Msg("restaurant search failed")
		e.fail(err)
		return
	}

	e.logger.Debug().
		Int("candidates", len(results)).
		Int("excluded", len(exclude)).
		Dur("elapsed", time.Since(start)).
		Msg("restaurant search completed")

	if len(results) == 0 {
		e.failWith(MessageNoMatch)
		return
	}

	selected, err := chooseRestaurant(e.rng, results)
	if err != nil {
		e.fail(err)
		return
	}

	e.commit(selected, SourceSearch)
}

// commit records a pick and moves to Ready.
func (e *Engine) commit(selected models.Restaurant, source string) {
	e.mu.Lock()
	if e.origin != nil {
		selected = selected.WithDistanceFrom(*e.origin)
	}
	e.recent = pushRecent(e.recent, selected.PlaceID, e.config.RotationWindow)
	e.history = pushHistory(e.history, selected, e.config.HistoryLimit)
	current := selected
	e.current = &current
	e.transitionLocked(StateReady, "")
	e.mu.Unlock()

	metrics.RecordPick(source)
	e.logger.Info().
		Str("place_id", selected.PlaceID).
		Str("name", selected.Name).
		Str("source", source).
		Msg("restaurant picked")

	e.notify()
}

func (e *Engine) fail(err error) {
	e.failWith(errorMessage(err))
}

func (e *Engine) failWith(message string) {
	e.mu.Lock()
	e.transitionLocked(StateError, message)
	e.mu.Unlock()
	e.notify()
}

// errorMessage extracts a user-facing message from a search failure.
func errorMessage(err error) string {
	if err == nil || err.Error() == "" {
		return MessageUnknownError
	}
	return err.Error()
}

func (e *Engine) resetLocked() {
	e.recent = []string{}
	e.history = []models.Restaurant{}
	e.current = nil
}

func (e *Engine) transitionLocked(state State, message string) {
	e.state = state
	e.message = message
	e.updatedAt = e.now()
	metrics.RecordStateTransition(string(state))
}

func (e *Engine) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:     e.state,
		History:   append([]models.Restaurant{}, e.history...),
		Recent:    append([]string{}, e.recent...),
		Message:   e.message,
		UpdatedAt: e.updatedAt,
	}
	if e.current != nil {
		current := *e.current
		snap.Current = &current
	}
	if e.origin != nil {
		origin := *e.origin
		snap.Origin = &origin
	}
	return snap
}

func (e *Engine) notify() {
	e.obsMu.RLock()
	observers := e.observers
	e.obsMu.RUnlock()
	if len(observers) == 0 {
		return
	}

	snap := e.Snapshot()
	for _, fn := range observers {
		fn(snap)
	}
}
