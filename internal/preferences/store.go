// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

package preferences

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/wwte/internal/logging"
	"github.com/tomtom215/wwte/internal/metrics"
	"github.com/tomtom215/wwte/internal/models"
	"github.com/tomtom215/wwte/internal/validation"
)

// Record names, appended to the key prefix.
const (
	RecordFilters   = "filters"
	RecordFavorites = "favorites"
	RecordBlacklist = "blacklist"
)

// DefaultKeyPrefix namespaces preference keys in a shared backend.
const DefaultKeyPrefix = "wwte:"

// Snapshot is a point-in-time copy of all preferences.
type Snapshot struct {
	Filters   models.SearchFilters `json:"filters"`
	Favorites []string             `json:"favorites"`
	Blacklist []string             `json:"blacklist"`
}

// Store is the in-memory owner of preferences, backed by a Backend.
// It is safe for concurrent use.
type Store struct {
	backend        Backend
	prefix         string
	persistTimeout time.Duration
	logger         zerolog.Logger

	mu        sync.RWMutex
	filters   models.SearchFilters
	favorites *idSet
	blacklist *idSet
	versions  map[string]uint64

	// pending holds the newest staged write per record until writeLoop
	// picks it up.
	pendMu  sync.Mutex
	pending map[string]pendingWrite
	wake    chan struct{}
	stop    chan struct{}
	done    chan struct{}
	closing sync.Once

	// writeMu serialises backend writes; written holds the version of the
	// last value stored per record so an older write never replaces a newer one.
	writeMu sync.Mutex
	written map[string]uint64
}

// Option configures a Store.
type Option func(*Store)

// WithKeyPrefix overrides DefaultKeyPrefix.
func WithKeyPrefix(prefix string) Option {
	return func(s *Store) { s.prefix = prefix }
}

// WithPersistTimeout bounds each backend write.
func WithPersistTimeout(d time.Duration) Option {
	return func(s *Store) { s.persistTimeout = d }
}

// WithLogger sets the store's logger.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) { s.logger = logger.With().Str("component", "preferences").Logger() }
}

// NewStore creates a store and loads any previously saved records from
// backend. Missing, unreadable or invalid records fall back to defaults.
// Changes reach the backend from a background writer; Close flushes it.
func NewStore(ctx context.Context, backend Backend, opts ...Option) (*Store, error) {
	if backend == nil {
		return nil, errors.New("preferences backend is required")
	}

	s := &Store{
		backend:        backend,
		prefix:         DefaultKeyPrefix,
		persistTimeout: 5 * time.Second,
		logger:         logging.WithComponent("preferences"),
		filters:        models.DefaultFilters(),
		favorites:      newIDSet(nil),
		blacklist:      newIDSet(nil),
		versions:       make(map[string]uint64),
		pending:        make(map[string]pendingWrite),
		wake:           make(chan struct{}, 1),
		stop:           make(chan struct{}),
		done:           make(chan struct{}),
		written:        make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.load(ctx)
	go s.writeLoop()
	return s, nil
}

func (s *Store) key(record string) string {
	return s.prefix + record
}

func (s *Store) load(ctx context.Context) {
	filters := models.DefaultFilters()
	if s.loadRecord(ctx, RecordFilters, &filters) {
		if verr := validation.ValidateStruct(&filters); verr != nil {
			s.logger.Warn().Err(verr).Msg("saved filters are invalid, using defaults")
			filters = models.DefaultFilters()
		}
	}

	var favorites, blacklist []string
	s.loadRecord(ctx, RecordFavorites, &favorites)
	s.loadRecord(ctx, RecordBlacklist, &blacklist)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = filters
	s.blacklist = newIDSet(blacklist)
	s.favorites = newIDSet(nil)
	for _, id := range favorites {
		// Blacklist wins if a corrupt save left an ID in both sets.
		if !s.blacklist.has(id) {
			s.favorites.add(id)
		}
	}

	s.logger.Debug().
		Int("favorites", s.favorites.len()).
		Int("blacklist", s.blacklist.len()).
		Msg("preferences loaded")
}

// loadRecord decodes one record into dst, which keeps its prior contents for
// absent fields. It reports whether a record was found and decoded.
func (s *Store) loadRecord(ctx context.Context, record string, dst any) bool {
	data, err := s.backend.Get(ctx, s.key(record))
	if errors.Is(err, ErrNotFound) {
		return false
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("record", record).Msg("failed to read preferences, using defaults")
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		s.logger.Warn().Err(err).Str("record", record).Msg("corrupt preferences record, using defaults")
		return false
	}
	return true
}

// Filters returns a copy of the current search filters.
func (s *Store) Filters() models.SearchFilters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters.Clone()
}

// SetFilters replaces the filters wholesale. Invalid filters are rejected
// with a *validation.RequestValidationError and nothing changes.
func (s *Store) SetFilters(_ context.Context, f models.SearchFilters) error {
	if verr := validation.ValidateStruct(&f); verr != nil {
		return verr
	}
	f = f.Clone()
	if f.Categories == nil {
		f.Categories = []string{}
	}
	if f.ExcludedPlaceIDs == nil {
		f.ExcludedPlaceIDs = []string{}
	}

	s.mu.Lock()
	s.filters = f
	w := s.stageLocked(RecordFilters, f)
	s.mu.Unlock()

	s.persist(w)
	return nil
}

// ResetFilters restores the default filters but keeps the excluded place IDs,
// and returns the result.
func (s *Store) ResetFilters(_ context.Context) models.SearchFilters {
	s.mu.Lock()
	f := models.DefaultFilters()
	f.ExcludedPlaceIDs = append(f.ExcludedPlaceIDs, s.filters.ExcludedPlaceIDs...)
	s.filters = f
	w := s.stageLocked(RecordFilters, f)
	s.mu.Unlock()

	s.persist(w)
	s.logger.Debug().Int("excluded", len(f.ExcludedPlaceIDs)).Msg("filters reset to defaults")
	return f.Clone()
}

// ToggleFavorite flips id's favorite membership and reports the new state.
// Favoriting removes id from the blacklist.
func (s *Store) ToggleFavorite(_ context.Context, id string) bool {
	return s.toggle(id, RecordFavorites)
}

// ToggleBlacklist flips id's blacklist membership and reports the new state.
// Blacklisting removes id from the favorites.
func (s *Store) ToggleBlacklist(_ context.Context, id string) bool {
	return s.toggle(id, RecordBlacklist)
}

// AddToBlacklist blacklists id if it isn't already.
func (s *Store) AddToBlacklist(_ context.Context, id string) {
	s.mu.Lock()
	if s.blacklist.has(id) {
		s.mu.Unlock()
		return
	}
	writes := s.includeLocked(id, RecordBlacklist)
	s.mu.Unlock()

	s.persist(writes...)
}

func (s *Store) toggle(id, record string) bool {
	s.mu.Lock()
	target := s.setLocked(record)

	var (
		member bool
		writes []pendingWrite
	)
	if target.has(id) {
		target.remove(id)
		writes = append(writes, s.stageLocked(record, target.list()))
	} else {
		member = true
		writes = s.includeLocked(id, record)
	}
	s.mu.Unlock()

	s.persist(writes...)
	s.logger.Debug().Str("place_id", id).Str("record", record).Bool("member", member).Msg("preference toggled")
	return member
}

// includeLocked adds id to record's set and drops it from the other one.
func (s *Store) includeLocked(id, record string) []pendingWrite {
	other := RecordBlacklist
	if record == RecordBlacklist {
		other = RecordFavorites
	}

	s.setLocked(record).add(id)
	writes := []pendingWrite{s.stageLocked(record, s.setLocked(record).list())}
	if s.setLocked(other).remove(id) {
		writes = append(writes, s.stageLocked(other, s.setLocked(other).list()))
	}
	return writes
}

func (s *Store) setLocked(record string) *idSet {
	if record == RecordBlacklist {
		return s.blacklist
	}
	return s.favorites
}

// IsFavorite reports whether id is a favorite.
func (s *Store) IsFavorite(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.favorites.has(id)
}

// IsBlacklisted reports whether id is blacklisted.
func (s *Store) IsBlacklisted(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.blacklist.has(id)
}

// Favorites returns favorite IDs in the order they were added.
func (s *Store) Favorites() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.favorites.list()
}

// Blacklist returns blacklisted IDs in the order they were added.
func (s *Store) Blacklist() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.blacklist.list()
}

// BlacklistSet returns a copy of the blacklist for membership checks.
func (s *Store) BlacklistSet() map[string]struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.blacklist.set()
}

// Snapshot returns every preference in one consistent read.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Filters:   s.filters.Clone(),
		Favorites: s.favorites.list(),
		Blacklist: s.blacklist.list(),
	}
}

// Flush blocks until every change made before the call has been handed to
// the backend.
func (s *Store) Flush() {
	select {
	case <-s.done:
		return
	default:
	}
	s.flushPending()
}

// Close flushes pending writes, stops the writer and closes the backend.
// Changes made after Close stay in memory only.
func (s *Store) Close() error {
	var err error
	s.closing.Do(func() {
		close(s.stop)
		<-s.done

		s.writeMu.Lock()
		defer s.writeMu.Unlock()
		if cerr := s.backend.Close(); cerr != nil {
			err = fmt.Errorf("close preferences backend: %w", cerr)
		}
	})
	return err
}

// pendingWrite is a serialized record tagged with the version it represents.
type pendingWrite struct {
	record  string
	version uint64
	data    []byte
	err     error
}

// stageLocked serializes v as the next version of record. Must hold s.mu.
func (s *Store) stageLocked(record string, v any) pendingWrite {
	s.versions[record]++
	data, err := json.Marshal(v)
	return pendingWrite{record: record, version: s.versions[record], data: data, err: err}
}

// persist queues staged records for the writer and returns at once. Only the
// newest version of each record is kept.
func (s *Store) persist(writes ...pendingWrite) {
	if len(writes) == 0 {
		return
	}

	s.pendMu.Lock()
	for _, w := range writes {
		if w.version > s.pending[w.record].version {
			s.pending[w.record] = w
		}
	}
	s.pendMu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Store) writeLoop() {
	defer close(s.done)
	for {
		select {
		case <-s.wake:
			s.flushPending()
		case <-s.stop:
			s.flushPending()
			return
		}
	}
}

// flushPending writes everything queued so far. Failures are logged and
// counted, never returned: the in-memory state is already authoritative.
// writeMu is held across the hand-off so a concurrent Flush waits for an
// in-progress batch.
func (s *Store) flushPending() {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.pendMu.Lock()
	batch := s.pending
	s.pending = make(map[string]pendingWrite, len(batch))
	s.pendMu.Unlock()
	if len(batch) == 0 {
		return
	}

	ctx := context.Background()
	if s.persistTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.persistTimeout)
		defer cancel()
	}

	for _, w := range batch {
		if w.version <= s.written[w.record] {
			continue
		}

		err := w.err
		if err == nil {
			err = s.backend.Put(ctx, s.key(w.record), w.data)
		}
		metrics.RecordPreferenceWrite(w.record, err)
		if err != nil {
			s.logger.Error().Err(err).Str("record", w.record).Msg("failed to persist preferences")
			continue
		}
		s.written[w.record] = w.version
	}
}
