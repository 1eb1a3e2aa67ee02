// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/wwte/internal/config"
	"github.com/tomtom215/wwte/internal/geo"
	"github.com/tomtom215/wwte/internal/models"
	"github.com/tomtom215/wwte/internal/preferences"
	"github.com/tomtom215/wwte/internal/recommend"
	"github.com/tomtom215/wwte/internal/session"
	ws "github.com/tomtom215/wwte/internal/websocket"
)

const testOrigin = "https://app.example"

// fakeSearcher returns ten restaurants north of the origin, minus excluded
// ones. When gate is set, Search blocks until it is closed.
type fakeSearcher struct {
	mu      sync.Mutex
	calls   int
	err     error
	gate    chan struct{}
	entered chan struct{}
}

func (f *fakeSearcher) Search(ctx context.Context, origin geo.Coordinate, _ models.SearchFilters, exclude map[string]struct{}) ([]models.Restaurant, error) {
	f.mu.Lock()
	f.calls++
	gate, entered, err := f.gate, f.entered, f.err
	f.mu.Unlock()

	if entered != nil {
		select {
		case entered <- struct{}{}:
		default:
		}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}

	var out []models.Restaurant
	for i := 0; i < 10; i++ {
		id := fmt.Sprintf("place-%02d", i)
		if _, skip := exclude[id]; skip {
			continue
		}
		out = append(out, models.Restaurant{
			PlaceID:          id,
			Name:             "Restaurant " + id,
			Rating:           4.5,
			UserRatingsTotal: 120,
			PriceLevel:       models.IntPtr(1),
			Phone:            "02 1234 5678",
			Location:         geo.Coordinate{Latitude: origin.Latitude + 0.001*float64(i+1), Longitude: origin.Longitude},
		})
	}
	return out, nil
}

func (f *fakeSearcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeBreaker struct{ state string }

func (b fakeBreaker) BreakerState() string { return b.state }

type testEnv struct {
	handler  *Handler
	router   http.Handler
	store    *preferences.Store
	sessions *session.Manager
	hub      *ws.Hub
	searcher *fakeSearcher
}

func newTestEnv(t *testing.T, breaker BreakerReporter) *testEnv {
	t.Helper()

	cfg := config.Defaults()
	cfg.API.CORSOrigins = []string{testOrigin}
	cfg.API.RateLimitDisabled = true

	store, err := preferences.NewStore(context.Background(), preferences.NewMemoryBackend())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	searcher := &fakeSearcher{}
	selection := recommend.DefaultConfig()
	selection.Seed = 7
	sessions, err := session.NewManager(&cfg.Sessions, selection, searcher, store)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	hub := ws.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = hub.RunWithContext(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	h := NewHandler(cfg, sessions, store, hub, breaker)
	h.BindSessionEvents()

	return &testEnv{
		handler:  h,
		router:   NewRouter(h).SetupChi(),
		store:    store,
		sessions: sessions,
		hub:      hub,
		searcher: searcher,
	}
}

// envelope is the decoded response body with data left raw.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func (e *testEnv) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: decode body %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec, env
}

func (e *testEnv) createSession(t *testing.T) SessionView {
	t.Helper()
	rec, env := e.do(t, http.MethodPost, "/api/v1/sessions", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create session status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	return decodeData[SessionView](t, env)
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(env.Data, &v); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
	return v
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, env envelope, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d: %s", rec.Code, status, rec.Body.String())
	}
	if env.Status != models.StatusError || env.Error == nil {
		t.Fatalf("envelope = %+v, want error envelope", env)
	}
	if env.Error.Code != code {
		t.Errorf("error code = %q, want %q", env.Error.Code, code)
	}
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", msg)
}
