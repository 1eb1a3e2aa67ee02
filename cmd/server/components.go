// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

package main

import (
	"context"
	"fmt"

	"github.com/tomtom215/wwte/internal/config"
	"github.com/tomtom215/wwte/internal/logging"
	"github.com/tomtom215/wwte/internal/places"
	"github.com/tomtom215/wwte/internal/preferences"
	"github.com/tomtom215/wwte/internal/recommend"
	"github.com/tomtom215/wwte/internal/session"
)

// initPreferences opens the configured backend and loads saved preferences.
// Load failures inside the store fall back to defaults; only a backend that
// cannot be opened is fatal.
func initPreferences(ctx context.Context, cfg *config.Config) (*preferences.Store, error) {
	backend, err := preferences.OpenBackend(ctx, &cfg.Preferences)
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", cfg.Preferences.Backend, err)
	}

	store, err := preferences.NewStore(ctx, backend,
		preferences.WithKeyPrefix(cfg.Preferences.KeyPrefix),
		preferences.WithPersistTimeout(cfg.Preferences.PersistTimeout),
		preferences.WithLogger(logging.WithComponent("preferences")),
	)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}

	logging.Info().
		Str("backend", cfg.Preferences.Backend).
		Int("favorites", len(store.Favorites())).
		Int("blacklist", len(store.Blacklist())).
		Msg("Preference store ready")
	return store, nil
}

func initPlaces(cfg *config.Config) (*places.Client, error) {
	client, err := places.NewClient(&cfg.Places, places.WithLogger(logging.WithComponent("places")))
	if err != nil {
		return nil, err
	}
	logging.Info().
		Str("language", cfg.Places.Language).
		Int("max_pages", cfg.Places.MaxPages).
		Str("circuit", client.BreakerState()).
		Msg("Places client ready")
	return client, nil
}

func initSessions(cfg *config.Config, searcher recommend.Searcher, prefs *preferences.Store) (*session.Manager, error) {
	return session.NewManager(&cfg.Sessions, recommend.ConfigFromSettings(&cfg.Selection), searcher, prefs,
		session.WithLogger(logging.WithComponent("sessions")),
	)
}
