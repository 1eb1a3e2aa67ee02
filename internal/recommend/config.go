// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

package recommend

import (
	"fmt"
	"time"

	"github.com/tomtom215/wwte/internal/config"
)

// Config contains the selection engine's bookkeeping limits.
type Config struct {
	// RotationWindow is how many of the most recently shown places are
	// excluded from the next search or reroll.
	RotationWindow int `json:"rotation_window"`

	// HistoryLimit caps the number of shown restaurants kept for rerolls.
	HistoryLimit int `json:"history_limit"`

	// SearchTimeout bounds a single Loading cycle. Zero means no bound
	// beyond the caller's context.
	SearchTimeout time.Duration `json:"search_timeout"`

	// Seed is the random seed for deterministic behavior.
	// If zero, a fixed default seed is used.
	Seed int64 `json:"seed"`
}

// DefaultConfig returns the standard limits: 3 recent places, 20 history entries.
func DefaultConfig() *Config {
	return &Config{
		RotationWindow: 3,
		HistoryLimit:   20,
		SearchTimeout:  30 * time.Second,
		Seed:           0,
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.RotationWindow < 1 {
		return fmt.Errorf("rotation_window must be at least 1, got %d", c.RotationWindow)
	}
	if c.HistoryLimit < 1 {
		return fmt.Errorf("history_limit must be at least 1, got %d", c.HistoryLimit)
	}
	if c.HistoryLimit < c.RotationWindow {
		return fmt.Errorf("history_limit (%d) must not be smaller than rotation_window (%d)", c.HistoryLimit, c.RotationWindow)
	}
	if c.SearchTimeout < 0 {
		return fmt.Errorf("search_timeout must not be negative, got %s", c.SearchTimeout)
	}
	return nil
}

// ConfigFromSettings builds an engine config from the loaded selection
// settings. Zero values fall back to DefaultConfig.
func ConfigFromSettings(s *config.SelectionConfig) *Config {
	cfg := DefaultConfig()
	if s == nil {
		return cfg
	}
	if s.RotationWindow > 0 {
		cfg.RotationWindow = s.RotationWindow
	}
	if s.HistoryLimit > 0 {
		cfg.HistoryLimit = s.HistoryLimit
	}
	if s.SearchTimeout > 0 {
		cfg.SearchTimeout = s.SearchTimeout
	}
	cfg.Seed = s.Seed
	return cfg
}
