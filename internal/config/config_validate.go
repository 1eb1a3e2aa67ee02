// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validatePlaces(); err != nil {
		return err
	}

	if err := c.validateSelection(); err != nil {
		return err
	}

	if err := c.validatePreferences(); err != nil {
		return err
	}

	if err := c.validateSessions(); err != nil {
		return err
	}

	if err := c.validateAPI(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateServer validates HTTP listener settings
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

// IsProduction returns true if the application is running in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Environment, "production")
}

// validatePlaces validates the Places client settings. The API key itself is
// checked by the client constructor so commands that never search can run
// without one.
func (c *Config) validatePlaces() error {
	p := &c.Places
	if err := validateHTTPURL(p.BaseURL, "PLACES_BASE_URL"); err != nil {
		return err
	}
	if containsPlaceholder(p.APIKey) {
		return fmt.Errorf("GOOGLE_PLACES_API_KEY contains a placeholder value")
	}
	if p.MaxPages < 1 || p.MaxPages > 3 {
		return fmt.Errorf("PLACES_MAX_PAGES must be between 1 and 3")
	}
	if p.TargetCount < 1 {
		return fmt.Errorf("PLACES_TARGET_COUNT must be at least 1")
	}
	if p.PageDelay < 0 {
		return fmt.Errorf("PLACES_PAGE_DELAY must not be negative")
	}
	if p.RequestTimeout <= 0 {
		return fmt.Errorf("PLACES_REQUEST_TIMEOUT must be positive")
	}
	if p.MaxRetries < 0 {
		return fmt.Errorf("PLACES_MAX_RETRIES must not be negative")
	}
	if p.RateLimit < 0 {
		return fmt.Errorf("PLACES_RATE_LIMIT must not be negative")
	}
	if p.RateLimit > 0 && p.RateBurst < 1 {
		return fmt.Errorf("PLACES_RATE_BURST must be at least 1 when rate limiting is enabled")
	}
	if p.DetailConcurrency < 1 {
		return fmt.Errorf("PLACES_DETAIL_CONCURRENCY must be at least 1")
	}
	if p.PhotoMaxWidth < 1 || p.PhotoMaxWidth > 1600 {
		return fmt.Errorf("PLACES_PHOTO_MAX_WIDTH must be between 1 and 1600")
	}
	return nil
}

// validateSelection validates selection engine limits
func (c *Config) validateSelection() error {
	s := &c.Selection
	if s.RotationWindow < 1 {
		return fmt.Errorf("SELECTION_ROTATION_WINDOW must be at least 1")
	}
	if s.HistoryLimit < s.RotationWindow {
		return fmt.Errorf("SELECTION_HISTORY_LIMIT must not be smaller than SELECTION_ROTATION_WINDOW")
	}
	if s.SearchTimeout < 0 {
		return fmt.Errorf("SELECTION_SEARCH_TIMEOUT must not be negative")
	}
	return nil
}

// validPreferenceBackends defines the allowed preference storage backends
var validPreferenceBackends = map[string]bool{
	"memory": true,
	"badger": true,
	"redis":  true,
}

// validatePreferences validates the preference backend selection
func (c *Config) validatePreferences() error {
	p := &c.Preferences
	if !validPreferenceBackends[p.Backend] {
		return fmt.Errorf("PREFERENCES_BACKEND must be one of: memory, badger, redis")
	}
	switch p.Backend {
	case "badger":
		if p.Path == "" {
			return fmt.Errorf("PREFERENCES_PATH is required when PREFERENCES_BACKEND=badger")
		}
	case "redis":
		if err := validateHostPort(p.RedisAddr, "REDIS_ADDR"); err != nil {
			return err
		}
		if p.RedisDB < 0 {
			return fmt.Errorf("REDIS_DB must not be negative")
		}
	}
	if p.PersistTimeout <= 0 {
		return fmt.Errorf("PREFERENCES_PERSIST_TIMEOUT must be positive")
	}
	return nil
}

// validateSessions validates session registry limits
func (c *Config) validateSessions() error {
	if c.Sessions.MaxSessions < 1 {
		return fmt.Errorf("SESSIONS_MAX must be at least 1")
	}
	if c.Sessions.IdleTimeout < time.Minute {
		return fmt.Errorf("SESSIONS_IDLE_TIMEOUT must be at least 1m")
	}
	if c.Sessions.SweepInterval <= 0 {
		return fmt.Errorf("SESSIONS_SWEEP_INTERVAL must be positive")
	}
	return nil
}

// Rate limit constants
const (
	minRateLimitRequests = 1           // Minimum 1 request allowed
	maxRateLimitRequests = 100000      // Maximum 100K requests per window
	minRateLimitWindow   = time.Second // Minimum 1 second window
	maxRateLimitWindow   = time.Hour   // Maximum 1 hour window
)

// validateAPI validates CORS and rate limiting bounds.
func (c *Config) validateAPI() error {
	if len(c.API.CORSOrigins) == 0 {
		return fmt.Errorf("CORS_ORIGINS must list at least one origin")
	}
	if c.API.MaxBodyBytes < 1 {
		return fmt.Errorf("API_MAX_BODY_BYTES must be positive")
	}
	if c.API.RateLimitDisabled {
		return nil
	}
	if c.API.RateLimitReqs < minRateLimitRequests || c.API.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.API.RateLimitWindow < minRateLimitWindow || c.API.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// ShouldWarnAboutCORS returns true when wildcard CORS is used in production.
func (c *Config) ShouldWarnAboutCORS() bool {
	if !c.IsProduction() {
		return false
	}
	for _, origin := range c.API.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// placeholderPatterns defines common placeholder patterns that indicate
// the user forgot to set a real value.
var placeholderPatterns = []string{
	"REPLACE",
	"CHANGEME",
	"CHANGE_ME",
	"YOUR_API_KEY",
	"YOUR_KEY",
	"PLACEHOLDER",
}

// containsPlaceholder checks if a value contains common placeholder patterns.
func containsPlaceholder(value string) bool {
	upperValue := strings.ToUpper(value)
	for _, pattern := range placeholderPatterns {
		if strings.Contains(upperValue, pattern) {
			return true
		}
	}
	return false
}
