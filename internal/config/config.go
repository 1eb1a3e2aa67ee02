// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

package config

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml) for persistent settings
//  3. Environment Variables: Override any setting via environment variables
//
// Configuration Categories:
//
//  1. Upstream:
//     - Places: Google Places API credentials, paging and fan-out limits
//
//  2. Selection:
//     - Selection: Rotation window, history size, search timeout
//     - Preferences: Favorites/blacklist/filters storage backend
//     - Sessions: Per-client selection session limits
//
//  3. Serving:
//     - Server: HTTP listener and timeouts
//     - API: CORS and rate limiting
//
//  4. Observability:
//     - Logging: Log levels and output formats
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	client, err := places.NewClient(&cfg.Places)
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Places      PlacesConfig      `koanf:"places"`
	Selection   SelectionConfig   `koanf:"selection"`
	Preferences PreferencesConfig `koanf:"preferences"`
	Sessions    SessionsConfig    `koanf:"sessions"`
	API         APIConfig         `koanf:"api"`
	Logging     LoggingConfig     `koanf:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // "development", "staging", "production"
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// PlacesConfig holds Google Places API client settings.
type PlacesConfig struct {
	// APIKey is the Places API key. Required by the server and the pick command.
	APIKey string `koanf:"api_key"`

	// BaseURL is the Places web service root, without a trailing path
	// component per endpoint. Overridable for tests and proxies.
	BaseURL string `koanf:"base_url"`

	// Language is sent with every request. Default: zh-TW
	Language string `koanf:"language"`

	// MaxPages bounds how many nearby-search pages are fetched per search.
	MaxPages int `koanf:"max_pages"`

	// TargetCount stops pagination once this many candidates survive filtering.
	TargetCount int `koanf:"target_count"`

	// PageDelay is waited before each continuation page; the page token
	// is not valid immediately after it is issued.
	PageDelay time.Duration `koanf:"page_delay"`

	RequestTimeout time.Duration `koanf:"request_timeout"`
	MaxRetries     int           `koanf:"max_retries"`
	RetryBaseDelay time.Duration `koanf:"retry_base_delay"`

	// RateLimit is the outbound request rate in requests per second. Zero disables it.
	RateLimit float64 `koanf:"rate_limit"`
	RateBurst int     `koanf:"rate_burst"`

	// DetailConcurrency bounds parallel place-details lookups per search.
	DetailConcurrency int `koanf:"detail_concurrency"`

	DetailCacheSize int           `koanf:"detail_cache_size"`
	DetailCacheTTL  time.Duration `koanf:"detail_cache_ttl"`

	PhotoMaxWidth int `koanf:"photo_max_width"`

	CircuitBreakerEnabled bool `koanf:"circuit_breaker_enabled"`
}

// SelectionConfig holds selection engine limits.
type SelectionConfig struct {
	RotationWindow int           `koanf:"rotation_window"`
	HistoryLimit   int           `koanf:"history_limit"`
	SearchTimeout  time.Duration `koanf:"search_timeout"`
	Seed           int64         `koanf:"seed"` // 0 uses the engine's fixed default
}

// PreferencesConfig selects and configures the preference storage backend.
type PreferencesConfig struct {
	// Backend is one of: memory, badger, redis. Default: badger
	Backend string `koanf:"backend"`

	// Path is the badger data directory.
	Path string `koanf:"path"`

	// KeyPrefix namespaces the filters/favorites/blacklist records.
	KeyPrefix string `koanf:"key_prefix"`

	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	// PersistTimeout bounds each background write to the backend.
	PersistTimeout time.Duration `koanf:"persist_timeout"`
}

// SessionsConfig bounds the per-client selection sessions.
type SessionsConfig struct {
	MaxSessions   int           `koanf:"max_sessions"`
	IdleTimeout   time.Duration `koanf:"idle_timeout"`
	SweepInterval time.Duration `koanf:"sweep_interval"`
}

// APIConfig holds HTTP API middleware settings.
type APIConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	MaxBodyBytes      int64         `koanf:"max_body_bytes"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// Load reads configuration using a layered approach:
//  1. Built-in defaults
//  2. Config file (config.yaml if exists, or path specified in CONFIG_PATH env var)
//  3. Environment variables
//
// See LoadWithKoanf() for the underlying implementation.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// String renders a redacted summary suitable for startup logs.
func (c *Config) String() string {
	key := "unset"
	if c.Places.APIKey != "" {
		key = "set"
	}
	return fmt.Sprintf("server=%s places.base_url=%s places.api_key=%s preferences.backend=%s sessions.max=%d",
		c.Server.Addr(), c.Places.BaseURL, key, c.Preferences.Backend, c.Sessions.MaxSessions)
}
