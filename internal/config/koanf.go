// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/wwte/config.yaml",
	"/etc/wwte/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultPlacesBaseURL is the Google Places web service root.
const DefaultPlacesBaseURL = "https://maps.googleapis.com/maps/api/place"

// Defaults returns the built-in configuration before any file or
// environment layer is applied.
func Defaults() *Config {
	return defaultConfig()
}

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			Timeout:         60 * time.Second, // must cover a full multi-page search
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Places: PlacesConfig{
			APIKey:                "",
			BaseURL:               DefaultPlacesBaseURL,
			Language:              "zh-TW",
			MaxPages:              3,
			TargetCount:           20,
			PageDelay:             1500 * time.Millisecond,
			RequestTimeout:        10 * time.Second,
			MaxRetries:            3,
			RetryBaseDelay:        time.Second,
			RateLimit:             10,
			RateBurst:             20,
			DetailConcurrency:     8,
			DetailCacheSize:       2000,
			DetailCacheTTL:        24 * time.Hour,
			PhotoMaxWidth:         800,
			CircuitBreakerEnabled: true,
		},
		Selection: SelectionConfig{
			RotationWindow: 3,
			HistoryLimit:   20,
			SearchTimeout:  30 * time.Second,
			Seed:           0,
		},
		Preferences: PreferencesConfig{
			Backend:        "badger",
			Path:           "/data/preferences",
			KeyPrefix:      "wwte:",
			RedisAddr:      "localhost:6379",
			RedisPassword:  "",
			RedisDB:        0,
			PersistTimeout: 5 * time.Second,
		},
		Sessions: SessionsConfig{
			MaxSessions:   10000,
			IdleTimeout:   30 * time.Minute,
			SweepInterval: time.Minute,
		},
		API: APIConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			MaxBodyBytes:      64 << 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// GOOGLE_PLACES_API_KEY -> places.api_key
	// HTTP_PORT -> server.port
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"api.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue // unset, or already a slice from YAML/defaults
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Server mappings
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",

	// Places mappings
	"google_places_api_key":          "places.api_key",
	"places_base_url":                "places.base_url",
	"places_language":                "places.language",
	"places_max_pages":               "places.max_pages",
	"places_target_count":            "places.target_count",
	"places_page_delay":              "places.page_delay",
	"places_request_timeout":         "places.request_timeout",
	"places_max_retries":             "places.max_retries",
	"places_retry_base_delay":        "places.retry_base_delay",
	"places_rate_limit":              "places.rate_limit",
	"places_rate_burst":              "places.rate_burst",
	"places_detail_concurrency":      "places.detail_concurrency",
	"places_detail_cache_size":       "places.detail_cache_size",
	"places_detail_cache_ttl":        "places.detail_cache_ttl",
	"places_photo_max_width":         "places.photo_max_width",
	"places_circuit_breaker_enabled": "places.circuit_breaker_enabled",

	// Selection mappings
	"selection_rotation_window": "selection.rotation_window",
	"selection_history_limit":   "selection.history_limit",
	"selection_search_timeout":  "selection.search_timeout",
	"selection_seed":            "selection.seed",

	// Preference store mappings
	"preferences_backend":         "preferences.backend",
	"preferences_path":            "preferences.path",
	"preferences_key_prefix":      "preferences.key_prefix",
	"preferences_persist_timeout": "preferences.persist_timeout",
	"redis_addr":                  "preferences.redis_addr",
	"redis_password":              "preferences.redis_password",
	"redis_db":                    "preferences.redis_db",

	// Session mappings
	"sessions_max":            "sessions.max_sessions",
	"sessions_idle_timeout":   "sessions.idle_timeout",
	"sessions_sweep_interval": "sessions.sweep_interval",

	// API mappings
	"cors_origins":        "api.cors_origins",
	"rate_limit_requests": "api.rate_limit_reqs",
	"rate_limit_window":   "api.rate_limit_window",
	"disable_rate_limit":  "api.rate_limit_disabled",
	"api_max_body_bytes":  "api.max_body_bytes",

	// Logging mappings
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Unmapped variables return "" and are skipped, so unrelated environment
// variables never pollute the config.
//
// Examples:
//   - GOOGLE_PLACES_API_KEY -> places.api_key
//   - HTTP_PORT -> server.port
//   - PREFERENCES_BACKEND -> preferences.backend
//   - REDIS_ADDR -> preferences.redis_addr
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
