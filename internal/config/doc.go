// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

/*
Package config provides centralized configuration management for WWTE.

Configuration is layered with Koanf v2: built-in defaults, then an optional
YAML file (CONFIG_PATH, ./config.yaml, /etc/wwte/config.yaml), then mapped
environment variables. Only the variables listed below are read; anything
else in the environment is ignored.

# Environment Variables

HTTP Server (ServerConfig):
  - HTTP_HOST: Bind address (default: 0.0.0.0)
  - HTTP_PORT: Listen port (default: 8080)
  - HTTP_TIMEOUT: Per-request timeout (default: 60s)
  - HTTP_SHUTDOWN_TIMEOUT: Graceful shutdown budget (default: 10s)
  - ENVIRONMENT: development, staging, production (default: development)

Google Places (PlacesConfig):
  - GOOGLE_PLACES_API_KEY: API key (required to search)
  - PLACES_BASE_URL: Service root (default: https://maps.googleapis.com/maps/api/place)
  - PLACES_LANGUAGE: Result language (default: zh-TW)
  - PLACES_MAX_PAGES: Nearby-search pages per search, 1-3 (default: 3)
  - PLACES_TARGET_COUNT: Stop paging at this many candidates (default: 20)
  - PLACES_PAGE_DELAY: Wait before each continuation page (default: 1.5s)
  - PLACES_REQUEST_TIMEOUT: Per-request timeout (default: 10s)
  - PLACES_MAX_RETRIES / PLACES_RETRY_BASE_DELAY: 429 backoff (default: 3 / 1s)
  - PLACES_RATE_LIMIT / PLACES_RATE_BURST: Outbound req/s (default: 10 / 20)
  - PLACES_DETAIL_CONCURRENCY: Parallel details lookups (default: 8)
  - PLACES_DETAIL_CACHE_SIZE / PLACES_DETAIL_CACHE_TTL (default: 2000 / 24h)
  - PLACES_PHOTO_MAX_WIDTH: Photo URL width (default: 800)
  - PLACES_CIRCUIT_BREAKER_ENABLED (default: true)

Selection (SelectionConfig):
  - SELECTION_ROTATION_WINDOW (default: 3)
  - SELECTION_HISTORY_LIMIT (default: 20)
  - SELECTION_SEARCH_TIMEOUT (default: 30s)
  - SELECTION_SEED: Fixed random seed, 0 for the built-in default

Preferences (PreferencesConfig):
  - PREFERENCES_BACKEND: memory, badger, redis (default: badger)
  - PREFERENCES_PATH: Badger directory (default: /data/preferences)
  - PREFERENCES_KEY_PREFIX (default: wwte:)
  - PREFERENCES_PERSIST_TIMEOUT (default: 5s)
  - REDIS_ADDR / REDIS_PASSWORD / REDIS_DB

Sessions (SessionsConfig):
  - SESSIONS_MAX (default: 10000)
  - SESSIONS_IDLE_TIMEOUT (default: 30m)
  - SESSIONS_SWEEP_INTERVAL (default: 1m)

API (APIConfig):
  - CORS_ORIGINS: Comma-separated origins (default: *)
  - RATE_LIMIT_REQUESTS / RATE_LIMIT_WINDOW (default: 100 / 1m)
  - DISABLE_RATE_LIMIT (default: false)
  - API_MAX_BODY_BYTES (default: 65536)

Logging (LoggingConfig):
  - LOG_LEVEL: trace, debug, info, warn, error (default: info)
  - LOG_FORMAT: json, console (default: json)
  - LOG_CALLER: true/false (default: false)

# Usage

	cfg, err := config.Load()
	if err != nil {
	    return fmt.Errorf("config: %w", err)
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
*/
package config
