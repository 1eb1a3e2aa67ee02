// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

/*
Package main is the entry point for the WWTE server.

WWTE answers "where should we eat?" for a browser session: it searches
Google Places around the client's location, filters by the user's saved
preferences, and picks one restaurant at random, weighted by rating and
review count. Recently shown places rotate out so repeated picks stay fresh.

# Application Architecture

The server runs under Suture v4 process supervision:

	RootSupervisor ("wwte")
	├── MessagingSupervisor ("messaging-layer")
	│   └── WebSocket Hub (session state push)
	├── MaintenanceSupervisor ("maintenance-layer")
	│   └── Session Sweeper (idle session expiry)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (Chi router)

Component initialization order:

 1. Environment: optional .env file (godotenv)
 2. Configuration: Koanf v2 with defaults, config.yaml and environment
 3. Logging: zerolog with JSON/console output modes
 4. Preferences: memory, BadgerDB or Redis backend
 5. Places client: rate limited, circuit breaker protected
 6. Session manager and WebSocket hub
 7. HTTP handlers and router
 8. Supervisor tree

# Configuration

Required:
  - GOOGLE_PLACES_API_KEY: Places API key

Common:
  - HTTP_PORT: listen port (default 8080)
  - PREFERENCES_BACKEND: memory, badger or redis (default badger)
  - PREFERENCES_PATH: badger data directory
  - CORS_ORIGINS: comma-separated browser origins
  - LOG_LEVEL, LOG_FORMAT

See internal/config for the full list.

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains
in-flight requests, WebSocket clients receive a close frame, and pending
preference writes finish before the backend is closed.
*/
package main
