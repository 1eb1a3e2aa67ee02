// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

/*
Package api exposes selection sessions and preferences over HTTP.

Routes (chi):

	GET    /api/v1/health                         status, uptime, session and client counts
	GET    /api/v1/health/live                    liveness
	GET    /api/v1/health/ready                   readiness (Places circuit not open)
	GET    /api/v1/health/performance             per-endpoint latency stats

	POST   /api/v1/sessions                       create a session (Idle)
	GET    /api/v1/sessions/{sessionID}           current view
	DELETE /api/v1/sessions/{sessionID}           end the session
	POST   /api/v1/sessions/{sessionID}/location  {"latitude":..,"longitude":..} or {"denied":true}
	POST   /api/v1/sessions/{sessionID}/refresh   new search around the current origin
	POST   /api/v1/sessions/{sessionID}/reroll    pick again, preferring history
	POST   /api/v1/sessions/{sessionID}/dislike   blacklist the current pick and search again
	GET    /api/v1/sessions/{sessionID}/ws        WebSocket state stream

	GET    /api/v1/preferences                    filters, favorites and blacklist
	GET    /api/v1/preferences/filters
	PUT    /api/v1/preferences/filters            partial update merged over current filters
	DELETE /api/v1/preferences/filters            reset to defaults, keeping excluded place IDs
	POST   /api/v1/preferences/favorites/{placeID}  toggle
	POST   /api/v1/preferences/blacklist/{placeID}  toggle

	GET    /metrics                               Prometheus

Every JSON response uses the models.APIResponse envelope. Selection events
are serialized per session: a second event while one is running gets 409
SELECTION_BUSY rather than queueing.

Middleware order: request ID, real IP, panic recovery, CORS, then per-group
rate limiting, security headers, metrics and gzip.
*/
package api
