// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto at
package init, so importing the package is enough to expose them.

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

API Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
  - api_active_requests: Active requests (gauge)

Places Metrics:
  - places_requests_total: Upstream calls (counter)
    Labels: endpoint (nearby, details), outcome (ok, zero_results, error)
  - places_request_duration_seconds: Upstream latency (histogram)
  - places_detail_fallbacks_total: Candidates returned without details (counter)
  - places_search_candidates: Candidates per search (histogram)

Selection Metrics:
  - selection_picks_total: Picks by source (search, history)
  - selection_state_transitions_total: Engine transitions by target state
  - selection_busy_rejections_total: Events rejected while another was in flight

Circuit Breaker Metrics:
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total: Labels name, result
  - circuit_breaker_consecutive_failures
  - circuit_breaker_state_transitions_total

Other:
  - cache_hits_total / cache_misses_total: Labels cache
  - preference_writes_total / preference_persist_failures_total: Labels record
  - sessions_active, sessions_expired_total
  - websocket_connections_active, websocket_messages_dropped_total

# Usage

	start := time.Now()
	resp, err := client.Do(req)
	metrics.RecordPlacesRequest("nearby", outcome, time.Since(start))
*/
package metrics
