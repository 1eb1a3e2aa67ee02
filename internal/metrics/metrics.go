// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus Metrics Integration for Production Observability
// This package provides instrumentation for:
// - API endpoint latency and throughput
// - Places API calls (search pages, detail lookups, fallbacks)
// - Selection engine picks and state transitions
// - Cache efficiency
// - Preference persistence
// - Sessions and WebSocket connections

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}, // Picks include upstream paging delays
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Places API Metrics
	PlacesRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "places_requests_total",
			Help: "Total number of Places API requests",
		},
		[]string{"endpoint", "outcome"}, // endpoint: "nearby", "details"; outcome: "ok", "zero_results", "error"
	)

	PlacesRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "places_request_duration_seconds",
			Help:    "Places API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	PlacesDetailFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "places_detail_fallbacks_total",
			Help: "Candidates returned without details because the detail lookup failed",
		},
	)

	PlacesCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "places_search_candidates",
			Help:    "Number of candidates returned per search after filtering",
			Buckets: []float64{0, 1, 2, 5, 10, 15, 20, 30, 60},
		},
	)

	// Selection Engine Metrics
	SelectionPicksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "selection_picks_total",
			Help: "Total number of restaurants picked",
		},
		[]string{"source"}, // "search" or "history"
	)

	SelectionStateTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "selection_state_transitions_total",
			Help: "Total number of selection engine state transitions",
		},
		[]string{"state"},
	)

	SelectionBusyRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "selection_busy_rejections_total",
			Help: "Events rejected because another event was in flight",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache"},
	)

	// Preference Store Metrics
	PreferenceWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "preference_writes_total",
			Help: "Total number of preference records written to the backend",
		},
		[]string{"record"},
	)

	PreferencePersistFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "preference_persist_failures_total",
			Help: "Preference writes that failed and were kept in memory only",
		},
		[]string{"record"},
	)

	// Session Metrics
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sessions_active",
			Help: "Current number of selection sessions",
		},
	)

	SessionsExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sessions_expired_total",
			Help: "Total number of sessions removed after their idle TTL",
		},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections_active",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_dropped_total",
			Help: "Messages dropped because a client or the hub buffer was full",
		},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordPlacesRequest records a Places API call.
func RecordPlacesRequest(endpoint, outcome string, duration time.Duration) {
	PlacesRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
	PlacesRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordPick records a selection and where its candidate came from.
func RecordPick(source string) {
	SelectionPicksTotal.WithLabelValues(source).Inc()
}

// RecordStateTransition records the state the selection engine entered.
func RecordStateTransition(state string) {
	SelectionStateTransitions.WithLabelValues(state).Inc()
}

// RecordCacheLookup records a cache hit or miss for the named cache.
func RecordCacheLookup(cache string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cache).Inc()
		return
	}
	CacheMisses.WithLabelValues(cache).Inc()
}

// RecordPreferenceWrite records a preference write and whether it reached the backend.
func RecordPreferenceWrite(record string, err error) {
	PreferenceWrites.WithLabelValues(record).Inc()
	if err != nil {
		PreferencePersistFailures.WithLabelValues(record).Inc()
	}
}

// StatusLabel converts an HTTP status code to a metric label.
func StatusLabel(code int) string {
	return strconv.Itoa(code)
}
