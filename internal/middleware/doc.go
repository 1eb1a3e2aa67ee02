// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

/*
Package middleware provides the HTTP middleware WWTE layers under the chi
router's own stack.

Key Components:

  - RequestID: accepts or generates X-Request-ID and stores it in the
    logging context so logging.Ctx tags every line
  - PrometheusMetrics: request count, duration and in-flight gauge, labelled
    by chi route pattern rather than raw path
  - Compression: pooled gzip writers; WebSocket upgrades pass through
  - PerformanceMonitor: sliding window of request durations with
    percentile stats and slow-request warnings

The functions use the http.HandlerFunc shape; the api package adapts them
for chi's r.Use. Wrapped response writers implement http.Hijacker so the
WebSocket route can sit behind them.
*/
package middleware
