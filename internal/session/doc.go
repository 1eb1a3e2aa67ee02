// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

// Package session keeps one selection engine per client session.
//
// Sessions live in a bounded LRU keyed by a random UUID. Every access
// extends a session's idle deadline; Sweep removes sessions that passed it.
// When the LRU is full the least recently used session is evicted. Expired,
// evicted and deleted sessions are reported to OnClose observers so
// connected WebSocket clients can be told.
package session
