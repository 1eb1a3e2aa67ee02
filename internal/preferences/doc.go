// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

// Package preferences owns the user's search filters, favorites and
// blacklist.
//
// A Store keeps the authoritative copy in memory and writes each changed
// record to a Backend as JSON:
//
//	<prefix>filters    SearchFilters
//	<prefix>favorites  []string
//	<prefix>blacklist  []string
//
// Favorites and blacklist are mutually exclusive: putting an ID in one set
// takes it out of the other. Backend failures never reach the caller; they
// are logged and counted in preference_persist_failures_total and the
// in-memory value stays in effect. Writes happen on a background goroutine,
// so a slow backend never holds up a caller; Close flushes whatever is queued.
//
// Backends:
//
//	memory  process-local, for tests and the CLI's --ephemeral mode
//	badger  embedded BadgerDB directory (default)
//	redis   shared Redis instance, for several server replicas
package preferences
