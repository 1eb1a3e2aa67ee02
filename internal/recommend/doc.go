// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

// Package recommend implements restaurant selection and rotation.
//
// # Architecture
//
// The package has two layers:
//
//   - Choose: a generic weighted random chooser over parallel item and
//     weight slices. Candidates are weighted by Weight, which favours high
//     ratings backed by many reviews: rating * ln(reviews + 1).
//   - Engine: a per-session state machine that fetches candidates through a
//     Searcher, picks one, and keeps a short rotation window and a longer
//     history so consecutive picks don't repeat.
//
// # States
//
//	Idle ──SetLocation──▶ Loading ──▶ Ready ──Reroll (history)──▶ Ready
//	                         │           │
//	                         ▼           └─Dislike/Refresh/Reroll─▶ Loading
//	                       Error
//
//	any ──DenyLocation──▶ Blocked
//
// A location change resets the rotation window and history before loading.
// Reroll prefers candidates already in history that are neither in the
// rotation window nor blacklisted, and only searches again when none are
// left. Dislike blacklists the current pick and always searches again.
//
// # Design Principles
//
//   - Deterministic: the engine draws from a seeded PCG source, so the same
//     seed and candidates produce the same picks
//   - One event at a time: an event arriving while another is in flight is
//     rejected with ErrBusy instead of queueing
//   - Failures are state: upstream errors become the Error state with a
//     message; only misuse (ErrBusy, ErrNoLocation, ErrNoCurrent) is returned
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), placesClient, prefStore, logger)
//	snap, err := engine.SetLocation(ctx, geo.Coordinate{Latitude: 25.033, Longitude: 121.5654})
//	snap, err = engine.Reroll(ctx)
//
// # Thread Safety
//
// Engine is safe for concurrent use. Snapshot never blocks on an in-flight
// search.
package recommend
