// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

// Package logging provides centralized zerolog-based logging for WWTE.
//
// A single global zerolog logger is configured once from the logging
// section of the config and shared by every component:
//
//   - JSON output for production, console output for development
//   - Request and session IDs propagated through context.Context
//   - An slog.Handler adapter so the supervisor (sutureslog) logs through zerolog
//   - Redaction helpers that keep the Places API key out of log lines
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Msg("Server starting")
//	logging.Error().Err(err).Msg("Operation failed")
//	logging.Ctx(ctx).Info().Str("place_id", id).Msg("restaurant disliked")
//
// Components take a zerolog.Logger by value and add a component field:
//
//	logger := logging.WithComponent("places")
//
// Always terminate log chains with .Msg() or .Send(), and prefer structured
// fields over Msgf.
package logging
