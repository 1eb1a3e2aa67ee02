// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

// Package services adapts server components to suture.Service.
//
//	HTTPServerService      ListenAndServe/Shutdown -> Serve(ctx)
//	WebSocketHubService    Hub.RunWithContext      -> Serve(ctx)
//	SessionSweeperService  periodic Manager.Sweep  -> Serve(ctx)
//
// Each wrapper returns ctx.Err() on a requested stop and a wrapped error on
// failure, so the supervisor can tell the two apart.
package services
