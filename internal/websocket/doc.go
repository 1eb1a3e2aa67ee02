// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

/*
Package websocket pushes selection state to browsers as it changes.

Every Client is bound to one selection session. The Hub keeps an index of
clients per session and delivers a session's messages only to its own
clients:

	        ┌──────────┐
	        │   Hub    │
	        └────┬─────┘
	   session A │        session B
	   ┌─────────┴──┐     ┌────────┐
	   │ C1      C2 │     │   C3   │
	   └────────────┘     └────────┘

Each client runs two goroutines: readPump answers application-level pings
and detects disconnects, writePump drains the send queue and sends
protocol pings every pingPeriod.

Message types:

	state          engine snapshot view for the session
	session_closed the session was deleted or expired; the server then closes
	ping / pong    application-level keepalive

The hub never blocks a producer: when the broadcast queue or a client's
send queue is full the message is dropped and counted in
websocket_messages_dropped_total, and a client with a full queue is
disconnected.
*/
package websocket
