// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

/*
Package supervisor runs the server's long-lived services under suture v4.

The tree has three layers so a failure in one does not restart the others:

	RootSupervisor ("wwte")
	├── MessagingSupervisor ("messaging-layer")
	│   └── WebSocketHubService
	├── MaintenanceSupervisor ("maintenance-layer")
	│   └── SessionSweeperService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services restart with suture's backoff; the defaults match
suture's own (threshold 5, decay 30 s, backoff 15 s). Supervisor events are
logged through sutureslog into the zerolog pipeline via
logging.NewSlogLogger.

Cancelling the context passed to Serve stops every service; services that
have not returned within ShutdownTimeout are listed by
UnstoppedServiceReport.
*/
package supervisor
