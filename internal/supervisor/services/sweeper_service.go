// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

package services

import (
	"context"
	"time"
)

// SessionSweeper removes idle sessions and reports how many it removed.
type SessionSweeper interface {
	Sweep() int
}

// SessionSweeperService calls Sweep every interval.
type SessionSweeperService struct {
	sweeper  SessionSweeper
	interval time.Duration
}

// NewSessionSweeperService creates the service. A non-positive interval
// defaults to one minute.
func NewSessionSweeperService(sweeper SessionSweeper, interval time.Duration) *SessionSweeperService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &SessionSweeperService{sweeper: sweeper, interval: interval}
}

// Serve implements suture.Service.
func (s *SessionSweeperService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.sweeper.Sweep()
		}
	}
}

func (s *SessionSweeperService) String() string {
	return "session-sweeper"
}
