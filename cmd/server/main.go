// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tomtom215/wwte/internal/api"
	"github.com/tomtom215/wwte/internal/config"
	"github.com/tomtom215/wwte/internal/logging"
	"github.com/tomtom215/wwte/internal/supervisor"
	"github.com/tomtom215/wwte/internal/supervisor/services"
	ws "github.com/tomtom215/wwte/internal/websocket"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// A missing .env is normal outside development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logging.Warn().Err(err).Msg("Failed to read .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	api.Version = version

	logging.Info().
		Str("version", version).
		Str("config", cfg.String()).
		Msg("Starting WWTE with supervisor tree")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	prefs, err := initPreferences(ctx, cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize preference store")
	}
	defer func() {
		if err := prefs.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing preference store")
		}
	}()

	placesClient, err := initPlaces(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize Places client")
	}

	sessions, err := initSessions(cfg, placesClient, prefs)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize session manager")
	}

	wsHub := ws.NewHub()

	handler := api.NewHandler(cfg, sessions, prefs, wsHub, placesClient)
	handler.BindSessionEvents()
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		// Selection events can wait out a full Places search.
		WriteTimeout: cfg.Server.Timeout + cfg.Selection.SearchTimeout,
		IdleTimeout:  60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddMessagingService(services.NewWebSocketHubService(wsHub))
	tree.AddMaintenanceService(services.NewSessionSweeperService(sessions, cfg.Sessions.SweepInterval))
	tree.AddAPIService(services.NewHTTPServerService(server, server.Addr, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("Services added to supervisor tree")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
	}

	logging.Info().Int("active_sessions", sessions.Count()).Msg("Application stopped gracefully")
}
