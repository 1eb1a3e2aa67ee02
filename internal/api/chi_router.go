// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/wwte/internal/middleware"
)

// chiMiddleware adapts http.HandlerFunc middleware to Chi's func(http.Handler) http.Handler.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// Router wires handlers and middleware into a chi mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router for handler using its API configuration.
func NewRouter(handler *Handler) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(NewChiMiddlewareConfig(&handler.config.API)),
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	h := router.handler
	r := chi.NewRouter()

	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, CodeNotFound, "route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "method not allowed", nil)
	})

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitCustom(RateLimitHealth))
		r.Use(APISecurityHeaders())
		r.Get("/", h.Health)
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
		r.Get("/performance", h.HealthPerformance)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(chiMiddleware(h.perfMon.Middleware))

		r.Route("/sessions", func(r chi.Router) {
			r.With(router.chiMiddleware.RateLimitCustom(RateLimitSessionCreate)).Post("/", h.CreateSession)

			r.Route("/{sessionID}", func(r chi.Router) {
				r.With(router.chiMiddleware.RateLimitCustom(RateLimitWebSocket)).Get("/ws", h.SessionWebSocket)

				r.Group(func(r chi.Router) {
					r.Use(router.chiMiddleware.RateLimit())
					r.Use(chiMiddleware(middleware.Compression))
					r.Get("/", h.GetSession)
					r.Delete("/", h.DeleteSession)
					r.Post("/location", h.SetLocation)
					r.Post("/refresh", h.Refresh)
					r.Post("/reroll", h.Reroll)
					r.Post("/dislike", h.Dislike)
				})
			})
		})

		r.Route("/preferences", func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())
			r.Use(chiMiddleware(middleware.Compression))
			r.Get("/", h.GetPreferences)
			r.Get("/filters", h.GetFilters)
			r.Put("/filters", h.UpdateFilters)
			r.Delete("/filters", h.ResetFilters)
			r.Post("/favorites/{placeID}", h.ToggleFavorite)
			r.Post("/blacklist/{placeID}", h.ToggleBlacklist)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
