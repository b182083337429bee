// Copyright (c) 2026 UzEvently. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/uzevently/internal/auth"
	"github.com/taibuivan/uzevently/internal/booking"
	"github.com/taibuivan/uzevently/internal/catalog"
	"github.com/taibuivan/uzevently/internal/checkout"
	"github.com/taibuivan/uzevently/internal/platform/config"
	"github.com/taibuivan/uzevently/internal/platform/constants"
	"github.com/taibuivan/uzevently/internal/platform/kv"
	"github.com/taibuivan/uzevently/internal/platform/middleware"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler. It returns 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler. It returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles login, logout, the session and both wizards.
	Auth *auth.Handler

	// Catalog serves venues, rooms, reviews and favourites.
	Catalog *catalog.Handler

	// Booking answers availability checks and the admin booking list.
	Booking *booking.Handler

	// Checkout drives payment and receipt download.
	Checkout *checkout.Handler
}

// Identity groups what the per-client middleware needs.
type Identity struct {
	Tokens  middleware.ClientTokenService
	Storage kv.Storage
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, identity Identity, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(cfg, cfg.AllowedOrigins))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Probes carry no client cookie.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.ClientIdentity(identity.Tokens, cfg.IsProduction()))
		api.Use(middleware.LoadSession(identity.Storage))

		api.Mount("/auth", h.Auth.Routes())
		api.Mount("/venues", h.Catalog.Routes())
		api.Mount("/favorites", h.Catalog.FavoritesRoutes())
		api.Mount("/availability", h.Booking.Routes())
		api.Mount("/checkouts", h.Checkout.Routes())
		api.Mount("/admin/bookings", h.Booking.AdminRoutes())
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the root router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
