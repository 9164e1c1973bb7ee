// Package httpapi exposes the user registry over REST: CRUD, table stats,
// the binary export snapshot and the verification public key.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/rosterkeeper/internal/cryptox"
	"github.com/dmitrijs2005/rosterkeeper/internal/logging"
	sc "github.com/dmitrijs2005/rosterkeeper/internal/server/config"
	"github.com/dmitrijs2005/rosterkeeper/internal/server/exports"
	"github.com/dmitrijs2005/rosterkeeper/internal/server/users"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

type Server struct {
	config  *sc.Config
	users   *users.Service
	exports *exports.Service
	keys    *cryptox.KeyManager
	logger  logging.Logger
}

func NewServer(cfg *sc.Config, us *users.Service, es *exports.Service, keys *cryptox.KeyManager, logger logging.Logger) *Server {
	return &Server{
		config:  cfg,
		users:   us,
		exports: es,
		keys:    keys,
		logger:  logger.With("module", "httpapi"),
	}
}

// Router assembles the chi router with CORS and all routes. Split out from
// Run so tests can drive it through httptest.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.config.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/", s.handleCreateUser)
			r.Get("/", s.handleListUsers)
			r.Get("/stats", s.handleStats)
			r.Get("/export", s.handleExport)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetUser)
				r.Patch("/", s.handleUpdateUser)
				r.Delete("/", s.handleDeleteUser)
			})
		})
		r.Get("/public-key", s.handlePublicKey)
	})
	r.Get("/healthz", s.handleHealthz)

	return r
}

// Run serves the API until ctx is cancelled, then drains in-flight requests
// within the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.EndpointAddr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.config.EndpointAddr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
