// Package httpapi exposes teams, players and cached history translations over HTTP.
package httpapi

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ZaguanLabs/teamtl"
	"github.com/ZaguanLabs/teamtl/store"
)

// TeamStore is the team and player storage the API serves from.
type TeamStore interface {
	teamtl.EntityStore
	store.Writer
	Players(ctx context.Context, teamID int64, filter store.PlayerFilter) ([]teamtl.Player, error)
}

// Server wraps the HTTP handlers.
type Server struct {
	service  *teamtl.Service
	teams    TeamStore
	router   *mux.Router
	logger   *slog.Logger
	gatherer prometheus.Gatherer
	timeout  time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithGatherer exposes the gatherer's metrics on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithTimeout bounds each request's context.
func WithTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.timeout = d
	}
}

// NewServer creates a Server and registers its routes.
func NewServer(service *teamtl.Service, teams TeamStore, opts ...Option) *Server {
	s := &Server{
		service: service,
		teams:   teams,
		router:  mux.NewRouter(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.setupRoutes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}
