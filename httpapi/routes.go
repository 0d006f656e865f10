package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) setupRoutes() {
	s.router.Use(s.logRequests)
	if s.timeout > 0 {
		s.router.Use(s.withTimeout)
	}

	s.router.HandleFunc("/health", s.handleHealth).Methods("GET", "HEAD")

	if s.gatherer != nil {
		s.router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods("GET")
	}

	s.router.HandleFunc("/teams/{teamId}", s.handleGetTeam).Methods("GET")
	s.router.HandleFunc("/teams/{teamId}", s.handlePutTeam).Methods("PUT")
	s.router.HandleFunc("/teams/{teamId}/players", s.handleGetPlayers).Methods("GET")
	s.router.HandleFunc("/teams/{teamId}/translate", s.handleTranslation).Methods("GET")
	s.router.HandleFunc("/teams/{teamId}/translation", s.handleTranslation).Methods("GET")
	s.router.HandleFunc("/teams/{teamId}/translations", s.handleTranslations).Methods("GET")

	s.router.NotFoundHandler = http.HandlerFunc(handleNotFound)
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

func (s *Server) withTimeout(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
