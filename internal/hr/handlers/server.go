package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gartstein/hrms/internal/hr/auth"
	"github.com/gartstein/hrms/internal/hr/obs"
	"go.uber.org/zap"
)

// Server wraps the HTTP server, middleware chain and route table.
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	logger     *zap.Logger
	endpoint   string
}

// NewServer constructs a Server listening on the given port.
func NewServer(port int, logger *zap.Logger) *Server {
	return &Server{
		httpServer: &http.Server{},
		mux:        http.NewServeMux(),
		logger:     logger,
		endpoint:   fmt.Sprintf(":%d", port),
	}
}

// Mux exposes the route table so handlers can register themselves.
func (s *Server) Mux() *http.ServeMux {
	return s.mux
}

// RegisterDefaultRoutes adds the health and metrics endpoints.
func (s *Server) RegisterDefaultRoutes() {
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	s.mux.Handle("GET /metrics", obs.Handler())
}

// Finalize wires the middleware chain around the route table: request
// metrics outermost, then token validation on mutating routes.
func (s *Server) Finalize(jwtSecret string, ensurer auth.ProfileEnsurer) {
	var handler http.Handler = s.mux
	handler = auth.HTTPMiddleware(handler, jwtSecret, ensurer)
	handler = obs.Instrument(handler)
	handler = s.logRequests(handler)

	s.httpServer.Handler = handler
	s.httpServer.Addr = s.endpoint
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// Start runs the HTTP server, returning on the first serve error.
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", zap.String("endpoint", s.endpoint))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP serve error: %w", err)
	}
	return nil
}

// Stop shuts the server down, letting in-flight requests finish.
func (s *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP shutdown error", zap.Error(err))
	}
}
