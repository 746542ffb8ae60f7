// Package fakeshop serves an in-memory imitation of the shop's HTTP API for
// local development and end-to-end tests.
package fakeshop

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gurkerl-cli/internal/logging"
)

// Server wraps the HTTP server setup.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// New builds a Server around store.
func New(addr string, logger *slog.Logger, store *Store) *Server {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           Handler(logger, store),
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Handler exposes the router, e.g. for httptest servers.
func Handler(logger *slog.Logger, store *Store) http.Handler {
	if logger == nil {
		logger = logging.Nop()
	}
	gin.SetMode(gin.ReleaseMode)
	return buildRouter(logger, store)
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	s.logger.Info("starting http server", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
