package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shelfwise/auth-service/internal/logging"
)

const shutdownTimeout = 5 * time.Second

// Server wraps an http.Server whose lifetime follows the passed context.
type Server struct {
	address string
	engine  *gin.Engine
	logger  logging.Logger
}

// NewServer constructs the HTTP server.
func NewServer(address string, engine *gin.Engine, logger logging.Logger) *Server {
	return &Server{address: address, engine: engine, logger: logger.With("module", "http_server")}
}

// Run starts serving and blocks until the context is cancelled or the
// listener fails. On cancellation it drains in-flight requests within
// shutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.engine,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "error shutting down HTTP server", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
