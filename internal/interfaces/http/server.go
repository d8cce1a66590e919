package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/turtacn/RxGene-Intelligence/internal/config"
	"github.com/turtacn/RxGene-Intelligence/internal/infrastructure/monitoring/logging"
)

// Server wraps http.Server with the timeouts from configuration and a
// graceful shutdown path.
type Server struct {
	srv    *http.Server
	logger logging.Logger
	port   int
}

// NewServer builds the server around an already-assembled handler.
func NewServer(cfg config.ServerConfig, handler http.Handler, logger logging.Logger) *Server {
	return &Server{
		logger: logger,
		port:   cfg.Port,
		srv: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Start serves until Stop is called or the listener fails. It always returns
// a non-nil error; after a graceful shutdown that error is
// http.ErrServerClosed.
func (s *Server) Start() error {
	s.logger.Info("http server listening", logging.Int("port", s.port))
	return s.srv.ListenAndServe()
}

// Stop drains in-flight requests and shuts the listener down.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}

//Personal.AI order the ending
