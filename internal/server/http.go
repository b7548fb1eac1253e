package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/bookmedia/internal/shared"
)

// shutdownTimeout bounds how long in-flight requests may take once the context is cancelled.
const shutdownTimeout = 5 * time.Second

// Server runs the API until its context is cancelled.
type Server struct {
	httpServer *http.Server
	logger     *log.Logger
}

// New builds the router with logging, panic recovery and rate limiting, then registers api.
func New(cfg shared.ServerConfig, api *API, logger *log.Logger) *Server {
	router := NewBasicRouter()
	router.Use(Logging(logger), Recover(logger), RateLimit(cfg.RateLimit, cfg.Burst))
	api.Register(router)

	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Handler exposes the router, for tests.
func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

// Serve listens on ln and blocks until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String())
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}

// ListenAndServe listens on the configured address and calls [Server.Serve].
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// URL is the address a browser can open.
func (s *Server) URL() string {
	return "http://" + s.httpServer.Addr
}
