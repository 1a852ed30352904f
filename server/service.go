package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/poiesic/skillmatch/config"
)

// Service runs an http.Server as a suture.Service.
//
//  1. Listens on the configured address
//  2. Serves until the context is canceled or the server fails
//  3. On cancellation, shuts down gracefully within ShutdownTimeout
type Service struct {
	server          *http.Server
	shutdownTimeout time.Duration
	logger          *slog.Logger
	listening       chan net.Addr
}

// NewService wraps handler in an http.Server built from cfg.
func NewService(cfg config.ServerConfig, handler http.Handler, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	shutdownTimeout := cfg.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}

	return &Service{
		server: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           handler,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
		},
		shutdownTimeout: shutdownTimeout,
		logger:          logger.With("component", "http-server"),
		listening:       make(chan net.Addr, 1),
	}
}

// Listening yields the bound address once the listener is open.
// Useful when the configured port is 0.
func (s *Service) Listening() <-chan net.Addr {
	return s.listening
}

// Serve implements suture.Service.
// Returns ctx.Err() after a graceful shutdown, or an error if the server fails.
func (s *Service) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("http server listen: %w", err)
	}
	s.logger.Info("listening", "addr", ln.Addr().String())
	select {
	case s.listening <- ln.Addr():
	default:
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil

	case <-ctx.Done():
		// The original context is canceled; shut down on a fresh one
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		s.logger.Info("shutting down")
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown failed: %w", err)
		}
		<-errCh
		return ctx.Err()
	}
}

// String implements fmt.Stringer; suture uses it in log messages.
func (s *Service) String() string {
	return "http-server"
}
