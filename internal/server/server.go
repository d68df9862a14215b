// Package server owns the listen/serve/shutdown lifecycle of the HTTP
// listener.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shashiranjanraj/lookup/pkg/logger"
)

// DefaultShutdownTimeout bounds graceful shutdown when no timeout is given.
const DefaultShutdownTimeout = 10 * time.Second

// Config describes one listener.
type Config struct {
	Addr            string
	Handler         http.Handler
	ShutdownTimeout time.Duration
}

func (c Config) timeout() time.Duration {
	if c.ShutdownTimeout <= 0 {
		return DefaultShutdownTimeout
	}
	return c.ShutdownTimeout
}

// Run binds cfg.Addr and serves until SIGINT/SIGTERM arrives or ctx is
// cancelled, then drains in-flight requests.
func Run(ctx context.Context, cfg Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", cfg.Addr, err)
	}
	return Serve(ctx, ln, cfg)
}

// Serve serves on ln until ctx is done. It returns nil after a clean
// shutdown and the first serve or shutdown error otherwise. ln is closed on
// return.
func Serve(ctx context.Context, ln net.Listener, cfg Config) error {
	srv := &http.Server{
		Handler:           cfg.Handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("server shutting down", "timeout", cfg.timeout().String())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.timeout())
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server: shutdown: %w", err)
		}
		return nil
	})

	err := g.Wait()
	if err == nil {
		logger.Info("server stopped")
	}
	return err
}
