package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ShutdownTimeout bounds graceful shutdown after ctx is cancelled.
const ShutdownTimeout = 15 * time.Second

// Run listens on srv.Addr and serves until ctx is cancelled.
func Run(ctx context.Context, srv *http.Server, log *zap.SugaredLogger) error {
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", srv.Addr, err)
	}
	return Serve(ctx, srv, ln, log)
}

// Serve runs srv on ln.  TLS is used when srv.TLSConfig is set.  A nil
// return means ctx was cancelled and shutdown completed in time.
func Serve(ctx context.Context, srv *http.Server, ln net.Listener, log *zap.SugaredLogger) error {
	if log == nil {
		log = zap.S()
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		scheme := "http"
		var err error
		if srv.TLSConfig != nil {
			scheme = "https"
			log.Infow("server listening", "addr", ln.Addr().String(), "scheme", scheme)
			err = srv.ServeTLS(ln, "", "")
		} else {
			log.Infow("server listening", "addr", ln.Addr().String(), "scheme", scheme)
			err = srv.Serve(ln)
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: serve: %w", err)
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Infow("server shutting down")

		sctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			return fmt.Errorf("server: shutdown: %w", err)
		}
		return nil
	})

	err := g.Wait()
	if err == nil {
		log.Infow("server stopped")
	}
	return err
}
