package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	httpAdapter "github.com/aretw0/canvas/pkg/adapters/http"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ShutdownTimeout bounds how long Serve waits for open requests.
const ShutdownTimeout = 5 * time.Second

// NewAPI returns the canvas HTTP API with Prometheus metrics at /metrics.
// With a redis backend, SSE streams follow the shared change feed until ctx
// ends; otherwise they follow the local document manager.
func NewAPI(ctx context.Context, b *Backend, logger *slog.Logger) (http.Handler, error) {
	api := httpAdapter.NewServer(b.Documents, httpAdapter.WithLogger(logger))
	if b.Feed != nil {
		if err := b.Feed.Subscribe(ctx, api.Publish); err != nil {
			return nil, fmt.Errorf("failed to subscribe to change feed: %w", err)
		}
	} else {
		b.Documents.Subscribe(api.Publish)
	}

	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(b.Registry, promhttp.HandlerOpts{}))
	r.Mount("/", api.Handler())
	return r, nil
}

// Serve runs handler on addr until ctx is cancelled, then shuts down
// gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("canvas server listening", "address", addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down canvas server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown did not complete", "timeout", ShutdownTimeout, "err", err)
			return srv.Close()
		}
		return nil
	}
}
