// Package cli assembles the canvas services used by the command line:
// the document store, the shared clipboard, metrics and the HTTP server.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/canvas/internal/config"
	"github.com/aretw0/canvas/pkg/adapters/file"
	"github.com/aretw0/canvas/pkg/adapters/memory"
	"github.com/aretw0/canvas/pkg/adapters/redis"
	"github.com/aretw0/canvas/pkg/document"
	"github.com/aretw0/canvas/pkg/observability"
	"github.com/aretw0/canvas/pkg/persistence/middleware"
	"github.com/aretw0/canvas/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Backend is a configured document manager and the resources behind it.
type Backend struct {
	Documents *document.Manager
	Store     ports.DocumentStore
	Metrics   *observability.Metrics
	Registry  *prometheus.Registry

	// Feed is set for the redis backend; changes travel through it so
	// every replica sees them.
	Feed *redis.Feed

	closers []io.Closer
}

// OpenBackend builds the store selected by cfg and a document manager over
// it, with logging and metrics hooks attached.
func OpenBackend(cfg *config.Settings, logger *slog.Logger) (*Backend, error) {
	b := &Backend{Registry: prometheus.NewRegistry()}
	b.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	metrics, err := observability.NewMetrics(b.Registry)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}
	b.Metrics = metrics

	opts := append(cfg.DocumentOptions(),
		document.WithLogger(logger),
		document.WithHooks(observability.LoggingHooks(logger).Merge(metrics.Hooks())),
		document.WithObserver(metrics.ObserveDiff),
	)

	switch cfg.Store.Backend {
	case config.BackendMemory:
		b.Store = memory.NewStore()
	case config.BackendFile:
		fs := file.New(cfg.Store.Path)
		fs.Format = file.Format(cfg.Store.Format)
		b.Store = fs
	case config.BackendRedis:
		rs := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redis.WithPrefix(cfg.Redis.Prefix),
			redis.WithTTL(cfg.Redis.TTL),
		)
		b.Store = rs
		b.closers = append(b.closers, rs)

		client := rs.Client()
		b.Feed = redis.NewFeed(client, cfg.Redis.Prefix, logger)
		opts = append(opts,
			document.WithLocker(redis.NewLocker(client, cfg.Redis.Prefix)),
			document.WithObserver(b.Feed.Publish),
		)
		if cfg.Clipboard.Shared {
			opts = append(opts, document.WithClipboard(
				redis.NewClipboard(client, cfg.Redis.Prefix, cfg.Clipboard.Name, cfg.Clipboard.TTL)))
		}
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	store, err := protect(b.Store, cfg)
	if err != nil {
		return nil, err
	}
	b.Documents = document.NewManager(store, opts...)
	logger.Debug("backend ready", "store", cfg.Store.Backend)
	return b, nil
}

// protect wraps store with the configured redaction and encryption.
func protect(store ports.DocumentStore, cfg *config.Settings) (ports.DocumentStore, error) {
	var mws []middleware.Middleware
	if len(cfg.Store.Redact) > 0 {
		pii, err := middleware.NewPIIMiddleware(cfg.Store.Redact)
		if err != nil {
			return nil, fmt.Errorf("invalid redact pattern: %w", err)
		}
		mws = append(mws, pii)
	}
	if cfg.Store.EncryptionKey != "" {
		keys, err := cfg.EncryptionKeys()
		if err != nil {
			return nil, err
		}
		mws = append(mws, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey:    keys[0],
			FallbackKeys: keys[1:],
		}))
	}
	return middleware.Chain(store, mws...), nil
}

// Close releases the store connections.
func (b *Backend) Close() error {
	var errs []error
	for _, c := range b.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
