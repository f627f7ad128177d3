package main

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/acme-store/internal/config"
	"github.com/tair/acme-store/internal/favorites"
	"github.com/tair/acme-store/internal/favorites/domain"
	"github.com/tair/acme-store/internal/favorites/repository"
	"github.com/tair/acme-store/kafka"
	"github.com/tair/acme-store/pkg/auth"
	"github.com/tair/acme-store/pkg/database"
	"github.com/tair/acme-store/pkg/logger"
	"github.com/tair/acme-store/pkg/tracing"
)

const shutdownTimeout = 10 * time.Second

// resources owns every long-lived resource of the process
type resources struct {
	App      *favorites.App
	Registry *prometheus.Registry
	closers  []func(context.Context) error
}

func (rt *resources) onClose(fn func(context.Context) error) {
	rt.closers = append(rt.closers, fn)
}

// Close releases resources in reverse order of acquisition
func (rt *resources) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](ctx); err != nil {
			logger.Logger.Warn().Err(err).Msg("Failed to release resource")
		}
	}
	rt.closers = nil
}

// setup acquires every resource cfg asks for. On failure whatever was
// already acquired is released.
func setup(ctx context.Context, cfg *config.Config) (*resources, error) {
	rt := &resources{Registry: prometheus.NewRegistry()}
	ok := false
	defer func() {
		if !ok {
			rt.Close()
		}
	}()

	rt.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	tp, err := setupTracing(cfg)
	if err != nil {
		return nil, err
	}
	rt.onClose(func(ctx context.Context) error { return tracing.Shutdown(ctx, tp) })

	backend, err := openBackend(cfg, auth.NewBcryptHasher(cfg.BcryptCost), rt)
	if err != nil {
		return nil, err
	}

	var publisher domain.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		p, err := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			logger.Logger.Error().Err(err).Msg("Kafka unavailable, favorite events disabled")
		} else {
			publisher = p
			rt.onClose(func(context.Context) error { return p.Close() })
		}
	}

	var cache *favorites.CacheConfig
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		rt.onClose(func(context.Context) error { return client.Close() })

		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := client.Ping(pingCtx).Err(); err != nil {
			logger.Logger.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("Redis not reachable yet, product cache will retry")
		}
		cancel()

		cache = &favorites.CacheConfig{Client: client, TTL: cfg.ProductCacheTTL}
	}

	rt.App, err = favorites.InitializeApp(backend, publisher, cache, rt.Registry)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble application: %w", err)
	}

	ok = true
	return rt, nil
}

func setupTracing(cfg *config.Config) (trace.TracerProvider, error) {
	if !cfg.TracingEnabled {
		return tracing.Disabled(), nil
	}
	tp, err := tracing.InitTracer(cfg.ServiceName, cfg.JaegerEndpoint, Version)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracer: %w", err)
	}
	return tp, nil
}

// openBackend connects the configured store. Its pool is closed with rt.
func openBackend(cfg *config.Config, hasher auth.PasswordHasher, rt *resources) (repository.Backend, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		logger.Logger.Warn().Msg("Using in-memory store, data is lost on exit")
		return repository.NewMemoryRepository(hasher), nil

	case config.DriverPostgres:
		db, err := database.NewPostgresConnection(cfg.DatabaseURL)
		if err != nil {
			return nil, unavailable(err)
		}
		rt.onClose(func(context.Context) error { return db.Close() })
		return repository.NewPostgresRepository(db, hasher), nil

	case config.DriverGorm:
		db, err := database.NewGormConnection(cfg.DatabaseURL)
		if err != nil {
			return nil, unavailable(err)
		}
		rt.onClose(func(context.Context) error { return database.CloseGorm(db) })
		return repository.NewGormRepository(db, hasher), nil
	}

	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

func unavailable(err error) error {
	return domain.Unavailable("connect", err)
}
