package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/davidbz/costwatch/internal/cache/redis"
	"github.com/davidbz/costwatch/internal/config"
	"github.com/davidbz/costwatch/internal/domain"
	"github.com/davidbz/costwatch/internal/httpserver"
	"github.com/davidbz/costwatch/internal/httpserver/middleware"
	"github.com/davidbz/costwatch/internal/observability"
	"github.com/davidbz/costwatch/internal/snapshot"
)

const shutdownTimeout = 10 * time.Second

func main() {
	container := buildContainer()

	err := container.Invoke(func(server *httpserver.Server, loader *snapshot.Loader) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// Estimates are served with built-in rates until the snapshot lands.
		loader.Start(ctx)

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.Start()
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}

		// The load was cancelled with ctx; let it unwind before releasing its source.
		select {
		case <-loader.Done():
		case <-shutdownCtx.Done():
		}
		return loader.Close()
	})
	if err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func buildContainer() *dig.Container {
	container := dig.New()

	// Configuration
	if err := container.Provide(config.Load); err != nil {
		log.Fatalf("Failed to provide config: %v", err)
	}
	if err := container.Provide(config.ParseDependenciesConfig); err != nil {
		log.Fatalf("Failed to provide config dependencies: %v", err)
	}

	// Observability
	if err := container.Provide(observability.InitLogger); err != nil {
		log.Fatalf("Failed to provide logger: %v", err)
	}
	if err := container.Provide(func(logger *zap.Logger) domain.EventPublisher {
		return observability.NewEventBus(logger)
	}); err != nil {
		log.Fatalf("Failed to provide event bus: %v", err)
	}

	// Pricing core
	if err := container.Provide(domain.NewPriceTable); err != nil {
		log.Fatalf("Failed to provide price table: %v", err)
	}
	if err := container.Provide(func(table *domain.PriceTable) *domain.Estimator {
		return domain.NewEstimator(table)
	}); err != nil {
		log.Fatalf("Failed to provide estimator: %v", err)
	}

	// Snapshot loader
	if err := container.Provide(newSnapshotLoader); err != nil {
		log.Fatalf("Failed to provide snapshot loader: %v", err)
	}

	// HTTP Layer
	if err := container.Provide(middleware.BuildMiddlewareChain); err != nil {
		log.Fatalf("Failed to provide middleware chain: %v", err)
	}
	if err := container.Provide(httpserver.NewHandler); err != nil {
		log.Fatalf("Failed to provide HTTP handler: %v", err)
	}
	if err := container.Provide(httpserver.NewServer); err != nil {
		log.Fatalf("Failed to provide HTTP server: %v", err)
	}

	return container
}

// newSnapshotLoader builds the loader for the configured source and announces
// every applied snapshot with the model rates now in effect.
func newSnapshotLoader(
	cfg *config.SnapshotConfig,
	redisCfg *config.RedisConfig,
	table *domain.PriceTable,
	events domain.EventPublisher,
) (*snapshot.Loader, error) {
	timeout := time.Duration(cfg.Timeout) * time.Second

	var source snapshot.Source
	if cfg.Source != config.SnapshotSourceNone {
		sources, err := newSourceRegistry(cfg, redisCfg, timeout)
		if err != nil {
			return nil, err
		}

		source, err = sources.Get(cfg.Source)
		if err != nil {
			return nil, fmt.Errorf("snapshot source %q is not available (have %v): %w", cfg.Source, sources.List(), err)
		}
	}

	loader := snapshot.NewLoader(source, table, timeout)
	loader.OnApplied(snapshot.PublishApplied(events, table))

	return loader, nil
}

// newSourceRegistry registers every source the configuration can support.
func newSourceRegistry(
	cfg *config.SnapshotConfig,
	redisCfg *config.RedisConfig,
	timeout time.Duration,
) (*snapshot.Registry, error) {
	sources := snapshot.NewRegistry()

	if err := sources.Register(snapshot.NewFileSource(cfg.Path)); err != nil {
		return nil, err
	}

	if cfg.URL != "" {
		if err := sources.Register(snapshot.NewHTTPSource(cfg.URL, timeout)); err != nil {
			return nil, err
		}
	}

	// Only dial redis when it was asked for.
	if cfg.Source == config.SnapshotSourceRedis {
		client := redis.NewClient(redisCfg.Addr, redisCfg.Password, redisCfg.DB)
		if err := sources.Register(redis.NewSnapshotSource(client, cfg.RedisKey)); err != nil {
			return nil, err
		}
	}

	return sources, nil
}
