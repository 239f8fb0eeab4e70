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
	"github.com/davidbz/costwatch/internal/observability"
	"github.com/davidbz/costwatch/internal/scraper"
	"github.com/davidbz/costwatch/internal/snapshot"
)

func main() {
	container := buildContainer()

	err := container.Invoke(func(
		cfg *config.ScraperConfig,
		snapshotCfg *config.SnapshotConfig,
		redisCfg *config.RedisConfig,
		s *scraper.Scraper,
		_ *zap.Logger,
	) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return run(ctx, cfg, snapshotCfg, redisCfg, s)
	})
	if err != nil {
		log.Fatalf("Price fetch failed: %v", err)
	}
}

func buildContainer() *dig.Container {
	container := dig.New()

	if err := container.Provide(config.Load); err != nil {
		log.Fatalf("Failed to provide config: %v", err)
	}
	if err := container.Provide(config.ParseDependenciesConfig); err != nil {
		log.Fatalf("Failed to provide config dependencies: %v", err)
	}
	if err := container.Provide(observability.InitLogger); err != nil {
		log.Fatalf("Failed to provide logger: %v", err)
	}
	if err := container.Provide(func(cfg *config.ScraperConfig) *scraper.Scraper {
		return scraper.NewScraper(
			cfg.ModelsURL,
			scraper.DefaultServices(),
			time.Duration(cfg.Timeout)*time.Second,
			cfg.Concurrency,
		)
	}); err != nil {
		log.Fatalf("Failed to provide scraper: %v", err)
	}

	return container
}

func run(
	ctx context.Context,
	cfg *config.ScraperConfig,
	snapshotCfg *config.SnapshotConfig,
	redisCfg *config.RedisConfig,
	s *scraper.Scraper,
) error {
	logger := observability.FromContext(ctx)

	data, err := s.Run(ctx).Encode()
	if err != nil {
		return err
	}

	// The estimator must be able to read what was just produced.
	snap, err := snapshot.Parse(data)
	if err != nil {
		return fmt.Errorf("produced an unreadable price document: %w", err)
	}

	if err := scraper.WriteDocument(cfg.Output, data); err != nil {
		return err
	}
	logger.Info("price document written",
		observability.String("path", cfg.Output),
		observability.Int("models", len(snap.Models)))

	if !cfg.PublishRedis {
		return nil
	}

	store := redis.NewSnapshotSource(redis.NewClient(redisCfg.Addr, redisCfg.Password, redisCfg.DB), snapshotCfg.RedisKey)
	defer store.Close()

	if err := store.Store(ctx, data); err != nil {
		return err
	}
	logger.Info("price document published",
		observability.String("redis_key", snapshotCfg.RedisKey))

	return nil
}
