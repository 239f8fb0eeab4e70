package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/davidbz/costwatch/internal/observability"
)

// ErrKeyNotFound indicates the snapshot key does not exist in Redis.
var ErrKeyNotFound = errors.New("snapshot key not found")

// SnapshotSource reads the price document published to Redis by the scraper.
type SnapshotSource struct {
	client *redis.Client
	key    string
}

// NewSnapshotSource creates a new Redis snapshot source.
func NewSnapshotSource(client *redis.Client, key string) *SnapshotSource {
	return &SnapshotSource{
		client: client,
		key:    key,
	}
}

// NewClient creates a Redis client from connection settings.
func NewClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// Fetch returns the raw document stored under the snapshot key.
func (s *SnapshotSource) Fetch(ctx context.Context) ([]byte, error) {
	logger := observability.FromContext(ctx)
	logger.Debug("reading price snapshot from redis",
		observability.String("key", s.key))

	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, s.key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.key, err)
	}

	logger.Debug("price snapshot read from redis",
		observability.Int("data_size", len(data)))

	return data, nil
}

// Store publishes a price document under the snapshot key, replacing any previous one.
func (s *SnapshotSource) Store(ctx context.Context, data []byte) error {
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.key, err)
	}

	observability.FromContext(ctx).Debug("price snapshot written to redis",
		observability.String("key", s.key),
		observability.Int("data_size", len(data)))

	return nil
}

// Close releases the underlying client.
func (s *SnapshotSource) Close() error {
	return s.client.Close()
}

// Name returns the source identifier.
func (s *SnapshotSource) Name() string {
	return "redis"
}
