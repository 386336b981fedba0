// Package redis provides a redis-backed blob repository.
package redis

import (
	"context"
	"errors"
	"fmt"

	redis "github.com/redis/go-redis/v9"
)

// Repository implements persistence.BlobRepository on a redis server.
// Keys are namespaced under "nudge:blobs:".
type Repository struct {
	client redis.UniversalClient
}

const keyPrefix = "nudge:blobs:"

// NewRepository connects to the redis server described by the URL
// (redis://[user:pass@]host:port/db).
func NewRepository(ctx context.Context, redisURL string) (*Repository, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	err = client.Ping(ctx).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &Repository{client: client}, nil
}

func (r *Repository) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}

	if err != nil {
		return "", false, fmt.Errorf("failed to get blob %s: %w", key, err)
	}

	return value, true, nil
}

func (r *Repository) Set(ctx context.Context, key, value string) error {
	err := r.client.Set(ctx, keyPrefix+key, value, 0).Err()
	if err != nil {
		return fmt.Errorf("failed to set blob %s: %w", key, err)
	}

	return nil
}

func (r *Repository) HealthCheck(ctx context.Context) error {
	err := r.client.Ping(ctx).Err()
	if err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}

	return nil
}

func (r *Repository) Close(_ context.Context) error {
	err := r.client.Close()
	if err != nil {
		return fmt.Errorf("failed to close redis client: %w", err)
	}

	return nil
}
