// internal/infrastructure/kvstore/redis.go
package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	redisdb "github.com/your-org/bookstore-backend/internal/infrastructure/database/redis"
	"github.com/your-org/bookstore-backend/internal/port"
)

// Redis stores values as plain Redis strings
type Redis struct {
	client *redisdb.Client
	ttl    time.Duration
}

// NewRedis creates a Redis-backed store. A zero ttl keeps keys forever.
func NewRedis(client *redisdb.Client, ttl time.Duration) *Redis {
	return &Redis{
		client: client,
		ttl:    ttl,
	}
}

func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key)
	if errors.Is(err, redisdb.Nil) {
		return "", port.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis.Get: %w", err)
	}
	return val, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, key, value, r.ttl); err != nil {
		return fmt.Errorf("redis.Set: %w", err)
	}
	return nil
}

func (r *Redis) Remove(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key); err != nil {
		return fmt.Errorf("redis.Del: %w", err)
	}
	return nil
}

// PurgeExpired is a no-op: Redis expires keys on its own
func (r *Redis) PurgeExpired(context.Context) (int64, error) {
	return 0, nil
}
