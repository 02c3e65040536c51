package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/pkg/retry"
	"github.com/redis/go-redis/v9"
)

var _ port.CartSlots = (*RedisSlots)(nil)

type RedisSlots struct {
	client *redis.Client
}

func NewRedisSlots(client *redis.Client) RedisSlots {
	return RedisSlots{client}
}

// OpenRedis connects to addr and waits for the server to answer PING.
func OpenRedis(
	ctx context.Context, addr, password string, db int,
) (*redis.Client, error) {
	const op = "OpenRedis"
	log := slog.With("op", op)

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	err := retry.Do(ctx, pingRetryConfig(), func() error {
		return client.Ping(ctx).Err()
	})
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%s: redis is unavailable: %w", op, err)
	}

	log.Info("redis is available", "addr", addr)
	return client, nil
}

func (s RedisSlots) Get(ctx context.Context, key string) ([]byte, error) {
	const op = "RedisSlots.Get"

	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%s: %w", op, port.ErrSlotNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return data, nil
}

func (s RedisSlots) Put(ctx context.Context, key string, value []byte) error {
	const op = "RedisSlots.Put"

	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s RedisSlots) Delete(ctx context.Context, key string) error {
	const op = "RedisSlots.Delete"

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func pingRetryConfig() retry.RetryConfig {
	return retry.RetryConfig{
		MaxAttempts: 5,
		Backoff:     retry.ExponentialBackoff(100 * time.Millisecond),
	}
}
