package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// DefaultRedisPrefix namespaces grid keys inside a shared Redis database.
const DefaultRedisPrefix = "gridpager:"

// RedisConfig configures a RedisStore.
type RedisConfig struct {
	Address  string
	Password string
	Database int

	// Prefix is prepended to every key. Defaults to "gridpager:".
	Prefix string

	// TTL bounds entry lifetime. Zero keeps entries until Redis evicts them.
	TTL time.Duration
}

// RedisStore keeps pages in Redis so several processes share one cache.
type RedisStore[T any] struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore connects to Redis and verifies the connection with PING.
func NewRedisStore[T any](ctx context.Context, cfg RedisConfig) (*RedisStore[T], error) {
	if cfg.Address == "" {
		return nil, errors.New("redis address cannot be empty")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.Database,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Address, err)
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}

	return &RedisStore[T]{client: client, prefix: prefix, ttl: cfg.TTL}, nil
}

// Get returns the page stored under key.
func (s *RedisStore[T]) Get(ctx context.Context, key string) (Page[T], error) {
	if key == "" {
		return Page[T]{}, ErrInvalidCacheKey
	}

	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Page[T]{}, ErrCacheNotFound
		}
		return Page[T]{}, fmt.Errorf("redis get %s: %w", key, err)
	}

	var page Page[T]
	if err := json.Unmarshal(data, &page); err != nil {
		return Page[T]{}, fmt.Errorf("failed to decode cached page: %w", err)
	}
	return page, nil
}

// Set stores page under key with the configured TTL.
func (s *RedisStore[T]) Set(ctx context.Context, key string, page Page[T]) error {
	if key == "" {
		return ErrInvalidCacheKey
	}

	data, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("failed to encode page: %w", err)
	}

	if err := s.client.Set(ctx, s.prefix+key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Clear deletes every key under the store prefix.
func (s *RedisStore[T]) Clear(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("redis del %s: %w", iter.Val(), err)
		}
	}
	return iter.Err()
}

// Count returns the number of keys under the store prefix.
func (s *RedisStore[T]) Count(ctx context.Context) (int, error) {
	count := 0
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		count++
	}
	return count, iter.Err()
}

// TTL returns the lifetime given to new keys; zero means no expiry.
func (s *RedisStore[T]) TTL() time.Duration {
	return s.ttl
}

// Close releases the Redis connection pool.
func (s *RedisStore[T]) Close() error {
	return s.client.Close()
}
