package config

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/rshade/gridpager/internal/cache"
	"github.com/rshade/gridpager/internal/source"
)

// HTTPOptions returns the source options described by the grid and http
// sections. onBreaker, if set, observes circuit breaker transitions.
func (c *Config) HTTPOptions(onBreaker func(name string, from, to gobreaker.State)) []source.HTTPOption {
	opts := []source.HTTPOption{
		source.WithMethod(strings.ToUpper(c.Grid.DataMethod)),
		source.WithParams(c.Grid.ParamValues()),
	}
	if c.HTTP.Timeout > 0 {
		opts = append(opts, source.WithTimeout(c.HTTP.Timeout))
	}
	if c.HTTP.Retry.MaxRetries > 0 {
		retry := source.DefaultRetryConfig()
		retry.MaxRetries = c.HTTP.Retry.MaxRetries
		if c.HTTP.Retry.InitialInterval > 0 {
			retry.InitialInterval = c.HTTP.Retry.InitialInterval
		}
		if c.HTTP.Retry.MaxInterval > 0 {
			retry.MaxInterval = c.HTTP.Retry.MaxInterval
		}
		opts = append(opts, source.WithRetry(retry))
	}
	if c.HTTP.RateLimit.RequestsPerSecond > 0 {
		opts = append(opts, source.WithRateLimit(c.HTTP.RateLimit.RequestsPerSecond, c.HTTP.RateLimit.Burst))
	}
	if c.HTTP.Breaker.Enabled {
		opts = append(opts, source.WithCircuitBreaker(source.NewCircuitBreaker(source.BreakerConfig{
			Name:          "data",
			MinRequests:   c.HTTP.Breaker.MinRequests,
			FailureRatio:  c.HTTP.Breaker.FailureRatio,
			Timeout:       c.HTTP.Breaker.OpenTimeout,
			OnStateChange: onBreaker,
		})))
	}
	return opts
}

// KeyStrategy returns the configured cache key strategy.
func (c *Config) KeyStrategy() (cache.KeyStrategy, error) {
	return cache.ParseKeyStrategy(c.Cache.KeyStrategy)
}

// CacheDir returns the file backend directory, defaulting to cache/ under the
// configuration directory.
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Directory != "" {
		return c.Cache.Directory, nil
	}
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cache"), nil
}

// NewStore builds the page store for the cache section. It returns a nil
// store when caching is disabled. The returned close function is never nil.
func NewStore[T any](ctx context.Context, c *Config) (cache.Store[T], func() error, error) {
	noop := func() error { return nil }
	if !c.Cache.Enabled {
		return nil, noop, nil
	}

	switch c.Cache.Backend {
	case "", BackendMemory:
		return cache.NewMemoryStore[T](), noop, nil
	case BackendLRU:
		store, err := cache.NewLRUStore[T](c.Cache.LRUSize)
		if err != nil {
			return nil, noop, err
		}
		return store, noop, nil
	case BackendFile:
		dir, err := c.CacheDir()
		if err != nil {
			return nil, noop, err
		}
		store, err := cache.NewFileStore[T](dir, true, c.Cache.TTLSeconds)
		if err != nil {
			return nil, noop, err
		}
		return store, noop, nil
	case BackendRedis:
		store, err := cache.NewRedisStore[T](ctx, cache.RedisConfig{
			Address:  c.Cache.Redis.Address,
			Password: c.Cache.Redis.Password,
			Database: c.Cache.Redis.Database,
			Prefix:   c.Cache.Redis.Prefix,
			TTL:      time.Duration(c.Cache.TTLSeconds) * time.Second,
		})
		if err != nil {
			return nil, noop, err
		}
		return store, store.Close, nil
	default:
		return nil, noop, fmt.Errorf("%w: unknown cache backend %q", ErrInvalidConfig, c.Cache.Backend)
	}
}
