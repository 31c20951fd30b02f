package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rshade/gridpager/internal/cache"
)

// Environment variables overriding file settings.
const (
	EnvDataURL      = "GRIDPAGER_DATA_URL"
	EnvDataMethod   = "GRIDPAGER_DATA_METHOD"
	EnvPageSize     = "GRIDPAGER_PAGE_SIZE"
	EnvCacheEnabled = "GRIDPAGER_CACHE_ENABLED"
	EnvCacheBackend = "GRIDPAGER_CACHE_BACKEND"
	EnvCacheTTL     = "GRIDPAGER_CACHE_TTL"
	EnvRedisAddress = "GRIDPAGER_REDIS_ADDR"
	EnvHTTPTimeout  = "GRIDPAGER_HTTP_TIMEOUT"
	EnvListenAddr   = "GRIDPAGER_LISTEN_ADDR"
	EnvLogLevel     = "GRIDPAGER_LOG_LEVEL"
	EnvLogFormat    = "GRIDPAGER_LOG_FORMAT"
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv applies GRIDPAGER_* overrides from the process environment.
func (c *Config) ApplyEnv() error {
	return c.ApplyEnvFrom(os.LookupEnv)
}

// ApplyEnvFrom applies overrides read through lookup.
func (c *Config) ApplyEnvFrom(lookup LookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str(EnvDataURL, &c.Grid.DataURL)
	str(EnvDataMethod, &c.Grid.DataMethod)
	str(EnvCacheBackend, &c.Cache.Backend)
	str(EnvRedisAddress, &c.Cache.Redis.Address)
	str(EnvListenAddr, &c.Server.Address)
	str(EnvLogLevel, &c.Logging.Level)
	str(EnvLogFormat, &c.Logging.Format)

	if v, ok := lookup(EnvPageSize); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, EnvPageSize, v)
		}
		c.Grid.PageSize = n
	}
	if v, ok := lookup(EnvCacheEnabled); ok && v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalidConfig, EnvCacheEnabled, v)
		}
		c.Cache.Enabled = enabled
	}
	if v, ok := lookup(EnvCacheTTL); ok && v != "" {
		ttl, err := cache.ParseTTL(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, EnvCacheTTL, err)
		}
		c.Cache.TTLSeconds = ttl
	}
	if v, ok := lookup(EnvHTTPTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a duration", ErrInvalidConfig, EnvHTTPTimeout, v)
		}
		c.HTTP.Timeout = d
	}
	return nil
}
