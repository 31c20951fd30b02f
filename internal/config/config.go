package config

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rshade/gridpager/internal/cache"
	"github.com/rshade/gridpager/internal/logging"
	"github.com/rshade/gridpager/internal/pagination"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Cache backends.
const (
	BackendMemory = "memory"
	BackendLRU    = "lru"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Config is the gridpager configuration file.
type Config struct {
	Grid    GridConfig    `yaml:"grid"`
	Cache   CacheConfig   `yaml:"cache"`
	HTTP    HTTPConfig    `yaml:"http"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
}

// GridConfig holds the grid options.
type GridConfig struct {
	DataURL     string `yaml:"data_url"`
	DataMethod  string `yaml:"data_method"`
	PageSize    int    `yaml:"page_size"`
	CurrentPage int    `yaml:"current_page"`

	// Params are extra request parameters sent with every fetch.
	Params map[string]string `yaml:"params,omitempty"`

	// ItemTemplate is an html/template rendering one record.
	ItemTemplate string `yaml:"item_template"`

	// Prefetch is the number of pages after the current one to warm.
	Prefetch int `yaml:"prefetch"`
}

// CacheConfig selects and tunes the page store.
type CacheConfig struct {
	Enabled     bool        `yaml:"enabled"`
	Backend     string      `yaml:"backend"`
	KeyStrategy string      `yaml:"key_strategy"`
	LRUSize     int         `yaml:"lru_size"`
	Directory   string      `yaml:"directory"`
	TTLSeconds  int         `yaml:"ttl_seconds"`
	Redis       RedisConfig `yaml:"redis"`
}

// RedisConfig configures the Redis backend.
type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password,omitempty"`
	Database int    `yaml:"database"`
	Prefix   string `yaml:"prefix"`
}

// HTTPConfig tunes the HTTP data source.
type HTTPConfig struct {
	Timeout time.Duration `yaml:"timeout"`

	Retry     RetrySettings   `yaml:"retry"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Breaker   BreakerSettings `yaml:"circuit_breaker"`
}

// RetrySettings configures retries of transient failures. Zero MaxRetries
// disables retrying.
type RetrySettings struct {
	MaxRetries      int           `yaml:"max_retries"`
	InitialInterval time.Duration `yaml:"initial_interval"`
	MaxInterval     time.Duration `yaml:"max_interval"`
}

// RateLimitConfig limits outbound fetches. Zero RequestsPerSecond disables it.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// BreakerSettings configures the circuit breaker around the endpoint.
type BreakerSettings struct {
	Enabled      bool          `yaml:"enabled"`
	FailureRatio float64       `yaml:"failure_ratio"`
	MinRequests  uint32        `yaml:"min_requests"`
	OpenTimeout  time.Duration `yaml:"open_timeout"`
}

// ServerConfig configures `gridpager serve`.
type ServerConfig struct {
	Address string `yaml:"address"`
	Title   string `yaml:"title"`

	// Demo serves a generated record set on /data.
	Demo        bool   `yaml:"demo"`
	DemoRecords int    `yaml:"demo_records"`
	Database    string `yaml:"database"`
}

// LoggingConfig mirrors logging.Config in YAML.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
	File   string `yaml:"file,omitempty"`
	Caller bool   `yaml:"caller"`
}

// Defaults.
const (
	DefaultAddress     = "127.0.0.1:8080"
	DefaultTitle       = "gridpager"
	DefaultDemoRecords = 250
	DefaultDatabase    = "file:gridpager?mode=memory&cache=shared"
	DefaultTimeout     = 10 * time.Second
)

// New returns a Config holding the defaults.
func New() *Config {
	log := logging.DefaultConfig()
	return &Config{
		Grid: GridConfig{
			DataMethod:   http.MethodGet,
			PageSize:     pagination.DefaultPageSize,
			CurrentPage:  pagination.DefaultPage,
			ItemTemplate: `<div class="grid-item">{{.}}</div>`,
		},
		Cache: CacheConfig{
			Enabled:     false,
			Backend:     BackendMemory,
			KeyStrategy: cache.KeyStrategyPage,
			LRUSize:     cache.DefaultLRUSize,
			TTLSeconds:  cache.DefaultTTLSeconds,
			Redis: RedisConfig{
				Address: "localhost:6379",
				Prefix:  cache.DefaultRedisPrefix,
			},
		},
		HTTP: HTTPConfig{
			Timeout: DefaultTimeout,
		},
		Server: ServerConfig{
			Address:     DefaultAddress,
			Title:       DefaultTitle,
			DemoRecords: DefaultDemoRecords,
			Database:    DefaultDatabase,
		},
		Logging: LoggingConfig{
			Level:  log.Level,
			Format: log.Format,
			Output: log.Output,
		},
	}
}

// Load reads the defaults overlaid with the file at path. A missing file is
// not an error when allowMissing is set.
func Load(path string, allowMissing bool) (*Config, error) {
	cfg := New()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && allowMissing {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := ShallowMergeYAML(cfg, path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes c to path as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}

// Validate reports every invalid setting, each wrapping ErrInvalidConfig.
func (c *Config) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	method := strings.ToUpper(c.Grid.DataMethod)
	if method != http.MethodGet && method != http.MethodPost {
		invalid("grid.data_method must be GET or POST, got %q", c.Grid.DataMethod)
	}
	if c.Grid.PageSize < 1 || c.Grid.PageSize > pagination.MaxPageSize {
		invalid("grid.page_size must be between 1 and %d, got %d", pagination.MaxPageSize, c.Grid.PageSize)
	}
	if c.Grid.CurrentPage < 1 {
		invalid("grid.current_page must be >= 1, got %d", c.Grid.CurrentPage)
	}
	if c.Grid.DataURL != "" {
		if u, err := url.Parse(c.Grid.DataURL); err != nil || (u.Scheme != "" && u.Scheme != "http" && u.Scheme != "https") {
			invalid("grid.data_url %q is not an http(s) URL", c.Grid.DataURL)
		}
	}
	if c.Grid.Prefetch < 0 {
		invalid("grid.prefetch must be >= 0, got %d", c.Grid.Prefetch)
	}

	switch c.Cache.Backend {
	case BackendMemory, BackendLRU, BackendFile, BackendRedis:
	default:
		invalid("cache.backend must be one of memory, lru, file, redis, got %q", c.Cache.Backend)
	}
	if _, err := cache.ParseKeyStrategy(c.Cache.KeyStrategy); err != nil {
		invalid("cache.key_strategy: %v", err)
	}
	if c.Cache.Backend == BackendFile || c.Cache.Backend == BackendRedis {
		if c.Cache.TTLSeconds < cache.MinTTLSeconds || c.Cache.TTLSeconds > cache.MaxTTLSeconds {
			invalid("cache.ttl_seconds must be between %d and %d, got %d",
				cache.MinTTLSeconds, cache.MaxTTLSeconds, c.Cache.TTLSeconds)
		}
	}
	if c.Cache.Backend == BackendRedis && c.Cache.Redis.Address == "" {
		invalid("cache.redis.address is required for the redis backend")
	}

	if c.HTTP.Timeout < 0 {
		invalid("http.timeout must not be negative")
	}
	if c.HTTP.Retry.MaxRetries < 0 {
		invalid("http.retry.max_retries must not be negative")
	}
	if c.HTTP.RateLimit.RequestsPerSecond < 0 {
		invalid("http.rate_limit.requests_per_second must not be negative")
	}
	if r := c.HTTP.Breaker.FailureRatio; r < 0 || r > 1 {
		invalid("http.circuit_breaker.failure_ratio must be between 0 and 1, got %v", r)
	}

	if c.Server.DemoRecords < 0 {
		invalid("server.demo_records must not be negative")
	}

	switch c.Logging.Format {
	case logging.FormatJSON, logging.FormatConsole:
	default:
		invalid("logging.format must be json or console, got %q", c.Logging.Format)
	}

	return errors.Join(errs...)
}

// ParamValues returns the extra request parameters as url.Values.
func (g GridConfig) ParamValues() url.Values {
	if len(g.Params) == 0 {
		return nil
	}
	values := url.Values{}
	keys := make([]string, 0, len(g.Params))
	for k := range g.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		values.Set(k, g.Params[k])
	}
	return values
}

// ToLogging converts the section to a logging.Config.
func (l LoggingConfig) ToLogging() logging.Config {
	return logging.Config{
		Level:  l.Level,
		Format: l.Format,
		Output: l.Output,
		File:   l.File,
		Caller: l.Caller,
	}
}

// GetConfigDir returns the gridpager configuration directory.
func GetConfigDir() (string, error) {
	if home := os.Getenv("GRIDPAGER_HOME"); home != "" {
		return home, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".gridpager"), nil
}

// DefaultPath returns the config file path: GRIDPAGER_CONFIG if set, else
// config.yaml in the configuration directory.
func DefaultPath() (string, error) {
	if path := os.Getenv("GRIDPAGER_CONFIG"); path != "" {
		return path, nil
	}
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}
