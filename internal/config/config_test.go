package config_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/gridpager/internal/cache"
	"github.com/rshade/gridpager/internal/config"
)

func TestNew_Defaults(t *testing.T) {
	cfg := config.New()

	assert.Equal(t, "GET", cfg.Grid.DataMethod)
	assert.Equal(t, 16, cfg.Grid.PageSize)
	assert.Equal(t, 1, cfg.Grid.CurrentPage)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, config.BackendMemory, cfg.Cache.Backend)
	assert.Equal(t, cache.KeyStrategyPage, cfg.Cache.KeyStrategy)
	assert.Equal(t, config.DefaultAddress, cfg.Server.Address)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		cfg, err := config.Load("", false)
		require.NoError(t, err)
		assert.Equal(t, config.New(), cfg)
	})

	t.Run("missing allowed", func(t *testing.T) {
		cfg, err := config.Load(filepath.Join(t.TempDir(), "none.yaml"), true)
		require.NoError(t, err)
		assert.Equal(t, config.New(), cfg)
	})

	t.Run("missing not allowed", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "none.yaml"), false)
		assert.Error(t, err)
	})

	t.Run("file", func(t *testing.T) {
		cfg, err := config.Load(writeOverlay(t, "grid:\n  page_size: 4\n"), false)
		require.NoError(t, err)
		assert.Equal(t, 4, cfg.Grid.PageSize)
	})
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := config.New()
	cfg.Grid.DataURL = "http://localhost:8080/data"
	cfg.Cache.Enabled = true
	cfg.HTTP.Retry.MaxRetries = 3

	require.NoError(t, cfg.Save(path))

	loaded, err := config.Load(path, false)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"bad method", func(c *config.Config) { c.Grid.DataMethod = "PUT" }, "data_method"},
		{"lower-case method ok", func(c *config.Config) { c.Grid.DataMethod = "post" }, ""},
		{"zero page size", func(c *config.Config) { c.Grid.PageSize = 0 }, "page_size"},
		{"huge page size", func(c *config.Config) { c.Grid.PageSize = 5000 }, "page_size"},
		{"zero current page", func(c *config.Config) { c.Grid.CurrentPage = 0 }, "current_page"},
		{"ftp url", func(c *config.Config) { c.Grid.DataURL = "ftp://example.com" }, "data_url"},
		{"relative url ok", func(c *config.Config) { c.Grid.DataURL = "/data" }, ""},
		{"bad backend", func(c *config.Config) { c.Cache.Backend = "memcached" }, "cache.backend"},
		{"bad key strategy", func(c *config.Config) { c.Cache.KeyStrategy = "hash" }, "key_strategy"},
		{"file ttl too small", func(c *config.Config) {
			c.Cache.Backend = config.BackendFile
			c.Cache.TTLSeconds = 1
		}, "ttl_seconds"},
		{"redis without address", func(c *config.Config) {
			c.Cache.Backend = config.BackendRedis
			c.Cache.Redis.Address = ""
		}, "redis.address"},
		{"failure ratio", func(c *config.Config) { c.HTTP.Breaker.FailureRatio = 2 }, "failure_ratio"},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, config.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestApplyEnvFrom(t *testing.T) {
	env := map[string]string{
		config.EnvDataURL:      "http://data.local/items",
		config.EnvDataMethod:   "POST",
		config.EnvPageSize:     "25",
		config.EnvCacheEnabled: "true",
		config.EnvCacheBackend: "redis",
		config.EnvCacheTTL:     "120",
		config.EnvRedisAddress: "redis:6379",
		config.EnvHTTPTimeout:  "2s",
		config.EnvListenAddr:   ":7000",
		config.EnvLogLevel:     "debug",
		config.EnvLogFormat:    "json",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := config.New()
	require.NoError(t, cfg.ApplyEnvFrom(lookup))

	assert.Equal(t, "http://data.local/items", cfg.Grid.DataURL)
	assert.Equal(t, "POST", cfg.Grid.DataMethod)
	assert.Equal(t, 25, cfg.Grid.PageSize)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, 120, cfg.Cache.TTLSeconds)
	assert.Equal(t, "redis:6379", cfg.Cache.Redis.Address)
	assert.Equal(t, 2*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, ":7000", cfg.Server.Address)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.NoError(t, cfg.Validate())
}

func TestApplyEnvFrom_Invalid(t *testing.T) {
	tests := []string{config.EnvPageSize, config.EnvCacheEnabled, config.EnvCacheTTL, config.EnvHTTPTimeout}
	for _, key := range tests {
		t.Run(key, func(t *testing.T) {
			lookup := func(k string) (string, bool) {
				if k == key {
					return "not-valid", true
				}
				return "", false
			}
			err := config.New().ApplyEnvFrom(lookup)
			assert.ErrorIs(t, err, config.ErrInvalidConfig)
		})
	}
}

func TestApplyEnvFrom_CacheTTL(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    int
		wantErr bool
	}{
		{name: "seconds", value: "900", want: 900},
		{name: "duration", value: "1h", want: 3600},
		{name: "mixed duration", value: "1h30m", want: 5400},
		{name: "below minimum", value: "10", wantErr: true},
		{name: "above maximum", value: "192h", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookup := func(k string) (string, bool) {
				if k == config.EnvCacheTTL {
					return tt.value, true
				}
				return "", false
			}

			cfg := config.New()
			err := cfg.ApplyEnvFrom(lookup)
			if tt.wantErr {
				assert.ErrorIs(t, err, config.ErrInvalidConfig)
				assert.ErrorIs(t, err, cache.ErrInvalidTTL)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Cache.TTLSeconds)
		})
	}
}

func TestApplyEnv_ProcessEnvironment(t *testing.T) {
	t.Setenv(config.EnvPageSize, "9")
	cfg := config.New()
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, 9, cfg.Grid.PageSize)
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("GRIDPAGER_CONFIG", "")
	t.Setenv("GRIDPAGER_HOME", "/tmp/gp-home")

	path, err := config.DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/gp-home", "config.yaml"), path)

	t.Setenv("GRIDPAGER_CONFIG", "/etc/gridpager.yaml")
	path, err = config.DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, "/etc/gridpager.yaml", path)
}

func TestParamValues(t *testing.T) {
	g := config.GridConfig{Params: map[string]string{"b": "2", "a": "1"}}
	assert.Equal(t, "a=1&b=2", g.ParamValues().Encode())
	assert.Nil(t, config.GridConfig{}.ParamValues())
}

func TestNewStore(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled", func(t *testing.T) {
		store, closeFn, err := config.NewStore[int](ctx, config.New())
		require.NoError(t, err)
		assert.Nil(t, store)
		assert.NoError(t, closeFn())
	})

	backends := []string{config.BackendMemory, config.BackendLRU, config.BackendFile}
	for _, backend := range backends {
		t.Run(backend, func(t *testing.T) {
			cfg := config.New()
			cfg.Cache.Enabled = true
			cfg.Cache.Backend = backend
			cfg.Cache.Directory = t.TempDir()

			store, closeFn, err := config.NewStore[int](ctx, cfg)
			require.NoError(t, err)
			defer func() { assert.NoError(t, closeFn()) }()

			page := cache.Page[int]{Records: []int{1, 2}, Total: 2}
			require.NoError(t, store.Set(ctx, "page:1", page))
			got, err := store.Get(ctx, "page:1")
			require.NoError(t, err)
			assert.Equal(t, page, got)
		})
	}

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := config.New()
		cfg.Cache.Enabled = true
		cfg.Cache.Backend = config.BackendRedis
		cfg.Cache.Redis.Address = mr.Addr()

		store, closeFn, err := config.NewStore[int](ctx, cfg)
		require.NoError(t, err)
		defer func() { assert.NoError(t, closeFn()) }()

		require.NoError(t, store.Set(ctx, "page:2", cache.Page[int]{Records: []int{3}, Total: 1}))
		assert.True(t, mr.Exists(cache.DefaultRedisPrefix+"page:2"))
	})

	t.Run("unknown backend", func(t *testing.T) {
		cfg := config.New()
		cfg.Cache.Enabled = true
		cfg.Cache.Backend = "tape"
		_, _, err := config.NewStore[int](ctx, cfg)
		assert.ErrorIs(t, err, config.ErrInvalidConfig)
	})
}

func TestHTTPOptions(t *testing.T) {
	cfg := config.New()
	assert.Len(t, cfg.HTTPOptions(nil), 3)

	cfg.HTTP.Retry.MaxRetries = 2
	cfg.HTTP.RateLimit.RequestsPerSecond = 5
	cfg.HTTP.Breaker.Enabled = true
	assert.Len(t, cfg.HTTPOptions(nil), 6)
}
