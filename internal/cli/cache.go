package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/gridpager/internal/cache"
	"github.com/rshade/gridpager/internal/config"
	"github.com/rshade/gridpager/internal/source"
)

// storeStats is what `cache stats` prints. Durations are zero when the
// backend cannot report them.
type storeStats struct {
	entries    int
	expired    int
	ttl        time.Duration
	oldest     time.Duration
	nextExpiry time.Duration
}

// persistentStore is implemented by the page stores that outlive the process.
type persistentStore interface {
	stats(ctx context.Context) (storeStats, error)
	clear(ctx context.Context) error
	prune(ctx context.Context) (int, error)
	location() string
	close() error
}

type fileStore struct {
	s *cache.FileStore[source.Record]
}

func (f fileStore) stats(context.Context) (storeStats, error) {
	s, err := f.s.Stats()
	if err != nil {
		return storeStats{}, err
	}
	return storeStats{
		entries:    s.Entries,
		expired:    s.Expired,
		ttl:        f.s.TTL(),
		oldest:     s.Oldest,
		nextExpiry: s.NextExpiry,
	}, nil
}

func (f fileStore) clear(context.Context) error        { return f.s.Clear() }
func (f fileStore) prune(context.Context) (int, error) { return f.s.CleanupExpired() }
func (f fileStore) location() string                   { return f.s.Directory() }
func (f fileStore) close() error                       { return nil }

type redisStore struct {
	s    *cache.RedisStore[source.Record]
	addr string
}

func (r redisStore) stats(ctx context.Context) (storeStats, error) {
	n, err := r.s.Count(ctx)
	if err != nil {
		return storeStats{}, err
	}
	return storeStats{entries: n, ttl: r.s.TTL()}, nil
}

func (r redisStore) clear(ctx context.Context) error { return r.s.Clear(ctx) }

// Redis expires keys on its own.
func (r redisStore) prune(context.Context) (int, error) { return 0, nil }
func (r redisStore) location() string                   { return "redis://" + r.addr }
func (r redisStore) close() error                       { return r.s.Close() }

// openPersistentStore opens the configured file or redis store, regardless of
// cache.enabled.
func openPersistentStore(ctx context.Context, cfg *config.Config) (persistentStore, error) {
	switch cfg.Cache.Backend {
	case config.BackendFile:
		dir, err := cfg.CacheDir()
		if err != nil {
			return nil, err
		}
		s, err := cache.NewFileStore[source.Record](dir, true, cfg.Cache.TTLSeconds)
		if err != nil {
			return nil, err
		}
		return fileStore{s: s}, nil
	case config.BackendRedis:
		s, err := cache.NewRedisStore[source.Record](ctx, cache.RedisConfig{
			Address:  cfg.Cache.Redis.Address,
			Password: cfg.Cache.Redis.Password,
			Database: cfg.Cache.Redis.Database,
			Prefix:   cfg.Cache.Redis.Prefix,
			TTL:      time.Duration(cfg.Cache.TTLSeconds) * time.Second,
		})
		if err != nil {
			return nil, err
		}
		return redisStore{s: s, addr: cfg.Cache.Redis.Address}, nil
	default:
		return nil, fmt.Errorf("cache backend %q keeps nothing between runs; use file or redis", cfg.Cache.Backend)
	}
}

// newCacheCmd groups the page cache maintenance subcommands.
func newCacheCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and clean the persistent page cache",
	}

	run := func(fn func(cmd *cobra.Command, s persistentStore) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			s, err := openPersistentStore(cmd.Context(), st.cfg)
			if err != nil {
				return err
			}
			defer s.close()
			return fn(cmd, s)
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "stats",
			Short: "Show how many pages are cached",
			RunE: run(func(cmd *cobra.Command, s persistentStore) error {
				stats, err := s.stats(cmd.Context())
				if err != nil {
					return err
				}
				cmd.Printf("Backend:  %s\n", st.cfg.Cache.Backend)
				cmd.Printf("Location: %s\n", s.location())
				cmd.Printf("TTL:      %s\n", cache.FormatDuration(stats.ttl))
				cmd.Printf("Entries:  %d\n", stats.entries)
				if stats.expired > 0 {
					cmd.Printf("Expired:  %d\n", stats.expired)
				}
				if stats.entries > stats.expired {
					cmd.Printf("Oldest:   %s\n", cache.FormatDuration(stats.oldest))
					cmd.Printf("Next expiry: %s\n", cache.FormatDuration(stats.nextExpiry))
				}
				return nil
			}),
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every cached page",
			RunE: run(func(cmd *cobra.Command, s persistentStore) error {
				if err := s.clear(cmd.Context()); err != nil {
					return err
				}
				cmd.Printf("Cache cleared: %s\n", s.location())
				return nil
			}),
		},
		&cobra.Command{
			Use:   "prune",
			Short: "Remove expired cached pages",
			RunE: run(func(cmd *cobra.Command, s persistentStore) error {
				n, err := s.prune(cmd.Context())
				if err != nil {
					return err
				}
				cmd.Printf("Removed %d expired entries\n", n)
				return nil
			}),
		},
	)
	return cmd
}
