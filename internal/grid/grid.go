package grid

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rshade/gridpager/internal/cache"
	"github.com/rshade/gridpager/internal/logging"
	"github.com/rshade/gridpager/internal/pagination"
	"github.com/rshade/gridpager/internal/render"
	"github.com/rshade/gridpager/internal/source"
)

// Grid errors.
var (
	ErrMissingDataURL    = source.ErrMissingDataURL
	ErrMissingRenderItem = errors.New("`renderItem` function is required")
	ErrSuperseded        = errors.New("response superseded by a newer page load")
)

// State is a snapshot of the grid's pagination state.
type State struct {
	CurrentPage int
	PageSize    int
	TotalCount  int
	TotalPages  int

	// Loaded is false until the first page has rendered.
	Loaded bool
}

// Grid is a paged grid bound to a container. It is safe for concurrent use.
type Grid[T any] struct {
	container render.Container
	opts      Options[T]
	src       source.Source[T]
	loader    *cache.Loader[T]

	seq atomic.Uint64

	mu      sync.Mutex
	current int
	total   int
	records []T
	loaded  bool
}

// New creates a grid without loading anything.
func New[T any](container render.Container, opts Options[T]) (*Grid[T], error) {
	if container == nil {
		return nil, errors.New("container is required")
	}

	opts = merge(opts)
	if opts.PageSize < 0 {
		return nil, fmt.Errorf("%w: %d", pagination.ErrInvalidPageSize, opts.PageSize)
	}
	if opts.TotalCount < 0 {
		return nil, fmt.Errorf("%w: %d", pagination.ErrInvalidTotal, opts.TotalCount)
	}

	src := opts.Source
	if src == nil {
		httpOpts := append([]source.HTTPOption{
			source.WithMethod(strings.ToUpper(opts.DataMethod)),
			source.WithParams(opts.Params),
		}, opts.HTTPOptions...)
		httpSrc, err := source.NewHTTPSource[T](opts.DataURL, httpOpts...)
		if err != nil {
			return nil, err
		}
		src = httpSrc
	}

	g := &Grid[T]{
		container: container,
		opts:      opts,
		src:       src,
		current:   opts.CurrentPage,
		total:     opts.TotalCount,
	}
	if opts.UseCache {
		g.loader = opts.Loader
		if g.loader == nil {
			g.loader = cache.NewLoader(opts.Store)
		}
	}
	return g, nil
}

// Mount creates a grid and loads its configured current page.
func Mount[T any](ctx context.Context, container render.Container, opts Options[T]) (*Grid[T], error) {
	g, err := New(container, opts)
	if err != nil {
		return nil, err
	}
	if err := g.ChangePage(ctx, g.opts.CurrentPage); err != nil {
		return nil, err
	}
	return g, nil
}

// ChangePage loads page, renders it and makes it current.
//
// The page is forwarded to the source as-is. On failure the container keeps
// its previous content and the error is also passed to OnError.
func (g *Grid[T]) ChangePage(ctx context.Context, page int) error {
	seq := g.seq.Add(1)
	log := logging.FromContext(ctx).With().Str("component", "grid").Int("page", page).Logger()

	records, total, hit, err := g.load(ctx, page)

	if g.seq.Load() != seq {
		g.opts.Observer.Superseded(page)
		log.Debug().Uint64("seq", seq).Msg("discarding superseded response")
		return fmt.Errorf("page %d: %w", page, ErrSuperseded)
	}
	if err != nil {
		log.Warn().Err(err).Msg("page load failed")
		g.reportError(err)
		return err
	}

	g.mu.Lock()
	// A newer load may have been issued while waiting for the lock.
	if g.seq.Load() != seq {
		g.mu.Unlock()
		g.opts.Observer.Superseded(page)
		return fmt.Errorf("page %d: %w", page, ErrSuperseded)
	}

	html, err := g.markup(records, page, total)
	if err != nil {
		g.mu.Unlock()
		log.Warn().Err(err).Msg("render failed")
		g.reportError(err)
		return err
	}

	g.current = page
	g.total = total
	g.records = records
	g.loaded = true
	g.container.SetHTML(html)
	g.mu.Unlock()

	log.Debug().
		Bool("cache_hit", hit).
		Int("records", len(records)).
		Int("total", total).
		Msg("page rendered")

	if g.opts.OnResult != nil {
		g.opts.OnResult(Result{
			Page:       page,
			Records:    len(records),
			TotalCount: total,
			TotalPages: pagination.TotalPages(total, g.opts.PageSize),
			FromCache:  hit,
		})
	}
	return nil
}

// Render re-renders the current records into the container.
func (g *Grid[T]) Render() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	html, err := g.markup(g.records, g.current, g.total)
	if err != nil {
		return err
	}
	g.container.SetHTML(html)
	return nil
}

// State returns the current pagination state.
func (g *Grid[T]) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()

	return State{
		CurrentPage: g.current,
		PageSize:    g.opts.PageSize,
		TotalCount:  g.total,
		TotalPages:  pagination.TotalPages(g.total, g.opts.PageSize),
		Loaded:      g.loaded,
	}
}

// Window returns the pager window for the current state.
func (g *Grid[T]) Window() pagination.Window {
	s := g.State()
	return pagination.NewWindow(s.CurrentPage, s.TotalPages)
}

// Meta returns page metadata for the records currently shown.
func (g *Grid[T]) Meta() pagination.Meta {
	g.mu.Lock()
	defer g.mu.Unlock()

	params := pagination.Params{Page: g.current, PageSize: g.opts.PageSize}
	return pagination.NewMeta(params, g.total, len(g.records))
}

// Prefetch loads pages into the cache without rendering them. It is a no-op
// when caching is disabled. Pages below 1 are skipped.
func (g *Grid[T]) Prefetch(ctx context.Context, pages ...int) error {
	if g.loader == nil {
		return nil
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.opts.MaxPrefetch)
	for _, page := range pages {
		if page < 1 {
			continue
		}
		eg.Go(func() error {
			_, err := g.loader.Load(egCtx, g.cacheKey(page), g.fetchFunc(page))
			if err != nil {
				return fmt.Errorf("prefetching page %d: %w", page, err)
			}
			return nil
		})
	}
	return eg.Wait()
}

// load returns the records for page, from the store when possible.
func (g *Grid[T]) load(ctx context.Context, page int) ([]T, int, bool, error) {
	fetch := g.fetchFunc(page)
	if g.loader == nil {
		fetched, err := fetch(ctx)
		return fetched.Records, fetched.Total, false, err
	}

	res, err := g.loader.Load(ctx, g.cacheKey(page), fetch)
	if err != nil {
		return nil, 0, false, err
	}
	if res.Hit {
		g.opts.Observer.CacheHit(page)
		logging.FromContext(ctx).Debug().Str("component", "grid").Int("page", page).Msg("cache hit")
	}
	return res.Records, res.Total, res.Hit, nil
}

func (g *Grid[T]) fetchFunc(page int) cache.FetchFunc[T] {
	return func(ctx context.Context) (cache.Page[T], error) {
		g.opts.Observer.FetchStarted(page)
		start := time.Now()
		p, err := g.src.FetchPage(ctx, source.PageRequest{Page: page, PageSize: g.opts.PageSize})
		g.opts.Observer.FetchFinished(page, time.Since(start), err)
		if err != nil {
			return cache.Page[T]{}, err
		}
		return cache.Page[T]{Records: p.Records, Total: p.Total}, nil
	}
}

func (g *Grid[T]) cacheKey(page int) string {
	return g.opts.CacheKey(cache.KeyParams{
		Endpoint: g.opts.DataURL,
		Method:   g.opts.DataMethod,
		Page:     page,
		PageSize: g.opts.PageSize,
		Params:   g.opts.Params,
	})
}

// markup builds the container content: items followed by the pager.
func (g *Grid[T]) markup(records []T, page, total int) (string, error) {
	if g.opts.RenderItem == nil {
		return "", ErrMissingRenderItem
	}

	items, err := render.Items(records, g.opts.RenderItem)
	if err != nil {
		return "", err
	}
	if g.opts.DisablePager {
		return items, nil
	}

	window := pagination.NewWindow(page, pagination.TotalPages(total, g.opts.PageSize))
	pager, err := g.opts.Pager.RenderPager(window)
	if err != nil {
		return "", err
	}
	return items + pager, nil
}

func (g *Grid[T]) reportError(err error) {
	if g.opts.OnError != nil {
		g.opts.OnError(err)
	}
}
