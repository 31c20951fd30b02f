package grid

import (
	"net/http"
	"net/url"

	"github.com/rshade/gridpager/internal/cache"
	"github.com/rshade/gridpager/internal/pagination"
	"github.com/rshade/gridpager/internal/render"
	"github.com/rshade/gridpager/internal/source"
)

// PagerRenderer renders the pager strip appended after the items.
type PagerRenderer interface {
	RenderPager(w pagination.Window) (string, error)
}

// PagerFunc adapts a function to PagerRenderer.
type PagerFunc func(w pagination.Window) (string, error)

// RenderPager calls f.
func (f PagerFunc) RenderPager(w pagination.Window) (string, error) {
	return f(w)
}

// Options configures a Grid. Zero values take the defaults returned by
// DefaultOptions.
type Options[T any] struct {
	CurrentPage int
	PageSize    int

	// TotalCount seeds the record count until the first response replaces it.
	TotalCount int

	// DataURL is the endpoint queried when Source is nil.
	DataURL string

	// DataMethod is GET or POST.
	DataMethod string

	RenderItem render.ItemFunc[T]
	UseCache   bool

	// Source replaces the HTTP source built from DataURL.
	Source source.Source[T]

	// HTTPOptions are passed to the HTTP source built from DataURL.
	HTTPOptions []source.HTTPOption

	// Params are extra request parameters sent with every fetch.
	Params url.Values

	// Store holds cached pages when UseCache is set. Defaults to a MemoryStore.
	Store cache.Store[T]

	// Loader replaces the loader built over Store. Grids sharing one Loader
	// also share in-flight fetches.
	Loader *cache.Loader[T]

	// CacheKey derives store keys. Defaults to cache.PageKey.
	CacheKey cache.KeyStrategy

	// Pager renders the pager strip. Defaults to render.NewHTMLPager().
	Pager PagerRenderer

	// DisablePager omits the pager strip.
	DisablePager bool

	// MaxPrefetch bounds concurrent fetches started by Prefetch.
	MaxPrefetch int

	OnError  func(error)
	OnResult func(Result)
	Observer Observer
}

// Default option values.
const (
	DefaultMethod      = http.MethodGet
	DefaultMaxPrefetch = 4
)

// DefaultOptions returns the option defaults.
func DefaultOptions[T any]() Options[T] {
	p := pagination.NewParams()
	return Options[T]{
		CurrentPage: p.Page,
		PageSize:    p.PageSize,
		TotalCount:  0,
		DataMethod:  DefaultMethod,
		UseCache:    false,
		CacheKey:    cache.PageKey,
		MaxPrefetch: DefaultMaxPrefetch,
	}
}

// merge overlays the non-zero fields of o on the defaults.
func merge[T any](o Options[T]) Options[T] {
	d := DefaultOptions[T]()
	if o.CurrentPage == 0 {
		o.CurrentPage = d.CurrentPage
	}
	if o.PageSize == 0 {
		o.PageSize = d.PageSize
	}
	if o.DataMethod == "" {
		o.DataMethod = d.DataMethod
	}
	if o.CacheKey == nil {
		o.CacheKey = d.CacheKey
	}
	if o.MaxPrefetch <= 0 {
		o.MaxPrefetch = d.MaxPrefetch
	}
	if o.Pager == nil && !o.DisablePager {
		o.Pager = render.NewHTMLPager()
	}
	if o.Observer == nil {
		o.Observer = NopObserver{}
	}
	if o.UseCache && o.Store == nil && o.Loader == nil {
		o.Store = cache.NewMemoryStore[T]()
	}
	return o
}
