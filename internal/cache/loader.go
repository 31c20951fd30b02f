package cache

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"
)

// FetchFunc produces a page on a cache miss.
type FetchFunc[T any] func(ctx context.Context) (Page[T], error)

// Result is the outcome of Loader.Load.
type Result[T any] struct {
	Records []T

	// Total is the total record count reported with the page, whether it came
	// from the store or from the fetch.
	Total int

	// Hit is true when the page came from the store.
	Hit bool

	// Shared is true when the fetch was started by another concurrent caller.
	Shared bool
}

// flight is the value shared by callers of one singleflight call.
type flight[T any] struct {
	page Page[T]
	hit  bool
}

// Loader reads through a Store, collapsing concurrent misses for the same key
// into a single fetch. One Loader is meant to be shared by every grid reading
// the same store.
type Loader[T any] struct {
	store Store[T]
	group singleflight.Group
}

// NewLoader creates a Loader over store.
func NewLoader[T any](store Store[T]) *Loader[T] {
	return &Loader[T]{store: store}
}

// Lookup returns the cached page for key. hit is false on a miss; err is set
// only for store failures.
func (l *Loader[T]) Lookup(ctx context.Context, key string) (page Page[T], hit bool, err error) {
	page, err = l.store.Get(ctx, key)
	if err != nil {
		if IsMiss(err) {
			return Page[T]{}, false, nil
		}
		return Page[T]{}, false, err
	}
	return page, true, nil
}

// Load returns the cached page for key, calling fetch on a miss and storing
// its result. Concurrent Load calls for one key share a single fetch.
//
// The shared fetch runs detached from the cancellation of whichever caller
// started it; each caller stops waiting when its own ctx ends.
func (l *Loader[T]) Load(ctx context.Context, key string, fetch FetchFunc[T]) (Result[T], error) {
	page, hit, err := l.Lookup(ctx, key)
	if err != nil {
		return Result[T]{}, err
	}
	if hit {
		return Result[T]{Records: page.Records, Total: page.Total, Hit: true}, nil
	}

	fetchCtx := context.WithoutCancel(ctx)
	executed := false
	ch := l.group.DoChan(key, func() (interface{}, error) {
		executed = true
		// A flight that finished after our lookup may have stored the page.
		if cached, cachedHit, lookupErr := l.Lookup(fetchCtx, key); lookupErr == nil && cachedHit {
			return flight[T]{page: cached, hit: true}, nil
		}
		fetched, fetchErr := fetch(fetchCtx)
		if fetchErr != nil {
			return nil, fetchErr
		}
		if setErr := l.store.Set(fetchCtx, key, fetched); setErr != nil {
			return nil, fmt.Errorf("failed to cache %s: %w", key, setErr)
		}
		return flight[T]{page: fetched}, nil
	})

	select {
	case <-ctx.Done():
		return Result[T]{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Result[T]{Shared: !executed}, res.Err
		}
		f := res.Val.(flight[T])
		return Result[T]{
			Records: append([]T(nil), f.page.Records...),
			Total:   f.page.Total,
			Hit:     f.hit,
			Shared:  !executed,
		}, nil
	}
}
