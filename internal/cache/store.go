package cache

import (
	"context"
	"errors"
	"sync"
)

// Common cache errors.
var (
	ErrCacheNotFound   = errors.New("cache entry not found")
	ErrCacheExpired    = errors.New("cache entry expired")
	ErrInvalidCacheKey = errors.New("cache key cannot be empty")
	ErrCacheDisabled   = errors.New("cache is disabled")
)

// Page is a cached page: its records and the total record count the source
// reported with them.
type Page[T any] struct {
	Records []T `json:"records"`
	Total   int `json:"total"`
}

func (p Page[T]) clone() Page[T] {
	return Page[T]{Records: append([]T(nil), p.Records...), Total: p.Total}
}

// Store holds previously fetched pages.
//
// Get returns ErrCacheNotFound (or ErrCacheExpired for TTL stores) when the key
// is absent; any other error is a store failure.
type Store[T any] interface {
	Get(ctx context.Context, key string) (Page[T], error)
	Set(ctx context.Context, key string, page Page[T]) error
}

// MemoryStore is an append-only in-process store. Entries are never evicted.
// Thread-safe for concurrent access.
type MemoryStore[T any] struct {
	mu      sync.RWMutex
	entries map[string]Page[T]
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore[T any]() *MemoryStore[T] {
	return &MemoryStore[T]{entries: make(map[string]Page[T])}
}

// Get returns a copy of the page stored under key.
func (s *MemoryStore[T]) Get(_ context.Context, key string) (Page[T], error) {
	if key == "" {
		return Page[T]{}, ErrInvalidCacheKey
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	page, ok := s.entries[key]
	if !ok {
		return Page[T]{}, ErrCacheNotFound
	}
	return page.clone(), nil
}

// Set stores a copy of page under key, replacing any previous value.
func (s *MemoryStore[T]) Set(_ context.Context, key string, page Page[T]) error {
	if key == "" {
		return ErrInvalidCacheKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = page.clone()
	return nil
}

// Len returns the number of stored pages.
func (s *MemoryStore[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// IsMiss reports whether err means the key is simply not cached.
func IsMiss(err error) bool {
	return errors.Is(err, ErrCacheNotFound) || errors.Is(err, ErrCacheExpired)
}
