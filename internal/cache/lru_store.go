package cache

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultLRUSize is the default number of pages an LRUStore keeps.
const DefaultLRUSize = 256

// LRUStore is a bounded in-process store that evicts the least recently used page.
type LRUStore[T any] struct {
	cache *lru.Cache[string, Page[T]]
}

// NewLRUStore creates an LRUStore holding at most size pages.
func NewLRUStore[T any](size int) (*LRUStore[T], error) {
	if size <= 0 {
		size = DefaultLRUSize
	}
	c, err := lru.New[string, Page[T]](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create lru cache: %w", err)
	}
	return &LRUStore[T]{cache: c}, nil
}

// Get returns the page stored under key.
func (s *LRUStore[T]) Get(_ context.Context, key string) (Page[T], error) {
	if key == "" {
		return Page[T]{}, ErrInvalidCacheKey
	}
	page, ok := s.cache.Get(key)
	if !ok {
		return Page[T]{}, ErrCacheNotFound
	}
	return page.clone(), nil
}

// Set stores page under key, possibly evicting the least recently used one.
func (s *LRUStore[T]) Set(_ context.Context, key string, page Page[T]) error {
	if key == "" {
		return ErrInvalidCacheKey
	}
	s.cache.Add(key, page.clone())
	return nil
}

// Len returns the number of pages currently held.
func (s *LRUStore[T]) Len() int {
	return s.cache.Len()
}
