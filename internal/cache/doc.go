// Package cache stores fetched grid pages so revisiting a page skips the network.
//
// Key features:
//   - Store[T]: the page store contract, keyed by strings produced by a KeyStrategy
//   - MemoryStore: append-only map, never evicted or invalidated (the default)
//   - LRUStore: bounded in-memory store backed by hashicorp/golang-lru
//   - FileStore: JSON files with TTL expiration, for caches that outlive the process
//   - RedisStore: shared store with TTL, for several servers rendering the same grid
//   - Loader: collapses concurrent loads of the same key into one fetch
//
// Keys are never derived implicitly. PageKey reproduces the page-number-only
// behaviour; RequestKey also covers endpoint, method, page size and filters.
package cache
