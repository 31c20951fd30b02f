package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// cacheFileExtension is the file extension used for cache entries.
const cacheFileExtension = ".json"

// FileStore persists pages as JSON files with TTL expiration.
// Thread-safe for concurrent access.
type FileStore[T any] struct {
	directory  string
	enabled    bool
	ttlSeconds int

	// mu protects concurrent access to file operations.
	mu sync.RWMutex
}

// NewFileStore creates a file-backed store in directory, creating it if needed.
// A disabled store answers every call with ErrCacheDisabled.
func NewFileStore[T any](directory string, enabled bool, ttlSeconds int) (*FileStore[T], error) {
	if !enabled {
		return &FileStore[T]{enabled: false}, nil
	}

	if directory == "" {
		return nil, errors.New("cache directory cannot be empty")
	}

	if err := os.MkdirAll(directory, 0750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	return &FileStore[T]{
		directory:  directory,
		enabled:    true,
		ttlSeconds: ttlSeconds,
	}, nil
}

// Get reads the page stored under key.
// Returns ErrCacheNotFound if absent and ErrCacheExpired if past its TTL; expired
// files are removed in the background.
func (s *FileStore[T]) Get(_ context.Context, key string) (Page[T], error) {
	entry, err := s.getEntry(key)
	if err != nil {
		return Page[T]{}, err
	}

	var records []T
	if unmarshalErr := json.Unmarshal(entry.Records, &records); unmarshalErr != nil {
		return Page[T]{}, fmt.Errorf("failed to decode cached records: %w", unmarshalErr)
	}
	return Page[T]{Records: records, Total: entry.Total}, nil
}

// getEntry loads and validates the raw entry for key.
func (s *FileStore[T]) getEntry(key string) (*Entry, error) {
	if !s.enabled {
		return nil, ErrCacheDisabled
	}
	if key == "" {
		return nil, ErrInvalidCacheKey
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	filePath := s.keyToFilePath(key)
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrCacheNotFound
		}
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	var entry Entry
	if unmarshalErr := json.Unmarshal(data, &entry); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal cache entry: %w", unmarshalErr)
	}

	if entry.IsExpired() {
		go func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			_ = os.Remove(filePath)
		}()
		return nil, ErrCacheExpired
	}

	return &entry, nil
}

// Set writes page under key, overwriting any existing entry.
// The file is written to a temporary path and renamed into place.
func (s *FileStore[T]) Set(_ context.Context, key string, page Page[T]) error {
	if !s.enabled {
		return ErrCacheDisabled
	}
	if key == "" {
		return ErrInvalidCacheKey
	}

	encoded, err := json.Marshal(page.Records)
	if err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}

	entryData, err := json.MarshalIndent(NewEntry(key, encoded, page.Total, s.ttlSeconds), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	filePath := s.keyToFilePath(key)
	tempPath := filePath + ".tmp"
	if writeErr := os.WriteFile(tempPath, entryData, 0600); writeErr != nil {
		return fmt.Errorf("failed to write cache file: %w", writeErr)
	}
	if renameErr := os.Rename(tempPath, filePath); renameErr != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename cache file: %w", renameErr)
	}

	return nil
}

// Clear removes every cache file in the store directory.
func (s *FileStore[T]) Clear() error {
	if !s.enabled {
		return ErrCacheDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.directory)
	if err != nil {
		return fmt.Errorf("failed to read cache directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != cacheFileExtension {
			continue
		}
		if removeErr := os.Remove(filepath.Join(s.directory, entry.Name())); removeErr != nil {
			return fmt.Errorf("failed to remove cache file %s: %w", entry.Name(), removeErr)
		}
	}
	return nil
}

// CleanupExpired removes expired entries and returns how many were removed.
func (s *FileStore[T]) CleanupExpired() (int, error) {
	if !s.enabled {
		return 0, ErrCacheDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.directory)
	if err != nil {
		return 0, fmt.Errorf("failed to read cache directory: %w", err)
	}

	removed := 0
	for _, dirEntry := range entries {
		if dirEntry.IsDir() || filepath.Ext(dirEntry.Name()) != cacheFileExtension {
			continue
		}

		filePath := filepath.Join(s.directory, dirEntry.Name())
		data, readErr := os.ReadFile(filePath)
		if readErr != nil {
			continue
		}

		var entry Entry
		if json.Unmarshal(data, &entry) != nil {
			continue
		}
		if entry.IsExpired() && os.Remove(filePath) == nil {
			removed++
		}
	}
	return removed, nil
}

// Stats summarizes the entries on disk.
type Stats struct {
	Entries int
	Expired int

	// Oldest is the age of the oldest live entry.
	Oldest time.Duration

	// NextExpiry is the remaining lifetime of the live entry that expires first.
	NextExpiry time.Duration
}

// Stats reads every cache file and summarizes it. Unreadable files are skipped.
func (s *FileStore[T]) Stats() (Stats, error) {
	if !s.enabled {
		return Stats{}, ErrCacheDisabled
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.directory)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to read cache directory: %w", err)
	}

	var stats Stats
	for _, dirEntry := range entries {
		if dirEntry.IsDir() || filepath.Ext(dirEntry.Name()) != cacheFileExtension {
			continue
		}
		data, readErr := os.ReadFile(filepath.Join(s.directory, dirEntry.Name()))
		if readErr != nil {
			continue
		}
		var entry Entry
		if json.Unmarshal(data, &entry) != nil {
			continue
		}

		stats.Entries++
		if entry.IsExpired() {
			stats.Expired++
			continue
		}
		stats.Oldest = max(stats.Oldest, entry.Age())
		if remaining := entry.TimeUntilExpiration(); stats.NextExpiry == 0 || remaining < stats.NextExpiry {
			stats.NextExpiry = remaining
		}
	}
	return stats, nil
}

// TTL returns the lifetime given to new entries.
func (s *FileStore[T]) TTL() time.Duration {
	return time.Duration(s.ttlSeconds) * time.Second
}

// Directory returns the cache directory path.
func (s *FileStore[T]) Directory() string {
	return s.directory
}

// keyToFilePath maps a key to a filesystem-safe file path.
func (s *FileStore[T]) keyToFilePath(key string) string {
	safeKey := strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(key)
	return filepath.Join(s.directory, safeKey+cacheFileExtension)
}
