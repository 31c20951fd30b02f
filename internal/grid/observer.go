package grid

import "time"

// Observer receives load events. Implementations must be safe for concurrent
// use.
type Observer interface {
	FetchStarted(page int)
	FetchFinished(page int, elapsed time.Duration, err error)
	CacheHit(page int)
	Superseded(page int)
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) FetchStarted(int)                        {}
func (NopObserver) FetchFinished(int, time.Duration, error) {}
func (NopObserver) CacheHit(int)                            {}
func (NopObserver) Superseded(int)                          {}

// Result describes a completed page change.
type Result struct {
	Page       int
	Records    int
	TotalCount int
	TotalPages int

	// FromCache is true when the records came from the store.
	FromCache bool
}
