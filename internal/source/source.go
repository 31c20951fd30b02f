package source

import (
	"context"
	"errors"
	"fmt"
)

// Request parameter names understood by grid endpoints.
const (
	ParamDisplayStart  = "iDisplayStart"
	ParamDisplayLength = "iDisplayLength"
)

// Common source errors.
var (
	ErrMissingDataURL = errors.New("dataUrl is required")
	ErrInvalidPage    = errors.New("page must be >= 1")
	ErrDecode         = errors.New("malformed page response")
)

// Record is the schemaless record type used when the caller has no struct for
// the endpoint's items.
type Record = map[string]any

// PageRequest identifies the page to fetch.
type PageRequest struct {
	Page     int
	PageSize int
}

// Offset returns the zero-based index of the first record of the page.
func (r PageRequest) Offset() int {
	return (r.Page - 1) * r.PageSize
}

// Page is one fetched page.
type Page[T any] struct {
	Records []T

	// Total is the total record count across all pages.
	Total int
}

// Source fetches one page of records.
type Source[T any] interface {
	FetchPage(ctx context.Context, req PageRequest) (Page[T], error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc[T any] func(ctx context.Context, req PageRequest) (Page[T], error)

// FetchPage calls f.
func (f SourceFunc[T]) FetchPage(ctx context.Context, req PageRequest) (Page[T], error) {
	return f(ctx, req)
}

// StatusError reports a non-2xx response from the endpoint.
type StatusError struct {
	Code   int
	Method string
	URL    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.URL, e.Code)
}

// Temporary reports whether retrying may succeed (429 and 5xx).
func (e *StatusError) Temporary() bool {
	return e.Code == 429 || e.Code >= 500
}

// Slice serves pages from an in-memory slice. It is mostly useful in tests and
// for fixed record sets.
func Slice[T any](records []T) Source[T] {
	return SourceFunc[T](func(_ context.Context, req PageRequest) (Page[T], error) {
		if req.Page < 1 {
			return Page[T]{}, fmt.Errorf("%w: got %d", ErrInvalidPage, req.Page)
		}
		start := min(req.Offset(), len(records))
		end := min(start+req.PageSize, len(records))
		return Page[T]{Records: append([]T(nil), records[start:end]...), Total: len(records)}, nil
	})
}
