package pagination

import (
	"errors"
	"fmt"
)

// Paging defaults and validation limits.
const (
	DefaultPage     = 1
	DefaultPageSize = 16
	MinPage         = 1
	MinPageSize     = 1
	MaxPageSize     = 1000
)

// Common validation errors.
var (
	ErrInvalidPage     = errors.New("page must be >= 1")
	ErrInvalidPageSize = fmt.Errorf("page-size must be between %d and %d", MinPageSize, MaxPageSize)
	ErrInvalidTotal    = errors.New("total count cannot be negative")
)

// Params holds a page request: which page, and how many records per page.
type Params struct {
	// Page is the 1-based page number.
	Page int

	// PageSize is the number of records per page.
	PageSize int
}

// NewParams creates Params with default values.
func NewParams() Params {
	return Params{
		Page:     DefaultPage,
		PageSize: DefaultPageSize,
	}
}

// Validate checks that the page and page size are within bounds.
func (p Params) Validate() error {
	if p.Page < MinPage {
		return fmt.Errorf("%w: got %d", ErrInvalidPage, p.Page)
	}
	if p.PageSize < MinPageSize || p.PageSize > MaxPageSize {
		return fmt.Errorf("%w: got %d", ErrInvalidPageSize, p.PageSize)
	}
	return nil
}

// Offset returns the zero-based index of the first record on the page.
// Pages below 1 produce a negative offset; callers decide whether that is an error.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// TotalPages returns ceil(totalCount/pageSize), never less than 1.
// A non-positive page size is treated as a single page holding everything.
func TotalPages(totalCount, pageSize int) int {
	if pageSize <= 0 || totalCount <= 0 {
		return 1
	}
	pages := totalCount / pageSize
	if totalCount%pageSize > 0 {
		pages++
	}
	return pages
}

// Clamp limits page to [1, totalPages].
func Clamp(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}
