package source

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// envelope is the object response shape: {"data": [...], "total": N}.
type envelope[T any] struct {
	Data  []T  `json:"data"`
	Total *int `json:"total"`
}

// DecodePage parses a page response body.
//
// A bare array is taken as the page itself with total = offset + len(array).
// An object must carry "data"; a missing "total" is treated the same way.
// Records beyond pageSize are trimmed.
func DecodePage[T any](body []byte, req PageRequest) (Page[T], error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return Page[T]{}, fmt.Errorf("%w: empty body", ErrDecode)
	}

	var page Page[T]
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &page.Records); err != nil {
			return Page[T]{}, fmt.Errorf("%w: %w", ErrDecode, err)
		}
		page.Total = max(req.Offset(), 0) + len(page.Records)
	case '{':
		var env envelope[T]
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return Page[T]{}, fmt.Errorf("%w: %w", ErrDecode, err)
		}
		if env.Data == nil {
			return Page[T]{}, fmt.Errorf("%w: object response has no \"data\" array", ErrDecode)
		}
		page.Records = env.Data
		if env.Total != nil {
			page.Total = *env.Total
		} else {
			page.Total = max(req.Offset(), 0) + len(env.Data)
		}
	default:
		return Page[T]{}, fmt.Errorf("%w: expected JSON array or object", ErrDecode)
	}

	if page.Total < 0 {
		return Page[T]{}, fmt.Errorf("%w: negative total %d", ErrDecode, page.Total)
	}
	if req.PageSize > 0 && len(page.Records) > req.PageSize {
		page.Records = page.Records[:req.PageSize]
	}
	return page, nil
}
