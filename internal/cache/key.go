package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Key strategy names accepted by ParseKeyStrategy.
const (
	KeyStrategyPage    = "page"
	KeyStrategyRequest = "request"
)

// KeyParams describes the request whose records are being cached.
type KeyParams struct {
	Endpoint string
	Method   string
	Page     int
	PageSize int

	// Params holds extra request parameters (filters) sent with the fetch.
	Params map[string][]string
}

// KeyStrategy builds a cache key from request parameters.
type KeyStrategy func(KeyParams) string

// PageKey keys by page number only. Pages fetched with different filters or
// endpoints share a key, so use it only when those never change at runtime.
func PageKey(p KeyParams) string {
	return "page:" + strconv.Itoa(p.Page)
}

// RequestKey keys by every parameter that shapes the response. The key is a
// SHA256 hash of the normalized parameters, so parameter order, method case and
// surrounding whitespace do not matter.
func RequestKey(p KeyParams) string {
	normalized := struct {
		Endpoint string     `json:"endpoint"`
		Method   string     `json:"method"`
		Page     int        `json:"page"`
		PageSize int        `json:"page_size"`
		Params   [][]string `json:"params,omitempty"`
	}{
		Endpoint: strings.TrimSpace(p.Endpoint),
		Method:   strings.ToUpper(strings.TrimSpace(p.Method)),
		Page:     p.Page,
		PageSize: p.PageSize,
	}

	names := make([]string, 0, len(p.Params))
	for name := range p.Params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		values := append([]string(nil), p.Params[name]...)
		sort.Strings(values)
		normalized.Params = append(normalized.Params, append([]string{name}, values...))
	}

	// Marshalling a struct of strings and ints cannot fail.
	data, _ := json.Marshal(normalized)
	sum := sha256.Sum256(data)
	return "req:" + hex.EncodeToString(sum[:])
}

// ParseKeyStrategy returns the strategy registered under name.
// An empty name selects PageKey.
func ParseKeyStrategy(name string) (KeyStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", KeyStrategyPage:
		return PageKey, nil
	case KeyStrategyRequest:
		return RequestKey, nil
	default:
		return nil, fmt.Errorf("unknown cache key strategy %q (want %q or %q)",
			name, KeyStrategyPage, KeyStrategyRequest)
	}
}
