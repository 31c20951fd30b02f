package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID int `json:"id"`
}

// endpoint serves total items in the {data,total} shape and records the last request.
type endpoint struct {
	total    int
	calls    int32
	lastForm url.Values
	method   string
}

func (e *endpoint) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&e.calls, 1)
		assert.NoError(t, r.ParseForm())
		e.lastForm = r.Form
		e.method = r.Method

		start, _ := strconv.Atoi(r.Form.Get(ParamDisplayStart))
		length, _ := strconv.Atoi(r.Form.Get(ParamDisplayLength))

		data := []item{}
		for i := start; i < min(start+length, e.total); i++ {
			data = append(data, item{ID: i + 1})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"data": data, "total": e.total})
	}
}

func TestHTTPSource_GET(t *testing.T) {
	ep := &endpoint{total: 50}
	srv := httptest.NewServer(ep.handler(t))
	defer srv.Close()

	src, err := NewHTTPSource[item](srv.URL+"/data?sort=id",
		WithParams(url.Values{"q": {"abc"}}))
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, src.opts.method)

	page, err := src.FetchPage(context.Background(), PageRequest{Page: 3, PageSize: 8})
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, ep.method)
	assert.Equal(t, "16", ep.lastForm.Get(ParamDisplayStart))
	assert.Equal(t, "8", ep.lastForm.Get(ParamDisplayLength))
	assert.Equal(t, "abc", ep.lastForm.Get("q"))
	assert.Equal(t, "id", ep.lastForm.Get("sort"))

	assert.Equal(t, 50, page.Total)
	require.Len(t, page.Records, 8)
	assert.Equal(t, 17, page.Records[0].ID)
}

func TestHTTPSource_POST(t *testing.T) {
	ep := &endpoint{total: 10}
	srv := httptest.NewServer(ep.handler(t))
	defer srv.Close()

	src, err := NewHTTPSource[item](srv.URL, WithMethod("post"))
	require.NoError(t, err)

	page, err := src.FetchPage(context.Background(), PageRequest{Page: 2, PageSize: 4})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, ep.method)
	assert.Equal(t, "4", ep.lastForm.Get(ParamDisplayStart))
	assert.Equal(t, "4", ep.lastForm.Get(ParamDisplayLength))
	assert.Equal(t, []item{{5}, {6}, {7}, {8}}, page.Records)
}

func TestHTTPSource_Errors(t *testing.T) {
	t.Run("missing url at fetch time", func(t *testing.T) {
		src, err := NewHTTPSource[item]("")
		require.NoError(t, err)
		_, err = src.FetchPage(context.Background(), PageRequest{Page: 1, PageSize: 4})
		assert.ErrorIs(t, err, ErrMissingDataURL)
	})

	t.Run("unsupported method", func(t *testing.T) {
		_, err := NewHTTPSource[item]("http://example.test", WithMethod("PUT"))
		assert.Error(t, err)
	})

	t.Run("invalid page", func(t *testing.T) {
		src, err := NewHTTPSource[item]("http://example.test")
		require.NoError(t, err)
		_, err = src.FetchPage(context.Background(), PageRequest{Page: 0, PageSize: 4})
		assert.ErrorIs(t, err, ErrInvalidPage)
	})

	t.Run("status error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		src, err := NewHTTPSource[item](srv.URL)
		require.NoError(t, err)
		_, err = src.FetchPage(context.Background(), PageRequest{Page: 1, PageSize: 4})

		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusNotFound, statusErr.Code)
		assert.False(t, statusErr.Temporary())
		assert.Contains(t, statusErr.Error(), "404")
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("<html>oops</html>"))
		}))
		defer srv.Close()

		src, err := NewHTTPSource[item](srv.URL)
		require.NoError(t, err)
		_, err = src.FetchPage(context.Background(), PageRequest{Page: 1, PageSize: 4})
		assert.ErrorIs(t, err, ErrDecode)
	})
}

func TestHTTPSource_Retry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`[{"id":1}]`))
	}))
	defer srv.Close()

	src, err := NewHTTPSource[item](srv.URL, WithRetry(RetryConfig{
		MaxRetries:      3,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
	}))
	require.NoError(t, err)

	page, err := src.FetchPage(context.Background(), PageRequest{Page: 1, PageSize: 4})
	require.NoError(t, err)
	assert.Equal(t, []item{{1}}, page.Records)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))

	t.Run("permanent errors are not retried", func(t *testing.T) {
		var notFound int32
		srv404 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			atomic.AddInt32(&notFound, 1)
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer srv404.Close()

		src404, newErr := NewHTTPSource[item](srv404.URL, WithRetry(RetryConfig{MaxRetries: 3, InitialInterval: time.Millisecond}))
		require.NoError(t, newErr)
		_, fetchErr := src404.FetchPage(context.Background(), PageRequest{Page: 1, PageSize: 4})
		assert.Error(t, fetchErr)
		assert.Equal(t, int32(1), atomic.LoadInt32(&notFound))
	})
}

func TestHTTPSource_CircuitBreaker(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cb := NewCircuitBreaker(BreakerConfig{MinRequests: 2, FailureRatio: 0.5, Timeout: time.Minute})
	src, err := NewHTTPSource[item](srv.URL, WithCircuitBreaker(cb))
	require.NoError(t, err)

	ctx := context.Background()
	for range 2 {
		_, fetchErr := src.FetchPage(ctx, PageRequest{Page: 1, PageSize: 4})
		require.Error(t, fetchErr)
	}
	assert.Equal(t, gobreaker.StateOpen, cb.State())

	_, err = src.FetchPage(ctx, PageRequest{Page: 1, PageSize: 4})
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestHTTPSource_RateLimit(t *testing.T) {
	ep := &endpoint{total: 4}
	srv := httptest.NewServer(ep.handler(t))
	defer srv.Close()

	src, err := NewHTTPSource[item](srv.URL, WithRateLimit(1000, 1))
	require.NoError(t, err)

	for range 3 {
		_, fetchErr := src.FetchPage(context.Background(), PageRequest{Page: 1, PageSize: 4})
		require.NoError(t, fetchErr)
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(&ep.calls))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	limited, err := NewHTTPSource[item](srv.URL, WithRateLimit(0.001, 1))
	require.NoError(t, err)
	_, _ = limited.FetchPage(context.Background(), PageRequest{Page: 1, PageSize: 4}) // consume the burst
	_, err = limited.FetchPage(ctx, PageRequest{Page: 1, PageSize: 4})
	assert.Error(t, err)
}

func TestDecodePage(t *testing.T) {
	req := PageRequest{Page: 2, PageSize: 2}

	tests := []struct {
		name      string
		body      string
		wantIDs   []int
		wantTotal int
		wantErr   bool
	}{
		{name: "bare array", body: `[{"id":1},{"id":2}]`, wantIDs: []int{1, 2}, wantTotal: 4},
		{name: "envelope", body: `{"data":[{"id":3}],"total":9}`, wantIDs: []int{3}, wantTotal: 9},
		{name: "envelope trimmed", body: `{"data":[{"id":1},{"id":2},{"id":3}],"total":30}`, wantIDs: []int{1, 2}, wantTotal: 30},
		{name: "envelope without total", body: ` {"data":[{"id":5}]}`, wantIDs: []int{5}, wantTotal: 3},
		{name: "empty data", body: `{"data":[],"total":0}`, wantIDs: []int{}, wantTotal: 0},
		{name: "missing data", body: `{"total":3}`, wantErr: true},
		{name: "negative total", body: `{"data":[],"total":-1}`, wantErr: true},
		{name: "scalar", body: `42`, wantErr: true},
		{name: "empty", body: ``, wantErr: true},
		{name: "broken json", body: `[{"id":`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := DecodePage[item]([]byte(tt.body), req)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrDecode)
				return
			}
			require.NoError(t, err)
			ids := []int{}
			for _, r := range page.Records {
				ids = append(ids, r.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, tt.wantTotal, page.Total)
		})
	}
}

func TestSlice(t *testing.T) {
	records := make([]item, 10)
	for i := range records {
		records[i] = item{ID: i + 1}
	}
	src := Slice(records)

	page, err := src.FetchPage(context.Background(), PageRequest{Page: 4, PageSize: 3})
	require.NoError(t, err)
	assert.Equal(t, []item{{10}}, page.Records)
	assert.Equal(t, 10, page.Total)

	page, err = src.FetchPage(context.Background(), PageRequest{Page: 9, PageSize: 3})
	require.NoError(t, err)
	assert.Empty(t, page.Records)

	_, err = src.FetchPage(context.Background(), PageRequest{Page: 0, PageSize: 3})
	assert.ErrorIs(t, err, ErrInvalidPage)
}

func TestIsTemporary(t *testing.T) {
	assert.False(t, IsTemporary(nil))
	assert.False(t, IsTemporary(context.Canceled))
	assert.False(t, IsTemporary(fmt.Errorf("wrap: %w", ErrDecode)))
	assert.False(t, IsTemporary(&StatusError{Code: 400}))
	assert.True(t, IsTemporary(&StatusError{Code: 502}))
	assert.True(t, IsTemporary(&StatusError{Code: 429}))
	assert.True(t, IsTemporary(errors.New("connection refused")))
	assert.False(t, IsTemporary(gobreaker.ErrOpenState))
}
