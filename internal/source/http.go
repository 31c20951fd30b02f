package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/rshade/gridpager/internal/logging"
)

// HTTP defaults.
const (
	DefaultMethod  = http.MethodGet
	DefaultTimeout = 10 * time.Second

	// maxBodyBytes caps how much of a response body is read.
	maxBodyBytes = 8 << 20
)

// HTTPOption configures an HTTPSource.
type HTTPOption func(*httpOptions)

type httpOptions struct {
	method  string
	client  *http.Client
	timeout time.Duration
	params  url.Values
	retry   *RetryConfig
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

// WithMethod sets the HTTP method. Only GET and POST are accepted by NewHTTPSource.
func WithMethod(method string) HTTPOption {
	return func(o *httpOptions) { o.method = strings.ToUpper(strings.TrimSpace(method)) }
}

// WithClient sets the HTTP client. The default is a client with DefaultTimeout.
func WithClient(client *http.Client) HTTPOption {
	return func(o *httpOptions) { o.client = client }
}

// WithTimeout bounds each request attempt.
func WithTimeout(d time.Duration) HTTPOption {
	return func(o *httpOptions) { o.timeout = d }
}

// WithParams adds extra parameters (filters) sent with every request.
// iDisplayStart and iDisplayLength always take the computed values.
func WithParams(params url.Values) HTTPOption {
	return func(o *httpOptions) { o.params = params }
}

// WithRetry retries transient failures with exponential backoff.
func WithRetry(cfg RetryConfig) HTTPOption {
	return func(o *httpOptions) { o.retry = &cfg }
}

// WithRateLimit limits outbound requests to rps per second with the given burst.
// A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) HTTPOption {
	return func(o *httpOptions) {
		if rps <= 0 {
			o.limiter = nil
			return
		}
		o.limiter = rate.NewLimiter(rate.Limit(rps), max(burst, 1))
	}
}

// WithCircuitBreaker wraps every fetch in the given breaker.
func WithCircuitBreaker(cb *gobreaker.CircuitBreaker) HTTPOption {
	return func(o *httpOptions) { o.breaker = cb }
}

// HTTPSource fetches pages from a remote grid endpoint.
type HTTPSource[T any] struct {
	dataURL string
	opts    httpOptions
}

// NewHTTPSource creates a source for dataURL.
// An empty dataURL is accepted here and reported by FetchPage, so the failure
// surfaces at fetch time.
func NewHTTPSource[T any](dataURL string, options ...HTTPOption) (*HTTPSource[T], error) {
	opts := httpOptions{
		method:  DefaultMethod,
		timeout: DefaultTimeout,
	}
	for _, opt := range options {
		opt(&opts)
	}

	if opts.method == "" {
		opts.method = DefaultMethod
	}
	if opts.method != http.MethodGet && opts.method != http.MethodPost {
		return nil, fmt.Errorf("unsupported data method %q: use GET or POST", opts.method)
	}
	if opts.client == nil {
		opts.client = &http.Client{Timeout: opts.timeout}
	}

	if dataURL != "" {
		if _, err := url.Parse(dataURL); err != nil {
			return nil, fmt.Errorf("invalid data url %q: %w", dataURL, err)
		}
	}

	return &HTTPSource[T]{dataURL: dataURL, opts: opts}, nil
}

// Params returns a copy of the extra request parameters.
func (s *HTTPSource[T]) Params() url.Values {
	out := url.Values{}
	for k, v := range s.opts.params {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// FetchPage requests one page from the endpoint.
func (s *HTTPSource[T]) FetchPage(ctx context.Context, req PageRequest) (Page[T], error) {
	if s.dataURL == "" {
		return Page[T]{}, ErrMissingDataURL
	}
	if req.Page < 1 {
		return Page[T]{}, fmt.Errorf("%w: got %d", ErrInvalidPage, req.Page)
	}

	log := logging.FromContext(ctx)
	start := time.Now()

	attempt := func() (Page[T], error) {
		if s.opts.limiter != nil {
			if err := s.opts.limiter.Wait(ctx); err != nil {
				return Page[T]{}, err
			}
		}
		return s.fetchOnce(ctx, req)
	}

	call := attempt
	if s.opts.breaker != nil {
		call = func() (Page[T], error) {
			v, err := s.opts.breaker.Execute(func() (interface{}, error) {
				return attempt()
			})
			if err != nil {
				return Page[T]{}, err
			}
			return v.(Page[T]), nil
		}
	}

	var (
		page Page[T]
		err  error
	)
	if s.opts.retry != nil {
		page, err = retry(ctx, *s.opts.retry, call)
	} else {
		page, err = call()
	}

	if err != nil {
		log.Warn().
			Str("component", "source").
			Str("method", s.opts.method).
			Str("url", s.dataURL).
			Int("page", req.Page).
			Err(err).
			Msg("page fetch failed")
		return Page[T]{}, err
	}

	log.Debug().
		Str("component", "source").
		Str("method", s.opts.method).
		Str("url", s.dataURL).
		Int("page", req.Page).
		Int("records", len(page.Records)).
		Int("total", page.Total).
		Dur("duration", time.Since(start)).
		Msg("page fetched")

	return page, nil
}

// fetchOnce performs a single request attempt.
func (s *HTTPSource[T]) fetchOnce(ctx context.Context, req PageRequest) (Page[T], error) {
	values := s.Params()
	values.Set(ParamDisplayStart, strconv.Itoa(req.Offset()))
	values.Set(ParamDisplayLength, strconv.Itoa(req.PageSize))

	httpReq, err := s.newRequest(ctx, values)
	if err != nil {
		return Page[T]{}, err
	}

	resp, err := s.opts.client.Do(httpReq)
	if err != nil {
		return Page[T]{}, fmt.Errorf("%s %s: %w", s.opts.method, s.dataURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return Page[T]{}, &StatusError{Code: resp.StatusCode, Method: s.opts.method, URL: s.dataURL}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Page[T]{}, fmt.Errorf("reading response body: %w", err)
	}

	return DecodePage[T](body, req)
}

// newRequest builds the GET (query string) or POST (form body) request.
func (s *HTTPSource[T]) newRequest(ctx context.Context, values url.Values) (*http.Request, error) {
	if s.opts.method == http.MethodPost {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.dataURL,
			strings.NewReader(values.Encode()))
		if err != nil {
			return nil, fmt.Errorf("building request: %w", err)
		}
		httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		httpReq.Header.Set("Accept", "application/json")
		return httpReq, nil
	}

	u, err := url.Parse(s.dataURL)
	if err != nil {
		return nil, fmt.Errorf("invalid data url %q: %w", s.dataURL, err)
	}
	query := u.Query()
	for k, v := range values {
		query[k] = v
	}
	u.RawQuery = query.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	return httpReq, nil
}

// IsTemporary reports whether err is worth retrying.
func IsTemporary(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, ErrDecode) || errors.Is(err, ErrInvalidPage) || errors.Is(err, ErrMissingDataURL) {
		return false
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Temporary()
	}
	// Transport errors (connection refused, resets, client timeouts).
	return true
}
