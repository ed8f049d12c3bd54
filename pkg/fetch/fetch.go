// Package fetch downloads geometry documents over HTTP.
//
// The CLI accepts an http or https URL wherever it accepts an input file.
// Responses are cached through a [cache.Cache] under the "fetch" namespace,
// and transient failures (network errors, 5xx and 429 responses) are retried
// with exponential backoff.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/matzehuels/geobuffer/pkg/cache"
	"github.com/matzehuels/geobuffer/pkg/errors"
	"github.com/matzehuels/geobuffer/pkg/observability"
)

const (
	// DefaultTimeout bounds a single HTTP request.
	DefaultTimeout = 10 * time.Second

	// DefaultTTL is how long fetched documents stay cached.
	DefaultTTL = time.Hour

	// MaxBodyBytes is the largest document Get will read.
	MaxBodyBytes = 64 << 20

	namespace = "fetch"
)

// Client fetches documents with caching and retries.
type Client struct {
	http     *http.Client
	cache    cache.Cache
	keyer    cache.Keyer
	ttl      time.Duration
	headers  map[string]string
	attempts int
	delay    time.Duration
}

// NewClient creates a Client backed by c. A nil cache disables caching and a
// nil keyer uses [cache.NewDefaultKeyer]. headers are sent with every request.
func NewClient(c cache.Cache, keyer cache.Keyer, ttl time.Duration, headers map[string]string) *Client {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Client{
		http:     &http.Client{Timeout: DefaultTimeout},
		cache:    c,
		keyer:    keyer,
		ttl:      ttl,
		headers:  headers,
		attempts: 3,
		delay:    time.Second,
	}
}

// Get fetches rawURL without caching.
func Get(ctx context.Context, rawURL string) ([]byte, error) {
	return NewClient(nil, nil, 0, nil).Get(ctx, rawURL, false)
}

// Get returns the body of rawURL, from the cache unless refresh is set.
func (c *Client) Get(ctx context.Context, rawURL string, refresh bool) ([]byte, error) {
	if err := errors.ValidateURL(rawURL); err != nil {
		return nil, err
	}
	key := c.keyer.HTTPKey(namespace, rawURL)
	if !refresh {
		if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
			observability.Cache().OnCacheHit(ctx, cache.KeyTypeHTTP)
			return data, nil
		}
		observability.Cache().OnCacheMiss(ctx, cache.KeyTypeHTTP)
	}

	var body []byte
	err := cache.Retry(ctx, c.attempts, c.delay, func() error {
		var err error
		body, err = c.do(ctx, rawURL)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, key, body, c.ttl); err == nil {
		observability.Cache().OnCacheSet(ctx, cache.KeyTypeHTTP, len(body))
	}
	return body, nil
}

func (c *Client) do(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid URL %q", rawURL)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	host, path := requestTarget(req.URL)
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, cache.Retryable(errors.Wrap(errors.ErrCodeNetwork, fmt.Errorf("%w: %v", cache.ErrNetwork, err), "fetch %s", rawURL))
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes+1))
	if err != nil {
		return nil, cache.Retryable(errors.Wrap(errors.ErrCodeNetwork, fmt.Errorf("%w: %v", cache.ErrNetwork, err), "read %s", rawURL))
	}
	if len(data) > MaxBodyBytes {
		return nil, errors.New(errors.ErrCodeInvalidInput, "document at %s exceeds %d bytes", rawURL, MaxBodyBytes)
	}
	return data, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "document not found")
	case code == http.StatusTooManyRequests:
		return cache.Retryable(errors.New(errors.ErrCodeRateLimited, "rate limited: status %d", code))
	case code >= 500:
		return cache.Retryable(errors.Wrap(errors.ErrCodeNetwork, cache.ErrNetwork, "status %d", code))
	default:
		return errors.New(errors.ErrCodeNetwork, "unexpected status %d", code)
	}
}

func requestTarget(u *url.URL) (host, path string) {
	if u == nil {
		return "", ""
	}
	return u.Host, u.Path
}
