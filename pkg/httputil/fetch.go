package httputil

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/matzehuels/areamap/pkg/cache"
	"github.com/matzehuels/areamap/pkg/errors"
	"github.com/matzehuels/areamap/pkg/observability"
)

const (
	// DefaultTimeout bounds a single request.
	DefaultTimeout = 30 * time.Second

	// MaxBodySize caps downloaded assets.
	MaxBodySize = 64 << 20
)

// Fetcher downloads remote assets with caching and retry.
type Fetcher struct {
	Client *http.Client
	Cache  cache.Cache
	Keyer  cache.Keyer
	TTL    time.Duration

	Retry Policy
}

// NewFetcher returns a fetcher using c for responses. A nil cache
// disables caching.
func NewFetcher(c cache.Cache, ttl time.Duration) *Fetcher {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Fetcher{
		Client: &http.Client{Timeout: DefaultTimeout},
		Cache:  c,
		Keyer:  cache.NewDefaultKeyer(),
		TTL:    ttl,
		Retry:  DefaultPolicy,
	}
}

// Fetch returns the body of rawURL. Network errors, 5xx and 429 responses
// are retried; other 4xx responses fail immediately.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if err := errors.ValidateURL(rawURL); err != nil {
		return nil, err
	}
	key := f.Keyer.HTTPKey("asset", rawURL)
	if data, hit, err := f.Cache.Get(ctx, key); err == nil && hit {
		return data, nil
	}

	var body []byte
	err := Retry(ctx, f.Retry, func() error {
		var err error
		body, err = f.do(ctx, rawURL)
		return err
	})
	if err != nil {
		return nil, err
	}
	_ = f.Cache.Set(ctx, key, body, f.TTL)
	return body, nil
}

func (f *Fetcher) do(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse url")
	}
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, http.MethodGet, u.Host, u.Path)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "build request")
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		hooks.OnError(ctx, http.MethodGet, u.Host, u.Path, err)
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", rawURL)
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, http.MethodGet, u.Host, u.Path, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode >= 500, resp.StatusCode == http.StatusTooManyRequests:
		return nil, errors.New(errors.ErrCodeNetwork, "fetch %s: %s", rawURL, resp.Status)
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.New(errors.ErrCodeNotFound, "fetch %s: %s", rawURL, resp.Status)
	case resp.StatusCode >= 400:
		return nil, errors.New(errors.ErrCodeInvalidInput, "fetch %s: %s", rawURL, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize+1))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "read body of %s", rawURL)
	}
	if len(body) > MaxBodySize {
		return nil, errors.New(errors.ErrCodeInvalidInput, "fetch %s: body exceeds %d bytes", rawURL, MaxBodySize)
	}
	return body, nil
}
