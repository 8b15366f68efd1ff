// Package fetcher retrieves site documents over HTTP with per-host pacing.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/dtnitsch/seo-companion/pkg/caching"
	"golang.org/x/time/rate"
)

// MaxBodyBytes caps how much of a response body is read.
const MaxBodyBytes = 10 << 20

// StatusError is returned for non-2xx responses.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: status code %d", e.URL, e.StatusCode)
}

// Options configures a Fetcher. Zero values fall back to defaults.
type Options struct {
	UserAgent    string
	Timeout      time.Duration
	RateInterval time.Duration
	Cache        *caching.Cache
	Client       *http.Client
	Logger       *slog.Logger
}

// Fetcher issues GET requests. It is safe for concurrent use.
type Fetcher struct {
	client    *http.Client
	userAgent string
	interval  time.Duration
	cache     *caching.Cache
	logger    *slog.Logger

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func NewFetcher(opts Options) *Fetcher {
	client := opts.Client
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		client:    client,
		userAgent: opts.UserAgent,
		interval:  opts.RateInterval,
		cache:     opts.Cache,
		logger:    logger,
		limiters:  make(map[string]*rate.Limiter),
	}
}

func (f *Fetcher) limiter(host string) *rate.Limiter {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.limiters[host]
	if !ok {
		limit := rate.Inf
		if f.interval > 0 {
			limit = rate.Every(f.interval)
		}
		l = rate.NewLimiter(limit, 1)
		f.limiters[host] = l
	}
	return l
}

// Get returns the body of rawURL. Requests to the same host are spaced by the rate interval.
// Non-2xx responses return a *StatusError.
func (f *Fetcher) Get(ctx context.Context, rawURL string) ([]byte, error) {
	if f.cache != nil {
		if body, ok := f.cache.Get(rawURL); ok {
			f.logger.Debug("cache hit", "url", rawURL)
			return body, nil
		}
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	if err := f.limiter(u.Host).Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	f.logger.Debug("fetched", "url", rawURL, "status", resp.StatusCode, "duration", time.Since(start))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if f.cache != nil {
		if err := f.cache.Set(rawURL, body); err != nil {
			f.logger.Warn("cache write failed", "url", rawURL, "error", err)
		}
	}
	return body, nil
}
