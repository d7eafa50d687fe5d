// Package upstream performs the GET requests shared by the market-data
// platform clients: fixed headers, a per-client timeout, status checking and
// an optional response cache. Requests are never retried.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/alanyoungcy/tradecast/internal/domain"
)

// UserAgent identifies the service to upstream APIs.
const UserAgent = "TradeCast/1.0 (+https://base.org)"

const defaultTimeout = 15 * time.Second

// Config configures a Fetcher.
type Config struct {
	Timeout time.Duration
	// Cache is optional. When set, successful bodies are stored for CacheTTL.
	Cache    domain.ResponseCache
	CacheTTL time.Duration
	// HTTPClient overrides the default client; Timeout is ignored when set.
	HTTPClient *http.Client
}

// Fetcher issues GET requests against JSON APIs.
type Fetcher struct {
	httpClient *http.Client
	cache      domain.ResponseCache
	cacheTTL   time.Duration
	logger     *slog.Logger
}

// NewFetcher creates a Fetcher.
func NewFetcher(cfg Config, logger *slog.Logger) *Fetcher {
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		httpClient: hc,
		cache:      cfg.Cache,
		cacheTTL:   cfg.CacheTTL,
		logger:     logger,
	}
}

// Get returns the body of a successful GET to rawURL. A non-2xx response
// yields a *domain.FetchError carrying the URL and status code.
func (f *Fetcher) Get(ctx context.Context, rawURL string) ([]byte, error) {
	if body, ok := f.cached(ctx, rawURL); ok {
		return body, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("upstream: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", UserAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream: http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &domain.FetchError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("upstream: read response: %w", err)
	}

	f.store(ctx, rawURL, body)
	return body, nil
}

func (f *Fetcher) cached(ctx context.Context, key string) ([]byte, bool) {
	if f.cache == nil || f.cacheTTL <= 0 {
		return nil, false
	}
	body, err := f.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			f.logger.WarnContext(ctx, "upstream: cache get failed",
				slog.String("url", key),
				slog.String("error", err.Error()),
			)
		}
		return nil, false
	}
	return body, true
}

func (f *Fetcher) store(ctx context.Context, key string, body []byte) {
	if f.cache == nil || f.cacheTTL <= 0 {
		return
	}
	if err := f.cache.Set(ctx, key, body, f.cacheTTL); err != nil {
		// Non-fatal: the next request goes upstream again.
		f.logger.WarnContext(ctx, "upstream: cache set failed",
			slog.String("url", key),
			slog.String("error", err.Error()),
		)
	}
}
