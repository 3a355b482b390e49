package fmp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/aristath/screener/internal/cache"
	"github.com/aristath/screener/internal/ratelimit"
)

const (
	defaultTimeout = 15 * time.Second
	statementLimit = 20
)

// Config holds client construction parameters.
type Config struct {
	BaseURL    string
	BaseURLV4  string
	APIKey     string
	MaxWorkers int
	MaxRetries int
	Timeout    time.Duration
}

// Client fetches data from the Financial Modeling Prep API.
// Every request goes cache first, then through the shared worker semaphore
// and the adaptive rate limiter.
type Client struct {
	httpClient *http.Client
	cache      *cache.Manager
	limiter    *ratelimit.Limiter
	sem        *semaphore.Weighted
	baseURL    string
	baseURLV4  string
	apiKey     string
	maxRetries int
	log        zerolog.Logger
}

// New creates an FMP API client.
func New(cfg Config, cacheManager *cache.Manager, limiter *ratelimit.Limiter, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxWorkers := cfg.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 5
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		cache:      cacheManager,
		limiter:    limiter,
		sem:        semaphore.NewWeighted(int64(maxWorkers)),
		baseURL:    cfg.BaseURL,
		baseURLV4:  cfg.BaseURLV4,
		apiKey:     cfg.APIKey,
		maxRetries: maxRetries,
		log:        log.With().Str("component", "fmp").Logger(),
	}
}

// fetch returns the response body for url. The cache is consulted first;
// on a miss the request passes through the worker semaphore and the rate
// limiter. 404 responses return (nil, nil) and are never retried. Other
// failures are retried up to the attempt budget, after which the last error
// is returned.
func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	if data := c.cache.Get(url); data != nil {
		return data, nil
	}

	var lastErr error

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		data, retry, err := c.doRequest(ctx, url)
		if err == nil {
			return data, nil
		}
		if !retry {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
		c.log.Warn().Err(err).Str("url", url).Int("attempt", attempt+1).Msg("Request failed, retrying")
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", c.maxRetries, lastErr)
}

// doRequest performs one attempt. The retry flag tells the caller whether
// another attempt may help.
func (c *Client) doRequest(ctx context.Context, url string) (data []byte, retry bool, err error) {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil, false, err
	}
	defer c.sem.Release(1)

	if err := c.limiter.Acquire(ctx); err != nil {
		return nil, false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	c.limiter.HandleResponse(resp.StatusCode, resp.Header)

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, true, fmt.Errorf("failed to read response body: %w", err)
		}
		c.cache.Set(url, body)
		return body, false, nil

	case http.StatusTooManyRequests:
		return nil, true, fmt.Errorf("rate limited (429)")

	case http.StatusNotFound:
		c.log.Debug().Str("url", url).Msg("Resource not found")
		return nil, false, nil

	default:
		return nil, true, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
}

// fetchJSON fetches url and decodes the payload into out.
// A 404 leaves out untouched and returns nil.
func (c *Client) fetchJSON(ctx context.Context, url string, out any) error {
	data, err := c.fetch(ctx, url)
	if err != nil {
		return err
	}
	if data == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Stats exposes cache and limiter statistics for monitoring.
func (c *Client) Stats() (cache.Stats, ratelimit.Stats) {
	return c.cache.Stats(), c.limiter.Stats()
}
