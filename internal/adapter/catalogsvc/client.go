// Package catalogsvc provides an HTTP client for the roaming-plan catalog
// service, with response caching.
package catalogsvc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/Strob0t/RoamGuide/internal/domain/roaming"
	"github.com/Strob0t/RoamGuide/internal/port/cache"
	"github.com/Strob0t/RoamGuide/internal/resilience"
)

// Client talks to the plan catalog API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *resilience.Breaker
	cache      cache.Cache
	cacheTTL   time.Duration
}

// NewClient creates a catalog client. cache may be nil to disable caching.
func NewClient(baseURL string, c cache.Cache, cacheTTL time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		cache:    c,
		cacheTTL: cacheTTL,
	}
}

// SetBreaker attaches a circuit breaker to all outgoing HTTP calls.
func (c *Client) SetBreaker(b *resilience.Breaker) {
	c.breaker = b
}

// FetchPlans returns the plans offered for a destination. Results are cached
// per destination; the catalog changes rarely, so a stale window equal to the
// cache TTL is acceptable.
func (c *Client) FetchPlans(ctx context.Context, destination string) ([]roaming.Plan, error) {
	key := "plans:" + destination
	if c.cache != nil {
		if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
			var plans []roaming.Plan
			if err := json.Unmarshal(data, &plans); err == nil {
				return plans, nil
			}
		}
	}

	body, err := c.doRequest(ctx, "/plans?destination="+url.QueryEscape(destination))
	if err != nil {
		return nil, fmt.Errorf("fetch plans: %w", err)
	}

	var result struct {
		Plans []roaming.Plan `json:"plans"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("unmarshal plans: %w", err)
	}

	if c.cache != nil {
		if data, err := json.Marshal(result.Plans); err == nil {
			if err := c.cache.Set(ctx, key, data, c.cacheTTL); err != nil {
				slog.Warn("plan cache set failed", "destination", destination, "error", err)
			}
		}
	}
	return result.Plans, nil
}

// doRequest performs a GET against path, going through the breaker when one
// is attached.
func (c *Client) doRequest(ctx context.Context, path string) ([]byte, error) {
	var body []byte

	call := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return err
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("catalog returned %d", resp.StatusCode)
		}
		body, err = io.ReadAll(resp.Body)
		return err
	}

	if c.breaker != nil {
		if err := c.breaker.Do(call); err != nil {
			return nil, err
		}
		return body, nil
	}
	if err := call(); err != nil {
		return nil, err
	}
	return body, nil
}
