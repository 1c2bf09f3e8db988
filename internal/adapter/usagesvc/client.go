// Package usagesvc provides an HTTP client for the billing/usage backend.
package usagesvc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Strob0t/RoamGuide/internal/domain/roaming"
	"github.com/Strob0t/RoamGuide/internal/resilience"
)

// Client talks to the usage summary API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *resilience.Breaker
}

// NewClient creates a usage client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SetBreaker attaches a circuit breaker to all outgoing HTTP calls.
func (c *Client) SetBreaker(b *resilience.Breaker) {
	c.breaker = b
}

// FetchUsage returns the subscriber's usage summary. Usage is per-user and
// time-sensitive, so it is never cached.
func (c *Client) FetchUsage(ctx context.Context, userID string) (*roaming.Usage, error) {
	var body []byte

	call := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet,
			c.baseURL+"/usage/"+url.PathEscape(userID), nil)
		if err != nil {
			return err
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("usage backend returned %d", resp.StatusCode)
		}
		body, err = io.ReadAll(resp.Body)
		return err
	}

	if c.breaker != nil {
		if err := c.breaker.Do(call); err != nil {
			return nil, fmt.Errorf("fetch usage: %w", err)
		}
	} else if err := call(); err != nil {
		return nil, fmt.Errorf("fetch usage: %w", err)
	}

	var u roaming.Usage
	if err := json.Unmarshal(body, &u); err != nil {
		return nil, fmt.Errorf("unmarshal usage: %w", err)
	}
	return &u, nil
}
