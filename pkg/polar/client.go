// Package polar is a typed client for the slice of the Polar API this
// application consumes: product catalog, checkouts, customer state, customer
// sessions and subscription mutations. Polar owns all billing state; this
// client only reads it and requests changes.
package polar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Base URLs per environment.
const (
	sandboxAPIURL    = "https://sandbox-api.polar.sh/v1"
	productionAPIURL = "https://api.polar.sh/v1"
)

// Config holds environment-driven Polar settings.
type Config struct {
	AccessToken    string        `env:"POLAR_ACCESS_TOKEN,required"`
	OrganizationID string        `env:"POLAR_ORG_ID,required"`
	WebhookSecret  string        `env:"POLAR_WEBHOOK_SECRET,required"`
	Environment    string        `env:"POLAR_ENVIRONMENT" envDefault:"sandbox"`
	Timeout        time.Duration `env:"POLAR_HTTP_TIMEOUT" envDefault:"10s"`
}

// Client issues requests against the Polar API using the organization access
// token. Customer-portal operations are authorized with a short-lived
// customer-session token instead; those methods take the token explicitly.
type Client struct {
	baseURL     string
	accessToken string
	orgID       string
	httpClient  *http.Client
}

// Option overrides client defaults.
type Option func(*Client)

// WithBaseURL points the client at a custom API root, used by tests.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a Polar API client for the configured environment.
func NewClient(cfg Config, opts ...Option) *Client {
	baseURL := sandboxAPIURL
	if cfg.Environment == "production" {
		baseURL = productionAPIURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	c := &Client{
		baseURL:     baseURL,
		accessToken: cfg.AccessToken,
		orgID:       cfg.OrganizationID,
		httpClient:  &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do issues a request authorized by token (the org access token or a
// customer-session token) and decodes a 2xx JSON response into out.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var buf io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("polar: encode %s %s: %w", method, path, err)
		}
		buf = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, buf)
	if err != nil {
		return fmt.Errorf("polar: build %s %s: %w", method, path, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("polar: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp)
	}

	if out == nil {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("polar: decode %s %s: %w", method, path, err)
	}
	return nil
}
