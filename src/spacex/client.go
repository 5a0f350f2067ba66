package spacex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/Protocol-Lattice/spacex-agent/src/cache"
)

const (
	defaultBaseURL     = "https://api.spacexdata.com/v4"
	defaultTimeout     = 10 * time.Second
	defaultMaxAttempts = 3
	defaultBackoff     = 500 * time.Millisecond

	cacheTTL      = 10 * time.Minute
	cacheCapacity = 128
)

// Client talks to the SpaceX REST API. Transport-level failures are retried
// with exponential backoff; HTTP error statuses are never retried and come
// back as structured error payloads the model can reason about. Responses
// are passed through Clean before they re-enter the conversation.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	maxAttempts int
	backoff     time.Duration
	cache       *cache.LRUCache
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL (used by tests).
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithMaxAttempts sets the transport retry ceiling (minimum 1).
func WithMaxAttempts(n int) Option {
	return func(c *Client) {
		if n >= 1 {
			c.maxAttempts = n
		}
	}
}

// WithBackoff sets the initial retry delay; it doubles per attempt.
func WithBackoff(d time.Duration) Option {
	return func(c *Client) { c.backoff = d }
}

// NewClient builds a Client with sensible defaults.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:     defaultBaseURL,
		httpClient:  &http.Client{Timeout: defaultTimeout},
		maxAttempts: defaultMaxAttempts,
		backoff:     defaultBackoff,
		cache:       cache.NewLRUCache(cacheCapacity, cacheTTL),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NextLaunch fetches the next scheduled launch.
func (c *Client) NextLaunch(ctx context.Context) (any, error) {
	return c.getJSON(ctx, "/launches/next")
}

// LatestLaunch fetches the most recently completed launch.
func (c *Client) LatestLaunch(ctx context.Context) (any, error) {
	return c.getJSON(ctx, "/launches/latest")
}

// Rocket fetches one rocket by id. Rocket data is near-static, so hits are
// served from the cache.
func (c *Client) Rocket(ctx context.Context, rocketID string) (any, error) {
	return c.getCached(ctx, "/rockets/"+rocketID)
}

// Launchpad fetches one launchpad by id, cached like Rocket.
func (c *Client) Launchpad(ctx context.Context, launchpadID string) (any, error) {
	return c.getCached(ctx, "/launchpads/"+launchpadID)
}

// Company fetches general company information.
func (c *Client) Company(ctx context.Context) (any, error) {
	return c.getCached(ctx, "/company")
}

// QueryLaunches runs a structured filter against past launches. The query
// uses the API's Mongo-style operators; options carry limit/sort/select.
func (c *Client) QueryLaunches(ctx context.Context, query, options map[string]any) (any, error) {
	payload := map[string]any{"query": query}
	if len(options) > 0 {
		payload["options"] = options
	}
	return c.postJSON(ctx, "/launches/query", payload)
}

// Close releases the client's idle connections. Safe to call more than once.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

func (c *Client) getCached(ctx context.Context, endpoint string) (any, error) {
	if cached, ok := c.cache.Get(endpoint); ok {
		return cached, nil
	}
	result, err := c.getJSON(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	if !isErrorPayload(result) {
		c.cache.Set(endpoint, result)
	}
	return result, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string) (any, error) {
	return c.do(ctx, http.MethodGet, endpoint, nil)
}

func (c *Client) postJSON(ctx context.Context, endpoint string, payload any) (any, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	return c.do(ctx, http.MethodPost, endpoint, body)
}

// do issues the request with bounded exponential-backoff retry on transport
// errors. Non-2xx statuses are terminal: they become {"error": ...} payloads
// immediately so the model can recover, and are never retried.
func (c *Client) do(ctx context.Context, method, endpoint string, body []byte) (any, error) {
	var lastErr error
	delay := c.backoff

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			log.Printf("spacex: %s %s attempt %d/%d failed: %v", method, endpoint, attempt, c.maxAttempts, err)
			continue
		}

		result, err := decodeResponse(resp)
		if err != nil {
			return nil, err
		}
		return result, nil
	}

	return nil, fmt.Errorf("%s %s failed after %d attempts: %w", method, endpoint, c.maxAttempts, lastErr)
}

func decodeResponse(resp *http.Response) (any, error) {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return map[string]any{"error": fmt.Sprintf("API returned %d", resp.StatusCode)}, nil
	}

	var data any
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return Clean(data), nil
}

func isErrorPayload(data any) bool {
	m, ok := data.(map[string]any)
	if !ok {
		return false
	}
	_, has := m["error"]
	return has
}
