package wiki

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"
)

const (
	defaultSearchURL  = "https://en.wikipedia.org/w/api.php"
	defaultSummaryURL = "https://en.wikipedia.org/api/rest_v1/page/summary"
	defaultTimeout    = 10 * time.Second
)

// Summary is the degraded-fallback result: a short encyclopedia extract for
// a canonical title. Found is false when no page matched the topic; that is
// data, not an error, so the model can explain the miss to the user.
type Summary struct {
	Found   bool   `json:"found"`
	Title   string `json:"title,omitempty"`
	Extract string `json:"extract,omitempty"`
	URL     string `json:"url,omitempty"`
	Message string `json:"message,omitempty"`
}

// Client resolves free-text topics to Wikipedia summaries in two steps:
// a search call for the canonical title, then a REST summary fetch.
type Client struct {
	searchURL  string
	summaryURL string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoints overrides the search and summary base URLs (used by tests).
func WithEndpoints(searchURL, summaryURL string) Option {
	return func(c *Client) {
		c.searchURL = searchURL
		c.summaryURL = summaryURL
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		searchURL:  defaultSearchURL,
		summaryURL: defaultSummaryURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Summarize resolves topic to a canonical title and fetches its summary.
func (c *Client) Summarize(ctx context.Context, topic string) (Summary, error) {
	title, err := c.searchTitle(ctx, topic)
	if err != nil {
		return Summary{}, err
	}
	if title == "" {
		return Summary{
			Found:   false,
			Message: fmt.Sprintf("No Wikipedia article found for %q", topic),
		}, nil
	}
	return c.fetchSummary(ctx, title)
}

// Close releases the client's idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

func (c *Client) searchTitle(ctx context.Context, topic string) (string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "search")
	params.Set("srsearch", topic)
	params.Set("srlimit", "1")
	params.Set("format", "json")

	body, err := c.get(ctx, c.searchURL+"?"+params.Encode())
	if err != nil {
		return "", fmt.Errorf("wikipedia search: %w", err)
	}
	return gjson.GetBytes(body, "query.search.0.title").String(), nil
}

func (c *Client) fetchSummary(ctx context.Context, title string) (Summary, error) {
	body, err := c.get(ctx, c.summaryURL+"/"+url.PathEscape(title))
	if err != nil {
		return Summary{}, fmt.Errorf("wikipedia summary: %w", err)
	}
	return Summary{
		Found:   true,
		Title:   gjson.GetBytes(body, "title").String(),
		Extract: gjson.GetBytes(body, "extract").String(),
		URL:     gjson.GetBytes(body, "content_urls.desktop.page").String(),
	}, nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("API returned %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 1<<20))
}
