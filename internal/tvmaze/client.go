// Package tvmaze is a thin client for the public TVmaze catalog API.
package tvmaze

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/boxoffice/internal/domain"
)

const (
	// DefaultBaseURL is the public TVmaze endpoint
	DefaultBaseURL = "https://api.tvmaze.com"

	defaultTimeout = 30 * time.Second
	userAgent      = "BoxOffice/1.0"
)

// TransportError reports a remote call that failed before a JSON body could
// be produced: the network was unreachable or the body was not JSON.
// It matches domain.ErrTransport.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() []error { return []error{domain.ErrTransport, e.Err} }

// Client issues GET requests against a fixed base URL
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

var (
	_ domain.ResourceFetcher   = (*Client)(nil)
	_ domain.CatalogRepository = (*Client)(nil)
)

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout of the default http.Client
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a new TVmaze client. An empty baseURL uses DefaultBaseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the endpoint all paths are appended to
func (c *Client) BaseURL() string { return c.baseURL }

// FetchJSON performs GET baseURL+path and returns the raw JSON body.
// The path is used verbatim; callers encode the query. Any HTTP status
// resolves with its body. Only network failures and non-JSON bodies fail,
// as *TransportError.
func (c *Client) FetchJSON(ctx context.Context, path string) (json.RawMessage, error) {
	reqURL := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &TransportError{URL: reqURL, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("tvmaze request", "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("tvmaze request failed", "url", reqURL, "error", err)
		return nil, &TransportError{URL: reqURL, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: reqURL, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if !json.Valid(body) {
		c.logger.Error("tvmaze response is not JSON", "url", reqURL, "status", resp.StatusCode, "bodyLen", len(body))
		return nil, &TransportError{URL: reqURL, Err: fmt.Errorf("malformed JSON body (status %d)", resp.StatusCode)}
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Debug("tvmaze non-200 response", "url", reqURL, "status", resp.StatusCode)
	}

	return json.RawMessage(body), nil
}
