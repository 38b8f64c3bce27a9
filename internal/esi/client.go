package esi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/corriander/eve-telemetrics/internal/version"
)

// DefaultBaseURL is the public ESI root.
const DefaultBaseURL = "https://esi.evetech.net/latest"

// DefaultRetryBackoff is the initial delay between retries.
const DefaultRetryBackoff = time.Second

// TokenSource supplies bearer tokens for authenticated endpoints.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource for a fixed access token.
type StaticToken string

func (s StaticToken) Token(context.Context) (string, error) {
	return string(s), nil
}

// Client provides access to the ESI REST API.
type Client struct {
	baseURL    string
	userAgent  string
	tokens     TokenSource
	httpClient *http.Client
	logger     *slog.Logger

	maxRetries      int
	retryBackoff    time.Duration
	pageConcurrency int
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new ESI client.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:   baseURL,
		userAgent: version.UserAgent(),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:          slog.Default(),
		maxRetries:      3,
		retryBackoff:    DefaultRetryBackoff,
		pageConcurrency: 8,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithRetries sets the retry configuration.
func WithRetries(max int, backoff time.Duration) ClientOption {
	return func(c *Client) {
		c.maxRetries = max
		c.retryBackoff = backoff
	}
}

// WithPageConcurrency bounds the number of pages fetched at once.
func WithPageConcurrency(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.pageConcurrency = n
		}
	}
}

// WithTokenSource enables authenticated requests.
func WithTokenSource(ts TokenSource) ClientOption {
	return func(c *Client) {
		c.tokens = ts
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}
