package api

import (
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// DefaultBaseURL is the MEXC contract API endpoint.
const DefaultBaseURL = "https://contract.mexc.com"

// Client provides access to the MEXC contract market-data REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	maxAttempts  int
	retryBackoff time.Duration

	// Minimum spacing between outbound requests.
	spacing     time.Duration
	spacingMu   sync.Mutex
	lastRequest time.Time
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new REST API client.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:       slog.Default(),
		maxAttempts:  5,
		retryBackoff: 600 * time.Millisecond,
		spacing:      150 * time.Millisecond,
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

// WithRetries sets the attempt cap and the backoff unit. Attempt n waits
// backoff*n before retrying.
func WithRetries(attempts int, backoff time.Duration) ClientOption {
	return func(c *Client) {
		c.maxAttempts = attempts
		c.retryBackoff = backoff
	}
}

// WithSpacing sets the minimum interval between outbound requests.
func WithSpacing(d time.Duration) ClientOption {
	return func(c *Client) {
		c.spacing = d
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
