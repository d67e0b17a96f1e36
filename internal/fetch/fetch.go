// Package fetch downloads the published knowledge base.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	// DefaultURL is where the knowledge base is published.
	DefaultURL = "http://poe.rivsoft.net/shrines/shrines.js"

	// UserAgent identifies the client to the publishing server.
	UserAgent = "ShrineTips"

	// DefaultMaxSize bounds a downloaded payload (4MB).
	DefaultMaxSize = 4 * 1024 * 1024

	// DefaultTimeout bounds a single download when the context has no
	// deadline.
	DefaultTimeout = 15 * time.Second
)

// Sentinel errors.
var (
	ErrEmptyBody = errors.New("empty response body")
	ErrTooLarge  = errors.New("response body too large")
	ErrStatus    = errors.New("unexpected status")
)

// FetchError describes a failed download.
type FetchError struct {
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying error.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Client downloads knowledge-base payloads.
type Client struct {
	http      *http.Client
	userAgent string
	maxSize   int64
	timeout   time.Duration
	log       *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithMaxSize sets the maximum payload size. Non-positive values are
// ignored.
func WithMaxSize(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxSize = n
		}
	}
}

// WithLogger sets a logger for request logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.log = logger
		}
	}
}

// New creates a Client.
func New(opts ...Option) *Client {
	c := &Client{
		http:      http.DefaultClient,
		userAgent: UserAgent,
		maxSize:   DefaultMaxSize,
		timeout:   DefaultTimeout,
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Get downloads url and returns the body. Non-2xx responses, empty bodies
// and bodies over the size limit fail with a *FetchError.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode, Err: ErrStatus}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxSize+1))
	if err != nil {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode, Err: err}
	}
	if int64(len(body)) > c.maxSize {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode, Err: ErrTooLarge}
	}
	if len(body) == 0 {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode, Err: ErrEmptyBody}
	}

	c.log.Debug("fetched knowledge base",
		"url", url,
		"bytes", len(body),
		"duration", time.Since(start))
	return body, nil
}
