package ratelimit

import (
	"net/http"

	errs "librarian/pkg/errors"
	"librarian/pkg/logger"
)

// Client wraps an *http.Client and applies rate limiting to all requests.
// A denied acquisition surfaces as a rate_limit error without the request
// ever being issued.
type Client struct {
	limiter    Limiter
	httpClient *http.Client
	logger     logger.Logger
}

// NewClient creates a rate-limited HTTP client. A nil httpClient falls
// back to http.DefaultClient.
func NewClient(limiter Limiter, httpClient *http.Client, log logger.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if log == nil {
		log = logger.GetLogger()
	}
	return &Client{
		limiter:    limiter,
		httpClient: httpClient,
		logger:     log,
	}
}

// Do performs a rate-limited HTTP request
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ok, err := c.limiter.Acquire(1)
	if err != nil {
		return nil, err
	}
	if !ok {
		c.logger.WarnWithFields("request denied by rate limiter", map[string]interface{}{
			"method": req.Method,
			"url":    req.URL.String(),
		})
		return nil, errs.NewRateLimitExceeded("rate limit exceeded")
	}

	return c.httpClient.Do(req)
}

// Get performs a rate-limited GET request
func (c *Client) Get(url string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}

// Wrap returns a function that acquires a token from the limiter before
// invoking fn. Denials surface as a rate_limit error; fn is not called.
func Wrap(limiter Limiter, fn func() error) func() error {
	return func() error {
		ok, err := limiter.Acquire(1)
		if err != nil {
			return err
		}
		if !ok {
			return errs.NewRateLimitExceeded("rate limit exceeded")
		}
		return fn()
	}
}
