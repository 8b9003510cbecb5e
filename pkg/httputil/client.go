package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/gigapp/gig/backend/pkg/config"
	"github.com/gigapp/gig/backend/pkg/logger"
	"github.com/gigapp/gig/backend/pkg/redis"
)

// RequestIDHeader is attached to every outgoing request
const RequestIDHeader = "X-Request-ID"

// Client is an HTTP client wrapper with retry logic and logging
// ⭐ SSOT: every HTTP request to the Gig backend goes through this client
type Client struct {
	httpClient   *http.Client
	logger       *logger.Logger
	retryConfig  RetryConfig
	limiter      *rate.Limiter
	rateLimiter  *redis.RateLimiter
	rateLimitCfg *redis.RateLimitConfig
}

// RetryConfig holds retry configuration.
// Retries only ever apply to idempotent methods.
type RetryConfig struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Enabled      bool
}

// New creates a new HTTP client from config
// ⭐ SSOT: the http.Client instance is created here only
func New(cfg *config.Config, log *logger.Logger) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: cfg.API.Timeout,
		},
		logger: log,
		retryConfig: RetryConfig{
			MaxRetries:   cfg.API.MaxRetries,
			InitialDelay: 500 * time.Millisecond,
			MaxDelay:     5 * time.Second,
			Enabled:      cfg.API.MaxRetries > 0,
		},
	}
	if c.httpClient.Timeout <= 0 {
		c.httpClient.Timeout = 15 * time.Second
	}
	if cfg.API.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.API.RateLimit), cfg.API.RateLimit)
	}
	return c
}

// NewWithTimeout creates a client with custom timeout
func NewWithTimeout(cfg *config.Config, log *logger.Logger, timeout time.Duration) *Client {
	client := New(cfg, log)
	client.httpClient.Timeout = timeout
	return client
}

// WithRetry configures retry behavior
func (c *Client) WithRetry(maxRetries int, initialDelay time.Duration) *Client {
	c.retryConfig.MaxRetries = maxRetries
	c.retryConfig.InitialDelay = initialDelay
	c.retryConfig.Enabled = true
	return c
}

// DisableRetry disables automatic retry
func (c *Client) DisableRetry() *Client {
	c.retryConfig.Enabled = false
	return c
}

// WithRateLimiter adds a shared Redis limiter on top of the in-process one
func (c *Client) WithRateLimiter(limiter *redis.RateLimiter, cfg redis.RateLimitConfig) *Client {
	c.rateLimiter = limiter
	c.rateLimitCfg = &cfg
	return c
}

// Timeout returns the per-request timeout
func (c *Client) Timeout() time.Duration {
	return c.httpClient.Timeout
}

// Get performs a GET request
func (c *Client) Get(ctx context.Context, url string, header http.Header) (*http.Response, error) {
	return c.Do(ctx, http.MethodGet, url, nil, header)
}

// PostJSON performs a POST request with JSON body
func (c *Client) PostJSON(ctx context.Context, url string, data interface{}, header http.Header) (*http.Response, error) {
	return c.Do(ctx, http.MethodPost, url, data, header)
}

// PatchJSON performs a PATCH request; data may be nil for an empty body
func (c *Client) PatchJSON(ctx context.Context, url string, data interface{}, header http.Header) (*http.Response, error) {
	return c.Do(ctx, http.MethodPatch, url, data, header)
}

// Do builds and executes a request. data, when non-nil, is sent as JSON.
func (c *Client) Do(ctx context.Context, method, url string, data interface{}, header http.Header) (*http.Response, error) {
	var payload []byte
	if data != nil {
		var err error
		payload, err = json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal JSON: %w", err)
		}
	}

	newRequest := func() (*http.Request, error) {
		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, body)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s request: %w", method, err)
		}
		for k, values := range header {
			for _, v := range values {
				req.Header.Add(k, v)
			}
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Accept", "application/json")
		if req.Header.Get(RequestIDHeader) == "" {
			req.Header.Set(RequestIDHeader, uuid.NewString())
		}
		return req, nil
	}

	return c.do(ctx, method, url, newRequest)
}

// do executes the request with rate limiting, retry logic and logging
func (c *Client) do(ctx context.Context, method, url string, newRequest func() (*http.Request, error)) (*http.Response, error) {
	if err := c.wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait failed: %w", err)
	}

	startTime := time.Now()

	c.logger.WithFields(map[string]interface{}{
		"method": method,
		"url":    url,
	}).Debug("HTTP request started")

	var resp *http.Response
	var err error
	if c.retryConfig.Enabled && isIdempotent(method) {
		resp, err = c.doWithRetry(ctx, newRequest)
	} else {
		var req *http.Request
		req, err = newRequest()
		if err == nil {
			resp, err = c.httpClient.Do(req)
		}
	}

	duration := time.Since(startTime)

	if err != nil {
		c.logger.WithFields(map[string]interface{}{
			"method":   method,
			"url":      url,
			"duration": duration,
			"error":    err.Error(),
		}).Error("HTTP request failed")
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"method":      method,
		"url":         url,
		"status_code": resp.StatusCode,
		"duration":    duration,
	}).Debug("HTTP request completed")

	return resp, nil
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}
	if c.rateLimiter != nil && c.rateLimitCfg != nil {
		return c.rateLimiter.Wait(ctx, *c.rateLimitCfg)
	}
	return nil
}

// doWithRetry executes the request with exponential backoff retry
func (c *Client) doWithRetry(ctx context.Context, newRequest func() (*http.Request, error)) (*http.Response, error) {
	var resp *http.Response
	var err error

	delay := c.retryConfig.InitialDelay

	for attempt := 0; attempt <= c.retryConfig.MaxRetries; attempt++ {
		var req *http.Request
		req, err = newRequest()
		if err != nil {
			return nil, err
		}

		resp, err = c.httpClient.Do(req)
		if err == nil && !IsRetryableError(resp.StatusCode) {
			return resp, nil
		}

		if attempt == c.retryConfig.MaxRetries {
			break
		}

		// Drop the failed body before trying again.
		if resp != nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}

		c.logger.WithFields(map[string]interface{}{
			"attempt": attempt + 1,
			"delay":   delay,
			"url":     req.URL.String(),
		}).Warn("Retrying HTTP request")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}

		delay *= 2
		if delay > c.retryConfig.MaxDelay {
			delay = c.retryConfig.MaxDelay
		}
	}

	return resp, err
}

func isIdempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	default:
		return false
	}
}

// IsRetryableError checks if a status code should be retried
func IsRetryableError(statusCode int) bool {
	return statusCode >= 500 || statusCode == http.StatusTooManyRequests
}
