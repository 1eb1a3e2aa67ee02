// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

package places

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/wwte/internal/cache"
	"github.com/tomtom215/wwte/internal/config"
	"github.com/tomtom215/wwte/internal/logging"
	"github.com/tomtom215/wwte/internal/metrics"
)

const (
	// maxErrorBodySize limits how much of an error response body is read.
	maxErrorBodySize = 64 * 1024

	// maxResponseSize bounds a successful response body. A full nearby page
	// is well under this.
	maxResponseSize = 4 << 20
)

// WaitFunc blocks for d or until ctx is done. It is swapped out in tests so
// the mandatory page delay doesn't slow them down.
type WaitFunc func(ctx context.Context, d time.Duration) error

// Client talks to the Google Places web service.
// It is safe for concurrent use.
type Client struct {
	baseURL  string
	apiKey   string
	language string

	maxPages          int
	targetCount       int
	pageDelay         time.Duration
	photoMaxWidth     int
	detailConcurrency int

	httpClient     *http.Client
	maxRetries     int
	retryBaseDelay time.Duration
	limiter        *rate.Limiter
	breaker        *circuitBreaker
	detailBreaker  *circuitBreaker
	details        *cache.LRU[string, Details]

	wait   WaitFunc
	logger zerolog.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the client's logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger.With().Str("component", "places").Logger() }
}

// WithWaitFunc replaces the function used for the page delay and 429 backoff.
func WithWaitFunc(fn WaitFunc) Option {
	return func(c *Client) { c.wait = fn }
}

// NewClient creates a Places client from configuration. Zero values fall
// back to the documented defaults.
func NewClient(cfg *config.PlacesConfig, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("places config is required")
	}
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	c := &Client{
		baseURL:           strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:            cfg.APIKey,
		language:          cfg.Language,
		maxPages:          cfg.MaxPages,
		targetCount:       cfg.TargetCount,
		pageDelay:         cfg.PageDelay,
		photoMaxWidth:     cfg.PhotoMaxWidth,
		detailConcurrency: cfg.DetailConcurrency,
		httpClient:        &http.Client{Timeout: cfg.RequestTimeout},
		maxRetries:        cfg.MaxRetries,
		retryBaseDelay:    cfg.RetryBaseDelay,
		wait:              sleepContext,
		logger:            logging.WithComponent("places"),
	}
	c.applyDefaults()

	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	if cfg.DetailCacheSize > 0 {
		c.details = cache.NewLRU[string, Details](cfg.DetailCacheSize, cfg.DetailCacheTTL)
	}

	for _, opt := range opts {
		opt(c)
	}

	if cfg.CircuitBreakerEnabled {
		c.breaker = newCircuitBreaker(breakerName, c.logger)
		c.detailBreaker = newCircuitBreaker(detailBreakerName, c.logger)
	}

	return c, nil
}

func (c *Client) applyDefaults() {
	if c.baseURL == "" {
		c.baseURL = config.DefaultPlacesBaseURL
	}
	if c.language == "" {
		c.language = "zh-TW"
	}
	if c.maxPages < 1 {
		c.maxPages = 3
	}
	if c.targetCount < 1 {
		c.targetCount = 20
	}
	if c.photoMaxWidth < 1 {
		c.photoMaxWidth = 800
	}
	if c.detailConcurrency < 1 {
		c.detailConcurrency = 1
	}
	if c.httpClient.Timeout <= 0 {
		c.httpClient.Timeout = 10 * time.Second
	}
	if c.retryBaseDelay <= 0 {
		c.retryBaseDelay = time.Second
	}
}

// BreakerState reports the nearby-search circuit breaker state for health
// checks. Details have their own breaker; its state is exported as a metric.
func (c *Client) BreakerState() string {
	if c.breaker == nil {
		return "disabled"
	}
	return c.breaker.state()
}

// PhotoURL builds the photo URL for a photo reference. The URL is never fetched
// by the server; clients load it directly.
func (c *Client) PhotoURL(reference string) string {
	if reference == "" {
		return ""
	}
	return newAPIRequest(endpointPhoto).
		addIntParam("maxwidth", c.photoMaxWidth).
		addParam("photo_reference", reference).
		buildURL(c.baseURL, c.apiKey)
}

// getJSON performs a GET through the endpoint's breaker and decodes the JSON body into out.
func (c *Client) getJSON(ctx context.Context, endpoint string, req *apiRequest, out any) error {
	reqURL := req.buildURL(c.baseURL, c.apiKey)

	body, err := execute(c.breakerFor(endpoint), func() ([]byte, error) {
		return c.fetch(ctx, endpoint, reqURL)
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode places %s response: %w", endpoint, err)
	}
	return nil
}

func (c *Client) breakerFor(endpoint string) *circuitBreaker {
	if endpoint == endpointDetails {
		return c.detailBreaker
	}
	return c.breaker
}

func execute(b *circuitBreaker, fn func() ([]byte, error)) ([]byte, error) {
	if b == nil {
		return fn()
	}
	return b.execute(fn)
}

// fetch returns the body of a 2xx response.
func (c *Client) fetch(ctx context.Context, endpoint, reqURL string) ([]byte, error) {
	resp, err := c.doRequestWithRateLimit(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Body:       string(readBodyForError(resp.Body)),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read places %s response: %w", endpoint, c.redact(err))
	}
	return body, nil
}

// doRequestWithRateLimit performs an HTTP GET with client-side rate limiting
// and automatic handling of HTTP 429: exponential backoff from retryBaseDelay,
// or the Retry-After header when the server sends one.
func (c *Client) doRequestWithRateLimit(ctx context.Context, reqURL string) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("rate limiter: %w", err)
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", c.redact(err))
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("HTTP request failed: %w", c.redact(err))
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		// Rate limited (HTTP 429) - close body and retry with backoff
		_ = resp.Body.Close()

		if attempt == c.maxRetries {
			lastErr = fmt.Errorf("rate limit exceeded after %d retries (HTTP 429)", c.maxRetries)
			break
		}

		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds >= 0 {
				delay = time.Duration(seconds) * time.Second
			}
		}

		c.logger.Debug().Int("attempt", attempt+1).Dur("delay", delay).Msg("places API rate limited, backing off")

		if err := c.wait(ctx, delay); err != nil {
			return nil, err
		}
	}

	return nil, lastErr
}

// redact masks the API key inside *url.Error values produced by net/http,
// keeping the error chain intact for errors.Is.
func (c *Client) redact(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		ue.URL = logging.RedactURL(ue.URL)
		if ue.Err != nil && strings.Contains(ue.Err.Error(), c.apiKey) {
			ue.Err = errors.New(logging.RedactSecret(ue.Err.Error(), c.apiKey))
		}
	}
	return err
}

// recordOutcome records a completed Places call by response status.
func recordOutcome(endpoint, status string, start time.Time) {
	outcome := "status_error"
	switch status {
	case StatusOK:
		outcome = "ok"
	case StatusZeroResults:
		outcome = "zero_results"
	case "":
		outcome = "error"
	}
	metrics.RecordPlacesRequest(metricEndpoint(endpoint), outcome, time.Since(start))
}

func metricEndpoint(endpoint string) string {
	switch endpoint {
	case endpointNearby:
		return "nearby"
	case endpointDetails:
		return "details"
	default:
		return endpoint
	}
}

// readBodyForError reads a limited amount of a response body for error messages.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return nil
	}
	return body
}

// sleepContext waits for d, returning early with ctx.Err() if ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
