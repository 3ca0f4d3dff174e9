package rest

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"tradebot/internal/auth"
)

// Client executes HTTP requests against the exchange with signing, rate
// limiting and bounded retry. It carries no per-request state; the embedded
// http.Client pools connections and is safe for concurrent use.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	signer      *auth.Signer
	rateLimiter *RateLimiter
	maxAttempts int
	backoffBase time.Duration
	logger      zerolog.Logger
}

// Option configures the client
type Option func(*Client)

// WithTimeout sets the per-attempt HTTP timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithMaxAttempts sets the total number of attempts, including the first
func WithMaxAttempts(attempts int) Option {
	return func(c *Client) {
		if attempts > 0 {
			c.maxAttempts = attempts
		}
	}
}

// WithBackoffBase sets the base delay for exponential backoff between
// attempts. The delay doubles after each failed attempt.
func WithBackoffBase(base time.Duration) Option {
	return func(c *Client) {
		c.backoffBase = base
	}
}

// WithRateLimit sets rate limiting
func WithRateLimit(requestsPerSecond float64, burst int) Option {
	return func(c *Client) {
		c.rateLimiter = NewRateLimiter(requestsPerSecond, burst)
	}
}

// WithLogger sets the client logger
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new REST client
func NewClient(baseURL string, signer *auth.Signer, opts ...Option) *Client {
	client := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		signer:      signer,
		rateLimiter: NewRateLimiter(10, 5),
		maxAttempts: 3,
		backoffBase: time.Second,
		logger:      zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// BaseURL returns the base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Timeout returns the per-attempt HTTP timeout
func (c *Client) Timeout() time.Duration {
	return c.httpClient.Timeout
}

// MaxAttempts returns the total attempt budget
func (c *Client) MaxAttempts() int {
	return c.maxAttempts
}

// Do executes a request and returns the raw response body. Only GET, POST
// and DELETE are supported; anything else fails immediately without a
// network call. Transient failures (429/5xx or a failed connection) are
// retried up to the attempt budget with exponential backoff; exchange
// rejections come back as *APIError, network failures as *TransportError.
func (c *Client) Do(ctx context.Context, method, path string, params url.Values, signed bool) ([]byte, error) {
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodDelete:
	default:
		return nil, &UnsupportedMethodError{Method: method}
	}

	if params == nil {
		params = url.Values{}
	}

	var lastErr error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if c.rateLimiter != nil {
			if err := c.rateLimiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		// Signing is per attempt so every try carries a fresh timestamp
		sendParams := params
		if signed {
			if c.signer == nil {
				return nil, ErrorWithContext(errNoSigner, method+" "+path)
			}
			sendParams = c.signer.SignedParams(params)
		}

		// Binance expects all parameters in the query string, even for
		// POST and DELETE
		requestURL := c.baseURL + path
		if len(sendParams) > 0 {
			requestURL += "?" + sendParams.Encode()
		}

		req, err := http.NewRequestWithContext(ctx, method, requestURL, nil)
		if err != nil {
			return nil, err
		}
		if c.signer != nil {
			req.Header.Set("X-MBX-APIKEY", c.signer.APIKey())
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		c.logger.Debug().
			Str("method", method).
			Str("path", path).
			Int("attempt", attempt).
			Msg("Executing request")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			terr := classifyNetError(err)
			lastErr = terr
			c.logger.Warn().
				Str("method", method).
				Str("path", path).
				Int("attempt", attempt).
				Str("kind", terr.Kind.String()).
				Msg("Request failed before a response")
			if attempt < c.maxAttempts {
				if werr := c.backoff(ctx, attempt); werr != nil {
					return nil, werr
				}
				continue
			}
			return nil, terr
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = &TransportError{Kind: TransportConnection, Err: err}
			if attempt < c.maxAttempts {
				if werr := c.backoff(ctx, attempt); werr != nil {
					return nil, werr
				}
				continue
			}
			return nil, lastErr
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			c.logger.Debug().
				Str("method", method).
				Str("path", path).
				Int("status", resp.StatusCode).
				Msg("Request succeeded")
			return body, nil
		}

		apiErr := parseAPIError(resp.StatusCode, body)
		lastErr = apiErr

		c.logger.Warn().
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Int("code", apiErr.Code).
			Str("msg", apiErr.Message).
			Msg("Exchange rejected request")

		if attempt < c.maxAttempts && isRetryableStatus(resp.StatusCode) {
			if werr := c.backoff(ctx, attempt); werr != nil {
				return nil, werr
			}
			continue
		}

		return nil, apiErr
	}

	return nil, lastErr
}

// backoff sleeps for base * 2^(attempt-1), honoring context cancellation
func (c *Client) backoff(ctx context.Context, attempt int) error {
	delay := c.backoffBase << (attempt - 1)

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
