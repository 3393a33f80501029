package relayer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"sbt-gateway-backend/internal/common/logger"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = 3

	initialBackoff = time.Second
	maxBackoff     = 10 * time.Second
)

// ClientConfig configures the relay HTTP client.
type ClientConfig struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

// Client executes JSON calls against the relay over a single long-lived
// http.Client. Transport-level failures (connection refused, DNS failure,
// dial or response timeout) are retried with exponential backoff; any
// received HTTP response is handed to the caller as-is, because the relay
// encodes success in the body's business status, not the transport status.
type Client struct {
	httpClient *http.Client
	baseURL    string
	maxRetries int
}

func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = defaultMaxRetries
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.BaseURL,
		maxRetries: maxRetries,
	}
}

// backoffDelay returns the sleep before retry attempt n (1-indexed):
// min(1s * 2^n, 10s).
func backoffDelay(attempt int) time.Duration {
	d := initialBackoff << uint(attempt)
	if d > maxBackoff || d <= 0 {
		d = maxBackoff
	}
	return d
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) postJSON(ctx context.Context, path string, body, out interface{}) error {
	return c.doJSON(ctx, http.MethodPost, path, body, out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	url := c.baseURL + path

	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		payload = b
	}

	resp, err := c.doWithRetry(ctx, method, url, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read relay response: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode relay response (http %d): %w", resp.StatusCode, err)
	}
	return nil
}

func (c *Client) doWithRetry(ctx context.Context, method, url string, payload []byte) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			logger.Warn().
				Str("method", method).
				Str("url", url).
				Int("attempt", attempt).
				Int("max_retries", c.maxRetries).
				Msg("Retrying relayer request")
			time.Sleep(backoffDelay(attempt))
		}

		var bodyReader io.Reader
		if payload != nil {
			bodyReader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		logger.Debug().
			Str("method", method).
			Str("url", url).
			Msg("Relayer request")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			// No response was received; this is the only failure class
			// eligible for retry.
			lastErr = err
			logger.Error().
				Str("method", method).
				Str("url", url).
				Err(err).
				Msg("Relayer request failed")
			continue
		}

		logger.Debug().
			Str("method", method).
			Str("url", url).
			Int("status", resp.StatusCode).
			Msg("Relayer response")
		return resp, nil
	}

	return nil, fmt.Errorf("relayer unreachable after %d retries: %w", c.maxRetries, lastErr)
}
