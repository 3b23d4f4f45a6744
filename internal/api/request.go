package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ErrExhaustedRetries marks a request that failed on every allowed attempt.
// The underlying transport error is wrapped alongside it.
var ErrExhaustedRetries = errors.New("exhausted retries")

// APIError represents an error reported by the MEXC API.
type APIError struct {
	StatusCode int    // HTTP status, 0 for envelope-level failures
	Code       int    // MEXC error code, 0 if absent
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("mexc api error code %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("mexc api error %d: %s", e.StatusCode, e.Message)
}

// IsRetryable returns true if the error should trigger a retry.
func (e *APIError) IsRetryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}

// envelope is the {success|code, data} wrapper MEXC puts around most
// market-endpoint responses. Bare payloads decode with all fields nil.
type envelope struct {
	Success *bool           `json:"success"`
	Code    *int            `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// pace blocks until the minimum inter-request spacing has elapsed since the
// previous request, or the context is cancelled. Each caller reserves the
// next send slot under the mutex before sleeping, so concurrent callers
// sharing one client are spaced out rather than all waking at once.
func (c *Client) pace(ctx context.Context) error {
	c.spacingMu.Lock()
	next := c.lastRequest.Add(c.spacing)
	if now := time.Now(); next.Before(now) {
		next = now
	}
	c.lastRequest = next
	c.spacingMu.Unlock()

	if wait := time.Until(next); wait > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return nil
}

// doRequest performs one GET and returns the raw response body.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			Body:       body,
		}
	}

	return body, nil
}

// doWithRetry performs a paced request with bounded linear-backoff retry.
func (c *Client) doWithRetry(ctx context.Context, path string, query url.Values) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 {
			backoff := c.retryBackoff * time.Duration(attempt-1)
			c.logger.Debug("retrying request",
				"attempt", attempt,
				"backoff", backoff,
				"path", path,
			)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		if err := c.pace(ctx); err != nil {
			return nil, err
		}

		body, err := c.doRequest(ctx, path, query)
		if err == nil {
			return body, nil
		}

		lastErr = err

		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.IsRetryable() {
			return nil, err
		}
	}

	return nil, fmt.Errorf("%w after %d attempts: %w", ErrExhaustedRetries, c.maxAttempts, lastErr)
}

// unwrap strips the {success|code, data} envelope if present, passing bare
// arrays and objects through unchanged.
func unwrap(body []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return body, nil
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		// Not an object we understand; let the caller's decode report it.
		return body, nil
	}
	if env.Success != nil && !*env.Success {
		code := 0
		if env.Code != nil {
			code = *env.Code
		}
		return nil, &APIError{Code: code, Message: env.Message, Body: body}
	}
	if env.Data == nil || (env.Success == nil && env.Code == nil) {
		return body, nil
	}
	return env.Data, nil
}

// get performs a GET with pacing and retries, unwraps the response envelope,
// and unmarshals the payload into result.
func (c *Client) get(ctx context.Context, path string, query url.Values, result any) error {
	body, err := c.doWithRetry(ctx, path, query)
	if err != nil {
		return err
	}

	payload, err := unwrap(body)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(payload, result); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	return nil
}
