// Package api implements the typed client for the remote commerce API that
// owns all durable storefront state (catalog, orders, payments, identity).
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
	"strings"
	"time"
)

const defaultTimeout = 8 * time.Second

// Sentinel errors surfaced by client calls. Transport failures are wrapped in
// TransportError so callers can distinguish retryable network faults from
// remote rejections.
var (
	// ErrNotFound indicates the remote resource does not exist.
	ErrNotFound = errors.New("api: resource not found")
	// ErrUnauthorized indicates missing or expired credentials.
	ErrUnauthorized = errors.New("api: unauthorized")
	// ErrRejected indicates the remote API refused the request payload.
	ErrRejected = errors.New("api: request rejected")
)

// TransportError wraps network-level failures and 5xx responses. Operations
// failing with a TransportError are safe to retry by repeating the user action.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("api: %s: %v", e.Op, e.Err) }

// Unwrap exposes the underlying cause.
func (e *TransportError) Unwrap() error { return e.Err }

// IsTransport reports whether err is a retryable transport failure.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// Client issues JSON calls against the remote commerce API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New constructs a Client rooted at baseURL. A zero timeout falls back to the
// package default.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) endpoint(parts ...string) (string, error) {
	return url.JoinPath(c.baseURL, parts...)
}

// do executes one JSON request. token, query, and body may be empty; out may
// be nil when the response body is irrelevant.
func (c *Client) do(ctx context.Context, op, method, endpoint string, query url.Values, token string, body any, out any) error {
	if len(query) > 0 {
		endpoint = endpoint + "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: %s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("api: %s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return &TransportError{Op: op, Err: fmt.Errorf("status %d: %s", resp.StatusCode, drainError(resp.Body))}
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("api: %s: %w", op, ErrNotFound)
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("api: %s: %w", op, ErrUnauthorized)
	case resp.StatusCode >= 400:
		return fmt.Errorf("api: %s: status %d: %s: %w", op, resp.StatusCode, drainError(resp.Body), ErrRejected)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api: %s: decode response: %w", op, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, op string, query url.Values, token string, out any, parts ...string) error {
	endpoint, err := c.endpoint(parts...)
	if err != nil {
		return fmt.Errorf("api: %s: %w", op, err)
	}
	return c.do(ctx, op, http.MethodGet, endpoint, query, token, nil, out)
}

func (c *Client) post(ctx context.Context, op, token string, body, out any, parts ...string) error {
	endpoint, err := c.endpoint(parts...)
	if err != nil {
		return fmt.Errorf("api: %s: %w", op, err)
	}
	return c.do(ctx, op, http.MethodPost, endpoint, nil, token, body, out)
}

func (c *Client) put(ctx context.Context, op, token string, body, out any, parts ...string) error {
	endpoint, err := c.endpoint(parts...)
	if err != nil {
		return fmt.Errorf("api: %s: %w", op, err)
	}
	return c.do(ctx, op, http.MethodPut, endpoint, nil, token, body, out)
}

func (c *Client) delete(ctx context.Context, op, token string, parts ...string) error {
	endpoint, err := c.endpoint(parts...)
	if err != nil {
		return fmt.Errorf("api: %s: %w", op, err)
	}
	return c.do(ctx, op, http.MethodDelete, endpoint, nil, token, nil, nil)
}

func drainError(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 2048))
	if err != nil || len(raw) == 0 {
		return "no body"
	}
	var payload struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &payload) == nil {
		if payload.Detail != "" {
			return payload.Detail
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return strings.TrimSpace(string(raw))
}
