// Package ingest dispatches single-event payloads to the marketplace's
// ingestion endpoint. The endpoint is a fire-and-forget write API: any
// response counts as success, only transport failures are errors, and
// nothing is ever retried.
package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Default client configuration constants.
const (
	defaultTimeout = 5 * time.Second
)

// Payload is the single-event wire format accepted by the ingestion
// endpoint.
type Payload struct {
	Fingerprint     string `json:"fingerprint"`
	InteractionType string `json:"interaction_type"`
	ContentType     string `json:"content_type"`
	ContentID       int    `json:"content_id"`
	ContentName     string `json:"content_name"`
	PageURL         string `json:"page_url"`
	SessionID       string `json:"session_id"`
}

// Transport sends one payload upstream.
type Transport interface {
	// Send dispatches a payload, honoring ctx for cancellation.
	Send(ctx context.Context, p Payload) error
}

// Client implements Transport over HTTP.
type Client struct {
	endpoint string
	client   *http.Client
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithTimeout sets the per-dispatch timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.client.Timeout = timeout
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// NewClient creates a Client posting to endpoint.
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint: endpoint,
		client:   &http.Client{Timeout: defaultTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Send posts one payload. The response body is drained and discarded; the
// status code is deliberately ignored — any response is success.
func (c *Client) Send(ctx context.Context, p Payload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("%w: marshal payload: %w", ErrDispatch, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: build request: %w", ErrDispatch, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDispatch, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}
