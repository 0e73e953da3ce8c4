// Package httpapi is the outbound HTTP collaborator for the Http-family
// commands. Requests never surface a Go error: a connection failure, timeout,
// or unreadable body degrades to a TransportError indicator outcome so the
// dispatch loop is never aborted by the network.
package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds each outbound request. Dispatch is fully serial, so
// an unbounded call would block every subsequent chat line.
const DefaultTimeout = 15 * time.Second

// maxResponseBody caps how much of a response is read (1 MiB).
const maxResponseBody = 1 << 20

// TransportError is the degraded outcome returned when a request could not
// be completed. It is a value, not a Go error: callers deliver it to chat
// like any other outcome.
type TransportError struct {
	Reason string
}

func (e TransportError) String() string {
	return "request failed: " + e.Reason
}

// Client issues outbound HTTP requests on behalf of commands.
type Client struct {
	httpClient *http.Client
}

// New creates a Client with the default timeout.
func New() *Client {
	return NewWithTimeout(DefaultTimeout)
}

// NewWithTimeout creates a Client whose requests are bounded by timeout.
func NewWithTimeout(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{httpClient: &http.Client{Timeout: timeout}}
}

// Request performs the given method against url with body as the request
// body. The outcome is the decoded JSON body when it parses, the raw body
// text when it does not, or a TransportError when the request could not be
// sent or read.
func (c *Client) Request(ctx context.Context, method, url, body string, headers map[string]string) any {
	req, err := http.NewRequestWithContext(ctx, method, url, strings.NewReader(body))
	if err != nil {
		return TransportError{Reason: err.Error()}
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if req.Header.Get("Content-Type") == "" && body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Warn("outbound request failed", "method", method, "url", url, "err", err)
		return TransportError{Reason: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		slog.Warn("outbound response unreadable", "method", method, "url", url, "err", err)
		return TransportError{Reason: err.Error()}
	}

	var decoded any
	if err := json.Unmarshal(data, &decoded); err == nil {
		return decoded
	}
	return string(data)
}
