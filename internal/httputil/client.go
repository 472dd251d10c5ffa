// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the HTTP plumbing shared by API clients: a
// client with a bounded timeout and a single-shot JSON GET that separates
// transport failures from remote error statuses. Nothing here retries.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout is used by NewClient when no positive timeout is given.
const DefaultTimeout = 10 * time.Second

var (
	// ErrTransport marks failures where no HTTP response was received
	// (DNS, connection refused, timeout, cancelled context).
	ErrTransport = errors.New("transport failure")

	// ErrDecode marks a response body that could not be decoded as JSON.
	ErrDecode = errors.New("decoding response")
)

// StatusError reports a response with a non-2xx status code.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned HTTP %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// IsStatus reports whether err carries a StatusError with the given code.
// A code of 0 matches any status.
func IsStatus(err error, code int) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return false
	}
	return code == 0 || se.StatusCode == code
}

// NewClient returns an http.Client whose requests are bounded by timeout.
func NewClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// GetJSON issues one GET to rawURL and decodes the JSON body into v.
//
// Errors are classified so callers can tell them apart: no response, or a
// body that could not be read in full, wraps ErrTransport, a non-2xx response is a *StatusError, and an
// undecodable body wraps ErrDecode. The body of a failed response is drained
// and discarded.
func GetJSON(ctx context.Context, client *http.Client, rawURL, userAgent string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return &StatusError{URL: redact(req), StatusCode: resp.StatusCode}
	}

	// A body cut short by a timeout or reset is a transport failure, not a
	// malformed document.
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading body: %w", ErrTransport, err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return nil
}

// redact returns the request URL without its query string so error
// messages do not echo search terms or contact details.
func redact(req *http.Request) string {
	u := *req.URL
	u.RawQuery = ""
	return u.String()
}
