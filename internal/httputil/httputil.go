// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across pipeline backends.
package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/predictlab/matpredict/pkg/types"
)

const defaultTimeout = 60 * time.Second

// maxErrorBody caps how much of an error response body is kept for the
// error message.
const maxErrorBody = 512

// NewClient builds an HTTP client from the shared HTTP configuration.
func NewClient(cfg types.HTTPConfig) *http.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// StatusError reports a non-2xx response. It carries the status code and an
// excerpt of the body so callers can log what the service actually said.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// GetJSON issues a GET request with the given headers and decodes the JSON
// response body into out. Non-2xx responses become a *StatusError.
func GetJSON(ctx context.Context, client *http.Client, url string, header http.Header, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	copyHeader(req, header)

	return doJSON(client, req, out)
}

// PostJSON marshals body, issues a POST request with the given headers, and
// decodes the JSON response into out. Non-2xx responses become a
// *StatusError.
func PostJSON(ctx context.Context, client *http.Client, url string, header http.Header, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	copyHeader(req, header)

	return doJSON(client, req, out)
}

// doJSON executes the request, maps non-2xx statuses to *StatusError, and
// decodes the body into out when out is non-nil.
func doJSON(client *http.Client, req *http.Request, out any) error {
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(excerpt))}
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}

// copyHeader applies extra headers to the request without clobbering ones
// the helper already set.
func copyHeader(req *http.Request, header http.Header) {
	for k, values := range header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
}
