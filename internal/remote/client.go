// Package remote implements the repository interfaces over the team's hosted
// relational API: JSON over HTTP, one endpoint per entity collection, filters
// expressed as query parameters. Writes ask the server to return the written
// representation so callers adopt server-assigned ids and timestamps without
// a second round trip.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// APIError is a non-2xx response from the remote API.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("remote api: status %d: %s", e.Status, e.Body)
}

// TransportError is a network-level failure reaching the remote API,
// including probe timeouts.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("remote transport: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Options configures the remote client.
type Options struct {
	BaseURL    string
	APIKey     string
	Bearer     string
	HTTPClient *http.Client
}

// Client issues raw requests against the remote API. It carries the static
// api key on every call and a bearer token when configured. There is no
// automatic retry at this layer.
type Client struct {
	baseURL    string
	apiKey     string
	bearer     string
	httpClient *http.Client
}

// NewClient creates a remote API client.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"),
		apiKey:     opts.APIKey,
		bearer:     opts.Bearer,
		httpClient: httpClient,
	}
}

// Probe issues one bounded existence check against the tasks collection.
// A 2xx within the timeout means the remote store is usable. The caller
// memoizes the result for the session; the probe is never retried here.
func (c *Client) Probe(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	query := url.Values{}
	query.Set("limit", "1")
	return c.Do(ctx, http.MethodGet, "/tasks", query, nil, nil)
}

// Do issues one JSON request. A non-2xx response yields *APIError; a network
// failure yields *TransportError. When out is non-nil the response body is
// decoded into it.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if c.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearer)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method == http.MethodPost || method == http.MethodPatch {
		// Ask the server to echo the written row back.
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: "read " + path, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// eq formats a PostgREST-style equality filter value.
func eq(value string) string {
	return "eq." + value
}

// contains formats a PostgREST-style array-contains filter value.
func contains(value string) string {
	return `cs.{` + value + `}`
}

// notFoundOK swallows a 404 from a DELETE: removing an id that is already
// gone is a no-op on both stores.
func notFoundOK(err error) error {
	if apiErr, ok := err.(*APIError); ok && apiErr.Status == http.StatusNotFound {
		return nil
	}
	return err
}
