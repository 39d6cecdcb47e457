// Package mealie is a typed HTTP client for a Mealie-compatible
// backend. It owns the request plumbing (Bearer auth, JSON codec,
// optional static headers) and the shared connectivity signal.
package mealie

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

// Config carries the connection settings for a Client.
type Config struct {
	// BaseURL is the root URL of the Mealie instance.
	BaseURL string

	// Token is the API bearer token.
	Token string

	// OptionalHeaders are user-configured static headers. They are
	// suppressed automatically when the host is a private or loopback
	// address, matching how a reverse-proxy header only makes sense on
	// the public route.
	OptionalHeaders map[string]string
}

// Client is a thin HTTP client for the Mealie REST API. It handles
// Bearer token authentication, JSON marshaling and connectivity-state
// signaling. Failed calls are never retried; recovery is an explicit
// reload by the caller.
type Client struct {
	baseURL    string
	token      string
	headers    map[string]string
	httpClient *http.Client
	status     *Status
}

// NewClient creates a Mealie client from the given configuration.
func NewClient(cfg Config) *Client {
	headers := make(map[string]string)
	if !privateHost(cfg.BaseURL) {
		for k, v := range cfg.OptionalHeaders {
			k, v = strings.TrimSpace(k), strings.TrimSpace(v)
			if k != "" && v != "" {
				headers[k] = v
			}
		}
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		headers: headers,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		status: NewStatus(),
	}
}

// Status exposes the shared connectivity signal.
func (c *Client) Status() *Status { return c.status }

// privateHost reports whether the URL's host is on a private or
// loopback network.
func privateHost(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := u.Hostname()
	return host == "localhost" ||
		strings.HasPrefix(host, "192.168.") ||
		strings.HasPrefix(host, "10.") ||
		strings.HasPrefix(host, "127.") ||
		strings.HasPrefix(host, "172.")
}

// get performs an HTTP GET request and unmarshals the JSON response.
func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, result)
}

// post performs an HTTP POST request with a JSON body.
func (c *Client) post(ctx context.Context, path string, body, result interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, result)
}

// put performs an HTTP PUT request with a JSON body.
func (c *Client) put(ctx context.Context, path string, body interface{}) error {
	return c.do(ctx, http.MethodPut, path, body, nil)
}

// del performs an HTTP DELETE request.
func (c *Client) del(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// do is the core HTTP method that builds the request, handles auth and
// JSON (de)serialization, and updates the connectivity signal: any
// completed exchange marks the backend connected, any transport
// failure marks it disconnected.
func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	body interface{},
	result interface{},
) error {
	op := method + " " + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(
		ctx, method, c.baseURL+"/"+path, bodyReader,
	)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.status.SetDisconnected()
		return &NetworkError{Op: op, Err: err}
	}
	c.status.SetConnected()

	respBody, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return fmt.Errorf("reading response body: %w", readErr)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &ServerError{
			Status: resp.StatusCode,
			Op:     op,
			Body:   strings.TrimSpace(string(respBody)),
		}
	}

	if result == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return &DecodeError{Op: op, Err: err}
	}

	return nil
}
