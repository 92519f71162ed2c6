// Package api is the HTTP client for the training-platform gateway.
// All business logic (scenario storage, AI simulation, scoring) lives behind
// the gateway; this package only speaks its REST contract.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
)

// Client calls the gateway. A zero Token means unauthenticated requests.
type Client struct {
	BaseURL string
	Token   string

	httpClient *http.Client
}

// NewClient returns a gateway client for the given base URL.
// Token may be empty for pre-login endpoints.
func NewClient(baseURL, token string) *Client {
	// The gateway also sets session cookies alongside the bearer token.
	jar, _ := cookiejar.New(nil)
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Token:      token,
		httpClient: &http.Client{Jar: jar},
	}
}

// Error is a non-2xx gateway response. Detail carries the gateway's own
// error message when the body was decodable.
type Error struct {
	Method     string
	Path       string
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("API %s %s failed with %d", e.Method, e.Path, e.StatusCode)
}

// do performs a request with JSON encoding on both sides.
// body and out may each be nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		apiErr := &Error{Method: method, Path: path, StatusCode: res.StatusCode}
		var payload struct {
			Detail string `json:"detail"`
		}
		if json.NewDecoder(res.Body).Decode(&payload) == nil {
			apiErr.Detail = payload.Detail
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	// The gateway expects a JSON body on every POST, even when empty.
	if body == nil {
		body = struct{}{}
	}
	return c.do(ctx, http.MethodPost, path, body, out)
}
