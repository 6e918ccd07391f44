package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// APIError is a structured error returned by the ACM API.
type APIError struct {
	HTTPStatus  int
	Code        int    // ACM error code (1000 not found, 1001 invalid request)
	Description string
}

func (e *APIError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("api error (HTTP %d, code %d): %s", e.HTTPStatus, e.Code, e.Description)
	}
	return fmt.Sprintf("api error (HTTP %d)", e.HTTPStatus)
}

// Client is a thin HTTP client for the ACM API.
type Client struct {
	BaseURL    string
	User       string
	Password   string
	Token      string
	HTTPClient *http.Client
}

// NewClient creates a client for the given host. Either basic credentials or
// a bearer token may be set; the token wins when both are present.
func NewClient(host, user, password, token string) *Client {
	return &Client{
		BaseURL:    strings.TrimSuffix(host, "/"),
		User:       user,
		Password:   password,
		Token:      token,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Do performs an HTTP request against the API. The path is relative to the
// base URL; body, when non-nil, is JSON-encoded. The caller owns the
// response body.
func (c *Client) Do(method, path string, query url.Values, body any) (*http.Response, error) {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, u, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	} else if c.User != "" {
		req.SetBasicAuth(c.User, c.Password)
	}

	return c.HTTPClient.Do(req)
}

// DoJSON performs a request and decodes a successful JSON response into out.
// Non-2xx responses become an *APIError.
func (c *Client) DoJSON(method, path string, query url.Values, body, out any) error {
	resp, err := c.Do(method, path, query, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{HTTPStatus: resp.StatusCode}
	var payload struct {
		Code        int    `json:"code"`
		Description string `json:"description"`
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err == nil && json.Unmarshal(data, &payload) == nil {
		apiErr.Code = payload.Code
		apiErr.Description = payload.Description
	}
	return apiErr
}
