package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/joshdurbin/url-shortener-dashboard/internal/domain"
)

// maxBodySize caps how much of a backend response is read
const maxBodySize = 1 << 20

// Backend endpoints
const (
	EndpointShorten = "/shorten"
	EndpointAll     = "/all"
	EndpointURL     = "/url/"
	EndpointMetrics = "/metrics"
	EndpointLogin   = "/login"
	EndpointSignup  = "/signup"
	EndpointLogout  = "/logout"
)

// StatusRecorder observes backend response statuses
type StatusRecorder interface {
	RecordBackendResponse(endpoint string, status int)
}

// Response is a backend reply. Non-2xx statuses are not errors at this level;
// callers inspect StatusCode and read the error body themselves.
type Response struct {
	StatusCode int
	Body       []byte
}

// Message returns the "message" field of a JSON error body, or ""
func (r *Response) Message() string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(r.Body, &payload); err != nil {
		return ""
	}
	return payload.Message
}

// Client represents an HTTP client for the shortener backend API
type Client struct {
	baseURL    string
	httpClient *http.Client
	recorder   StatusRecorder
}

// NewClient creates a new backend client
func NewClient(baseURL string, timeout time.Duration, recorder StatusRecorder) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		recorder: recorder,
	}
}

// Shorten asks the backend for a new short URL
func (c *Client) Shorten(ctx context.Context, token, longURL string) (*Response, error) {
	return c.do(ctx, http.MethodPost, EndpointShorten, EndpointShorten, token, domain.CreateLinkRequest{URL: longURL})
}

// ListURLs retrieves every link owned by the token's user
func (c *Client) ListURLs(ctx context.Context, token string) (*Response, error) {
	return c.do(ctx, http.MethodGet, EndpointAll, EndpointAll, token, nil)
}

// DeleteURL removes a link by code
func (c *Client) DeleteURL(ctx context.Context, token, code string) (*Response, error) {
	return c.do(ctx, http.MethodDelete, EndpointURL+url.PathEscape(code), EndpointURL+"{code}", token, nil)
}

// Metrics retrieves click counts per domain
func (c *Client) Metrics(ctx context.Context, token string) (*Response, error) {
	return c.do(ctx, http.MethodGet, EndpointMetrics, EndpointMetrics, token, nil)
}

// Login exchanges credentials for a session token
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (*Response, error) {
	return c.do(ctx, http.MethodPost, EndpointLogin, EndpointLogin, "", creds)
}

// Signup registers a new account
func (c *Client) Signup(ctx context.Context, creds domain.Credentials) (*Response, error) {
	return c.do(ctx, http.MethodPost, EndpointSignup, EndpointSignup, "", creds)
}

// Logout ends the backend session
func (c *Client) Logout(ctx context.Context, token string) (*Response, error) {
	return c.do(ctx, http.MethodPost, EndpointLogout, EndpointLogout, token, struct{}{})
}

func (c *Client) do(ctx context.Context, method, path, endpoint, token string, body interface{}) (*Response, error) {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if c.recorder != nil {
		c.recorder.RecordBackendResponse(endpoint, resp.StatusCode)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       data,
	}, nil
}
