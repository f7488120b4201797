package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// TokenFunc supplies the bearer token for each request. The token itself is
// managed by the auth layer; the client only attaches it.
type TokenFunc func() string

type Client struct {
	baseURL string
	http    *http.Client
	token   TokenFunc
	breaker *gobreaker.CircuitBreaker[*Envelope]
}

type Option func(*Client)

// WithToken sets the bearer token source.
func WithToken(token TokenFunc) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the underlying HTTP client (used by tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout:   30 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	// Only transport faults count as breaker failures; business rejections
	// pass through as successful round-trips.
	c.breaker = gobreaker.NewCircuitBreaker[*Envelope](gobreaker.Settings{
		Name:    "storefront-api",
		Timeout: 10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return c
}

// Get performs a GET round-trip and returns the decoded envelope.
func (c *Client) Get(ctx context.Context, path string) (*Envelope, error) {
	return c.doJSON(ctx, http.MethodGet, path, nil)
}

func (c *Client) Post(ctx context.Context, path string, body any) (*Envelope, error) {
	return c.doJSON(ctx, http.MethodPost, path, body)
}

func (c *Client) Put(ctx context.Context, path string, body any) (*Envelope, error) {
	return c.doJSON(ctx, http.MethodPut, path, body)
}

func (c *Client) Delete(ctx context.Context, path string) (*Envelope, error) {
	return c.doJSON(ctx, http.MethodDelete, path, nil)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any) (*Envelope, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, &TransportError{Op: method + " " + path, Err: err}
		}
		reader = bytes.NewReader(payload)
	}
	return c.do(ctx, method, path, "application/json", reader)
}

// PostFile uploads a single binary field as multipart form data, plus any
// extra scalar fields.
func (c *Client) PostFile(ctx context.Context, path, field, filename string, file io.Reader, extra map[string]string) (*Envelope, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		return nil, &TransportError{Op: "POST " + path, Err: err}
	}
	if _, err = io.Copy(part, file); err != nil {
		return nil, &TransportError{Op: "POST " + path, Err: err}
	}
	for name, value := range extra {
		if err = writer.WriteField(name, value); err != nil {
			return nil, &TransportError{Op: "POST " + path, Err: err}
		}
	}
	if err = writer.Close(); err != nil {
		return nil, &TransportError{Op: "POST " + path, Err: err}
	}
	return c.do(ctx, http.MethodPost, path, writer.FormDataContentType(), &buf)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader) (*Envelope, error) {
	op := method + " " + path

	env, err := c.breaker.Execute(func() (*Envelope, error) {
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", contentType)
		}
		if c.token != nil {
			req.Header.Set("Authorization", "Bearer "+c.token())
		}

		res, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer res.Body.Close()

		var env Envelope
		if err = json.NewDecoder(res.Body).Decode(&env); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		if env.Status == 0 {
			// Some proxies answer with a bare body; fall back to the
			// HTTP status so callers still get a usable envelope.
			env.Status = res.StatusCode
		}
		return &env, nil
	})
	if err != nil {
		// Breaker rejections (open state) surface like any other
		// transport fault: the user may retry manually.
		return nil, &TransportError{Op: op, Err: err}
	}

	if !env.OK() {
		return nil, &BusinessError{
			Status:  env.Status,
			Message: env.Text(),
			Fields:  env.FieldErrors(),
		}
	}
	return env, nil
}
