// Package rest implements the gateway.Gateway interface over the
// json-server style REST API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"taskdeck/internal/gateway"
	"taskdeck/internal/model"
)

// DefaultTimeout is the per-call timeout applied when the config does
// not override it.
const DefaultTimeout = 5 * time.Second

// Client implements gateway.Gateway against a base URL.
type Client struct {
	base    string
	http    *http.Client
	timeout time.Duration
	log     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (for testing).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout overrides the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger used for request-level debug output.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New creates a client for the gateway at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		base:    strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		timeout: DefaultTimeout,
		log:     slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// UsersByEmail implements gateway.Gateway.
func (c *Client) UsersByEmail(ctx context.Context, email string) ([]model.User, error) {
	var users []model.User
	err := c.do(ctx, http.MethodGet, "/users?email="+url.QueryEscape(email), nil, &users)
	return users, err
}

// UsersByUsername implements gateway.Gateway.
func (c *Client) UsersByUsername(ctx context.Context, username string) ([]model.User, error) {
	var users []model.User
	err := c.do(ctx, http.MethodGet, "/users?username="+url.QueryEscape(username), nil, &users)
	return users, err
}

// CreateUser implements gateway.Gateway.
func (c *Client) CreateUser(ctx context.Context, u model.User) (model.User, error) {
	var created model.User
	err := c.do(ctx, http.MethodPost, "/users", u, &created)
	return created, err
}

// TasksByOwner implements gateway.Gateway.
func (c *Client) TasksByOwner(ctx context.Context, ownerID string) ([]model.Task, error) {
	var tasks []model.Task
	err := c.do(ctx, http.MethodGet, "/tasks?userId="+url.QueryEscape(ownerID), nil, &tasks)
	return tasks, err
}

// CreateTask implements gateway.Gateway.
func (c *Client) CreateTask(ctx context.Context, t model.Task) (model.Task, error) {
	var created model.Task
	err := c.do(ctx, http.MethodPost, "/tasks", t, &created)
	return created, err
}

// UpdateTask implements gateway.Gateway.
func (c *Client) UpdateTask(ctx context.Context, id string, p gateway.TaskPatch) (model.Task, error) {
	var updated model.Task
	err := c.do(ctx, http.MethodPatch, "/tasks/"+url.PathEscape(id), p, &updated)
	return updated, err
}

// DeleteTask implements gateway.Gateway.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(id), nil, nil)
}

// do issues one request with the per-call timeout, encoding body as JSON
// when non-nil and decoding the response into out when non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &gateway.TransportError{Op: method + " " + path, Err: err}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return &gateway.TransportError{Op: method + " " + path, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &gateway.TransportError{Op: method + " " + path, Err: wrapTimeout(err)}
	}
	defer resp.Body.Close()

	c.log.Debug("gateway request", "method", method, "path", path, "status", resp.StatusCode)

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s %s: %w", method, path, gateway.ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &gateway.TransportError{Op: method + " " + path, Status: resp.StatusCode}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &gateway.TransportError{Op: method + " " + path, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// wrapTimeout rewrites a context deadline error into a readable message.
func wrapTimeout(err error) error {
	if err != nil && strings.Contains(err.Error(), "context deadline exceeded") {
		return fmt.Errorf("request timed out")
	}
	return err
}
