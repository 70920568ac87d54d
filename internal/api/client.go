// Package api talks to the task backend over HTTP and owns the auth token.
package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultBaseURL is the development backend address.
	DefaultBaseURL = "http://localhost:8080"

	RequestIDHeader = "X-Request-ID"

	pathRegister = "/api/auth/register"
	pathLogin    = "/api/auth/login"
	pathTasks    = "/api/tasks"

	// Cap on error bodies read for a message.
	maxErrorBody = 64 << 10
)

// TokenStore persists the auth token between runs.
type TokenStore interface {
	LoadToken(ctx context.Context) (string, error)
	SaveToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}

// Client is constructed once per process. The token is read by every request
// and replaced only by Login, SetToken and Logout.
type Client struct {
	baseURL string
	http    *http.Client
	store   TokenStore
	logger  *slog.Logger
	newID   func() string

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithTokenStore(store TokenStore) Option {
	return func(c *Client) {
		if store != nil {
			c.store = store
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTimeout bounds each request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.http
			hc.Timeout = d
			c.http = &hc
		}
	}
}

func withRequestIDs(fn func() string) Option {
	return func(c *Client) { c.newID = fn }
}

// New builds a client for baseURL. A token already present in the store is
// attached right away so a restart keeps the session.
func New(ctx context.Context, baseURL string, opts ...Option) *Client {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	c := &Client{
		baseURL: base,
		http:    &http.Client{},
		store:   NewMemoryTokenStore(""),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	token, err := c.store.LoadToken(ctx)
	if err != nil {
		c.logger.Warn("load persisted token", "err", err)
	} else if token != "" {
		c.token = token
		c.logger.Debug("restored persisted token")
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

// Token returns the current token, "" when logged out.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) Authenticated() bool {
	return c.Token() != ""
}

// SetToken attaches token to later requests and persists it. An empty token
// logs out.
func (c *Client) SetToken(ctx context.Context, token string) error {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
	if token == "" {
		return c.store.ClearToken(ctx)
	}
	return c.store.SaveToken(ctx, token)
}

// Logout drops the header and the persisted token.
func (c *Client) Logout(ctx context.Context) error {
	return c.SetToken(ctx, "")
}

// EncodeBasicToken builds the credential sent as "Basic <token>".
func EncodeBasicToken(mail, password string) string {
	return base64.StdEncoding.EncodeToString([]byte(mail + ":" + password))
}

// Error is a failed call. Message is the backend's reason when it gave one.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("api: %d: %s", e.Status, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("api: %v", e.Err)
	default:
		return fmt.Sprintf("api: unexpected status %d", e.Status)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// reason picks the backend message or the per-operation fallback.
func reason(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && strings.TrimSpace(apiErr.Message) != "" {
		return apiErr.Message
	}
	return fallback
}

// do sends one JSON request. A nil out discards the body; the raw body is
// returned either way.
func (c *Client) do(ctx context.Context, method, path string, body, out any) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, &Error{Err: fmt.Errorf("encode request: %w", err)}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, &Error{Err: fmt.Errorf("build request: %w", err)}
	}
	requestID := c.newID()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Basic "+token)
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("api request failed", "method", method, "path", path, "request_id", requestID, "err", err)
		return nil, &Error{Err: err}
	}
	defer resp.Body.Close()
	c.logger.Debug("api request", "method", method, "path", path, "status", resp.StatusCode,
		"request_id", requestID, "elapsed", time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &Error{Status: resp.StatusCode, Message: errorMessage(raw)}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Status: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}
	if out != nil && len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return nil, &Error{Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
		}
	}
	return raw, nil
}

func errorMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	return strings.TrimSpace(body.Message)
}
