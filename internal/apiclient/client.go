// Package apiclient is the configured request client for the upstream lessons
// REST API. Each Client is bound to at most one session; when a session is
// present every request carries a freshly minted identity token.
package apiclient

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

	"lifelessons/internal/pkg/validator"
	"lifelessons/internal/session"
)

const (
	defaultTimeout = 30 * time.Second
	anonymousKey   = "anonymous"
)

// TokenMinter mints the bearer token attached to an upstream request.
type TokenMinter interface {
	MintIdentityToken(sess *session.Session) (string, error)
}

// Limiter throttles outbound calls per key.
type Limiter interface {
	Wait(ctx context.Context, key string) error
}

// Config is fixed per deployment.
type Config struct {
	BaseURL     string
	ContentType string
	Timeout     time.Duration
}

type Client struct {
	cfg     Config
	http    *http.Client
	session *session.Session
	tokens  TokenMinter
	limiter Limiter
	logger  *slog.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the transport, mostly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLimiter throttles outbound calls.
func WithLimiter(l Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// New produces a client. sess may be nil: such a client sends no
// Authorization header and relies on the backend treating the route as
// anonymous.
func New(cfg Config, sess *session.Session, tokens TokenMinter, logger *slog.Logger, opts ...Option) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.ContentType == "" {
		cfg.ContentType = "application/json"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		session: sess,
		tokens:  tokens,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns the session the client acts for, or nil.
func (c *Client) Session() *session.Session {
	return c.session
}

func (c *Client) limiterKey() string {
	if c.session == nil {
		return anonymousKey
	}
	return c.session.ID()
}

// do sends one request and decodes a JSON body into out (if non-nil).
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	wrap := func(status int, msg string, err error) error {
		return &Error{Op: op, Method: method, Path: path, Status: status, Message: msg, Err: err}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, c.limiterKey()); err != nil {
			return wrap(0, "", fmt.Errorf("rate limit wait: %w", err))
		}
	}

	u := c.cfg.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		if err := validator.Check(body); err != nil {
			return wrap(0, "", fmt.Errorf("%w: %v", ErrInvalidBody, err))
		}
		b, err := json.Marshal(body)
		if err != nil {
			return wrap(0, "", fmt.Errorf("encode body: %w", err))
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return wrap(0, "", fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", c.cfg.ContentType)
	req.Header.Set("Accept", "application/json")

	if c.session != nil && c.tokens != nil {
		token, err := c.tokens.MintIdentityToken(c.session)
		if err != nil {
			return wrap(0, "", fmt.Errorf("mint identity token: %w", err))
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.logger.Debug("api request", "op", op, "method", method, "path", path, "anonymous", c.session == nil)

	resp, err := c.http.Do(req)
	if err != nil {
		return wrap(0, "", fmt.Errorf("execute request: %w", err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return wrap(resp.StatusCode, "", fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := errorMessage(raw)
		return wrap(resp.StatusCode, msg, classify(resp.StatusCode, msg))
	}

	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return wrap(resp.StatusCode, "", ErrEmptyBody)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return wrap(resp.StatusCode, "", fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func classify(status int, msg string) error {
	switch {
	case status == http.StatusConflict || msg == alreadyFavorited:
		return ErrConflict
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrUnauthorized
	case status >= 500:
		return ErrServer
	case status >= 400:
		return ErrBadRequest
	default:
		return fmt.Errorf("unexpected status %d", status)
	}
}

// errorMessage pulls {"message": "..."} out of an error body when present.
func errorMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return strings.TrimSpace(string(raw))
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}

// decodeOneOrMany accepts either a JSON array or a single object.
func decodeOneOrMany[T any](raw json.RawMessage) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] == '[' {
		var many []T
		if err := json.Unmarshal(trimmed, &many); err != nil {
			return nil, err
		}
		return many, nil
	}
	var one T
	if err := json.Unmarshal(trimmed, &one); err != nil {
		return nil, err
	}
	return []T{one}, nil
}
