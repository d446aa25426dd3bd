// Package backend implements the marketplace REST API gateways over HTTP.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/ecoworth/marketplace-web/internal/errors"
	"github.com/ecoworth/marketplace-web/internal/ports"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "ecoworth-web"
	maxErrorBody     = 64 << 10
	maxResponseBody  = 8 << 20
)

// Observer receives one callback per backend round trip.
type Observer interface {
	BackendCall(method, endpoint string, status int, d time.Duration, err error)
}

// Config captures how to reach the marketplace backend.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	Client    *http.Client
	Logger    *slog.Logger
	Observer  Observer
	// Now is the clock used when reading token expiry; defaults to time.Now.
	Now func() time.Time
}

// Client talks to the marketplace REST API. It is safe for concurrent use.
type Client struct {
	base      *url.URL
	timeout   time.Duration
	userAgent string
	hc        *http.Client
	logger    *slog.Logger
	observer  Observer
	now       func() time.Time
}

var (
	_ ports.AuthGateway         = (*Client)(nil)
	_ ports.ListingGateway      = (*Client)(nil)
	_ ports.BuyerGateway        = (*Client)(nil)
	_ ports.AdminGateway        = (*Client)(nil)
	_ ports.SubscriptionGateway = (*Client)(nil)
)

// NewClient builds a backend client. Callers should pass a sanitized config.
func NewClient(cfg Config) (*Client, error) {
	raw := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if raw == "" {
		return nil, errors.New("backend base url is required")
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse backend base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("backend base url must be http or https, got %q", base.Scheme)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Client{
		base:      base,
		timeout:   timeout,
		userAgent: fallbackString(strings.TrimSpace(cfg.UserAgent), defaultUserAgent),
		hc:        hc,
		logger:    logger.With("component", "backend"),
		observer:  cfg.Observer,
		now:       now,
	}, nil
}

func fallbackString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// call describes a single backend request.
type call struct {
	method string
	// path is the request path; endpoint is the metric label with ids elided.
	path     string
	endpoint string
	token    string
	query    url.Values
	json     any
	form     url.Values
}

// do executes c and returns the raw response body for 2xx answers.
func (cl *Client) do(ctx context.Context, c call) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, cl.timeout)
	defer cancel()

	start := time.Now()
	status, body, err := cl.roundTrip(ctx, c)
	if err == nil && (status < 200 || status >= 300) {
		err = errorFromResponse(status, body)
	}
	if cl.observer != nil {
		cl.observer.BackendCall(c.method, c.endpointLabel(), status, time.Since(start), err)
	}
	if err != nil {
		cl.logger.DebugContext(ctx, "backend call failed",
			"method", c.method,
			"endpoint", c.endpointLabel(),
			"status", status,
			"error", err,
		)
		return nil, err
	}
	return body, nil
}

func (c call) endpointLabel() string {
	if c.endpoint != "" {
		return c.endpoint
	}
	return c.path
}

func (cl *Client) roundTrip(ctx context.Context, c call) (int, []byte, error) {
	req, err := cl.newRequest(ctx, c)
	if err != nil {
		return 0, nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "build backend request")
	}

	resp, err := cl.hc.Do(req)
	if err != nil {
		return 0, nil, transportError(err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			cl.logger.Debug("close backend response body", "error", cerr)
		}
	}()

	limit := int64(maxResponseBody)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		limit = maxErrorBody
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return resp.StatusCode, nil, transportError(err)
	}
	return resp.StatusCode, body, nil
}

func (cl *Client) newRequest(ctx context.Context, c call) (*http.Request, error) {
	u := cl.base.JoinPath(c.path)
	if len(c.query) > 0 {
		u.RawQuery = c.query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case c.form != nil:
		body = strings.NewReader(c.form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case c.json != nil:
		buf, err := json.Marshal(c.json)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(buf)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, c.method, u.String(), body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", cl.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// transportError maps network failures. Deadline expiry becomes a retryable timeout.
func transportError(err error) error {
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return apperrors.Timeout("The marketplace did not respond in time. Please try again.", err)
	}
	return apperrors.Backend(0, "Unable to reach the marketplace. Please try again.", err)
}

// errorFromResponse maps a non-2xx answer, preferring the backend's own detail message.
func errorFromResponse(status int, body []byte) error {
	msg := detailMessage(body)
	switch status {
	case http.StatusUnauthorized:
		return apperrors.Unauthenticated(fallbackString(msg, "Your session has expired. Please log in again."))
	case http.StatusForbidden:
		e := apperrors.Unauthorized(fallbackString(msg, "You are not allowed to do that."))
		e.Status = status
		return e
	case http.StatusNotFound:
		e := apperrors.NotFound(fallbackString(msg, "Not found."))
		e.Status = status
		return e
	default:
		return apperrors.Backend(status, fallbackString(msg, http.StatusText(status)), nil)
	}
}

// detailMessage extracts "detail" (string or validation list) or "message" from an error body.
func detailMessage(body []byte) string {
	var payload struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}

	if len(payload.Detail) > 0 {
		var s string
		if err := json.Unmarshal(payload.Detail, &s); err == nil && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(payload.Detail, &items); err == nil {
			msgs := make([]string, 0, len(items))
			for _, it := range items {
				if m := strings.TrimSpace(it.Msg); m != "" {
					msgs = append(msgs, m)
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "; ")
			}
		}
	}
	if m := strings.TrimSpace(payload.Message); m != "" {
		return m
	}
	return strings.TrimSpace(payload.Error)
}

// decodeJSON decodes body into out. An empty body leaves out untouched.
func decodeJSON(body []byte, out any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return apperrors.Backend(0, "The marketplace sent an unexpected response.", fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func idPath(format string, id string) string {
	return fmt.Sprintf(format, url.PathEscape(id))
}
