package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/yakoovad/club-portal/pkg/logger"
	"go.uber.org/zap"
)

type tokenKey struct{}

// WithToken attaches the upstream bearer token used by calls made with ctx.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

// Client talks to the upstream club REST API. A single Client is shared by
// all sessions; the per-session token travels in the context.
type Client struct {
	baseURL        string
	http           *http.Client
	onUnauthorized func(ctx context.Context)
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.http = h
	return c
}

// WithUnauthorizedHook registers fn to run whenever upstream answers 401.
func (c *Client) WithUnauthorizedHook(fn func(ctx context.Context)) *Client {
	c.onUnauthorized = fn
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

type errorBody struct {
	Message json.RawMessage `json:"message"`
	Error   string          `json:"error"`
}

// message accepts both a plain string and a list of validation messages.
func (b *errorBody) message() string {
	if len(b.Message) > 0 {
		var s string
		if err := json.Unmarshal(b.Message, &s); err == nil {
			return s
		}
		var list []string
		if err := json.Unmarshal(b.Message, &list); err == nil {
			return strings.Join(list, ", ")
		}
	}
	return b.Error
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	l := logger.FromContext(ctx)

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "marshal request")
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := TokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		l.Warn("upstream request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "read response")
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var eb errorBody
		_ = json.Unmarshal(raw, &eb)
		upstreamErr := &Error{
			Kind:    kindFromStatus(resp.StatusCode),
			Status:  resp.StatusCode,
			Message: eb.message(),
		}
		l.Debug("upstream error",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", upstreamErr.Message))

		if upstreamErr.Kind == KindUnauthorized && c.onUnauthorized != nil {
			c.onUnauthorized(ctx)
		}
		return upstreamErr
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err = json.Unmarshal(raw, out); err != nil {
		return errors.Wrapf(err, "decode %s %s", method, path)
	}
	return nil
}
