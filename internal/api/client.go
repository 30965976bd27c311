package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/odo-hq/expensys/internal/api/dto"
	"github.com/odo-hq/expensys/internal/config"
	"github.com/odo-hq/expensys/internal/observability"
)

// TokenProvider supplies the bearer credential for a single request. The
// credential store is the only implementation in production, so no component
// ever holds a token copy longer than one request.
type TokenProvider interface {
	Load() (string, bool)
}

// UnauthorizedHandler is notified when the backend rejects an authenticated
// request for authorization reasons.
type UnauthorizedHandler func()

// StatusError reports a non-2xx backend response.
type StatusError struct {
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("backend returned %d", e.StatusCode)
}

// Client is the HTTP transport shared by the service layer.
type Client struct {
	baseURL        string
	http           *http.Client
	tokens         TokenProvider
	logger         *zap.Logger
	metrics        *observability.Metrics
	onUnauthorized UnauthorizedHandler
}

// NewClient constructs the transport.
func NewClient(cfg config.APIConfig, tokens TokenProvider, logger *zap.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout()},
		tokens:  tokens,
		logger:  logger,
		metrics: metrics,
	}
}

// SetUnauthorizedHandler registers the session teardown hook. It fires only
// for requests that carried a credential; a 401 from the token-issuance
// endpoint is a failed login, not a stale session.
func (c *Client) SetUnauthorizedHandler(fn UnauthorizedHandler) {
	c.onUnauthorized = fn
}

// doJSON issues a request with an optional JSON body and decodes a JSON
// response into out. Transport failures come back as-is; non-2xx responses as
// *StatusError.
func (c *Client) doJSON(ctx context.Context, operation, method, path string, body, out interface{}, authenticated bool) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, operation, out, authenticated)
}

// doForm issues a form-encoded POST, the shape the token-issuance endpoint
// requires.
func (c *Client) doForm(ctx context.Context, operation, path string, form url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.send(req, operation, out, false)
}

func (c *Client) send(req *http.Request, operation string, out interface{}, authenticated bool) error {
	if authenticated {
		if token, ok := c.tokens.Load(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.RecordError(operation, "TRANSPORT")
		c.logger.Warn("request failed", zap.String("operation", operation), zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	c.metrics.RecordRequest(operation, resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode == http.StatusUnauthorized && authenticated && c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		statusErr := &StatusError{StatusCode: resp.StatusCode, Detail: readDetail(resp.Body)}
		c.logger.Warn("request rejected",
			zap.String("operation", operation),
			zap.Int("status", resp.StatusCode))
		return statusErr
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func readDetail(body io.Reader) string {
	var envelope dto.ErrorResponse
	if err := json.NewDecoder(body).Decode(&envelope); err != nil {
		return ""
	}
	return envelope.Detail
}
