// Package api is the deskctl client for the support platform REST API.
//
// A single Client carries the base URL, the fixed request timeout, and the
// credential store. Every outgoing request attaches the stored access token
// as a bearer credential when one is present; a 401 response on an
// authenticated request clears the stored credentials and notifies
// session-expiry subscribers exactly once per authenticated epoch.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/opsdesk/deskctl/internal/errors"
	"github.com/opsdesk/deskctl/internal/log"
	"github.com/opsdesk/deskctl/internal/token"
)

// basePath is the fixed API version segment prepended to every endpoint
const basePath = "/api/v1"

// maxErrorBody caps how much of an error response body is read
const maxErrorBody = 64 << 10

// Client is the support platform API client
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     token.Store
	logger     *log.Logger

	// expiry latch: the session-expired event fires at most once per
	// authenticated epoch, however many in-flight requests see a 401
	mu           sync.Mutex
	expiredFired bool
	expiredSubs  []func()
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (used by tests)
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the client logger
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a platform API client.
//
// The timeout applies to every request; on expiry the caller sees a
// network-classified error, never a silent hang.
func NewClient(baseURL string, timeout time.Duration, tokens token.Store, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		tokens: tokens,
		logger: log.DefaultLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tokens returns the credential store the client reads from
func (c *Client) Tokens() token.Store {
	return c.tokens
}

// SubscribeSessionExpired registers a callback invoked when an
// authenticated request is rejected with 401. The transport layer publishes
// the event; the navigation owner subscribes and performs the reset, so the
// client never touches UI internals.
func (c *Client) SubscribeSessionExpired(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.expiredSubs = append(c.expiredSubs, fn)
}

// ResetExpiryLatch re-arms the session-expired event. Called after a new
// login establishes a fresh authenticated epoch.
func (c *Client) ResetExpiryLatch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.expiredFired = false
}

// fireSessionExpired clears credentials and notifies subscribers once.
// Concurrent 401s race to the latch; losers return without side effects.
func (c *Client) fireSessionExpired(ctx context.Context) {
	c.mu.Lock()
	if c.expiredFired {
		c.mu.Unlock()
		return
	}
	c.expiredFired = true
	subs := make([]func(), len(c.expiredSubs))
	copy(subs, c.expiredSubs)
	c.mu.Unlock()

	if err := c.tokens.ClearAll(ctx); err != nil {
		c.logger.Warn("failed to clear credentials after session expiry", "error", err.Error())
	}
	c.logger.Info("session expired, credentials cleared")

	for _, fn := range subs {
		fn()
	}
}

// get issues an authenticated GET request
func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.send(ctx, http.MethodGet, path, nil, "", out)
}

// postJSON issues an authenticated POST request with a JSON body
func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(errors.ErrCodeAPIEncodeFailed, "failed to encode request body", err)
	}
	return c.send(ctx, http.MethodPost, path, bytes.NewReader(data), "application/json", out)
}

// patchJSON issues an authenticated PATCH request with a JSON body
func (c *Client) patchJSON(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(errors.ErrCodeAPIEncodeFailed, "failed to encode request body", err)
	}
	return c.send(ctx, http.MethodPatch, path, bytes.NewReader(data), "application/json", out)
}

// postForm issues a POST request with a form-encoded body.
// The login endpoint speaks application/x-www-form-urlencoded, not JSON.
func (c *Client) postForm(ctx context.Context, path string, form url.Values, out any) error {
	return c.send(ctx, http.MethodPost, path, strings.NewReader(form.Encode()),
		"application/x-www-form-urlencoded", out)
}

// send performs the request and decodes the response into out.
//
// Token retrieval failure is not fatal: the request proceeds without a
// bearer header and the platform decides whether it is acceptable.
func (c *Client) send(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+basePath+path, body)
	if err != nil {
		return errors.Wrap(errors.ErrCodeAPIRequestFailed, "failed to create request", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	access, hasToken := c.tokens.Access(ctx)
	if hasToken {
		req.Header.Set("Authorization", "Bearer "+access)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(errors.ErrCodeAPIRequestFailed,
			fmt.Sprintf("request failed: %s %s", method, path), err).
			WithSuggestion("Check your network connection").
			WithSuggestion("Verify the platform URL with 'deskctl config view'")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := c.classify(resp, method, path)
		// 401 on a request that carried a token means the session is
		// gone; 401 without a token is an ordinary credential failure
		// (e.g. a bad login) and must not tear the session down.
		if resp.StatusCode == http.StatusUnauthorized && hasToken {
			c.fireSessionExpired(ctx)
		}
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return errors.Wrap(errors.ErrCodeAPIDecodeFailed,
				fmt.Sprintf("failed to decode response: %s %s", method, path), err)
		}
	}

	return nil
}

// errorBody is the platform's error response shape. Validation failures
// carry a per-field errors map; everything else carries detail or message.
type errorBody struct {
	Detail  string              `json:"detail"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

// classify maps a non-2xx response onto the client error taxonomy
func (c *Client) classify(resp *http.Response, method, path string) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var body errorBody
	_ = json.Unmarshal(raw, &body)

	detail := body.Detail
	if detail == "" {
		detail = body.Message
	}
	if detail == "" {
		detail = strings.TrimSpace(string(raw))
	}
	if detail == "" {
		detail = http.StatusText(resp.StatusCode)
	}

	c.logger.Debug("request rejected",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
	)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return errors.New(errors.ErrCodeAPIUnauthorized, detail)
	case resp.StatusCode == http.StatusForbidden:
		return errors.New(errors.ErrCodeAPIForbidden, detail)
	case resp.StatusCode == http.StatusNotFound:
		return errors.New(errors.ErrCodeAPINotFound, detail)
	case resp.StatusCode == http.StatusUnprocessableEntity, resp.StatusCode == http.StatusBadRequest:
		return errors.New(errors.ErrCodeAPIValidation, joinFieldErrors(detail, body.Errors))
	case resp.StatusCode >= 500:
		return errors.New(errors.ErrCodeAPIServerFault,
			fmt.Sprintf("server error (%d): %s", resp.StatusCode, detail))
	default:
		return errors.New(errors.ErrCodeAPIRequestFailed,
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, detail))
	}
}

// joinFieldErrors flattens a per-field error map into a readable message
func joinFieldErrors(detail string, fields map[string][]string) string {
	if len(fields) == 0 {
		return detail
	}

	parts := make([]string, 0, len(fields))
	for field, msgs := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(msgs, "; ")))
	}
	// Deterministic order for display and tests
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}
