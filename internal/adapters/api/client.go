package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	maxResponseBytes      = 1 << 20
	maxClipBytes          = 16 << 20
	defaultRequestTimeout = 30 * time.Second
)

// maxSessionRetries bounds the automatic recovery from a revoked session
// token: exactly one re-login and retry per logical call, then the
// failure surfaces to the caller.
const maxSessionRetries = 1

var errNoSessionSource = errors.New("client has no session source for authenticated requests")

// SessionSource supplies bearer tokens for authenticated calls. A token
// request may itself provision an account and log in; invalidation
// forces the next token request to re-login.
type SessionSource interface {
	SessionToken(ctx context.Context) (string, error)
	InvalidateSession(ctx context.Context) error
}

// Client executes calls against the game API. All server interactions
// in the program flow through it: it injects credentials, recovers from
// revoked sessions, and normalizes failures into *Error values.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	requestTimeout time.Duration
	sessions       SessionSource
	newRequestID   func() string
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

func WithRequestTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.requestTimeout = timeout
		}
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:        baseURL,
		httpClient:     http.DefaultClient,
		requestTimeout: defaultRequestTimeout,
		newRequestID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// UseSessionSource attaches the session source after construction. The
// source itself issues unauthenticated calls through this client, so the
// two are wired in both directions.
func (c *Client) UseSessionSource(sessions SessionSource) {
	c.sessions = sessions
}

type requestOptions struct {
	body            any
	query           url.Values
	unauthenticated bool
	// maxBody bounds the buffered response body; zero means the default
	// JSON limit.
	maxBody int64
}

// response is a fully buffered API response. The body is read while the
// per-request timeout context is still alive; handing a live body up
// would let the deferred cancel close it under the decoder.
type response struct {
	status int
	body   []byte
}

// do issues one logical API call. Authenticated calls obtain a session
// token first; a 401 response invalidates the stored token and retries
// once with a fresh login before giving up.
func (c *Client) do(ctx context.Context, method string, path string, opts requestOptions) (response, error) {
	endpoint, err := buildAPIURL(c.baseURL, path, opts.query)
	if err != nil {
		return response{}, err
	}

	var body []byte
	if opts.body != nil {
		body, err = json.Marshal(opts.body)
		if err != nil {
			return response{}, fmt.Errorf("encode request body: %w", err)
		}
	}
	maxBody := opts.maxBody
	if maxBody == 0 {
		maxBody = maxResponseBytes
	}

	requestID := c.newRequestID()
	for attempt := 0; ; attempt++ {
		var token string
		if !opts.unauthenticated {
			if c.sessions == nil {
				return response{}, errNoSessionSource
			}
			token, err = c.sessions.SessionToken(ctx)
			if err != nil {
				return response{}, fmt.Errorf("obtain session token: %w", err)
			}
		}

		resp, err := c.doOnce(ctx, method, endpoint, body, token, requestID, maxBody)
		if err != nil {
			return response{}, err
		}

		if resp.status == http.StatusUnauthorized && !opts.unauthenticated && attempt < maxSessionRetries {
			if err := c.sessions.InvalidateSession(ctx); err != nil {
				return response{}, fmt.Errorf("invalidate revoked session: %w", err)
			}
			continue
		}

		if resp.status < http.StatusOK || resp.status >= http.StatusMultipleChoices {
			return response{}, newStatusError(resp.status, resp.body)
		}

		return resp, nil
	}
}

func (c *Client) doOnce(ctx context.Context, method string, endpoint string, body []byte, token string, requestID string, maxBody int64) (response, error) {
	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(requestCtx, method, endpoint, reader)
	if err != nil {
		return response{}, fmt.Errorf("create %s %s request: %w", method, endpoint, err)
	}
	req.Header.Set("X-Request-Id", requestID)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return response{}, fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return response{}, fmt.Errorf("%s %s: read response body: %w", method, endpoint, err)
	}

	return response{status: resp.StatusCode, body: payload}, nil
}

func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, c.requestTimeout)
}

func decodeJSON(resp response, target any) error {
	if err := json.Unmarshal(resp.body, target); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}

	return nil
}

func buildAPIURL(baseURL string, path string, query url.Values) (string, error) {
	if baseURL == "" {
		return "", errors.New("api base url is required")
	}
	if path == "" {
		return "", errors.New("api path is required")
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("api base url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("api base url host is required")
	}

	endpoint := *parsed
	endpoint.Path = strings.TrimSuffix(parsed.Path, "/") + "/" + strings.TrimPrefix(path, "/")
	if len(query) > 0 {
		endpoint.RawQuery = query.Encode()
	}

	return endpoint.String(), nil
}
