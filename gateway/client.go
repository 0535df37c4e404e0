// Package gateway wraps the payment gateway HTTP API: an authenticated
// client with a normalized response envelope, a typed error taxonomy, the
// token generation flow, and the in-process token manager.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/kumusha/remitflow/config"
)

// Response is the normalized envelope every gateway call returns on success.
// Success is true iff the HTTP status was in [200,300); error statuses are
// reported as typed errors instead of populating this envelope.
type Response struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	StatusCode int             `json:"status_code"`
	Endpoint   string          `json:"endpoint"`
}

// DecodeData unmarshals the response data into v. Nil data (empty response
// body) leaves v untouched.
func (r *Response) DecodeData(v interface{}) error {
	if len(r.Data) == 0 {
		return nil
	}
	return json.Unmarshal(r.Data, v)
}

// Request describes one gateway call.
type Request struct {
	Method   string
	Endpoint string
	Token    string
	Params   url.Values
	Body     interface{}

	// RequireAuth defaults to true via Client.Do; calls that opt out (login)
	// must set NoAuth.
	NoAuth bool

	// Timeout overrides the client's default per-request timeout when > 0.
	Timeout time.Duration
}

// Client executes authenticated HTTP calls against the payment gateway.
//
// The client performs no retries: retry safety differs by operation (an
// idempotent GET versus a state-mutating transaction POST), so retry policy
// belongs to the caller.
type Client struct {
	http    *http.Client
	cfg     config.GatewayConfig
	headers map[string]string
	logger  zerolog.Logger
}

// NewClient creates a gateway client.
func NewClient(cfg config.GatewayConfig, logger zerolog.Logger) *Client {
	return &Client{
		http: &http.Client{},
		cfg:  cfg,
		headers: map[string]string{
			"deviceType":   "ios",
			"Content-Type": "application/json",
			"Accept":       "application/json",
			"User-Agent":   "remitflow/1.0",
		},
		logger: logger.With().Str("component", "gateway").Logger(),
	}
}

// Do executes a gateway request and normalizes the response.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	if !req.NoAuth && req.Token == "" {
		return nil, authenticationError(req.Endpoint,
			"authentication token required; generate a token first")
	}

	endpoint := req.Endpoint
	if len(req.Params) > 0 {
		endpoint = endpoint + "?" + req.Params.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = c.cfg.RequestTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, strings.ToUpper(req.Method), endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, v := range c.headers {
		httpReq.Header.Set(k, v)
	}
	if req.Token != "" && !req.NoAuth {
		httpReq.Header.Set("Authorization", "Bearer "+req.Token)
	}

	c.logger.Debug().
		Str("method", httpReq.Method).
		Str("endpoint", req.Endpoint).
		Msg("gateway request")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &Error{
				Kind:     KindTimeout,
				Message:  fmt.Sprintf("gateway did not respond within %s", timeout),
				Endpoint: req.Endpoint,
			}
		}
		return nil, &Error{
			Kind:     KindNetwork,
			Message:  fmt.Sprintf("unable to reach payment gateway: %v", err),
			Endpoint: req.Endpoint,
		}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{
			Kind:     KindNetwork,
			Message:  fmt.Sprintf("read response body: %v", err),
			Endpoint: req.Endpoint,
		}
	}

	c.logger.Debug().
		Int("status", resp.StatusCode).
		Str("endpoint", req.Endpoint).
		Msg("gateway response")

	return c.normalize(resp, raw, req.Endpoint)
}

// normalize converts an HTTP response into the envelope or a typed error.
func (c *Client) normalize(resp *http.Response, raw []byte, endpoint string) (*Response, error) {
	status := resp.StatusCode

	if status >= 200 && status < 300 {
		var data json.RawMessage
		trimmed := bytes.TrimSpace(raw)
		switch {
		case len(trimmed) == 0:
			// Empty bodies (e.g. 204) normalize to null data, not an error.
			data = nil
		case json.Valid(trimmed):
			data = json.RawMessage(trimmed)
		default:
			// Some gateway endpoints return plain text on success.
			wrapped, _ := json.Marshal(map[string]string{"message": string(trimmed)})
			data = wrapped
		}
		return &Response{
			Success:    true,
			Data:       data,
			StatusCode: status,
			Endpoint:   endpoint,
		}, nil
	}

	switch {
	case status == 401:
		return nil, &Error{
			Kind:       KindTokenExpired,
			Message:    "authentication failed; token may be expired, generate a new token",
			StatusCode: status,
			Endpoint:   endpoint,
		}
	case status == 400:
		message, field := parseValidationBody(raw)
		return nil, validationError(endpoint, message, field)
	case status == 404:
		return nil, &Error{
			Kind:       KindNotFound,
			Message:    "gateway endpoint not found",
			StatusCode: status,
			Endpoint:   endpoint,
		}
	case status == 429:
		retryAfter := 0
		if v := resp.Header.Get("Retry-After"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				retryAfter = n
			}
		}
		return nil, &Error{
			Kind:       KindRateLimit,
			Message:    "rate limit exceeded; wait before making more requests",
			StatusCode: status,
			Endpoint:   endpoint,
			RetryAfter: retryAfter,
		}
	case status >= 500:
		return nil, &Error{
			Kind:       KindServer,
			Message:    fmt.Sprintf("payment gateway is experiencing issues (status %d)", status),
			StatusCode: status,
			Endpoint:   endpoint,
		}
	default:
		message, _ := parseValidationBody(raw)
		return nil, &Error{
			Kind:       KindUnknown,
			Message:    message,
			StatusCode: status,
			Endpoint:   endpoint,
		}
	}
}

func parseValidationBody(raw []byte) (message, field string) {
	var body struct {
		Message string `json:"message"`
		Field   string `json:"field"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		return body.Message, body.Field
	}
	if len(bytes.TrimSpace(raw)) > 0 {
		return string(bytes.TrimSpace(raw)), ""
	}
	return "bad request", ""
}

// Get executes a GET request.
func (c *Client) Get(ctx context.Context, endpoint, token string, params url.Values) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, Endpoint: endpoint, Token: token, Params: params})
}

// Post executes a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, endpoint, token string, body interface{}) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPost, Endpoint: endpoint, Token: token, Body: body})
}

// Patch executes a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, endpoint, token string, body interface{}) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodPatch, Endpoint: endpoint, Token: token, Body: body})
}
