// Package api is the HTTP/JSON transport to the ProoF backend.
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
	"go.uber.org/zap"
)

const (
	authPrefix  = "/auth/"
	refreshPath = authPrefix + "refresh"
)

// Credentials is the part of the session the transport needs.
type Credentials interface {
	AccessToken() string
	RefreshToken() string
	UserID() string
	SetAccessToken(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// Client sends requests to the backend and decodes its response envelope.
type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      Credentials
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for failed requests.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New returns a Client for baseURL. creds may be nil for anonymous use.
func New(baseURL string, creds Credentials, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		creds:      creds,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// envelope is the backend's standard response shape.
type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Message string `json:"message"`
	Detail  any    `json:"detail"`
}

// Get issues a GET with optional query parameters.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Put issues a PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

// Do sends one request. out receives the envelope's data field, or the
// whole body when the response is not wrapped in an envelope. out may be nil.
//
// A 401 with a refresh token available triggers one refresh and one retry,
// except on the /auth/ endpoints where a 401 is the answer itself.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	status, raw, err := c.send(ctx, method, path, payload)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized && c.canRefresh(path) {
		if err := c.refresh(ctx); err != nil {
			return err
		}
		status, raw, err = c.send(ctx, method, path, payload)
		if err != nil {
			return err
		}
	}

	return c.decode(method, path, status, raw, out)
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte) (int, []byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.creds != nil {
		if token := c.creds.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		if userID := c.creds.UserID(); userID != "" {
			req.Header.Set("x-user-id", userID)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		if ctx.Err() != nil {
			return 0, nil, ctx.Err()
		}
		return 0, nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return 0, nil, &NetworkError{Err: fmt.Errorf("read body: %w", err)}
	}
	return resp.StatusCode, raw, nil
}

func (c *Client) decode(method, path string, status int, raw []byte, out any) error {
	var env envelope
	wrapped := len(raw) > 0 && json.Unmarshal(raw, &env) == nil

	failed := status < 200 || status >= 300 || (wrapped && env.Success != nil && !*env.Success)
	if failed {
		apiErr := &APIError{Status: status}
		if wrapped {
			if env.Error != nil {
				apiErr.Code = env.Error.Code
				apiErr.Message = env.Error.Message
			}
			if apiErr.Message == "" {
				apiErr.Message = env.Message
			}
			if apiErr.Message == "" {
				if detail, ok := env.Detail.(string); ok {
					apiErr.Message = detail
				}
			}
		}
		c.logger.Debug("backend error",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.String("code", apiErr.Code))
		return apiErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}

	data := raw
	if wrapped && env.Success != nil {
		data = env.Data
		if len(data) == 0 || string(data) == "null" {
			return nil
		}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) canRefresh(path string) bool {
	if strings.HasPrefix(path, authPrefix) {
		return false
	}
	return c.creds != nil && c.creds.RefreshToken() != ""
}

// refresh exchanges the refresh token for a new access token. A rejected
// refresh clears the stored credentials.
func (c *Client) refresh(ctx context.Context) error {
	payload, _ := json.Marshal(map[string]string{"refreshToken": c.creds.RefreshToken()})
	status, raw, err := c.send(ctx, http.MethodPost, refreshPath, payload)
	if err != nil {
		return err
	}

	var data struct {
		AccessToken string `json:"accessToken"`
	}
	if err := c.decode(http.MethodPost, refreshPath, status, raw, &data); err != nil || data.AccessToken == "" {
		c.logger.Info("token refresh rejected, clearing session", zap.Int("status", status))
		if clearErr := c.creds.Clear(ctx); clearErr != nil {
			c.logger.Warn("clear session", zap.Error(clearErr))
		}
		return ErrUnauthorized
	}

	if err := c.creds.SetAccessToken(ctx, data.AccessToken); err != nil {
		return fmt.Errorf("store refreshed token: %w", err)
	}
	return nil
}

// IsNetwork reports whether err is a transport-level failure.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}
