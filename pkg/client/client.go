// client.go

// Package client is a Go SDK for the SkillX API. A Client holds the
// issued token pair and profile in memory for the life of the
// process, attaches the access token to every request, and retries
// once through a token refresh when the server answers 401. The
// server keeps no session, so Logout only clears local state.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

const defaultTimeout = 15 * time.Second

type Client struct {
	baseURL string
	http    *http.Client

	mu           sync.Mutex
	accessToken  string
	refreshToken string
	user         *User
}

type Option func(*Client)

// WithHTTPClient replaces the underlying transport, for tests or
// custom timeouts.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.http = httpClient
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// RegisterUser creates a client account and starts a session with the
// returned token pair.
func (c *Client) RegisterUser(ctx context.Context, params RegisterParams) (*User, error) {
	return c.register(ctx, "/api/auth/register-user", params)
}

// RegisterAdmin creates an admin account. The first admin registered
// against an empty system comes back with the super_admin role.
func (c *Client) RegisterAdmin(ctx context.Context, params RegisterParams) (*User, error) {
	return c.register(ctx, "/api/auth/register-admin", params)
}

func (c *Client) register(ctx context.Context, path string, params RegisterParams) (*User, error) {
	var payload authPayload
	if err := c.call(ctx, http.MethodPost, path, nil, params, &payload); err != nil {
		return nil, err
	}

	c.storeSession(payload.User, payload.Tokens)
	return payload.User, nil
}

// Login authenticates and stores the session. Role hints the surface
// being signed into: "admin" insists on an admin-class account,
// "user" on a client account, empty accepts any.
func (c *Client) Login(ctx context.Context, email, password, role string) (*User, error) {
	req := loginRequest{Email: email, Password: password, Role: role}

	var payload authPayload
	if err := c.call(ctx, http.MethodPost, "/api/auth/login", nil, req, &payload); err != nil {
		return nil, err
	}

	c.storeSession(payload.User, payload.Tokens)
	return payload.User, nil
}

// Refresh trades the stored refresh token for a new pair.
func (c *Client) Refresh(ctx context.Context) error {
	c.mu.Lock()
	token := c.refreshToken
	c.mu.Unlock()

	if token == "" {
		return &APIError{
			Status:  http.StatusBadRequest,
			Code:    "MISSING_REFRESH_TOKEN",
			Message: "no refresh token held",
		}
	}

	var pair TokenPair
	err := c.call(ctx, http.MethodPost, "/api/auth/refresh", nil, refreshRequest{RefreshToken: token}, &pair)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.accessToken = pair.AccessToken
	c.refreshToken = pair.RefreshToken
	c.mu.Unlock()

	return nil
}

// Logout discards the local session. The tokens themselves stay valid
// until expiry; the server holds nothing to invalidate.
func (c *Client) Logout() {
	c.mu.Lock()
	c.accessToken = ""
	c.refreshToken = ""
	c.user = nil
	c.mu.Unlock()
}

// CurrentUser returns the profile captured at login or registration,
// or nil when no session is held.
func (c *Client) CurrentUser() *User {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.user == nil {
		return nil
	}
	copied := *c.user
	return &copied
}

// Authenticated reports whether the client currently holds tokens.
func (c *Client) Authenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken != ""
}

// Me fetches the live profile behind the authentication gate and
// refreshes the stored copy.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if _, err := c.authedCall(ctx, http.MethodGet, "/api/auth/me", nil, nil, &user); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.user = &user
	c.mu.Unlock()

	return &user, nil
}

// call issues an unauthenticated request and decodes the envelope
// data into out.
func (c *Client) call(
	ctx context.Context,
	method, path string,
	query url.Values,
	body, out any,
) error {
	_, err := c.send(ctx, method, path, query, "", body, out)
	return err
}

// authedCall attaches the held access token. On 401 it refreshes once
// and retries; if the refresh fails too, the session is cleared and
// the original denial is returned.
func (c *Client) authedCall(
	ctx context.Context,
	method, path string,
	query url.Values,
	body, out any,
) (*Pagination, error) {
	c.mu.Lock()
	token := c.accessToken
	hasRefresh := c.refreshToken != ""
	c.mu.Unlock()

	if token == "" {
		return nil, &APIError{
			Status:  http.StatusUnauthorized,
			Code:    "NOT_AUTHENTICATED",
			Message: "no session held",
		}
	}

	page, err := c.send(ctx, method, path, query, token, body, out)
	if err == nil {
		return page, nil
	}

	apiErr, ok := err.(*APIError)
	if !ok || apiErr.Status != http.StatusUnauthorized || !hasRefresh {
		return nil, err
	}

	if refreshErr := c.Refresh(ctx); refreshErr != nil {
		c.Logout()
		return nil, err
	}

	c.mu.Lock()
	token = c.accessToken
	c.mu.Unlock()

	return c.send(ctx, method, path, query, token, body, out)
}

// send marshals body per attempt, performs the request, and decodes
// the response envelope. Non-success envelopes come back as APIError.
func (c *Client) send(
	ctx context.Context,
	method, path string,
	query url.Values,
	token string,
	body, out any,
) (*Pagination, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if !env.Success {
		return nil, &APIError{
			Status:  resp.StatusCode,
			Code:    env.ErrorCode,
			Message: env.Message,
		}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("decode response data: %w", err)
		}
	}

	return env.Pagination, nil
}

func (c *Client) storeSession(user *User, tokens *TokenPair) {
	if tokens == nil {
		return
	}

	c.mu.Lock()
	c.accessToken = tokens.AccessToken
	c.refreshToken = tokens.RefreshToken
	c.user = user
	c.mu.Unlock()
}

func intQuery(values url.Values, key string, value int) {
	if value > 0 {
		values.Set(key, strconv.Itoa(value))
	}
}
