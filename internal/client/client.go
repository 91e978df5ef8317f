// Package client is the Go consumer of the carwash API: session lifecycle,
// the washer dashboard view with its optimistic completion patch, and the
// delayed authoritative refetch that reconciles it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// ErrNoSession is returned when a request needs a bearer token and none is set.
var ErrNoSession = errors.New("no active session, login first")

// APIError is a non-2xx response decoded from the backend's error body.
type APIError struct {
	Status               int
	Message              string
	ConfirmationRequired bool
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}

// Client talks to the backend. The session token is process-wide mutable
// state with an explicit lifecycle: Login/SetSession initialize it,
// ClearSession tears it down; nothing reads ambient storage.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// New creates a client for the given backend origin.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// SetSession installs a previously issued token.
func (c *Client) SetSession(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// ClearSession drops the token; subsequent authenticated calls fail with
// ErrNoSession until the next login.
func (c *Client) ClearSession() {
	c.SetSession("")
}

// Session returns the current token, empty when logged out.
func (c *Client) Session() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// LoginUser is the account profile returned at login.
type LoginUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	WasherID *int64 `json:"washerId,omitempty"`
}

type loginResponse struct {
	Data struct {
		Token string    `json:"token"`
		User  LoginUser `json:"user"`
	} `json:"data"`
}

// Login authenticates and installs the session token.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginUser, error) {
	body := map[string]string{"username": username, "password": password}
	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, &resp, false); err != nil {
		return nil, err
	}
	c.SetSession(resp.Data.Token)
	return &resp.Data.User, nil
}

// do performs one request. Authenticated calls attach the bearer token; any
// non-2xx status decodes into an APIError and leaves the caller's state
// untouched.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, authed bool) error {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request payload: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		token := c.Session()
		if token == "" {
			return ErrNoSession
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var decoded struct {
			Error                string `json:"error"`
			ConfirmationRequired bool   `json:"confirmationRequired"`
		}
		if json.Unmarshal(respBody, &decoded) == nil && decoded.Error != "" {
			apiErr.Message = decoded.Error
			apiErr.ConfirmationRequired = decoded.ConfirmationRequired
		}
		return apiErr
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}
	return nil
}
