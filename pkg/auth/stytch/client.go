package stytch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	liveBaseURL = "https://api.stytch.com/v1"
	testBaseURL = "https://test.stytch.com/v1"

	// Stytch sessions run 30 days, matching the auth cookie max age.
	SessionDurationMinutes = 60 * 24 * 30
)

var (
	// ErrInvalidCredentials means the email/password pair was rejected.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidSessionToken means the session JWT is expired or revoked.
	ErrInvalidSessionToken = errors.New("invalid session token")
)

// SessionData carries the identity-provider session issued on register/login
// and refreshed on each authenticated request.
type SessionData struct {
	SessionJWT   string
	SessionToken string
	StytchUserID string
}

// Client is an explicitly owned handle to the Stytch REST API. It holds its
// own http.Client; lifecycle is tied to process start/stop via Close.
type Client struct {
	baseURL    string
	projectID  string
	secret     string
	httpClient *http.Client
}

func NewClient(projectID, secret string, isProd bool) *Client {
	baseURL := testBaseURL
	if isProd {
		baseURL = liveBaseURL
	}
	return &Client{
		baseURL:   baseURL,
		projectID: projectID,
		secret:    secret,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// WithBaseURL overrides the API endpoint. Used by tests.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

// Close releases idle connections held by the client.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// --- API shapes (internal) ---

type passwordRequest struct {
	Email                  string `json:"email"`
	Password               string `json:"password"`
	SessionDurationMinutes int    `json:"session_duration_minutes"`
}

type passwordCreateResponse struct {
	UserID       string `json:"user_id"`
	SessionJWT   string `json:"session_jwt"`
	SessionToken string `json:"session_token"`
}

type passwordAuthenticateResponse struct {
	UserID     string `json:"user_id"`
	SessionJWT string `json:"session_jwt"`
	Session    struct {
		SessionID string `json:"session_id"`
	} `json:"session"`
}

type sessionAuthenticateRequest struct {
	SessionJWT string `json:"session_jwt"`
}

type sessionAuthenticateResponse struct {
	SessionJWT string `json:"session_jwt"`
	Session    struct {
		SessionID string `json:"session_id"`
		UserID    string `json:"user_id"`
	} `json:"session"`
}

type sessionRevokeRequest struct {
	SessionJWT string `json:"session_jwt"`
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) (int, []byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewBuffer(body))
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.projectID, c.secret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("stytch request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, respBody, nil
}

// CreatePasswordUser registers a new identity-provider user and starts a session.
func (c *Client) CreatePasswordUser(ctx context.Context, email, password string) (*SessionData, error) {
	status, body, err := c.post(ctx, "/passwords", passwordRequest{
		Email:                  email,
		Password:               password,
		SessionDurationMinutes: SessionDurationMinutes,
	})
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return nil, fmt.Errorf("stytch password create: status %d, body: %s", status, string(body))
	}

	var parsed passwordCreateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return &SessionData{
		SessionJWT:   parsed.SessionJWT,
		SessionToken: parsed.SessionToken,
		StytchUserID: parsed.UserID,
	}, nil
}

// AuthenticatePassword verifies an email/password pair and starts a session.
func (c *Client) AuthenticatePassword(ctx context.Context, email, password string) (*SessionData, error) {
	status, body, err := c.post(ctx, "/passwords/authenticate", passwordRequest{
		Email:                  email,
		Password:               password,
		SessionDurationMinutes: SessionDurationMinutes,
	})
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized || status == http.StatusBadRequest || status == http.StatusNotFound {
		return nil, ErrInvalidCredentials
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("stytch password authenticate: status %d, body: %s", status, string(body))
	}

	var parsed passwordAuthenticateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return &SessionData{
		SessionJWT:   parsed.SessionJWT,
		SessionToken: parsed.Session.SessionID,
		StytchUserID: parsed.UserID,
	}, nil
}

// AuthenticateJWT validates a session JWT against Stytch and returns the
// (possibly refreshed) session.
func (c *Client) AuthenticateJWT(ctx context.Context, sessionJWT string) (*SessionData, error) {
	status, body, err := c.post(ctx, "/sessions/authenticate", sessionAuthenticateRequest{
		SessionJWT: sessionJWT,
	})
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized || status == http.StatusBadRequest || status == http.StatusNotFound {
		return nil, ErrInvalidSessionToken
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("stytch session authenticate: status %d, body: %s", status, string(body))
	}

	var parsed sessionAuthenticateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return &SessionData{
		SessionJWT:   parsed.SessionJWT,
		SessionToken: parsed.Session.SessionID,
		StytchUserID: parsed.Session.UserID,
	}, nil
}

// RevokeSession ends the session carried by the JWT. Best effort on logout.
func (c *Client) RevokeSession(ctx context.Context, sessionJWT string) error {
	status, body, err := c.post(ctx, "/sessions/revoke", sessionRevokeRequest{
		SessionJWT: sessionJWT,
	})
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("stytch session revoke: status %d, body: %s", status, string(body))
	}
	return nil
}
