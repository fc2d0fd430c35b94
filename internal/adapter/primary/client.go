// Package primary wraps outbound HTTP calls to the primary application
// backend that owns the session store.
package primary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/smallbiznis/mobile-auth-proxy/internal/domain"
)

// Client encapsulates the primary backend operations the proxy depends on.
type Client interface {
	// CurrentUserFromSession resolves the user behind a session cookie value.
	CurrentUserFromSession(ctx context.Context, credential string) (*domain.UserIdentity, error)
	// CurrentUserFromBearer resolves the user behind a bearer token.
	CurrentUserFromBearer(ctx context.Context, credential string) (*domain.UserIdentity, error)
	// Logout invalidates the session at the primary backend.
	Logout(ctx context.Context, credential string) error
}

// HTTPClient is the default HTTP implementation of Client.
type HTTPClient struct {
	baseURL    string
	cookieName string
	httpClient *http.Client
}

// NewHTTPClient constructs the default Client. A nil http.Client gets a
// 10 second timeout; no outbound call may block unbounded.
func NewHTTPClient(baseURL, cookieName string, client *http.Client) *HTTPClient {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPClient{baseURL: baseURL, cookieName: cookieName, httpClient: client}
}

// CurrentUserFromSession calls GET /users/me presenting the credential as a
// session cookie.
func (c *HTTPClient) CurrentUserFromSession(ctx context.Context, credential string) (*domain.UserIdentity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/users/me", nil)
	if err != nil {
		return nil, fmt.Errorf("build users/me request: %w", err)
	}
	req.AddCookie(&http.Cookie{Name: c.cookieName, Value: credential})
	return c.currentUser(req)
}

// CurrentUserFromBearer calls GET /users/me presenting the credential as a
// bearer token.
func (c *HTTPClient) CurrentUserFromBearer(ctx context.Context, credential string) (*domain.UserIdentity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/users/me", nil)
	if err != nil {
		return nil, fmt.Errorf("build users/me request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+credential)
	return c.currentUser(req)
}

func (c *HTTPClient) currentUser(req *http.Request) (*domain.UserIdentity, error) {
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: users/me request: %v", domain.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read users/me response: %w", err)
	}
	if resp.StatusCode >= 300 {
		// Any non-success is treated as credential invalidity regardless of
		// whether the token is malformed or merely rejected.
		return nil, fmt.Errorf("%w: users/me status=%d", domain.ErrAuthResolution, resp.StatusCode)
	}

	var payload struct {
		Data struct {
			ID        string `json:"id"`
			Email     string `json:"email"`
			FirstName string `json:"first_name"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode users/me response: %w", err)
	}

	return &domain.UserIdentity{
		ID:        payload.Data.ID,
		Email:     payload.Data.Email,
		FirstName: payload.Data.FirstName,
	}, nil
}

// Logout posts the credential to /auth/logout as both bearer auth and
// refresh token payload; the primary backend expects both.
func (c *HTTPClient) Logout(ctx context.Context, credential string) error {
	payload, err := json.Marshal(map[string]string{"refresh_token": credential})
	if err != nil {
		return fmt.Errorf("encode logout payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/logout", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build logout request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+credential)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: logout request: %v", domain.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode >= 300 {
		return fmt.Errorf("logout failed: status=%d", resp.StatusCode)
	}
	return nil
}
