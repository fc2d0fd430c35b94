// Package broker wraps the identity broker's administrative API. Every
// operation swallows its own failures and reports a sentinel value instead;
// broker unavailability must degrade the logout flow, not abort it.
package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// AdminClient exposes the three broker operations the logout flow needs.
type AdminClient interface {
	// AdminToken obtains an admin-scoped access token, or "" on any failure.
	AdminToken(ctx context.Context) string
	// UserIDByEmail resolves a broker user id by email, or "" when the lookup
	// fails or finds no account. Multiple accounts sharing an email resolve
	// to the first result in the broker's own ordering.
	UserIDByEmail(ctx context.Context, adminToken, email string) string
	// LogoutUser invalidates every broker session for the user id. A 204
	// response counts as success.
	LogoutUser(ctx context.Context, adminToken, userID string) bool
}

// Config carries the static admin credentials for the password grant.
type Config struct {
	BaseURL       string
	Realm         string
	AdminUser     string
	AdminPassword string
	ClientID      string
}

// HTTPAdminClient is the default HTTP implementation of AdminClient.
type HTTPAdminClient struct {
	cfg        Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewHTTPAdminClient constructs the default AdminClient. A nil http.Client
// gets a 10 second timeout.
func NewHTTPAdminClient(cfg Config, client *http.Client, logger *zap.Logger) *HTTPAdminClient {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = zap.L()
	}
	return &HTTPAdminClient{cfg: cfg, httpClient: client, logger: logger}
}

// AdminToken performs a password grant against the broker's token endpoint.
func (c *HTTPAdminClient) AdminToken(ctx context.Context) string {
	token, err := c.adminToken(ctx)
	if err != nil {
		c.logger.Error("broker admin token request failed", zap.Error(err))
		return ""
	}
	return token
}

func (c *HTTPAdminClient) adminToken(ctx context.Context) (string, error) {
	data := url.Values{}
	data.Set("grant_type", "password")
	data.Set("client_id", c.cfg.ClientID)
	data.Set("username", c.cfg.AdminUser)
	data.Set("password", c.cfg.AdminPassword)

	endpoint := c.cfg.BaseURL + "/realms/master/protocol/openid-connect/token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(data.Encode()))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read token response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("token grant failed: status=%d", resp.StatusCode)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("token response missing access_token")
	}
	return payload.AccessToken, nil
}

// UserIDByEmail queries the broker's user search endpoint.
func (c *HTTPAdminClient) UserIDByEmail(ctx context.Context, adminToken, email string) string {
	id, err := c.userIDByEmail(ctx, adminToken, email)
	if err != nil {
		c.logger.Error("broker user lookup failed", zap.Error(err))
		return ""
	}
	return id
}

func (c *HTTPAdminClient) userIDByEmail(ctx context.Context, adminToken, email string) (string, error) {
	endpoint := fmt.Sprintf("%s/admin/realms/%s/users?email=%s",
		c.cfg.BaseURL, c.cfg.Realm, url.QueryEscape(email))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build user search request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+adminToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("user search request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read user search response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("user search failed: status=%d", resp.StatusCode)
	}

	var users []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &users); err != nil {
		return "", fmt.Errorf("decode user search response: %w", err)
	}
	if len(users) == 0 {
		return "", nil
	}
	return users[0].ID, nil
}

// LogoutUser triggers broker-side session invalidation.
func (c *HTTPAdminClient) LogoutUser(ctx context.Context, adminToken, userID string) bool {
	endpoint := fmt.Sprintf("%s/admin/realms/%s/users/%s/logout",
		c.cfg.BaseURL, c.cfg.Realm, url.PathEscape(userID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		c.logger.Error("broker logout request build failed", zap.Error(err))
		return false
	}
	req.Header.Set("Authorization", "Bearer "+adminToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("broker logout request failed", zap.Error(err))
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	return resp.StatusCode < 300 || resp.StatusCode == http.StatusNoContent
}
