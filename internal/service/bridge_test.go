package service

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/smallbiznis/mobile-auth-proxy/internal/classify"
	"github.com/smallbiznis/mobile-auth-proxy/internal/config"
	"github.com/smallbiznis/mobile-auth-proxy/internal/domain"
)

func testConfig() config.Config {
	return config.Config{
		ServiceName:        "mobile-auth-proxy",
		PublicURL:          "http://localhost:8055",
		AppScheme:          "app",
		AppCallbackPath:    "/auth/callback",
		GoogleCallbackPath: "/auth/callback/google",
		SessionCookieName:  "session_token",
		CookieSecure:       true,
		CookieSameSite:     http.SameSiteLaxMode,
	}
}

// fakePrimaryClient stands in for the primary backend in service tests.
type fakePrimaryClient struct {
	identity   *domain.UserIdentity
	resolveErr error
	logoutErr  error

	sessionCalls int
	bearerCalls  int
	logoutCalls  int
}

func (f *fakePrimaryClient) CurrentUserFromSession(context.Context, string) (*domain.UserIdentity, error) {
	f.sessionCalls++
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	return f.identity, nil
}

func (f *fakePrimaryClient) CurrentUserFromBearer(context.Context, string) (*domain.UserIdentity, error) {
	f.bearerCalls++
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	return f.identity, nil
}

func (f *fakePrimaryClient) Logout(context.Context, string) error {
	f.logoutCalls++
	return f.logoutErr
}

func testIdentity() *domain.UserIdentity {
	return &domain.UserIdentity{ID: "u1", Email: "a@b.com", FirstName: "Ada"}
}

func TestBridgeCallbackBrowserRedirect(t *testing.T) {
	primary := &fakePrimaryClient{identity: testIdentity()}
	bridge := NewBridgeService(testConfig(), primary, zap.NewNop())

	resp := bridge.BridgeCallback(context.Background(), CallbackRequest{
		Credential:   "tok-123",
		Class:        classify.Browser,
		Provider:     ProviderKeycloak,
		RedirectHint: "/dashboard",
	})

	require.Equal(t, http.StatusFound, resp.Status)
	require.Equal(t, "/dashboard", resp.RedirectTo)
	require.NotNil(t, resp.Cookie)
	require.Equal(t, "session_token", resp.Cookie.Name)
	require.Equal(t, "tok-123", resp.Cookie.Value)
	require.True(t, resp.Cookie.HttpOnly)
	require.True(t, resp.Cookie.Secure)
	require.Equal(t, http.SameSiteLaxMode, resp.Cookie.SameSite)
	require.Equal(t, "/", resp.Cookie.Path)
	require.Equal(t, 7*24*60*60, resp.Cookie.MaxAge)
}

func TestBridgeCallbackBrowserDefaultsToRoot(t *testing.T) {
	primary := &fakePrimaryClient{identity: testIdentity()}
	bridge := NewBridgeService(testConfig(), primary, zap.NewNop())

	resp := bridge.BridgeCallback(context.Background(), CallbackRequest{
		Credential: "tok-123",
		Class:      classify.Browser,
		Provider:   ProviderKeycloak,
	})

	require.Equal(t, "/", resp.RedirectTo)
}

func TestBridgeCallbackNativeDeepLink(t *testing.T) {
	primary := &fakePrimaryClient{identity: testIdentity()}
	bridge := NewBridgeService(testConfig(), primary, zap.NewNop())

	resp := bridge.BridgeCallback(context.Background(), CallbackRequest{
		Credential: "tok-123",
		Class:      classify.NativeApp,
		Provider:   ProviderKeycloak,
	})

	require.Equal(t, http.StatusFound, resp.Status)
	require.Nil(t, resp.Cookie)
	require.True(t, strings.HasPrefix(resp.RedirectTo, "app:///auth/callback?"), resp.RedirectTo)

	link, err := url.Parse(resp.RedirectTo)
	require.NoError(t, err)
	require.Equal(t, "app", link.Scheme)
	require.Equal(t, "/auth/callback", link.Path)

	q := link.Query()
	require.Equal(t, "tok-123", q.Get("access_token"))
	require.Equal(t, "u1", q.Get("user_id"))
	require.Equal(t, "a@b.com", q.Get("email"))
	require.Empty(t, q.Get("provider"))
}

func TestBridgeCallbackGoogleNativeDeepLink(t *testing.T) {
	primary := &fakePrimaryClient{identity: testIdentity()}
	bridge := NewBridgeService(testConfig(), primary, zap.NewNop())

	resp := bridge.BridgeCallback(context.Background(), CallbackRequest{
		Credential: "tok-123",
		Class:      classify.NativeApp,
		Provider:   ProviderGoogle,
	})

	link, err := url.Parse(resp.RedirectTo)
	require.NoError(t, err)
	require.Equal(t, "/auth/callback/google", link.Path)
	require.Equal(t, "google", link.Query().Get("provider"))
}

func TestBridgeCallbackGoogleBrowserInterstitial(t *testing.T) {
	primary := &fakePrimaryClient{identity: testIdentity()}
	bridge := NewBridgeService(testConfig(), primary, zap.NewNop())

	resp := bridge.BridgeCallback(context.Background(), CallbackRequest{
		Credential:   "tok-123",
		Class:        classify.Browser,
		Provider:     ProviderGoogle,
		RedirectHint: "/dashboard",
	})

	require.Equal(t, http.StatusOK, resp.Status)
	require.Empty(t, resp.RedirectTo)
	require.NotNil(t, resp.Cookie)
	require.Contains(t, resp.HTML, "Welcome, Ada!")
	require.Contains(t, resp.HTML, "/dashboard")
	require.Contains(t, resp.HTML, `http-equiv="refresh"`)
}

func TestBridgeCallbackMissingCredential(t *testing.T) {
	primary := &fakePrimaryClient{identity: testIdentity()}
	bridge := NewBridgeService(testConfig(), primary, zap.NewNop())

	resp := bridge.BridgeCallback(context.Background(), CallbackRequest{
		Class:    classify.Browser,
		Provider: ProviderKeycloak,
	})

	require.Equal(t, http.StatusOK, resp.Status)
	require.Empty(t, resp.RedirectTo)
	require.Nil(t, resp.Cookie)
	require.Contains(t, resp.HTML, "Authentication Failed")
	require.Contains(t, resp.HTML, "http://localhost:8055/auth/login/keycloak")
	require.Zero(t, primary.sessionCalls)
}

func TestBridgeCallbackResolutionFailure(t *testing.T) {
	primary := &fakePrimaryClient{resolveErr: domain.ErrAuthResolution}
	bridge := NewBridgeService(testConfig(), primary, zap.NewNop())

	resp := bridge.BridgeCallback(context.Background(), CallbackRequest{
		Credential: "expired",
		Class:      classify.Browser,
		Provider:   ProviderGoogle,
	})

	require.Equal(t, http.StatusInternalServerError, resp.Status)
	require.Empty(t, resp.RedirectTo)
	require.Contains(t, resp.HTML, "Try Again")
	require.Contains(t, resp.HTML, "http://localhost:8055/auth/login/google")
}
