package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/smallbiznis/mobile-auth-proxy/internal/domain"
)

// fakeBroker records which admin operations were attempted.
type fakeBroker struct {
	token    string
	userID   string
	logoutOK bool

	tokenCalls  int
	lookupCalls int
	logoutCalls int
}

func (f *fakeBroker) AdminToken(context.Context) string {
	f.tokenCalls++
	return f.token
}

func (f *fakeBroker) UserIDByEmail(context.Context, string, string) string {
	f.lookupCalls++
	return f.userID
}

func (f *fakeBroker) LogoutUser(context.Context, string, string) bool {
	f.logoutCalls++
	return f.logoutOK
}

func TestLogoutHappyPath(t *testing.T) {
	primary := &fakePrimaryClient{identity: testIdentity()}
	brokerClient := &fakeBroker{token: "admin-tok", userID: "kc-1", logoutOK: true}
	svc := NewLogoutService(primary, brokerClient, zap.NewNop())

	outcome, err := svc.Logout(context.Background(), "tok-123")
	require.NoError(t, err)
	require.True(t, outcome.PrimaryLoggedOut)
	require.True(t, outcome.BrokerUserFound)
	require.True(t, outcome.BrokerLoggedOut)
	require.Equal(t, 1, primary.bearerCalls)
	require.Equal(t, 1, primary.logoutCalls)
	require.Equal(t, 1, brokerClient.logoutCalls)
}

func TestLogoutMissingCredential(t *testing.T) {
	primary := &fakePrimaryClient{identity: testIdentity()}
	brokerClient := &fakeBroker{}
	svc := NewLogoutService(primary, brokerClient, zap.NewNop())

	_, err := svc.Logout(context.Background(), "  ")
	require.ErrorIs(t, err, domain.ErrMissingCredential)
	require.Zero(t, primary.bearerCalls)
	require.Zero(t, primary.logoutCalls)
	require.Zero(t, brokerClient.tokenCalls)
}

func TestLogoutEmailResolutionFailureSkipsBroker(t *testing.T) {
	primary := &fakePrimaryClient{resolveErr: domain.ErrAuthResolution}
	brokerClient := &fakeBroker{token: "admin-tok", userID: "kc-1", logoutOK: true}
	svc := NewLogoutService(primary, brokerClient, zap.NewNop())

	outcome, err := svc.Logout(context.Background(), "tok-123")
	require.NoError(t, err)
	require.Zero(t, brokerClient.tokenCalls)
	// Primary logout is still attempted even though the email is unknown.
	require.Equal(t, 1, primary.logoutCalls)
	require.True(t, outcome.PrimaryLoggedOut)
	require.False(t, outcome.BrokerUserFound)
	require.False(t, outcome.BrokerLoggedOut)
}

func TestLogoutBrokerTokenFailure(t *testing.T) {
	primary := &fakePrimaryClient{identity: testIdentity()}
	brokerClient := &fakeBroker{}
	svc := NewLogoutService(primary, brokerClient, zap.NewNop())

	outcome, err := svc.Logout(context.Background(), "tok-123")
	require.NoError(t, err)
	require.Equal(t, 1, primary.logoutCalls)
	require.Equal(t, 1, brokerClient.tokenCalls)
	require.Zero(t, brokerClient.lookupCalls)
	require.False(t, outcome.BrokerLoggedOut)
}

func TestLogoutBrokerUserNotFound(t *testing.T) {
	primary := &fakePrimaryClient{identity: testIdentity()}
	brokerClient := &fakeBroker{token: "admin-tok"}
	svc := NewLogoutService(primary, brokerClient, zap.NewNop())

	outcome, err := svc.Logout(context.Background(), "tok-123")
	require.NoError(t, err)
	require.Equal(t, 1, brokerClient.lookupCalls)
	require.Zero(t, brokerClient.logoutCalls)
	require.False(t, outcome.BrokerUserFound)
	require.False(t, outcome.BrokerLoggedOut)
}

func TestLogoutPrimaryFailureIsBestEffort(t *testing.T) {
	primary := &fakePrimaryClient{identity: testIdentity(), logoutErr: domain.ErrBackendUnavailable}
	brokerClient := &fakeBroker{token: "admin-tok", userID: "kc-1", logoutOK: true}
	svc := NewLogoutService(primary, brokerClient, zap.NewNop())

	outcome, err := svc.Logout(context.Background(), "tok-123")
	require.NoError(t, err)
	require.False(t, outcome.PrimaryLoggedOut)
	require.True(t, outcome.BrokerLoggedOut)
}

func TestLogoutIdempotentOnInvalidCredential(t *testing.T) {
	// A repeated logout presents a now-invalid token: the primary rejects it,
	// which counts as already-logged-out, not as a new error.
	primary := &fakePrimaryClient{resolveErr: domain.ErrAuthResolution, logoutErr: domain.ErrAuthResolution}
	brokerClient := &fakeBroker{}
	svc := NewLogoutService(primary, brokerClient, zap.NewNop())

	for i := 0; i < 2; i++ {
		_, err := svc.Logout(context.Background(), "stale-tok")
		require.NoError(t, err)
	}
}
