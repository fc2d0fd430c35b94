package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/smallbiznis/mobile-auth-proxy/internal/adapter/broker"
	"github.com/smallbiznis/mobile-auth-proxy/internal/adapter/primary"
	"github.com/smallbiznis/mobile-auth-proxy/internal/domain"
)

// LogoutService coordinates a cross-backend logout. Each step is best-effort:
// failures are collected and logged, never surfaced to the caller. The only
// hard precondition is that a credential was supplied at all; a logout must
// never leave a client stuck holding local credentials because a remote
// administrative call failed.
type LogoutService struct {
	primary primary.Client
	broker  broker.AdminClient
	logger  *zap.Logger
}

// NewLogoutService constructs the orchestrator.
func NewLogoutService(primaryClient primary.Client, brokerClient broker.AdminClient, logger *zap.Logger) *LogoutService {
	if logger == nil {
		logger = zap.L()
	}
	return &LogoutService{primary: primaryClient, broker: brokerClient, logger: logger}
}

// stepResult is the typed outcome of one logout step.
type stepResult struct {
	name string
	ok   bool
	err  error
}

// Logout runs the logout sequence and reports which backends acknowledged.
// It returns domain.ErrMissingCredential when no credential is supplied and
// nil in every other case, regardless of partial backend failures.
func (s *LogoutService) Logout(ctx context.Context, credential string) (domain.LogoutOutcome, error) {
	if strings.TrimSpace(credential) == "" {
		return domain.LogoutOutcome{}, domain.ErrMissingCredential
	}

	var (
		outcome domain.LogoutOutcome
		steps   []stepResult
	)

	email, step := s.resolveEmail(ctx, credential)
	steps = append(steps, step)

	steps = append(steps, s.logoutPrimary(ctx, credential, &outcome))

	// Without an email there is no way to locate the broker-side account;
	// the broker steps are skipped entirely.
	if email != "" {
		steps = append(steps, s.logoutBroker(ctx, email, &outcome)...)
	}

	for _, st := range steps {
		if st.ok {
			s.logger.Info("logout step succeeded", zap.String("step", st.name))
			continue
		}
		s.logger.Warn("logout step failed", zap.String("step", st.name), zap.Error(st.err))
	}

	return outcome, nil
}

func (s *LogoutService) resolveEmail(ctx context.Context, credential string) (string, stepResult) {
	identity, err := s.primary.CurrentUserFromBearer(ctx, credential)
	if err != nil {
		return "", stepResult{name: "resolve_email", err: err}
	}
	return identity.Email, stepResult{name: "resolve_email", ok: true}
}

func (s *LogoutService) logoutPrimary(ctx context.Context, credential string, outcome *domain.LogoutOutcome) stepResult {
	if err := s.primary.Logout(ctx, credential); err != nil {
		return stepResult{name: "primary_logout", err: err}
	}
	outcome.PrimaryLoggedOut = true
	return stepResult{name: "primary_logout", ok: true}
}

// logoutBroker runs the three broker sub-steps. The admin client reports
// failures as sentinels, so an empty token or user id short-circuits the
// remaining sub-steps without failing the overall call.
func (s *LogoutService) logoutBroker(ctx context.Context, email string, outcome *domain.LogoutOutcome) []stepResult {
	adminToken := s.broker.AdminToken(ctx)
	if adminToken == "" {
		return []stepResult{{name: "broker_admin_token"}}
	}
	steps := []stepResult{{name: "broker_admin_token", ok: true}}

	userID := s.broker.UserIDByEmail(ctx, adminToken, email)
	if userID == "" {
		return append(steps, stepResult{name: "broker_user_lookup"})
	}
	outcome.BrokerUserFound = true
	steps = append(steps, stepResult{name: "broker_user_lookup", ok: true})

	if !s.broker.LogoutUser(ctx, adminToken, userID) {
		return append(steps, stepResult{name: "broker_logout"})
	}
	outcome.BrokerLoggedOut = true
	return append(steps, stepResult{name: "broker_logout", ok: true})
}
