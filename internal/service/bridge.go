package service

import (
	"context"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/smallbiznis/mobile-auth-proxy/internal/adapter/primary"
	"github.com/smallbiznis/mobile-auth-proxy/internal/classify"
	"github.com/smallbiznis/mobile-auth-proxy/internal/config"
	"github.com/smallbiznis/mobile-auth-proxy/internal/domain"
)

const sessionCookieMaxAge = 7 * 24 * 60 * 60 // seconds

// BridgeService exchanges an inbound session credential into the transport
// the client class expects: a scoped cookie plus redirect for browsers, a
// deep link for native apps.
type BridgeService struct {
	cfg     config.Config
	primary primary.Client
	logger  *zap.Logger
}

// NewBridgeService constructs the bridge.
func NewBridgeService(cfg config.Config, primaryClient primary.Client, logger *zap.Logger) *BridgeService {
	if logger == nil {
		logger = zap.L()
	}
	return &BridgeService{cfg: cfg, primary: primaryClient, logger: logger}
}

// BridgeCallback handles one callback request end to end. Terminal failures
// come back as renderable responses; the handler never needs to branch on an
// error value.
func (s *BridgeService) BridgeCallback(ctx context.Context, req CallbackRequest) CallbackResponse {
	if req.Credential == "" {
		s.logger.Warn("callback without session credential",
			zap.String("provider", string(req.Provider)))
		return CallbackResponse{
			Status: http.StatusOK,
			HTML: renderPage(failurePage, struct{ LoginURL string }{
				LoginURL: s.loginURL(req.Provider),
			}),
		}
	}

	identity, err := s.primary.CurrentUserFromSession(ctx, req.Credential)
	if err != nil {
		s.logger.Error("callback identity resolution failed",
			zap.String("provider", string(req.Provider)),
			zap.Error(err))
		return CallbackResponse{
			Status: http.StatusInternalServerError,
			HTML: renderPage(errorPage, struct{ Message, LoginURL string }{
				Message:  err.Error(),
				LoginURL: s.loginURL(req.Provider),
			}),
		}
	}

	s.logger.Info("callback identity resolved",
		zap.String("provider", string(req.Provider)),
		zap.String("user_id", identity.ID),
		zap.String("class", req.Class.String()))

	if req.Class == classify.Browser {
		return s.browserResponse(req, identity)
	}
	return s.nativeResponse(req, identity)
}

// browserResponse re-issues the session cookie with the configured scope and
// sends the browser on its way. Re-issuing is required even though the
// browser already holds the cookie: it normalizes domain and flags regardless
// of which origin set it upstream.
func (s *BridgeService) browserResponse(req CallbackRequest, identity *domain.UserIdentity) CallbackResponse {
	cookie := &http.Cookie{
		Name:     s.cfg.SessionCookieName,
		Value:    req.Credential,
		Path:     "/",
		Domain:   s.cfg.CookieDomain,
		MaxAge:   sessionCookieMaxAge,
		HttpOnly: true,
		Secure:   s.cfg.CookieSecure,
		SameSite: s.cfg.CookieSameSite,
	}

	redirectTo := req.RedirectHint
	if redirectTo == "" {
		redirectTo = "/"
	}

	if req.Provider == ProviderGoogle {
		return CallbackResponse{
			Status: http.StatusOK,
			Cookie: cookie,
			HTML: renderPage(interstitialPage, struct{ DisplayName, RedirectTo string }{
				DisplayName: identity.DisplayName(),
				RedirectTo:  redirectTo,
			}),
		}
	}

	return CallbackResponse{
		Status:     http.StatusFound,
		RedirectTo: redirectTo,
		Cookie:     cookie,
	}
}

// nativeResponse hands control back to the installed app through its URI
// scheme. The credential travels in the deep link; that is acceptable only
// because the scheme is private to the app and the redirect is dispatched by
// the OS, not sent over the network.
func (s *BridgeService) nativeResponse(req CallbackRequest, identity *domain.UserIdentity) CallbackResponse {
	callbackPath := s.cfg.AppCallbackPath
	if req.Provider == ProviderGoogle {
		callbackPath = s.cfg.GoogleCallbackPath
	}

	deepLink := url.URL{Scheme: s.cfg.AppScheme, Path: callbackPath}
	q := deepLink.Query()
	q.Set("access_token", req.Credential)
	q.Set("user_id", identity.ID)
	q.Set("email", identity.Email)
	if req.Provider == ProviderGoogle {
		q.Set("provider", string(ProviderGoogle))
	}
	deepLink.RawQuery = q.Encode()

	return CallbackResponse{
		Status:     http.StatusFound,
		RedirectTo: deepLink.String(),
	}
}

func (s *BridgeService) loginURL(provider Provider) string {
	return s.cfg.PublicURL + "/auth/login/" + string(provider)
}
