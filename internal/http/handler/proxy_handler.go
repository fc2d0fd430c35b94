package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/smallbiznis/mobile-auth-proxy/internal/classify"
	"github.com/smallbiznis/mobile-auth-proxy/internal/config"
	"github.com/smallbiznis/mobile-auth-proxy/internal/domain"
	"github.com/smallbiznis/mobile-auth-proxy/internal/service"
)

// ProxyHandler exposes the callback and logout endpoints.
type ProxyHandler struct {
	cfg    config.Config
	bridge *service.BridgeService
	logout *service.LogoutService
}

// NewProxyHandler creates the handler set.
func NewProxyHandler(cfg config.Config, bridge *service.BridgeService, logout *service.LogoutService) *ProxyHandler {
	return &ProxyHandler{cfg: cfg, bridge: bridge, logout: logout}
}

// Health reports liveness.
func (h *ProxyHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": h.cfg.ServiceName})
}

// MobileCallback bridges the default provider callback.
func (h *ProxyHandler) MobileCallback(c *gin.Context) {
	h.handleCallback(c, service.ProviderKeycloak)
}

// GoogleCallback bridges the Google provider callback.
func (h *ProxyHandler) GoogleCallback(c *gin.Context) {
	h.handleCallback(c, service.ProviderGoogle)
}

func (h *ProxyHandler) handleCallback(c *gin.Context, provider service.Provider) {
	class := classify.Classify(c.Query("type"), c.Request.UserAgent())

	credential, err := c.Cookie(h.cfg.SessionCookieName)
	if err != nil {
		credential = ""
	}

	resp := h.bridge.BridgeCallback(c.Request.Context(), service.CallbackRequest{
		Credential:   credential,
		Class:        class,
		Provider:     provider,
		RedirectHint: redirectHint(c),
	})
	writeCallbackResponse(c, resp)
}

// redirectHint accepts redirect_uri first, then the shorter redirect alias.
func redirectHint(c *gin.Context) string {
	if v := strings.TrimSpace(c.Query("redirect_uri")); v != "" {
		return v
	}
	return strings.TrimSpace(c.Query("redirect"))
}

func writeCallbackResponse(c *gin.Context, resp service.CallbackResponse) {
	if resp.Cookie != nil {
		http.SetCookie(c.Writer, resp.Cookie)
	}
	if resp.RedirectTo != "" {
		c.Redirect(resp.Status, resp.RedirectTo)
		return
	}
	c.Data(resp.Status, "text/html; charset=utf-8", []byte(resp.HTML))
}

// MobileLogout performs the coordinated cross-backend logout.
func (h *ProxyHandler) MobileLogout(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "No token provided",
			"message": "Authorization header with Bearer token is required",
		})
		return
	}

	outcome, err := h.logout.Logout(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, domain.ErrMissingCredential) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "No token provided",
				"message": "Authorization header with Bearer token is required",
			})
			return
		}
		zap.L().Error("logout failed unexpectedly", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   err.Error(),
			"message": "Failed to logout",
		})
		return
	}

	zap.L().Info("logout completed",
		zap.Bool("primary_logged_out", outcome.PrimaryLoggedOut),
		zap.Bool("broker_user_found", outcome.BrokerUserFound),
		zap.Bool("broker_logged_out", outcome.BrokerLoggedOut))

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out successfully",
	})
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
