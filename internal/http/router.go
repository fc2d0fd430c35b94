package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/smallbiznis/mobile-auth-proxy/internal/config"
	"github.com/smallbiznis/mobile-auth-proxy/internal/http/handler"
	httpmiddleware "github.com/smallbiznis/mobile-auth-proxy/internal/http/middleware"
	"github.com/smallbiznis/mobile-auth-proxy/internal/middleware"
)

// NewRouter wires Gin routes and middleware.
func NewRouter(cfg config.Config, proxyHandler *handler.ProxyHandler, rateLimiter *middleware.RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpmiddleware.RequestLogger(nil))
	if rateLimiter != nil {
		r.Use(rateLimiter.Handler())
	}
	r.Use(middleware.CORS(cfg))
	r.Use(otelgin.Middleware(cfg.ServiceName))

	r.GET("/health", proxyHandler.Health)
	r.GET("/mobile-callback", proxyHandler.MobileCallback)
	r.GET("/google-callback", proxyHandler.GoogleCallback)
	r.POST("/mobile-logout", proxyHandler.MobileLogout)

	return r
}
