package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/smallbiznis/mobile-auth-proxy/internal/adapter/broker"
	"github.com/smallbiznis/mobile-auth-proxy/internal/adapter/primary"
	"github.com/smallbiznis/mobile-auth-proxy/internal/config"
	httptransport "github.com/smallbiznis/mobile-auth-proxy/internal/http"
	"github.com/smallbiznis/mobile-auth-proxy/internal/http/handler"
	"github.com/smallbiznis/mobile-auth-proxy/internal/middleware"
	"github.com/smallbiznis/mobile-auth-proxy/internal/server"
	"github.com/smallbiznis/mobile-auth-proxy/internal/service"
	"github.com/smallbiznis/mobile-auth-proxy/internal/telemetry"
)

func main() {
	app := fx.New(
		fx.Provide(
			newConfig,
			newLogger,
			newTelemetry,
			newPrimaryClient,
			newBrokerAdminClient,
			newBridgeService,
			newLogoutService,
			newRateLimiter,
			handler.NewProxyHandler,
			httptransport.NewRouter,
			server.NewHTTPServer,
		),
		fx.Invoke(useTelemetry, startHTTPServer),
	)

	app.Run()
}

func newConfig() (config.Config, error) {
	return config.Load()
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.Environment == "development" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}

func newTelemetry(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (*telemetry.Provider, error) {
	provider, err := telemetry.New(context.Background(), cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("telemetry init: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return provider.Shutdown(stopCtx)
		},
	})

	return provider, nil
}

func newPrimaryClient(cfg config.Config) primary.Client {
	return primary.NewHTTPClient(cfg.PublicURL, cfg.SessionCookieName, &http.Client{Timeout: 10 * time.Second})
}

func newBrokerAdminClient(cfg config.Config, logger *zap.Logger) broker.AdminClient {
	return broker.NewHTTPAdminClient(broker.Config{
		BaseURL:       cfg.BrokerURL,
		Realm:         cfg.BrokerRealm,
		AdminUser:     cfg.BrokerAdminUser,
		AdminPassword: cfg.BrokerAdminPassword,
		ClientID:      cfg.BrokerClientID,
	}, nil, logger)
}

func newBridgeService(cfg config.Config, primaryClient primary.Client, logger *zap.Logger) *service.BridgeService {
	return service.NewBridgeService(cfg, primaryClient, logger)
}

func newLogoutService(primaryClient primary.Client, brokerClient broker.AdminClient, logger *zap.Logger) *service.LogoutService {
	return service.NewLogoutService(primaryClient, brokerClient, logger)
}

func newRateLimiter(cfg config.Config) *middleware.RateLimiter {
	return middleware.NewRateLimiter(cfg.RateLimitRPM)
}

func startHTTPServer(lc fx.Lifecycle, srv *server.HTTPServer, cfg config.Config, logger *zap.Logger) {
	addr := ":" + cfg.HTTPPort
	var (
		cancel context.CancelFunc
		done   chan struct{}
	)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			runCtx, stop := context.WithCancel(context.Background())
			cancel = stop
			done = make(chan struct{})

			go func() {
				if err := srv.Run(runCtx, addr); err != nil {
					logger.Error("http server stopped", zap.Error(err))
				}
				close(done)
			}()

			logger.Info("mobile auth proxy started",
				zap.String("addr", addr),
				zap.String("broker_url", cfg.BrokerURL),
				zap.String("broker_realm", cfg.BrokerRealm),
				zap.String("app_scheme", cfg.AppScheme))

			return nil
		},
		OnStop: func(ctx context.Context) error {
			if cancel != nil {
				cancel()
			}
			if done == nil {
				return nil
			}
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
}

func useTelemetry(*telemetry.Provider) {}
