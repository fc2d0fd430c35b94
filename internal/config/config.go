package config

import (
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config contains runtime configuration values.
type Config struct {
	Environment string
	HTTPPort    string
	ServiceName string

	// Primary backend (session owner).
	PublicURL string

	// Identity broker admin API.
	BrokerURL           string
	BrokerRealm         string
	BrokerAdminUser     string
	BrokerAdminPassword string
	BrokerClientID      string

	// Native app deep links.
	AppScheme          string
	AppCallbackPath    string
	GoogleCallbackPath string

	// Session cookie re-issued on browser callbacks.
	SessionCookieName string
	CookieDomain      string
	CookieSecure      bool
	CookieSameSite    http.SameSite

	RateLimitRPM      int
	TelemetryEndpoint string
	TelemetryInsecure bool

	CORSAllowedOrigins   []string
	CORSAllowedMethods   []string
	CORSAllowedHeaders   []string
	CORSAllowCredentials bool
}

// Load reads configuration from environment variables with sane defaults.
// Every default is suitable for local development against a dockerized
// broker and a primary backend on localhost.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Environment: getEnv("APP_ENV", "development"),
		HTTPPort:    getEnv("HTTP_PORT", "8055"),
		ServiceName: getEnv("SERVICE_NAME", "mobile-auth-proxy"),

		PublicURL: strings.TrimRight(getEnv("PUBLIC_URL", "http://localhost:8055"), "/"),

		BrokerURL:           strings.TrimRight(getEnv("BROKER_URL", "http://keycloak:8080"), "/"),
		BrokerRealm:         getEnv("BROKER_REALM", "testing"),
		BrokerAdminUser:     getEnv("BROKER_ADMIN_USER", "admin"),
		BrokerAdminPassword: getEnv("BROKER_ADMIN_PASSWORD", "admin"),
		BrokerClientID:      getEnv("BROKER_CLIENT_ID", "admin-cli"),

		AppScheme:          getEnv("APP_SCHEME", "portalapp"),
		AppCallbackPath:    getEnv("APP_CALLBACK_PATH", "/auth/callback"),
		GoogleCallbackPath: getEnv("GOOGLE_CALLBACK_PATH", "/auth/callback/google"),

		SessionCookieName: getEnv("SESSION_COOKIE_NAME", "session_token"),
		CookieDomain:      os.Getenv("COOKIE_DOMAIN"),
		CookieSecure:      getBool("COOKIE_SECURE", true),
		CookieSameSite:    parseSameSite(getEnv("COOKIE_SAME_SITE", "lax")),

		RateLimitRPM:      getInt("RATE_LIMIT_RPM", 600),
		TelemetryEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		TelemetryInsecure: getBool("OTEL_EXPORTER_OTLP_INSECURE", true),

		CORSAllowedOrigins:   getList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		CORSAllowedMethods:   getList("CORS_ALLOWED_METHODS", []string{"GET", "POST", "OPTIONS"}),
		CORSAllowedHeaders:   getList("CORS_ALLOWED_HEADERS", []string{"Authorization", "Content-Type"}),
		CORSAllowCredentials: getBool("CORS_ALLOW_CREDENTIALS", false),
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getBool(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(v) {
		case "1", "true", "t", "yes", "y", "on":
			return true
		case "0", "false", "f", "no", "n", "off":
			return false
		}
	}
	return def
}

func getList(key string, def []string) []string {
	if v, ok := os.LookupEnv(key); ok {
		parts := strings.Split(v, ",")
		var cleaned []string
		for _, p := range parts {
			trimmed := strings.TrimSpace(p)
			if trimmed != "" {
				cleaned = append(cleaned, trimmed)
			}
		}
		if len(cleaned) > 0 {
			return cleaned
		}
	}
	return def
}

func parseSameSite(v string) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
