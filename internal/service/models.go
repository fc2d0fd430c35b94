package service

import (
	"net/http"

	"github.com/smallbiznis/mobile-auth-proxy/internal/classify"
)

// Provider identifies which upstream login flow produced the callback.
type Provider string

const (
	// ProviderKeycloak is the default login provider.
	ProviderKeycloak Provider = "keycloak"
	// ProviderGoogle is the federated Google login provider.
	ProviderGoogle Provider = "google"
)

// CallbackRequest carries the request facts the bridge needs, decoupled from
// the HTTP framework. Classification is computed once by the caller and
// threaded through explicitly.
type CallbackRequest struct {
	Credential   string
	Class        classify.Class
	Provider     Provider
	RedirectHint string
}

// CallbackResponse is the transport-agnostic result of bridging a callback.
// Exactly one of RedirectTo or HTML is set.
type CallbackResponse struct {
	Status     int
	RedirectTo string
	Cookie     *http.Cookie
	HTML       string
}
