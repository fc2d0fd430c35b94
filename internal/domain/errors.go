package domain

import "errors"

var (
	// ErrMissingCredential indicates the request carried no session credential.
	ErrMissingCredential = errors.New("auth: missing credential")
	// ErrAuthResolution indicates the primary backend rejected the credential.
	ErrAuthResolution = errors.New("auth: credential could not be resolved")
	// ErrBackendUnavailable indicates a network failure or 5xx from a backend.
	ErrBackendUnavailable = errors.New("auth: backend unavailable")
)
