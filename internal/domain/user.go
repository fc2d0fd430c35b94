package domain

// UserIdentity is the profile resolved from the primary backend for the
// session credential attached to a request. It is never persisted; every
// request resolves it fresh.
type UserIdentity struct {
	ID        string
	Email     string
	FirstName string
}

// DisplayName prefers the first name and falls back to the email address.
func (u UserIdentity) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Email
}

// LogoutOutcome records which backends acknowledged a coordinated logout.
// The caller-visible result does not depend on these flags; they exist for
// logging and tests.
type LogoutOutcome struct {
	PrimaryLoggedOut bool
	BrokerUserFound  bool
	BrokerLoggedOut  bool
}
