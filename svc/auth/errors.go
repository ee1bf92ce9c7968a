package auth

import "errors"

var (
	// ErrInvalidCode indicates the authorization code could not be exchanged.
	ErrInvalidCode = errors.New("invalid authorization code")

	// ErrNoEmail indicates the provider returned a profile without an email.
	ErrNoEmail = errors.New("provider returned no email")

	// ErrEmailNotVerified indicates the provider has not verified the email.
	// Unverified identities never get a session.
	ErrEmailNotVerified = errors.New("email not verified")

	// ErrStateMismatch indicates the callback state token does not match the
	// one issued for this browser session.
	ErrStateMismatch = errors.New("oauth state mismatch")
)
