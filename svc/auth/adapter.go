// Package auth runs the OAuth login flow: it hands the browser to the
// identity provider, validates the callback, and records the verified
// identity in the user directory. Provider specifics live behind
// ProviderAdapter; the flow only consumes normalized profiles.
package auth

import "context"

// OAuthProviderGoogle identifies the Google adapter in logs.
const OAuthProviderGoogle = "google"

// ProviderAdapter hides provider-specific OAuth mechanics (oauth2 config,
// token exchange, profile endpoints) behind the primitives the flow needs.
type ProviderAdapter interface {
	// ProviderID returns a stable identifier such as "google".
	ProviderID() string

	// AuthURL builds the provider authorization URL carrying the state token.
	AuthURL(state string) (string, error)

	// ResolveProfile exchanges the authorization code and fetches the user's
	// profile. Exchange failures surface as ErrInvalidCode; a profile without
	// an email as ErrNoEmail.
	ResolveProfile(ctx context.Context, code string) (Profile, error)
}

// Profile is the normalized identity a provider reports after a successful
// code exchange.
type Profile struct {
	Email         string
	EmailVerified bool
	Name          string
}
