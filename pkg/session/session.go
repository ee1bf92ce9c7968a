// Package session implements server-side browser sessions for the storefront:
// an opaque random token travels in a cookie, everything else lives in a
// pluggable store (in-memory for development, Redis for real deployments).
package session

import (
	"time"

	"github.com/google/uuid"
)

// Data is the application state carried by a session. BillingCustomerID is
// populated lazily the first time the billing provider reports a customer for
// the user; it is never invalidated while the session lives.
type Data struct {
	UserID            *uuid.UUID `json:"user_id,omitempty"`
	Email             string     `json:"email,omitempty"`
	Name              string     `json:"name,omitempty"`
	BillingCustomerID string     `json:"billing_customer_id,omitempty"`
	OAuthState        string     `json:"oauth_state,omitempty"`
}

// Session is a single browser session.
type Session struct {
	ID             uuid.UUID `json:"id"`
	Token          string    `json:"token"`
	Data           Data      `json:"data"`
	ExpiresAt      time.Time `json:"expires_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
	CreatedAt      time.Time `json:"created_at"`
}

// New creates a session with a fresh id and the given lifetime.
func New(token string, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:             uuid.New(),
		Token:          token,
		ExpiresAt:      now.Add(ttl),
		LastActivityAt: now,
		CreatedAt:      now,
	}
}

// IsAuthenticated reports whether a user has logged in on this session.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.Data.UserID != nil
}

// IsExpired reports whether the session lifetime has passed.
func (s *Session) IsExpired() bool {
	return s != nil && time.Now().After(s.ExpiresAt)
}

// Touch updates the last activity time.
func (s *Session) Touch() {
	if s != nil {
		s.LastActivityAt = time.Now()
	}
}
