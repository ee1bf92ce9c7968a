package session

import "context"

// Store defines session persistence keyed by token.
type Store interface {
	// Create stores a new session.
	Create(ctx context.Context, s *Session) error

	// Get retrieves a session by token. Expired sessions are reported as
	// ErrSessionExpired and must not be returned.
	Get(ctx context.Context, token string) (*Session, error)

	// Update replaces an existing session.
	Update(ctx context.Context, s *Session) error

	// Delete removes a session by token. Deleting a missing token is not an
	// error.
	Delete(ctx context.Context, token string) error
}
