// Package directory maintains the local user directory. Users are keyed by
// email: the first successful login creates the record, every later login
// refreshes the display name and the last-login timestamp. The directory is
// the system of record for identity; billing state lives with the payment
// provider and is joined in at request time by the subscription service.
package directory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is a directory entry. LastLogin tracks the most recent completed
// OAuth login, CreatedAt the first.
type User struct {
	ID        uuid.UUID
	Email     string
	Name      string
	CreatedAt time.Time
	LastLogin time.Time
}

// Storage persists directory entries.
type Storage interface {
	// Upsert inserts a user by email or, when the email is already present,
	// updates the name and last-login timestamp. Returns the stored row.
	Upsert(ctx context.Context, email, name string) (*User, error)

	// GetByID returns the user with the given id, or ErrUserNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// GetByEmail returns the user with the given email, or ErrUserNotFound.
	GetByEmail(ctx context.Context, email string) (*User, error)
}

// Service provides user directory operations on top of a Storage.
type Service struct {
	storage Storage
}

// NewService creates a directory service.
func NewService(storage Storage) *Service {
	return &Service{storage: storage}
}

// RecordLogin upserts the user for a completed login. Email is normalized to
// lowercase so the same mailbox never produces two rows.
func (s *Service) RecordLogin(ctx context.Context, email, name string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, ErrInvalidEmail
	}

	user, err := s.storage.Upsert(ctx, email, strings.TrimSpace(name))
	if err != nil {
		return nil, fmt.Errorf("record login for %s: %w", email, err)
	}
	return user, nil
}

// GetByID looks up a user by id.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.storage.GetByID(ctx, id)
}

// GetByEmail looks up a user by normalized email.
func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.storage.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}
