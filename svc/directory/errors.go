package directory

import "errors"

var (
	// ErrUserNotFound is returned when no user matches the lookup key.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidEmail is returned when an upsert carries an empty email.
	ErrInvalidEmail = errors.New("invalid email")
)
