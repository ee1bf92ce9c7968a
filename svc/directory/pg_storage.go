package directory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Vinnie-Palazeti/fast-polar/pkg/pg"
)

// PGStorage stores directory entries in Postgres.
type PGStorage struct {
	pool *pgxpool.Pool
}

// NewPGStorage creates a Postgres-backed Storage.
func NewPGStorage(pool *pgxpool.Pool) *PGStorage {
	return &PGStorage{pool: pool}
}

func (s *PGStorage) Upsert(ctx context.Context, email, name string) (*User, error) {
	const query = `
		INSERT INTO users (id, email, name, created_at, last_login)
		VALUES ($1, $2, $3, now(), now())
		ON CONFLICT (email)
		DO UPDATE SET name = EXCLUDED.name, last_login = now()
		RETURNING id, email, name, created_at, last_login`

	var user User
	err := s.pool.QueryRow(ctx, query, uuid.New(), email, name).
		Scan(&user.ID, &user.Email, &user.Name, &user.CreatedAt, &user.LastLogin)
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return &user, nil
}

func (s *PGStorage) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	const query = `
		SELECT id, email, name, created_at, last_login
		FROM users
		WHERE id = $1`

	var user User
	err := s.pool.QueryRow(ctx, query, id).
		Scan(&user.ID, &user.Email, &user.Name, &user.CreatedAt, &user.LastLogin)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return &user, nil
}

func (s *PGStorage) GetByEmail(ctx context.Context, email string) (*User, error) {
	const query = `
		SELECT id, email, name, created_at, last_login
		FROM users
		WHERE email = $1`

	var user User
	err := s.pool.QueryRow(ctx, query, email).
		Scan(&user.ID, &user.Email, &user.Name, &user.CreatedAt, &user.LastLogin)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &user, nil
}
