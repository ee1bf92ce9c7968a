package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vinnie-Palazeti/fast-polar/pkg/session"
)

func TestSession_IsAuthenticated(t *testing.T) {
	t.Parallel()

	s := session.New("tok", time.Hour)
	assert.False(t, s.IsAuthenticated())

	uid := uuid.New()
	s.Data.UserID = &uid
	assert.True(t, s.IsAuthenticated())
}

func TestSession_IsExpired(t *testing.T) {
	t.Parallel()

	assert.False(t, session.New("tok", time.Hour).IsExpired())
	assert.True(t, session.New("tok", -time.Minute).IsExpired())
}

func TestMemoryStore_Lifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := session.NewMemoryStore(0)
	t.Cleanup(func() { _ = store.Close() })

	s := session.New("tok-1", time.Hour)
	s.Data.Email = "user@example.com"
	require.NoError(t, store.Create(ctx, s))

	got, err := store.Get(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", got.Data.Email)

	// The store must hand out copies, not shared pointers.
	got.Data.Email = "mutated@example.com"
	again, err := store.Get(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", again.Data.Email)

	got.Data.BillingCustomerID = "cus_42"
	require.NoError(t, store.Update(ctx, got))
	updated, err := store.Get(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "cus_42", updated.Data.BillingCustomerID)

	require.NoError(t, store.Delete(ctx, "tok-1"))
	_, err = store.Get(ctx, "tok-1")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestMemoryStore_ExpiredSession(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := session.NewMemoryStore(0)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Create(ctx, session.New("tok-exp", -time.Minute)))

	_, err := store.Get(ctx, "tok-exp")
	assert.ErrorIs(t, err, session.ErrSessionExpired)

	// The expired session is dropped on first read.
	_, err = store.Get(ctx, "tok-exp")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestMemoryStore_UpdateMissing(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore(0)
	t.Cleanup(func() { _ = store.Close() })

	err := store.Update(context.Background(), session.New("ghost", time.Hour))
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}
