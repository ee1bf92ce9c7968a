package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"log/slog"

	"github.com/Vinnie-Palazeti/fast-polar/pkg/logger"
	"github.com/Vinnie-Palazeti/fast-polar/svc/directory"
)

// Flow drives the OAuth login: BeginLogin issues the authorization redirect,
// CompleteLogin validates the callback and upserts the directory entry. The
// caller owns state storage (the anonymous session) so each browser carries
// its own one-time state token.
type Flow struct {
	adapter   ProviderAdapter
	directory *directory.Service
	log       *slog.Logger
}

// NewFlow creates a login flow on top of a provider adapter and the user
// directory.
func NewFlow(adapter ProviderAdapter, dir *directory.Service, log *slog.Logger) *Flow {
	return &Flow{
		adapter:   adapter,
		directory: dir,
		log:       log.With(logger.Component("auth.flow"), slog.String("provider", adapter.ProviderID())),
	}
}

// BeginLogin generates a fresh state token and the provider authorization
// URL carrying it. The caller must persist the state for the callback check.
func (f *Flow) BeginLogin(_ context.Context) (authURL, state string, err error) {
	state, err = generateState()
	if err != nil {
		return "", "", fmt.Errorf("generate oauth state: %w", err)
	}

	authURL, err = f.adapter.AuthURL(state)
	if err != nil {
		return "", "", fmt.Errorf("build auth url: %w", err)
	}
	return authURL, state, nil
}

// CompleteLogin validates the callback. expectedState is the token issued by
// BeginLogin for this browser; a mismatch or an unverified email aborts the
// login without touching the directory.
func (f *Flow) CompleteLogin(ctx context.Context, expectedState, gotState, code string) (*directory.User, error) {
	if expectedState == "" || subtle.ConstantTimeCompare([]byte(expectedState), []byte(gotState)) != 1 {
		return nil, ErrStateMismatch
	}

	profile, err := f.adapter.ResolveProfile(ctx, code)
	if err != nil {
		return nil, err
	}
	if !profile.EmailVerified {
		f.log.WarnContext(ctx, "login rejected, email not verified")
		return nil, ErrEmailNotVerified
	}

	user, err := f.directory.RecordLogin(ctx, profile.Email, profile.Name)
	if err != nil {
		return nil, err
	}

	f.log.InfoContext(ctx, "login completed", logger.UserID(user.ID.String()))
	return user, nil
}

func generateState() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
