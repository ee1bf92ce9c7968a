package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Config holds environment-driven session settings.
type Config struct {
	CookieName string        `env:"SESSION_COOKIE_NAME" envDefault:"sid"`
	AnonTTL    time.Duration `env:"SESSION_ANON_TTL" envDefault:"24h"`
	AuthTTL    time.Duration `env:"SESSION_AUTH_TTL" envDefault:"720h"`
	// SecureCookies enables the Secure flag on the session cookie; keep it on
	// everywhere the app is served over HTTPS.
	SecureCookies bool `env:"SESSION_SECURE_COOKIES" envDefault:"false"`
	// CleanupInterval for expired sessions in the memory store (0 disables).
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"5m"`
}

// Manager handles session lifecycle against a Store, moving tokens through an
// HttpOnly cookie.
type Manager struct {
	store Store
	cfg   Config
}

// NewManager creates a session manager over the given store.
func NewManager(store Store, cfg Config) *Manager {
	if store == nil {
		panic("session: store is required")
	}
	return &Manager{store: store, cfg: cfg}
}

// Get retrieves the valid session referenced by the request cookie.
func (m *Manager) Get(ctx context.Context, r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(m.cfg.CookieName)
	if err != nil || cookie.Value == "" {
		return nil, ErrSessionNotFound
	}

	s, err := m.store.Get(ctx, cookie.Value)
	if err != nil {
		return nil, err
	}
	if s.IsExpired() {
		return nil, ErrSessionExpired
	}
	return s, nil
}

// Ensure returns the request's session, creating an anonymous one when the
// request has none.
func (m *Manager) Ensure(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Session, error) {
	if s, err := m.Get(ctx, r); err == nil {
		return s, nil
	}

	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	s := New(token, m.cfg.AnonTTL)
	if err := m.store.Create(ctx, s); err != nil {
		return nil, err
	}

	m.setCookie(w, token, m.cfg.AnonTTL)
	return s, nil
}

// Authenticate upgrades the request's session for a logged-in user. The token
// is rotated so a pre-login token cannot be fixated onto the account.
func (m *Manager) Authenticate(ctx context.Context, w http.ResponseWriter, r *http.Request, userID uuid.UUID, email, name string) (*Session, error) {
	if old, err := m.Get(ctx, r); err == nil {
		_ = m.store.Delete(ctx, old.Token)
	}

	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	s := New(token, m.cfg.AuthTTL)
	s.Data.UserID = &userID
	s.Data.Email = email
	s.Data.Name = name

	if err := m.store.Create(ctx, s); err != nil {
		return nil, err
	}

	m.setCookie(w, token, m.cfg.AuthTTL)
	return s, nil
}

// Update persists mutated session data.
func (m *Manager) Update(ctx context.Context, s *Session) error {
	if s == nil {
		return ErrInvalidSession
	}
	s.Touch()
	return m.store.Update(ctx, s)
}

// Destroy deletes the session and clears the cookie.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if cookie, err := r.Cookie(m.cfg.CookieName); err == nil && cookie.Value != "" {
		_ = m.store.Delete(ctx, cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (m *Manager) setCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// generateToken creates a cryptographically secure opaque token.
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
