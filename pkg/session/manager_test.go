package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vinnie-Palazeti/fast-polar/pkg/session"
)

func testConfig() session.Config {
	return session.Config{
		CookieName: "sid",
		AnonTTL:    time.Hour,
		AuthTTL:    24 * time.Hour,
	}
}

func newManager(t *testing.T) *session.Manager {
	t.Helper()
	store := session.NewMemoryStore(0)
	t.Cleanup(func() { _ = store.Close() })
	return session.NewManager(store, testConfig())
}

// requestWithCookies copies cookies from a recorder onto a fresh request.
func requestWithCookies(t *testing.T, rec *httptest.ResponseRecorder, target string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestManager_EnsureCreatesAnonymousSession(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	ctx := context.Background()

	rec := httptest.NewRecorder()
	s, err := m.Ensure(ctx, rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.False(t, s.IsAuthenticated())

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sid", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)

	// The same browser gets the same session back.
	again, err := m.Ensure(ctx, httptest.NewRecorder(), requestWithCookies(t, rec, "/"))
	require.NoError(t, err)
	assert.Equal(t, s.ID, again.ID)
}

func TestManager_AuthenticateRotatesToken(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	ctx := context.Background()

	anonRec := httptest.NewRecorder()
	anon, err := m.Ensure(ctx, anonRec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	uid := uuid.New()
	authRec := httptest.NewRecorder()
	authed, err := m.Authenticate(ctx, authRec, requestWithCookies(t, anonRec, "/redirect"), uid, "user@example.com", "User")
	require.NoError(t, err)

	assert.True(t, authed.IsAuthenticated())
	assert.Equal(t, "user@example.com", authed.Data.Email)
	assert.NotEqual(t, anon.Token, authed.Token)

	// The pre-login token must no longer resolve.
	_, err = m.Get(ctx, requestWithCookies(t, anonRec, "/"))
	assert.Error(t, err)

	got, err := m.Get(ctx, requestWithCookies(t, authRec, "/"))
	require.NoError(t, err)
	assert.Equal(t, uid, *got.Data.UserID)
}

func TestManager_UpdatePersistsBillingCustomerID(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	ctx := context.Background()

	rec := httptest.NewRecorder()
	s, err := m.Authenticate(ctx, rec, httptest.NewRequest(http.MethodGet, "/", nil), uuid.New(), "u@example.com", "U")
	require.NoError(t, err)

	s.Data.BillingCustomerID = "cus_7"
	require.NoError(t, m.Update(ctx, s))

	got, err := m.Get(ctx, requestWithCookies(t, rec, "/product"))
	require.NoError(t, err)
	assert.Equal(t, "cus_7", got.Data.BillingCustomerID)
}

func TestManager_Destroy(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	ctx := context.Background()

	rec := httptest.NewRecorder()
	_, err := m.Authenticate(ctx, rec, httptest.NewRequest(http.MethodGet, "/", nil), uuid.New(), "u@example.com", "U")
	require.NoError(t, err)

	logoutRec := httptest.NewRecorder()
	require.NoError(t, m.Destroy(ctx, logoutRec, requestWithCookies(t, rec, "/logout")))

	cookies := logoutRec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Negative(t, cookies[0].MaxAge)

	_, err = m.Get(ctx, requestWithCookies(t, rec, "/"))
	assert.Error(t, err)
}

func TestManager_RequireAuthRedirectsToLogin(t *testing.T) {
	t.Parallel()

	m := newManager(t)

	protected := m.RequireAuth("/login")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/product", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestManager_RequireAuthPassesAuthenticated(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	ctx := context.Background()

	rec := httptest.NewRecorder()
	_, err := m.Authenticate(ctx, rec, httptest.NewRequest(http.MethodGet, "/", nil), uuid.New(), "u@example.com", "U")
	require.NoError(t, err)

	var sawSession bool
	protected := m.RequireAuth("/login")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawSession = session.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	out := httptest.NewRecorder()
	protected.ServeHTTP(out, requestWithCookies(t, rec, "/product"))

	assert.Equal(t, http.StatusOK, out.Code)
	assert.True(t, sawSession)
}
