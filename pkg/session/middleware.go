package session

import "net/http"

// Middleware attaches the request's session to the context when one exists.
// Requests without a session pass through untouched; handlers that need one
// call Ensure themselves.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, err := m.Get(r.Context(), r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
	})
}

// RequireAuth redirects requests without an authenticated session to
// loginURL. This is an HTML application, so the failure mode is a redirect to
// the sign-in page rather than a 401.
func (m *Manager) RequireAuth(loginURL string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, err := m.Get(r.Context(), r)
			if err != nil || !s.IsAuthenticated() {
				http.Redirect(w, r, loginURL, http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
		})
	}
}
