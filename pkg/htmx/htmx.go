// Package htmx holds the few HTMX protocol helpers the storefront needs. The
// UI triggers actions with hx-post and expects client-side redirects through
// the HX-Redirect response header.
package htmx

import "net/http"

// HTMX header names used by this application.
const (
	HeaderRequest  = "HX-Request"
	HeaderRedirect = "HX-Redirect"
)

// IsRequest reports whether the request was issued by HTMX.
func IsRequest(r *http.Request) bool {
	return r.Header.Get(HeaderRequest) == "true"
}

// Redirect sends the browser to url: HTMX requests get an HX-Redirect header
// with 200 so HTMX performs a full-page navigation, plain requests get a
// standard 303 See Other.
func Redirect(w http.ResponseWriter, r *http.Request, url string) {
	if IsRequest(r) {
		w.Header().Set(HeaderRedirect, url)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}
