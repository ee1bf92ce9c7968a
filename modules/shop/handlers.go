package shop

import (
	"net/http"

	"github.com/a-h/templ"

	"github.com/Vinnie-Palazeti/fast-polar/modules/shop/views"
	"github.com/Vinnie-Palazeti/fast-polar/pkg/htmx"
	"github.com/Vinnie-Palazeti/fast-polar/pkg/logger"
	"github.com/Vinnie-Palazeti/fast-polar/pkg/session"
	"github.com/Vinnie-Palazeti/fast-polar/svc/subscription"
)

func (m *Module) render(w http.ResponseWriter, r *http.Request, status int, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := component.Render(r.Context(), w); err != nil {
		m.log.ErrorContext(r.Context(), "render failed", logger.Error(err))
	}
}

func (m *Module) handleHome(w http.ResponseWriter, r *http.Request) {
	var loggedIn bool
	var name string
	if s, ok := session.FromContext(r.Context()); ok && s.IsAuthenticated() {
		loggedIn = true
		name = s.Data.Name
	}
	m.render(w, r, http.StatusOK, views.Layout("Fast Polar", views.Landing(loggedIn, name)))
}

// handleLogin issues a fresh OAuth state token, parks it on the (possibly
// anonymous) session, and renders the provider login button.
func (m *Module) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	s, err := m.sessions.Ensure(ctx, w, r)
	if err != nil {
		m.renderError(w, r, "Could not start a session.")
		return
	}
	if s.IsAuthenticated() {
		http.Redirect(w, r, "/product", http.StatusSeeOther)
		return
	}

	authURL, state, err := m.flow.BeginLogin(ctx)
	if err != nil {
		m.log.ErrorContext(ctx, "begin login failed", logger.Error(err))
		m.renderError(w, r, "Login is unavailable right now.")
		return
	}

	s.Data.OAuthState = state
	if err := m.sessions.Update(ctx, s); err != nil {
		m.log.ErrorContext(ctx, "persist oauth state failed", logger.Error(err))
		m.renderError(w, r, "Login is unavailable right now.")
		return
	}

	m.render(w, r, http.StatusOK, views.Layout("Login", views.LoginPage(authURL)))
}

// handleOAuthCallback finishes the login. The state token is consumed before
// the code exchange; any failure lands back on the login page with no session
// upgrade.
func (m *Module) handleOAuthCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	s, err := m.sessions.Get(ctx, r)
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	expectedState := s.Data.OAuthState
	s.Data.OAuthState = ""
	if err := m.sessions.Update(ctx, s); err != nil {
		m.log.ErrorContext(ctx, "consume oauth state failed", logger.Error(err))
	}

	user, err := m.flow.CompleteLogin(ctx, expectedState, r.URL.Query().Get("state"), r.URL.Query().Get("code"))
	if err != nil {
		m.log.WarnContext(ctx, "login failed", logger.Error(err))
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if _, err := m.sessions.Authenticate(ctx, w, r, user.ID, user.Email, user.Name); err != nil {
		m.log.ErrorContext(ctx, "session upgrade failed", logger.Error(err))
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/product", http.StatusSeeOther)
}

func (m *Module) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := m.sessions.Destroy(r.Context(), w, r); err != nil {
		m.log.ErrorContext(r.Context(), "logout failed", logger.Error(err))
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleProduct renders the entitlement view. The billing customer id is
// persisted on the session the first time the provider reports one; it is
// informational only and never invalidated.
func (m *Module) handleProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s, _ := session.FromContext(ctx)

	ent, err := m.resolver.Resolve(ctx, s.Data.UserID.String())
	if err != nil {
		m.log.ErrorContext(ctx, "entitlement resolve failed", logger.Error(err), logger.UserID(s.Data.UserID))
		m.renderError(w, r, "Plans are unavailable right now.")
		return
	}

	if s.Data.BillingCustomerID == "" && ent.CustomerID != "" {
		s.Data.BillingCustomerID = ent.CustomerID
		if err := m.sessions.Update(ctx, s); err != nil {
			m.log.WarnContext(ctx, "persist billing customer id failed", logger.Error(err))
		}
	}

	m.render(w, r, http.StatusOK, views.Layout("Plans", views.ProductPage(views.ProductPageParams{
		UserName:    s.Data.Name,
		UserEmail:   s.Data.Email,
		Entitlement: ent,
	})))
}

func (m *Module) handleSuccess(w http.ResponseWriter, r *http.Request) {
	m.render(w, r, http.StatusOK, views.Layout("Thank you", views.SuccessPage(r.URL.Query().Get("checkout_id"))))
}

// handleCreateCheckout starts a purchase and sends the browser to the
// provider-hosted checkout.
func (m *Module) handleCreateCheckout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s, _ := session.FromContext(ctx)

	productID := r.FormValue("product_id")
	if productID == "" {
		http.Error(w, "product_id is required", http.StatusBadRequest)
		return
	}

	url, err := m.dispatcher.Purchase(ctx, subscription.CheckoutParams{
		ProductID:          productID,
		ExternalCustomerID: s.Data.UserID.String(),
		CustomerEmail:      s.Data.Email,
		SuccessURL:         m.successURL,
	})
	if err != nil {
		m.log.ErrorContext(ctx, "checkout failed", logger.Error(err), logger.ProductID(productID))
		m.renderError(w, r, "Checkout could not be started.")
		return
	}

	htmx.Redirect(w, r, url)
}

func (m *Module) handleUpdateSubscription(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s, _ := session.FromContext(ctx)

	subscriptionID := r.FormValue("subscription_id")
	productID := r.FormValue("product_id")
	if subscriptionID == "" || productID == "" {
		http.Error(w, "subscription_id and product_id are required", http.StatusBadRequest)
		return
	}

	if err := m.dispatcher.ChangeTier(ctx, s.Data.UserID.String(), subscriptionID, productID); err != nil {
		m.log.ErrorContext(ctx, "tier change failed", logger.Error(err), logger.SubscriptionID(subscriptionID))
		m.renderError(w, r, "Your plan could not be changed.")
		return
	}

	htmx.Redirect(w, r, "/product")
}

func (m *Module) handleCancelSubscription(w http.ResponseWriter, r *http.Request) {
	m.handleCancelFlag(w, r, true, "Your subscription could not be cancelled.")
}

func (m *Module) handleUncancelSubscription(w http.ResponseWriter, r *http.Request) {
	m.handleCancelFlag(w, r, false, "Your subscription could not be resumed.")
}

func (m *Module) handleCancelFlag(w http.ResponseWriter, r *http.Request, cancel bool, failureMessage string) {
	ctx := r.Context()
	s, _ := session.FromContext(ctx)

	subscriptionID := r.FormValue("subscription_id")
	if subscriptionID == "" {
		http.Error(w, "subscription_id is required", http.StatusBadRequest)
		return
	}

	var err error
	if cancel {
		err = m.dispatcher.Cancel(ctx, s.Data.UserID.String(), subscriptionID)
	} else {
		err = m.dispatcher.Uncancel(ctx, s.Data.UserID.String(), subscriptionID)
	}
	if err != nil {
		m.log.ErrorContext(ctx, "cancel flag update failed", logger.Error(err), logger.SubscriptionID(subscriptionID))
		m.renderError(w, r, failureMessage)
		return
	}

	htmx.Redirect(w, r, "/product")
}

func (m *Module) handleRevokeSubscription(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	subscriptionID := r.FormValue("subscription_id")
	if subscriptionID == "" {
		http.Error(w, "subscription_id is required", http.StatusBadRequest)
		return
	}

	if err := m.dispatcher.Revoke(ctx, subscriptionID); err != nil {
		m.log.ErrorContext(ctx, "revoke failed", logger.Error(err), logger.SubscriptionID(subscriptionID))
		m.renderError(w, r, "Your subscription could not be revoked.")
		return
	}

	htmx.Redirect(w, r, "/product")
}

func (m *Module) renderError(w http.ResponseWriter, r *http.Request, message string) {
	component := views.ErrorFragment(message)
	if !htmx.IsRequest(r) {
		component = views.Layout("Error", component)
	}
	m.render(w, r, http.StatusInternalServerError, component)
}
