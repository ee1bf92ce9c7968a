// Package shop is the HTTP surface of the storefront: login, the entitlement
// view, the subscription action endpoints, and the billing webhook. Handlers
// hold no state of their own; entitlement is re-derived from the billing
// provider on every render.
package shop

import (
	"log/slog"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Vinnie-Palazeti/fast-polar/pkg/logger"
	"github.com/Vinnie-Palazeti/fast-polar/pkg/session"
	"github.com/Vinnie-Palazeti/fast-polar/pkg/webhook"
	"github.com/Vinnie-Palazeti/fast-polar/svc/auth"
	"github.com/Vinnie-Palazeti/fast-polar/svc/subscription"
)

// Config holds the shop's environment settings.
type Config struct {
	// BaseURL is the public origin the app is reachable at, without a
	// trailing slash, e.g. https://shop.example.com.
	BaseURL string `env:"APP_BASE_URL,required"`
}

// Module wires the shop routes to the underlying services.
type Module struct {
	successURL string
	sessions   *session.Manager
	flow       *auth.Flow
	resolver   *subscription.Resolver
	dispatcher *subscription.Dispatcher
	verifier   *webhook.Verifier
	log        *slog.Logger
}

// New creates the shop module. The checkout success URL is derived from the
// base URL once; the {CHECKOUT_ID} placeholder is substituted by the billing
// provider.
func New(
	cfg Config,
	sessions *session.Manager,
	flow *auth.Flow,
	resolver *subscription.Resolver,
	dispatcher *subscription.Dispatcher,
	verifier *webhook.Verifier,
	log *slog.Logger,
) *Module {
	return &Module{
		successURL: strings.TrimRight(cfg.BaseURL, "/") + "/success?checkout_id={CHECKOUT_ID}",
		sessions:   sessions,
		flow:       flow,
		resolver:   resolver,
		dispatcher: dispatcher,
		verifier:   verifier,
		log:        log.With(logger.Component("shop")),
	}
}

// Router builds the shop's route tree. Session attachment applies to every
// route; the entitlement view and the action endpoints additionally require
// an authenticated session.
func (m *Module) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(m.sessions.Middleware)

	r.Get("/", m.handleHome)
	r.Get("/login", m.handleLogin)
	r.Get("/logout", m.handleLogout)
	r.Get("/redirect", m.handleOAuthCallback)
	r.Get("/success", m.handleSuccess)
	r.Post("/webhook", m.handleWebhook)
	r.Handle("/static/*", staticHandler())

	r.Group(func(protected chi.Router) {
		protected.Use(m.sessions.RequireAuth("/login"))
		protected.Get("/product", m.handleProduct)
		protected.Post("/create-checkout", m.handleCreateCheckout)
		protected.Post("/update-subscription", m.handleUpdateSubscription)
		protected.Post("/cancel-subscription", m.handleCancelSubscription)
		protected.Post("/uncancel-subscription", m.handleUncancelSubscription)
		protected.Post("/revoke-subscription", m.handleRevokeSubscription)
	})

	return r
}
