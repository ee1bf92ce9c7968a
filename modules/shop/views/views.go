// Package views renders the shop's server-generated HTML. Components are
// plain templ components written by hand; pages share the Layout shell and
// action buttons go through htmx so subscription mutations can answer with a
// client-side redirect.
package views

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/Vinnie-Palazeti/fast-polar/svc/subscription"
)

// Layout wraps a page body in the HTML shell with htmx and base styles.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!doctype html><html lang="en"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>%s</title><script src="https://unpkg.com/htmx.org@2.0.4"></script><link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/@picocss/pico@2/css/pico.min.css"><link rel="stylesheet" href="/static/style.css"></head><body><main class="container">`, templ.EscapeString(title)); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</main></body></html>`)
		return err
	})
}

// Landing is the public home page. Authenticated visitors get a link to the
// product view instead of the login prompt.
func Landing(loggedIn bool, name string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if loggedIn {
			_, err := fmt.Fprintf(w, `<hgroup><h1>Fast Polar</h1><p>Welcome back, %s.</p></hgroup><p><a href="/product" role="button">View plans</a> <a href="/logout" role="button" class="secondary">Logout</a></p>`, templ.EscapeString(name))
			return err
		}
		_, err := io.WriteString(w, `<hgroup><h1>Fast Polar</h1><p>Subscription demo storefront.</p></hgroup><p><a href="/login" role="button">Login</a></p>`)
		return err
	})
}

// LoginPage shows the provider login button. authURL already carries the
// per-session state token.
func LoginPage(authURL string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<hgroup><h1>Login</h1><p>Sign in to manage your subscription.</p></hgroup><p><a href="%s" role="button">Login with Google</a></p>`, templ.EscapeString(authURL))
		return err
	})
}

// ProductPageParams carries everything the entitlement view renders.
type ProductPageParams struct {
	UserName    string
	UserEmail   string
	Entitlement subscription.Entitlement
}

// ProductPage renders the catalog with one action button per product, the
// session card, and the subscriber-only block when an active subscription
// exists.
func ProductPage(params ProductPageParams) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<hgroup><h1>Plans</h1><p>Signed in as %s (%s). <a href="/logout">Logout</a></p></hgroup>`,
			templ.EscapeString(params.UserName), templ.EscapeString(params.UserEmail)); err != nil {
			return err
		}

		if _, err := io.WriteString(w, `<div class="grid">`); err != nil {
			return err
		}
		for _, offer := range params.Entitlement.Offers {
			if err := productCard(offer).Render(ctx, w); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</div>`); err != nil {
			return err
		}

		if params.Entitlement.Subscribed() {
			if err := subscriberContent(*params.Entitlement.Active).Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}

func productCard(offer subscription.Offer) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<article><header><h3>%s</h3></header><p>%s</p><p><strong>%s / month</strong></p>`,
			templ.EscapeString(offer.Product.Name),
			templ.EscapeString(offer.Product.Description),
			formatPrice(offer.Product.PriceAmount)); err != nil {
			return err
		}
		if err := actionButton(offer).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</article>`)
		return err
	})
}

// actionButton renders the htmx form for the product's single applicable
// action.
func actionButton(offer subscription.Offer) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		action := offer.Action
		var err error
		switch action.Kind {
		case subscription.ActionPurchase:
			_, err = fmt.Fprintf(w, `<form hx-post="/create-checkout"><input type="hidden" name="product_id" value="%s"><button type="submit">Buy</button></form>`,
				templ.EscapeString(action.ProductID))
		case subscription.ActionUncancel:
			_, err = fmt.Fprintf(w, `<form hx-post="/uncancel-subscription"><input type="hidden" name="subscription_id" value="%s"><button type="submit">Uncancel</button></form>`,
				templ.EscapeString(action.SubscriptionID))
		case subscription.ActionCancel:
			_, err = fmt.Fprintf(w, `<form hx-post="/cancel-subscription"><input type="hidden" name="subscription_id" value="%s"><button type="submit" class="secondary">Cancel</button></form>`,
				templ.EscapeString(action.SubscriptionID))
		case subscription.ActionChangeTier:
			_, err = fmt.Fprintf(w, `<form hx-post="/update-subscription"><input type="hidden" name="subscription_id" value="%s"><input type="hidden" name="product_id" value="%s"><button type="submit">%s</button></form>`,
				templ.EscapeString(action.SubscriptionID),
				templ.EscapeString(action.ProductID),
				templ.EscapeString(action.Label))
		default:
			_, err = io.WriteString(w, `<button disabled>Unavailable</button>`)
		}
		return err
	})
}

func subscriberContent(active subscription.Subscription) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		note := "Your subscription is active."
		if active.CancelAtPeriodEnd {
			note = "Your subscription ends at the current period."
		}
		_, err := fmt.Fprintf(w, `<section id="subscriber-content"><h2>Subscriber content</h2><p>%s</p><form hx-post="/revoke-subscription"><input type="hidden" name="subscription_id" value="%s"><button type="submit" class="contrast">Revoke immediately</button></form></section>`,
			note, templ.EscapeString(active.ID))
		return err
	})
}

// SuccessPage is the post-checkout landing.
func SuccessPage(checkoutID string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<hgroup><h1>Thank you!</h1><p>Your checkout completed.</p></hgroup>`); err != nil {
			return err
		}
		if checkoutID != "" {
			if _, err := fmt.Fprintf(w, `<p><small>Checkout reference: %s</small></p>`, templ.EscapeString(checkoutID)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `<p><a href="/product" role="button">Back to plans</a></p>`)
		return err
	})
}

// ErrorFragment is the generic failure block returned when a billing mutation
// fails.
func ErrorFragment(message string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<article aria-label="error"><header>Something went wrong</header><p>%s</p><p><a href="/product">Back to plans</a></p></article>`,
			templ.EscapeString(message))
		return err
	})
}

func formatPrice(minorUnits int64) string {
	return fmt.Sprintf("$%d.%02d", minorUnits/100, minorUnits%100)
}
