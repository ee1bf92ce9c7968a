package subscription

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Vinnie-Palazeti/fast-polar/pkg/logger"
)

// Offer pairs a catalog product with the action a user may take on it.
type Offer struct {
	Product Product
	Action  Action
}

// Entitlement is the state the product view renders: the full catalog with
// per-product actions, plus the active subscription when one exists.
// CustomerID is the billing-provider customer id, empty for first-time
// buyers; callers may persist it in the session once known.
type Entitlement struct {
	Offers     []Offer
	Active     *Subscription
	CustomerID string
}

// Subscribed reports whether the user currently holds an active subscription.
func (e Entitlement) Subscribed() bool {
	return e.Active != nil
}

// Resolver derives entitlement state from the billing provider. State is
// fetched fresh on every call and never cached.
type Resolver struct {
	provider Provider
	log      *slog.Logger
}

// NewResolver creates an entitlement resolver.
func NewResolver(provider Provider, log *slog.Logger) *Resolver {
	return &Resolver{
		provider: provider,
		log:      log.With(logger.Component("subscription.resolver")),
	}
}

// Resolve fetches the catalog and the user's customer state, then derives the
// action for every product. A catalog failure fails the call; a customer
// state failure does not: first-time buyers legitimately have no provider
// record, so any state-read error degrades to "no subscription".
func (r *Resolver) Resolve(ctx context.Context, externalID string) (Entitlement, error) {
	catalog, err := r.provider.Catalog(ctx)
	if err != nil {
		return Entitlement{}, err
	}

	var ent Entitlement
	state, err := r.provider.CustomerState(ctx, externalID)
	switch {
	case err == nil:
		ent.CustomerID = state.CustomerID
		if active, ok := state.ActiveSubscription(); ok {
			ent.Active = &active
		}
	case errors.Is(err, ErrNoCustomer):
		// First-time buyer, nothing to report.
	default:
		r.log.WarnContext(ctx, "customer state unavailable, rendering unsubscribed view",
			logger.Error(err),
			slog.String("external_id", externalID),
		)
	}

	ent.Offers = make([]Offer, 0, len(catalog))
	for _, product := range catalog {
		ent.Offers = append(ent.Offers, Offer{
			Product: product,
			Action:  DeriveAction(product, ent.Active),
		})
	}
	return ent, nil
}
