package subscription

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Vinnie-Palazeti/fast-polar/pkg/logger"
)

// DefaultSettleDelay is how long the dispatcher waits after a provider
// mutation before reporting completion. The provider applies mutations
// asynchronously; without the pause the follow-up entitlement fetch often
// still sees the old state. A poll-until-consistent loop would be the robust
// fix; the delay only masks the gap.
const DefaultSettleDelay = 2 * time.Second

// Dispatcher executes subscription lifecycle actions against the billing
// provider. Portal mutations require a customer-scoped token, which is minted
// immediately before the dependent call.
type Dispatcher struct {
	provider    Provider
	settleDelay time.Duration
	log         *slog.Logger
}

// DispatcherOption overrides dispatcher defaults.
type DispatcherOption func(*Dispatcher)

// WithSettleDelay overrides the post-mutation wait. Zero disables it.
func WithSettleDelay(d time.Duration) DispatcherOption {
	return func(dp *Dispatcher) {
		if d >= 0 {
			dp.settleDelay = d
		}
	}
}

// NewDispatcher creates an action dispatcher.
func NewDispatcher(provider Provider, log *slog.Logger, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		provider:    provider,
		settleDelay: DefaultSettleDelay,
		log:         log.With(logger.Component("subscription.dispatcher")),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Purchase creates a hosted checkout for the product and returns the URL the
// browser must be sent to. No settle delay applies: the subscription is
// created by the checkout itself, not by this call.
func (d *Dispatcher) Purchase(ctx context.Context, params CheckoutParams) (string, error) {
	url, err := d.provider.CreateCheckout(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%w: create checkout: %w", ErrProviderCall, err)
	}

	d.log.InfoContext(ctx, "checkout created",
		logger.ProductID(params.ProductID),
		slog.String("external_id", params.ExternalCustomerID),
	)
	return url, nil
}

// ChangeTier moves the active subscription to another product.
func (d *Dispatcher) ChangeTier(ctx context.Context, externalID, subscriptionID, productID string) error {
	token, err := d.provider.MintCustomerToken(ctx, externalID)
	if err != nil {
		return fmt.Errorf("%w: mint customer token: %w", ErrProviderCall, err)
	}
	if err := d.provider.ChangeProduct(ctx, token, subscriptionID, productID); err != nil {
		return fmt.Errorf("%w: change product: %w", ErrProviderCall, err)
	}

	d.log.InfoContext(ctx, "subscription tier changed",
		logger.SubscriptionID(subscriptionID),
		logger.ProductID(productID),
	)
	return d.settle(ctx)
}

// Cancel schedules cancellation of the subscription at the period end.
func (d *Dispatcher) Cancel(ctx context.Context, externalID, subscriptionID string) error {
	return d.setCancelFlag(ctx, externalID, subscriptionID, true)
}

// Uncancel undoes a pending period-end cancellation.
func (d *Dispatcher) Uncancel(ctx context.Context, externalID, subscriptionID string) error {
	return d.setCancelFlag(ctx, externalID, subscriptionID, false)
}

func (d *Dispatcher) setCancelFlag(ctx context.Context, externalID, subscriptionID string, cancel bool) error {
	token, err := d.provider.MintCustomerToken(ctx, externalID)
	if err != nil {
		return fmt.Errorf("%w: mint customer token: %w", ErrProviderCall, err)
	}
	if err := d.provider.SetCancelAtPeriodEnd(ctx, token, subscriptionID, cancel); err != nil {
		return fmt.Errorf("%w: set cancel flag: %w", ErrProviderCall, err)
	}

	d.log.InfoContext(ctx, "subscription cancel flag updated",
		logger.SubscriptionID(subscriptionID),
		slog.Bool("cancel_at_period_end", cancel),
	)
	return d.settle(ctx)
}

// Revoke terminates the subscription immediately using the server credential.
func (d *Dispatcher) Revoke(ctx context.Context, subscriptionID string) error {
	if err := d.provider.Revoke(ctx, subscriptionID); err != nil {
		return fmt.Errorf("%w: revoke: %w", ErrProviderCall, err)
	}

	d.log.InfoContext(ctx, "subscription revoked", logger.SubscriptionID(subscriptionID))
	return d.settle(ctx)
}

// settle pauses for the configured delay so the provider's asynchronous
// mutation becomes visible before the caller re-renders entitlement state.
func (d *Dispatcher) settle(ctx context.Context) error {
	if d.settleDelay <= 0 {
		return nil
	}

	timer := time.NewTimer(d.settleDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
