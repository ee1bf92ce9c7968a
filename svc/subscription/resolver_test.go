package subscription_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vinnie-Palazeti/fast-polar/svc/subscription"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func twoTierCatalog() []subscription.Product {
	return []subscription.Product{
		{ID: "p1", Name: "Basic", PriceAmount: 500},
		{ID: "p2", Name: "Pro", PriceAmount: 1500},
	}
}

func actionsByProduct(ent subscription.Entitlement) map[string]subscription.Action {
	out := make(map[string]subscription.Action, len(ent.Offers))
	for _, offer := range ent.Offers {
		out[offer.Product.ID] = offer.Action
	}
	return out
}

func TestResolver_Resolve(t *testing.T) {
	t.Parallel()

	t.Run("no subscription makes every product purchasable", func(t *testing.T) {
		t.Parallel()

		provider := &fakeProvider{
			catalog:  twoTierCatalog(),
			stateErr: subscription.ErrNoCustomer,
		}
		resolver := subscription.NewResolver(provider, discardLogger())

		ent, err := resolver.Resolve(context.Background(), "user-1")
		require.NoError(t, err)
		assert.False(t, ent.Subscribed())
		assert.Empty(t, ent.CustomerID)

		actions := actionsByProduct(ent)
		assert.Equal(t, subscription.ActionPurchase, actions["p1"].Kind)
		assert.Equal(t, subscription.ActionPurchase, actions["p2"].Kind)
	})

	t.Run("active subscription splits cancel and upgrade", func(t *testing.T) {
		t.Parallel()

		provider := &fakeProvider{
			catalog: twoTierCatalog(),
			state: &subscription.CustomerState{
				CustomerID: "cus-1",
				Subscriptions: []subscription.Subscription{
					{ID: "s1", ProductID: "p1", Status: "active", Amount: 500},
				},
			},
		}
		resolver := subscription.NewResolver(provider, discardLogger())

		ent, err := resolver.Resolve(context.Background(), "user-1")
		require.NoError(t, err)
		assert.True(t, ent.Subscribed())
		assert.Equal(t, "cus-1", ent.CustomerID)

		actions := actionsByProduct(ent)
		assert.Equal(t, subscription.Action{Kind: subscription.ActionCancel, SubscriptionID: "s1"}, actions["p1"])
		assert.Equal(t, subscription.Action{
			Kind:           subscription.ActionChangeTier,
			SubscriptionID: "s1",
			ProductID:      "p2",
			Label:          subscription.LabelUpgrade,
		}, actions["p2"])
	})

	t.Run("pending cancellation splits uncancel and change tier", func(t *testing.T) {
		t.Parallel()

		provider := &fakeProvider{
			catalog: twoTierCatalog(),
			state: &subscription.CustomerState{
				CustomerID: "cus-1",
				Subscriptions: []subscription.Subscription{
					{ID: "s1", ProductID: "p1", Status: "active", Amount: 500, CancelAtPeriodEnd: true},
				},
			},
		}
		resolver := subscription.NewResolver(provider, discardLogger())

		ent, err := resolver.Resolve(context.Background(), "user-1")
		require.NoError(t, err)

		actions := actionsByProduct(ent)
		assert.Equal(t, subscription.ActionUncancel, actions["p1"].Kind)
		assert.Equal(t, subscription.ActionChangeTier, actions["p2"].Kind)
	})

	t.Run("customer state failure degrades to empty state", func(t *testing.T) {
		t.Parallel()

		provider := &fakeProvider{
			catalog:  twoTierCatalog(),
			stateErr: errors.New("provider is down"),
		}
		resolver := subscription.NewResolver(provider, discardLogger())

		ent, err := resolver.Resolve(context.Background(), "user-1")
		require.NoError(t, err)
		assert.False(t, ent.Subscribed())
		for _, offer := range ent.Offers {
			assert.Equal(t, subscription.ActionPurchase, offer.Action.Kind)
		}
	})

	t.Run("catalog failure fails the resolve", func(t *testing.T) {
		t.Parallel()

		provider := &fakeProvider{catalogErr: errors.New("catalog unavailable")}
		resolver := subscription.NewResolver(provider, discardLogger())

		_, err := resolver.Resolve(context.Background(), "user-1")
		require.Error(t, err)
	})

	t.Run("non-active subscriptions do not grant entitlement", func(t *testing.T) {
		t.Parallel()

		provider := &fakeProvider{
			catalog: twoTierCatalog(),
			state: &subscription.CustomerState{
				CustomerID: "cus-1",
				Subscriptions: []subscription.Subscription{
					{ID: "s1", ProductID: "p1", Status: "past_due"},
				},
			},
		}
		resolver := subscription.NewResolver(provider, discardLogger())

		ent, err := resolver.Resolve(context.Background(), "user-1")
		require.NoError(t, err)
		assert.False(t, ent.Subscribed())
		assert.Equal(t, "cus-1", ent.CustomerID)
	})
}
