package subscription_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vinnie-Palazeti/fast-polar/svc/subscription"
)

func newDispatcher(provider *fakeProvider) *subscription.Dispatcher {
	return subscription.NewDispatcher(provider, discardLogger(), subscription.WithSettleDelay(0))
}

func TestDispatcher_Purchase(t *testing.T) {
	t.Parallel()

	t.Run("returns the checkout url", func(t *testing.T) {
		t.Parallel()

		provider := &fakeProvider{checkoutURL: "https://polar.sh/checkout/chk-1"}
		d := newDispatcher(provider)

		url, err := d.Purchase(context.Background(), subscription.CheckoutParams{
			ProductID:          "p1",
			ExternalCustomerID: "user-1",
			CustomerEmail:      "alice@example.com",
		})
		require.NoError(t, err)
		assert.Equal(t, "https://polar.sh/checkout/chk-1", url)
		assert.Equal(t, []string{"checkout:p1"}, provider.Calls())
	})

	t.Run("propagates checkout failure", func(t *testing.T) {
		t.Parallel()

		provider := &fakeProvider{checkoutErr: errors.New("declined")}
		d := newDispatcher(provider)

		_, err := d.Purchase(context.Background(), subscription.CheckoutParams{ProductID: "p1"})
		require.ErrorIs(t, err, subscription.ErrProviderCall)
	})
}

func TestDispatcher_ChangeTier(t *testing.T) {
	t.Parallel()

	t.Run("mints the token before the mutation", func(t *testing.T) {
		t.Parallel()

		provider := &fakeProvider{token: "tok-1"}
		d := newDispatcher(provider)

		require.NoError(t, d.ChangeTier(context.Background(), "user-1", "s1", "p2"))
		assert.Equal(t, []string{"token:user-1", "change:tok-1:s1:p2"}, provider.Calls())
	})

	t.Run("token failure skips the mutation", func(t *testing.T) {
		t.Parallel()

		provider := &fakeProvider{tokenErr: errors.New("no session")}
		d := newDispatcher(provider)

		err := d.ChangeTier(context.Background(), "user-1", "s1", "p2")
		require.ErrorIs(t, err, subscription.ErrProviderCall)
		assert.Equal(t, []string{"token:user-1"}, provider.Calls())
	})

	t.Run("mutation failure propagates", func(t *testing.T) {
		t.Parallel()

		provider := &fakeProvider{token: "tok-1", mutationErr: errors.New("conflict")}
		d := newDispatcher(provider)

		err := d.ChangeTier(context.Background(), "user-1", "s1", "p2")
		require.ErrorIs(t, err, subscription.ErrProviderCall)
	})
}

func TestDispatcher_CancelUncancel(t *testing.T) {
	t.Parallel()

	t.Run("cancel sets the flag", func(t *testing.T) {
		t.Parallel()

		provider := &fakeProvider{token: "tok-1"}
		d := newDispatcher(provider)

		require.NoError(t, d.Cancel(context.Background(), "user-1", "s1"))
		assert.Equal(t, []string{"token:user-1", "setcancel:tok-1:s1:true"}, provider.Calls())
	})

	t.Run("uncancel clears the flag", func(t *testing.T) {
		t.Parallel()

		provider := &fakeProvider{token: "tok-1"}
		d := newDispatcher(provider)

		require.NoError(t, d.Uncancel(context.Background(), "user-1", "s1"))
		assert.Equal(t, []string{"token:user-1", "setcancel:tok-1:s1:false"}, provider.Calls())
	})
}

func TestDispatcher_Revoke(t *testing.T) {
	t.Parallel()

	// Revoke runs under the server credential, so no token is minted.
	provider := &fakeProvider{}
	d := newDispatcher(provider)

	require.NoError(t, d.Revoke(context.Background(), "s1"))
	assert.Equal(t, []string{"revoke:s1"}, provider.Calls())
}

func TestDispatcher_SettleDelay(t *testing.T) {
	t.Parallel()

	t.Run("waits after a successful mutation", func(t *testing.T) {
		t.Parallel()

		provider := &fakeProvider{token: "tok-1"}
		d := subscription.NewDispatcher(provider, discardLogger(),
			subscription.WithSettleDelay(30*time.Millisecond))

		start := time.Now()
		require.NoError(t, d.Cancel(context.Background(), "user-1", "s1"))
		assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
	})

	t.Run("context cancellation cuts the wait short", func(t *testing.T) {
		t.Parallel()

		provider := &fakeProvider{token: "tok-1"}
		d := subscription.NewDispatcher(provider, discardLogger(),
			subscription.WithSettleDelay(5*time.Second))

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		start := time.Now()
		err := d.Cancel(ctx, "user-1", "s1")
		require.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Less(t, time.Since(start), time.Second)
	})
}
