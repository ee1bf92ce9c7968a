package subscription_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/Vinnie-Palazeti/fast-polar/svc/subscription"
)

// fakeProvider is an in-memory Provider that records the order of calls.
type fakeProvider struct {
	mu    sync.Mutex
	calls []string

	catalog     []subscription.Product
	catalogErr  error
	state       *subscription.CustomerState
	stateErr    error
	checkoutURL string
	checkoutErr error
	token       string
	tokenErr    error
	mutationErr error
}

func (f *fakeProvider) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeProvider) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeProvider) Catalog(context.Context) ([]subscription.Product, error) {
	f.record("catalog")
	return f.catalog, f.catalogErr
}

func (f *fakeProvider) CustomerState(_ context.Context, externalID string) (*subscription.CustomerState, error) {
	f.record("state:" + externalID)
	if f.stateErr != nil {
		return nil, f.stateErr
	}
	return f.state, nil
}

func (f *fakeProvider) CreateCheckout(_ context.Context, params subscription.CheckoutParams) (string, error) {
	f.record("checkout:" + params.ProductID)
	return f.checkoutURL, f.checkoutErr
}

func (f *fakeProvider) MintCustomerToken(_ context.Context, externalID string) (string, error) {
	f.record("token:" + externalID)
	return f.token, f.tokenErr
}

func (f *fakeProvider) ChangeProduct(_ context.Context, customerToken, subscriptionID, productID string) error {
	f.record(fmt.Sprintf("change:%s:%s:%s", customerToken, subscriptionID, productID))
	return f.mutationErr
}

func (f *fakeProvider) SetCancelAtPeriodEnd(_ context.Context, customerToken, subscriptionID string, cancel bool) error {
	f.record(fmt.Sprintf("setcancel:%s:%s:%t", customerToken, subscriptionID, cancel))
	return f.mutationErr
}

func (f *fakeProvider) Revoke(_ context.Context, subscriptionID string) error {
	f.record("revoke:" + subscriptionID)
	return f.mutationErr
}
