// Package subscription derives entitlement state and executes subscription
// lifecycle actions against the billing provider. The provider owns all
// billing state; this package reads it fresh on every view and requests
// mutations through a narrow Provider interface.
package subscription

import "context"

// Product is a purchasable catalog entry. PriceAmount is the recurring price
// in minor units (cents).
type Product struct {
	ID          string
	Name        string
	Description string
	PriceAmount int64
}

// Subscription is the provider's view of a customer subscription.
type Subscription struct {
	ID                string
	ProductID         string
	Status            string
	Amount            int64
	CancelAtPeriodEnd bool
}

// StatusActive is the only status that grants entitlement.
const StatusActive = "active"

// CustomerState is the provider-side customer record for one user, looked up
// by the user's external id.
type CustomerState struct {
	CustomerID    string
	Subscriptions []Subscription
}

// ActiveSubscription returns the customer's single active subscription, or
// false when none of the reported subscriptions is active. The provider
// guarantees at most one; the first match wins regardless.
func (s CustomerState) ActiveSubscription() (Subscription, bool) {
	for _, sub := range s.Subscriptions {
		if sub.Status == StatusActive {
			return sub, true
		}
	}
	return Subscription{}, false
}

// CheckoutParams describes a checkout request for one product.
type CheckoutParams struct {
	ProductID          string
	ExternalCustomerID string
	CustomerEmail      string
	SuccessURL         string
}

// Provider is the billing-provider surface this package consumes.
type Provider interface {
	// Catalog returns the complete non-archived product catalog.
	Catalog(ctx context.Context) ([]Product, error)

	// CustomerState returns the provider's record for the external id, or
	// ErrNoCustomer when the user has never checked out.
	CustomerState(ctx context.Context, externalID string) (*CustomerState, error)

	// CreateCheckout creates a hosted checkout and returns its URL.
	CreateCheckout(ctx context.Context, params CheckoutParams) (string, error)

	// MintCustomerToken creates a short-lived customer-scoped credential for
	// the portal mutation calls.
	MintCustomerToken(ctx context.Context, externalID string) (string, error)

	// ChangeProduct moves the subscription to another product.
	ChangeProduct(ctx context.Context, customerToken, subscriptionID, productID string) error

	// SetCancelAtPeriodEnd schedules or undoes a period-end cancellation.
	SetCancelAtPeriodEnd(ctx context.Context, customerToken, subscriptionID string, cancel bool) error

	// Revoke terminates the subscription immediately with the server
	// credential.
	Revoke(ctx context.Context, subscriptionID string) error
}
