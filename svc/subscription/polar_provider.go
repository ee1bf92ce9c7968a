package subscription

import (
	"context"
	"errors"
	"fmt"

	"github.com/Vinnie-Palazeti/fast-polar/pkg/polar"
)

// catalogPageSize is the page size used when walking the product listing.
const catalogPageSize = 100

// PolarProvider adapts the Polar API client to the Provider interface.
type PolarProvider struct {
	client *polar.Client
}

// NewPolarProvider wraps a Polar client.
func NewPolarProvider(client *polar.Client) *PolarProvider {
	return &PolarProvider{client: client}
}

// Catalog walks every page of the product listing so tiers beyond the first
// page still show up in the entitlement view.
func (p *PolarProvider) Catalog(ctx context.Context) ([]Product, error) {
	var products []Product
	for page := 1; ; page++ {
		result, err := p.client.ListProducts(ctx, page, catalogPageSize)
		if err != nil {
			return nil, fmt.Errorf("list products page %d: %w", page, err)
		}
		for _, item := range result.Items {
			products = append(products, Product{
				ID:          item.ID,
				Name:        item.Name,
				Description: item.Description,
				PriceAmount: item.CurrentPriceAmount(),
			})
		}
		if page >= result.Pagination.MaxPage || len(result.Items) == 0 {
			return products, nil
		}
	}
}

func (p *PolarProvider) CustomerState(ctx context.Context, externalID string) (*CustomerState, error) {
	state, err := p.client.CustomerStateByExternalID(ctx, externalID)
	if err != nil {
		if errors.Is(err, polar.ErrCustomerNotFound) {
			return nil, ErrNoCustomer
		}
		return nil, err
	}

	out := &CustomerState{
		CustomerID:    state.ID,
		Subscriptions: make([]Subscription, 0, len(state.ActiveSubscriptions)),
	}
	for _, sub := range state.ActiveSubscriptions {
		out.Subscriptions = append(out.Subscriptions, Subscription{
			ID:                sub.ID,
			ProductID:         sub.ProductID,
			Status:            sub.Status,
			Amount:            sub.Amount,
			CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
		})
	}
	return out, nil
}

func (p *PolarProvider) CreateCheckout(ctx context.Context, params CheckoutParams) (string, error) {
	checkout, err := p.client.CreateCheckout(ctx, polar.CheckoutRequest{
		Products:           []string{params.ProductID},
		SuccessURL:         params.SuccessURL,
		ExternalCustomerID: params.ExternalCustomerID,
		CustomerEmail:      params.CustomerEmail,
	})
	if err != nil {
		return "", err
	}
	return checkout.URL, nil
}

func (p *PolarProvider) MintCustomerToken(ctx context.Context, externalID string) (string, error) {
	session, err := p.client.CreateCustomerSession(ctx, externalID)
	if err != nil {
		return "", err
	}
	return session.Token, nil
}

func (p *PolarProvider) ChangeProduct(ctx context.Context, customerToken, subscriptionID, productID string) error {
	_, err := p.client.UpdateSubscription(ctx, customerToken, subscriptionID,
		polar.SubscriptionUpdate{ProductID: &productID})
	return err
}

// SetCancelAtPeriodEnd maps to two different Polar endpoints: scheduling a
// cancellation is the portal's cancel call, undoing one is a flag update.
func (p *PolarProvider) SetCancelAtPeriodEnd(ctx context.Context, customerToken, subscriptionID string, cancel bool) error {
	if cancel {
		_, err := p.client.CancelSubscription(ctx, customerToken, subscriptionID)
		return err
	}
	_, err := p.client.UpdateSubscription(ctx, customerToken, subscriptionID,
		polar.SubscriptionUpdate{CancelAtPeriodEnd: &cancel})
	return err
}

func (p *PolarProvider) Revoke(ctx context.Context, subscriptionID string) error {
	_, err := p.client.RevokeSubscription(ctx, subscriptionID)
	return err
}
