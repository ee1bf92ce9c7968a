package polar

import (
	"context"
	"net/http"
	"net/url"
)

// SubscriptionUpdate carries the mutable fields of a subscription. Exactly one
// field is set per call: ProductID to switch tiers, CancelAtPeriodEnd to
// schedule or undo a cancellation.
type SubscriptionUpdate struct {
	ProductID         *string `json:"product_id,omitempty"`
	CancelAtPeriodEnd *bool   `json:"cancel_at_period_end,omitempty"`
}

// UpdateSubscription patches a subscription through the customer portal.
// The caller supplies a customer-session token, not the organization token.
func (c *Client) UpdateSubscription(ctx context.Context, customerToken, subscriptionID string, update SubscriptionUpdate) (*Subscription, error) {
	var out Subscription
	path := "/customer-portal/subscriptions/" + url.PathEscape(subscriptionID)
	if err := c.do(ctx, http.MethodPatch, path, customerToken, update, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelSubscription schedules a cancellation at period end through the
// customer portal.
func (c *Client) CancelSubscription(ctx context.Context, customerToken, subscriptionID string) (*Subscription, error) {
	var out Subscription
	path := "/customer-portal/subscriptions/" + url.PathEscape(subscriptionID)
	if err := c.do(ctx, http.MethodDelete, path, customerToken, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RevokeSubscription terminates a subscription immediately. This is the
// organization-scoped endpoint and takes effect without waiting for the
// period end.
func (c *Client) RevokeSubscription(ctx context.Context, subscriptionID string) (*Subscription, error) {
	var out Subscription
	path := "/subscriptions/" + url.PathEscape(subscriptionID)
	if err := c.do(ctx, http.MethodDelete, path, c.accessToken, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
