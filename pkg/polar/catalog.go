package polar

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ListProducts fetches one page of the organization's product catalog.
func (c *Client) ListProducts(ctx context.Context, page, limit int) (*ProductPage, error) {
	query := url.Values{}
	query.Set("organization_id", c.orgID)
	query.Set("is_archived", "false")
	query.Set("page", fmt.Sprint(page))
	query.Set("limit", fmt.Sprint(limit))

	var out ProductPage
	if err := c.do(ctx, http.MethodGet, "/products?"+query.Encode(), c.accessToken, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateCheckout creates a provider-hosted checkout session and returns its
// URL for the browser redirect.
func (c *Client) CreateCheckout(ctx context.Context, req CheckoutRequest) (*Checkout, error) {
	var out Checkout
	if err := c.do(ctx, http.MethodPost, "/checkouts", c.accessToken, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
