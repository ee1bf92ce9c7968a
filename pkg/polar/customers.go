package polar

import (
	"context"
	"errors"
	"net/http"
	"net/url"
)

// CustomerStateByExternalID fetches the provider-side customer state keyed by
// the application user id. A user who has never checked out has no customer
// record; that case is ErrCustomerNotFound.
func (c *Client) CustomerStateByExternalID(ctx context.Context, externalID string) (*CustomerState, error) {
	var out CustomerState
	path := "/customers/external/" + url.PathEscape(externalID) + "/state"
	if err := c.do(ctx, http.MethodGet, path, c.accessToken, nil, &out); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, errors.Join(ErrCustomerNotFound, err)
		}
		return nil, err
	}
	return &out, nil
}

// CreateCustomerSession mints a short-lived customer-scoped token for the
// customer-portal endpoints.
func (c *Client) CreateCustomerSession(ctx context.Context, externalID string) (*CustomerSession, error) {
	req := struct {
		ExternalCustomerID string `json:"external_customer_id"`
	}{ExternalCustomerID: externalID}

	var out CustomerSession
	if err := c.do(ctx, http.MethodPost, "/customer-sessions", c.accessToken, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
