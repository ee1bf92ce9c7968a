package subscription_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vinnie-Palazeti/fast-polar/pkg/polar"
	"github.com/Vinnie-Palazeti/fast-polar/svc/subscription"
)

func newPolarProvider(t *testing.T, handler http.Handler) *subscription.PolarProvider {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := polar.NewClient(polar.Config{
		AccessToken:    "token",
		OrganizationID: "org-1",
	}, polar.WithBaseURL(srv.URL))
	return subscription.NewPolarProvider(client)
}

func TestPolarProvider_CatalogWalksAllPages(t *testing.T) {
	t.Parallel()

	pages := map[string]polar.ProductPage{
		"1": {
			Items:      []polar.Product{{ID: "p1", Prices: []polar.Price{{PriceAmount: 500}}}},
			Pagination: polar.Pagination{TotalCount: 3, MaxPage: 3},
		},
		"2": {
			Items:      []polar.Product{{ID: "p2", Prices: []polar.Price{{PriceAmount: 1500}}}},
			Pagination: polar.Pagination{TotalCount: 3, MaxPage: 3},
		},
		"3": {
			Items:      []polar.Product{{ID: "p3"}},
			Pagination: polar.Pagination{TotalCount: 3, MaxPage: 3},
		},
	}

	provider := newPolarProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, ok := pages[r.URL.Query().Get("page")]
		require.True(t, ok)
		_ = json.NewEncoder(w).Encode(page)
	}))

	catalog, err := provider.Catalog(context.Background())
	require.NoError(t, err)
	require.Len(t, catalog, 3)
	assert.Equal(t, "p1", catalog[0].ID)
	assert.Equal(t, int64(500), catalog[0].PriceAmount)
	assert.Equal(t, "p2", catalog[1].ID)
	assert.Equal(t, "p3", catalog[2].ID)
	assert.Zero(t, catalog[2].PriceAmount)
}

func TestPolarProvider_CustomerState(t *testing.T) {
	t.Parallel()

	t.Run("maps the provider record", func(t *testing.T) {
		t.Parallel()

		provider := newPolarProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(polar.CustomerState{
				ID: "cus-1",
				ActiveSubscriptions: []polar.Subscription{
					{ID: "s1", ProductID: "p1", Status: "active", Amount: 500, CancelAtPeriodEnd: true},
				},
			})
		}))

		state, err := provider.CustomerState(context.Background(), "user-1")
		require.NoError(t, err)
		assert.Equal(t, "cus-1", state.CustomerID)
		require.Len(t, state.Subscriptions, 1)
		assert.True(t, state.Subscriptions[0].CancelAtPeriodEnd)
	})

	t.Run("unknown customer maps to ErrNoCustomer", func(t *testing.T) {
		t.Parallel()

		provider := newPolarProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))

		_, err := provider.CustomerState(context.Background(), "user-1")
		require.ErrorIs(t, err, subscription.ErrNoCustomer)
	})
}

func TestPolarProvider_Mutations(t *testing.T) {
	t.Parallel()

	t.Run("cancel uses the portal delete endpoint", func(t *testing.T) {
		t.Parallel()

		provider := newPolarProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.Equal(t, "/customer-portal/subscriptions/s1", r.URL.Path)
			assert.Equal(t, "Bearer cust-tok", r.Header.Get("Authorization"))
			_ = json.NewEncoder(w).Encode(polar.Subscription{ID: "s1"})
		}))

		require.NoError(t, provider.SetCancelAtPeriodEnd(context.Background(), "cust-tok", "s1", true))
	})

	t.Run("uncancel patches the flag off", func(t *testing.T) {
		t.Parallel()

		provider := newPolarProvider(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPatch, r.Method)

			var req map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, map[string]any{"cancel_at_period_end": false}, req)
			_ = json.NewEncoder(w).Encode(polar.Subscription{ID: "s1"})
		}))

		require.NoError(t, provider.SetCancelAtPeriodEnd(context.Background(), "cust-tok", "s1", false))
	})
}
