package polar

// Product is a catalog entry as Polar reports it. Prices holds the price
// history; the first entry is the current one.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	IsArchived  bool    `json:"is_archived"`
	Prices      []Price `json:"prices"`
}

// Price is a single price point in minor units (cents).
type Price struct {
	ID          string `json:"id"`
	PriceAmount int64  `json:"price_amount"`
	Currency    string `json:"price_currency"`
}

// CurrentPriceAmount returns the product's current price in minor units, or 0
// when the product carries no price.
func (p Product) CurrentPriceAmount() int64 {
	if len(p.Prices) == 0 {
		return 0
	}
	return p.Prices[0].PriceAmount
}

// Pagination is Polar's list envelope metadata.
type Pagination struct {
	TotalCount int `json:"total_count"`
	MaxPage    int `json:"max_page"`
}

// ProductPage is one page of the product listing.
type ProductPage struct {
	Items      []Product  `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// Subscription is a customer's subscription as reported by the customer state
// endpoint. Amount is the recurring charge in minor units.
type Subscription struct {
	ID                string `json:"id"`
	ProductID         string `json:"product_id"`
	Status            string `json:"status"`
	Amount            int64  `json:"amount"`
	CancelAtPeriodEnd bool   `json:"cancel_at_period_end"`
}

// CustomerState is the provider-side view of a customer keyed by the external
// (application) id.
type CustomerState struct {
	ID                  string         `json:"id"`
	Email               string         `json:"email"`
	ExternalID          string         `json:"external_id"`
	ActiveSubscriptions []Subscription `json:"active_subscriptions"`
}

// Checkout is a provider-hosted checkout session.
type Checkout struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CheckoutRequest creates a checkout for one product on behalf of a user.
// ExternalCustomerID binds the resulting Polar customer to the application's
// user id.
type CheckoutRequest struct {
	Products           []string `json:"products"`
	SuccessURL         string   `json:"success_url"`
	ExternalCustomerID string   `json:"external_customer_id"`
	CustomerEmail      string   `json:"customer_email"`
}

// CustomerSession is a short-lived customer-scoped credential required by the
// customer-portal endpoints.
type CustomerSession struct {
	Token string `json:"token"`
}
