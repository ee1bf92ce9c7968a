package subscription

import "errors"

var (
	// ErrNoCustomer indicates the billing provider has no customer record for
	// the external id. Normal for users who never checked out.
	ErrNoCustomer = errors.New("no billing customer")

	// ErrProviderCall wraps a failed billing-provider mutation. Read-path
	// failures never carry it; the resolver degrades those to empty state.
	ErrProviderCall = errors.New("billing provider call failed")
)
