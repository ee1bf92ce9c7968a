package subscription

// ActionKind identifies what a product's call-to-action does.
type ActionKind string

const (
	ActionPurchase   ActionKind = "purchase"
	ActionUncancel   ActionKind = "uncancel"
	ActionCancel     ActionKind = "cancel"
	ActionChangeTier ActionKind = "change_tier"
	ActionNone       ActionKind = "none"
)

// Tier-change labels shown on the button.
const (
	LabelUpgrade   = "Upgrade"
	LabelDowngrade = "Downgrade"
)

// Action is the single applicable UI action for one product given the user's
// current subscription state.
type Action struct {
	Kind           ActionKind
	SubscriptionID string // set for uncancel, cancel, change_tier
	ProductID      string // target product; set for purchase and change_tier
	Label          string // Upgrade or Downgrade for change_tier
}

// DeriveAction computes the action for one product. The decision order is the
// business rule of the whole system: absence of a subscription wins first,
// then the cancellation state of the matching product, and only then the tier
// mismatch. active is nil when the user has no active subscription.
func DeriveAction(product Product, active *Subscription) Action {
	switch {
	case active == nil:
		return Action{Kind: ActionPurchase, ProductID: product.ID}

	case product.ID == active.ProductID && active.CancelAtPeriodEnd:
		return Action{Kind: ActionUncancel, SubscriptionID: active.ID}

	case product.ID == active.ProductID:
		return Action{Kind: ActionCancel, SubscriptionID: active.ID}

	case product.ID != active.ProductID:
		label := LabelDowngrade
		if product.PriceAmount > active.Amount {
			label = LabelUpgrade
		}
		return Action{
			Kind:           ActionChangeTier,
			SubscriptionID: active.ID,
			ProductID:      product.ID,
			Label:          label,
		}
	}

	// Unreachable while a single subscription either matches or not.
	return Action{Kind: ActionNone}
}
