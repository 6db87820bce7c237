package promotion

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/order"
)

// OfferKind classifies how a promotion discounts an order
type OfferKind string

const (
	// OfferOrderFixed takes a fixed amount off the whole order
	OfferOrderFixed OfferKind = "order_fixed"
	// OfferOrderPercentage takes a percentage off the whole order
	OfferOrderPercentage OfferKind = "order_percentage"
	// OfferItemFixed takes a fixed amount off each eligible item's unit price
	OfferItemFixed OfferKind = "item_fixed"
	// OfferItemPercentage takes a percentage off each eligible item's unit price
	OfferItemPercentage OfferKind = "item_percentage"
	// OfferBuyXGetY is excluded from discount proration entirely
	OfferBuyXGetY OfferKind = "buy_x_get_y"
)

// IsValid checks if the kind is a known OfferKind
func (k OfferKind) IsValid() bool {
	switch k {
	case OfferOrderFixed, OfferOrderPercentage, OfferItemFixed, OfferItemPercentage, OfferBuyXGetY:
		return true
	}
	return false
}

// IsOrderLevel reports whether the offer applies to the order as a whole
func (k OfferKind) IsOrderLevel() bool {
	return k == OfferOrderFixed || k == OfferOrderPercentage
}

// Offer is one active promotion on an order. Exactly one discount mode
// is carried per offer: Amount for fixed kinds, Percentage (a fraction,
// 0.10 for ten percent) for percentage kinds.
type Offer struct {
	Code       string
	Label      string
	Kind       OfferKind
	Amount     decimal.Decimal
	Percentage decimal.Decimal
}

// Eligibility decides which line items an item-level offer applies to.
// The promotion engine evaluating conditions lives outside this core.
type Eligibility interface {
	// Applies reports whether the offer covers the given line item
	Applies(ctx context.Context, offer Offer, item *order.LineItem) (bool, error)
}

// EligibilityFunc adapts a function to the Eligibility interface
type EligibilityFunc func(ctx context.Context, offer Offer, item *order.LineItem) (bool, error)

// Applies implements Eligibility
func (f EligibilityFunc) Applies(ctx context.Context, offer Offer, item *order.LineItem) (bool, error) {
	return f(ctx, offer, item)
}

// AllItemsEligible treats every line item as covered by every offer
var AllItemsEligible Eligibility = EligibilityFunc(func(context.Context, Offer, *order.LineItem) (bool, error) {
	return true, nil
})
