package promotion

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// Allocator computes per-line-item discount amounts from order-level and
// item-level offers. Allocation is pure; it never mutates the order.
type Allocator struct {
	eligibility Eligibility
}

// NewAllocator creates an Allocator using the given eligibility
// predicate for item-level offers.
func NewAllocator(eligibility Eligibility) *Allocator {
	if eligibility == nil {
		eligibility = AllItemsEligible
	}
	return &Allocator{eligibility: eligibility}
}

// AllocateOrderDiscount distributes a whole-order offer across line
// items. A fixed amount is clamped to the subtotal, converted to an
// effective percentage, and applied per item as unitPrice x quantity x
// percentage rounded to two places. Buy-x-get-y offers allocate nothing.
func (a *Allocator) AllocateOrderDiscount(offer Offer, items []*order.LineItem) (map[uuid.UUID]decimal.Decimal, error) {
	result := make(map[uuid.UUID]decimal.Decimal, len(items))
	for _, item := range items {
		result[item.ID] = decimal.Zero
	}
	if offer.Kind == OfferBuyXGetY {
		return result, nil
	}
	if !offer.Kind.IsOrderLevel() {
		return nil, shared.InvalidArgument(fmt.Sprintf("offer kind %q is not order-level", offer.Kind))
	}

	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Total())
	}
	if subtotal.IsZero() {
		return result, nil
	}

	var pct decimal.Decimal
	switch offer.Kind {
	case OfferOrderFixed:
		amount := offer.Amount
		if amount.GreaterThan(subtotal) {
			amount = subtotal
		}
		pct = amount.Div(subtotal)
	case OfferOrderPercentage:
		pct = offer.Percentage
	}

	for _, item := range items {
		result[item.ID] = item.Total().Mul(pct).Round(valueobject.MinorUnitPlaces)
	}
	return result, nil
}

// AllocateItemDiscount computes the per-unit discount an item-level
// offer grants the given item. A fixed amount is clamped to the unit
// price so the price cannot go negative. Ineligible items and
// buy-x-get-y offers allocate zero.
func (a *Allocator) AllocateItemDiscount(ctx context.Context, offer Offer, item *order.LineItem) (decimal.Decimal, error) {
	if offer.Kind == OfferBuyXGetY {
		return decimal.Zero, nil
	}
	if offer.Kind.IsOrderLevel() || !offer.Kind.IsValid() {
		return decimal.Zero, shared.InvalidArgument(fmt.Sprintf("offer kind %q is not item-level", offer.Kind))
	}

	eligible, err := a.eligibility.Applies(ctx, offer, item)
	if err != nil {
		return decimal.Zero, fmt.Errorf("evaluating offer %s eligibility: %w", offer.Code, err)
	}
	if !eligible {
		return decimal.Zero, nil
	}

	switch offer.Kind {
	case OfferItemFixed:
		amount := offer.Amount
		if amount.GreaterThan(item.UnitPrice) {
			amount = item.UnitPrice
		}
		return amount.Round(valueobject.MinorUnitPlaces), nil
	case OfferItemPercentage:
		return item.UnitPrice.Mul(offer.Percentage).Round(valueobject.MinorUnitPlaces), nil
	}
	return decimal.Zero, nil
}

// PerUnit prorates a line-item level amount down to individual units
// without cent drift. Shares follow the money split residual policy.
func PerUnit(amount decimal.Decimal, quantity int64, currency valueobject.Currency) ([]decimal.Decimal, error) {
	money, err := valueobject.NewMoney(amount, currency)
	if err != nil {
		return nil, err
	}
	shares, err := money.Split(int(quantity))
	if err != nil {
		return nil, err
	}
	out := make([]decimal.Decimal, len(shares))
	for i, s := range shares {
		out[i] = s.Amount()
	}
	return out, nil
}
