package tax

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
)

// LineProration carries the per-unit amounts prorated onto one line
// item. Both slices, when present, must have exactly one entry per unit.
type LineProration struct {
	UnitDiscounts []decimal.Decimal
	UnitShipping  []decimal.Decimal
}

// BuildValidateRequest assembles the order-level validate request body.
// One request item is emitted per physical unit of every prorated line
// item, each carrying its unit price, its prorated discount share, and
// its prorated shipping share. Items absent from prorations are skipped.
func BuildValidateRequest(o *order.Order, marketplaceID string, prorations map[uuid.UUID]LineProration, countries []Country) (*ValidateRequest, error) {
	if marketplaceID == "" {
		return nil, shared.NewDomainError(shared.CodeConfigurationMissing, "marketplace id is required")
	}
	addr := o.TaxAddress()
	if addr == nil {
		return nil, shared.InvalidArgument("order has no shipping or billing address")
	}

	req := &ValidateRequest{
		MarketplaceID: marketplaceID,
		ShippingAddress: RequestAddress{
			Line1:    addr.AddressLine1(),
			Line2:    addr.AddressLine2(),
			City:     addr.Locality(),
			PostCode: addr.PostalCode(),
			Region:   ResolveRegionCode(addr.CountryCode(), addr.AdministrativeArea(), countries),
			Country:  addr.CountryCode(),
		},
		Customer: RequestCustomer{
			Firstname: addr.GivenName(),
			Lastname:  addr.FamilyName(),
			Email:     o.Email,
		},
	}

	for _, item := range o.Items {
		proration, ok := prorations[item.ID]
		if !ok {
			continue
		}
		if proration.UnitDiscounts != nil && int64(len(proration.UnitDiscounts)) != item.Quantity {
			return nil, shared.InvalidArgument(fmt.Sprintf("item %s has %d discount shares for %d units", item.ID, len(proration.UnitDiscounts), item.Quantity))
		}
		if proration.UnitShipping != nil && int64(len(proration.UnitShipping)) != item.Quantity {
			return nil, shared.InvalidArgument(fmt.Sprintf("item %s has %d shipping shares for %d units", item.ID, len(proration.UnitShipping), item.Quantity))
		}

		for unit := int64(0); unit < item.Quantity; unit++ {
			line := RequestItem{
				Product: RequestProduct{
					Name: item.ProductName,
					Variant: RequestVariant{
						Name:  item.ProductName,
						RefID: item.ID.String(),
					},
				},
				Quantity: 1,
				Pricing: RequestPricing{
					UnitPrice:    item.UnitPrice,
					Discounts:    []RequestDiscount{},
					ShippingFees: []RequestFee{},
				},
			}
			if proration.UnitDiscounts != nil && !proration.UnitDiscounts[unit].IsZero() {
				line.Pricing.Discounts = append(line.Pricing.Discounts, RequestDiscount{
					Code:        "discount",
					Name:        "Discount",
					Description: "Prorated order and item discounts",
					Amount:      proration.UnitDiscounts[unit],
				})
			}
			if proration.UnitShipping != nil && !proration.UnitShipping[unit].IsZero() {
				line.Pricing.ShippingFees = append(line.Pricing.ShippingFees, RequestFee{
					Name:   "shipping",
					Amount: proration.UnitShipping[unit],
				})
			}
			req.Items = append(req.Items, line)
		}
	}

	if len(req.Items) == 0 {
		return nil, shared.InvalidArgument("no line items to validate")
	}
	return req, nil
}

// AccumulateResult folds the validate response back into a per-item tax
// map. Unit lines repeating a variantRefId accumulate rather than
// overwrite. Unparseable refIds are skipped.
func AccumulateResult(resp *ValidateResponse) (Result, error) {
	if resp == nil || resp.Result == nil || len(resp.Result.Items) == 0 {
		return nil, ErrEmptyResult
	}

	result := make(Result)
	for _, line := range resp.Result.Items {
		itemID, err := uuid.Parse(line.VariantRefID)
		if err != nil {
			continue
		}
		lineTax := decimal.Zero
		for _, t := range line.Pricing.Taxes {
			lineTax = lineTax.Add(t.Amount)
		}
		result[itemID] = result[itemID].Add(lineTax)
	}
	if len(result) == 0 {
		return nil, ErrEmptyResult
	}
	return result, nil
}
