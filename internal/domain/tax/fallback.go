package tax

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// CountryRateFallback computes flat per-item tax from the country/region
// maximum rate table when the validate path is unavailable. Unlike the
// validate path it works at line-item granularity, so the two paths are
// not numerically equivalent for the same order.
type CountryRateFallback struct {
	countries CountriesClient
}

// NewCountryRateFallback creates a fallback computer backed by the given
// countries client.
func NewCountryRateFallback(countries CountriesClient) *CountryRateFallback {
	return &CountryRateFallback{countries: countries}
}

// Compute resolves a flat maximum rate for the order's destination and
// applies it to each line item as adjustedUnitPrice x rate x quantity.
// An order without any usable address yields an empty result, not a
// failure. A countries fetch failure is terminal for the evaluation.
func (f *CountryRateFallback) Compute(ctx context.Context, o *order.Order) (Result, error) {
	addr := o.TaxAddress()
	if addr == nil {
		return Result{}, nil
	}

	countries, err := f.countries.Countries(ctx)
	if err != nil {
		return nil, shared.WrapDomainError(shared.CodeUpstreamUnavailable, "country rate table unavailable", err)
	}

	rate, err := FindRate(countries, addr.CountryCode(), addr.AdministrativeArea())
	if err != nil {
		return nil, err
	}

	result := make(Result, len(o.Items))
	for _, item := range o.Items {
		qty := decimal.NewFromInt(item.Quantity)
		result[item.ID] = item.AdjustedUnitPrice.Mul(rate).Mul(qty).Round(valueobject.MinorUnitPlaces)
	}
	return result, nil
}
