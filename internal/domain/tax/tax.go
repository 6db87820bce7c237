package tax

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrValidateUnavailable indicates the tax validate endpoint failed at
	// the transport or HTTP level. Recoverable via the country-rate path.
	ErrValidateUnavailable = errors.New("tax: validate endpoint unavailable")
	// ErrCountriesUnavailable indicates the country-rate endpoint failed.
	// Terminal for the whole tax evaluation.
	ErrCountriesUnavailable = errors.New("tax: countries endpoint unavailable")
	// ErrEmptyResult indicates the validate endpoint answered without a
	// usable result body
	ErrEmptyResult = errors.New("tax: validate returned empty result")
	// ErrInvalidResponse indicates a response body that could not be decoded
	ErrInvalidResponse = errors.New("tax: invalid response body")
)

// Result maps line-item IDs to non-negative tax amounts. A result is
// produced wholly by one computation path, never assembled from both.
type Result map[uuid.UUID]decimal.Decimal

// Total returns the sum of all per-item tax amounts
func (r Result) Total() decimal.Decimal {
	total := decimal.Zero
	for _, amount := range r {
		total = total.Add(amount)
	}
	return total
}

// ValidateClient calls the per-line-item tax validation endpoint
type ValidateClient interface {
	// ValidateOrder submits the full unit-line batch for one order
	ValidateOrder(ctx context.Context, req *ValidateRequest) (*ValidateResponse, error)
}

// CountriesClient fetches the flat country/region maximum tax rate table
type CountriesClient interface {
	Countries(ctx context.Context) ([]Country, error)
}
