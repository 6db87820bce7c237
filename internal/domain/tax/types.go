package tax

import "github.com/shopspring/decimal"

// RegionSentinel is sent when no region code can be resolved for the
// shipping address.
const RegionSentinel = "N/A"

// NoRegionKey marks the rate row used by countries without sub-national
// tax bands.
const NoRegionKey = "0"

// ValidateRequest is the order-level body for the tax validate endpoint.
// It carries one item entry per physical unit, not per line item.
type ValidateRequest struct {
	MarketplaceID   string          `json:"marketplaceId"`
	ShippingAddress RequestAddress  `json:"shippingAddress"`
	Items           []RequestItem   `json:"items"`
	Customer        RequestCustomer `json:"customer"`
}

// RequestAddress is the shipping destination block of a validate request
type RequestAddress struct {
	Line1    string `json:"line1"`
	Line2    string `json:"line2"`
	City     string `json:"city"`
	PostCode string `json:"postCode"`
	Region   string `json:"region"`
	Country  string `json:"country"`
}

// RequestItem is one unit's worth of product and pricing
type RequestItem struct {
	Product  RequestProduct `json:"product"`
	Quantity int64          `json:"quantity"`
	Pricing  RequestPricing `json:"pricing"`
}

// RequestProduct identifies the product a unit belongs to. The variant
// refId ties response taxes back to the owning line item.
type RequestProduct struct {
	Name    string         `json:"name"`
	Variant RequestVariant `json:"variant"`
}

// RequestVariant carries the line-item reference id
type RequestVariant struct {
	Name  string `json:"name"`
	RefID string `json:"refId"`
}

// RequestPricing carries the unit price plus prorated per-unit discount
// and shipping entries
type RequestPricing struct {
	UnitPrice    decimal.Decimal   `json:"unitPrice"`
	Discounts    []RequestDiscount `json:"discounts"`
	ShippingFees []RequestFee      `json:"shippingFees"`
}

// RequestDiscount is one prorated discount entry on a unit
type RequestDiscount struct {
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// RequestFee is one prorated fee entry on a unit
type RequestFee struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// RequestCustomer identifies the purchasing customer
type RequestCustomer struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
}

// ValidateResponse is the envelope returned by the validate endpoint
type ValidateResponse struct {
	Result *ValidateResult `json:"result"`
}

// ValidateResult carries per-unit tax lines and the card statement text
type ValidateResult struct {
	Items               []ResultItem `json:"items"`
	StatementDescriptor string       `json:"statementDescriptor"`
}

// ResultItem is one unit line of the validate response. Lines repeat a
// variantRefId once per unit; their tax amounts accumulate per item.
type ResultItem struct {
	VariantRefID string        `json:"variantRefId"`
	Pricing      ResultPricing `json:"pricing"`
}

// ResultPricing carries the tax components computed for a unit
type ResultPricing struct {
	Taxes []ResultTax `json:"taxes"`
}

// ResultTax is one tax component amount
type ResultTax struct {
	Amount decimal.Decimal `json:"amount"`
}

// Country is one row of the country-rate table
type Country struct {
	Abbreviations CountryAbbreviations `json:"abbreviations"`
	Regions       []Region             `json:"regions"`
}

// CountryAbbreviations holds the country's code forms
type CountryAbbreviations struct {
	Two string `json:"two"`
}

// Region is one sub-national tax band. The NoRegionKey abbreviation
// marks the single row of countries without regional bands.
type Region struct {
	Abbreviation string          `json:"abbreviation"`
	Name         string          `json:"name"`
	MaxTaxRate   decimal.Decimal `json:"maxTaxRate"`
}
