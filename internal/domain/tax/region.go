package tax

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
)

// ResolveRegionCode normalizes the administrative area of an address
// into a short region code for the validate request. Codes up to three
// characters pass through as-is. Longer values are treated as region
// names and matched case-insensitively against the country's rate rows.
// Unresolvable regions fall back to the RegionSentinel.
func ResolveRegionCode(countryCode, administrativeArea string, countries []Country) string {
	area := strings.TrimSpace(administrativeArea)
	if area != "" && len(area) <= 3 {
		return area
	}
	if area == "" {
		return RegionSentinel
	}

	country, ok := findCountry(countries, countryCode)
	if !ok {
		return RegionSentinel
	}
	for _, region := range country.Regions {
		if strings.EqualFold(region.Name, area) || strings.EqualFold(region.Abbreviation, area) {
			if region.Abbreviation != "" && region.Abbreviation != NoRegionKey {
				return region.Abbreviation
			}
		}
	}
	return RegionSentinel
}

// FindRate resolves the maximum tax rate for a country/region pair.
// Resolution order: exact two-letter country match, then
// case-insensitive region abbreviation, then case-insensitive region
// name, then the country's no-region row. An unmatched pair is a
// DATA_UNRESOLVABLE error naming the pair.
func FindRate(countries []Country, countryCode, region string) (decimal.Decimal, error) {
	country, ok := findCountry(countries, countryCode)
	if !ok {
		return decimal.Zero, shared.NewDomainError(shared.CodeDataUnresolvable,
			fmt.Sprintf("no tax rate data for country %q", countryCode))
	}

	for _, r := range country.Regions {
		if strings.EqualFold(r.Abbreviation, region) && r.Abbreviation != NoRegionKey {
			return r.MaxTaxRate, nil
		}
	}
	for _, r := range country.Regions {
		if strings.EqualFold(r.Name, region) {
			return r.MaxTaxRate, nil
		}
	}
	for _, r := range country.Regions {
		if r.Abbreviation == NoRegionKey {
			return r.MaxTaxRate, nil
		}
	}
	return decimal.Zero, shared.NewDomainError(shared.CodeDataUnresolvable,
		fmt.Sprintf("no tax rate for country %q region %q", countryCode, region))
}

func findCountry(countries []Country, countryCode string) (Country, bool) {
	for _, c := range countries {
		if c.Abbreviations.Two == strings.ToUpper(strings.TrimSpace(countryCode)) {
			return c, true
		}
	}
	return Country{}, false
}
