package valueobject

import (
	"errors"
	"strings"
)

// Address is a postal address value object used as the shipping
// destination on orders. It is immutable after construction.
type Address struct {
	countryCode        string
	administrativeArea string
	locality           string
	postalCode         string
	addressLine1       string
	addressLine2       string
	givenName          string
	familyName         string
}

// NewAddress creates an Address. Country code is required and is
// normalized to upper case.
func NewAddress(countryCode, administrativeArea, locality, postalCode, line1, line2, givenName, familyName string) (Address, error) {
	countryCode = strings.ToUpper(strings.TrimSpace(countryCode))
	if countryCode == "" {
		return Address{}, errors.New("country code cannot be empty")
	}
	return Address{
		countryCode:        countryCode,
		administrativeArea: strings.TrimSpace(administrativeArea),
		locality:           strings.TrimSpace(locality),
		postalCode:         strings.TrimSpace(postalCode),
		addressLine1:       strings.TrimSpace(line1),
		addressLine2:       strings.TrimSpace(line2),
		givenName:          strings.TrimSpace(givenName),
		familyName:         strings.TrimSpace(familyName),
	}, nil
}

// CountryCode returns the two-letter country code
func (a Address) CountryCode() string { return a.countryCode }

// AdministrativeArea returns the region code or name (state, province)
func (a Address) AdministrativeArea() string { return a.administrativeArea }

// Locality returns the city or town name
func (a Address) Locality() string { return a.locality }

// PostalCode returns the postal or ZIP code
func (a Address) PostalCode() string { return a.postalCode }

// AddressLine1 returns the first street address line
func (a Address) AddressLine1() string { return a.addressLine1 }

// AddressLine2 returns the second street address line
func (a Address) AddressLine2() string { return a.addressLine2 }

// GivenName returns the recipient's given name
func (a Address) GivenName() string { return a.givenName }

// FamilyName returns the recipient's family name
func (a Address) FamilyName() string { return a.familyName }

// IsZero returns true if the address has no country code set
func (a Address) IsZero() bool { return a.countryCode == "" }
