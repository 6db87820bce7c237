package tax

import "github.com/storefront/backend/internal/domain/shared/valueobject"

// MarketplaceMapping maps stores and currencies to external marketplace
// ids. Read-only configuration input; the store-id mapping wins over the
// currency mapping when both match.
type MarketplaceMapping struct {
	ByStoreID  map[string]string
	ByCurrency map[valueobject.Currency]string
}

// Resolve returns the marketplace id for the given store and currency,
// or false when neither mapping matches.
func (m MarketplaceMapping) Resolve(storeID string, currency valueobject.Currency) (string, bool) {
	if id, ok := m.ByStoreID[storeID]; ok && id != "" {
		return id, true
	}
	if id, ok := m.ByCurrency[currency]; ok && id != "" {
		return id, true
	}
	return "", false
}
