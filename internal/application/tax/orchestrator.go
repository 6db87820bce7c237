package tax

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/promotion"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/domain/tax"
)

// ProfileResolver resolves the customer address an item's tax should be
// computed against. Items resolving to nil are skipped from tax
// evaluation without failing the order.
type ProfileResolver interface {
	ResolveProfile(ctx context.Context, o *order.Order, item *order.LineItem) (*valueobject.Address, error)
}

// OrderAddressResolver resolves every item to the order's own address,
// preferring shipping over billing.
type OrderAddressResolver struct{}

// ResolveProfile implements ProfileResolver
func (OrderAddressResolver) ResolveProfile(ctx context.Context, o *order.Order, item *order.LineItem) (*valueobject.Address, error) {
	return o.TaxAddress(), nil
}

// Orchestrator evaluates an order's tax, trying the per-line-item
// validate endpoint first and the flat country-rate fallback on failure
// or empty data. Exactly one path's result is ever returned.
type Orchestrator struct {
	validate     tax.ValidateClient
	countries    tax.CountriesClient
	fallback     *tax.CountryRateFallback
	allocator    *promotion.Allocator
	profiles     ProfileResolver
	marketplaces tax.MarketplaceMapping
	logger       *zap.Logger
}

// NewOrchestrator creates a tax Orchestrator
func NewOrchestrator(
	validate tax.ValidateClient,
	countries tax.CountriesClient,
	allocator *promotion.Allocator,
	profiles ProfileResolver,
	marketplaces tax.MarketplaceMapping,
	logger *zap.Logger,
) *Orchestrator {
	if profiles == nil {
		profiles = OrderAddressResolver{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		validate:     validate,
		countries:    countries,
		fallback:     tax.NewCountryRateFallback(countries),
		allocator:    allocator,
		profiles:     profiles,
		marketplaces: marketplaces,
		logger:       logger,
	}
}

// Evaluate computes per-item tax for the order. Missing profiles and a
// missing marketplace mapping are configuration gaps, not failures, and
// yield an empty result. Validate-path transport failures and empty
// validate results route to the country-rate fallback, whose own errors
// are terminal.
func (oc *Orchestrator) Evaluate(ctx context.Context, o *order.Order, offers []promotion.Offer) (tax.Result, error) {
	resolved := make([]*order.LineItem, 0, len(o.Items))
	for _, item := range o.Items {
		addr, err := oc.profiles.ResolveProfile(ctx, o, item)
		if err != nil {
			return nil, err
		}
		if addr == nil {
			oc.logger.Info("skipping item without resolvable customer profile",
				zap.String("order_id", o.ID.String()),
				zap.String("item_id", item.ID.String()))
			continue
		}
		resolved = append(resolved, item)
	}
	if len(resolved) == 0 {
		return tax.Result{}, nil
	}

	marketplaceID, ok := oc.marketplaces.Resolve(o.StoreID, o.Currency)
	if !ok {
		oc.logger.Warn("no marketplace mapping for order, skipping tax evaluation",
			zap.String("order_id", o.ID.String()),
			zap.String("store_id", o.StoreID),
			zap.String("currency", string(o.Currency)))
		return tax.Result{}, nil
	}

	req, err := oc.buildRequest(ctx, o, resolved, marketplaceID, offers)
	if err != nil {
		oc.logger.Warn("validate request could not be built, using country-rate fallback",
			zap.String("order_id", o.ID.String()), zap.Error(err))
		return oc.fallback.Compute(ctx, o)
	}

	resp, err := oc.validate.ValidateOrder(ctx, req)
	if err != nil {
		oc.logger.Warn("tax validate call failed, using country-rate fallback",
			zap.String("order_id", o.ID.String()), zap.Error(err))
		return oc.fallback.Compute(ctx, o)
	}
	result, err := tax.AccumulateResult(resp)
	if err != nil {
		oc.logger.Warn("tax validate returned no usable result, using country-rate fallback",
			zap.String("order_id", o.ID.String()), zap.Error(err))
		return oc.fallback.Compute(ctx, o)
	}
	return result, nil
}

// buildRequest prorates discounts and shipping down to units and
// assembles the validate request for the resolved items.
func (oc *Orchestrator) buildRequest(ctx context.Context, o *order.Order, resolved []*order.LineItem, marketplaceID string, offers []promotion.Offer) (*tax.ValidateRequest, error) {
	orderDiscounts := make(map[uuid.UUID]decimal.Decimal, len(resolved))
	itemUnitDiscounts := make(map[uuid.UUID]decimal.Decimal, len(resolved))
	for _, offer := range offers {
		if offer.Kind.IsOrderLevel() || offer.Kind == promotion.OfferBuyXGetY {
			allocated, err := oc.allocator.AllocateOrderDiscount(offer, resolved)
			if err != nil {
				return nil, err
			}
			for itemID, amount := range allocated {
				orderDiscounts[itemID] = orderDiscounts[itemID].Add(amount)
			}
			continue
		}
		for _, item := range resolved {
			perUnit, err := oc.allocator.AllocateItemDiscount(ctx, offer, item)
			if err != nil {
				return nil, err
			}
			itemUnitDiscounts[item.ID] = itemUnitDiscounts[item.ID].Add(perUnit)
		}
	}

	// Shipping is split across every unit on the order, not just the
	// resolved ones, so an unresolvable item still carries its share.
	shippingShares, err := promotion.PerUnit(o.ShippingTotal(), o.TotalUnits(), o.Currency)
	if err != nil {
		return nil, err
	}
	resolvedSet := make(map[uuid.UUID]bool, len(resolved))
	for _, item := range resolved {
		resolvedSet[item.ID] = true
	}

	prorations := make(map[uuid.UUID]tax.LineProration, len(resolved))
	next := 0
	for _, item := range o.Items {
		unitShipping := shippingShares[next : next+int(item.Quantity)]
		next += int(item.Quantity)
		if !resolvedSet[item.ID] {
			continue
		}

		unitDiscounts := make([]decimal.Decimal, item.Quantity)
		if amount, ok := orderDiscounts[item.ID]; ok && !amount.IsZero() {
			shares, err := promotion.PerUnit(amount, item.Quantity, o.Currency)
			if err != nil {
				return nil, err
			}
			copy(unitDiscounts, shares)
		}
		if perUnit := itemUnitDiscounts[item.ID]; !perUnit.IsZero() {
			for i := range unitDiscounts {
				unitDiscounts[i] = unitDiscounts[i].Add(perUnit)
			}
		}

		prorations[item.ID] = tax.LineProration{
			UnitDiscounts: unitDiscounts,
			UnitShipping:  unitShipping,
		}
	}

	countries := oc.regionData(ctx, o)
	return tax.BuildValidateRequest(o, marketplaceID, prorations, countries)
}

// regionData fetches the country table for region-name resolution, but
// only when the order's region code actually needs it. A fetch failure
// degrades to the region sentinel rather than failing the request.
func (oc *Orchestrator) regionData(ctx context.Context, o *order.Order) []tax.Country {
	addr := o.TaxAddress()
	if addr == nil {
		return nil
	}
	area := addr.AdministrativeArea()
	if area != "" && len(area) <= 3 {
		return nil
	}
	countries, err := oc.countries.Countries(ctx)
	if err != nil {
		oc.logger.Warn("country table unavailable for region resolution",
			zap.String("order_id", o.ID.String()), zap.Error(err))
		return nil
	}
	return countries
}

// ApplyToOrder replaces the order's tax adjustments with the evaluated
// per-item amounts. Zero amounts attach no adjustment.
func ApplyToOrder(o *order.Order, result tax.Result) error {
	o.ClearAdjustments(order.AdjustmentTax)
	for _, item := range o.Items {
		amount, ok := result[item.ID]
		if !ok || amount.IsZero() {
			continue
		}
		if err := o.AddAdjustment(order.Adjustment{
			Type:   order.AdjustmentTax,
			Label:  "Sales Tax",
			Amount: amount,
			ItemID: item.ID,
		}); err != nil {
			return err
		}
	}
	return nil
}
