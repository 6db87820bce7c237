package order

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
)

// ItemState represents the per-item fulfillment state. The empty value
// means the item has not diverged from its order and follows the order's
// state.
type ItemState string

const (
	ItemStateUnset          ItemState = ""
	ItemStateProcessing     ItemState = "processing"
	ItemStateReadyToFulfill ItemState = "readytofulfill"
	ItemStateShipped        ItemState = "shipped"
	ItemStateCanceled       ItemState = "canceled"
	ItemStateRefunded       ItemState = "refunded"
)

// IsValid checks if the state is a valid ItemState (unset included)
func (s ItemState) IsValid() bool {
	switch s {
	case ItemStateUnset, ItemStateProcessing, ItemStateReadyToFulfill, ItemStateShipped, ItemStateCanceled, ItemStateRefunded:
		return true
	}
	return false
}

// String returns the string representation of ItemState
func (s ItemState) String() string {
	return string(s)
}

// TrackingCarrier identifies the shipment carrier for a tracking number
type TrackingCarrier string

const (
	CarrierDHL       TrackingCarrier = "dhl"
	CarrierDHLGlobal TrackingCarrier = "dhl_global"
	CarrierFedEx     TrackingCarrier = "fedex"
	CarrierUPS       TrackingCarrier = "ups"
	CarrierUSPS      TrackingCarrier = "usps"
	CarrierOther     TrackingCarrier = "other"
)

// IsValid checks if the carrier is in the supported set
func (c TrackingCarrier) IsValid() bool {
	switch c {
	case CarrierDHL, CarrierDHLGlobal, CarrierFedEx, CarrierUPS, CarrierUSPS, CarrierOther:
		return true
	}
	return false
}

// Tracking holds a shipment tracking number and its carrier
type Tracking struct {
	Number  string
	Carrier TrackingCarrier
}

// LineItem is one product/quantity/price entry within an order. Items
// created by splitting an existing item share its product fields but
// have independent identity and fulfillment state.
type LineItem struct {
	shared.BaseEntity
	OrderID           uuid.UUID
	ProductName       string
	SKU               string
	UnitPrice         decimal.Decimal
	AdjustedUnitPrice decimal.Decimal // unit price after included promotion adjustments
	Quantity          int64
	State             ItemState // empty means the item follows the order state
	Tracking          *Tracking
	SalesTax          decimal.Decimal
	AmountRefunded    decimal.Decimal
	SalesTaxRefunded  decimal.Decimal
}

// NewLineItem creates a new line item
func NewLineItem(orderID uuid.UUID, productName, sku string, unitPrice decimal.Decimal, quantity int64) (*LineItem, error) {
	if productName == "" {
		return nil, shared.InvalidArgument("product name cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.InvalidArgument("quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.InvalidArgument("unit price cannot be negative")
	}
	return &LineItem{
		BaseEntity:        shared.NewBaseEntity(),
		OrderID:           orderID,
		ProductName:       productName,
		SKU:               sku,
		UnitPrice:         unitPrice,
		AdjustedUnitPrice: unitPrice,
		Quantity:          quantity,
	}, nil
}

// EffectiveState returns the item's fulfillment state, substituting the
// order's state when the item has not diverged from it.
func (i *LineItem) EffectiveState(orderState State) ItemState {
	if i.State != ItemStateUnset {
		return i.State
	}
	return ItemState(orderState)
}

// Total returns quantity * unit price
func (i *LineItem) Total() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(i.Quantity))
}

// AdjustedTotal returns quantity * adjusted unit price
func (i *LineItem) AdjustedTotal() decimal.Decimal {
	return i.AdjustedUnitPrice.Mul(decimal.NewFromInt(i.Quantity))
}

// Ship marks the item as shipped, recording tracking metadata and
// item-level sales tax when given. A tracking number must be accompanied
// by a supported carrier and vice versa.
func (i *LineItem) Ship(orderState State, salesTax *decimal.Decimal, tracking *Tracking) error {
	if tracking != nil {
		if tracking.Number == "" {
			return shared.InvalidArgument("tracking carrier supplied without a tracking number")
		}
		if !tracking.Carrier.IsValid() {
			return shared.InvalidArgument(fmt.Sprintf("unsupported tracking carrier %q", tracking.Carrier))
		}
	}
	if err := i.checkMutable(orderState); err != nil {
		return err
	}

	i.State = ItemStateShipped
	if tracking != nil {
		t := *tracking
		i.Tracking = &t
	}
	if salesTax != nil {
		i.SalesTax = *salesTax
	}
	i.Touch()
	return nil
}

// Cancel marks the item as canceled. Canceled units carry no price.
func (i *LineItem) Cancel(orderState State) error {
	if err := i.checkMutable(orderState); err != nil {
		return err
	}

	i.State = ItemStateCanceled
	i.UnitPrice = decimal.Zero
	i.AdjustedUnitPrice = decimal.Zero
	i.Touch()
	return nil
}

// Refund marks the item as refunded, recording the refunded amount and
// tax. Only shipped (or already refunded) items can be refunded. The
// refunded amount defaults to the item total and must not exceed it.
func (i *LineItem) Refund(orderState State, amountRefunded, taxRefunded *decimal.Decimal) error {
	state := i.EffectiveState(orderState)
	if state != ItemStateShipped && state != ItemStateRefunded {
		return shared.IllegalTransition(fmt.Sprintf("cannot refund item in %s state", state))
	}

	amount := i.Total()
	if amountRefunded != nil {
		if amountRefunded.GreaterThan(i.Total()) {
			return shared.InvalidArgument(fmt.Sprintf("refund amount %s exceeds item total %s", amountRefunded, i.Total()))
		}
		amount = *amountRefunded
	}

	i.State = ItemStateRefunded
	i.AmountRefunded = amount
	if taxRefunded != nil {
		i.SalesTaxRefunded = *taxRefunded
	}
	i.Touch()
	return nil
}

// checkMutable rejects ship/cancel on items already settled
func (i *LineItem) checkMutable(orderState State) error {
	switch state := i.EffectiveState(orderState); state {
	case ItemStateShipped, ItemStateCanceled, ItemStateRefunded:
		return shared.IllegalTransition(fmt.Sprintf("item is already %s", state))
	}
	return nil
}
