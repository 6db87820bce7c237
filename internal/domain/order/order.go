package order

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// State represents the fulfillment workflow state of an order
type State string

const (
	StateDraft          State = "draft"
	StateProcessing     State = "processing"
	StateReadyToFulfill State = "readytofulfill"
	StateShipped        State = "shipped"
	StateRefunded       State = "refunded"
	StateCanceled       State = "canceled"
	StateClosed         State = "closed"
)

// IsValid checks if the state is a valid order State
func (s State) IsValid() bool {
	switch s {
	case StateDraft, StateProcessing, StateReadyToFulfill, StateShipped, StateRefunded, StateCanceled, StateClosed:
		return true
	}
	return false
}

// String returns the string representation of State
func (s State) String() string {
	return string(s)
}

// CanTransitionTo checks if the state can transition to the target state.
// Transitioning to the current state is always allowed and is a no-op.
func (s State) CanTransitionTo(target State) bool {
	if s == target {
		return true
	}
	switch s {
	case StateDraft:
		return target == StateProcessing || target == StateCanceled
	case StateProcessing:
		return target == StateReadyToFulfill || target == StateShipped || target == StateCanceled || target == StateClosed
	case StateReadyToFulfill:
		return target == StateShipped || target == StateCanceled || target == StateClosed
	case StateShipped:
		return target == StateRefunded || target == StateClosed
	case StateRefunded, StateCanceled:
		return target == StateClosed
	case StateClosed:
		return false // Terminal state
	}
	return false
}

// AdjustmentType classifies an order or item adjustment
type AdjustmentType string

const (
	AdjustmentTax         AdjustmentType = "tax"
	AdjustmentShipping    AdjustmentType = "shipping"
	AdjustmentShippingTax AdjustmentType = "shipping_tax"
	AdjustmentPromotion   AdjustmentType = "promotion"
)

// IsValid checks if the type is a known AdjustmentType
func (t AdjustmentType) IsValid() bool {
	switch t {
	case AdjustmentTax, AdjustmentShipping, AdjustmentShippingTax, AdjustmentPromotion:
		return true
	}
	return false
}

// Adjustment is a labeled monetary modification attached to an order or
// one of its line items. Locked adjustments survive order refresh passes.
type Adjustment struct {
	Type     AdjustmentType
	Label    string
	Amount   decimal.Decimal
	ItemID   uuid.UUID // zero for order-level adjustments
	Included bool      // amount already included in the displayed price
	Locked   bool
}

// Order is the aggregate root for a customer order. It owns its line
// items and adjustments and carries a single fulfillment workflow state.
type Order struct {
	shared.BaseEntity
	OrderNumber     string
	StoreID         string
	Currency        valueobject.Currency
	Email           string
	State           State
	BillingAddress  *valueobject.Address
	ShippingAddress *valueobject.Address
	Items           []*LineItem
	Adjustments     []Adjustment
	PlacedAt        *time.Time
}

// NewOrder creates a new order in draft state
func NewOrder(orderNumber, storeID string, currency valueobject.Currency, email string) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.InvalidArgument("order number cannot be empty")
	}
	if currency == "" {
		return nil, shared.InvalidArgument("currency cannot be empty")
	}
	return &Order{
		BaseEntity:  shared.NewBaseEntity(),
		OrderNumber: orderNumber,
		StoreID:     storeID,
		Currency:    currency,
		Email:       email,
		State:       StateDraft,
		Items:       make([]*LineItem, 0),
		Adjustments: make([]Adjustment, 0),
	}, nil
}

// AddItem adds a new line item to the order
func (o *Order) AddItem(productName, sku string, unitPrice decimal.Decimal, quantity int64) (*LineItem, error) {
	item, err := NewLineItem(o.ID, productName, sku, unitPrice, quantity)
	if err != nil {
		return nil, err
	}
	o.Items = append(o.Items, item)
	o.Touch()
	return item, nil
}

// GetItem returns the line item with the given ID, or nil
func (o *Order) GetItem(itemID uuid.UUID) *LineItem {
	for _, item := range o.Items {
		if item.ID == itemID {
			return item
		}
	}
	return nil
}

// Subtotal returns the sum of all line item adjusted totals
func (o *Order) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.AdjustedTotal())
	}
	return total
}

// TotalUnits returns the sum of all line item quantities
func (o *Order) TotalUnits() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

// TransitionTo moves the order to the target state, validating the
// transition rules. Transitioning to the current state is a no-op.
func (o *Order) TransitionTo(target State) error {
	if !target.IsValid() {
		return shared.InvalidArgument(fmt.Sprintf("unknown order state %q", target))
	}
	if o.State == target {
		return nil
	}
	if !o.State.CanTransitionTo(target) {
		return shared.IllegalTransition(fmt.Sprintf("cannot transition order from %s to %s", o.State, target))
	}
	o.State = target
	o.Touch()
	return nil
}

// ShippingTotal returns the sum of shipping adjustments on the order
func (o *Order) ShippingTotal() decimal.Decimal {
	total := decimal.Zero
	for _, adj := range o.Adjustments {
		if adj.Type == AdjustmentShipping {
			total = total.Add(adj.Amount)
		}
	}
	return total
}

// AddAdjustment appends an adjustment to the order
func (o *Order) AddAdjustment(adj Adjustment) error {
	if !adj.Type.IsValid() {
		return shared.InvalidArgument(fmt.Sprintf("unknown adjustment type %q", adj.Type))
	}
	o.Adjustments = append(o.Adjustments, adj)
	o.Touch()
	return nil
}

// ReplaceAdjustments removes all adjustments of the given type and
// appends the replacements. Used by shipping updates that overwrite the
// previous shipment quote.
func (o *Order) ReplaceAdjustments(adjType AdjustmentType, replacements ...Adjustment) error {
	for _, adj := range replacements {
		if adj.Type != adjType {
			return shared.InvalidArgument(fmt.Sprintf("replacement adjustment type %q does not match %q", adj.Type, adjType))
		}
	}
	kept := o.Adjustments[:0]
	for _, adj := range o.Adjustments {
		if adj.Type != adjType {
			kept = append(kept, adj)
		}
	}
	o.Adjustments = append(kept, replacements...)
	o.Touch()
	return nil
}

// ClearAdjustments removes all adjustments of the given type
func (o *Order) ClearAdjustments(adjType AdjustmentType) {
	kept := o.Adjustments[:0]
	for _, adj := range o.Adjustments {
		if adj.Type != adjType {
			kept = append(kept, adj)
		}
	}
	o.Adjustments = kept
	o.Touch()
}

// TaxAddress returns the address tax should be computed against,
// preferring the shipping address over the billing address. Returns nil
// when neither is set.
func (o *Order) TaxAddress() *valueobject.Address {
	if o.ShippingAddress != nil && !o.ShippingAddress.IsZero() {
		return o.ShippingAddress
	}
	if o.BillingAddress != nil && !o.BillingAddress.IsZero() {
		return o.BillingAddress
	}
	return nil
}
