package order

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

func newTestOrder(t *testing.T) *Order {
	t.Helper()
	o, err := NewOrder("ORD-1001", "store-1", valueobject.USD, "jane@example.com")
	require.NoError(t, err)
	return o
}

func TestStateCanTransitionTo(t *testing.T) {
	tests := []struct {
		from    State
		to      State
		allowed bool
	}{
		{StateDraft, StateProcessing, true},
		{StateDraft, StateCanceled, true},
		{StateDraft, StateShipped, false},
		{StateProcessing, StateReadyToFulfill, true},
		{StateProcessing, StateShipped, true},
		{StateProcessing, StateClosed, true},
		{StateReadyToFulfill, StateShipped, true},
		{StateReadyToFulfill, StateDraft, false},
		{StateShipped, StateRefunded, true},
		{StateShipped, StateClosed, true},
		{StateShipped, StateProcessing, false},
		{StateRefunded, StateClosed, true},
		{StateCanceled, StateClosed, true},
		{StateClosed, StateDraft, false},
		{StateClosed, StateShipped, false},
		{StateShipped, StateShipped, true}, // same-state no-op
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestOrderTransitionTo(t *testing.T) {
	t.Run("valid transition", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.TransitionTo(StateProcessing))
		assert.Equal(t, StateProcessing, o.State)
	})

	t.Run("same state is a no-op", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.TransitionTo(StateDraft))
		assert.Equal(t, StateDraft, o.State)
	})

	t.Run("illegal transition", func(t *testing.T) {
		o := newTestOrder(t)
		err := o.TransitionTo(StateRefunded)
		require.Error(t, err)
		assert.Equal(t, shared.CodeIllegalTransition, shared.CodeOf(err))
		assert.Equal(t, StateDraft, o.State)
	})

	t.Run("unknown state", func(t *testing.T) {
		o := newTestOrder(t)
		err := o.TransitionTo(State("exploded"))
		require.Error(t, err)
		assert.Equal(t, shared.CodeInvalidArgument, shared.CodeOf(err))
	})
}

func TestLineItemEffectiveState(t *testing.T) {
	o := newTestOrder(t)
	item, err := o.AddItem("Widget", "W-1", decimal.NewFromFloat(10), 2)
	require.NoError(t, err)

	t.Run("unset follows order", func(t *testing.T) {
		assert.Equal(t, ItemState(StateDraft), item.EffectiveState(o.State))
	})

	t.Run("set state wins", func(t *testing.T) {
		item.State = ItemStateShipped
		assert.Equal(t, ItemStateShipped, item.EffectiveState(o.State))
		item.State = ItemStateUnset
	})
}

func TestLineItemShip(t *testing.T) {
	newItem := func(t *testing.T) *LineItem {
		item, err := NewLineItem(newTestOrder(t).ID, "Widget", "W-1", decimal.NewFromFloat(10), 2)
		require.NoError(t, err)
		return item
	}

	t.Run("ship from processing", func(t *testing.T) {
		item := newItem(t)
		tax := decimal.NewFromFloat(1.65)
		err := item.Ship(StateProcessing, &tax, &Tracking{Number: "1Z999", Carrier: CarrierUPS})
		require.NoError(t, err)
		assert.Equal(t, ItemStateShipped, item.State)
		assert.True(t, item.SalesTax.Equal(tax))
		require.NotNil(t, item.Tracking)
		assert.Equal(t, CarrierUPS, item.Tracking.Carrier)
	})

	t.Run("double ship fails", func(t *testing.T) {
		item := newItem(t)
		require.NoError(t, item.Ship(StateProcessing, nil, nil))
		err := item.Ship(StateProcessing, nil, nil)
		require.Error(t, err)
		assert.Equal(t, shared.CodeIllegalTransition, shared.CodeOf(err))
	})

	t.Run("ship canceled item fails", func(t *testing.T) {
		item := newItem(t)
		require.NoError(t, item.Cancel(StateProcessing))
		err := item.Ship(StateProcessing, nil, nil)
		assert.Equal(t, shared.CodeIllegalTransition, shared.CodeOf(err))
	})

	t.Run("unknown carrier", func(t *testing.T) {
		item := newItem(t)
		err := item.Ship(StateProcessing, nil, &Tracking{Number: "123", Carrier: "pigeon"})
		require.Error(t, err)
		assert.Equal(t, shared.CodeInvalidArgument, shared.CodeOf(err))
		assert.Equal(t, ItemStateUnset, item.State)
	})

	t.Run("carrier without number", func(t *testing.T) {
		item := newItem(t)
		err := item.Ship(StateProcessing, nil, &Tracking{Carrier: CarrierFedEx})
		require.Error(t, err)
		assert.Equal(t, shared.CodeInvalidArgument, shared.CodeOf(err))
	})

	t.Run("ship while order shipped via inherited state", func(t *testing.T) {
		item := newItem(t)
		err := item.Ship(StateShipped, nil, nil)
		assert.Equal(t, shared.CodeIllegalTransition, shared.CodeOf(err))
	})
}

func TestLineItemCancel(t *testing.T) {
	t.Run("cancel zeroes price", func(t *testing.T) {
		item, err := NewLineItem(newTestOrder(t).ID, "Widget", "W-1", decimal.NewFromFloat(10), 2)
		require.NoError(t, err)
		require.NoError(t, item.Cancel(StateProcessing))
		assert.Equal(t, ItemStateCanceled, item.State)
		assert.True(t, item.UnitPrice.IsZero())
		assert.True(t, item.AdjustedUnitPrice.IsZero())
	})

	t.Run("cancel refunded item fails", func(t *testing.T) {
		item, err := NewLineItem(newTestOrder(t).ID, "Widget", "W-1", decimal.NewFromFloat(10), 2)
		require.NoError(t, err)
		item.State = ItemStateRefunded
		err = item.Cancel(StateProcessing)
		assert.Equal(t, shared.CodeIllegalTransition, shared.CodeOf(err))
	})
}

func TestLineItemRefund(t *testing.T) {
	newShipped := func(t *testing.T) *LineItem {
		item, err := NewLineItem(newTestOrder(t).ID, "Widget", "W-1", decimal.NewFromFloat(10), 2)
		require.NoError(t, err)
		require.NoError(t, item.Ship(StateProcessing, nil, nil))
		return item
	}

	t.Run("defaults to full item total", func(t *testing.T) {
		item := newShipped(t)
		require.NoError(t, item.Refund(StateProcessing, nil, nil))
		assert.Equal(t, ItemStateRefunded, item.State)
		assert.Equal(t, "20.00", item.AmountRefunded.StringFixed(2))
	})

	t.Run("partial amount with tax", func(t *testing.T) {
		item := newShipped(t)
		amount := decimal.NewFromFloat(5.00)
		tax := decimal.NewFromFloat(0.41)
		require.NoError(t, item.Refund(StateProcessing, &amount, &tax))
		assert.Equal(t, "5.00", item.AmountRefunded.StringFixed(2))
		assert.Equal(t, "0.41", item.SalesTaxRefunded.StringFixed(2))
	})

	t.Run("over-amount commits nothing", func(t *testing.T) {
		item := newShipped(t)
		amount := decimal.NewFromFloat(20.01)
		err := item.Refund(StateProcessing, &amount, nil)
		require.Error(t, err)
		assert.Equal(t, shared.CodeInvalidArgument, shared.CodeOf(err))
		assert.Equal(t, ItemStateShipped, item.State)
		assert.True(t, item.AmountRefunded.IsZero())
	})

	t.Run("refund unshipped item fails", func(t *testing.T) {
		item, err := NewLineItem(newTestOrder(t).ID, "Widget", "W-1", decimal.NewFromFloat(10), 2)
		require.NoError(t, err)
		err = item.Refund(StateProcessing, nil, nil)
		assert.Equal(t, shared.CodeIllegalTransition, shared.CodeOf(err))
	})

	t.Run("re-refund allowed", func(t *testing.T) {
		item := newShipped(t)
		require.NoError(t, item.Refund(StateProcessing, nil, nil))
		require.NoError(t, item.Refund(StateProcessing, nil, nil))
		assert.Equal(t, ItemStateRefunded, item.State)
	})
}

func TestAggregateState(t *testing.T) {
	build := func(t *testing.T, orderState State, itemStates ...ItemState) *Order {
		t.Helper()
		o := newTestOrder(t)
		o.State = orderState
		for _, s := range itemStates {
			item, err := o.AddItem("Widget", "W-1", decimal.NewFromFloat(10), 1)
			require.NoError(t, err)
			item.State = s
		}
		return o
	}

	t.Run("all shipped", func(t *testing.T) {
		o := build(t, StateProcessing, ItemStateShipped, ItemStateShipped, ItemStateShipped)
		target, changed := AggregateState(o)
		assert.True(t, changed)
		assert.Equal(t, StateShipped, target)
	})

	t.Run("mixed with processing stays put", func(t *testing.T) {
		o := build(t, StateProcessing, ItemStateProcessing, ItemStateShipped, ItemStateShipped)
		target, changed := AggregateState(o)
		assert.False(t, changed)
		assert.Equal(t, StateProcessing, target)
	})

	t.Run("shipped and canceled closes", func(t *testing.T) {
		o := build(t, StateProcessing, ItemStateShipped, ItemStateCanceled)
		target, changed := AggregateState(o)
		assert.True(t, changed)
		assert.Equal(t, StateClosed, target)
	})

	t.Run("unset items follow order state", func(t *testing.T) {
		o := build(t, StateProcessing, ItemStateUnset, ItemStateShipped)
		target, changed := AggregateState(o)
		assert.False(t, changed)
		assert.Equal(t, StateProcessing, target)
	})

	t.Run("uniform matching order state is no change", func(t *testing.T) {
		o := build(t, StateShipped, ItemStateShipped, ItemStateUnset)
		_, changed := AggregateState(o)
		assert.False(t, changed)
	})

	t.Run("empty order unchanged", func(t *testing.T) {
		o := newTestOrder(t)
		_, changed := AggregateState(o)
		assert.False(t, changed)
	})
}

func TestOrderAdjustments(t *testing.T) {
	t.Run("replace shipping adjustments", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.AddAdjustment(Adjustment{Type: AdjustmentShipping, Label: "Shipping", Amount: decimal.NewFromFloat(4.99)}))
		require.NoError(t, o.AddAdjustment(Adjustment{Type: AdjustmentTax, Label: "Tax", Amount: decimal.NewFromFloat(1.00)}))

		err := o.ReplaceAdjustments(AdjustmentShipping, Adjustment{Type: AdjustmentShipping, Label: "Shipping", Amount: decimal.NewFromFloat(7.50), Locked: true})
		require.NoError(t, err)
		assert.Len(t, o.Adjustments, 2)
		assert.Equal(t, "7.50", o.ShippingTotal().StringFixed(2))
	})

	t.Run("replacement type mismatch", func(t *testing.T) {
		o := newTestOrder(t)
		err := o.ReplaceAdjustments(AdjustmentShipping, Adjustment{Type: AdjustmentTax, Amount: decimal.NewFromFloat(1)})
		require.Error(t, err)
		assert.Equal(t, shared.CodeInvalidArgument, shared.CodeOf(err))
	})

	t.Run("unknown adjustment type", func(t *testing.T) {
		o := newTestOrder(t)
		err := o.AddAdjustment(Adjustment{Type: "handling", Amount: decimal.NewFromFloat(1)})
		assert.Equal(t, shared.CodeInvalidArgument, shared.CodeOf(err))
	})

	t.Run("clear adjustments by type", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.AddAdjustment(Adjustment{Type: AdjustmentTax, Label: "Tax", Amount: decimal.NewFromFloat(1)}))
		require.NoError(t, o.AddAdjustment(Adjustment{Type: AdjustmentShipping, Label: "Shipping", Amount: decimal.NewFromFloat(2)}))
		o.ClearAdjustments(AdjustmentTax)
		assert.Len(t, o.Adjustments, 1)
		assert.Equal(t, AdjustmentShipping, o.Adjustments[0].Type)
	})
}

func TestOrderTaxAddress(t *testing.T) {
	o := newTestOrder(t)

	t.Run("no addresses", func(t *testing.T) {
		assert.Nil(t, o.TaxAddress())
	})

	t.Run("billing only", func(t *testing.T) {
		billing, err := valueobject.NewAddress("US", "CA", "Los Angeles", "90001", "1 Main St", "", "Jane", "Doe")
		require.NoError(t, err)
		o.BillingAddress = &billing
		got := o.TaxAddress()
		require.NotNil(t, got)
		assert.Equal(t, "90001", got.PostalCode())
	})

	t.Run("shipping preferred", func(t *testing.T) {
		shipping, err := valueobject.NewAddress("US", "WA", "Seattle", "98101", "2 Pine St", "", "Jane", "Doe")
		require.NoError(t, err)
		o.ShippingAddress = &shipping
		got := o.TaxAddress()
		require.NotNil(t, got)
		assert.Equal(t, "98101", got.PostalCode())
	})
}
