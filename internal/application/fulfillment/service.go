package fulfillment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
)

// Service applies ship, cancel, and refund operations to order line
// items. Each operation carves the requested quantity off the item,
// mutates only the carved portion, and recomputes the order-level state
// from all items, all inside one transaction.
type Service struct {
	repo  order.Repository
	scope TransactionScope
	guard OrderGuard
}

// NewService creates a fulfillment Service
func NewService(repo order.Repository, scope TransactionScope, guard OrderGuard) *Service {
	if guard == nil {
		guard = NoopGuard{}
	}
	return &Service{
		repo:  repo,
		scope: scope,
		guard: guard,
	}
}

// Ship marks the requested quantity of a line item as shipped and
// records tracking metadata and item-level sales tax when given.
// Returns the ID of the item that now carries the shipped quantity.
func (s *Service) Ship(ctx context.Context, req ShipRequest) (uuid.UUID, error) {
	tracking, err := buildTracking(req.TrackingNumber, req.TrackingCarrier)
	if err != nil {
		return uuid.Nil, err
	}

	return s.applyItemTransition(ctx, req.ItemID, req.Quantity, func(o *order.Order, carved *order.LineItem) error {
		return carved.Ship(o.State, req.ItemSalesTax, tracking)
	})
}

// Cancel marks the requested quantity of a line item as canceled. The
// canceled portion's unit price is zeroed.
func (s *Service) Cancel(ctx context.Context, req CancelRequest) (uuid.UUID, error) {
	return s.applyItemTransition(ctx, req.ItemID, req.Quantity, func(o *order.Order, carved *order.LineItem) error {
		return carved.Cancel(o.State)
	})
}

// Refund marks the requested quantity of a shipped line item as
// refunded, recording the refunded amount and tax.
func (s *Service) Refund(ctx context.Context, req RefundRequest) (uuid.UUID, error) {
	return s.applyItemTransition(ctx, req.ItemID, req.Quantity, func(o *order.Order, carved *order.LineItem) error {
		return carved.Refund(o.State, req.AmountRefunded, req.TaxAmountRefunded)
	})
}

// orderStateTargets are the states an external order-state update may
// request.
var orderStateTargets = map[order.State]bool{
	order.StateShipped:    true,
	order.StateProcessing: true,
	order.StateCanceled:   true,
	order.StateDraft:      true,
}

// UpdateOrderState moves the order itself to the requested state. Only
// shipped, processing, canceled, and draft may be requested externally.
func (s *Service) UpdateOrderState(ctx context.Context, orderID uuid.UUID, state order.State) (uuid.UUID, error) {
	if !orderStateTargets[state] {
		return uuid.Nil, shared.InvalidArgument(fmt.Sprintf("state %q cannot be requested externally", state))
	}

	o, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return uuid.Nil, err
	}
	release, err := s.guard.Acquire(ctx, o.ID)
	if err != nil {
		return uuid.Nil, err
	}
	defer release()

	err = s.scope.Execute(ctx, func(repo order.Repository) error {
		o, err := repo.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := o.TransitionTo(state); err != nil {
			return err
		}
		return repo.Save(ctx, o)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return orderID, nil
}

// UpdateShipping replaces the order's shipment cost and shipment tax
// adjustments with the given amounts. Existing shipping adjustments are
// overwritten, not accumulated.
func (s *Service) UpdateShipping(ctx context.Context, req UpdateShippingRequest) (uuid.UUID, error) {
	o, err := s.repo.FindByID(ctx, req.OrderID)
	if err != nil {
		return uuid.Nil, err
	}
	release, err := s.guard.Acquire(ctx, o.ID)
	if err != nil {
		return uuid.Nil, err
	}
	defer release()

	err = s.scope.Execute(ctx, func(repo order.Repository) error {
		o, err := repo.FindByID(ctx, req.OrderID)
		if err != nil {
			return err
		}
		if err := o.ReplaceAdjustments(order.AdjustmentShipping, order.Adjustment{
			Type:   order.AdjustmentShipping,
			Label:  "Shipping",
			Amount: req.Amount,
			Locked: true,
		}); err != nil {
			return err
		}
		if err := o.ReplaceAdjustments(order.AdjustmentShippingTax, order.Adjustment{
			Type:   order.AdjustmentShippingTax,
			Label:  "Shipping Tax",
			Amount: req.SalesTaxAmount,
			Locked: true,
		}); err != nil {
			return err
		}
		return repo.Save(ctx, o)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return req.OrderID, nil
}

// applyItemTransition loads the owning order, carves the requested
// quantity, applies the transition to the carved item, and re-derives
// the order aggregate state, all inside one transaction.
func (s *Service) applyItemTransition(ctx context.Context, itemID uuid.UUID, quantity *int64, transition func(o *order.Order, carved *order.LineItem) error) (uuid.UUID, error) {
	owner, err := s.repo.FindByItemID(ctx, itemID)
	if err != nil {
		return uuid.Nil, err
	}
	release, err := s.guard.Acquire(ctx, owner.ID)
	if err != nil {
		return uuid.Nil, err
	}
	defer release()

	var resultID uuid.UUID
	err = s.scope.Execute(ctx, func(repo order.Repository) error {
		o, err := repo.FindByItemID(ctx, itemID)
		if err != nil {
			return err
		}
		item := o.GetItem(itemID)
		if item == nil {
			return shared.ErrNotFound
		}

		qty := item.Quantity
		if quantity != nil {
			qty = *quantity
		}
		carved, err := o.SplitItem(item, qty)
		if err != nil {
			return err
		}
		if err := transition(o, carved); err != nil {
			return err
		}

		if target, changed := order.AggregateState(o); changed {
			if err := o.TransitionTo(target); err != nil {
				return err
			}
		}

		resultID = carved.ID
		return repo.Save(ctx, o)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return resultID, nil
}

// buildTracking validates the tracking number/carrier pairing
func buildTracking(number, carrier string) (*order.Tracking, error) {
	if number == "" && carrier == "" {
		return nil, nil
	}
	if number == "" || carrier == "" {
		return nil, shared.InvalidArgument("tracking number and tracking carrier must be supplied together")
	}
	c := order.TrackingCarrier(carrier)
	if !c.IsValid() {
		return nil, shared.InvalidArgument(fmt.Sprintf("unsupported tracking carrier %q", carrier))
	}
	return &order.Tracking{Number: number, Carrier: c}, nil
}
