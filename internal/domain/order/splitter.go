package order

import (
	"fmt"
	"time"

	"github.com/storefront/backend/internal/domain/shared"
)

// SplitItem carves quantity units off the given line item. When the full
// quantity is requested the original item is returned unchanged, so
// callers must not assume a new identity is always created. Otherwise a
// new item with its own identity takes the requested quantity, the
// original keeps the remainder, and the new item is appended to the
// order. Total quantity across both items is conserved.
func (o *Order) SplitItem(item *LineItem, quantity int64) (*LineItem, error) {
	if item == nil {
		return nil, shared.InvalidArgument("item cannot be nil")
	}
	if quantity <= 0 {
		return nil, shared.InvalidArgument("split quantity must be positive")
	}
	if quantity > item.Quantity {
		return nil, shared.InvalidArgument(fmt.Sprintf("split quantity %d exceeds item quantity %d", quantity, item.Quantity))
	}
	if quantity == item.Quantity {
		return item, nil
	}

	now := time.Now()
	carved := &LineItem{
		BaseEntity:        shared.NewBaseEntity(),
		OrderID:           o.ID,
		ProductName:       item.ProductName,
		SKU:               item.SKU,
		UnitPrice:         item.UnitPrice,
		AdjustedUnitPrice: item.AdjustedUnitPrice,
		Quantity:          quantity,
		State:             item.State,
	}
	item.Quantity -= quantity
	item.UpdatedAt = now

	o.Items = append(o.Items, carved)
	o.UpdatedAt = now
	return carved, nil
}
