package order

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for order persistence. The order
// store itself is owned by the host platform; this interface is the
// boundary this core mutates through.
type Repository interface {
	// FindByID finds an order by ID, including its items and adjustments
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByItemID finds the order owning the given line item
	FindByItemID(ctx context.Context, itemID uuid.UUID) (*Order, error)

	// Save creates or updates an order together with its items and adjustments
	Save(ctx context.Context, order *Order) error
}
