package fulfillment

import (
	"context"

	"github.com/storefront/backend/internal/domain/order"
)

// TransactionScope runs a fulfillment mutation atomically. The item
// split, the item state change, and the order-level aggregation either
// all commit or none of them do.
type TransactionScope interface {
	// Execute runs fn inside a database transaction. The repository
	// passed to fn is bound to that transaction. An error from fn rolls
	// the transaction back.
	Execute(ctx context.Context, fn func(repo order.Repository) error) error
}
