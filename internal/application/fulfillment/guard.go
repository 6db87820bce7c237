package fulfillment

import (
	"context"

	"github.com/google/uuid"
)

// OrderGuard enforces at most one in-flight fulfillment or tax
// operation per order. Acquire fails with a CONFLICT domain error when
// another operation holds the order.
type OrderGuard interface {
	// Acquire claims the order, returning a release function on success
	Acquire(ctx context.Context, orderID uuid.UUID) (release func(), err error)
}

// NoopGuard performs no coordination. Used when the host platform's own
// entity locking is the concurrency boundary.
type NoopGuard struct{}

// Acquire implements OrderGuard
func (NoopGuard) Acquire(ctx context.Context, orderID uuid.UUID) (func(), error) {
	return func() {}, nil
}
