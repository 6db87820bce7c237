package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/application/fulfillment"
	"github.com/storefront/backend/internal/domain/shared"
)

// guardEntry represents a held order lock with expiration
type guardEntry struct {
	expiresAt time.Time
}

// InMemoryOrderGuard serializes fulfillment operations per order using an
// in-memory map. This is suitable for single-instance deployments and testing.
type InMemoryOrderGuard struct {
	mu      sync.Mutex
	entries map[uuid.UUID]guardEntry
	ttl     time.Duration
}

// NewInMemoryOrderGuard creates a new in-memory order guard
func NewInMemoryOrderGuard(ttl time.Duration) *InMemoryOrderGuard {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &InMemoryOrderGuard{
		entries: make(map[uuid.UUID]guardEntry),
		ttl:     ttl,
	}
}

// Acquire takes the per-order lock or fails with a CONFLICT error when another
// operation on the same order is already in flight.
func (g *InMemoryOrderGuard) Acquire(ctx context.Context, orderID uuid.UUID) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if e, exists := g.entries[orderID]; exists && time.Now().Before(e.expiresAt) {
		return nil, shared.NewDomainError(shared.CodeConflict,
			fmt.Sprintf("another fulfillment operation is in flight for order %s", orderID))
	}

	g.entries[orderID] = guardEntry{expiresAt: time.Now().Add(g.ttl)}

	release := func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		delete(g.entries, orderID)
	}
	return release, nil
}

// Size returns the number of held locks (for testing/monitoring)
func (g *InMemoryOrderGuard) Size() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.entries)
}

// Ensure InMemoryOrderGuard implements OrderGuard
var _ fulfillment.OrderGuard = (*InMemoryOrderGuard)(nil)
