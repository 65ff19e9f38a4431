// Package ports defines the contracts between the core and the outside
// world: repositories, outbound channels and the transaction boundary.
// Adapters implement them; the core only sees these interfaces.
package ports

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// ErrConcurrentModification is returned by Update when the aggregate's
// version no longer matches the stored row. The caller reloads and
// retries.
var ErrConcurrentModification = errors.New("aggregate was modified concurrently")

// OrderRepository defines the persistence contract for order aggregates,
// including their credentials and timeline.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate using
	// optimistic locking. Returns ErrConcurrentModification when the
	// stored version differs from the aggregate's.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns errs.ObjectNotFoundError when absent.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByNumber retrieves an order by its human-facing number.
	GetByNumber(ctx context.Context, number string) (*order.Order, error)

	// GetAwaitingAssignment retrieves live home delivery orders without
	// an assigned partner. Used by the assignment sweep.
	GetAwaitingAssignment(ctx context.Context) ([]*order.Order, error)

	// GetFinishedBetween retrieves orders for one shop that reached
	// Delivered or Cancelled within [from, to). Used by the daily
	// summary.
	GetFinishedBetween(ctx context.Context, shopID kernel.UUID, from, to time.Time) ([]*order.Order, error)
}
