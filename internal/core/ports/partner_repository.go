package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/partner"
)

// PartnerRepository defines the persistence contract for delivery
// partners.
type PartnerRepository interface {
	// Add persists a new partner.
	Add(ctx context.Context, aggregate *partner.Partner) error

	// Update persists changes to an existing partner.
	Update(ctx context.Context, aggregate *partner.Partner) error

	// Get retrieves a partner by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*partner.Partner, error)

	// GetAllAvailable retrieves the current assignment pool.
	GetAllAvailable(ctx context.Context) ([]*partner.Partner, error)
}

// AssignmentRepository defines the persistence contract for assignments.
type AssignmentRepository interface {
	// Add persists a new assignment.
	Add(ctx context.Context, aggregate *partner.Assignment) error

	// Update persists changes to an existing assignment.
	Update(ctx context.Context, aggregate *partner.Assignment) error

	// Get retrieves an assignment by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*partner.Assignment, error)

	// GetActiveByOrder retrieves the order's active assignment, if any.
	// At most one exists.
	GetActiveByOrder(ctx context.Context, orderID kernel.UUID) (*partner.Assignment, error)

	// GetAllAwaitingResponse retrieves assignments still in Assigned
	// status. Used by the stale offer sweep.
	GetAllAwaitingResponse(ctx context.Context) ([]*partner.Assignment, error)
}
