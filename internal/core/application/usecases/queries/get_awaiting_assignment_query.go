package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetAwaitingAssignmentQueryIsNotConstructed = errors.New(
		"GetAwaitingAssignmentQuery must be created via NewGetAwaitingAssignmentQuery constructor",
	)
)

// GetAwaitingAssignmentQuery retrieves the home delivery orders that are
// live but have no delivery partner yet. Used for dispatch monitoring.
type GetAwaitingAssignmentQuery struct {
	guard guard.ConstructorGuard
}

// NewGetAwaitingAssignmentQuery creates a query for the assignment pool.
// This is a parameterless query.
func NewGetAwaitingAssignmentQuery() GetAwaitingAssignmentQuery {
	return GetAwaitingAssignmentQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetAwaitingAssignmentQuery) Validate() error {
	return q.guard.Validate(ErrGetAwaitingAssignmentQueryIsNotConstructed)
}

// GetAwaitingAssignmentQueryResponse is one pool member.
type GetAwaitingAssignmentQueryResponse struct {
	ID           kernel.UUID
	Number       string
	Status       string
	ShopName     string
	ShopLocation kernel.Location
	PlacedAt     time.Time
}
