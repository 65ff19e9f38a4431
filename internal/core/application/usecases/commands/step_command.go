package commands

import (
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// StepCommand is one lifecycle step requested against an existing order.
// Every concrete step command carries the order id, the acting party and
// the domain event to apply; OrderStepCommandHandler runs them all through
// the same orchestration.
type StepCommand interface {
	// Validate ensures the command was created through its constructor.
	Validate() error

	// OrderID identifies the order the step applies to.
	OrderID() kernel.UUID

	// event is the domain event the step applies.
	event() order.Event

	// actor is recorded on the timeline entry.
	actor() string
}
