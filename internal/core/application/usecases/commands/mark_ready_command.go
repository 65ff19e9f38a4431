package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrMarkReadyCommandIsNotConstructed = errors.New(
	"MarkReadyCommand must be created via NewMarkReadyCommand constructor",
)

// MarkReadyCommand is the shop declaring the order ready for pickup or
// collection.
type MarkReadyCommand struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewMarkReadyCommand creates the command.
func NewMarkReadyCommand(orderID kernel.UUID) (MarkReadyCommand, error) {
	if err := orderID.Validate(); err != nil {
		return MarkReadyCommand{}, err
	}

	return MarkReadyCommand{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c MarkReadyCommand) Validate() error {
	return c.guard.Validate(ErrMarkReadyCommandIsNotConstructed)
}

// OrderID returns the order the step applies to.
func (c MarkReadyCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c MarkReadyCommand) event() order.Event {
	return order.MarkReady{}
}

func (c MarkReadyCommand) actor() string {
	return "shop"
}
