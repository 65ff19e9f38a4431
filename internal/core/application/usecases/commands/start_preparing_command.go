package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrStartPreparingCommandIsNotConstructed = errors.New(
	"StartPreparingCommand must be created via NewStartPreparingCommand constructor",
)

// StartPreparingCommand is the shop beginning preparation of a confirmed
// order.
type StartPreparingCommand struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewStartPreparingCommand creates the command.
func NewStartPreparingCommand(orderID kernel.UUID) (StartPreparingCommand, error) {
	if err := orderID.Validate(); err != nil {
		return StartPreparingCommand{}, err
	}

	return StartPreparingCommand{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c StartPreparingCommand) Validate() error {
	return c.guard.Validate(ErrStartPreparingCommandIsNotConstructed)
}

// OrderID returns the order the step applies to.
func (c StartPreparingCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c StartPreparingCommand) event() order.Event {
	return order.StartPreparing{}
}

func (c StartPreparingCommand) actor() string {
	return "shop"
}
