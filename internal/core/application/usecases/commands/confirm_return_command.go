package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrConfirmReturnCommandIsNotConstructed = errors.New(
	"ConfirmReturnCommand must be created via NewConfirmReturnCommand constructor",
)

// ConfirmReturnCommand is the shop confirming a failed delivery came
// back to the counter.
type ConfirmReturnCommand struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewConfirmReturnCommand creates the command.
func NewConfirmReturnCommand(orderID kernel.UUID) (ConfirmReturnCommand, error) {
	if err := orderID.Validate(); err != nil {
		return ConfirmReturnCommand{}, err
	}

	return ConfirmReturnCommand{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ConfirmReturnCommand) Validate() error {
	return c.guard.Validate(ErrConfirmReturnCommandIsNotConstructed)
}

// OrderID returns the order the step applies to.
func (c ConfirmReturnCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c ConfirmReturnCommand) event() order.Event {
	return order.ConfirmReturn{}
}

func (c ConfirmReturnCommand) actor() string {
	return "shop"
}
