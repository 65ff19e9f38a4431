package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrHandoverSelfPickupCommandIsNotConstructed = errors.New(
	"HandoverSelfPickupCommand must be created via NewHandoverSelfPickupCommand constructor",
)

// HandoverSelfPickupCommand is the shop handing a self-pickup order to
// the customer at the counter.
type HandoverSelfPickupCommand struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewHandoverSelfPickupCommand creates the command.
func NewHandoverSelfPickupCommand(orderID kernel.UUID) (HandoverSelfPickupCommand, error) {
	if err := orderID.Validate(); err != nil {
		return HandoverSelfPickupCommand{}, err
	}

	return HandoverSelfPickupCommand{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c HandoverSelfPickupCommand) Validate() error {
	return c.guard.Validate(ErrHandoverSelfPickupCommandIsNotConstructed)
}

// OrderID returns the order the step applies to.
func (c HandoverSelfPickupCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c HandoverSelfPickupCommand) event() order.Event {
	return order.HandoverSelfPickup{}
}

func (c HandoverSelfPickupCommand) actor() string {
	return "shop"
}
