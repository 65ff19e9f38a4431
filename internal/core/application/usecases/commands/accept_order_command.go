package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrAcceptOrderCommandIsNotConstructed = errors.New(
	"AcceptOrderCommand must be created via NewAcceptOrderCommand constructor",
)

// AcceptOrderCommand is the shop confirming a placed order.
//
// Example:
//
//	cmd, err := NewAcceptOrderCommand(orderID, "30 minutes")
//	if err != nil {
//	    return err
//	}
//	status, err := stepHandler.Handle(ctx, cmd)
type AcceptOrderCommand struct {
	orderID       kernel.UUID
	estimatedTime string

	guard guard.ConstructorGuard
}

// NewAcceptOrderCommand creates the command. The preparation estimate is
// optional free text relayed to the customer.
func NewAcceptOrderCommand(orderID kernel.UUID, estimatedTime string) (AcceptOrderCommand, error) {
	if err := orderID.Validate(); err != nil {
		return AcceptOrderCommand{}, err
	}

	return AcceptOrderCommand{
		orderID:       orderID,
		estimatedTime: estimatedTime,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c AcceptOrderCommand) Validate() error {
	return c.guard.Validate(ErrAcceptOrderCommandIsNotConstructed)
}

// OrderID returns the order the step applies to.
func (c AcceptOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// EstimatedTime returns the shop's preparation estimate.
func (c AcceptOrderCommand) EstimatedTime() string {
	return c.estimatedTime
}

func (c AcceptOrderCommand) event() order.Event {
	return order.Accept{EstimatedTime: c.estimatedTime}
}

func (c AcceptOrderCommand) actor() string {
	return "shop"
}
