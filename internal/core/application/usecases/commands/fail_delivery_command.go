package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrFailDeliveryCommandIsNotConstructed = errors.New(
	"FailDeliveryCommand must be created via NewFailDeliveryCommand constructor",
)

// FailDeliveryCommand is the partner reporting an undeliverable order,
// starting its return to the shop.
type FailDeliveryCommand struct {
	orderID kernel.UUID
	reason  string

	guard guard.ConstructorGuard
}

// NewFailDeliveryCommand creates the command. A reason is mandatory.
func NewFailDeliveryCommand(orderID kernel.UUID, reason string) (FailDeliveryCommand, error) {
	if err := orderID.Validate(); err != nil {
		return FailDeliveryCommand{}, err
	}
	if strings.TrimSpace(reason) == "" {
		return FailDeliveryCommand{}, errs.NewValueIsRequiredError("reason")
	}

	return FailDeliveryCommand{
		orderID: orderID,
		reason:  reason,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c FailDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrFailDeliveryCommandIsNotConstructed)
}

// OrderID returns the order the step applies to.
func (c FailDeliveryCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Reason returns why delivery failed.
func (c FailDeliveryCommand) Reason() string {
	return c.reason
}

func (c FailDeliveryCommand) event() order.Event {
	return order.FailDelivery{Reason: c.reason}
}

func (c FailDeliveryCommand) actor() string {
	return "partner"
}
