package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrVerifyPickupCommandIsNotConstructed = errors.New(
	"VerifyPickupCommand must be created via NewVerifyPickupCommand constructor",
)

// VerifyPickupCommand is the delivery partner presenting the shop's
// pickup code at the counter.
type VerifyPickupCommand struct {
	orderID kernel.UUID
	code    string

	guard guard.ConstructorGuard
}

// NewVerifyPickupCommand creates the command.
func NewVerifyPickupCommand(orderID kernel.UUID, code string) (VerifyPickupCommand, error) {
	if err := orderID.Validate(); err != nil {
		return VerifyPickupCommand{}, err
	}
	if strings.TrimSpace(code) == "" {
		return VerifyPickupCommand{}, errs.NewValueIsRequiredError("code")
	}

	return VerifyPickupCommand{
		orderID: orderID,
		code:    code,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c VerifyPickupCommand) Validate() error {
	return c.guard.Validate(ErrVerifyPickupCommandIsNotConstructed)
}

// OrderID returns the order the step applies to.
func (c VerifyPickupCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c VerifyPickupCommand) event() order.Event {
	return order.VerifyPickup{Code: c.code}
}

func (c VerifyPickupCommand) actor() string {
	return "partner"
}
