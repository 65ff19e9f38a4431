package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrVerifyDeliveryCommandIsNotConstructed = errors.New(
	"VerifyDeliveryCommand must be created via NewVerifyDeliveryCommand constructor",
)

// VerifyDeliveryCommand is the customer's delivery code being presented
// at the door.
type VerifyDeliveryCommand struct {
	orderID kernel.UUID
	code    string

	guard guard.ConstructorGuard
}

// NewVerifyDeliveryCommand creates the command.
func NewVerifyDeliveryCommand(orderID kernel.UUID, code string) (VerifyDeliveryCommand, error) {
	if err := orderID.Validate(); err != nil {
		return VerifyDeliveryCommand{}, err
	}
	if strings.TrimSpace(code) == "" {
		return VerifyDeliveryCommand{}, errs.NewValueIsRequiredError("code")
	}

	return VerifyDeliveryCommand{
		orderID: orderID,
		code:    code,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c VerifyDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrVerifyDeliveryCommandIsNotConstructed)
}

// OrderID returns the order the step applies to.
func (c VerifyDeliveryCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c VerifyDeliveryCommand) event() order.Event {
	return order.VerifyDelivery{Code: c.code}
}

func (c VerifyDeliveryCommand) actor() string {
	return "partner"
}
