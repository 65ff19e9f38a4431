package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrCancelOrderCommandIsNotConstructed = errors.New(
	"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
)

// CancelOrderCommand ends a live order before completion. Unlike the
// other steps the acting party varies, so it is part of the command.
type CancelOrderCommand struct {
	orderID     kernel.UUID
	reason      string
	requestedBy string

	guard guard.ConstructorGuard
}

// NewCancelOrderCommand creates the command. Both the reason and the
// requesting party are mandatory.
func NewCancelOrderCommand(orderID kernel.UUID, reason, requestedBy string) (CancelOrderCommand, error) {
	if err := orderID.Validate(); err != nil {
		return CancelOrderCommand{}, err
	}
	if strings.TrimSpace(reason) == "" {
		return CancelOrderCommand{}, errs.NewValueIsRequiredError("reason")
	}
	if strings.TrimSpace(requestedBy) == "" {
		return CancelOrderCommand{}, errs.NewValueIsRequiredError("requestedBy")
	}

	return CancelOrderCommand{
		orderID:     orderID,
		reason:      reason,
		requestedBy: requestedBy,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

// OrderID returns the order the step applies to.
func (c CancelOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Reason returns why the order is being cancelled.
func (c CancelOrderCommand) Reason() string {
	return c.reason
}

// RequestedBy returns the cancelling party.
func (c CancelOrderCommand) RequestedBy() string {
	return c.requestedBy
}

func (c CancelOrderCommand) event() order.Event {
	return order.Cancel{Reason: c.reason}
}

func (c CancelOrderCommand) actor() string {
	return c.requestedBy
}
