package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrRespondAssignmentCommandIsNotConstructed = errors.New(
	"RespondAssignmentCommand must be created via NewRespondAssignmentCommand constructor",
)

// RespondAssignmentCommand is a delivery partner answering an assignment
// offer: accept, or decline with a reason.
type RespondAssignmentCommand struct {
	assignmentID kernel.UUID
	accept       bool
	reason       string

	guard guard.ConstructorGuard
}

// NewRespondAssignmentCommand creates the command. Declines require a
// reason; accepts ignore it.
func NewRespondAssignmentCommand(assignmentID kernel.UUID, accept bool, reason string) (RespondAssignmentCommand, error) {
	if err := assignmentID.Validate(); err != nil {
		return RespondAssignmentCommand{}, err
	}
	if !accept && strings.TrimSpace(reason) == "" {
		return RespondAssignmentCommand{}, errs.NewValueIsRequiredError("reason")
	}

	return RespondAssignmentCommand{
		assignmentID: assignmentID,
		accept:       accept,
		reason:       reason,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c RespondAssignmentCommand) Validate() error {
	return c.guard.Validate(ErrRespondAssignmentCommandIsNotConstructed)
}

// AssignmentID returns the assignment being answered.
func (c RespondAssignmentCommand) AssignmentID() kernel.UUID {
	return c.assignmentID
}

// Accept reports whether the partner takes the order.
func (c RespondAssignmentCommand) Accept() bool {
	return c.accept
}

// Reason returns the decline reason, empty on accept.
func (c RespondAssignmentCommand) Reason() string {
	return c.reason
}
