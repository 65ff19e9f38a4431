package commands

import (
	"errors"

	"fulfillment/internal/pkg/guard"
)

var ErrSweepAssignmentsCommandIsNotConstructed = errors.New(
	"SweepAssignmentsCommand must be created via NewSweepAssignmentsCommand constructor",
)

// SweepAssignmentsCommand triggers one pass of the background assignment
// sweep. It carries no data; the handler finds its own work.
type SweepAssignmentsCommand struct {
	guard guard.ConstructorGuard
}

// NewSweepAssignmentsCommand creates the command.
func NewSweepAssignmentsCommand() SweepAssignmentsCommand {
	return SweepAssignmentsCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c SweepAssignmentsCommand) Validate() error {
	return c.guard.Validate(ErrSweepAssignmentsCommandIsNotConstructed)
}
