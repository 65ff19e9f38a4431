package commands

import (
	"errors"
	"time"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrRunDailySummaryCommandIsNotConstructed = errors.New(
	"RunDailySummaryCommand must be created via NewRunDailySummaryCommand constructor",
)

// RunDailySummaryCommand produces the end-of-day summaries for every
// active shop for one calendar date.
type RunDailySummaryCommand struct {
	date time.Time

	guard guard.ConstructorGuard
}

// NewRunDailySummaryCommand creates the command for the given calendar
// date. The time portion is truncated to midnight UTC.
func NewRunDailySummaryCommand(date time.Time) (RunDailySummaryCommand, error) {
	if date.IsZero() {
		return RunDailySummaryCommand{}, errs.NewValueIsRequiredError("date")
	}

	return RunDailySummaryCommand{
		date:  date.UTC().Truncate(24 * time.Hour),
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c RunDailySummaryCommand) Validate() error {
	return c.guard.Validate(ErrRunDailySummaryCommandIsNotConstructed)
}

// Date returns the summarized calendar date at midnight UTC.
func (c RunDailySummaryCommand) Date() time.Time {
	return c.date
}
