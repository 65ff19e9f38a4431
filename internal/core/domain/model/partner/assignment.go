package partner

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	// ErrAssignmentIsNotConstructed is returned when using an improperly
	// initialized Assignment.
	ErrAssignmentIsNotConstructed = errors.New("Assignment must be created via NewAssignment constructor")

	// ErrAssignmentNotActionable indicates the assignment is not in a
	// status that permits the requested action.
	ErrAssignmentNotActionable = errors.New("assignment is not actionable")
)

// AssignmentStatus is the lifecycle state of one partner's responsibility
// for one order.
type AssignmentStatus int

const (
	// AssignmentStatusUnknown catches uninitialized values.
	AssignmentStatusUnknown AssignmentStatus = iota
	// Assigned means the partner was offered the order and has not
	// responded yet.
	Assigned
	// Accepted means the partner confirmed and is heading to the shop.
	Accepted
	// PickedUp means the partner holds the order.
	PickedUp
	// Delivered means the partner completed the order. Final.
	Delivered
	// Cancelled means the assignment ended without delivery. Final.
	Cancelled
)

// String returns the canonical upper-snake name.
func (s AssignmentStatus) String() string {
	switch s {
	case Assigned:
		return "ASSIGNED"
	case Accepted:
		return "ACCEPTED"
	case PickedUp:
		return "PICKED_UP"
	case Delivered:
		return "DELIVERED"
	case Cancelled:
		return "CANCELLED"
	default:
		return "UNKNOWN"
	}
}

// Validate checks the AssignmentStatus is a defined value.
func (s AssignmentStatus) Validate() error {
	switch s {
	case Assigned, Accepted, PickedUp, Delivered, Cancelled:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("assignment status is invalid",
			fmt.Errorf("%d is not a valid assignment status", s))
	}
}

// IsFinal reports whether the status permits no further actions.
func (s AssignmentStatus) IsFinal() bool {
	return s == Delivered || s == Cancelled
}

// AssignmentStatusFromString converts the canonical name back to a status.
func AssignmentStatusFromString(s string) (AssignmentStatus, error) {
	for _, status := range []AssignmentStatus{Assigned, Accepted, PickedUp, Delivered, Cancelled} {
		if status.String() == s {
			return status, nil
		}
	}
	return AssignmentStatusUnknown, errs.NewValueIsInvalidErrorWithCause("assignment status is invalid",
		fmt.Errorf("%q is not a valid assignment status", s))
}

// Assignment tracks one partner's responsibility for one order.
//
// Lifecycle: Assigned -> Accepted -> PickedUp -> Delivered, with Cancelled
// reachable from any non-final status. An order has at most one active
// assignment at a time; cancelling frees the order for reassignment.
type Assignment struct {
	id        kernel.UUID
	orderID   kernel.UUID
	partnerID kernel.UUID

	status AssignmentStatus

	// assignedAt is when the offer was made; stale unanswered offers are
	// swept and cancelled
	assignedAt time.Time

	// respondedAt is when the partner accepted or the assignment was
	// cancelled (nil while awaiting response)
	respondedAt *time.Time

	// reason explains a cancellation
	reason string

	version int

	guard guard.ConstructorGuard
}

// NewAssignment offers an order to a partner. The assignment starts in
// Assigned and awaits the partner's response.
func NewAssignment(id, orderID, partnerID kernel.UUID, now time.Time) (*Assignment, error) {
	a := &Assignment{
		guard:  guard.NewConstructorGuard(),
		status: Assigned,
	}

	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		partnerID.Validate(),
	); err != nil {
		return nil, err
	}

	if now.IsZero() {
		return nil, errs.NewValueIsRequiredError("now")
	}

	a.id = id
	a.orderID = orderID
	a.partnerID = partnerID
	a.assignedAt = now

	return a, nil
}

// RestoreAssignment reconstructs an Assignment from persistence.
func RestoreAssignment(
	id, orderID, partnerID kernel.UUID, status AssignmentStatus,
	assignedAt time.Time, respondedAt *time.Time, reason string, version int,
) (*Assignment, error) {
	a, err := NewAssignment(id, orderID, partnerID, assignedAt)
	if err != nil {
		return nil, err
	}

	if err := status.Validate(); err != nil {
		return nil, err
	}
	if version < 0 {
		return nil, errs.NewVersionIsInvalidErrorWithCause("version")
	}

	a.status = status
	a.respondedAt = respondedAt
	a.reason = reason
	a.version = version
	return a, nil
}

// Validate ensures the Assignment was created through NewAssignment.
func (a *Assignment) Validate() error {
	if a == nil {
		return ErrAssignmentIsNotConstructed
	}
	return a.guard.Validate(ErrAssignmentIsNotConstructed)
}

// IsEqual compares two assignments by their unique identifiers.
func (a *Assignment) IsEqual(other *Assignment) bool {
	return other != nil && a.id.IsEqual(other.id)
}

// ID returns the assignment's unique identifier.
func (a *Assignment) ID() kernel.UUID {
	return a.id
}

// OrderID returns the assigned order.
func (a *Assignment) OrderID() kernel.UUID {
	return a.orderID
}

// PartnerID returns the responsible partner.
func (a *Assignment) PartnerID() kernel.UUID {
	return a.partnerID
}

// Status returns the assignment's lifecycle state.
func (a *Assignment) Status() AssignmentStatus {
	return a.status
}

// AssignedAt returns when the offer was made.
func (a *Assignment) AssignedAt() time.Time {
	return a.assignedAt
}

// RespondedAt returns when the partner responded, or nil while waiting.
func (a *Assignment) RespondedAt() *time.Time {
	return a.respondedAt
}

// Reason returns the cancellation reason, empty otherwise.
func (a *Assignment) Reason() string {
	return a.reason
}

// Version returns the optimistic locking version.
func (a *Assignment) Version() int {
	return a.version
}

// IsActive reports whether the assignment still binds partner and order.
func (a *Assignment) IsActive() bool {
	return !a.status.IsFinal()
}

// IsStale reports whether the offer has waited for a response longer than
// ttl. Only unanswered offers go stale.
func (a *Assignment) IsStale(now time.Time, ttl time.Duration) bool {
	return a.status == Assigned && now.Sub(a.assignedAt) > ttl
}

// Accept records the partner taking the order.
func (a *Assignment) Accept(now time.Time) error {
	if a.status != Assigned {
		return fmt.Errorf("%w: cannot accept from %s", ErrAssignmentNotActionable, a.status)
	}

	a.status = Accepted
	a.respondedAt = &now
	return nil
}

// Decline cancels an unanswered offer with the partner's reason, freeing
// the order for reassignment.
func (a *Assignment) Decline(reason string, now time.Time) error {
	if a.status != Assigned {
		return fmt.Errorf("%w: cannot decline from %s", ErrAssignmentNotActionable, a.status)
	}
	if reason == "" {
		return errs.NewValueIsRequiredError("reason")
	}

	a.status = Cancelled
	a.reason = reason
	a.respondedAt = &now
	return nil
}

// MarkPickedUp records that the partner collected the order at the shop.
func (a *Assignment) MarkPickedUp() error {
	if a.status != Accepted {
		return fmt.Errorf("%w: cannot pick up from %s", ErrAssignmentNotActionable, a.status)
	}

	a.status = PickedUp
	return nil
}

// Complete records successful delivery. Final.
func (a *Assignment) Complete() error {
	if a.status != PickedUp {
		return fmt.Errorf("%w: cannot complete from %s", ErrAssignmentNotActionable, a.status)
	}

	a.status = Delivered
	return nil
}

// Cancel ends the assignment without delivery. Allowed from any non-final
// status, covering order cancellation and stale offer sweeps.
func (a *Assignment) Cancel(reason string, now time.Time) error {
	if a.status.IsFinal() {
		return fmt.Errorf("%w: cannot cancel from %s", ErrAssignmentNotActionable, a.status)
	}
	if reason == "" {
		return errs.NewValueIsRequiredError("reason")
	}

	a.status = Cancelled
	a.reason = reason
	a.respondedAt = &now
	return nil
}
