package order

import (
	"errors"
	"fmt"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not
	// created through Place or Restore.
	ErrOrderIsNotConstructed = errors.New("Order must be created via Place or Restore")

	// ErrInvalidTransition indicates the event is not legal from the
	// order's current status. The order and its timeline are untouched.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrAlreadyTerminal indicates the order is in a terminal state and
	// the event would not reproduce it.
	ErrAlreadyTerminal = errors.New("order is already in a terminal state")

	// ErrInvalidCredential indicates a handoff code mismatch. The pending
	// credential stays consumable; the human operator may retry.
	ErrInvalidCredential = errors.New("invalid handoff credential")
)

// InvalidTransitionError reports the event and the state it was illegally
// applied from. Matches ErrInvalidTransition via errors.Is.
type InvalidTransitionError struct {
	Event EventKind
	From  Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s is not allowed from %s", ErrInvalidTransition, e.Event, e.From)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// InvalidCredentialError reports why a handoff verification failed.
// Matches ErrInvalidCredential via errors.Is.
type InvalidCredentialError struct {
	Purpose CredentialPurpose
	Reason  string
}

func (e *InvalidCredentialError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidCredential, e.Purpose, e.Reason)
}

func (e *InvalidCredentialError) Unwrap() error {
	return ErrInvalidCredential
}

func newInvalidCredentialError(purpose CredentialPurpose, reason string) *InvalidCredentialError {
	return &InvalidCredentialError{Purpose: purpose, Reason: reason}
}
