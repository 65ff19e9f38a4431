package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// State transitions:
//
//	PLACED ──> CONFIRMED ──> PREPARING ──> READY_FOR_PICKUP ──┬──> OUT_FOR_DELIVERY ──> DELIVERED
//	                                                          └──> SELF_PICKUP_COLLECTED ──> DELIVERED
//	OUT_FOR_DELIVERY ──> RETURNING_TO_SHOP ──> RETURNED_TO_SHOP
//	any non-terminal ──> CANCELLED
//
// DELIVERED, CANCELLED, and RETURNED_TO_SHOP are terminal. Status is a
// value object that provides string representations for persistence and
// external communication.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Placed is the initial status when a customer places an order.
	Placed

	// Confirmed indicates the shop has accepted the order.
	Confirmed

	// Preparing indicates the shop has started preparing the order.
	Preparing

	// ReadyForPickup indicates the order awaits collection by the
	// delivery partner or, for self-pickup, by the customer.
	ReadyForPickup

	// OutForDelivery indicates the delivery partner verified the shop
	// handoff and is en route to the customer.
	OutForDelivery

	// SelfPickupCollected indicates the customer collected the order at
	// the shop. It is immediately followed by Delivered on the timeline.
	SelfPickupCollected

	// Delivered is the successful terminal state.
	Delivered

	// ReturningToShop indicates a failed delivery on its way back.
	ReturningToShop

	// ReturnedToShop is the terminal state of the return branch.
	ReturnedToShop

	// Cancelled is the terminal state for rejected or cancelled orders.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:             "UNKNOWN",
		Placed:              "PLACED",
		Confirmed:           "CONFIRMED",
		Preparing:           "PREPARING",
		ReadyForPickup:      "READY_FOR_PICKUP",
		OutForDelivery:      "OUT_FOR_DELIVERY",
		SelfPickupCollected: "SELF_PICKUP_COLLECTED",
		Delivered:           "DELIVERED",
		ReturningToShop:     "RETURNING_TO_SHOP",
		ReturnedToShop:      "RETURNED_TO_SHOP",
		Cancelled:           "CANCELLED",
	}
}

// Validate checks that the Status value is one of the defined lifecycle
// states. Unknown (0) and out-of-range values are invalid. Used when
// reconstructing orders from persistence or parsing external input.
func (s Status) Validate() error {
	if s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%d is not a valid status", s))
	}
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the canonical upper-snake name used in persistence and
// external communication. It implements fmt.Stringer and is safe to call
// on any Status value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTerminal reports whether the status permits no further transitions.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled || s == ReturnedToShop
}

// StatusFromString parses the canonical upper-snake representation.
func StatusFromString(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid",
		fmt.Errorf("%q is not a valid status", s))
}
