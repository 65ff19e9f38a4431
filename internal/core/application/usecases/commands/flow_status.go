package commands

import (
	"fulfillment/internal/core/domain/model/order"
)

// FlowStatus is what a successful step handler returns to the caller:
// where the order is, what comes next, and whether the next step can run
// right now.
type FlowStatus struct {
	OrderID     string
	OrderNumber string
	Status      string

	// CurrentStep is the last completed step.
	CurrentStep string

	// NextStep is the step expected next, empty in terminal states.
	NextStep string

	// CanProceed is false when the next step is blocked on something
	// outside the caller's control.
	CanProceed bool

	// BlockedReason explains a false CanProceed.
	BlockedReason string
}

// flowStatusOf derives the FlowStatus from the order's current state.
func flowStatusOf(o *order.Order) FlowStatus {
	fs := FlowStatus{
		OrderID:     o.ID().String(),
		OrderNumber: o.Number(),
		Status:      o.Status().String(),
		CanProceed:  true,
	}

	timeline := o.Timeline()
	if len(timeline) > 0 {
		fs.CurrentStep = timeline[len(timeline)-1].Step.String()
	}

	switch o.Status() {
	case order.Placed:
		fs.NextStep = order.EventAccept.String()
	case order.Confirmed:
		fs.NextStep = order.EventStartPreparing.String()
	case order.Preparing:
		fs.NextStep = order.EventMarkReady.String()
	case order.ReadyForPickup:
		if o.DeliveryType() == order.SelfPickup {
			fs.NextStep = order.EventHandoverSelfPickup.String()
		} else {
			fs.NextStep = order.EventVerifyPickup.String()
		}
	case order.OutForDelivery:
		fs.NextStep = order.EventVerifyDelivery.String()
	case order.ReturningToShop:
		fs.NextStep = order.EventConfirmReturn.String()
	default:
		// terminal states have no next step
	}

	// A live home delivery without a partner cannot leave the shop,
	// whatever kitchen step comes next.
	if o.NeedsAssignment() {
		fs.CanProceed = false
		fs.BlockedReason = "awaiting delivery partner assignment"
	}

	return fs
}
