package order

// EventKind identifies a lifecycle event applied to an order. The string
// form doubles as the timeline step name.
type EventKind int

const (
	// EventUnknown catches uninitialized values.
	EventUnknown EventKind = iota
	// EventPlace creates the order. It is applied implicitly by Place and
	// appears on every timeline as the first step.
	EventPlace
	// EventAccept is the shop accepting the order.
	EventAccept
	// EventReject is the shop declining a placed or confirmed order.
	EventReject
	// EventStartPreparing is the shop starting preparation.
	EventStartPreparing
	// EventMarkReady is the shop marking the order ready for pickup.
	EventMarkReady
	// EventVerifyPickup is the partner presenting the shop OTP.
	EventVerifyPickup
	// EventHandoverSelfPickup is the shop handing the order to the customer.
	EventHandoverSelfPickup
	// EventVerifyDelivery is the customer handoff OTP verification.
	EventVerifyDelivery
	// EventFailDelivery is the partner reporting an undeliverable order.
	EventFailDelivery
	// EventConfirmReturn is the shop confirming receipt of a returned order.
	EventConfirmReturn
	// EventCancel cancels any non-terminal order.
	EventCancel
)

// String returns the canonical upper-snake step name.
func (k EventKind) String() string {
	switch k {
	case EventPlace:
		return "PLACE"
	case EventAccept:
		return "ACCEPT"
	case EventReject:
		return "REJECT"
	case EventStartPreparing:
		return "START_PREPARING"
	case EventMarkReady:
		return "MARK_READY"
	case EventVerifyPickup:
		return "VERIFY_PICKUP"
	case EventHandoverSelfPickup:
		return "HANDOVER_SELF_PICKUP"
	case EventVerifyDelivery:
		return "VERIFY_DELIVERY"
	case EventFailDelivery:
		return "FAIL_DELIVERY"
	case EventConfirmReturn:
		return "CONFIRM_RETURN"
	case EventCancel:
		return "CANCEL"
	default:
		return "UNKNOWN"
	}
}

// Event is a lifecycle occurrence applied through Transition. Each concrete
// event carries its own strongly typed payload, enabling exhaustive
// handling instead of untyped parameter bags.
type Event interface {
	Kind() EventKind
}

// Accept is the shop accepting a placed order.
type Accept struct {
	// EstimatedTime is the shop's free-form preparation estimate,
	// e.g. "30 minutes". Relayed to the customer.
	EstimatedTime string
}

// Kind implements Event.
func (Accept) Kind() EventKind { return EventAccept }

// Reject is the shop declining an order before fulfillment started.
type Reject struct {
	Reason string
}

// Kind implements Event.
func (Reject) Kind() EventKind { return EventReject }

// StartPreparing is the shop beginning preparation.
type StartPreparing struct{}

// Kind implements Event.
func (StartPreparing) Kind() EventKind { return EventStartPreparing }

// MarkReady is the shop declaring the order ready for pickup.
type MarkReady struct{}

// Kind implements Event.
func (MarkReady) Kind() EventKind { return EventMarkReady }

// VerifyPickup is the delivery partner presenting the shop OTP at pickup.
type VerifyPickup struct {
	Code string
}

// Kind implements Event.
func (VerifyPickup) Kind() EventKind { return EventVerifyPickup }

// HandoverSelfPickup is the shop handing a self-pickup order to the
// customer.
type HandoverSelfPickup struct{}

// Kind implements Event.
func (HandoverSelfPickup) Kind() EventKind { return EventHandoverSelfPickup }

// VerifyDelivery is the customer handoff OTP verification at the door.
type VerifyDelivery struct {
	Code string
}

// Kind implements Event.
func (VerifyDelivery) Kind() EventKind { return EventVerifyDelivery }

// FailDelivery is the partner reporting the customer could not be reached.
type FailDelivery struct {
	Reason string
}

// Kind implements Event.
func (FailDelivery) Kind() EventKind { return EventFailDelivery }

// ConfirmReturn is the shop confirming a failed delivery came back.
type ConfirmReturn struct{}

// Kind implements Event.
func (ConfirmReturn) Kind() EventKind { return EventConfirmReturn }

// Cancel cancels any non-terminal order.
type Cancel struct {
	Reason string
}

// Kind implements Event.
func (Cancel) Kind() EventKind { return EventCancel }
