package notification

// EventType identifies what is being announced.
type EventType int

const (
	// EventTypeUnknown catches uninitialized values.
	EventTypeUnknown EventType = iota
	// OrderPlacedEvent announces a newly placed order.
	OrderPlacedEvent
	// OrderAcceptedEvent announces the shop accepted the order.
	OrderAcceptedEvent
	// OrderRejectedEvent announces a rejection or cancellation.
	OrderRejectedEvent
	// OrderReadyEvent announces the order awaits pickup.
	OrderReadyEvent
	// OrderPickedUpEvent announces the partner collected the order.
	OrderPickedUpEvent
	// OrderDeliveredEvent announces successful completion.
	OrderDeliveredEvent
	// DailySummaryEvent carries a shop's end-of-day figures.
	DailySummaryEvent
)

// String returns the canonical upper-snake name.
func (t EventType) String() string {
	switch t {
	case OrderPlacedEvent:
		return "ORDER_PLACED"
	case OrderAcceptedEvent:
		return "ORDER_ACCEPTED"
	case OrderRejectedEvent:
		return "ORDER_REJECTED"
	case OrderReadyEvent:
		return "ORDER_READY"
	case OrderPickedUpEvent:
		return "ORDER_PICKED_UP"
	case OrderDeliveredEvent:
		return "ORDER_DELIVERED"
	case DailySummaryEvent:
		return "DAILY_SUMMARY"
	default:
		return "UNKNOWN"
	}
}

// Role identifies which side of the order a recipient is on.
type Role int

const (
	// RoleCustomer is the ordering customer.
	RoleCustomer Role = iota + 1
	// RoleShop is the shop owner.
	RoleShop
	// RolePartner is the delivery partner.
	RolePartner
)

// String returns the canonical lower-case role name.
func (r Role) String() string {
	switch r {
	case RoleCustomer:
		return "customer"
	case RoleShop:
		return "shop"
	case RolePartner:
		return "partner"
	default:
		return "unknown"
	}
}

// Recipient is one addressee of an event. Channels with an empty address
// are skipped for this recipient.
type Recipient struct {
	Role       Role
	Name       string
	Email      string
	PushTarget string
}

// Payload is an event's type-specific content. Each payload renders itself
// for both channels, keeping content changes local to one type.
type Payload interface {
	Type() EventType
	PushTitle() string
	PushBody() string
	PushData() map[string]string
	EmailSubject() string
	EmailHTML() string
}

// Event is one announcement to a set of recipients.
type Event struct {
	Payload    Payload
	Recipients []Recipient
}
