package order

// SideEffect describes an action a successful transition requires. The
// state machine only describes effects; the application layer executes
// them, which keeps the machine deterministic and testable without I/O.
type SideEffect interface {
	isSideEffect()
}

// Party identifies a recipient of an order notification.
type Party int

const (
	// PartyCustomer is the ordering customer.
	PartyCustomer Party = iota + 1
	// PartyShop is the shop owner.
	PartyShop
	// PartyPartner is the assigned delivery partner.
	PartyPartner
)

// NotifyKind is the logical notification raised by a transition. It maps
// one-to-one onto the dispatcher's event types.
type NotifyKind int

const (
	// NotifyOrderPlaced announces a new order.
	NotifyOrderPlaced NotifyKind = iota + 1
	// NotifyOrderAccepted announces the shop accepted.
	NotifyOrderAccepted
	// NotifyOrderRejected announces a rejection or cancellation with reason.
	NotifyOrderRejected
	// NotifyOrderReady announces the order awaits pickup.
	NotifyOrderReady
	// NotifyOrderPickedUp announces the partner collected the order.
	NotifyOrderPickedUp
	// NotifyOrderDelivered announces successful completion.
	NotifyOrderDelivered
)

// IssueCredentials instructs the caller to generate and attach handoff
// codes for the listed purposes.
type IssueCredentials struct {
	Purposes []CredentialPurpose
}

func (IssueCredentials) isSideEffect() {}

// RequestAssignment instructs the caller to resolve a delivery partner for
// the order.
type RequestAssignment struct{}

func (RequestAssignment) isSideEffect() {}

// Notify instructs the caller to dispatch a notification to the listed
// parties.
type Notify struct {
	Kind    NotifyKind
	Parties []Party

	// Reason carries the rejection/cancellation reason where applicable.
	Reason string
	// EstimatedTime carries the shop's preparation estimate on acceptance.
	EstimatedTime string
}

func (Notify) isSideEffect() {}

// GenerateInvoice instructs the caller to produce and send the invoice.
// Raised exactly once, on the transition into Delivered.
type GenerateInvoice struct{}

func (GenerateInvoice) isSideEffect() {}
