package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// Order is the aggregate root for a fulfillment order. It owns the order's
// lifecycle from placement through handoff to a terminal state, its handoff
// credentials, and its append-only timeline.
//
// Order maintains these invariants:
//   - Must have valid identifiers for the order, customer and shop
//   - Total is always subtotal - discount + delivery fee
//   - Discount never exceeds the subtotal
//   - Self-pickup orders carry a zero delivery fee
//   - At most one unconsumed credential per purpose
//   - Status only changes through Transition
//   - Can only be created through Place or Restore
//
// All fields are private; state changes go through validated methods so the
// aggregate can never hold an inconsistent combination.
type Order struct {
	// id is the unique identifier for the order
	id kernel.UUID

	// number is the human-facing order number, unique per shop
	number string

	// customerID and shopID reference the ordering parties
	customerID kernel.UUID
	shopID     kernel.UUID

	// customer and shop carry the contact details used for notifications
	customer Contact
	shop     Contact

	// shopLocation anchors partner assignment distance calculations
	shopLocation kernel.Location

	deliveryType  DeliveryType
	paymentMethod PaymentMethod
	paymentStatus PaymentStatus

	subtotal    kernel.Money
	discount    kernel.Money
	deliveryFee kernel.Money
	total       kernel.Money

	// status is the current step in the order lifecycle
	status Status

	// cancellationReason is set when the order is rejected or cancelled
	cancellationReason string

	// estimatedTime is the preparation estimate given by the shop on accept
	estimatedTime string

	// timeline records every completed step in order
	timeline []TimelineEntry

	// credentials holds the handoff codes keyed by purpose
	credentials map[CredentialPurpose]*HandoffCredential

	// partnerID is the assigned delivery partner (nil if unassigned)
	partnerID *kernel.UUID

	// version supports optimistic locking in persistence
	version int

	// isConstructed ensures the order was created via Place or Restore
	isConstructed bool
}

// Placement carries everything needed to place a new order.
// All money amounts are in the smallest currency unit.
type Placement struct {
	ID            kernel.UUID
	Number        string
	CustomerID    kernel.UUID
	ShopID        kernel.UUID
	Customer      Contact
	Shop          Contact
	ShopLocation  kernel.Location
	DeliveryType  DeliveryType
	PaymentMethod PaymentMethod
	Subtotal      kernel.Money
	Discount      kernel.Money
	DeliveryFee   kernel.Money

	// Actor is recorded on the placement timeline entry
	Actor string

	// Now is the placement timestamp
	Now time.Time
}

// Place creates a new Order in the Placed status. This is the only way to
// start an order's lifecycle, ensuring all business invariants hold from the
// first moment.
//
// Beyond the constructed aggregate, Place returns the side effects the caller
// must carry out: issuing handoff credentials and notifying the customer and
// the shop that the order exists. Home delivery orders need both a shop
// pickup code and a delivery code; self-pickup orders only need the pickup
// code and must not carry a delivery fee.
//
// Returns:
//   - *Order: the placed order if all validations pass
//   - []SideEffect: effects to execute after the order is persisted
//   - error: joined validation errors if any input is invalid
//
// Example:
//
//	o, effects, err := order.Place(order.Placement{
//	    ID:            kernel.NewUUID(),
//	    Number:        "ORD-2024-000451",
//	    CustomerID:    customerID,
//	    ShopID:        shopID,
//	    Customer:      customerContact,
//	    Shop:          shopContact,
//	    ShopLocation:  shopLocation,
//	    DeliveryType:  order.HomeDelivery,
//	    PaymentMethod: order.CashOnDelivery,
//	    Subtotal:      subtotal,
//	    DeliveryFee:   fee,
//	    Actor:         "customer",
//	    Now:           time.Now(),
//	})
func Place(p Placement) (*Order, []SideEffect, error) {
	o := &Order{
		status:        Placed,
		paymentStatus: PaymentPending,
		credentials:   make(map[CredentialPurpose]*HandoffCredential),
		isConstructed: true,
	}

	if err := errors.Join(
		o.setIDs(p.ID, p.CustomerID, p.ShopID),
		o.setNumber(p.Number),
		o.setContacts(p.Customer, p.Shop),
		o.setShopLocation(p.ShopLocation),
		o.setDeliveryType(p.DeliveryType),
		o.setPaymentMethod(p.PaymentMethod),
		o.setAmounts(p.Subtotal, p.Discount, p.DeliveryFee),
	); err != nil {
		return nil, nil, err
	}

	if p.Now.IsZero() {
		return nil, nil, errs.NewValueIsRequiredError("now")
	}

	o.appendTimeline(TimelineEntry{
		Step:   EventPlace,
		Status: Placed,
		At:     p.Now,
		Actor:  p.Actor,
	})

	purposes := []CredentialPurpose{PurposeShopPickup}
	if o.deliveryType == HomeDelivery {
		purposes = append(purposes, PurposeDelivery)
	}

	effects := []SideEffect{
		IssueCredentials{Purposes: purposes},
		Notify{Kind: NotifyOrderPlaced, Parties: []Party{PartyCustomer, PartyShop}},
	}

	return o, effects, nil
}

// Snapshot is the persisted state of an order, used by Restore.
type Snapshot struct {
	ID                 kernel.UUID
	Number             string
	CustomerID         kernel.UUID
	ShopID             kernel.UUID
	Customer           Contact
	Shop               Contact
	ShopLocation       kernel.Location
	DeliveryType       DeliveryType
	PaymentMethod      PaymentMethod
	PaymentStatus      PaymentStatus
	Subtotal           kernel.Money
	Discount           kernel.Money
	DeliveryFee        kernel.Money
	Status             Status
	CancellationReason string
	EstimatedTime      string
	Timeline           []TimelineEntry
	Credentials        []*HandoffCredential
	PartnerID          *kernel.UUID
	Version            int
}

// Restore reconstructs an Order from its persisted snapshot. It applies the
// same validation as Place plus the snapshot-only fields, so a corrupted row
// cannot produce a usable aggregate.
//
// Restore is intended for repository implementations only.
func Restore(s Snapshot) (*Order, error) {
	o := &Order{
		credentials:   make(map[CredentialPurpose]*HandoffCredential),
		isConstructed: true,
	}

	if err := errors.Join(
		o.setIDs(s.ID, s.CustomerID, s.ShopID),
		o.setNumber(s.Number),
		o.setContacts(s.Customer, s.Shop),
		o.setShopLocation(s.ShopLocation),
		o.setDeliveryType(s.DeliveryType),
		o.setPaymentMethod(s.PaymentMethod),
		o.setAmounts(s.Subtotal, s.Discount, s.DeliveryFee),
		o.setStatus(s.Status),
		o.setPaymentStatus(s.PaymentStatus),
		o.setVersion(s.Version),
	); err != nil {
		return nil, err
	}

	o.cancellationReason = s.CancellationReason
	o.estimatedTime = s.EstimatedTime
	o.timeline = append(o.timeline, s.Timeline...)

	for _, cred := range s.Credentials {
		if cred == nil {
			continue
		}
		if err := cred.Validate(); err != nil {
			return nil, err
		}
		o.credentials[cred.Purpose()] = cred
	}

	if s.PartnerID != nil {
		if err := s.PartnerID.Validate(); err != nil {
			return nil, err
		}
		partnerID := *s.PartnerID
		o.partnerID = &partnerID
	}

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
//
// Returns ErrOrderIsNotConstructed if the order was created by directly
// instantiating the struct instead of calling Place or Restore.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// Number returns the human-facing order number.
func (o *Order) Number() string {
	return o.number
}

// CustomerID returns the ordering customer's identifier.
func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

// ShopID returns the fulfilling shop's identifier.
func (o *Order) ShopID() kernel.UUID {
	return o.shopID
}

// Customer returns the customer contact used for notifications.
func (o *Order) Customer() Contact {
	return o.customer
}

// Shop returns the shop contact used for notifications.
func (o *Order) Shop() Contact {
	return o.shop
}

// ShopLocation returns the shop's grid location.
func (o *Order) ShopLocation() kernel.Location {
	return o.shopLocation
}

// DeliveryType returns how the order reaches the customer.
func (o *Order) DeliveryType() DeliveryType {
	return o.deliveryType
}

// PaymentMethod returns how the order is paid for.
func (o *Order) PaymentMethod() PaymentMethod {
	return o.paymentMethod
}

// PaymentStatus returns the current payment state.
func (o *Order) PaymentStatus() PaymentStatus {
	return o.paymentStatus
}

// Subtotal returns the item total before discount and fees.
func (o *Order) Subtotal() kernel.Money {
	return o.subtotal
}

// Discount returns the discount applied to the subtotal.
func (o *Order) Discount() kernel.Money {
	return o.discount
}

// DeliveryFee returns the delivery fee charged to the customer.
func (o *Order) DeliveryFee() kernel.Money {
	return o.deliveryFee
}

// Total returns the amount payable: subtotal - discount + delivery fee.
func (o *Order) Total() kernel.Money {
	return o.total
}

// Status returns the current status of the order.
func (o *Order) Status() Status {
	return o.status
}

// CancellationReason returns the reason recorded on rejection or
// cancellation. Empty for live orders.
func (o *Order) CancellationReason() string {
	return o.cancellationReason
}

// EstimatedTime returns the preparation estimate given by the shop.
// Empty until the order is accepted.
func (o *Order) EstimatedTime() string {
	return o.estimatedTime
}

// Partner returns the assigned delivery partner's ID.
// Returns nil if no partner is assigned.
func (o *Order) Partner() *kernel.UUID {
	return o.partnerID
}

// Version returns the optimistic locking version.
func (o *Order) Version() int {
	return o.version
}

// Credential returns the handoff credential for the given purpose, if one
// has been attached.
func (o *Order) Credential(purpose CredentialPurpose) (*HandoffCredential, bool) {
	cred, ok := o.credentials[purpose]
	return cred, ok
}

// Credentials returns all attached credentials in purpose order.
func (o *Order) Credentials() []*HandoffCredential {
	out := make([]*HandoffCredential, 0, len(o.credentials))
	for _, purpose := range []CredentialPurpose{PurposeShopPickup, PurposeDelivery} {
		if cred, ok := o.credentials[purpose]; ok {
			out = append(out, cred)
		}
	}
	return out
}

// AttachCredential stores a freshly issued handoff credential on the order.
//
// At most one unconsumed credential may exist per purpose. A consumed or
// expired credential may be replaced, which is how codes are reissued.
func (o *Order) AttachCredential(cred *HandoffCredential, now time.Time) error {
	if err := cred.Validate(); err != nil {
		return err
	}

	if existing, ok := o.credentials[cred.Purpose()]; ok && existing.IsActive(now) {
		return errs.NewValueIsInvalidErrorWithCause("credential",
			fmt.Errorf("an active %s code already exists", cred.Purpose()))
	}

	o.credentials[cred.Purpose()] = cred
	return nil
}

// AssignPartner records the delivery partner responsible for the order.
// Only home delivery orders that have not reached a terminal state can be
// assigned. Reassignment is allowed, which covers partner rejection.
func (o *Order) AssignPartner(partnerID kernel.UUID) error {
	if err := partnerID.Validate(); err != nil {
		return err
	}

	if o.deliveryType != HomeDelivery {
		return errs.NewValueIsInvalidErrorWithCause("partner",
			errors.New("self-pickup orders do not take a delivery partner"))
	}

	if o.status.IsTerminal() {
		return ErrAlreadyTerminal
	}

	o.partnerID = &partnerID
	return nil
}

// ClearPartner removes the partner assignment, returning the order to the
// assignment pool. Used when a partner rejects or abandons the order.
func (o *Order) ClearPartner() {
	o.partnerID = nil
}

// NeedsAssignment reports whether the order is waiting for a delivery
// partner: a live home delivery order past acceptance with no partner.
func (o *Order) NeedsAssignment() bool {
	if o.deliveryType != HomeDelivery || o.partnerID != nil {
		return false
	}

	switch o.status {
	case Confirmed, Preparing, ReadyForPickup:
		return true
	default:
		return false
	}
}

// setIDs validates and sets the order, customer and shop identifiers.
func (o *Order) setIDs(id, customerID, shopID kernel.UUID) error {
	if err := errors.Join(id.Validate(), customerID.Validate(), shopID.Validate()); err != nil {
		return err
	}

	o.id = id
	o.customerID = customerID
	o.shopID = shopID
	return nil
}

// setNumber validates and sets the human-facing order number.
func (o *Order) setNumber(number string) error {
	if strings.TrimSpace(number) == "" {
		return errs.NewValueIsRequiredError("number")
	}
	o.number = number
	return nil
}

// setContacts validates and sets the notification contacts.
// Both parties must be reachable through at least one channel.
func (o *Order) setContacts(customer, shop Contact) error {
	if !customer.HasIdentity() {
		return errs.NewValueIsRequiredError("customer contact")
	}
	if !shop.HasIdentity() {
		return errs.NewValueIsRequiredError("shop contact")
	}

	o.customer = customer
	o.shop = shop
	return nil
}

// setShopLocation validates and sets the shop's grid location.
func (o *Order) setShopLocation(location kernel.Location) error {
	if err := location.Validate(); err != nil {
		return err
	}
	o.shopLocation = location
	return nil
}

// setDeliveryType validates and sets the delivery type.
func (o *Order) setDeliveryType(deliveryType DeliveryType) error {
	if err := deliveryType.Validate(); err != nil {
		return err
	}
	o.deliveryType = deliveryType
	return nil
}

// setPaymentMethod validates and sets the payment method.
func (o *Order) setPaymentMethod(method PaymentMethod) error {
	if err := method.Validate(); err != nil {
		return err
	}
	o.paymentMethod = method
	return nil
}

// setPaymentStatus validates and sets the payment status.
func (o *Order) setPaymentStatus(status PaymentStatus) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.paymentStatus = status
	return nil
}

// setAmounts validates the money fields and derives the total.
// The delivery type must already be set: self-pickup rejects a nonzero fee.
func (o *Order) setAmounts(subtotal, discount, deliveryFee kernel.Money) error {
	if o.deliveryType == SelfPickup && !deliveryFee.IsZero() {
		return errs.NewValueIsInvalidErrorWithCause("deliveryFee",
			errors.New("self-pickup orders must not carry a delivery fee"))
	}

	afterDiscount, err := subtotal.Sub(discount)
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("discount",
			fmt.Errorf("discount %s exceeds subtotal %s", discount, subtotal))
	}

	o.subtotal = subtotal
	o.discount = discount
	o.deliveryFee = deliveryFee
	o.total = afterDiscount.Add(deliveryFee)
	return nil
}

// setStatus validates and sets the order status during Restore.
func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}

// setVersion validates and sets the optimistic locking version.
func (o *Order) setVersion(version int) error {
	if version < 0 {
		return errs.NewVersionIsInvalidErrorWithCause("version")
	}
	o.version = version
	return nil
}
