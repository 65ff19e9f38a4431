package order

import (
	"errors"
	"time"

	"fulfillment/internal/pkg/errs"
)

// ErrNoPartnerAssigned is returned when a pickup verification arrives for a
// home delivery order that has no delivery partner yet.
var ErrNoPartnerAssigned = errors.New("no delivery partner assigned")

// Transition applies a lifecycle event to the order.
//
// On success the order moves to the event's target status, a timeline entry
// is appended, and the returned side effects describe what the caller must
// do next (notify parties, request assignment, generate the invoice). The
// machine never performs I/O itself.
//
// Replaying the event that produced the current status is a no-op:
// Transition returns nil effects and nil error without touching the
// timeline, making retried requests safe. Verification events are the
// exception: a handoff code is one-shot, so re-presenting it fails the
// credential check even after the transition it proved has completed. An
// event that merely shares the current status with the step that caused it
// is rejected like any other illegal move.
//
// Failure modes:
//   - InvalidTransitionError if the event is not legal from the current
//     status. The order is left untouched.
//   - ErrAlreadyTerminal if the order is in a terminal state and the event
//     targets a different one.
//   - InvalidCredentialError if a handoff code does not verify. The pending
//     credential stays consumable.
//   - ErrNoPartnerAssigned if pickup is verified before assignment.
func (o *Order) Transition(ev Event, actor string, now time.Time) ([]SideEffect, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if ev == nil {
		return nil, errs.NewValueIsRequiredError("event")
	}
	if now.IsZero() {
		return nil, errs.NewValueIsRequiredError("now")
	}

	target, ok := targetStatus(ev.Kind())
	if !ok {
		return nil, &InvalidTransitionError{Event: ev.Kind(), From: o.status}
	}

	if o.status == target {
		// Handoff codes are one-shot. A re-presented code answers with
		// the credential check, never with silent success.
		switch e := ev.(type) {
		case VerifyPickup:
			return nil, o.recheckCredential(PurposeShopPickup, e.Code, now)
		case VerifyDelivery:
			return nil, o.recheckCredential(PurposeDelivery, e.Code, now)
		}

		// Only a replay of the step that produced the current status is
		// a no-op. A different event landing on the same status is an
		// ordinary illegal move.
		if o.lastStep() == ev.Kind() {
			return nil, nil
		}
		if o.status.IsTerminal() {
			return nil, ErrAlreadyTerminal
		}
		return nil, &InvalidTransitionError{Event: ev.Kind(), From: o.status}
	}

	if o.status.IsTerminal() {
		return nil, ErrAlreadyTerminal
	}

	switch e := ev.(type) {
	case Accept:
		return o.accept(e, actor, now)
	case Reject:
		return o.reject(e, actor, now)
	case StartPreparing:
		return o.startPreparing(actor, now)
	case MarkReady:
		return o.markReady(actor, now)
	case VerifyPickup:
		return o.verifyPickup(e, actor, now)
	case HandoverSelfPickup:
		return o.handoverSelfPickup(actor, now)
	case VerifyDelivery:
		return o.verifyDelivery(e, actor, now)
	case FailDelivery:
		return o.failDelivery(e, actor, now)
	case ConfirmReturn:
		return o.confirmReturn(actor, now)
	case Cancel:
		return o.cancel(e, actor, now)
	default:
		return nil, &InvalidTransitionError{Event: ev.Kind(), From: o.status}
	}
}

// targetStatus maps an event to the status it produces. EventPlace is
// excluded: placement happens through the Place constructor, never through
// Transition.
func targetStatus(kind EventKind) (Status, bool) {
	switch kind {
	case EventAccept:
		return Confirmed, true
	case EventReject:
		return Cancelled, true
	case EventStartPreparing:
		return Preparing, true
	case EventMarkReady:
		return ReadyForPickup, true
	case EventVerifyPickup:
		return OutForDelivery, true
	case EventHandoverSelfPickup:
		return Delivered, true
	case EventVerifyDelivery:
		return Delivered, true
	case EventFailDelivery:
		return ReturningToShop, true
	case EventConfirmReturn:
		return ReturnedToShop, true
	case EventCancel:
		return Cancelled, true
	default:
		return Unknown, false
	}
}

func (o *Order) accept(e Accept, actor string, now time.Time) ([]SideEffect, error) {
	if o.status != Placed {
		return nil, &InvalidTransitionError{Event: EventAccept, From: o.status}
	}

	o.status = Confirmed
	o.estimatedTime = e.EstimatedTime
	o.appendTimeline(TimelineEntry{Step: EventAccept, Status: Confirmed, At: now, Actor: actor})

	effects := []SideEffect{
		Notify{Kind: NotifyOrderAccepted, Parties: []Party{PartyCustomer}, EstimatedTime: e.EstimatedTime},
	}
	if o.deliveryType == HomeDelivery {
		effects = append(effects, RequestAssignment{})
	}
	return effects, nil
}

func (o *Order) reject(e Reject, actor string, now time.Time) ([]SideEffect, error) {
	if o.status != Placed && o.status != Confirmed {
		return nil, &InvalidTransitionError{Event: EventReject, From: o.status}
	}
	if e.Reason == "" {
		return nil, errs.NewValueIsRequiredError("reason")
	}

	o.status = Cancelled
	o.cancellationReason = e.Reason
	o.appendTimeline(TimelineEntry{Step: EventReject, Status: Cancelled, At: now, Actor: actor, Notes: e.Reason})

	return []SideEffect{
		Notify{Kind: NotifyOrderRejected, Parties: []Party{PartyCustomer}, Reason: e.Reason},
	}, nil
}

func (o *Order) startPreparing(actor string, now time.Time) ([]SideEffect, error) {
	if o.status != Confirmed {
		return nil, &InvalidTransitionError{Event: EventStartPreparing, From: o.status}
	}

	o.status = Preparing
	o.appendTimeline(TimelineEntry{Step: EventStartPreparing, Status: Preparing, At: now, Actor: actor})
	return nil, nil
}

func (o *Order) markReady(actor string, now time.Time) ([]SideEffect, error) {
	if o.status != Preparing {
		return nil, &InvalidTransitionError{Event: EventMarkReady, From: o.status}
	}

	o.status = ReadyForPickup
	o.appendTimeline(TimelineEntry{Step: EventMarkReady, Status: ReadyForPickup, At: now, Actor: actor})

	// The collecting party differs: a partner picks up home deliveries,
	// the customer collects self-pickup orders.
	collector := PartyPartner
	if o.deliveryType == SelfPickup {
		collector = PartyCustomer
	}
	return []SideEffect{
		Notify{Kind: NotifyOrderReady, Parties: []Party{collector}},
	}, nil
}

func (o *Order) verifyPickup(e VerifyPickup, actor string, now time.Time) ([]SideEffect, error) {
	if o.deliveryType != HomeDelivery || o.status != ReadyForPickup {
		return nil, &InvalidTransitionError{Event: EventVerifyPickup, From: o.status}
	}
	if o.partnerID == nil {
		return nil, ErrNoPartnerAssigned
	}

	cred, ok := o.credentials[PurposeShopPickup]
	if !ok {
		return nil, newInvalidCredentialError(PurposeShopPickup, "no code issued")
	}
	if err := cred.Verify(e.Code, now); err != nil {
		return nil, err
	}

	o.status = OutForDelivery
	o.appendTimeline(TimelineEntry{Step: EventVerifyPickup, Status: OutForDelivery, At: now, Actor: actor})

	return []SideEffect{
		Notify{Kind: NotifyOrderPickedUp, Parties: []Party{PartyCustomer}},
	}, nil
}

func (o *Order) handoverSelfPickup(actor string, now time.Time) ([]SideEffect, error) {
	if o.deliveryType != SelfPickup || o.status != ReadyForPickup {
		return nil, &InvalidTransitionError{Event: EventHandoverSelfPickup, From: o.status}
	}

	// The order passes through collection straight to completion; both
	// steps land on the timeline.
	o.appendTimeline(TimelineEntry{Step: EventHandoverSelfPickup, Status: SelfPickupCollected, At: now, Actor: actor})
	o.status = Delivered
	o.appendTimeline(TimelineEntry{Step: EventHandoverSelfPickup, Status: Delivered, At: now, Actor: actor, Notes: "collected by customer"})

	o.settleCashOnHandoff()

	return []SideEffect{
		Notify{Kind: NotifyOrderDelivered, Parties: []Party{PartyCustomer}},
		GenerateInvoice{},
	}, nil
}

func (o *Order) verifyDelivery(e VerifyDelivery, actor string, now time.Time) ([]SideEffect, error) {
	if o.deliveryType != HomeDelivery || o.status != OutForDelivery {
		return nil, &InvalidTransitionError{Event: EventVerifyDelivery, From: o.status}
	}

	cred, ok := o.credentials[PurposeDelivery]
	if !ok {
		return nil, newInvalidCredentialError(PurposeDelivery, "no code issued")
	}
	if err := cred.Verify(e.Code, now); err != nil {
		return nil, err
	}

	o.status = Delivered
	o.appendTimeline(TimelineEntry{Step: EventVerifyDelivery, Status: Delivered, At: now, Actor: actor})

	o.settleCashOnHandoff()

	return []SideEffect{
		Notify{Kind: NotifyOrderDelivered, Parties: []Party{PartyCustomer}},
		GenerateInvoice{},
	}, nil
}

func (o *Order) failDelivery(e FailDelivery, actor string, now time.Time) ([]SideEffect, error) {
	if o.deliveryType != HomeDelivery || o.status != OutForDelivery {
		return nil, &InvalidTransitionError{Event: EventFailDelivery, From: o.status}
	}
	if e.Reason == "" {
		return nil, errs.NewValueIsRequiredError("reason")
	}

	o.status = ReturningToShop
	o.appendTimeline(TimelineEntry{Step: EventFailDelivery, Status: ReturningToShop, At: now, Actor: actor, Notes: e.Reason})
	return nil, nil
}

func (o *Order) confirmReturn(actor string, now time.Time) ([]SideEffect, error) {
	if o.status != ReturningToShop {
		return nil, &InvalidTransitionError{Event: EventConfirmReturn, From: o.status}
	}

	o.status = ReturnedToShop
	o.appendTimeline(TimelineEntry{Step: EventConfirmReturn, Status: ReturnedToShop, At: now, Actor: actor})
	return nil, nil
}

func (o *Order) cancel(e Cancel, actor string, now time.Time) ([]SideEffect, error) {
	if e.Reason == "" {
		return nil, errs.NewValueIsRequiredError("reason")
	}

	// The shop only hears about orders it has accepted.
	wasAccepted := o.HasStep(EventAccept)

	o.status = Cancelled
	o.cancellationReason = e.Reason
	o.appendTimeline(TimelineEntry{Step: EventCancel, Status: Cancelled, At: now, Actor: actor, Notes: e.Reason})

	parties := []Party{PartyCustomer}
	if wasAccepted {
		parties = append(parties, PartyShop)
	}
	return []SideEffect{
		Notify{Kind: NotifyOrderRejected, Parties: parties, Reason: e.Reason},
	}, nil
}

// settleCashOnHandoff marks cash orders paid once the goods change hands.
func (o *Order) settleCashOnHandoff() {
	if o.paymentMethod == CashOnDelivery {
		o.paymentStatus = PaymentPaid
	}
}

// lastStep is the step that produced the current status.
func (o *Order) lastStep() EventKind {
	if len(o.timeline) == 0 {
		return EventUnknown
	}
	return o.timeline[len(o.timeline)-1].Step
}

func (o *Order) recheckCredential(purpose CredentialPurpose, code string, now time.Time) error {
	cred, ok := o.credentials[purpose]
	if !ok {
		return newInvalidCredentialError(purpose, "no code issued")
	}
	return cred.Verify(code, now)
}
