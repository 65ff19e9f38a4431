package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"

	"fulfillment/internal/core/application/notifications"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/partner"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/locks"
	"fulfillment/internal/pkg/otp"
)

const (
	// conflictRetries bounds optimistic lock retries per command.
	conflictRetries = 3
	// conflictBackoff is the pause between conflict retries.
	conflictBackoff = 50 * time.Millisecond
)

// OrderStepCommandHandler runs every order lifecycle step through one
// orchestration:
//
//	lock order -> load -> state machine transition -> in-transaction
//	effects -> save -> commit -> notifications and invoice -> annotate
//	timeline with the dispatch report
//
// Transition errors abort before anything is written. Side effects after
// commit are best-effort: a failed send lands in the report and the log,
// never in a rollback. Save conflicts are retried from a reloaded
// aggregate a bounded number of times.
type OrderStepCommandHandler struct {
	uowFactory UoWFactory
	orderLocks *locks.Keyed
	clock      ports.Clock
	codes      otp.Generator
	resolver   services.AssignmentResolver
	dispatcher *notifications.Dispatcher
	invoices   ports.InvoiceSender
	logger     *slog.Logger
}

// NewOrderStepCommandHandler creates the shared step handler.
func NewOrderStepCommandHandler(
	uowFactory UoWFactory,
	orderLocks *locks.Keyed,
	clock ports.Clock,
	dispatcher *notifications.Dispatcher,
	invoices ports.InvoiceSender,
	logger *slog.Logger,
) (OrderStepCommandHandler, error) {
	if uowFactory == nil {
		return OrderStepCommandHandler{}, errs.NewValueIsRequiredError("uowFactory")
	}
	if orderLocks == nil {
		return OrderStepCommandHandler{}, errs.NewValueIsRequiredError("orderLocks")
	}
	if clock == nil {
		return OrderStepCommandHandler{}, errs.NewValueIsRequiredError("clock")
	}
	if dispatcher == nil {
		return OrderStepCommandHandler{}, errs.NewValueIsRequiredError("dispatcher")
	}
	if invoices == nil {
		return OrderStepCommandHandler{}, errs.NewValueIsRequiredError("invoices")
	}
	if logger == nil {
		return OrderStepCommandHandler{}, errs.NewValueIsRequiredError("logger")
	}

	return OrderStepCommandHandler{
		uowFactory: uowFactory,
		orderLocks: orderLocks,
		clock:      clock,
		codes:      otp.NewGenerator(),
		resolver:   services.NewAssignmentResolver(),
		dispatcher: dispatcher,
		invoices:   invoices,
		logger:     logger.With("component", "order_step_handler"),
	}, nil
}

// stepOutcome carries what must happen after the transaction committed.
type stepOutcome struct {
	flow     FlowStatus
	stepKind order.EventKind
	events   []notification.Event
	invoice  *ports.Invoice
}

// Handle applies one lifecycle step and returns the resulting flow
// status. All step commands share this code path.
func (h OrderStepCommandHandler) Handle(ctx context.Context, command StepCommand) (FlowStatus, error) {
	if err := command.Validate(); err != nil {
		return FlowStatus{}, err
	}

	key := command.OrderID().String()

	var outcome stepOutcome
	h.orderLocks.Lock(key)
	err := retry.Do(ctx, retry.WithMaxRetries(conflictRetries, retry.NewConstant(conflictBackoff)),
		func(ctx context.Context) error {
			var applyErr error
			outcome, applyErr = h.applyStep(ctx, command)
			if errors.Is(applyErr, ports.ErrConcurrentModification) {
				return retry.RetryableError(applyErr)
			}
			return applyErr
		})
	h.orderLocks.Unlock(key)
	if err != nil {
		return FlowStatus{}, err
	}

	h.runAfterCommit(ctx, command.OrderID(), outcome)
	return outcome.flow, nil
}

// applyStep runs one transactional attempt of the step.
func (h OrderStepCommandHandler) applyStep(ctx context.Context, command StepCommand) (stepOutcome, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return stepOutcome{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, command.OrderID())
	if err != nil {
		return stepOutcome{}, err
	}

	statusBefore := o.Status()
	now := h.clock.Now()

	effects, err := o.Transition(command.event(), command.actor(), now)
	if err != nil {
		return stepOutcome{}, err
	}

	outcome := stepOutcome{stepKind: command.event().Kind()}

	// Replayed events leave the order untouched; nothing to persist or
	// announce.
	if o.Status() == statusBefore && len(effects) == 0 {
		outcome.flow = flowStatusOf(o)
		return outcome, nil
	}

	assigned, err := h.executeInTx(ctx, uow, o, effects, &outcome, now)
	if err != nil {
		return stepOutcome{}, err
	}

	if err := uow.OrderRepository().Update(ctx, o); err != nil {
		return stepOutcome{}, err
	}

	if err := uow.Commit(ctx); err != nil {
		return stepOutcome{}, err
	}

	// Notification events reference the committed state.
	for _, eff := range effects {
		if notify, ok := eff.(order.Notify); ok {
			outcome.events = append(outcome.events, buildNotificationEvent(o, notify, assigned))
		}
	}

	outcome.flow = flowStatusOf(o)
	return outcome, nil
}

// executeInTx handles the side effects that belong inside the step's
// transaction: credential issuance and partner assignment. It returns the
// partner involved in the step, if any, for notification building.
func (h OrderStepCommandHandler) executeInTx(
	ctx context.Context,
	uow UoW,
	o *order.Order,
	effects []order.SideEffect,
	outcome *stepOutcome,
	now time.Time,
) (*partner.Partner, error) {
	var assigned *partner.Partner

	for _, eff := range effects {
		switch e := eff.(type) {
		case order.IssueCredentials:
			if err := h.issueCredentials(o, e.Purposes, now); err != nil {
				return nil, err
			}

		case order.RequestAssignment:
			p, err := h.requestAssignment(ctx, uow, o, now)
			if err != nil {
				return nil, err
			}
			if p != nil {
				assigned = p
			}

		case order.GenerateInvoice:
			invoice := buildInvoice(o)
			outcome.invoice = &invoice

		case order.Notify:
			// built after commit from the final state
		}
	}

	if err := h.syncAssignment(ctx, uow, o, now); err != nil {
		return nil, err
	}

	// Steps that notify the partner need its contact even when this step
	// did not assign one.
	if assigned == nil && o.Partner() != nil {
		p, err := uow.PartnerRepository().Get(ctx, *o.Partner())
		if err == nil {
			assigned = p
		} else if !errors.Is(err, errs.ErrObjectNotFound) {
			return nil, err
		}
	}

	return assigned, nil
}

// syncAssignment keeps the order's active assignment and its partner in
// step with the order's progress: picked up when the order leaves the
// shop, completed and the partner freed on delivery, cancelled and the
// partner freed when the order dies mid-flight. An assignment that is out
// of step is logged and left alone; the order timeline stays the source
// of truth.
func (h OrderStepCommandHandler) syncAssignment(ctx context.Context, uow UoW, o *order.Order, now time.Time) error {
	if o.DeliveryType() != order.HomeDelivery || o.Partner() == nil {
		return nil
	}

	var (
		advance     func(a *partner.Assignment) error
		freePartner bool
	)

	switch o.Status() {
	case order.OutForDelivery:
		advance = func(a *partner.Assignment) error { return a.MarkPickedUp() }
	case order.Delivered:
		advance = func(a *partner.Assignment) error { return a.Complete() }
		freePartner = true
	case order.ReturnedToShop:
		advance = func(a *partner.Assignment) error { return a.Cancel("order returned to shop", now) }
		freePartner = true
	case order.Cancelled:
		advance = func(a *partner.Assignment) error { return a.Cancel("order cancelled", now) }
		freePartner = true
	default:
		return nil
	}

	active, err := uow.AssignmentRepository().GetActiveByOrder(ctx, o.ID())
	if err != nil {
		return err
	}

	if active != nil {
		switch err := advance(active); {
		case errors.Is(err, partner.ErrAssignmentNotActionable):
			h.logger.WarnContext(ctx, "assignment out of step with order",
				"order", o.Number(), "assignment_status", active.Status().String())
		case err != nil:
			return err
		default:
			if err := uow.AssignmentRepository().Update(ctx, active); err != nil {
				return err
			}
		}
	}

	if freePartner {
		p, err := uow.PartnerRepository().Get(ctx, *o.Partner())
		if errors.Is(err, errs.ErrObjectNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		p.MarkIdle(now)
		if err := uow.PartnerRepository().Update(ctx, p); err != nil {
			return err
		}
	}

	return nil
}

func (h OrderStepCommandHandler) issueCredentials(o *order.Order, purposes []order.CredentialPurpose, now time.Time) error {
	for _, purpose := range purposes {
		code, err := h.codes.Generate(purpose.Digits())
		if err != nil {
			return err
		}

		cred, err := order.NewHandoffCredential(purpose, code, now)
		if err != nil {
			return err
		}

		if err := o.AttachCredential(cred, now); err != nil {
			return err
		}
	}
	return nil
}

// requestAssignment resolves a partner for the order inside the step's
// transaction. An empty pool is not an error here: the order stays in the
// assignment pool and the sweep retries.
func (h OrderStepCommandHandler) requestAssignment(
	ctx context.Context, uow UoW, o *order.Order, now time.Time,
) (*partner.Partner, error) {
	pool, err := uow.PartnerRepository().GetAllAvailable(ctx)
	if err != nil {
		return nil, err
	}

	assignment, chosen, err := h.resolver.Resolve(o, pool, kernel.NewUUID(), now)
	if errors.Is(err, services.ErrNoPartnersAvailable) {
		h.logger.InfoContext(ctx, "no partner available, order stays in pool",
			"order", o.Number())
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := uow.AssignmentRepository().Add(ctx, assignment); err != nil {
		return nil, err
	}
	if err := uow.PartnerRepository().Update(ctx, chosen); err != nil {
		return nil, err
	}

	return chosen, nil
}

// runAfterCommit performs the post-commit work: notification fan-out, the
// invoice, and the timeline annotation. The order lock is not held here.
func (h OrderStepCommandHandler) runAfterCommit(ctx context.Context, orderID kernel.UUID, outcome stepOutcome) {
	var note string

	for _, event := range outcome.events {
		report := h.dispatcher.Dispatch(ctx, event)
		if note != "" {
			note += "; "
		}
		note += report.Summary()
	}

	if outcome.invoice != nil {
		if err := h.invoices.SendInvoice(ctx, *outcome.invoice); err != nil {
			h.logger.ErrorContext(ctx, "invoice send failed",
				"order", outcome.invoice.OrderNumber, "error", err)
		}
	}

	if note != "" {
		h.annotateTimeline(ctx, orderID, outcome.stepKind, note)
	}
}

// annotateTimeline records the dispatch report against the step's
// timeline entry. Best effort: a conflict here never fails the command.
func (h OrderStepCommandHandler) annotateTimeline(ctx context.Context, orderID kernel.UUID, step order.EventKind, note string) {
	key := orderID.String()
	h.orderLocks.Lock(key)
	defer h.orderLocks.Unlock(key)

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		h.logger.WarnContext(ctx, "timeline annotation skipped", "order", orderID.String(), "error", err)
		return
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, orderID)
	if err != nil {
		h.logger.WarnContext(ctx, "timeline annotation skipped", "order", orderID.String(), "error", err)
		return
	}

	o.AttachNote(step, note)

	if err := uow.OrderRepository().Update(ctx, o); err != nil {
		h.logger.WarnContext(ctx, "timeline annotation skipped", "order", orderID.String(), "error", err)
		return
	}

	if err := uow.Commit(ctx); err != nil {
		h.logger.WarnContext(ctx, "timeline annotation skipped", "order", orderID.String(), "error", err)
	}
}
