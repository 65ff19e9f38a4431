package commands

import (
	"context"
	"errors"
	"log/slog"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/locks"
)

// RespondAssignmentCommandHandler processes a partner's answer to an
// assignment offer.
//
// Accepting marks the assignment active; the partner keeps the order.
// Declining cancels the assignment, frees the partner back into the pool
// and detaches them from the order, which returns to the assignment pool
// for the sweep to re-resolve.
type RespondAssignmentCommandHandler struct {
	uowFactory UoWFactory
	orderLocks *locks.Keyed
	clock      ports.Clock
	logger     *slog.Logger
}

// NewRespondAssignmentCommandHandler creates the handler.
func NewRespondAssignmentCommandHandler(
	uowFactory UoWFactory,
	orderLocks *locks.Keyed,
	clock ports.Clock,
	logger *slog.Logger,
) (RespondAssignmentCommandHandler, error) {
	if uowFactory == nil {
		return RespondAssignmentCommandHandler{}, errs.NewValueIsRequiredError("uowFactory")
	}
	if orderLocks == nil {
		return RespondAssignmentCommandHandler{}, errs.NewValueIsRequiredError("orderLocks")
	}
	if clock == nil {
		return RespondAssignmentCommandHandler{}, errs.NewValueIsRequiredError("clock")
	}
	if logger == nil {
		return RespondAssignmentCommandHandler{}, errs.NewValueIsRequiredError("logger")
	}

	return RespondAssignmentCommandHandler{
		uowFactory: uowFactory,
		orderLocks: orderLocks,
		clock:      clock,
		logger:     logger.With("component", "respond_assignment_handler"),
	}, nil
}

// Handle records the partner's response.
func (h RespondAssignmentCommandHandler) Handle(ctx context.Context, command RespondAssignmentCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	orderID, err := h.lookupOrderID(ctx, command)
	if err != nil {
		return err
	}

	key := orderID.String()
	h.orderLocks.Lock(key)
	defer h.orderLocks.Unlock(key)

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	assignment, err := uow.AssignmentRepository().Get(ctx, command.AssignmentID())
	if err != nil {
		return err
	}

	now := h.clock.Now()

	if command.Accept() {
		if err := assignment.Accept(now); err != nil {
			return err
		}
		if err := uow.AssignmentRepository().Update(ctx, assignment); err != nil {
			return err
		}
		return uow.Commit(ctx)
	}

	if err := assignment.Decline(command.Reason(), now); err != nil {
		return err
	}
	if err := uow.AssignmentRepository().Update(ctx, assignment); err != nil {
		return err
	}

	// Free the partner and detach them from the order so the sweep can
	// resolve a replacement.
	p, err := uow.PartnerRepository().Get(ctx, assignment.PartnerID())
	if err != nil {
		return err
	}
	p.MarkIdle(now)
	if err := uow.PartnerRepository().Update(ctx, p); err != nil {
		return err
	}

	o, err := uow.OrderRepository().Get(ctx, assignment.OrderID())
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return uow.Commit(ctx)
		}
		return err
	}
	o.ClearPartner()
	if err := uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}

	if err := uow.Commit(ctx); err != nil {
		return err
	}

	h.logger.InfoContext(ctx, "assignment declined, order back in pool",
		"order", o.Number(), "reason", command.Reason())
	return nil
}

// lookupOrderID reads the assignment outside the order lock so the lock
// can be taken before the transactional work starts.
func (h RespondAssignmentCommandHandler) lookupOrderID(
	ctx context.Context, command RespondAssignmentCommand,
) (orderID kernel.UUID, err error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return orderID, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	assignment, err := uow.AssignmentRepository().Get(ctx, command.AssignmentID())
	if err != nil {
		return orderID, err
	}

	return assignment.OrderID(), nil
}
