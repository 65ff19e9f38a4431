package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// SweepAssignmentsCommandHandler is the background safety net of the
// assignment flow. Each pass does two things:
//
//  1. Cancels offers that waited for a partner response longer than the
//     configured TTL, freeing both sides.
//  2. Resolves partners for orders that are live, home delivery and
//     unassigned, whether assignment never happened or was undone.
//
// The sweep is idempotent: a pass over a clean state changes nothing.
type SweepAssignmentsCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
	resolver   services.AssignmentResolver
	offerTTL   time.Duration
	logger     *slog.Logger
}

// NewSweepAssignmentsCommandHandler creates the handler. offerTTL is how
// long an unanswered offer may wait before it is cancelled.
func NewSweepAssignmentsCommandHandler(
	uowFactory UoWFactory,
	clock ports.Clock,
	offerTTL time.Duration,
	logger *slog.Logger,
) (SweepAssignmentsCommandHandler, error) {
	if uowFactory == nil {
		return SweepAssignmentsCommandHandler{}, errs.NewValueIsRequiredError("uowFactory")
	}
	if clock == nil {
		return SweepAssignmentsCommandHandler{}, errs.NewValueIsRequiredError("clock")
	}
	if offerTTL <= 0 {
		return SweepAssignmentsCommandHandler{}, errs.NewValueIsRequiredError("offerTTL")
	}
	if logger == nil {
		return SweepAssignmentsCommandHandler{}, errs.NewValueIsRequiredError("logger")
	}

	return SweepAssignmentsCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		resolver:   services.NewAssignmentResolver(),
		offerTTL:   offerTTL,
		logger:     logger.With("component", "assignment_sweep"),
	}, nil
}

// Handle runs one sweep pass in a single transaction.
func (h SweepAssignmentsCommandHandler) Handle(ctx context.Context, command SweepAssignmentsCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := h.clock.Now()

	if err := h.cancelStaleOffers(ctx, uow, now); err != nil {
		return err
	}

	if err := h.assignWaitingOrders(ctx, uow, now); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func (h SweepAssignmentsCommandHandler) cancelStaleOffers(ctx context.Context, uow UoW, now time.Time) error {
	offers, err := uow.AssignmentRepository().GetAllAwaitingResponse(ctx)
	if err != nil {
		return err
	}

	for _, offer := range offers {
		if !offer.IsStale(now, h.offerTTL) {
			continue
		}

		if err := offer.Cancel("no response from partner", now); err != nil {
			return err
		}
		if err := uow.AssignmentRepository().Update(ctx, offer); err != nil {
			return err
		}

		p, err := uow.PartnerRepository().Get(ctx, offer.PartnerID())
		if err != nil {
			return err
		}
		p.MarkIdle(now)
		if err := uow.PartnerRepository().Update(ctx, p); err != nil {
			return err
		}

		o, err := uow.OrderRepository().Get(ctx, offer.OrderID())
		if err != nil {
			if errors.Is(err, errs.ErrObjectNotFound) {
				continue
			}
			return err
		}
		o.ClearPartner()
		if err := uow.OrderRepository().Update(ctx, o); err != nil {
			return err
		}

		h.logger.InfoContext(ctx, "stale offer cancelled", "order", o.Number())
	}

	return nil
}

func (h SweepAssignmentsCommandHandler) assignWaitingOrders(ctx context.Context, uow UoW, now time.Time) error {
	waiting, err := uow.OrderRepository().GetAwaitingAssignment(ctx)
	if err != nil {
		return err
	}
	if len(waiting) == 0 {
		return nil
	}

	pool, err := uow.PartnerRepository().GetAllAvailable(ctx)
	if err != nil {
		return err
	}

	for _, o := range waiting {
		assignment, chosen, err := h.resolver.Resolve(o, pool, kernel.NewUUID(), now)
		if errors.Is(err, services.ErrNoPartnersAvailable) {
			// Pool exhausted for this pass; remaining orders wait.
			return nil
		}
		if err != nil {
			return err
		}

		if err := uow.AssignmentRepository().Add(ctx, assignment); err != nil {
			return err
		}
		if err := uow.PartnerRepository().Update(ctx, chosen); err != nil {
			return err
		}
		if err := uow.OrderRepository().Update(ctx, o); err != nil {
			return err
		}

		h.logger.InfoContext(ctx, "partner assigned by sweep",
			"order", o.Number(), "partner", chosen.Name())
	}

	return nil
}
