package commands

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/application/notifications"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/otp"
)

// PlaceOrderCommandHandler creates new orders: builds the aggregate,
// issues its handoff credentials, persists everything and announces the
// order to the customer and the shop.
type PlaceOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      ports.Clock
	codes      otp.Generator
	dispatcher *notifications.Dispatcher
	logger     *slog.Logger
}

// NewPlaceOrderCommandHandler creates a handler for order placement.
func NewPlaceOrderCommandHandler(
	uowFactory OrderUoWFactory,
	clock ports.Clock,
	dispatcher *notifications.Dispatcher,
	logger *slog.Logger,
) (PlaceOrderCommandHandler, error) {
	if uowFactory == nil {
		return PlaceOrderCommandHandler{}, errs.NewValueIsRequiredError("uowFactory")
	}
	if clock == nil {
		return PlaceOrderCommandHandler{}, errs.NewValueIsRequiredError("clock")
	}
	if dispatcher == nil {
		return PlaceOrderCommandHandler{}, errs.NewValueIsRequiredError("dispatcher")
	}
	if logger == nil {
		return PlaceOrderCommandHandler{}, errs.NewValueIsRequiredError("logger")
	}

	return PlaceOrderCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		codes:      otp.NewGenerator(),
		dispatcher: dispatcher,
		logger:     logger.With("component", "place_order_handler"),
	}, nil
}

// Handle creates the order. Placement has no concurrency to defend
// against (the order does not exist yet), so there is no lock and no
// conflict retry.
func (h PlaceOrderCommandHandler) Handle(ctx context.Context, command PlaceOrderCommand) (FlowStatus, error) {
	if err := command.Validate(); err != nil {
		return FlowStatus{}, err
	}

	params := command.Params()
	now := h.clock.Now()

	subtotal, err := kernel.NewMoney(params.SubtotalPaise)
	if err != nil {
		return FlowStatus{}, err
	}
	discount, err := kernel.NewMoney(params.DiscountPaise)
	if err != nil {
		return FlowStatus{}, err
	}
	fee, err := kernel.NewMoney(params.FeePaise)
	if err != nil {
		return FlowStatus{}, err
	}

	o, effects, err := order.Place(order.Placement{
		ID:            params.OrderID,
		Number:        params.Number,
		CustomerID:    params.CustomerID,
		ShopID:        params.ShopID,
		Customer:      params.Customer,
		Shop:          params.Shop,
		ShopLocation:  params.ShopLocation,
		DeliveryType:  params.DeliveryType,
		PaymentMethod: params.PaymentMethod,
		Subtotal:      subtotal,
		Discount:      discount,
		DeliveryFee:   fee,
		Actor:         "customer",
		Now:           now,
	})
	if err != nil {
		return FlowStatus{}, err
	}

	var announce *order.Notify
	for _, eff := range effects {
		switch e := eff.(type) {
		case order.IssueCredentials:
			for _, purpose := range e.Purposes {
				code, err := h.codes.Generate(purpose.Digits())
				if err != nil {
					return FlowStatus{}, err
				}
				cred, err := order.NewHandoffCredential(purpose, code, now)
				if err != nil {
					return FlowStatus{}, err
				}
				if err := o.AttachCredential(cred, now); err != nil {
					return FlowStatus{}, err
				}
			}
		case order.Notify:
			notify := e
			announce = &notify
		}
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return FlowStatus{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.OrderRepository().Add(ctx, o); err != nil {
		return FlowStatus{}, err
	}

	if err := uow.Commit(ctx); err != nil {
		return FlowStatus{}, err
	}

	if announce != nil {
		report := h.dispatcher.Dispatch(ctx, buildNotificationEvent(o, *announce, nil))
		if report.Failed() {
			h.logger.WarnContext(ctx, "placement announcement partially failed",
				"order", o.Number(), "report", report.Summary())
		}
	}

	return flowStatusOf(o), nil
}
