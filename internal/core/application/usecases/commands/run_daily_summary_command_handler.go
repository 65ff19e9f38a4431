package commands

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/notifications"
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// RunDailySummaryCommandHandler produces each shop's end-of-day summary:
// order counts, revenue, estimated cost and profit, emailed to the shop
// owner. The summary log makes the batch idempotent per (shop, date); a
// rerun skips shops already summarized.
//
// Shops fail independently: one failing shop is logged and the batch
// moves on.
type RunDailySummaryCommandHandler struct {
	uowFactory SummaryUoWFactory
	shops      ports.ShopDirectory
	calculator services.SummaryCalculator
	dispatcher *notifications.Dispatcher
	logger     *slog.Logger
}

// NewRunDailySummaryCommandHandler creates the handler.
func NewRunDailySummaryCommandHandler(
	uowFactory SummaryUoWFactory,
	shops ports.ShopDirectory,
	calculator services.SummaryCalculator,
	dispatcher *notifications.Dispatcher,
	logger *slog.Logger,
) (RunDailySummaryCommandHandler, error) {
	if uowFactory == nil {
		return RunDailySummaryCommandHandler{}, errs.NewValueIsRequiredError("uowFactory")
	}
	if shops == nil {
		return RunDailySummaryCommandHandler{}, errs.NewValueIsRequiredError("shops")
	}
	if dispatcher == nil {
		return RunDailySummaryCommandHandler{}, errs.NewValueIsRequiredError("dispatcher")
	}
	if logger == nil {
		return RunDailySummaryCommandHandler{}, errs.NewValueIsRequiredError("logger")
	}

	return RunDailySummaryCommandHandler{
		uowFactory: uowFactory,
		shops:      shops,
		calculator: calculator,
		dispatcher: dispatcher,
		logger:     logger.With("component", "daily_summary_handler"),
	}, nil
}

// Handle runs the batch for every active shop.
func (h RunDailySummaryCommandHandler) Handle(ctx context.Context, command RunDailySummaryCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	shops, err := h.shops.GetActiveShops(ctx)
	if err != nil {
		return err
	}

	for _, shop := range shops {
		if err := h.summarizeShop(ctx, shop, command.Date()); err != nil {
			h.logger.ErrorContext(ctx, "shop summary failed",
				"shop", shop.Name, "date", command.Date().Format("2006-01-02"), "error", err)
		}
	}

	return nil
}

func (h RunDailySummaryCommandHandler) summarizeShop(ctx context.Context, shop ports.Shop, date time.Time) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	sent, err := uow.SummaryLog().AlreadySent(ctx, shop.ID, date)
	if err != nil {
		return err
	}
	if sent {
		return nil
	}

	from := date
	to := date.Add(24 * time.Hour)

	finished, err := uow.OrderRepository().GetFinishedBetween(ctx, shop.ID, from, to)
	if err != nil {
		return err
	}

	var delivered, cancelled []*order.Order
	for _, o := range finished {
		switch o.Status() {
		case order.Delivered:
			delivered = append(delivered, o)
		case order.Cancelled, order.ReturnedToShop:
			cancelled = append(cancelled, o)
		}
	}

	summary, err := h.calculator.Calculate(shop.ID, date, delivered, cancelled)
	if err != nil {
		return err
	}

	// Marked sent before dispatch: delivery is at-most-once, and a shop
	// never receives the same daily report twice. A failed send is not
	// retried on rerun; the outcome lands in the logs.
	if err := uow.SummaryLog().MarkSent(ctx, shop.ID, date); err != nil {
		return err
	}

	if err := uow.Commit(ctx); err != nil {
		return err
	}

	report := h.dispatcher.Dispatch(ctx, notification.Event{
		Payload: notification.DailySummary{
			ShopName:        shop.Name,
			Date:            date.Format("2006-01-02"),
			Delivered:       summary.Delivered,
			Cancelled:       summary.Cancelled,
			Revenue:         summary.Revenue,
			Cost:            summary.Cost,
			Profit:          summary.Profit,
			ProfitMarginPct: summary.ProfitMarginPct,
		},
		Recipients: []notification.Recipient{
			{Role: notification.RoleShop, Name: shop.Name, Email: shop.Email},
		},
	})
	if report.Failed() {
		h.logger.WarnContext(ctx, "summary email failed",
			"shop", shop.Name, "report", report.Summary())
	}

	return nil
}
