package cmd

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	httpin "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/email"
	"fulfillment/internal/adapters/out/invoice"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/push"
	"fulfillment/internal/core/application/notifications"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/jobs"
	"fulfillment/internal/pkg/locks"
)

// CompositionRoot wires adapters, use cases and jobs together. All
// handlers built from one root share the same database, lock registry
// and notification channels.
type CompositionRoot struct {
	config Config
	gormDB *gorm.DB
	logger *slog.Logger

	uowFactory *postgres.GormUnitOfWorkFactory
	orderLocks *locks.Keyed
	clock      ports.Clock

	dispatcher *notifications.Dispatcher
	invoices   ports.InvoiceSender
}

// NewCompositionRoot creates the root and its shared infrastructure.
func NewCompositionRoot(cfg Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	pushSender, err := push.NewWebhookPushSender(cfg.PushWebhookURL, logger)
	if err != nil {
		return nil, fmt.Errorf("create push sender: %w", err)
	}

	emailSender, err := email.NewSMTPEmailSender(email.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})
	if err != nil {
		return nil, fmt.Errorf("create email sender: %w", err)
	}

	dispatcher, err := notifications.NewDispatcher(pushSender, emailSender, cfg.DispatchTimeout, logger)
	if err != nil {
		return nil, fmt.Errorf("create dispatcher: %w", err)
	}

	invoiceSender, err := invoice.NewEmailInvoiceSender(emailSender)
	if err != nil {
		return nil, fmt.Errorf("create invoice sender: %w", err)
	}

	return &CompositionRoot{
		config:     cfg,
		gormDB:     gormDB,
		logger:     logger,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		orderLocks: locks.NewKeyed(),
		clock:      ports.SystemClock{},
		dispatcher: dispatcher,
		invoices:   invoiceSender,
	}, nil
}

func (c *CompositionRoot) CreatePlaceOrderCommandHandler() (commands.PlaceOrderCommandHandler, error) {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewPlaceOrderCommandHandler(f, c.clock, c.dispatcher, c.logger)
}

func (c *CompositionRoot) CreateOrderStepCommandHandler() (commands.OrderStepCommandHandler, error) {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewOrderStepCommandHandler(f, c.orderLocks, c.clock, c.dispatcher, c.invoices, c.logger)
}

func (c *CompositionRoot) CreateRespondAssignmentCommandHandler() (commands.RespondAssignmentCommandHandler, error) {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewRespondAssignmentCommandHandler(f, c.orderLocks, c.clock, c.logger)
}

func (c *CompositionRoot) CreateSweepAssignmentsCommandHandler() (commands.SweepAssignmentsCommandHandler, error) {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewSweepAssignmentsCommandHandler(f, c.clock, c.config.OfferTTL, c.logger)
}

func (c *CompositionRoot) CreateRunDailySummaryCommandHandler() (commands.RunDailySummaryCommandHandler, error) {
	calculator, err := services.NewSummaryCalculator(c.config.CostMarginPct)
	if err != nil {
		return commands.RunDailySummaryCommandHandler{}, err
	}

	var f commands.SummaryUoWFactory = FuncSummaryUoWFactory(func() commands.SummaryUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRunDailySummaryCommandHandler(
		f, postgres.NewGormShopDirectory(c.gormDB), calculator, c.dispatcher, c.logger)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAwaitingAssignmentQueryHandler() queries.GetAwaitingAssignmentQueryHandler {
	return queries.NewGetAwaitingAssignmentQueryHandler(c.gormDB)
}

// CreateHTTPServer builds the API facade over the use case handlers.
func (c *CompositionRoot) CreateHTTPServer() (*httpin.Server, error) {
	placeHandler, err := c.CreatePlaceOrderCommandHandler()
	if err != nil {
		return nil, err
	}
	stepHandler, err := c.CreateOrderStepCommandHandler()
	if err != nil {
		return nil, err
	}
	respondHandler, err := c.CreateRespondAssignmentCommandHandler()
	if err != nil {
		return nil, err
	}

	return httpin.NewServer(
		placeHandler,
		stepHandler,
		respondHandler,
		c.CreateGetOrderQueryHandler(),
		c.CreateGetAwaitingAssignmentQueryHandler(),
	), nil
}

// CreateJobManager builds the background jobs.
func (c *CompositionRoot) CreateJobManager() (*jobs.JobManager, error) {
	sweepHandler, err := c.CreateSweepAssignmentsCommandHandler()
	if err != nil {
		return nil, err
	}
	summaryHandler, err := c.CreateRunDailySummaryCommandHandler()
	if err != nil {
		return nil, err
	}

	return jobs.NewJobManager(
		sweepHandler,
		summaryHandler,
		c.clock,
		c.config.SweepInterval,
		c.config.SummaryHourUTC,
		c.logger,
	), nil
}

// FuncOrderUoWFactory adapts a closure to commands.OrderUoWFactory.
type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

// FuncUoWFactory adapts a closure to commands.UoWFactory.
type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

// FuncSummaryUoWFactory adapts a closure to commands.SummaryUoWFactory.
type FuncSummaryUoWFactory func() commands.SummaryUoW

func (f FuncSummaryUoWFactory) Create() commands.SummaryUoW {
	return f()
}
