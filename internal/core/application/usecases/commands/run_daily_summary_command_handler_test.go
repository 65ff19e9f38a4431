package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/core/application/notifications"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
)

var summaryTestDate = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

type summaryEnv struct {
	store   *memStore
	push    *pushRecorder
	email   *emailRecorder
	handler commands.RunDailySummaryCommandHandler
}

func newSummaryEnv(t *testing.T, shops ...ports.Shop) *summaryEnv {
	t.Helper()

	env := &summaryEnv{
		store: newMemStore(),
		push:  &pushRecorder{},
		email: &emailRecorder{},
	}

	dispatcher, err := notifications.NewDispatcher(env.push, env.email, time.Second, discardLogger())
	require.NoError(t, err)

	calculator, err := services.NewSummaryCalculator(70)
	require.NoError(t, err)

	env.handler, err = commands.NewRunDailySummaryCommandHandler(
		summaryUoWFactory{&memUoWFactory{env.store}},
		shopList{shops},
		calculator,
		dispatcher,
		discardLogger(),
	)
	require.NoError(t, err)

	return env
}

// finishedOrder seeds a self-pickup order driven to the given terminal
// status, finished within the summary date.
func (env *summaryEnv) finishedOrder(t *testing.T, shopID kernel.UUID, number string, terminal order.Status) {
	t.Helper()

	loc, err := kernel.NewLocation(4, 7)
	require.NoError(t, err)

	placedAt := summaryTestDate.Add(9 * time.Hour)
	o, _, err := order.Place(order.Placement{
		ID:            kernel.NewUUID(),
		Number:        number,
		CustomerID:    kernel.NewUUID(),
		ShopID:        shopID,
		Customer:      order.Contact{Name: "Asha Rao", Email: "asha@example.com"},
		Shop:          order.Contact{Name: "Spice Villa", Email: "orders@spicevilla.example"},
		ShopLocation:  loc,
		DeliveryType:  order.SelfPickup,
		PaymentMethod: order.CashOnDelivery,
		Subtotal:      kernel.MustMoney(25000),
		Discount:      kernel.MustMoney(2500),
		DeliveryFee:   kernel.MustMoney(0),
		Actor:         "customer",
		Now:           placedAt,
	})
	require.NoError(t, err)

	switch terminal {
	case order.Delivered:
		_, err = o.Transition(order.Accept{EstimatedTime: "15 minutes"}, "shop", placedAt.Add(time.Minute))
		require.NoError(t, err)
		_, err = o.Transition(order.StartPreparing{}, "shop", placedAt.Add(2*time.Minute))
		require.NoError(t, err)
		_, err = o.Transition(order.MarkReady{}, "shop", placedAt.Add(10*time.Minute))
		require.NoError(t, err)
		_, err = o.Transition(order.HandoverSelfPickup{}, "shop", placedAt.Add(20*time.Minute))
		require.NoError(t, err)
	case order.Cancelled:
		_, err = o.Transition(order.Cancel{Reason: "customer changed mind"}, "customer", placedAt.Add(5*time.Minute))
		require.NoError(t, err)
	default:
		t.Fatalf("unsupported terminal status %s", terminal)
	}

	env.store.putOrder(o)
}

func TestRunDailySummaryCommandHandler(t *testing.T) {
	t.Run("should email the shop its figures for the day", func(t *testing.T) {
		shop := ports.Shop{ID: kernel.NewUUID(), Name: "Spice Villa", Email: "orders@spicevilla.example"}
		env := newSummaryEnv(t, shop)

		env.finishedOrder(t, shop.ID, "ORD-2024-000460", order.Delivered)
		env.finishedOrder(t, shop.ID, "ORD-2024-000461", order.Delivered)
		env.finishedOrder(t, shop.ID, "ORD-2024-000462", order.Cancelled)

		cmd, err := commands.NewRunDailySummaryCommand(summaryTestDate)
		require.NoError(t, err)

		require.NoError(t, env.handler.Handle(context.Background(), cmd))

		require.Len(t, env.email.to, 1)
		assert.Equal(t, "orders@spicevilla.example", env.email.to[0])
		assert.Contains(t, env.email.subjects[0], "2024-03-15")

		body := env.email.bodies[0]
		assert.Contains(t, body, "Spice Villa")
		assert.Contains(t, body, "<td>Delivered orders</td><td>2</td>")
		assert.Contains(t, body, "<td>Cancelled orders</td><td>1</td>")
		assert.Contains(t, body, "<td>Revenue</td><td>₹450.00</td>")
		assert.Contains(t, body, "<td>Cost</td><td>₹315.00</td>")
		assert.Contains(t, body, "<td>Profit</td><td>₹135.00</td>")
		assert.Contains(t, body, "30.00%")

		// Shops without a registered device get email only.
		assert.Empty(t, env.push.targets)
	})

	t.Run("should skip a shop already summarized for the date", func(t *testing.T) {
		shop := ports.Shop{ID: kernel.NewUUID(), Name: "Spice Villa", Email: "orders@spicevilla.example"}
		env := newSummaryEnv(t, shop)
		env.finishedOrder(t, shop.ID, "ORD-2024-000463", order.Delivered)

		cmd, err := commands.NewRunDailySummaryCommand(summaryTestDate)
		require.NoError(t, err)

		require.NoError(t, env.handler.Handle(context.Background(), cmd))
		require.NoError(t, env.handler.Handle(context.Background(), cmd))

		assert.Len(t, env.email.to, 1)
	})

	t.Run("should summarize each date independently", func(t *testing.T) {
		shop := ports.Shop{ID: kernel.NewUUID(), Name: "Spice Villa", Email: "orders@spicevilla.example"}
		env := newSummaryEnv(t, shop)
		env.finishedOrder(t, shop.ID, "ORD-2024-000464", order.Delivered)

		first, err := commands.NewRunDailySummaryCommand(summaryTestDate)
		require.NoError(t, err)
		require.NoError(t, env.handler.Handle(context.Background(), first))

		next, err := commands.NewRunDailySummaryCommand(summaryTestDate.Add(24 * time.Hour))
		require.NoError(t, err)
		require.NoError(t, env.handler.Handle(context.Background(), next))

		require.Len(t, env.email.bodies, 2)
		assert.Contains(t, env.email.bodies[1], "<td>Delivered orders</td><td>0</td>")
	})

	t.Run("should send a zero summary when the shop had no finished orders", func(t *testing.T) {
		shop := ports.Shop{ID: kernel.NewUUID(), Name: "Quiet Corner", Email: "hello@quietcorner.example"}
		env := newSummaryEnv(t, shop)

		cmd, err := commands.NewRunDailySummaryCommand(summaryTestDate)
		require.NoError(t, err)

		require.NoError(t, env.handler.Handle(context.Background(), cmd))

		require.Len(t, env.email.bodies, 1)
		assert.Contains(t, env.email.bodies[0], "<td>Delivered orders</td><td>0</td>")
		assert.Contains(t, env.email.bodies[0], "<td>Revenue</td><td>₹0.00</td>")
	})

	t.Run("should reject a command that skipped its constructor", func(t *testing.T) {
		env := newSummaryEnv(t)

		err := env.handler.Handle(context.Background(), commands.RunDailySummaryCommand{})
		require.Error(t, err)
		assert.ErrorIs(t, err, commands.ErrRunDailySummaryCommandIsNotConstructed)
	})
}
