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
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/partner"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/locks"
)

var stepTestTime = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

type stepEnv struct {
	store    *memStore
	push     *pushRecorder
	email    *emailRecorder
	invoices *invoiceRecorder
	handler  commands.OrderStepCommandHandler
}

func newStepEnv(t *testing.T) *stepEnv {
	t.Helper()

	env := &stepEnv{
		store:    newMemStore(),
		push:     &pushRecorder{},
		email:    &emailRecorder{},
		invoices: &invoiceRecorder{},
	}

	dispatcher, err := notifications.NewDispatcher(env.push, env.email, time.Second, discardLogger())
	require.NoError(t, err)

	env.handler, err = commands.NewOrderStepCommandHandler(
		uowFactory{&memUoWFactory{env.store}},
		locks.NewKeyed(),
		fixedClock{stepTestTime},
		dispatcher,
		env.invoices,
		discardLogger(),
	)
	require.NoError(t, err)

	return env
}

func (env *stepEnv) placeOrder(t *testing.T, deliveryType order.DeliveryType) *order.Order {
	t.Helper()

	loc, err := kernel.NewLocation(4, 7)
	require.NoError(t, err)

	fee := kernel.MustMoney(0)
	if deliveryType == order.HomeDelivery {
		fee = kernel.MustMoney(4000)
	}

	o, _, err := order.Place(order.Placement{
		ID:         kernel.NewUUID(),
		Number:     "ORD-2024-000451",
		CustomerID: kernel.NewUUID(),
		ShopID:     kernel.NewUUID(),
		Customer: order.Contact{
			Name:       "Asha Rao",
			Email:      "asha@example.com",
			PushTarget: "device-asha",
		},
		Shop: order.Contact{
			Name:       "Spice Villa",
			Email:      "orders@spicevilla.example",
			PushTarget: "device-spice-villa",
		},
		ShopLocation:  loc,
		DeliveryType:  deliveryType,
		PaymentMethod: order.CashOnDelivery,
		Subtotal:      kernel.MustMoney(25000),
		Discount:      kernel.MustMoney(2500),
		DeliveryFee:   fee,
		Actor:         "customer",
		Now:           stepTestTime,
	})
	require.NoError(t, err)

	pickup, err := order.NewHandoffCredential(order.PurposeShopPickup, "483920", stepTestTime)
	require.NoError(t, err)
	require.NoError(t, o.AttachCredential(pickup, stepTestTime))

	if deliveryType == order.HomeDelivery {
		delivery, credErr := order.NewHandoffCredential(order.PurposeDelivery, "7361", stepTestTime)
		require.NoError(t, credErr)
		require.NoError(t, o.AttachCredential(delivery, stepTestTime))
	}

	env.store.putOrder(o)
	return o
}

func (env *stepEnv) addPartner(t *testing.T, name string) *partner.Partner {
	t.Helper()

	loc, err := kernel.NewLocation(2, 3)
	require.NoError(t, err)

	p, err := partner.NewPartner(kernel.NewUUID(), name, "+91-98000-33333", "device-"+name, loc, stepTestTime)
	require.NoError(t, err)

	env.store.putPartner(p)
	return p
}

// readyHomeOrder drives a home delivery order to ReadyForPickup with an
// accepted assignment, the state every handoff step starts from.
func (env *stepEnv) readyHomeOrder(t *testing.T) (*order.Order, *partner.Partner, *partner.Assignment) {
	t.Helper()

	o := env.placeOrder(t, order.HomeDelivery)
	p := env.addPartner(t, "ravi")

	_, err := o.Transition(order.Accept{EstimatedTime: "30 minutes"}, "shop", stepTestTime.Add(time.Minute))
	require.NoError(t, err)
	require.NoError(t, o.AssignPartner(p.ID()))
	p.MarkBusy()

	a, err := partner.NewAssignment(kernel.NewUUID(), o.ID(), p.ID(), stepTestTime.Add(time.Minute))
	require.NoError(t, err)
	require.NoError(t, a.Accept(stepTestTime.Add(2*time.Minute)))

	_, err = o.Transition(order.StartPreparing{}, "shop", stepTestTime.Add(3*time.Minute))
	require.NoError(t, err)
	_, err = o.Transition(order.MarkReady{}, "shop", stepTestTime.Add(10*time.Minute))
	require.NoError(t, err)

	env.store.putOrder(o)
	env.store.putPartner(p)
	env.store.putAssignment(a)
	return o, p, a
}

func TestOrderStepCommandHandler_Accept(t *testing.T) {
	t.Run("should confirm the order, assign a partner and notify the customer", func(t *testing.T) {
		env := newStepEnv(t)
		o := env.placeOrder(t, order.HomeDelivery)
		p := env.addPartner(t, "ravi")

		cmd, err := commands.NewAcceptOrderCommand(o.ID(), "30 minutes")
		require.NoError(t, err)

		flow, err := env.handler.Handle(context.Background(), cmd)
		require.NoError(t, err)

		assert.Equal(t, "CONFIRMED", flow.Status)
		assert.Equal(t, "ACCEPT", flow.CurrentStep)
		assert.Equal(t, "START_PREPARING", flow.NextStep)
		assert.True(t, flow.CanProceed)

		stored := env.store.orders[o.ID().String()]
		require.NotNil(t, stored.Partner())
		assert.True(t, stored.Partner().IsEqual(p.ID()))
		assert.False(t, env.store.partners[p.ID().String()].IsAvailable())
		assert.Len(t, env.store.assignments, 1)

		assert.Contains(t, env.push.targets, "device-asha")
		assert.Contains(t, env.push.types, notification.OrderAcceptedEvent)
	})

	t.Run("should confirm even when no partner is available", func(t *testing.T) {
		env := newStepEnv(t)
		o := env.placeOrder(t, order.HomeDelivery)

		cmd, err := commands.NewAcceptOrderCommand(o.ID(), "30 minutes")
		require.NoError(t, err)

		flow, err := env.handler.Handle(context.Background(), cmd)
		require.NoError(t, err)

		assert.Equal(t, "CONFIRMED", flow.Status)
		assert.False(t, flow.CanProceed)
		assert.Equal(t, "awaiting delivery partner assignment", flow.BlockedReason)
		assert.Nil(t, env.store.orders[o.ID().String()].Partner())
		assert.Empty(t, env.store.assignments)
	})

	t.Run("should treat a replayed accept as a no-op", func(t *testing.T) {
		env := newStepEnv(t)
		o := env.placeOrder(t, order.HomeDelivery)
		env.addPartner(t, "ravi")

		cmd, err := commands.NewAcceptOrderCommand(o.ID(), "30 minutes")
		require.NoError(t, err)

		_, err = env.handler.Handle(context.Background(), cmd)
		require.NoError(t, err)

		pushesAfterFirst := len(env.push.targets)
		updatesAfterFirst := env.store.orderUpdateCalls

		flow, err := env.handler.Handle(context.Background(), cmd)
		require.NoError(t, err)

		assert.Equal(t, "CONFIRMED", flow.Status)
		assert.Len(t, env.store.assignments, 1)
		assert.Len(t, env.push.targets, pushesAfterFirst)
		assert.Equal(t, updatesAfterFirst, env.store.orderUpdateCalls)
	})

	t.Run("should retry a save conflict", func(t *testing.T) {
		env := newStepEnv(t)
		o := env.placeOrder(t, order.HomeDelivery)
		env.store.orderUpdateErrs = []error{ports.ErrConcurrentModification}

		cmd, err := commands.NewAcceptOrderCommand(o.ID(), "30 minutes")
		require.NoError(t, err)

		flow, err := env.handler.Handle(context.Background(), cmd)
		require.NoError(t, err)

		assert.Equal(t, "CONFIRMED", flow.Status)
		assert.GreaterOrEqual(t, env.store.orderGetCalls, 2)
	})
}

func TestOrderStepCommandHandler_IllegalSteps(t *testing.T) {
	t.Run("should reject a step the status does not allow", func(t *testing.T) {
		env := newStepEnv(t)
		o := env.placeOrder(t, order.HomeDelivery)

		cmd, err := commands.NewStartPreparingCommand(o.ID())
		require.NoError(t, err)

		_, err = env.handler.Handle(context.Background(), cmd)
		require.Error(t, err)
		assert.ErrorIs(t, err, order.ErrInvalidTransition)

		assert.Equal(t, order.Placed, env.store.orders[o.ID().String()].Status())
		assert.Empty(t, env.push.targets)
	})

	t.Run("should reject a step on an unknown order", func(t *testing.T) {
		env := newStepEnv(t)

		cmd, err := commands.NewMarkReadyCommand(kernel.NewUUID())
		require.NoError(t, err)

		_, err = env.handler.Handle(context.Background(), cmd)
		require.Error(t, err)
	})

	t.Run("should reject a command that skipped its constructor", func(t *testing.T) {
		env := newStepEnv(t)

		_, err := env.handler.Handle(context.Background(), commands.AcceptOrderCommand{})
		require.Error(t, err)
	})
}

func TestOrderStepCommandHandler_VerifyPickup(t *testing.T) {
	t.Run("should hand the order to the partner on the right code", func(t *testing.T) {
		env := newStepEnv(t)
		o, _, a := env.readyHomeOrder(t)

		cmd, err := commands.NewVerifyPickupCommand(o.ID(), "483920")
		require.NoError(t, err)

		flow, err := env.handler.Handle(context.Background(), cmd)
		require.NoError(t, err)

		assert.Equal(t, "OUT_FOR_DELIVERY", flow.Status)
		assert.Equal(t, "VERIFY_DELIVERY", flow.NextStep)

		stored := env.store.orders[o.ID().String()]
		cred, ok := stored.Credential(order.PurposeShopPickup)
		require.True(t, ok)
		assert.True(t, cred.IsConsumed())

		assert.Equal(t, partner.PickedUp, env.store.assignments[a.ID().String()].Status())
		assert.Contains(t, env.push.types, notification.OrderPickedUpEvent)
	})

	t.Run("should keep the code usable after a wrong attempt", func(t *testing.T) {
		env := newStepEnv(t)
		o, _, _ := env.readyHomeOrder(t)

		cmd, err := commands.NewVerifyPickupCommand(o.ID(), "000000")
		require.NoError(t, err)

		_, err = env.handler.Handle(context.Background(), cmd)
		require.Error(t, err)
		assert.ErrorIs(t, err, order.ErrInvalidCredential)

		stored := env.store.orders[o.ID().String()]
		assert.Equal(t, order.ReadyForPickup, stored.Status())
		cred, ok := stored.Credential(order.PurposeShopPickup)
		require.True(t, ok)
		assert.False(t, cred.IsConsumed())
	})
}

func TestOrderStepCommandHandler_VerifyDelivery(t *testing.T) {
	t.Run("should complete the order, settle cash, free the partner and send the invoice", func(t *testing.T) {
		env := newStepEnv(t)
		o, p, a := env.readyHomeOrder(t)

		pickupCmd, err := commands.NewVerifyPickupCommand(o.ID(), "483920")
		require.NoError(t, err)
		_, err = env.handler.Handle(context.Background(), pickupCmd)
		require.NoError(t, err)

		deliveryCmd, err := commands.NewVerifyDeliveryCommand(o.ID(), "7361")
		require.NoError(t, err)

		flow, err := env.handler.Handle(context.Background(), deliveryCmd)
		require.NoError(t, err)

		assert.Equal(t, "DELIVERED", flow.Status)
		assert.Empty(t, flow.NextStep)

		stored := env.store.orders[o.ID().String()]
		assert.Equal(t, order.PaymentPaid, stored.PaymentStatus())

		assert.Equal(t, partner.Delivered, env.store.assignments[a.ID().String()].Status())
		assert.True(t, env.store.partners[p.ID().String()].IsAvailable())

		require.Len(t, env.invoices.invoices, 1)
		assert.Equal(t, "ORD-2024-000451", env.invoices.invoices[0].OrderNumber)
		assert.Equal(t, int64(26500), env.invoices.invoices[0].TotalPaise)
		assert.Contains(t, env.push.types, notification.OrderDeliveredEvent)
	})
}

func TestOrderStepCommandHandler_HandoverSelfPickup(t *testing.T) {
	t.Run("should complete a self-pickup order at the counter", func(t *testing.T) {
		env := newStepEnv(t)
		o := env.placeOrder(t, order.SelfPickup)

		_, err := o.Transition(order.Accept{EstimatedTime: "15 minutes"}, "shop", stepTestTime.Add(time.Minute))
		require.NoError(t, err)
		_, err = o.Transition(order.StartPreparing{}, "shop", stepTestTime.Add(2*time.Minute))
		require.NoError(t, err)
		_, err = o.Transition(order.MarkReady{}, "shop", stepTestTime.Add(10*time.Minute))
		require.NoError(t, err)
		env.store.putOrder(o)

		cmd, err := commands.NewHandoverSelfPickupCommand(o.ID())
		require.NoError(t, err)

		flow, err := env.handler.Handle(context.Background(), cmd)
		require.NoError(t, err)

		assert.Equal(t, "DELIVERED", flow.Status)

		stored := env.store.orders[o.ID().String()]
		assert.Equal(t, order.PaymentPaid, stored.PaymentStatus())
		assert.True(t, stored.HasStep(order.EventHandoverSelfPickup))
		require.Len(t, env.invoices.invoices, 1)
	})
}

func TestOrderStepCommandHandler_Cancel(t *testing.T) {
	t.Run("should cancel mid-flight and free the partner", func(t *testing.T) {
		env := newStepEnv(t)
		o, p, a := env.readyHomeOrder(t)

		cmd, err := commands.NewCancelOrderCommand(o.ID(), "customer changed mind", "customer")
		require.NoError(t, err)

		flow, err := env.handler.Handle(context.Background(), cmd)
		require.NoError(t, err)

		assert.Equal(t, "CANCELLED", flow.Status)
		assert.Empty(t, flow.NextStep)

		assert.Equal(t, partner.Cancelled, env.store.assignments[a.ID().String()].Status())
		assert.True(t, env.store.partners[p.ID().String()].IsAvailable())
		assert.Contains(t, env.push.types, notification.OrderRejectedEvent)
	})
}
