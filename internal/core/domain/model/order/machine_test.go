package order_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readyHomeOrder drives a home delivery order to ReadyForPickup with both
// handoff codes attached and a partner assigned.
func readyHomeOrder(t *testing.T) *order.Order {
	t.Helper()
	o := placeOrder(t, validPlacement(t))

	pickup, err := order.NewHandoffCredential(order.PurposeShopPickup, "483920", placedAt)
	require.NoError(t, err)
	require.NoError(t, o.AttachCredential(pickup, placedAt))
	delivery, err := order.NewHandoffCredential(order.PurposeDelivery, "7361", placedAt)
	require.NoError(t, err)
	require.NoError(t, o.AttachCredential(delivery, placedAt))

	_, err = o.Transition(order.Accept{EstimatedTime: "30 minutes"}, "shop", placedAt.Add(time.Minute))
	require.NoError(t, err)
	require.NoError(t, o.AssignPartner(kernel.NewUUID()))
	_, err = o.Transition(order.StartPreparing{}, "shop", placedAt.Add(2*time.Minute))
	require.NoError(t, err)
	_, err = o.Transition(order.MarkReady{}, "shop", placedAt.Add(20*time.Minute))
	require.NoError(t, err)

	return o
}

func TestTransition_HomeDeliveryHappyPath(t *testing.T) {
	o := placeOrder(t, validPlacement(t))
	now := placedAt

	t.Run("accept confirms and requests assignment", func(t *testing.T) {
		now = now.Add(time.Minute)

		effects, err := o.Transition(order.Accept{EstimatedTime: "30 minutes"}, "shop", now)

		require.NoError(t, err)
		assert.Equal(t, order.Confirmed, o.Status())
		assert.Equal(t, "30 minutes", o.EstimatedTime())

		require.Len(t, effects, 2)
		notify, ok := effects[0].(order.Notify)
		require.True(t, ok)
		assert.Equal(t, order.NotifyOrderAccepted, notify.Kind)
		assert.Equal(t, []order.Party{order.PartyCustomer}, notify.Parties)
		assert.Equal(t, "30 minutes", notify.EstimatedTime)
		_, ok = effects[1].(order.RequestAssignment)
		assert.True(t, ok)
	})

	t.Run("start preparing has no effects", func(t *testing.T) {
		now = now.Add(time.Minute)

		effects, err := o.Transition(order.StartPreparing{}, "shop", now)

		require.NoError(t, err)
		assert.Equal(t, order.Preparing, o.Status())
		assert.Empty(t, effects)
	})

	t.Run("mark ready notifies the partner", func(t *testing.T) {
		now = now.Add(15 * time.Minute)

		effects, err := o.Transition(order.MarkReady{}, "shop", now)

		require.NoError(t, err)
		assert.Equal(t, order.ReadyForPickup, o.Status())
		require.Len(t, effects, 1)
		notify := effects[0].(order.Notify)
		assert.Equal(t, order.NotifyOrderReady, notify.Kind)
		assert.Equal(t, []order.Party{order.PartyPartner}, notify.Parties)
	})

	t.Run("verified pickup moves out for delivery", func(t *testing.T) {
		pickup, _ := order.NewHandoffCredential(order.PurposeShopPickup, "483920", placedAt)
		require.NoError(t, o.AttachCredential(pickup, placedAt))
		delivery, _ := order.NewHandoffCredential(order.PurposeDelivery, "7361", placedAt)
		require.NoError(t, o.AttachCredential(delivery, placedAt))
		require.NoError(t, o.AssignPartner(kernel.NewUUID()))
		now = now.Add(5 * time.Minute)

		effects, err := o.Transition(order.VerifyPickup{Code: "483920"}, "partner", now)

		require.NoError(t, err)
		assert.Equal(t, order.OutForDelivery, o.Status())
		require.Len(t, effects, 1)
		notify := effects[0].(order.Notify)
		assert.Equal(t, order.NotifyOrderPickedUp, notify.Kind)
		assert.Equal(t, []order.Party{order.PartyCustomer}, notify.Parties)

		cred, _ := o.Credential(order.PurposeShopPickup)
		assert.True(t, cred.IsConsumed())
	})

	t.Run("verified delivery completes the order and settles cash", func(t *testing.T) {
		now = now.Add(25 * time.Minute)

		effects, err := o.Transition(order.VerifyDelivery{Code: "7361"}, "partner", now)

		require.NoError(t, err)
		assert.Equal(t, order.Delivered, o.Status())
		assert.Equal(t, order.PaymentPaid, o.PaymentStatus())

		require.Len(t, effects, 2)
		notify := effects[0].(order.Notify)
		assert.Equal(t, order.NotifyOrderDelivered, notify.Kind)
		_, ok := effects[1].(order.GenerateInvoice)
		assert.True(t, ok)

		steps := make([]order.EventKind, 0)
		for _, entry := range o.Timeline() {
			steps = append(steps, entry.Step)
		}
		assert.Equal(t, []order.EventKind{
			order.EventPlace, order.EventAccept, order.EventStartPreparing,
			order.EventMarkReady, order.EventVerifyPickup, order.EventVerifyDelivery,
		}, steps)
	})
}

func TestTransition_SelfPickupHappyPath(t *testing.T) {
	o := placeOrder(t, selfPickupPlacement(t))
	now := placedAt.Add(time.Minute)

	effects, err := o.Transition(order.Accept{EstimatedTime: "15 minutes"}, "shop", now)
	require.NoError(t, err)

	t.Run("accept does not request assignment", func(t *testing.T) {
		require.Len(t, effects, 1)
		_, ok := effects[0].(order.Notify)
		assert.True(t, ok)
	})

	_, err = o.Transition(order.StartPreparing{}, "shop", now.Add(time.Minute))
	require.NoError(t, err)

	t.Run("mark ready notifies the customer", func(t *testing.T) {
		effects, err := o.Transition(order.MarkReady{}, "shop", now.Add(10*time.Minute))

		require.NoError(t, err)
		require.Len(t, effects, 1)
		notify := effects[0].(order.Notify)
		assert.Equal(t, order.NotifyOrderReady, notify.Kind)
		assert.Equal(t, []order.Party{order.PartyCustomer}, notify.Parties)
	})

	t.Run("handover completes with collection step on the timeline", func(t *testing.T) {
		handoverAt := now.Add(30 * time.Minute)

		effects, err := o.Transition(order.HandoverSelfPickup{}, "shop", handoverAt)

		require.NoError(t, err)
		assert.Equal(t, order.Delivered, o.Status())
		assert.Equal(t, order.PaymentPaid, o.PaymentStatus())

		require.Len(t, effects, 2)
		notify := effects[0].(order.Notify)
		assert.Equal(t, order.NotifyOrderDelivered, notify.Kind)
		_, ok := effects[1].(order.GenerateInvoice)
		assert.True(t, ok)

		timeline := o.Timeline()
		require.Len(t, timeline, 6)
		assert.Equal(t, order.SelfPickupCollected, timeline[4].Status)
		assert.Equal(t, order.Delivered, timeline[5].Status)
	})
}

func TestTransition_Idempotency(t *testing.T) {
	t.Run("replaying an event is a silent no-op", func(t *testing.T) {
		o := placeOrder(t, validPlacement(t))
		_, err := o.Transition(order.Accept{EstimatedTime: "30 minutes"}, "shop", placedAt.Add(time.Minute))
		require.NoError(t, err)
		timelineLen := len(o.Timeline())

		effects, err := o.Transition(order.Accept{EstimatedTime: "45 minutes"}, "shop", placedAt.Add(2*time.Minute))

		require.NoError(t, err)
		assert.Nil(t, effects)
		assert.Equal(t, order.Confirmed, o.Status())
		assert.Equal(t, "30 minutes", o.EstimatedTime())
		assert.Len(t, o.Timeline(), timelineLen)
	})

	t.Run("replaying cancel on a cancelled order succeeds", func(t *testing.T) {
		o := placeOrder(t, validPlacement(t))
		_, err := o.Transition(order.Cancel{Reason: "out of stock"}, "shop", placedAt.Add(time.Minute))
		require.NoError(t, err)

		effects, err := o.Transition(order.Cancel{Reason: "out of stock"}, "shop", placedAt.Add(2*time.Minute))

		require.NoError(t, err)
		assert.Nil(t, effects)
	})

	t.Run("re-presenting a consumed pickup code fails verification", func(t *testing.T) {
		o := readyHomeOrder(t)
		now := placedAt.Add(25 * time.Minute)
		_, err := o.Transition(order.VerifyPickup{Code: "483920"}, "partner", now)
		require.NoError(t, err)
		require.Equal(t, order.OutForDelivery, o.Status())

		_, err = o.Transition(order.VerifyPickup{Code: "483920"}, "partner", now.Add(time.Minute))

		require.ErrorIs(t, err, order.ErrInvalidCredential)
		assert.Equal(t, order.OutForDelivery, o.Status())
	})

	t.Run("a different terminal-causing event is not a replay", func(t *testing.T) {
		o := placeOrder(t, validPlacement(t))
		_, err := o.Transition(order.Cancel{Reason: "changed mind"}, "customer", placedAt.Add(time.Minute))
		require.NoError(t, err)

		_, err = o.Transition(order.Reject{Reason: "too busy"}, "shop", placedAt.Add(2*time.Minute))

		require.ErrorIs(t, err, order.ErrAlreadyTerminal)
		assert.Equal(t, "changed mind", o.CancellationReason())
	})
}

func TestTransition_IllegalMoves(t *testing.T) {
	now := placedAt.Add(time.Minute)

	t.Run("cannot verify delivery before pickup", func(t *testing.T) {
		o := placeOrder(t, validPlacement(t))

		_, err := o.Transition(order.VerifyDelivery{Code: "7361"}, "partner", now)

		require.ErrorIs(t, err, order.ErrInvalidTransition)
		var transitionErr *order.InvalidTransitionError
		require.ErrorAs(t, err, &transitionErr)
		assert.Equal(t, order.EventVerifyDelivery, transitionErr.Event)
		assert.Equal(t, order.Placed, transitionErr.From)
		assert.Equal(t, order.Placed, o.Status())
	})

	t.Run("cannot start preparing an unaccepted order", func(t *testing.T) {
		o := placeOrder(t, validPlacement(t))

		_, err := o.Transition(order.StartPreparing{}, "shop", now)

		require.ErrorIs(t, err, order.ErrInvalidTransition)
	})

	t.Run("cannot reject after preparation started", func(t *testing.T) {
		o := placeOrder(t, validPlacement(t))
		_, err := o.Transition(order.Accept{}, "shop", now)
		require.NoError(t, err)
		_, err = o.Transition(order.StartPreparing{}, "shop", now)
		require.NoError(t, err)

		_, err = o.Transition(order.Reject{Reason: "too busy"}, "shop", now)

		require.ErrorIs(t, err, order.ErrInvalidTransition)
		assert.Equal(t, order.Preparing, o.Status())
	})

	t.Run("cannot hand over a home delivery order to the customer", func(t *testing.T) {
		o := readyHomeOrder(t)

		_, err := o.Transition(order.HandoverSelfPickup{}, "shop", now)

		require.ErrorIs(t, err, order.ErrInvalidTransition)
	})

	t.Run("cannot verify pickup on a self-pickup order", func(t *testing.T) {
		o := placeOrder(t, selfPickupPlacement(t))
		_, err := o.Transition(order.Accept{}, "shop", now)
		require.NoError(t, err)
		_, err = o.Transition(order.StartPreparing{}, "shop", now)
		require.NoError(t, err)
		_, err = o.Transition(order.MarkReady{}, "shop", now)
		require.NoError(t, err)

		_, err = o.Transition(order.VerifyPickup{Code: "483920"}, "partner", now)

		require.ErrorIs(t, err, order.ErrInvalidTransition)
	})

	t.Run("terminal order rejects further events", func(t *testing.T) {
		o := placeOrder(t, validPlacement(t))
		_, err := o.Transition(order.Reject{Reason: "closed"}, "shop", now)
		require.NoError(t, err)

		_, err = o.Transition(order.Accept{}, "shop", now)

		require.ErrorIs(t, err, order.ErrAlreadyTerminal)
	})
}

func TestTransition_PickupVerification(t *testing.T) {
	now := placedAt.Add(30 * time.Minute)

	t.Run("mismatched code leaves the order and code untouched", func(t *testing.T) {
		o := readyHomeOrder(t)

		_, err := o.Transition(order.VerifyPickup{Code: "000000"}, "partner", now)

		require.ErrorIs(t, err, order.ErrInvalidCredential)
		assert.Equal(t, order.ReadyForPickup, o.Status())

		_, err = o.Transition(order.VerifyPickup{Code: "483920"}, "partner", now)
		require.NoError(t, err)
		assert.Equal(t, order.OutForDelivery, o.Status())
	})

	t.Run("pickup without an assigned partner is blocked", func(t *testing.T) {
		o := readyHomeOrder(t)
		o.ClearPartner()

		_, err := o.Transition(order.VerifyPickup{Code: "483920"}, "partner", now)

		require.ErrorIs(t, err, order.ErrNoPartnerAssigned)
		assert.Equal(t, order.ReadyForPickup, o.Status())
	})

	t.Run("pickup without an issued code fails", func(t *testing.T) {
		o := placeOrder(t, validPlacement(t))
		_, err := o.Transition(order.Accept{}, "shop", now)
		require.NoError(t, err)
		require.NoError(t, o.AssignPartner(kernel.NewUUID()))
		_, err = o.Transition(order.StartPreparing{}, "shop", now)
		require.NoError(t, err)
		_, err = o.Transition(order.MarkReady{}, "shop", now)
		require.NoError(t, err)

		_, err = o.Transition(order.VerifyPickup{Code: "483920"}, "partner", now)

		require.ErrorIs(t, err, order.ErrInvalidCredential)
		assert.Contains(t, err.Error(), "no code issued")
	})
}

func TestTransition_FailedDelivery(t *testing.T) {
	now := placedAt.Add(time.Hour)

	outForDelivery := func(t *testing.T) *order.Order {
		o := readyHomeOrder(t)
		_, err := o.Transition(order.VerifyPickup{Code: "483920"}, "partner", now)
		require.NoError(t, err)
		return o
	}

	t.Run("failed delivery starts the return leg", func(t *testing.T) {
		o := outForDelivery(t)

		effects, err := o.Transition(order.FailDelivery{Reason: "customer unreachable"}, "partner", now)

		require.NoError(t, err)
		assert.Equal(t, order.ReturningToShop, o.Status())
		assert.Empty(t, effects)

		entries := o.Timeline()
		last := entries[len(entries)-1]
		assert.Equal(t, order.EventFailDelivery, last.Step)
		assert.Equal(t, "customer unreachable", last.Notes)
	})

	t.Run("failed delivery requires a reason", func(t *testing.T) {
		o := outForDelivery(t)

		_, err := o.Transition(order.FailDelivery{}, "partner", now)

		require.Error(t, err)
		assert.Equal(t, order.OutForDelivery, o.Status())
	})

	t.Run("confirmed return is terminal", func(t *testing.T) {
		o := outForDelivery(t)
		_, err := o.Transition(order.FailDelivery{Reason: "customer unreachable"}, "partner", now)
		require.NoError(t, err)

		effects, err := o.Transition(order.ConfirmReturn{}, "shop", now.Add(time.Hour))

		require.NoError(t, err)
		assert.Equal(t, order.ReturnedToShop, o.Status())
		assert.Empty(t, effects)
		assert.True(t, o.Status().IsTerminal())

		_, err = o.Transition(order.Cancel{Reason: "cleanup"}, "admin", now.Add(2*time.Hour))
		require.ErrorIs(t, err, order.ErrAlreadyTerminal)
	})
}

func TestTransition_Cancellation(t *testing.T) {
	now := placedAt.Add(time.Minute)

	t.Run("cancelling a placed order notifies the customer only", func(t *testing.T) {
		o := placeOrder(t, validPlacement(t))

		effects, err := o.Transition(order.Cancel{Reason: "changed mind"}, "customer", now)

		require.NoError(t, err)
		assert.Equal(t, order.Cancelled, o.Status())
		assert.Equal(t, "changed mind", o.CancellationReason())

		require.Len(t, effects, 1)
		notify := effects[0].(order.Notify)
		assert.Equal(t, order.NotifyOrderRejected, notify.Kind)
		assert.Equal(t, []order.Party{order.PartyCustomer}, notify.Parties)
		assert.Equal(t, "changed mind", notify.Reason)
	})

	t.Run("cancelling an accepted order also notifies the shop", func(t *testing.T) {
		o := placeOrder(t, validPlacement(t))
		_, err := o.Transition(order.Accept{EstimatedTime: "30 minutes"}, "shop", now)
		require.NoError(t, err)

		effects, err := o.Transition(order.Cancel{Reason: "taking too long"}, "customer", now.Add(time.Hour))

		require.NoError(t, err)
		require.Len(t, effects, 1)
		notify := effects[0].(order.Notify)
		assert.Equal(t, []order.Party{order.PartyCustomer, order.PartyShop}, notify.Parties)
	})

	t.Run("cancel requires a reason", func(t *testing.T) {
		o := placeOrder(t, validPlacement(t))

		_, err := o.Transition(order.Cancel{}, "customer", now)

		require.Error(t, err)
		assert.Equal(t, order.Placed, o.Status())
	})

	t.Run("shop rejection records the reason", func(t *testing.T) {
		o := placeOrder(t, validPlacement(t))

		effects, err := o.Transition(order.Reject{Reason: "out of stock"}, "shop", now)

		require.NoError(t, err)
		assert.Equal(t, order.Cancelled, o.Status())
		assert.Equal(t, "out of stock", o.CancellationReason())
		require.Len(t, effects, 1)
		notify := effects[0].(order.Notify)
		assert.Equal(t, order.NotifyOrderRejected, notify.Kind)
		assert.Equal(t, "out of stock", notify.Reason)
	})
}

func TestTransition_Guards(t *testing.T) {
	t.Run("unconstructed order is rejected", func(t *testing.T) {
		var o order.Order

		_, err := o.Transition(order.Accept{}, "shop", placedAt)

		require.ErrorIs(t, err, order.ErrOrderIsNotConstructed)
	})

	t.Run("nil event is rejected", func(t *testing.T) {
		o := placeOrder(t, validPlacement(t))

		_, err := o.Transition(nil, "shop", placedAt)

		require.Error(t, err)
	})

	t.Run("zero time is rejected", func(t *testing.T) {
		o := placeOrder(t, validPlacement(t))

		_, err := o.Transition(order.Accept{}, "shop", time.Time{})

		require.Error(t, err)
	})
}
