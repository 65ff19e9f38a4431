package commands

import (
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/partner"
	"fulfillment/internal/core/ports"
)

// buildNotificationEvent turns a Notify side effect into a concrete
// notification event for the dispatcher. The partner recipient is only
// included when the order has one loaded.
func buildNotificationEvent(o *order.Order, eff order.Notify, assigned *partner.Partner) notification.Event {
	event := notification.Event{
		Payload: buildPayload(o, eff, assigned),
	}

	for _, party := range eff.Parties {
		switch party {
		case order.PartyCustomer:
			contact := o.Customer()
			event.Recipients = append(event.Recipients, notification.Recipient{
				Role:       notification.RoleCustomer,
				Name:       contact.Name,
				Email:      contact.Email,
				PushTarget: contact.PushTarget,
			})
		case order.PartyShop:
			contact := o.Shop()
			event.Recipients = append(event.Recipients, notification.Recipient{
				Role:       notification.RoleShop,
				Name:       contact.Name,
				Email:      contact.Email,
				PushTarget: contact.PushTarget,
			})
		case order.PartyPartner:
			if assigned == nil {
				continue
			}
			event.Recipients = append(event.Recipients, notification.Recipient{
				Role:       notification.RolePartner,
				Name:       assigned.Name(),
				PushTarget: assigned.PushTarget(),
			})
		}
	}

	return event
}

func buildPayload(o *order.Order, eff order.Notify, assigned *partner.Partner) notification.Payload {
	switch eff.Kind {
	case order.NotifyOrderPlaced:
		return notification.OrderPlaced{
			OrderNumber:  o.Number(),
			ShopName:     o.Shop().Name,
			Total:        o.Total(),
			DeliveryType: o.DeliveryType().String(),
		}
	case order.NotifyOrderAccepted:
		return notification.OrderAccepted{
			OrderNumber:   o.Number(),
			ShopName:      o.Shop().Name,
			EstimatedTime: eff.EstimatedTime,
		}
	case order.NotifyOrderRejected:
		return notification.OrderRejected{
			OrderNumber: o.Number(),
			ShopName:    o.Shop().Name,
			Reason:      eff.Reason,
		}
	case order.NotifyOrderReady:
		return notification.OrderReady{
			OrderNumber: o.Number(),
			ShopName:    o.Shop().Name,
			SelfPickup:  o.DeliveryType() == order.SelfPickup,
		}
	case order.NotifyOrderPickedUp:
		partnerName := ""
		if assigned != nil {
			partnerName = assigned.Name()
		}
		return notification.OrderPickedUp{
			OrderNumber: o.Number(),
			PartnerName: partnerName,
		}
	case order.NotifyOrderDelivered:
		return notification.OrderDelivered{
			OrderNumber: o.Number(),
			Total:       o.Total(),
		}
	default:
		return nil
	}
}

// buildInvoice snapshots the order's billing figures for the invoice
// channel.
func buildInvoice(o *order.Order) ports.Invoice {
	return ports.Invoice{
		OrderNumber:   o.Number(),
		CustomerName:  o.Customer().Name,
		CustomerEmail: o.Customer().Email,
		ShopName:      o.Shop().Name,
		SubtotalPaise: o.Subtotal().Paise(),
		DiscountPaise: o.Discount().Paise(),
		FeePaise:      o.DeliveryFee().Paise(),
		TotalPaise:    o.Total().Paise(),
		PaymentMethod: o.PaymentMethod().String(),
	}
}
