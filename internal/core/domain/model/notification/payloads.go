package notification

import (
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
)

// OrderPlaced announces a new order to the customer and the shop.
type OrderPlaced struct {
	OrderNumber  string
	ShopName     string
	Total        kernel.Money
	DeliveryType string
}

// Type implements Payload.
func (OrderPlaced) Type() EventType { return OrderPlacedEvent }

func (p OrderPlaced) PushTitle() string {
	return "Order placed"
}

func (p OrderPlaced) PushBody() string {
	return fmt.Sprintf("Order %s at %s for %s has been placed.", p.OrderNumber, p.ShopName, p.Total)
}

func (p OrderPlaced) PushData() map[string]string {
	return map[string]string{
		"type":         p.Type().String(),
		"orderNumber":  p.OrderNumber,
		"deliveryType": p.DeliveryType,
	}
}

func (p OrderPlaced) EmailSubject() string {
	return fmt.Sprintf("Order %s placed", p.OrderNumber)
}

func (p OrderPlaced) EmailHTML() string {
	return fmt.Sprintf(
		"<h2>Order %s</h2><p>Your order at <b>%s</b> has been placed.</p><p>Total: <b>%s</b></p>",
		p.OrderNumber, p.ShopName, p.Total)
}

// OrderAccepted tells the customer the shop confirmed, with the
// preparation estimate.
type OrderAccepted struct {
	OrderNumber   string
	ShopName      string
	EstimatedTime string
}

// Type implements Payload.
func (OrderAccepted) Type() EventType { return OrderAcceptedEvent }

func (p OrderAccepted) PushTitle() string {
	return "Order confirmed"
}

func (p OrderAccepted) PushBody() string {
	if p.EstimatedTime == "" {
		return fmt.Sprintf("%s confirmed order %s.", p.ShopName, p.OrderNumber)
	}
	return fmt.Sprintf("%s confirmed order %s. Estimated time: %s.", p.ShopName, p.OrderNumber, p.EstimatedTime)
}

func (p OrderAccepted) PushData() map[string]string {
	return map[string]string{
		"type":          p.Type().String(),
		"orderNumber":   p.OrderNumber,
		"estimatedTime": p.EstimatedTime,
	}
}

func (p OrderAccepted) EmailSubject() string {
	return fmt.Sprintf("Order %s confirmed", p.OrderNumber)
}

func (p OrderAccepted) EmailHTML() string {
	return fmt.Sprintf(
		"<h2>Order %s confirmed</h2><p><b>%s</b> is preparing your order.</p><p>Estimated time: %s</p>",
		p.OrderNumber, p.ShopName, p.EstimatedTime)
}

// OrderRejected tells recipients the order ended with a reason, covering
// both shop rejection and cancellation.
type OrderRejected struct {
	OrderNumber string
	ShopName    string
	Reason      string
}

// Type implements Payload.
func (OrderRejected) Type() EventType { return OrderRejectedEvent }

func (p OrderRejected) PushTitle() string {
	return "Order cancelled"
}

func (p OrderRejected) PushBody() string {
	return fmt.Sprintf("Order %s was cancelled: %s", p.OrderNumber, p.Reason)
}

func (p OrderRejected) PushData() map[string]string {
	return map[string]string{
		"type":        p.Type().String(),
		"orderNumber": p.OrderNumber,
		"reason":      p.Reason,
	}
}

func (p OrderRejected) EmailSubject() string {
	return fmt.Sprintf("Order %s cancelled", p.OrderNumber)
}

func (p OrderRejected) EmailHTML() string {
	return fmt.Sprintf(
		"<h2>Order %s cancelled</h2><p>Reason: %s</p>",
		p.OrderNumber, p.Reason)
}

// OrderReady tells the collecting party the order awaits pickup.
type OrderReady struct {
	OrderNumber string
	ShopName    string
	SelfPickup  bool
}

// Type implements Payload.
func (OrderReady) Type() EventType { return OrderReadyEvent }

func (p OrderReady) PushTitle() string {
	return "Order ready"
}

func (p OrderReady) PushBody() string {
	if p.SelfPickup {
		return fmt.Sprintf("Order %s is ready for collection at %s.", p.OrderNumber, p.ShopName)
	}
	return fmt.Sprintf("Order %s is ready for pickup at %s.", p.OrderNumber, p.ShopName)
}

func (p OrderReady) PushData() map[string]string {
	return map[string]string{
		"type":        p.Type().String(),
		"orderNumber": p.OrderNumber,
	}
}

func (p OrderReady) EmailSubject() string {
	return fmt.Sprintf("Order %s ready", p.OrderNumber)
}

func (p OrderReady) EmailHTML() string {
	return fmt.Sprintf(
		"<h2>Order %s ready</h2><p>Waiting at <b>%s</b>.</p>",
		p.OrderNumber, p.ShopName)
}

// OrderPickedUp tells the customer the order is on its way.
type OrderPickedUp struct {
	OrderNumber string
	PartnerName string
}

// Type implements Payload.
func (OrderPickedUp) Type() EventType { return OrderPickedUpEvent }

func (p OrderPickedUp) PushTitle() string {
	return "Order on the way"
}

func (p OrderPickedUp) PushBody() string {
	if p.PartnerName == "" {
		return fmt.Sprintf("Order %s has been picked up.", p.OrderNumber)
	}
	return fmt.Sprintf("%s picked up order %s and is on the way.", p.PartnerName, p.OrderNumber)
}

func (p OrderPickedUp) PushData() map[string]string {
	return map[string]string{
		"type":        p.Type().String(),
		"orderNumber": p.OrderNumber,
	}
}

func (p OrderPickedUp) EmailSubject() string {
	return fmt.Sprintf("Order %s is on the way", p.OrderNumber)
}

func (p OrderPickedUp) EmailHTML() string {
	return fmt.Sprintf("<h2>Order %s</h2><p>Your order is on the way.</p>", p.OrderNumber)
}

// OrderDelivered announces completion.
type OrderDelivered struct {
	OrderNumber string
	Total       kernel.Money
}

// Type implements Payload.
func (OrderDelivered) Type() EventType { return OrderDeliveredEvent }

func (p OrderDelivered) PushTitle() string {
	return "Order delivered"
}

func (p OrderDelivered) PushBody() string {
	return fmt.Sprintf("Order %s has been delivered. Thank you!", p.OrderNumber)
}

func (p OrderDelivered) PushData() map[string]string {
	return map[string]string{
		"type":        p.Type().String(),
		"orderNumber": p.OrderNumber,
	}
}

func (p OrderDelivered) EmailSubject() string {
	return fmt.Sprintf("Order %s delivered", p.OrderNumber)
}

func (p OrderDelivered) EmailHTML() string {
	return fmt.Sprintf(
		"<h2>Order %s delivered</h2><p>Amount: <b>%s</b>. Thank you for ordering.</p>",
		p.OrderNumber, p.Total)
}

// DailySummary carries a shop's end-of-day business figures.
type DailySummary struct {
	ShopName  string
	Date      string
	Delivered int
	Cancelled int
	Revenue   kernel.Money
	Cost      kernel.Money
	Profit    kernel.Money

	// ProfitMarginPct is (revenue - cost) / revenue * 100, zero when the
	// shop had no revenue.
	ProfitMarginPct float64
}

// Type implements Payload.
func (DailySummary) Type() EventType { return DailySummaryEvent }

func (p DailySummary) PushTitle() string {
	return fmt.Sprintf("Daily summary %s", p.Date)
}

func (p DailySummary) PushBody() string {
	return fmt.Sprintf("%d delivered, %d cancelled, revenue %s.", p.Delivered, p.Cancelled, p.Revenue)
}

func (p DailySummary) PushData() map[string]string {
	return map[string]string{
		"type": p.Type().String(),
		"date": p.Date,
	}
}

func (p DailySummary) EmailSubject() string {
	return fmt.Sprintf("%s: daily summary for %s", p.ShopName, p.Date)
}

func (p DailySummary) EmailHTML() string {
	return fmt.Sprintf(
		"<h2>%s, %s</h2>"+
			"<table>"+
			"<tr><td>Delivered orders</td><td>%d</td></tr>"+
			"<tr><td>Cancelled orders</td><td>%d</td></tr>"+
			"<tr><td>Revenue</td><td>%s</td></tr>"+
			"<tr><td>Cost</td><td>%s</td></tr>"+
			"<tr><td>Profit</td><td>%s</td></tr>"+
			"<tr><td>Profit margin</td><td>%.2f%%</td></tr>"+
			"</table>",
		p.ShopName, p.Date, p.Delivered, p.Cancelled, p.Revenue, p.Cost, p.Profit, p.ProfitMarginPct)
}
