package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/notification"
)

// PushSender delivers one rendered push message to one device target.
// Implementations must honor ctx cancellation and deadlines.
type PushSender interface {
	SendPush(ctx context.Context, target string, payload notification.Payload) error
}

// EmailSender delivers one rendered email to one address.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, htmlBody string) error
}

// InvoiceSender produces and delivers the invoice for a completed order.
// The engine only triggers it; rendering details live in the adapter.
type InvoiceSender interface {
	SendInvoice(ctx context.Context, invoice Invoice) error
}

// Invoice is the billing snapshot handed to the InvoiceSender.
type Invoice struct {
	OrderNumber   string
	CustomerName  string
	CustomerEmail string
	ShopName      string
	SubtotalPaise int64
	DiscountPaise int64
	FeePaise      int64
	TotalPaise    int64
	PaymentMethod string
}
