// Package invoice renders invoices for completed orders and delivers
// them to the customer by email.
package invoice

import (
	"context"
	"fmt"
	"html/template"
	"strings"

	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

var invoiceTemplate = template.Must(template.New("invoice").
	Funcs(template.FuncMap{"money": formatPaise}).
	Parse(`<html>
<body>
<h2>Invoice for order {{.OrderNumber}}</h2>
<p>Dear {{.CustomerName}}, thank you for ordering from {{.ShopName}}.</p>
<table>
<tr><td>Subtotal</td><td>{{money .SubtotalPaise}}</td></tr>
<tr><td>Discount</td><td>-{{money .DiscountPaise}}</td></tr>
<tr><td>Delivery fee</td><td>{{money .FeePaise}}</td></tr>
<tr><td><b>Total</b></td><td><b>{{money .TotalPaise}}</b></td></tr>
</table>
<p>Payment method: {{.PaymentMethod}}</p>
</body>
</html>
`))

func formatPaise(paise int64) string {
	return fmt.Sprintf("₹%d.%02d", paise/100, paise%100)
}

// EmailInvoiceSender implements InvoiceSender by rendering an HTML
// invoice and handing it to the email channel.
type EmailInvoiceSender struct {
	emails ports.EmailSender
}

// NewEmailInvoiceSender creates an invoice sender on top of the given
// email channel.
func NewEmailInvoiceSender(emails ports.EmailSender) (*EmailInvoiceSender, error) {
	if emails == nil {
		return nil, errs.NewValueIsRequiredError("emails")
	}
	return &EmailInvoiceSender{emails: emails}, nil
}

// SendInvoice renders and emails the invoice. Orders without a customer
// email are skipped without error; not every customer shares one.
func (s *EmailInvoiceSender) SendInvoice(ctx context.Context, invoice ports.Invoice) error {
	if invoice.CustomerEmail == "" {
		return nil
	}

	subject := fmt.Sprintf("Invoice for order %s", invoice.OrderNumber)
	body, err := renderHTML(invoice)
	if err != nil {
		return err
	}

	return s.emails.SendEmail(ctx, invoice.CustomerEmail, subject, body)
}

func renderHTML(invoice ports.Invoice) (string, error) {
	var sb strings.Builder
	if err := invoiceTemplate.Execute(&sb, invoice); err != nil {
		return "", err
	}
	return sb.String(), nil
}
