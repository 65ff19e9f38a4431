package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// DeliveryType distinguishes orders delivered by a partner from orders the
// customer collects at the shop.
type DeliveryType int

const (
	// DeliveryTypeUnknown catches uninitialized values.
	DeliveryTypeUnknown DeliveryType = iota
	// HomeDelivery orders are fulfilled by an assigned delivery partner.
	HomeDelivery
	// SelfPickup orders are collected by the customer; no partner and no
	// delivery fee are involved.
	SelfPickup
)

// Validate checks the DeliveryType is a defined value.
func (d DeliveryType) Validate() error {
	if d != HomeDelivery && d != SelfPickup {
		return errs.NewValueIsInvalidErrorWithCause("delivery type is invalid",
			fmt.Errorf("%d is not a valid delivery type", d))
	}
	return nil
}

// String returns the canonical upper-snake name.
func (d DeliveryType) String() string {
	switch d {
	case HomeDelivery:
		return "HOME_DELIVERY"
	case SelfPickup:
		return "SELF_PICKUP"
	default:
		return "UNKNOWN"
	}
}

// DeliveryTypeFromString parses the canonical upper-snake representation.
func DeliveryTypeFromString(s string) (DeliveryType, error) {
	switch s {
	case "HOME_DELIVERY":
		return HomeDelivery, nil
	case "SELF_PICKUP":
		return SelfPickup, nil
	default:
		return DeliveryTypeUnknown, errs.NewValueIsInvalidErrorWithCause("delivery type is invalid",
			fmt.Errorf("%q is not a valid delivery type", s))
	}
}

// PaymentMethod is how the customer pays for the order.
type PaymentMethod int

const (
	// PaymentMethodUnknown catches uninitialized values.
	PaymentMethodUnknown PaymentMethod = iota
	// CashOnDelivery is settled in cash at the handoff point.
	CashOnDelivery
	// OnlinePayment was captured upstream; only its status is consumed here.
	OnlinePayment
)

// Validate checks the PaymentMethod is a defined value.
func (m PaymentMethod) Validate() error {
	if m != CashOnDelivery && m != OnlinePayment {
		return errs.NewValueIsInvalidErrorWithCause("payment method is invalid",
			fmt.Errorf("%d is not a valid payment method", m))
	}
	return nil
}

// String returns the canonical upper-snake name.
func (m PaymentMethod) String() string {
	switch m {
	case CashOnDelivery:
		return "CASH_ON_DELIVERY"
	case OnlinePayment:
		return "ONLINE_PAYMENT"
	default:
		return "UNKNOWN"
	}
}

// PaymentMethodFromString parses the canonical upper-snake representation.
func PaymentMethodFromString(s string) (PaymentMethod, error) {
	switch s {
	case "CASH_ON_DELIVERY":
		return CashOnDelivery, nil
	case "ONLINE_PAYMENT":
		return OnlinePayment, nil
	default:
		return PaymentMethodUnknown, errs.NewValueIsInvalidErrorWithCause("payment method is invalid",
			fmt.Errorf("%q is not a valid payment method", s))
	}
}

// PaymentStatus is the settlement state of the order's payment.
type PaymentStatus int

const (
	// PaymentStatusUnknown catches uninitialized values.
	PaymentStatusUnknown PaymentStatus = iota
	// PaymentPending means payment has not been settled yet.
	PaymentPending
	// PaymentPaid means payment has been settled.
	PaymentPaid
	// PaymentRefunded means a settled payment was returned.
	PaymentRefunded
)

// Validate checks the PaymentStatus is a defined value.
func (p PaymentStatus) Validate() error {
	switch p {
	case PaymentPending, PaymentPaid, PaymentRefunded:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("payment status is invalid",
			fmt.Errorf("%d is not a valid payment status", p))
	}
}

// String returns the canonical upper-snake name.
func (p PaymentStatus) String() string {
	switch p {
	case PaymentPending:
		return "PENDING"
	case PaymentPaid:
		return "PAID"
	case PaymentRefunded:
		return "REFUNDED"
	default:
		return "UNKNOWN"
	}
}

// Contact is a communication snapshot for one party of the order. Fields
// are optional: notification channels are skipped for whatever is absent.
type Contact struct {
	Name       string
	Phone      string
	Email      string
	PushTarget string
}

// HasIdentity reports whether the contact can be reached over at least one
// channel.
func (c Contact) HasIdentity() bool {
	return c.PushTarget != "" || c.Email != ""
}
