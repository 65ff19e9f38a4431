package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrPlaceOrderCommandIsNotConstructed = errors.New(
	"PlaceOrderCommand must be created via NewPlaceOrderCommand constructor",
)

// PlaceOrderCommand creates a new order and starts its lifecycle.
//
// Example:
//
//	cmd, err := NewPlaceOrderCommand(PlaceOrderParams{
//	    OrderID:       kernel.NewUUID(),
//	    Number:        "ORD-2024-000451",
//	    CustomerID:    customerID,
//	    ShopID:        shopID,
//	    Customer:      customerContact,
//	    Shop:          shopContact,
//	    ShopLocation:  shopLocation,
//	    DeliveryType:  order.HomeDelivery,
//	    PaymentMethod: order.CashOnDelivery,
//	    SubtotalPaise: 25000,
//	    FeePaise:      4000,
//	})
type PlaceOrderCommand struct {
	params PlaceOrderParams

	guard guard.ConstructorGuard
}

// PlaceOrderParams carries the placement input. Money amounts are in the
// smallest currency unit.
type PlaceOrderParams struct {
	OrderID       kernel.UUID
	Number        string
	CustomerID    kernel.UUID
	ShopID        kernel.UUID
	Customer      order.Contact
	Shop          order.Contact
	ShopLocation  kernel.Location
	DeliveryType  order.DeliveryType
	PaymentMethod order.PaymentMethod
	SubtotalPaise int64
	DiscountPaise int64
	FeePaise      int64
}

// NewPlaceOrderCommand creates the command. Field validation beyond the
// obvious (ids, number) is left to the aggregate so the rules live in one
// place.
func NewPlaceOrderCommand(params PlaceOrderParams) (PlaceOrderCommand, error) {
	if err := errors.Join(
		params.OrderID.Validate(),
		params.CustomerID.Validate(),
		params.ShopID.Validate(),
	); err != nil {
		return PlaceOrderCommand{}, err
	}
	if strings.TrimSpace(params.Number) == "" {
		return PlaceOrderCommand{}, errs.NewValueIsRequiredError("number")
	}

	return PlaceOrderCommand{
		params: params,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c PlaceOrderCommand) Validate() error {
	return c.guard.Validate(ErrPlaceOrderCommandIsNotConstructed)
}

// Params returns the placement input.
func (c PlaceOrderCommand) Params() PlaceOrderParams {
	return c.params
}
