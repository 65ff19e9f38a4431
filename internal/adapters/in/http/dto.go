package http

import (
	"strings"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ContactRequest is one party's contact details on placement.
type ContactRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	PushTarget string `json:"pushTarget"`
}

// LocationRequest is a grid coordinate pair.
type LocationRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// PlaceOrderRequest is the body of POST /orders.
type PlaceOrderRequest struct {
	Number        string          `json:"number"`
	CustomerID    string          `json:"customerId"`
	ShopID        string          `json:"shopId"`
	Customer      ContactRequest  `json:"customer"`
	Shop          ContactRequest  `json:"shop"`
	ShopLocation  LocationRequest `json:"shopLocation"`
	DeliveryType  string          `json:"deliveryType"`
	PaymentMethod string          `json:"paymentMethod"`
	SubtotalPaise int64           `json:"subtotalPaise"`
	DiscountPaise int64           `json:"discountPaise"`
	FeePaise      int64           `json:"feePaise"`
}

func (r PlaceOrderRequest) toParams() (commands.PlaceOrderParams, error) {
	customerID, err := kernel.UUIDFromString(r.CustomerID)
	if err != nil {
		return commands.PlaceOrderParams{}, errs.NewValueIsInvalidErrorWithCause("customerId", err)
	}
	shopID, err := kernel.UUIDFromString(r.ShopID)
	if err != nil {
		return commands.PlaceOrderParams{}, errs.NewValueIsInvalidErrorWithCause("shopId", err)
	}

	deliveryType, err := order.DeliveryTypeFromString(r.DeliveryType)
	if err != nil {
		return commands.PlaceOrderParams{}, err
	}
	paymentMethod, err := order.PaymentMethodFromString(r.PaymentMethod)
	if err != nil {
		return commands.PlaceOrderParams{}, err
	}

	location, err := kernel.NewLocation(kernel.Coordinate(r.ShopLocation.X), kernel.Coordinate(r.ShopLocation.Y))
	if err != nil {
		return commands.PlaceOrderParams{}, err
	}

	return commands.PlaceOrderParams{
		OrderID:    kernel.NewUUID(),
		Number:     r.Number,
		CustomerID: customerID,
		ShopID:     shopID,
		Customer: order.Contact{
			Name:       r.Customer.Name,
			Email:      r.Customer.Email,
			PushTarget: r.Customer.PushTarget,
		},
		Shop: order.Contact{
			Name:       r.Shop.Name,
			Email:      r.Shop.Email,
			PushTarget: r.Shop.PushTarget,
		},
		ShopLocation:  location,
		DeliveryType:  deliveryType,
		PaymentMethod: paymentMethod,
		SubtotalPaise: r.SubtotalPaise,
		DiscountPaise: r.DiscountPaise,
		FeePaise:      r.FeePaise,
	}, nil
}

// AcceptOrderRequest is the body of the accept step.
type AcceptOrderRequest struct {
	EstimatedTime string `json:"estimatedTime"`
}

// ReasonRequest is the body of steps that need a reason.
type ReasonRequest struct {
	Reason string `json:"reason"`
}

// CodeRequest is the body of the handoff verification steps.
type CodeRequest struct {
	Code string `json:"code"`
}

// CancelOrderRequest is the body of the cancel step.
type CancelOrderRequest struct {
	Reason      string `json:"reason"`
	RequestedBy string `json:"requestedBy"`
}

// RespondAssignmentRequest is the partner's answer to an offer.
type RespondAssignmentRequest struct {
	Accept bool   `json:"accept"`
	Reason string `json:"reason"`
}

// FlowStatusResponse is the result of placement and of every step.
type FlowStatusResponse struct {
	Status        string `json:"status"`
	CurrentStep   string `json:"currentStep"`
	NextStep      string `json:"nextStep,omitempty"`
	CanProceed    bool   `json:"canProceed"`
	BlockedReason string `json:"blockedReason,omitempty"`
}

func flowResponseOf(flow commands.FlowStatus) FlowStatusResponse {
	return FlowStatusResponse{
		Status:        flow.Status,
		CurrentStep:   flow.CurrentStep,
		NextStep:      flow.NextStep,
		CanProceed:    flow.CanProceed,
		BlockedReason: flow.BlockedReason,
	}
}

// LocationResponse is a grid coordinate pair.
type LocationResponse struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// OrderResponse is the full order view.
type OrderResponse struct {
	ID            string `json:"id"`
	Number        string `json:"number"`
	Status        string `json:"status"`
	DeliveryType  string `json:"deliveryType"`
	PaymentMethod string `json:"paymentMethod"`
	PaymentStatus string `json:"paymentStatus"`

	CustomerName string `json:"customerName"`
	ShopName     string `json:"shopName"`

	SubtotalPaise    int64 `json:"subtotalPaise"`
	DiscountPaise    int64 `json:"discountPaise"`
	DeliveryFeePaise int64 `json:"deliveryFeePaise"`
	TotalPaise       int64 `json:"totalPaise"`

	EstimatedTime      string `json:"estimatedTime,omitempty"`
	CancellationReason string `json:"cancellationReason,omitempty"`

	PartnerID string `json:"partnerId,omitempty"`

	Timeline    []TimelineEntryResponse `json:"timeline"`
	Credentials []CredentialResponse    `json:"credentials"`
}

// TimelineEntryResponse is one audit entry of the order view.
type TimelineEntryResponse struct {
	Step   string    `json:"step"`
	Status string    `json:"status"`
	At     time.Time `json:"at"`
	Actor  string    `json:"actor"`
	Notes  string    `json:"notes,omitempty"`
}

// CredentialResponse is one handoff code of the order view. Codes are
// masked down to their last two digits; the full code travels to its
// party through the notification channels only.
type CredentialResponse struct {
	Purpose  string    `json:"purpose"`
	Code     string    `json:"code"`
	IssuedAt time.Time `json:"issuedAt"`
	Consumed bool      `json:"consumed"`
}

// AwaitingOrderResponse is one member of the assignment pool view.
type AwaitingOrderResponse struct {
	ID           string           `json:"id"`
	Number       string           `json:"number"`
	Status       string           `json:"status"`
	ShopName     string           `json:"shopName"`
	ShopLocation LocationResponse `json:"shopLocation"`
	PlacedAt     time.Time        `json:"placedAt"`
}

func orderResponseOf(view queries.GetOrderQueryResponse) OrderResponse {
	response := OrderResponse{
		ID:                 view.ID.String(),
		Number:             view.Number,
		Status:             view.Status,
		DeliveryType:       view.DeliveryType,
		PaymentMethod:      view.PaymentMethod,
		PaymentStatus:      view.PaymentStatus,
		CustomerName:       view.CustomerName,
		ShopName:           view.ShopName,
		SubtotalPaise:      view.SubtotalPaise,
		DiscountPaise:      view.DiscountPaise,
		DeliveryFeePaise:   view.DeliveryFeePaise,
		TotalPaise:         view.TotalPaise,
		EstimatedTime:      view.EstimatedTime,
		CancellationReason: view.CancellationReason,
		Timeline:           make([]TimelineEntryResponse, len(view.Timeline)),
		Credentials:        make([]CredentialResponse, len(view.Credentials)),
	}

	if view.PartnerID != nil {
		response.PartnerID = view.PartnerID.String()
	}

	for i, entry := range view.Timeline {
		response.Timeline[i] = TimelineEntryResponse{
			Step:   entry.Step,
			Status: entry.Status,
			At:     entry.At,
			Actor:  entry.Actor,
			Notes:  entry.Notes,
		}
	}

	for i, cred := range view.Credentials {
		response.Credentials[i] = CredentialResponse{
			Purpose:  cred.Purpose,
			Code:     maskCode(cred.Code),
			IssuedAt: cred.IssuedAt,
			Consumed: cred.Consumed,
		}
	}

	return response
}

func maskCode(code string) string {
	if len(code) <= 2 {
		return code
	}
	return strings.Repeat("*", len(code)-2) + code[len(code)-2:]
}
