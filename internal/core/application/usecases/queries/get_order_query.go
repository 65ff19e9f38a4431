// Package queries contains the engine's read operations. Query handlers
// go straight to the database and return flat view models; they never
// load aggregates or take part in transactions.
package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetOrderQueryIsNotConstructed = errors.New(
		"GetOrderQuery must be created via NewGetOrderQueryByID or NewGetOrderQueryByNumber constructor",
	)
)

// GetOrderQuery retrieves one order's full view: status, amounts,
// timeline and handoff codes. The order is addressed either by id or by
// its human-facing number.
type GetOrderQuery struct {
	orderID *kernel.UUID
	number  string

	guard guard.ConstructorGuard
}

// NewGetOrderQueryByID creates a query addressing the order by id.
func NewGetOrderQueryByID(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{orderID: &orderID, guard: guard.NewConstructorGuard()}, nil
}

// NewGetOrderQueryByNumber creates a query addressing the order by its
// number.
func NewGetOrderQueryByNumber(number string) (GetOrderQuery, error) {
	if number == "" {
		return GetOrderQuery{}, errs.NewValueIsRequiredError("number")
	}

	return GetOrderQuery{number: number, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through a constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// GetOrderQueryResponse is the full order view.
type GetOrderQueryResponse struct {
	ID            kernel.UUID
	Number        string
	Status        string
	DeliveryType  string
	PaymentMethod string
	PaymentStatus string

	CustomerName string
	ShopName     string

	SubtotalPaise    int64
	DiscountPaise    int64
	DeliveryFeePaise int64
	TotalPaise       int64

	EstimatedTime      string
	CancellationReason string

	PartnerID *kernel.UUID

	Timeline    []TimelineEntryResponse
	Credentials []CredentialResponse
}

// TimelineEntryResponse is one audit log entry of the order view.
type TimelineEntryResponse struct {
	Step   string
	Status string
	At     time.Time
	Actor  string
	Notes  string
}

// CredentialResponse is one handoff code of the order view. The code is
// included as issued; masking is the API layer's concern.
type CredentialResponse struct {
	Purpose  string
	Code     string
	IssuedAt time.Time
	Consumed bool
}
