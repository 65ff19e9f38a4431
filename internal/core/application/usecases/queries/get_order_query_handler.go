package queries

import (
	"context"
	"database/sql"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderQueryHandler retrieves one order's view from the database.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for order views.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the query. Returns errs.ObjectNotFoundError when no
// order matches.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	where := "number = ?"
	arg := any(query.number)
	notFoundID := query.number
	if query.orderID != nil {
		where = "id = ?"
		arg = query.orderID.Bytes()
		notFoundID = query.orderID.String()
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			number,
			status,
			delivery_type,
			payment_method,
			payment_status,
			customer_name,
			shop_name,
			subtotal_paise,
			discount_paise,
			delivery_fee_paise,
			total_paise,
			estimated_time,
			cancellation_reason,
			partner_id
		FROM orders
		WHERE `+where, arg).Row()

	var (
		resp          GetOrderQueryResponse
		id            uuid.UUID
		status        int
		deliveryType  int
		paymentMethod int
		paymentStatus int
		partnerID     *uuid.UUID
	)

	err := row.Scan(
		&id,
		&resp.Number,
		&status,
		&deliveryType,
		&paymentMethod,
		&paymentStatus,
		&resp.CustomerName,
		&resp.ShopName,
		&resp.SubtotalPaise,
		&resp.DiscountPaise,
		&resp.DeliveryFeePaise,
		&resp.TotalPaise,
		&resp.EstimatedTime,
		&resp.CancellationReason,
		&partnerID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", notFoundID)
	}
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	resp.ID = orderID

	if partnerID != nil {
		pID, pErr := kernel.UUIDFromBytes((*partnerID)[:])
		if pErr != nil {
			return GetOrderQueryResponse{}, pErr
		}
		resp.PartnerID = &pID
	}

	resp.Status = order.Status(status).String()
	resp.DeliveryType = order.DeliveryType(deliveryType).String()
	resp.PaymentMethod = order.PaymentMethod(paymentMethod).String()
	resp.PaymentStatus = order.PaymentStatus(paymentStatus).String()

	if resp.Timeline, err = h.loadTimeline(ctx, id); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if resp.Credentials, err = h.loadCredentials(ctx, id); err != nil {
		return GetOrderQueryResponse{}, err
	}

	return resp, nil
}

func (h GetOrderQueryHandler) loadTimeline(ctx context.Context, orderID uuid.UUID) ([]TimelineEntryResponse, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT step, status, at, actor, notes
		FROM order_timeline
		WHERE order_id = ?
		ORDER BY id
	`, orderID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]TimelineEntryResponse, 0)

	for rows.Next() {
		var (
			entry  TimelineEntryResponse
			step   int
			status int
		)
		if err := rows.Scan(&step, &status, &entry.At, &entry.Actor, &entry.Notes); err != nil {
			return nil, err
		}
		entry.Step = order.EventKind(step).String()
		entry.Status = order.Status(status).String()
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func (h GetOrderQueryHandler) loadCredentials(ctx context.Context, orderID uuid.UUID) ([]CredentialResponse, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT purpose, code, issued_at, consumed_at
		FROM order_credentials
		WHERE order_id = ?
		ORDER BY purpose
	`, orderID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	credentials := make([]CredentialResponse, 0)

	for rows.Next() {
		var (
			cred       CredentialResponse
			purpose    int
			consumedAt sql.NullTime
		)
		if err := rows.Scan(&purpose, &cred.Code, &cred.IssuedAt, &consumedAt); err != nil {
			return nil, err
		}
		cred.Purpose = order.CredentialPurpose(purpose).String()
		cred.Consumed = consumedAt.Valid
		credentials = append(credentials, cred)
	}

	return credentials, rows.Err()
}
