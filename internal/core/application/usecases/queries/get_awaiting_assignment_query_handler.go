package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetAwaitingAssignmentQueryHandler retrieves the assignment pool from
// the database. The placement time comes from each order's first timeline
// entry, so the oldest waiting orders surface first.
type GetAwaitingAssignmentQueryHandler struct {
	db *gorm.DB
}

// NewGetAwaitingAssignmentQueryHandler creates a handler for assignment
// pool queries.
func NewGetAwaitingAssignmentQueryHandler(db *gorm.DB) GetAwaitingAssignmentQueryHandler {
	return GetAwaitingAssignmentQueryHandler{db: db}
}

// Handle executes the query. Results are ordered oldest placement first.
func (h GetAwaitingAssignmentQueryHandler) Handle(
	ctx context.Context,
	query GetAwaitingAssignmentQuery,
) ([]GetAwaitingAssignmentQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.number,
			o.status,
			o.shop_name,
			o.shop_location_x,
			o.shop_location_y,
			t.at AS placed_at
		FROM orders o
		JOIN order_timeline t ON t.order_id = o.id AND t.step = ?
		WHERE o.delivery_type = ?
		  AND o.partner_id IS NULL
		  AND o.status IN ?
		ORDER BY t.at, o.number
	`,
		int(order.EventPlace),
		int(order.HomeDelivery),
		[]int{int(order.Confirmed), int(order.Preparing), int(order.ReadyForPickup)},
	).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pool := make([]GetAwaitingAssignmentQueryResponse, 0)

	for rows.Next() {
		var (
			resp      GetAwaitingAssignmentQueryResponse
			id        uuid.UUID
			status    int
			locationX int16
			locationY int16
		)

		err := rows.Scan(&id, &resp.Number, &status, &resp.ShopName, &locationX, &locationY, &resp.PlacedAt)
		if err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = orderID
		resp.Status = order.Status(status).String()

		location, locErr := kernel.NewLocation(
			kernel.Coordinate(locationX),
			kernel.Coordinate(locationY),
		)
		if locErr != nil {
			return nil, locErr
		}
		resp.ShopLocation = location

		pool = append(pool, resp)
	}

	return pool, rows.Err()
}
