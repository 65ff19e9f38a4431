package postgres

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormShopDirectory lists shops for the daily summary batch. Shops are
// not an aggregate here; the directory is derived from the orders table,
// so exactly the shops with at least one order get a summary.
type GormShopDirectory struct {
	db *gorm.DB
}

// NewGormShopDirectory creates a shop directory backed by the orders table.
func NewGormShopDirectory(db *gorm.DB) *GormShopDirectory {
	return &GormShopDirectory{db: db}
}

// GetActiveShops returns each shop seen on an order, with the contact
// block of its most recent order. Ordered by name for stable batch runs.
func (d *GormShopDirectory) GetActiveShops(ctx context.Context) ([]ports.Shop, error) {
	rows, err := d.db.WithContext(ctx).Raw(`
		SELECT DISTINCT ON (shop_id)
			shop_id,
			shop_name,
			shop_email
		FROM orders
		ORDER BY shop_id, number DESC
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shops := make([]ports.Shop, 0)

	for rows.Next() {
		var (
			id    uuid.UUID
			name  string
			email string
		)
		if err := rows.Scan(&id, &name, &email); err != nil {
			return nil, err
		}

		shopID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}

		shops = append(shops, ports.Shop{ID: shopID, Name: name, Email: email})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return shops, nil
}
