package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// SummaryLog records which (shop, date) summaries were already produced,
// making the daily summary idempotent across job restarts.
type SummaryLog interface {
	// AlreadySent reports whether the summary for the shop and calendar
	// date was produced before.
	AlreadySent(ctx context.Context, shopID kernel.UUID, date time.Time) (bool, error)

	// MarkSent records the summary as produced.
	MarkSent(ctx context.Context, shopID kernel.UUID, date time.Time) error
}

// ShopDirectory lists the shops the engine produces summaries for.
type ShopDirectory interface {
	// GetActiveShops returns the ids and contacts of shops with activity.
	GetActiveShops(ctx context.Context) ([]Shop, error)
}

// Shop is the directory's view of one shop.
type Shop struct {
	ID    kernel.UUID
	Name  string
	Email string
}
