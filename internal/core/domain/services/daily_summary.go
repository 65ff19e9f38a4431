package services

import (
	"math"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// ShopSummary is one shop's end-of-day figures.
type ShopSummary struct {
	ShopID    kernel.UUID
	Date      time.Time
	Delivered int
	Cancelled int
	Revenue   kernel.Money
	Cost      kernel.Money
	Profit    kernel.Money

	// ProfitMarginPct is (revenue - cost) / revenue * 100. Zero when the
	// shop had no revenue, never NaN.
	ProfitMarginPct float64
}

// SummaryCalculator derives a shop's daily summary from its finished
// orders. Cost is estimated as a configured percentage of revenue because
// the engine does not see purchase prices.
type SummaryCalculator struct {
	// costMarginPct is the estimated cost share of revenue, 0..100
	costMarginPct float64
}

// NewSummaryCalculator creates a calculator with the given cost share of
// revenue in percent.
func NewSummaryCalculator(costMarginPct float64) (SummaryCalculator, error) {
	if costMarginPct < 0 || costMarginPct > 100 {
		return SummaryCalculator{}, errs.NewValueIsOutOfRangeError("costMarginPct", costMarginPct, 0, 100)
	}
	return SummaryCalculator{costMarginPct: costMarginPct}, nil
}

// Calculate sums the day's delivered and cancelled orders for one shop.
// Only delivered orders count toward revenue.
func (c SummaryCalculator) Calculate(
	shopID kernel.UUID, date time.Time, delivered, cancelled []*order.Order,
) (ShopSummary, error) {
	if err := shopID.Validate(); err != nil {
		return ShopSummary{}, err
	}

	var revenuePaise int64
	for _, o := range delivered {
		if err := o.Validate(); err != nil {
			return ShopSummary{}, err
		}
		revenuePaise += o.Total().Paise()
	}

	costPaise := int64(math.Round(float64(revenuePaise) * c.costMarginPct / 100))
	profitPaise := revenuePaise - costPaise

	marginPct := 0.0
	if revenuePaise > 0 {
		marginPct = float64(profitPaise) / float64(revenuePaise) * 100
	}

	return ShopSummary{
		ShopID:          shopID,
		Date:            date,
		Delivered:       len(delivered),
		Cancelled:       len(cancelled),
		Revenue:         kernel.MustMoney(revenuePaise),
		Cost:            kernel.MustMoney(costPaise),
		Profit:          kernel.MustMoney(profitPaise),
		ProfitMarginPct: marginPct,
	}, nil
}
