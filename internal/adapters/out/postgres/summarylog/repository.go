// Package summarylog persists the record of produced daily summaries.
// One row per shop and calendar date keeps the batch idempotent across
// restarts.
package summarylog

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SummaryLogDTO represents one produced summary.
type SummaryLogDTO struct {
	ShopID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Date   time.Time `gorm:"primaryKey"`
	SentAt time.Time `gorm:"not null"`
}

// TableName specifies the database table name for summary log entries.
func (SummaryLogDTO) TableName() string {
	return "summary_log"
}

// GormSummaryLog implements SummaryLog using GORM.
type GormSummaryLog struct {
	db *gorm.DB
}

// NewGormSummaryLog creates a new GORM summary log.
func NewGormSummaryLog(db *gorm.DB) *GormSummaryLog {
	return &GormSummaryLog{db: db}
}

// AlreadySent reports whether the summary for the shop and date was
// produced before.
func (l *GormSummaryLog) AlreadySent(ctx context.Context, shopID kernel.UUID, date time.Time) (bool, error) {
	var count int64
	err := l.db.WithContext(ctx).
		Model(&SummaryLogDTO{}).
		Where("shop_id = ? AND date = ?", shopID.Bytes(), date.UTC()).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// MarkSent records the summary as produced.
func (l *GormSummaryLog) MarkSent(ctx context.Context, shopID kernel.UUID, date time.Time) error {
	dto := SummaryLogDTO{
		ShopID: shopID.Bytes(),
		Date:   date.UTC(),
		SentAt: time.Now().UTC(),
	}
	return l.db.WithContext(ctx).Create(&dto).Error
}
