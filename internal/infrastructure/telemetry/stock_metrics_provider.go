package telemetry

import (
	"context"

	"gorm.io/gorm"
)

// GormStockMetricsProvider reads stock and alert gauges straight from the database.
type GormStockMetricsProvider struct {
	db *gorm.DB
}

// NewGormStockMetricsProvider creates a new GormStockMetricsProvider.
func NewGormStockMetricsProvider(db *gorm.DB) *GormStockMetricsProvider {
	return &GormStockMetricsProvider{db: db}
}

// LowStockRecordCount counts inventory records with a reorder point that are at or below it.
func (p *GormStockMetricsProvider) LowStockRecordCount(ctx context.Context) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("inventory_records").
		Where("reorder_point IS NOT NULL AND reorder_point > 0 AND quantity_on_hand <= reorder_point").
		Count(&count).Error
	return count, err
}

// ActiveAlertCount counts alerts in the active state.
func (p *GormStockMetricsProvider) ActiveAlertCount(ctx context.Context) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("alerts").
		Where("status = ?", "active").
		Count(&count).Error
	return count, err
}
