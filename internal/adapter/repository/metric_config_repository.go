package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/johnquangdev/speech-coach/internal/domain/entities"
	"github.com/johnquangdev/speech-coach/internal/domain/repositories"
)

// MetricConfigRepository reads and writes scoring metric rows
type MetricConfigRepository struct {
	db *gorm.DB
}

// NewMetricConfigRepository creates a new metric config repository
func NewMetricConfigRepository(db *gorm.DB) repositories.MetricConfigRepository {
	return &MetricConfigRepository{db: db}
}

// ListMetricConfigs returns the active rows ordered by name
func (r *MetricConfigRepository) ListMetricConfigs(ctx context.Context) ([]entities.MetricConfig, error) {
	var rows []entities.MetricConfig
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetByName retrieves a row by name, nil when it does not exist
func (r *MetricConfigRepository) GetByName(ctx context.Context, name string) (*entities.MetricConfig, error) {
	var row entities.MetricConfig
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// Upsert creates the row or updates the existing one with the same name
func (r *MetricConfigRepository) Upsert(ctx context.Context, cfg *entities.MetricConfig) error {
	if cfg == nil {
		return errors.New("metric config cannot be nil")
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"weight", "min_value", "max_value", "settings", "is_active", "updated_at"}),
	}).Create(cfg).Error
}

// DefaultMetricConfigs converts a metric set into rows in the stored format,
// with fractional weights
func DefaultMetricConfigs(set entities.MetricSet) []entities.MetricConfig {
	rows := make([]entities.MetricConfig, 0, entities.MetricCount)
	for _, def := range set.Definitions() {
		minValue, maxValue := def.Thresholds.Min, def.Thresholds.Max
		settings := map[string]interface{}{"ideal": def.Thresholds.Ideal}
		if def.Method != "" {
			settings["method"] = string(def.Method)
		}
		rows = append(rows, entities.MetricConfig{
			Name:     def.ID.Key(),
			Weight:   def.Weight / 100,
			MinValue: &minValue,
			MaxValue: &maxValue,
			Settings: settings,
			IsActive: true,
		})
	}
	return rows
}
