package repositories

import (
	"context"

	"github.com/johnquangdev/speech-coach/internal/domain/entities"
)

// MetricConfigRepository defines persistence operations for scoring metric rows
type MetricConfigRepository interface {
	// ListMetricConfigs returns the active rows
	ListMetricConfigs(ctx context.Context) ([]entities.MetricConfig, error)
	GetByName(ctx context.Context, name string) (*entities.MetricConfig, error)
	// Upsert creates or updates a row by name
	Upsert(ctx context.Context, cfg *entities.MetricConfig) error
}
