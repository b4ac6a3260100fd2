package repository

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/speech-coach/internal/domain/entities"
	"github.com/johnquangdev/speech-coach/internal/infrastructure/cache"
)

const metricConfigCacheKey = "scoring:metric_configs"

// MetricConfigLister is the read side of a metric config repository
type MetricConfigLister interface {
	ListMetricConfigs(ctx context.Context) ([]entities.MetricConfig, error)
}

// CachedMetricConfigSource puts a shared store in front of the database so
// replicas do not all query Postgres when their local snapshots expire.
// Store failures are logged and fall through to the database.
type CachedMetricConfigSource struct {
	next   MetricConfigLister
	store  cache.Store
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedMetricConfigSource creates a cached source
func NewCachedMetricConfigSource(next MetricConfigLister, store cache.Store, ttl time.Duration, logger *zap.Logger) *CachedMetricConfigSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedMetricConfigSource{next: next, store: store, ttl: ttl, logger: logger}
}

// ListMetricConfigs returns the cached rows, loading them on a miss
func (s *CachedMetricConfigSource) ListMetricConfigs(ctx context.Context) ([]entities.MetricConfig, error) {
	raw, ok, err := s.store.Get(ctx, metricConfigCacheKey)
	switch {
	case err != nil:
		s.logger.Warn("⚠️ Metric config cache read failed", zap.Error(err))
	case ok:
		var rows []entities.MetricConfig
		if err := json.Unmarshal([]byte(raw), &rows); err == nil {
			return rows, nil
		}
		s.logger.Warn("⚠️ Discarding unreadable metric config cache entry")
	}

	rows, err := s.next.ListMetricConfigs(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(rows)
	if err != nil {
		return rows, nil
	}
	if err := s.store.Set(ctx, metricConfigCacheKey, string(data), s.ttl); err != nil {
		s.logger.Warn("⚠️ Metric config cache write failed", zap.Error(err))
	}
	return rows, nil
}

// Invalidate drops the shared entry, typically after rows were edited
func (s *CachedMetricConfigSource) Invalidate(ctx context.Context) error {
	return s.store.Delete(ctx, metricConfigCacheKey)
}
