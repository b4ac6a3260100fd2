package scoring

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/johnquangdev/speech-coach/internal/domain/entities"
)

// DefaultConfigTTL is how long a fetched metric set is served before a refresh
const DefaultConfigTTL = 60 * time.Second

// DefaultRefreshTimeout bounds a single fetch from the source
const DefaultRefreshTimeout = 5 * time.Second

// MetricConfigSource loads the externally stored metric rows
type MetricConfigSource interface {
	ListMetricConfigs(ctx context.Context) ([]entities.MetricConfig, error)
}

type configSnapshot struct {
	set       entities.MetricSet
	fetchedAt time.Time
	fallback  bool
}

// ConfigManager serves metric definitions from an in-process snapshot,
// refreshing it from the source once the snapshot is older than the TTL.
// Readers never observe a partially updated set.
type ConfigManager struct {
	source  MetricConfigSource
	clock   clock.Clock
	ttl     time.Duration
	timeout time.Duration
	logger  *zap.Logger

	snapshot atomic.Pointer[configSnapshot]
	group    singleflight.Group
}

// ConfigOption customizes a ConfigManager
type ConfigOption func(*ConfigManager)

// WithClock replaces the wall clock, mainly for tests
func WithClock(c clock.Clock) ConfigOption {
	return func(m *ConfigManager) { m.clock = c }
}

// WithTTL sets the cache lifetime
func WithTTL(ttl time.Duration) ConfigOption {
	return func(m *ConfigManager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithRefreshTimeout bounds each fetch from the source
func WithRefreshTimeout(d time.Duration) ConfigOption {
	return func(m *ConfigManager) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// WithConfigLogger sets the logger
func WithConfigLogger(l *zap.Logger) ConfigOption {
	return func(m *ConfigManager) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewConfigManager creates a manager. A nil source always yields defaults.
func NewConfigManager(source MetricConfigSource, opts ...ConfigOption) *ConfigManager {
	m := &ConfigManager{
		source:  source,
		clock:   clock.New(),
		ttl:     DefaultConfigTTL,
		timeout: DefaultRefreshTimeout,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Config returns the cached set without touching the source, or the
// defaults when nothing has been loaded yet.
func (m *ConfigManager) Config() entities.MetricSet {
	if s := m.snapshot.Load(); s != nil {
		return s.set
	}
	return entities.DefaultMetricSet()
}

// ConfigFresh returns the cached set while it is younger than the TTL and
// refreshes it otherwise. Concurrent callers share a single fetch, which runs
// detached from any one caller's cancellation and is bounded by the refresh
// timeout. A caller whose ctx ends first gets the current set and leaves the
// shared snapshot alone. It never fails: on source errors the last good set,
// or the defaults, is served.
func (m *ConfigManager) ConfigFresh(ctx context.Context) entities.MetricSet {
	if s := m.snapshot.Load(); s != nil && m.clock.Since(s.fetchedAt) < m.ttl {
		return s.set
	}

	fetchCtx := context.WithoutCancel(ctx)
	ch := m.group.DoChan("metric-config", func() (interface{}, error) {
		// another caller may have refreshed while we waited
		if s := m.snapshot.Load(); s != nil && m.clock.Since(s.fetchedAt) < m.ttl {
			return s.set, nil
		}
		rctx, cancel := context.WithTimeout(fetchCtx, m.timeout)
		defer cancel()
		return m.refresh(rctx), nil
	})

	select {
	case res := <-ch:
		return res.Val.(entities.MetricSet)
	case <-ctx.Done():
		return m.Config()
	}
}

// LastRefresh reports when the current snapshot was taken and whether it
// is the built-in fallback
func (m *ConfigManager) LastRefresh() (time.Time, bool) {
	s := m.snapshot.Load()
	if s == nil {
		return time.Time{}, true
	}
	return s.fetchedAt, s.fallback
}

func (m *ConfigManager) refresh(ctx context.Context) entities.MetricSet {
	now := m.clock.Now()
	if m.source == nil {
		return m.store(entities.DefaultMetricSet(), now, true)
	}

	rows, err := m.source.ListMetricConfigs(ctx)
	if err != nil {
		if prev := m.snapshot.Load(); prev != nil && !prev.fallback {
			m.logger.Warn("⚠️ Metric config refresh failed, keeping previous set",
				zap.Error(err),
				zap.Time("previous_fetch", prev.fetchedAt),
			)
			return m.store(prev.set, now, false)
		}
		m.logger.Warn("⚠️ Metric config unavailable, using defaults", zap.Error(err))
		return m.store(entities.DefaultMetricSet(), now, true)
	}

	set, unknown := entities.MergeMetricConfigs(rows)
	if len(unknown) > 0 {
		m.logger.Warn("⚠️ Ignoring unknown metric config rows", zap.Strings("names", unknown))
	}
	m.logger.Debug("Metric config refreshed",
		zap.Int("rows", len(rows)),
		zap.Float64("total_weight", set.TotalWeight()),
		zap.String("speech_rate_method", string(set.SpeechRateMethod())),
	)
	return m.store(set, now, false)
}

func (m *ConfigManager) store(set entities.MetricSet, at time.Time, fallback bool) entities.MetricSet {
	m.snapshot.Store(&configSnapshot{set: set, fetchedAt: at, fallback: fallback})
	return set
}
