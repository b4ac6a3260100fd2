package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/johnquangdev/speech-coach/internal/domain/entities"
	"github.com/johnquangdev/speech-coach/internal/infrastructure/cache"
)

type stubLister struct {
	rows  []entities.MetricConfig
	err   error
	calls int
}

func (s *stubLister) ListMetricConfigs(ctx context.Context) ([]entities.MetricConfig, error) {
	s.calls++
	return s.rows, s.err
}

type brokenStore struct{}

func (brokenStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("redis down")
}
func (brokenStore) Set(context.Context, string, string, time.Duration) error {
	return errors.New("redis down")
}
func (brokenStore) Delete(context.Context, string) error { return errors.New("redis down") }

func TestCachedMetricConfigSource_CachesRows(t *testing.T) {
	mock := clock.NewMock()
	store := cache.NewMemoryStore(mock)
	defer store.Close()

	next := &stubLister{rows: DefaultMetricConfigs(entities.DefaultMetricSet())}
	src := NewCachedMetricConfigSource(next, store, time.Minute, nil)
	ctx := context.Background()

	first, err := src.ListMetricConfigs(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := src.ListMetricConfigs(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.calls != 1 {
		t.Fatalf("expected one database read, got %d", next.calls)
	}
	if len(second) != len(first) || second[1].Name != first[1].Name {
		t.Fatalf("cached rows differ: %+v vs %+v", second, first)
	}

	// cached rows must still merge into the same set
	set, unknown := entities.MergeMetricConfigs(second)
	if len(unknown) != 0 || set != entities.DefaultMetricSet() {
		t.Fatalf("round-tripped rows should reproduce the defaults, unknown=%v", unknown)
	}

	mock.Add(time.Minute)
	if _, err := src.ListMetricConfigs(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.calls != 2 {
		t.Fatalf("expected reload after expiry, got %d reads", next.calls)
	}
}

func TestCachedMetricConfigSource_Invalidate(t *testing.T) {
	store := cache.NewMemoryStore(clock.NewMock())
	defer store.Close()
	next := &stubLister{}
	src := NewCachedMetricConfigSource(next, store, time.Hour, nil)
	ctx := context.Background()

	_, _ = src.ListMetricConfigs(ctx)
	if err := src.Invalidate(ctx); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	_, _ = src.ListMetricConfigs(ctx)
	if next.calls != 2 {
		t.Fatalf("expected reload after invalidate, got %d", next.calls)
	}
}

func TestCachedMetricConfigSource_StoreFailureFallsThrough(t *testing.T) {
	next := &stubLister{rows: []entities.MetricConfig{{Name: "volume", Weight: 0.3}}}
	src := NewCachedMetricConfigSource(next, brokenStore{}, time.Minute, nil)

	rows, err := src.ListMetricConfigs(context.Background())
	if err != nil || len(rows) != 1 {
		t.Fatalf("expected database rows despite cache failure, got %v/%v", rows, err)
	}
}

func TestCachedMetricConfigSource_DatabaseError(t *testing.T) {
	store := cache.NewMemoryStore(clock.NewMock())
	defer store.Close()
	next := &stubLister{err: errors.New("connection refused")}
	src := NewCachedMetricConfigSource(next, store, time.Minute, nil)

	if _, err := src.ListMetricConfigs(context.Background()); err == nil {
		t.Fatalf("expected database error to surface")
	}
	if store.Len() != 0 {
		t.Fatalf("failures must not be cached")
	}
}

func TestDefaultMetricConfigs(t *testing.T) {
	rows := DefaultMetricConfigs(entities.DefaultMetricSet())
	if len(rows) != entities.MetricCount {
		t.Fatalf("expected %d rows, got %d", entities.MetricCount, len(rows))
	}
	for _, r := range rows {
		if r.Weight > 1 {
			t.Errorf("%s: weight should be stored as a fraction, got %v", r.Name, r.Weight)
		}
	}
	if m, ok := rows[entities.MetricSpeechRate].Method(); !ok || m != string(entities.MethodEnergyPeaks) {
		t.Fatalf("speech rate row should carry its method, got %q", m)
	}
}
