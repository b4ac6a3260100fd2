package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/johnquangdev/speech-coach/internal/adapter/repository"
	"github.com/johnquangdev/speech-coach/internal/domain/entities"
	"github.com/johnquangdev/speech-coach/internal/infrastructure/cache"
)

type memoryRepo struct {
	rows    map[string]entities.MetricConfig
	lookups []string
	err     error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{rows: map[string]entities.MetricConfig{}}
}

func (r *memoryRepo) ListMetricConfigs(ctx context.Context) ([]entities.MetricConfig, error) {
	out := make([]entities.MetricConfig, 0, len(r.rows))
	for _, row := range r.rows {
		out = append(out, row)
	}
	return out, nil
}

func (r *memoryRepo) GetByName(ctx context.Context, name string) (*entities.MetricConfig, error) {
	r.lookups = append(r.lookups, name)
	if r.err != nil {
		return nil, r.err
	}
	row, ok := r.rows[name]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (r *memoryRepo) Upsert(ctx context.Context, cfg *entities.MetricConfig) error {
	if r.err != nil {
		return r.err
	}
	r.rows[cfg.Name] = *cfg
	return nil
}

func TestSeedMetricConfigs_InvalidatesSharedCache(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	store := cache.NewMemoryStore(nil)
	defer store.Close()
	shared := repository.NewCachedMetricConfigSource(repo, store, time.Minute, nil)

	// a replica caches the empty table before the seed
	if _, err := shared.ListMetricConfigs(ctx); err != nil {
		t.Fatalf("list: %v", err)
	}
	if store.Len() != 1 {
		t.Fatalf("expected a cached entry, got %d", store.Len())
	}

	n, err := seedMetricConfigs(ctx, repo, shared)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if n != entities.MetricCount || len(repo.rows) != entities.MetricCount {
		t.Fatalf("expected %d rows, seeded %d, stored %d", entities.MetricCount, n, len(repo.rows))
	}
	if store.Len() != 0 {
		t.Fatal("seed should drop the shared cache entry")
	}

	rows, err := shared.ListMetricConfigs(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != entities.MetricCount {
		t.Fatalf("expected the seeded rows after invalidation, got %d", len(rows))
	}
}

func TestSeedMetricConfigs_UpsertError(t *testing.T) {
	repo := newMemoryRepo()
	repo.err = errors.New("connection refused")
	store := cache.NewMemoryStore(nil)
	defer store.Close()

	if _, err := seedMetricConfigs(context.Background(), repo, repository.NewCachedMetricConfigSource(repo, store, 0, nil)); err == nil {
		t.Fatal("expected the upsert error")
	}
}

func TestWriteMetricRow(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	for _, row := range repository.DefaultMetricConfigs(entities.DefaultMetricSet()) {
		repo.rows[row.Name] = row
	}

	var out bytes.Buffer
	if err := writeMetricRow(ctx, &out, repo, "pace"); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := strings.Join(repo.lookups, ","); got != "pace,speechRate" {
		t.Fatalf("expected alias then canonical lookup, got %s", got)
	}
	for _, want := range []string{"name: speechRate", "weight: 0.25", "method: energy_peaks"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("yaml missing %q:\n%s", want, out.String())
		}
	}
}

func TestWriteMetricRow_MissingAndInvalid(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer
	if err := writeMetricRow(ctx, &out, newMemoryRepo(), "volume"); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.Contains(out.String(), "defaults apply") {
		t.Fatalf("unexpected output %q", out.String())
	}

	if err := writeMetricRow(ctx, &out, newMemoryRepo(), "charisma"); err == nil {
		t.Fatal("expected an unknown metric error")
	}

	repo := newMemoryRepo()
	repo.err = errors.New("connection refused")
	if err := writeMetricRow(ctx, &out, repo, "volume"); err == nil {
		t.Fatal("expected the lookup error")
	}
}
