package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/johnquangdev/speech-coach/internal/adapter/repository"
	"github.com/johnquangdev/speech-coach/internal/domain/entities"
	"github.com/johnquangdev/speech-coach/internal/domain/repositories"
	"github.com/johnquangdev/speech-coach/internal/infrastructure/cache"
	"github.com/johnquangdev/speech-coach/internal/infrastructure/database"
	"github.com/johnquangdev/speech-coach/internal/usecase/scoring"
	"github.com/johnquangdev/speech-coach/pkg/config"
)

func openDatabase(logger *zap.Logger) (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	db, err := database.NewPostgresDB(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

func newMigrateCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded SQL migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := root.logger()
			_, db, err := openDatabase(logger)
			if err != nil {
				return err
			}
			defer database.CloseDB(db)

			n, err := database.AutoMigrate(db, logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Successfully applied %d migration(s)\n", n)
			return nil
		},
	}
}

func newSeedCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Upsert the default metric rows and drop the shared cache entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := root.logger()
			cfg, db, err := openDatabase(logger)
			if err != nil {
				return err
			}
			defer database.CloseDB(db)

			store, closeStore, err := cache.NewStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			repo := repository.NewMetricConfigRepository(db)
			shared := repository.NewCachedMetricConfigSource(repo, store, cfg.Scoring.SharedCacheTTL, logger)
			n, err := seedMetricConfigs(ctx, repo, shared)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Seeded %d metric definition(s)\n", n)
			return nil
		},
	}
}

// seedMetricConfigs upserts the default rows, then invalidates the shared
// snapshot so replicas pick the rows up on their next refresh
func seedMetricConfigs(ctx context.Context, repo repositories.MetricConfigRepository, shared *repository.CachedMetricConfigSource) (int, error) {
	rows := repository.DefaultMetricConfigs(entities.DefaultMetricSet())
	for i := range rows {
		if err := repo.Upsert(ctx, &rows[i]); err != nil {
			return 0, fmt.Errorf("seed %s: %w", rows[i].Name, err)
		}
	}
	if err := shared.Invalidate(ctx); err != nil {
		return len(rows), fmt.Errorf("invalidate metric config cache: %w", err)
	}
	return len(rows), nil
}

func newConfigCmd(root *rootOptions) *cobra.Command {
	var metric string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective metric definitions, or one stored row, as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := root.logger()
			_, db, err := openDatabase(logger)
			if err != nil {
				return err
			}
			defer database.CloseDB(db)

			repo := repository.NewMetricConfigRepository(db)
			if metric != "" {
				return writeMetricRow(cmd.Context(), cmd.OutOrStdout(), repo, metric)
			}

			configs := scoring.NewConfigManager(repo, scoring.WithConfigLogger(logger))
			return writeDefinitions(cmd, configs.ConfigFresh(cmd.Context()))
		},
	}
	cmd.Flags().StringVar(&metric, "metric", "", "print the stored row for one metric")
	return cmd
}

func writeDefinitions(cmd *cobra.Command, set entities.MetricSet) error {
	return writeYAML(cmd.OutOrStdout(), map[string]interface{}{"definitions": set.Definitions()})
}

// writeMetricRow looks the row up by the given name, then by the metric's
// canonical key
func writeMetricRow(ctx context.Context, w io.Writer, repo repositories.MetricConfigRepository, name string) error {
	id, err := entities.ParseMetricID(name)
	if err != nil {
		return err
	}

	row, err := repo.GetByName(ctx, name)
	if err == nil && row == nil && name != id.Key() {
		row, err = repo.GetByName(ctx, id.Key())
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", name, err)
	}
	if row == nil {
		fmt.Fprintf(w, "no stored row for %s, defaults apply\n", id.Key())
		return nil
	}

	out := map[string]interface{}{
		"name":      row.Name,
		"weight":    row.Weight,
		"is_active": row.IsActive,
	}
	if row.MinValue != nil {
		out["min_value"] = *row.MinValue
	}
	if row.MaxValue != nil {
		out["max_value"] = *row.MaxValue
	}
	if len(row.Settings) > 0 {
		out["settings"] = map[string]interface{}(row.Settings)
	}
	return writeYAML(w, out)
}

func writeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
