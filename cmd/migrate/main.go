package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ogurasousui/health-office-scheduler/internal/platform/config"
	pg "github.com/ogurasousui/health-office-scheduler/internal/platform/db/postgres"
	"github.com/ogurasousui/health-office-scheduler/internal/platform/logger"
)

type options struct {
	configPath    string
	migrationsDir string
	seedsDir      string
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "migrate",
		Short:         "Manage the station scheduler database schema",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")
	cmd.PersistentFlags().StringVar(&opts.migrationsDir, "dir", "assets/migrations", "directory containing migration files")
	cmd.PersistentFlags().StringVar(&opts.seedsDir, "seeds-dir", "assets/seeds", "directory containing seed files")

	cmd.AddCommand(
		schemaCmd(opts, "up", "Apply pending migrations", (*pg.Migrator).Up),
		schemaCmd(opts, "down", "Revert all migrations", (*pg.Migrator).Down),
		schemaCmd(opts, "drop", "Drop every object in the database", (*pg.Migrator).Drop),
		versionCmd(opts),
		seedCmd(opts),
	)
	return cmd
}

func schemaCmd(opts *options, use, short string, action func(*pg.Migrator) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(opts, pg.NewMigrator, opts.migrationsDir, func(m *pg.Migrator, log *zap.Logger) error {
				if err := action(m); err != nil {
					return fmt.Errorf("migration %s failed: %w", use, err)
				}
				log.Info("migration completed", zap.String("action", use), zap.String("dir", opts.migrationsDir))
				return nil
			})
		},
	}
}

func versionCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the applied migration version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(opts, pg.NewMigrator, opts.migrationsDir, func(m *pg.Migrator, log *zap.Logger) error {
				version, dirty, applied, err := m.Version()
				if err != nil {
					return err
				}
				if !applied {
					log.Info("no migration applied")
					return nil
				}
				log.Info("migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
				return nil
			})
		},
	}
}

func seedCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load reference data (services, stations, employees)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(opts, pg.NewSeeder, opts.seedsDir, func(m *pg.Migrator, log *zap.Logger) error {
				if err := m.Up(); err != nil {
					return fmt.Errorf("seed failed: %w", err)
				}
				log.Info("seed completed", zap.String("dir", opts.seedsDir), zap.String("table", pg.SeedsTable))
				return nil
			})
		},
	}
}

func withMigrator(
	opts *options,
	build func(dir, dsn string) (*pg.Migrator, error),
	dir string,
	fn func(*pg.Migrator, *zap.Logger) error,
) error {
	cfg, err := config.Load(effectiveConfigPath(opts.configPath))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	m, err := build(dir, cfg.Database.DSN())
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("close migrator", zap.Error(err))
		}
	}()

	return fn(m, log)
}

func effectiveConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("CONFIG_PATH"); env != "" {
		return env
	}
	return "assets/local.yaml"
}
