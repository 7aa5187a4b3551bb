// Package main implements the nemo CLI: the review API server and the
// deck maintenance commands.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/Nati35/NEMO/internal/config"
	"github.com/Nati35/NEMO/internal/logging"
	"github.com/Nati35/NEMO/internal/progress"
	"github.com/Nati35/NEMO/internal/storage"
	"github.com/Nati35/NEMO/internal/study"
	"github.com/Nati35/NEMO/internal/sync"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// configPath is the optional YAML config file
	configPath string
	// configFlags carries every config key as a flag
	configFlags = config.Flags()
	version     = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "nemo",
	Short: "Spaced-repetition flash card server",
	Long: `nemo schedules flash card reviews with an SM-2 style algorithm.
It serves review sessions over HTTP and imports decks from markdown and
spreadsheet files kept in local directories or git repositories.`,
	Version:       version,
	SilenceUsage:  true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "nemo.yaml", "config file (skipped if missing)")
	rootCmd.PersistentFlags().AddFlagSet(configFlags)
}

// app bundles what every command needs.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *storage.Store
}

func setup() (*app, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg, err := config.Load(configPath, configFlags)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	logger.Debug("database opened", zap.String("driver", cfg.Database.Driver))

	return &app{cfg: cfg, logger: logger, store: store}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("failed to close database", zap.Error(err))
	}
	_ = logging.Sync(a.logger)
}

func (a *app) engine(observer study.Observer) *study.Engine {
	selector := study.NewSelector(a.store, a.cfg.Study.SessionSize, a.cfg.Study.FallbackWhenEmpty)

	aggregator := progress.NewAggregator(a.cfg.Study.Location())
	aggregator.PointsPerReview = a.cfg.Progress.PointsPerReview
	aggregator.AwardOnForgot = a.cfg.Progress.AwardOnForgot

	return study.NewEngine(a.store, selector, aggregator,
		study.WithLogger(a.logger.Named("study")),
		study.WithObserver(observer),
	)
}

func (a *app) syncer(observer sync.Observer) *sync.Syncer {
	return sync.New(a.store, a.cfg.Sync.ReposDir,
		sync.WithLogger(a.logger.Named("sync")),
		sync.WithObserver(observer),
	)
}
