package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/Nati35/NEMO/internal/jobs"
	"github.com/Nati35/NEMO/internal/metrics"
	"github.com/Nati35/NEMO/internal/web"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the review API server. Sources are synced periodically in the
background unless sync.enabled is false. Study sessions idle for longer
than server.session_ttl are dropped.

Examples:
  nemo serve --server.port=9000
  NEMO_DATABASE_DRIVER=postgres NEMO_DATABASE_DSN=postgres://... nemo serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	syncer := a.syncer(m)

	srv := web.NewServer(web.Deps{
		Store:    a.store,
		Engine:   a.engine(m),
		Syncer:   syncer,
		Metrics:  m.Handler(),
		Location: a.cfg.Study.Location(),
		Logger:   a.logger.Named("web"),
	})

	scheduler := jobs.New(a.logger.Named("jobs"))
	ttl := a.cfg.Server.SessionTTL
	if err := scheduler.ScheduleSessionSweep(max(ttl/4, time.Second), ttl, srv); err != nil {
		return err
	}
	if a.cfg.Sync.Enabled {
		if err := scheduler.ScheduleSync(ctx, a.cfg.Sync.Interval, syncer); err != nil {
			return err
		}
	}
	scheduler.Start()
	defer scheduler.Stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(a.cfg.Server.Addr()) }()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down", zap.Duration("timeout", a.cfg.Server.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
