package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"story_sync/internal/metrics"
	"story_sync/internal/scheduler"
)

func newSyncCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Push every unsynced story to the CMS once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.cfg.ValidateSync(); err != nil {
				return err
			}

			ctx, cancel := a.signalContext()
			defer cancel()

			d, err := a.buildDeps(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if err := d.Close(); err != nil {
					a.logger.Warn("shutdown", "error", err)
				}
			}()

			stats, err := a.syncService(d, nil).Sync(ctx)
			if stats != nil {
				a.printer.SyncSummary(stats)
			}
			return err
		},
	}
}

func newWatchCommand(a *app) *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run a sync pass on a fixed interval until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.cfg.ValidateSync(); err != nil {
				return err
			}
			if err := a.cfg.ValidateSchedule(); err != nil {
				return err
			}
			if cmd.Flags().Changed("metrics-addr") {
				a.cfg.Metrics.Addr = metricsAddr
			}

			ctx, cancel := a.signalContext()
			defer cancel()

			d, err := a.buildDeps(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if err := d.Close(); err != nil {
					a.logger.Warn("shutdown", "error", err)
				}
			}()

			recorder := metrics.NewRecorder()
			if a.cfg.Metrics.Addr != "" {
				srv := metrics.NewServer(a.cfg.Metrics.Addr, recorder.Registry(), a.logger)
				if err := srv.Start(ctx); err != nil {
					return err
				}
			}

			if d.ledger != nil {
				last, err := d.ledger.LatestRun(ctx)
				if err != nil {
					a.logger.Warn("read last sync run", "error", err)
				} else if last != nil {
					a.logger.Info("last recorded sync run",
						"run_id", last.ID,
						"finished_at", last.FinishedAt,
						"synced", last.Synced,
						"failed", last.Failed,
					)
				}
			}

			a.logger.Info("starting story syncer",
				"interval", a.cfg.Sync.Interval,
				"collection", a.cfg.Webflow.CollectionID,
				"ledger", a.cfg.Database.Enabled(),
				"events", a.cfg.RabbitMQ.Enabled(),
			)

			sched := scheduler.NewScheduler(a.syncService(d, recorder), a.cfg.Sync.Interval, a.cfg.Sync.Timeout, a.logger)
			if err := sched.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "address for the /metrics and /healthz endpoints")
	return cmd
}
