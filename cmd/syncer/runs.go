package main

import (
	"errors"

	"github.com/spf13/cobra"

	"story_sync/internal/storage/postgres"
)

func newRunsCommand(a *app) *cobra.Command {
	var (
		limit int
		runID string
	)

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show recent sync passes from the run ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.cfg.Database.Enabled() {
				return errors.New("run ledger database is not configured")
			}

			ctx, cancel := a.signalContext()
			defer cancel()

			db, err := a.openDB(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			store := postgres.NewRunStore(db)
			if runID != "" {
				results, err := store.Results(ctx, runID)
				if err != nil {
					return err
				}
				a.printer.RunResults(runID, results)
				return nil
			}

			runs, err := store.ListRuns(ctx, limit)
			if err != nil {
				return err
			}

			a.printer.Runs(runs)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "number of runs to show")
	cmd.Flags().StringVar(&runID, "run", "", "show per-story results of one run")
	return cmd
}
