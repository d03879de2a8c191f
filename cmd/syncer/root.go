package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"story_sync/internal/config"
	"story_sync/internal/report"
)

var errMissingToken = errors.New("metadata API token is required")

// app carries what every subcommand needs once flags are parsed.
type app struct {
	configPath string
	cfg        *config.Config
	logger     *slog.Logger
	printer    *report.Printer
}

func newRootCommand() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "syncer",
		Short: "Synchronize stories from Xano to the Webflow CMS",
		Long: `syncer pushes unsynced story records from a Xano table to a Webflow
collection, links each record to its CMS item, and provisions the Xano
columns and triggers the integration relies on.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "config.yaml", "path to config file")

	cmd.AddCommand(
		newSyncCommand(a),
		newWatchCommand(a),
		newItemsCommand(a),
		newColumnsCommand(a),
		newTriggersCommand(a),
		newRunsCommand(a),
	)

	return cmd
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = setupLogger(cfg.LogLevel)
	a.printer = report.New(os.Stdout)
	return nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func (a *app) signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		select {
		case sig := <-sigCh:
			a.logger.Info("received shutdown signal", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// tokenArg returns the positional metadata token or prints usage.
func tokenArg(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "" {
		_ = cmd.Usage()
		return "", errMissingToken
	}
	return args[0], nil
}
