package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"story_sync/internal/mapping"
	"story_sync/internal/provision"
)

func newColumnsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "columns <METADATA_TOKEN>",
		Short: "Add the columns the sync needs to the stories table",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := tokenArg(cmd, args)
			if err != nil {
				return err
			}
			if err := a.cfg.ValidateMetadata(); err != nil {
				return err
			}

			ctx, cancel := a.signalContext()
			defer cancel()

			p := provision.New(a.metaClient(token), a.cfg.Xano.WorkspaceID, a.cfg.Xano.Table, a.logger)
			r, err := p.AddColumns(ctx, provision.StoryColumns())
			if err != nil {
				return err
			}

			a.printer.Columns(r)
			return r.Err()
		},
	}
}

func newTriggersCommand(a *app) *cobra.Command {
	var printOnly bool

	cmd := &cobra.Command{
		Use:   "triggers <METADATA_TOKEN>",
		Short: "Register the insert and update triggers that push stories to the CMS",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := mapping.DefaultTriggerParams()
			params.APIBaseURL = a.cfg.Webflow.BaseURL
			params.Table = a.cfg.Xano.Table

			script, err := mapping.RenderTrigger(params)
			if err != nil {
				return err
			}
			if printOnly {
				fmt.Fprintln(cmd.OutOrStdout(), script)
				return nil
			}

			token, err := tokenArg(cmd, args)
			if err != nil {
				return err
			}
			if err := a.cfg.ValidateMetadata(); err != nil {
				return err
			}

			ctx, cancel := a.signalContext()
			defer cancel()

			p := provision.New(a.metaClient(token), a.cfg.Xano.WorkspaceID, a.cfg.Xano.Table, a.logger)
			r, err := p.DeployTriggers(ctx, provision.StoryTriggers(script))
			if err != nil {
				return err
			}

			a.printer.Triggers(r)
			return r.Err()
		},
	}

	cmd.Flags().BoolVar(&printOnly, "print", false, "print the trigger script instead of deploying it")
	return cmd
}
