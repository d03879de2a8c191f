package main

import (
	"github.com/spf13/cobra"

	"story_sync/internal/webflow"
)

func newItemsCommand(a *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "items",
		Short: "List the stories published in the CMS collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.cfg.ValidateWebflow(); err != nil {
				return err
			}

			ctx, cancel := a.signalContext()
			defer cancel()

			items, err := a.webflowClient().ListItems(ctx)
			if err != nil {
				return err
			}

			var views []webflow.StoryView
			if all {
				for i := range items {
					views = append(views, items[i].View())
				}
			} else {
				views = webflow.LiveViews(items)
			}

			a.printer.Items(views, len(items))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include draft and archived items")
	return cmd
}
