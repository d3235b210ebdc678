package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newCloseCmd creates the close command.
func newCloseCmd(provider *AppProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "close <hash>",
		Short: "Close an existing issue",
		Long: `Close an issue: its status becomes Closed and its progress 100%.

The hash may be abbreviated to any unique prefix.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}
			handler, err := app.LoadIssues()
			if err != nil {
				return err
			}

			stored, err := resolveIssue(handler, args[0])
			if err != nil {
				return err
			}
			i := stored.Clone()
			i.Close()

			handler.Insert(i)
			if err := handler.WriteIssues(app.Storage); err != nil {
				return err
			}

			fmt.Fprintf(app.Out, "%s %s\n", app.palette().green("Closed"), i.Hash())
			return nil
		},
	}

	return cmd
}
