package cmd

import (
	"fmt"

	"cobweb/internal/config"
	"cobweb/internal/issue"

	"github.com/spf13/cobra"
)

// newOpenCmd creates the open command.
func newOpenCmd(provider *AppProvider) *cobra.Command {
	opts := newFieldOptions()

	cmd := &cobra.Command{
		Use:   "open <title>",
		Short: "Open a new issue",
		Long: `Open a new issue with the given title and print its hash.

The author defaults to the configured user, then $USER. Type, priority and
status default to Bug, Medium and Open; the start date defaults to now.

Examples:
  cobweb open "Crash on empty config"
  cobweb open "Add export" --type feature --priority high
  cobweb open "Write docs" --parent 3f2a --due-date "2024-06-01 12:00"
  cobweb open "Investigate leak" -D   # write the description in $EDITOR`,
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

			author := opts.author
			if author == "" {
				author = config.ResolveUser(app.Config, app.getenv)
			}
			i := issue.New(author, args[0])
			if err := i.Validate(); err != nil {
				return err
			}
			if err := opts.apply(cmd.Context(), app, handler, i); err != nil {
				return err
			}

			handler.Insert(i)
			if err := handler.WriteIssues(app.Storage); err != nil {
				return err
			}

			fmt.Fprintln(app.Out, i.Hash())
			return nil
		},
	}

	opts.register(cmd.Flags())
	return cmd
}
