package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newRemoveCmd creates the remove command.
func newRemoveCmd(provider *AppProvider) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "remove <hash>",
		Short: "Remove an issue and all issues below it",
		Long: `Remove an issue together with every issue that has it as an ancestor.

The issues to be removed are listed and confirmed first, unless --force is
given. Children are removed before their parents, so an interrupted removal
never leaves a child pointing at a removed parent.

Examples:
  cobweb remove 3f2a
  cobweb remove 3f2a --force`,
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

			target, err := resolveIssue(handler, args[0])
			if err != nil {
				return err
			}
			closure, err := handler.FindDependentIssues(target.Hash())
			if err != nil {
				return err
			}

			p := app.palette()
			fmt.Fprintf(app.Out, "Following %s about to be deleted:\n",
				plural(len(closure), "issue is", "issues are"))
			for _, h := range closure {
				i, _ := handler.Issue(h)
				renderShort(app.Out, p, i)
			}

			if !force {
				ok, err := app.confirm()
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(app.Out, "Aborted")
					return nil
				}
			}

			removed, err := handler.RemoveWithDependents(app.Storage, target.Hash())
			if err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Removed %d %s\n", len(removed), plural(len(removed), "issue", "issues"))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation")

	return cmd
}
