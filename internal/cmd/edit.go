package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newEditCmd creates the edit command.
func newEditCmd(provider *AppProvider) *cobra.Command {
	opts := newFieldOptions()
	var (
		title     string
		noParent  bool
		unassign  bool
		noDueDate bool
	)

	cmd := &cobra.Command{
		Use:   "edit <hash>",
		Short: "Edit an existing issue",
		Long: `Edit fields of an existing issue. Only the given flags change the issue.

The hash may be abbreviated to any unique prefix.

Examples:
  cobweb edit 3f2a --status inprogress --progress 30
  cobweb edit 3f2a --title "Crash on empty config file"
  cobweb edit 3f2a -D                  # edit the description in $EDITOR
  cobweb edit 3f2a --no-parent --unassign`,
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

			if cmd.Flags().Changed("title") {
				if err := i.SetTitle(title); err != nil {
					return err
				}
			}
			if noParent {
				i.ClearParent()
			}
			if unassign {
				i.ClearAssignedTo()
			}
			if noDueDate {
				i.ClearDueDate()
			}
			if err := opts.apply(cmd.Context(), app, handler, i); err != nil {
				return err
			}

			handler.Insert(i)
			if err := handler.WriteIssues(app.Storage); err != nil {
				return err
			}

			fmt.Fprintf(app.Out, "Updated %s\n", i.Hash())
			return nil
		},
	}

	opts.register(cmd.Flags())
	cmd.Flags().StringVarP(&title, "title", "T", "", "Set issue title")
	cmd.Flags().BoolVar(&noParent, "no-parent", false, "Remove the parent link")
	cmd.Flags().BoolVar(&unassign, "unassign", false, "Remove the assignee")
	cmd.Flags().BoolVar(&noDueDate, "no-due-date", false, "Remove the due date")
	cmd.MarkFlagsMutuallyExclusive("parent", "no-parent")
	cmd.MarkFlagsMutuallyExclusive("assigned", "unassign")
	cmd.MarkFlagsMutuallyExclusive("due-date", "no-due-date")

	return cmd
}
