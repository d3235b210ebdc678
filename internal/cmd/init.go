package cmd

import (
	"fmt"
	"io"
	"os"

	"cobweb/internal/issuestorage/filesystem"

	"github.com/spf13/cobra"
)

// newInitCmd creates the init command.
// Note: init doesn't use the provider's App since it creates the .cobweb directory.
func newInitCmd(provider *AppProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new cobweb repository",
		Long: `Initialize a new cobweb repository in the current directory (or --path).

Creates .cobweb/ with an empty issues/ directory and a default config.yaml.
Fails if the directory already holds a .cobweb directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := provider.Out
			if out == nil {
				out = os.Stdout
			}
			dir, err := provider.startDir()
			if err != nil {
				return err
			}
			return runInit(out, dir)
		},
	}

	return cmd
}

func runInit(out io.Writer, dir string) error {
	store, err := filesystem.Init(dir)
	if err != nil {
		return fmt.Errorf("initializing issue tracker: %w", err)
	}
	fmt.Fprintf(out, "Initialized empty cobweb repository in %s\n", store.MetaDir())
	return nil
}
