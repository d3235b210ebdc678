package cmd

import (
	"fmt"
	"io"
	"os"
	"sync"

	"cobweb/internal/issuestorage/filesystem"
	"cobweb/internal/logger"

	"github.com/spf13/cobra"
)

// AppProvider lazily initializes the App on first use.
type AppProvider struct {
	once sync.Once
	app  *App
	err  error

	// Config captured from flags before Execute()
	Path      string
	LogLevel  string
	LogFormat string
	In        io.Reader
	Out       io.Writer
	Err       io.Writer
}

// Get returns the App, initializing it on first call.
func (p *AppProvider) Get() (*App, error) {
	p.once.Do(func() {
		if p.app == nil {
			p.app, p.err = p.init()
		}
	})
	return p.app, p.err
}

// NewTestProvider creates a provider pre-initialized with the given App.
// Used for testing commands with a test App.
func NewTestProvider(app *App) *AppProvider {
	return &AppProvider{
		app: app,
		In:  app.In,
		Out: app.Out,
		Err: app.Err,
	}
}

// startDir returns the directory repository discovery starts from.
func (p *AppProvider) startDir() (string, error) {
	if p.Path != "" {
		return p.Path, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("cannot get current directory: %w", err)
	}
	return cwd, nil
}

func (p *AppProvider) logger() (logger.Logger, error) {
	errOut := p.Err
	if errOut == nil {
		errOut = os.Stderr
	}
	level := p.LogLevel
	if level == "" {
		level = "warn"
	}
	format := p.LogFormat
	if format == "" {
		format = "text"
	}
	return logger.New(logger.WithLevel(level), logger.WithFormat(format), logger.WithOutput(errOut))
}

func (p *AppProvider) init() (*App, error) {
	log, err := p.logger()
	if err != nil {
		return nil, err
	}
	start, err := p.startDir()
	if err != nil {
		return nil, err
	}

	store, err := filesystem.FindFromPath(start, filesystem.WithLogger(log))
	if err != nil {
		return nil, err
	}

	in := p.In
	if in == nil {
		in = os.Stdin
	}
	out := p.Out
	if out == nil {
		out = os.Stdout
	}
	errOut := p.Err
	if errOut == nil {
		errOut = os.Stderr
	}

	return &App{
		Storage: store,
		Config:  store.Config(),
		Log:     log,
		In:      in,
		Out:     out,
		Err:     errOut,
		Getenv:  os.Getenv,
	}, nil
}

// Execute runs the CLI.
func Execute() error {
	provider := &AppProvider{
		In:  os.Stdin,
		Out: os.Stdout,
		Err: os.Stderr,
	}

	rootCmd := newRootCmd(provider)
	return rootCmd.Execute()
}

// newRootCmd creates the root command with all subcommands.
func newRootCmd(provider *AppProvider) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cobweb",
		Short: "A small issue tracker that lives in your repository",
		Long: `Cobweb keeps issues next to your code. Every issue is a JSON record in
.cobweb/issues/, named after its hash, so issues can be reviewed, diffed and
committed like any other file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags - these populate the provider config
	rootCmd.PersistentFlags().StringVar(&provider.Path, "path", "", "Directory to start the repository search from (default: cwd)")
	rootCmd.PersistentFlags().StringVar(&provider.LogLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&provider.LogFormat, "log-format", "text", "Log format (text, json)")

	rootCmd.AddCommand(newInitCmd(provider))
	rootCmd.AddCommand(newListCmd(provider))
	rootCmd.AddCommand(newOpenCmd(provider))
	rootCmd.AddCommand(newEditCmd(provider))
	rootCmd.AddCommand(newCloseCmd(provider))
	rootCmd.AddCommand(newRemoveCmd(provider))
	rootCmd.AddCommand(newConfigCmd(provider))

	return rootCmd
}
