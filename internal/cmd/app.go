// Package cmd implements the cobweb command-line interface.
package cmd

import (
	"io"
	"os"

	"cobweb/internal/config"
	"cobweb/internal/issueservice"
	"cobweb/internal/issuestorage"
	"cobweb/internal/logger"

	"golang.org/x/term"
)

// Repository is the storage the commands work against.
type Repository interface {
	issuestorage.Store
	Config() config.Config
	ConfigStore() config.Store
	MetaDir() string
}

// App holds application state shared across commands.
type App struct {
	Storage Repository
	Config  config.Config
	Log     logger.Logger
	In      io.Reader
	Out     io.Writer
	Err     io.Writer
	// Getenv looks up environment variables; tests replace it.
	Getenv func(string) string
}

// LoadIssues reads every issue of the repository into a fresh handler.
func (a *App) LoadIssues() (*issueservice.Handler, error) {
	h := issueservice.New(issueservice.WithLogger(a.logger()))
	if err := h.ReadIssues(a.Storage); err != nil {
		return nil, err
	}
	return h, nil
}

func (a *App) logger() logger.Logger {
	if a.Log == nil {
		return logger.NewNop()
	}
	return a.Log
}

func (a *App) getenv(key string) string {
	if a.Getenv == nil {
		return os.Getenv(key)
	}
	return a.Getenv(key)
}

// isTerminal reports whether w is a terminal.
func isTerminal(w interface{}) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// palette paints text with ANSI styles, or not at all when output is not
// a terminal.
type palette struct {
	enabled bool
}

func (a *App) palette() palette {
	return palette{enabled: isTerminal(a.Out)}
}

const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
)

func (p palette) paint(code, s string) string {
	if !p.enabled {
		return s
	}
	return code + s + ansiReset
}

func (p palette) bold(s string) string   { return p.paint(ansiBold, s) }
func (p palette) green(s string) string  { return p.paint(ansiGreen, s) }
func (p palette) yellow(s string) string { return p.paint(ansiYellow, s) }
func (p palette) red(s string) string    { return p.paint(ansiRed, s) }
