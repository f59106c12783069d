// Package cli implements the takeoff commands using Cobra.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/tsawler/takeoff/config"
	"github.com/tsawler/takeoff/llm"
)

// app is the state shared by all commands.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	verbose    bool

	cfg    *config.Config
	logger *log.Logger
}

// NewRootCommand builds the command tree writing to the given streams.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "takeoff",
		Short: "takeoff measures floor plans from vector drawing pages",
		Long: `takeoff reads decoded drawing pages (JSON or YAML page files) and
measures gross area, perimeter, wall lengths and rooms.

Usage:
  takeoff measure <page-file> [flags]`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default: $TAKEOFF_CONFIG, ./takeoff.yaml, ~/.config/takeoff/config.yaml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log pipeline decisions to stderr")

	root.AddCommand(
		a.measureCommand(),
		a.scaleCommand(),
		a.roomsCommand(),
		a.renderCommand(),
		a.historyCommand(),
	)
	return root
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCommand(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// setup loads the configuration and the logger before any command runs.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	var (
		cfg  *config.Config
		path string
		err  error
	)
	if a.configPath != "" {
		cfg, path, err = config.LoadFromPath(a.configPath)
	} else {
		cfg, path, err = config.Load()
	}
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.logger = log.New(io.Discard, "", 0)
	if a.verbose {
		a.logger = log.New(a.stderr, "takeoff: ", log.LstdFlags)
	}
	if path != "" {
		a.logger.Printf("Using config %s", path)
	}
	return nil
}

// client creates the model client, explaining a missing key.
func (a *app) client() (*llm.Client, error) {
	c, err := llm.NewClient(a.cfg.Client(), llm.WithLogger(a.logger))
	if errors.Is(err, llm.ErrNoAPIKey) {
		return nil, fmt.Errorf("model features need an API key: set %s or llm.api_key", config.EnvAPIKey)
	}
	return c, err
}
