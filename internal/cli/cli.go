// Package cli wires the vessel commands together with cobra.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vessel-build/vessel/internal/manifest"
)

// App represents the CLI application with all wired dependencies
type App struct {
	// Root command
	rootCmd *cobra.Command

	// Flags
	manifestPath string
	verbose      bool

	// Version information
	version string
	commit  string
	date    string
}

// New creates a new CLI application
func New() *App {
	app := &App{}
	app.setupRootCmd()
	return app
}

// Execute runs the CLI application
func (a *App) Execute() error {
	return a.rootCmd.Execute()
}

// SetVersion sets the version string for the version command
func (a *App) SetVersion(version, commit, date string) {
	a.version = version
	a.commit = commit
	a.date = date
}

// setupRootCmd configures the root Cobra command
func (a *App) setupRootCmd() {
	a.rootCmd = &cobra.Command{
		Use:   "vessel",
		Short: "Run project commands in reproducible containers",
		Long: `Vessel reads a vessel.yaml manifest describing container templates
and command aliases, provisions the containers on demand, and runs the
aliases inside them with the project directory mounted at /work.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	a.rootCmd.PersistentFlags().StringVarP(&a.manifestPath, "file", "f",
		manifest.DefaultFile, "Path to the manifest file")
	a.rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false,
		"Verbose output")

	a.rootCmd.AddCommand(
		NewRunCmd(a),
		NewBuildCmd(a),
		NewCheckCmd(a),
		NewListCmd(a),
		NewVersionCmd(a),
	)
}

// loadManifest parses and validates the manifest the --file flag points at.
func (a *App) loadManifest() (*manifest.Config, error) {
	return manifest.Load(a.manifestPath)
}

// projectDir returns the directory containing the manifest, which is what
// gets mounted into containers.
func (a *App) projectDir() (string, error) {
	abs, err := filepath.Abs(a.manifestPath)
	if err != nil {
		return "", fmt.Errorf("resolve manifest path: %w", err)
	}
	return filepath.Dir(abs), nil
}

// isTTY reports whether stdout is a terminal.
func isTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// isStdinTTY reports whether stdin is a terminal. Interactive runs attach
// it to the container; piped runs go through the detached lifecycle.
func isStdinTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
