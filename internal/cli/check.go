package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/vessel-build/vessel/internal/schema"
)

var (
	checkErrStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	checkOKStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

// NewCheckCmd creates the check command
func NewCheckCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the manifest without running anything",
		Long: `Check parses and validates the manifest, reporting every problem it
finds with file, line and column. Exits nonzero if the manifest is
invalid.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadManifest()
			if err != nil {
				// Schema errors are a list; print each on its own line so
				// editors can jump to positions.
				var list *schema.List
				if errors.As(err, &list) {
					for _, e := range list.All() {
						fmt.Fprintln(cmd.ErrOrStderr(), checkErrStyle.Render(e.Error()))
					}
					return &ExitError{Code: 1}
				}
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), checkOKStyle.Render(fmt.Sprintf(
				"%s is valid: %d containers, %d commands",
				cfg.Path, len(cfg.Containers), len(cfg.Commands),
			)))
			return nil
		},
	}
}
