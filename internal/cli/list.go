package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	listHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	listNameStyle   = lipgloss.NewStyle().Bold(true)
	listDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// NewListCmd creates the list command
func NewListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the manifest's commands and containers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadManifest()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, listHeaderStyle.Render("Commands"))
			for _, name := range cfg.CommandNames() {
				c := cfg.Commands[name]
				line := fmt.Sprintf("  %s %s",
					listNameStyle.Render(name),
					listDimStyle.Render("(in "+c.Container+")"))
				if c.Description != "" {
					line += "  " + strings.TrimSpace(c.Description)
				}
				fmt.Fprintln(out, line)
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, listHeaderStyle.Render("Containers"))
			for _, name := range cfg.ContainerNames() {
				ctr := cfg.Containers[name]
				fmt.Fprintf(out, "  %s %s\n",
					listNameStyle.Render(name),
					listDimStyle.Render(fmt.Sprintf("(%d setup steps)", len(ctr.Setup))))
			}
			return nil
		},
	}
}
