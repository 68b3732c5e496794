package tui

import "github.com/charmbracelet/lipgloss"

// Styles contains all lipgloss styles for the TUI
type Styles struct {
	// Header styling
	Title lipgloss.Style
	Timer lipgloss.Style

	// Container line styling
	Building lipgloss.Style
	Cached   lipgloss.Style
	Done     lipgloss.Style
	Failed   lipgloss.Style
	Name     lipgloss.Style

	// Build output tail
	OutputLine lipgloss.Style

	// Footer styling
	Footer    lipgloss.Style
	FooterKey lipgloss.Style
}

// DefaultStyles returns the default TUI styles
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Timer: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),

		Building: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Cached:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Done:     lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Failed:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Name:     lipgloss.NewStyle().Bold(true),

		OutputLine: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),

		Footer:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")).MarginTop(1),
		FooterKey: lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
	}
}

// Icons used in the TUI
const (
	IconDone    = "✓"
	IconFailed  = "✗"
	IconCached  = "≡"
	IconPending = "○"
)

// spinnerFrames animate containers that are currently building.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
