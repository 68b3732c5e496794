package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vessel-build/vessel/internal/events"
)

// Bridge pumps events from the bus into the bubbletea program.
type Bridge struct {
	program *tea.Program
}

// NewBridge creates a new bridge for the given program
func NewBridge(program *tea.Program) *Bridge {
	return &Bridge{program: program}
}

// Pump forwards bus events until the bus closes, then signals completion.
// Run it in its own goroutine.
func (b *Bridge) Pump(bus *events.Bus) {
	for e := range bus.Events() {
		b.program.Send(EventMsg{Event: e})
	}
	b.program.Send(DoneMsg{})
}
