// Package tui renders live build progress with bubbletea when the build
// command runs on a terminal.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vessel-build/vessel/internal/events"
)

// BuildStatus is the display state of one container template.
type BuildStatus int

const (
	StatusPending BuildStatus = iota
	StatusBuilding
	StatusCached
	StatusDone
	StatusFailed
)

// ContainerState tracks the build of a single container in the TUI
type ContainerState struct {
	Name   string
	Image  string
	Status BuildStatus
	Error  string

	// Tail of runtime build output, newest last.
	Output []string
}

// Model is the bubbletea model for the TUI
type Model struct {
	Styles Styles

	// Containers in manifest order; lookup by name via index.
	Containers []*ContainerState
	index      map[string]*ContainerState

	StartTime time.Time
	TailLimit int
	Width     int
	Height    int
	frame     int

	// Control
	Quitting bool
	Done     bool
	Failed   bool
}

// NewModel creates a TUI model tracking the given container names.
func NewModel(names []string) *Model {
	m := &Model{
		Styles:    DefaultStyles(),
		index:     make(map[string]*ContainerState, len(names)),
		StartTime: time.Now(),
		TailLimit: 6,
	}
	for _, name := range names {
		st := &ContainerState{Name: name, Status: StatusPending}
		m.Containers = append(m.Containers, st)
		m.index[name] = st
	}
	return m
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return tickCmd()
}

// TickMsg drives the timer and spinner animation
type TickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// EventMsg wraps a build event from the bus
type EventMsg struct {
	Event events.Event
}

// DoneMsg signals the TUI should exit
type DoneMsg struct{}
