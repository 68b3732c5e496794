package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vessel-build/vessel/internal/events"
)

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.Quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case TickMsg:
		m.frame++
		return m, tickCmd()

	case EventMsg:
		m.applyEvent(msg.Event)

	case DoneMsg:
		m.Done = true
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) applyEvent(e events.Event) {
	st, ok := m.index[e.Container]
	if !ok {
		return
	}
	switch e.Type {
	case events.BuildStarted:
		st.Status = StatusBuilding
		st.Image = e.Image

	case events.BuildOutput:
		st.Output = append(st.Output, e.Line)
		if len(st.Output) > m.TailLimit {
			st.Output = st.Output[len(st.Output)-m.TailLimit:]
		}

	case events.BuildCached:
		st.Status = StatusCached
		st.Image = e.Image

	case events.BuildCompleted:
		st.Status = StatusDone
		st.Image = e.Image
		st.Output = nil

	case events.BuildFailed:
		st.Status = StatusFailed
		st.Error = e.Error
		m.Failed = true
	}
}
