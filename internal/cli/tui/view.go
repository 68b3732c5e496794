package tui

import (
	"fmt"
	"strings"
	"time"
)

// View implements tea.Model
func (m *Model) View() string {
	if m.Done || m.Quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	for _, st := range m.Containers {
		b.WriteString(m.renderContainer(st))
	}

	b.WriteString(m.renderFooter())
	return b.String()
}

func (m *Model) renderHeader() string {
	elapsed := time.Since(m.StartTime).Round(time.Second)
	timer := fmt.Sprintf("[%s]", formatDuration(elapsed))
	return fmt.Sprintf("%s  %s",
		m.Styles.Title.Render("Building containers"),
		m.Styles.Timer.Render(timer),
	)
}

// renderContainer renders one container line plus its output tail:
//
//	⠹ build (vessel/build:4f2a9c1b07de)
//	    Step 3/7 : RUN apt-get install ...
func (m *Model) renderContainer(st *ContainerState) string {
	var b strings.Builder

	icon, label := m.statusBadge(st)
	name := m.Styles.Name.Render(st.Name)
	line := fmt.Sprintf("  %s %s", icon, name)
	if st.Image != "" {
		line += " " + m.Styles.Timer.Render("("+st.Image+")")
	}
	if label != "" {
		line += " " + label
	}
	b.WriteString(line)
	b.WriteString("\n")

	if st.Status == StatusBuilding {
		for _, out := range st.Output {
			b.WriteString("      ")
			b.WriteString(m.Styles.OutputLine.Render(truncate(out, m.Width-8)))
			b.WriteString("\n")
		}
	}
	if st.Status == StatusFailed && st.Error != "" {
		b.WriteString("      ")
		b.WriteString(m.Styles.Failed.Render(st.Error))
		b.WriteString("\n")
	}

	return b.String()
}

func (m *Model) statusBadge(st *ContainerState) (icon, label string) {
	switch st.Status {
	case StatusBuilding:
		return m.Styles.Building.Render(spinnerFrames[m.frame%len(spinnerFrames)]), ""
	case StatusCached:
		return m.Styles.Cached.Render(IconCached), m.Styles.Cached.Render("up to date")
	case StatusDone:
		return m.Styles.Done.Render(IconDone), ""
	case StatusFailed:
		return m.Styles.Failed.Render(IconFailed), ""
	}
	return m.Styles.Timer.Render(IconPending), ""
}

func (m *Model) renderFooter() string {
	key := m.Styles.FooterKey.Render("q")
	return m.Styles.Footer.Render(fmt.Sprintf("  Press %s to quit", key))
}

func truncate(s string, max int) string {
	if max <= 3 || len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// formatDuration formats a duration as MM:SS
func formatDuration(d time.Duration) string {
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	return fmt.Sprintf("%02d:%02d", m, s)
}
