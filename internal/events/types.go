// Package events carries build and run lifecycle events from the container
// layer to whatever is displaying progress (plain text or the TUI).
package events

import (
	"fmt"
	"time"
)

// Event represents a single occurrence in a build or run.
type Event struct {
	// Time is when the event occurred (set by the bus on emit).
	Time time.Time

	// Type identifies what happened.
	Type Type

	// Container is the container template name this event relates to.
	Container string

	// Command is the command alias name (empty for build-only events).
	Command string

	// Line is one line of runtime output for BuildOutput events.
	Line string

	// Image is the image tag for build events.
	Image string

	// ExitCode is the subprocess exit code for CommandExited.
	ExitCode int

	// Error contains the error message if this is a failure event.
	Error string
}

// Type is a string constant identifying the event category.
type Type string

// Build lifecycle events
const (
	BuildStarted   Type = "build.started"
	BuildOutput    Type = "build.output"
	BuildCached    Type = "build.cached"
	BuildCompleted Type = "build.completed"
	BuildFailed    Type = "build.failed"
)

// Command lifecycle events
const (
	CommandStarted Type = "command.started"
	CommandExited  Type = "command.exited"
)

// String renders a short human-readable form, used by the plain-text
// display when no TTY is attached.
func (e Event) String() string {
	switch e.Type {
	case BuildStarted:
		return fmt.Sprintf("building container %q (%s)", e.Container, e.Image)
	case BuildOutput:
		return e.Line
	case BuildCached:
		return fmt.Sprintf("container %q is up to date (%s)", e.Container, e.Image)
	case BuildCompleted:
		return fmt.Sprintf("container %q built (%s)", e.Container, e.Image)
	case BuildFailed:
		return fmt.Sprintf("container %q build failed: %s", e.Container, e.Error)
	case CommandStarted:
		return fmt.Sprintf("running %q in container %q", e.Command, e.Container)
	case CommandExited:
		return fmt.Sprintf("command %q exited with code %d", e.Command, e.ExitCode)
	}
	return string(e.Type)
}
