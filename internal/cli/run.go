package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vessel-build/vessel/internal/container"
	"github.com/vessel-build/vessel/internal/events"
	"github.com/vessel-build/vessel/internal/runner"
)

// ExitError carries a command's exit code out of cobra so main can
// propagate it to the shell.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// NewRunCmd creates the run command
func NewRunCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "run <command> [args...]",
		Short: "Run a command alias inside its container",
		Long: `Run executes a command alias from the manifest inside the container
it names. The container image is provisioned first if needed. Extra
arguments are passed through to the command.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runCommand(args[0], args[1:])
		},
	}
}

func (a *App) runCommand(name string, extraArgs []string) error {
	cfg, err := a.loadManifest()
	if err != nil {
		return err
	}
	dir, err := a.projectDir()
	if err != nil {
		return err
	}
	runtime, err := container.DetectRuntime()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bus := events.NewBus(256)
	done := a.printEvents(bus)

	r := runner.New(cfg, runtime, dir, bus)
	r.Interactive = isStdinTTY()
	code, err := r.Run(ctx, name, extraArgs)
	bus.Close()
	<-done
	if err != nil {
		return err
	}
	if code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}

// printEvents drains the bus to stderr so build progress is visible even
// without the TUI. Command output itself goes through the attached streams,
// not the bus. The returned channel closes when the bus is drained.
func (a *App) printEvents(bus *events.Bus) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range bus.Events() {
			if e.Type == events.BuildOutput && !a.verbose {
				continue
			}
			fmt.Fprintln(os.Stderr, e)
		}
	}()
	return done
}
