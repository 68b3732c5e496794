package cli

import (
	"context"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/vessel-build/vessel/internal/cli/tui"
	"github.com/vessel-build/vessel/internal/container"
	"github.com/vessel-build/vessel/internal/events"
	"github.com/vessel-build/vessel/internal/runner"
)

// BuildOptions holds flags for the build command
type BuildOptions struct {
	Force bool // Rebuild even when the image already exists
	NoTUI bool // Disable TUI even when stdout is a TTY
}

// NewBuildCmd creates the build command
func NewBuildCmd(app *App) *cobra.Command {
	opts := BuildOptions{}
	cmd := &cobra.Command{
		Use:   "build [container...]",
		Short: "Provision container images from the manifest",
		Long: `Build provisions the named container templates as images. With no
arguments every container in the manifest is built. Images are
content-addressed: an unchanged template reuses its existing image
unless --force is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.buildContainers(args, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.Force, "force", false, "Rebuild even if the image exists")
	cmd.Flags().BoolVar(&opts.NoTUI, "no-tui", false, "Disable the progress display")
	return cmd
}

func (a *App) buildContainers(names []string, opts BuildOptions) error {
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
	if len(names) == 0 {
		names = cfg.ContainerNames()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bus := events.NewBus(256)
	r := runner.New(cfg, runtime, dir, bus)

	if isTTY() && !opts.NoTUI {
		return a.buildWithTUI(ctx, r, names, opts.Force, bus)
	}

	done := a.printEvents(bus)
	err = r.BuildAll(ctx, names, opts.Force)
	bus.Close()
	<-done
	return err
}

// buildWithTUI runs the builds in the background while bubbletea owns the
// terminal. Build errors surface after the program exits.
func (a *App) buildWithTUI(ctx context.Context, r *runner.Runner, names []string, force bool, bus *events.Bus) error {
	model := tui.NewModel(names)
	program := tea.NewProgram(model)
	bridge := tui.NewBridge(program)

	errCh := make(chan error, 1)
	go func() {
		errCh <- r.BuildAll(ctx, names, force)
		bus.Close()
	}()
	go bridge.Pump(bus)

	if _, err := program.Run(); err != nil {
		return err
	}
	return <-errCh
}
