// Package runner executes command aliases inside provisioned containers.
// It glues the manifest to the container layer: ensure the image exists,
// assemble the run configuration, attach the user's terminal.
package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"github.com/vessel-build/vessel/internal/container"
	"github.com/vessel-build/vessel/internal/events"
	"github.com/vessel-build/vessel/internal/manifest"
)

// workDir is where the project directory is mounted inside every container.
const workDir = "/work"

// stopTimeout is how long a container gets to exit on SIGTERM when the run
// is interrupted.
const stopTimeout = 10 * time.Second

// ImageBuilder provisions a container template and returns its image tag.
type ImageBuilder interface {
	Build(ctx context.Context, ctr *manifest.Container, force bool) (string, error)
}

// Runner runs manifest commands in disposable containers.
type Runner struct {
	Config     *manifest.Config
	ProjectDir string
	Manager    container.Manager
	Builder    ImageBuilder
	Bus        *events.Bus

	// Interactive selects the attached run path, which wires the caller's
	// stdin into the container. Without it commands run through the
	// create/start/wait lifecycle with their logs streamed out.
	Interactive bool

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// New creates a Runner backed by the given container runtime binary.
// Progress events go to bus, which may be nil.
func New(cfg *manifest.Config, runtime, projectDir string, bus *events.Bus) *Runner {
	return &Runner{
		Config:     cfg,
		ProjectDir: projectDir,
		Manager:    container.NewCLIManager(runtime),
		Builder:    container.NewBuilder(runtime, bus),
		Bus:        bus,
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
	}
}

func (r *Runner) emit(e events.Event) {
	if r.Bus != nil {
		r.Bus.Emit(e)
	}
}

// Run executes the named command alias and returns its exit code.
// Extra arguments are appended to the command's argument vector. The
// project directory is bind-mounted at /work and the container is removed
// when the command exits.
func (r *Runner) Run(ctx context.Context, name string, extraArgs []string) (int, error) {
	cmd, ok := r.Config.Commands[name]
	if !ok {
		return -1, fmt.Errorf("unknown command %q (available: %s)",
			name, strings.Join(r.Config.CommandNames(), ", "))
	}
	ctr, ok := r.Config.Containers[cmd.Container]
	if !ok {
		return -1, fmt.Errorf("command %q references unknown container %q", name, cmd.Container)
	}

	tag, err := r.Builder.Build(ctx, ctr, false)
	if err != nil {
		return -1, err
	}

	// Container environment first, command environment on top.
	env := make(map[string]string, len(ctr.Environ)+len(cmd.Environ))
	for k, v := range ctr.Environ {
		env[k] = v
	}
	for k, v := range cmd.Environ {
		env[k] = v
	}

	wd := workDir
	if cmd.WorkDir != "" {
		wd = path.Join(workDir, cmd.WorkDir)
	}

	argv := make([]string, 0, len(cmd.Run)+len(extraArgs))
	argv = append(argv, cmd.Run...)
	argv = append(argv, extraArgs...)

	cfg := container.RunConfig{
		Image:   tag,
		Name:    fmt.Sprintf("vessel-%s-%d", name, time.Now().UnixNano()),
		Env:     env,
		Cmd:     argv,
		WorkDir: wd,
		Binds:   []string{r.ProjectDir + ":" + workDir},
	}

	r.emit(events.Event{Type: events.CommandStarted, Command: name, Container: cmd.Container, Image: tag})
	var code int
	if r.Interactive {
		code, err = r.Manager.RunAttached(ctx, cfg, r.Stdin, r.Stdout, r.Stderr)
	} else {
		code, err = r.runDetached(ctx, cfg)
	}
	if err != nil {
		return -1, fmt.Errorf("command %q: %w", name, err)
	}
	r.emit(events.Event{Type: events.CommandExited, Command: name, Container: cmd.Container, ExitCode: code})

	if code == 0 && cmd.Epilog != "" {
		epilog := cmd.Epilog
		if !strings.HasSuffix(epilog, "\n") {
			epilog += "\n"
		}
		fmt.Fprint(r.Stdout, epilog)
	}
	return code, nil
}

// runDetached runs the command through the container lifecycle: create,
// start, stream logs to stdout, wait for the exit code, remove. If the
// context is canceled mid-run the container is stopped.
func (r *Runner) runDetached(ctx context.Context, cfg container.RunConfig) (int, error) {
	id, err := r.Manager.Create(ctx, cfg)
	if err != nil {
		return -1, err
	}
	defer r.Manager.Remove(context.Background(), id)

	if err := r.Manager.Start(ctx, id); err != nil {
		return -1, err
	}
	finished := make(chan struct{})
	defer close(finished)
	go func() {
		select {
		case <-ctx.Done():
			r.Manager.Stop(context.Background(), id, stopTimeout)
		case <-finished:
		}
	}()

	// Log streaming replays from the start of the container, so attaching
	// after Start loses nothing.
	logs, err := r.Manager.Logs(ctx, id)
	if err != nil {
		return -1, err
	}
	defer logs.Close()
	copied := make(chan struct{})
	go func() {
		defer close(copied)
		io.Copy(r.Stdout, logs)
	}()

	code, err := r.Manager.Wait(ctx, id)
	<-copied
	if err != nil {
		return -1, err
	}
	return code, nil
}

// Build provisions a single container template by name.
func (r *Runner) Build(ctx context.Context, name string, force bool) (string, error) {
	ctr, ok := r.Config.Containers[name]
	if !ok {
		return "", fmt.Errorf("unknown container %q (available: %s)",
			name, strings.Join(r.Config.ContainerNames(), ", "))
	}
	return r.Builder.Build(ctx, ctr, force)
}

// BuildAll provisions the named container templates in order, or every
// template in the manifest when names is empty.
func (r *Runner) BuildAll(ctx context.Context, names []string, force bool) error {
	if len(names) == 0 {
		names = r.Config.ContainerNames()
	}
	for _, name := range names {
		if _, err := r.Build(ctx, name, force); err != nil {
			return err
		}
	}
	return nil
}
