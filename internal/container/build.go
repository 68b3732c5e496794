package container

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/vessel-build/vessel/internal/events"
	"github.com/vessel-build/vessel/internal/manifest"
)

// imageStore is the slice of Manager the builder needs to check and
// invalidate images.
type imageStore interface {
	ImageExists(ctx context.Context, tag string) bool
	RemoveImage(ctx context.Context, tag string) error
}

// Builder provisions container templates into images.
type Builder struct {
	runtime string
	bus     *events.Bus
	store   imageStore
}

// NewBuilder creates a Builder for the given runtime. The bus may be nil
// when no progress output is wanted.
func NewBuilder(runtime string, bus *events.Bus) *Builder {
	return &Builder{runtime: runtime, bus: bus, store: NewCLIManager(runtime)}
}

func (b *Builder) emit(e events.Event) {
	if b.bus != nil {
		b.bus.Emit(e)
	}
}

// Build materializes a container template as an image and returns its tag.
// The tag embeds a digest of the provisioning steps, so an image that
// already exists is reused unless force is set. This makes building
// idempotent: a template is provisioned on first use and only again after
// the manifest changes.
func (b *Builder) Build(ctx context.Context, ctr *manifest.Container, force bool) (string, error) {
	tag, err := ImageTag(ctr)
	if err != nil {
		return "", err
	}
	if b.store.ImageExists(ctx, tag) {
		if !force {
			b.emit(events.Event{Type: events.BuildCached, Container: ctr.Name, Image: tag})
			return tag, nil
		}
		// Drop the stale tag so the forced rebuild starts clean.
		if err := b.store.RemoveImage(ctx, tag); err != nil {
			return "", err
		}
	}

	dockerfile, err := Render(ctr)
	if err != nil {
		return "", err
	}
	dir, err := os.MkdirTemp("", "vessel-build-"+ctr.Name+"-")
	if err != nil {
		return "", fmt.Errorf("create build context: %w", err)
	}
	defer os.RemoveAll(dir)
	if err := os.WriteFile(filepath.Join(dir, "Dockerfile"), []byte(dockerfile), 0644); err != nil {
		return "", fmt.Errorf("write Dockerfile: %w", err)
	}

	b.emit(events.Event{Type: events.BuildStarted, Container: ctr.Name, Image: tag})
	if err := b.runBuild(ctx, ctr.Name, tag, dir); err != nil {
		b.emit(events.Event{
			Type:      events.BuildFailed,
			Container: ctr.Name,
			Image:     tag,
			Error:     err.Error(),
		})
		return "", err
	}
	b.emit(events.Event{Type: events.BuildCompleted, Container: ctr.Name, Image: tag})
	return tag, nil
}

// runBuild invokes `<runtime> build`, forwarding output lines as events.
func (b *Builder) runBuild(ctx context.Context, name, tag, dir string) error {
	cmd := exec.CommandContext(ctx, b.runtime, "build", "-t", tag, dir)
	pipe, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("build %s: %w", name, err)
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("build %s: %w", name, err)
	}
	scanner := bufio.NewScanner(pipe)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		b.emit(events.Event{
			Type:      events.BuildOutput,
			Container: name,
			Image:     tag,
			Line:      scanner.Text(),
		})
	}
	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("build %s: %w", name, err)
	}
	return nil
}
