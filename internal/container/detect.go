package container

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// ErrNoRuntime is returned when no container runtime is found.
var ErrNoRuntime = errors.New("no container runtime found (need docker or podman)")

// DetectRuntime finds an available container runtime.
// The VESSEL_RUNTIME environment variable forces a specific binary;
// otherwise docker is checked first, then podman. The binary must actually
// work: `<runtime> version` is run to verify.
func DetectRuntime() (string, error) {
	if forced := os.Getenv("VESSEL_RUNTIME"); forced != "" {
		if _, err := exec.LookPath(forced); err != nil {
			return "", fmt.Errorf("VESSEL_RUNTIME=%s: %w", forced, err)
		}
		return forced, nil
	}
	for _, bin := range []string{"docker", "podman"} {
		if _, err := exec.LookPath(bin); err != nil {
			continue
		}
		cmd := exec.Command(bin, "version")
		if err := cmd.Run(); err != nil {
			continue
		}
		return bin, nil
	}
	return "", ErrNoRuntime
}
