package container

// ContainerID is a unique identifier for a container.
// This is the full ID returned by `docker create`, not the short form.
type ContainerID string

// RunConfig specifies parameters for running an argument vector inside a
// provisioned container image.
type RunConfig struct {
	// Image is the provisioned image tag (e.g. "vessel/build:4f2a9c1b07de")
	Image string

	// Name is the container name (e.g. "vessel-test-1699...")
	Name string

	// Env contains environment variables to set in the container
	Env map[string]string

	// Cmd is the command and arguments to run
	Cmd []string

	// WorkDir is the working directory inside the container
	WorkDir string

	// Binds are host:container bind mounts
	Binds []string
}
