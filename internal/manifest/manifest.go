// Package manifest defines the vessel.yaml data model: container templates
// with ordered provisioning steps, and the command aliases that run inside
// them.
package manifest

import (
	"errors"
	"fmt"
	"sort"
)

// DefaultFile is the manifest name looked up in the project directory.
const DefaultFile = "vessel.yaml"

// Config is a fully loaded and validated manifest.
type Config struct {
	// Path is where the manifest was loaded from (informational).
	Path string

	// Containers maps template name to container template.
	Containers map[string]*Container

	// Commands maps alias name to command.
	Commands map[string]*Command
}

// Container is a named, reusable specification for provisioning an isolated
// execution environment. It is defined statically and materialized (built)
// on first use; it is not mutated afterwards except by re-provisioning when
// the manifest changes.
type Container struct {
	Name string

	// Setup is the ordered list of provisioning steps.
	Setup []Step

	// Environ is the environment applied inside the container.
	Environ map[string]string
}

// Command is a named shortcut binding a container template, optional
// overrides, and an argument vector. Commands are stateless between
// invocations.
type Command struct {
	Name string

	// Container names the template this command runs in.
	Container string

	// Run is the argument vector handed to the subprocess. A scalar form
	// in the manifest is upgraded to a /bin/sh -c invocation.
	Run []string

	// Environ overrides container environment variables for this command.
	Environ map[string]string

	// WorkDir is the working directory relative to the project root.
	WorkDir string

	// Description is shown in command listings.
	Description string

	// Epilog is printed after the command exits successfully.
	Epilog string
}

// Step is one declarative provisioning action applied when building a
// container template.
type Step interface {
	isStep()
}

// Ubuntu selects an Ubuntu release as the base of the container.
type Ubuntu struct {
	Release string
}

// UbuntuUniverse enables the universe package repository.
type UbuntuUniverse struct{}

// Install installs a list of distribution packages.
type Install struct {
	Packages []string
}

// TarInstall downloads a tarball, unpacks it, and runs an install script
// inside the unpacked tree.
type TarInstall struct {
	URL    string `yaml:"url"`
	Script string `yaml:"script"`
	Subdir string `yaml:"subdir"`
	SHA256 string `yaml:"sha256"`
}

// Sh runs an arbitrary shell command as a provisioning step.
type Sh struct {
	Command string
}

// Env sets build-time environment variables for subsequent steps.
type Env struct {
	Vars map[string]string
}

func (Ubuntu) isStep()         {}
func (UbuntuUniverse) isStep() {}
func (Install) isStep()        {}
func (TarInstall) isStep()     {}
func (Sh) isStep()             {}
func (Env) isStep()            {}

// ValidationError contains details about what failed manifest validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("manifest.%s: %s", e.Field, e.Message)
}

// Validate checks the manifest's referential integrity: every command must
// reference a defined container, every container must have at least one
// provisioning step, and every command must have something to run.
// All failures are reported together.
func (c *Config) Validate() error {
	var errs []error

	for _, name := range sortedKeys(c.Containers) {
		if len(c.Containers[name].Setup) == 0 {
			errs = append(errs, &ValidationError{
				Field:   fmt.Sprintf("containers.%s.setup", name),
				Message: "must have at least one provisioning step",
			})
		}
	}

	for _, name := range sortedKeys(c.Commands) {
		cmd := c.Commands[name]
		if _, ok := c.Containers[cmd.Container]; !ok {
			errs = append(errs, &ValidationError{
				Field: fmt.Sprintf("commands.%s.container", name),
				Message: fmt.Sprintf("unknown container %q (have: %v)",
					cmd.Container, sortedKeys(c.Containers)),
			})
		}
		if len(cmd.Run) == 0 {
			errs = append(errs, &ValidationError{
				Field:   fmt.Sprintf("commands.%s.run", name),
				Message: "must not be empty",
			})
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// CommandNames returns the alias names in sorted order.
func (c *Config) CommandNames() []string {
	return sortedKeys(c.Commands)
}

// ContainerNames returns the template names in sorted order.
func (c *Config) ContainerNames() []string {
	return sortedKeys(c.Containers)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
