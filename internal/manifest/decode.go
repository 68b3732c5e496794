package manifest

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// decodeConfig converts a schema-validated document into the typed model.
// The validator has already normalized the tree, so failures here indicate
// a schema/model mismatch rather than a user error.
func decodeConfig(root *yaml.Node) (*Config, error) {
	cfg := &Config{
		Containers: make(map[string]*Container),
		Commands:   make(map[string]*Command),
	}
	containersNode, commandsNode := mapValue(root, "containers"), mapValue(root, "commands")

	for name, node := range mapEntries(containersNode) {
		ctr, err := decodeContainer(name, node)
		if err != nil {
			return nil, fmt.Errorf("container %q: %w", name, err)
		}
		cfg.Containers[name] = ctr
	}
	for name, node := range mapEntries(commandsNode) {
		cmd, err := decodeCommand(name, node)
		if err != nil {
			return nil, fmt.Errorf("command %q: %w", name, err)
		}
		cfg.Commands[name] = cmd
	}
	return cfg, nil
}

func decodeContainer(name string, node *yaml.Node) (*Container, error) {
	ctr := &Container{Name: name}
	if env := mapValue(node, "environ"); env != nil {
		if err := env.Decode(&ctr.Environ); err != nil {
			return nil, fmt.Errorf("environ: %w", err)
		}
	}
	setup := mapValue(node, "setup")
	if setup == nil {
		return ctr, nil
	}
	for i, stepNode := range setup.Content {
		step, err := decodeStep(stepNode)
		if err != nil {
			return nil, fmt.Errorf("setup[%d]: %w", i, err)
		}
		ctr.Setup = append(ctr.Setup, step)
	}
	return ctr, nil
}

func decodeStep(node *yaml.Node) (Step, error) {
	switch node.Tag {
	case "!Ubuntu":
		return Ubuntu{Release: node.Value}, nil
	case "!UbuntuUniverse":
		return UbuntuUniverse{}, nil
	case "!Install":
		var pkgs []string
		if err := decodeUntagged(node, &pkgs); err != nil {
			return nil, err
		}
		return Install{Packages: pkgs}, nil
	case "!TarInstall":
		var ti TarInstall
		if err := decodeUntagged(node, &ti); err != nil {
			return nil, err
		}
		return ti, nil
	case "!Sh":
		return Sh{Command: node.Value}, nil
	case "!Env":
		var vars map[string]string
		if err := decodeUntagged(node, &vars); err != nil {
			return nil, err
		}
		return Env{Vars: vars}, nil
	}
	return nil, fmt.Errorf("unsupported step tag %q", node.Tag)
}

func decodeCommand(name string, node *yaml.Node) (*Command, error) {
	var aux struct {
		Container   string            `yaml:"container"`
		Run         []string          `yaml:"run"`
		Environ     map[string]string `yaml:"environ"`
		WorkDir     string            `yaml:"work_dir"`
		Description string            `yaml:"description"`
		Epilog      string            `yaml:"epilog"`
	}
	if err := node.Decode(&aux); err != nil {
		return nil, err
	}
	return &Command{
		Name:        name,
		Container:   aux.Container,
		Run:         aux.Run,
		Environ:     aux.Environ,
		WorkDir:     aux.WorkDir,
		Description: aux.Description,
		Epilog:      aux.Epilog,
	}, nil
}

// decodeUntagged decodes a node carrying an enum's local tag by restoring
// the standard tag for its kind.
func decodeUntagged(node *yaml.Node, dest interface{}) error {
	clean := *node
	switch node.Kind {
	case yaml.MappingNode:
		clean.Tag = "!!map"
	case yaml.SequenceNode:
		clean.Tag = "!!seq"
	case yaml.ScalarNode:
		clean.Tag = "!!str"
	}
	return clean.Decode(dest)
}

// mapValue returns the value for a key of a mapping node, or nil.
func mapValue(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

// mapEntries returns a mapping node's entries as a map of key to value
// node. Nil for non-mapping nodes.
func mapEntries(node *yaml.Node) map[string]*yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	out := make(map[string]*yaml.Node, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		out[node.Content[i].Value] = node.Content[i+1]
	}
	return out
}
