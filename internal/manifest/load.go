package manifest

import (
	"fmt"

	"github.com/vessel-build/vessel/internal/schema"
)

// Load reads, validates, and decodes a manifest file. Schema errors are
// collected and returned together (as a *schema.List); referential errors
// are joined the same way. Loading has no side effects, so loading the same
// file twice yields identical configs.
func Load(path string) (*Config, error) {
	node, err := schema.ParseFile(path, configValidator())
	if err != nil {
		return nil, err
	}
	cfg, err := decodeConfig(node)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadBytes is Load for in-memory data. The file name is used for error
// positions only.
func LoadBytes(file string, data []byte) (*Config, error) {
	node, err := schema.ParseBytes(file, data, configValidator())
	if err != nil {
		return nil, err
	}
	cfg, err := decodeConfig(node)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	cfg.Path = file
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
