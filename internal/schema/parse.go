package schema

import (
	"os"

	"gopkg.in/yaml.v3"
)

// ParseFile reads a document from disk and validates it. The returned node
// is the normalized document root, ready for Decode. On validation failure
// the error is a *List holding every collected error.
func ParseFile(path string, v Validator) (*yaml.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, OpenError.Wrap(err, "%s: error reading file", path)
	}
	return ParseBytes(path, data, v)
}

// ParseBytes validates an in-memory document. The file name is used only
// for error positions.
func ParseBytes(file string, data []byte, v Validator) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, ParseError.Wrap(err, "%s: parse error", file)
	}
	root := documentRoot(&doc)
	c := NewCollector(file)
	out := v.Validate(root, c)
	if err := c.Err(); err != nil {
		return out, err
	}
	return out, nil
}

// Parse validates and decodes in one step.
func Parse(file string, data []byte, v Validator, dest interface{}) error {
	node, err := ParseBytes(file, data, v)
	if err != nil {
		return err
	}
	if err := node.Decode(dest); err != nil {
		return DecodeError.Wrap(err, "%s: decode error", file)
	}
	return nil
}

// documentRoot unwraps the document node and resolves aliases. An empty
// document validates as null, so a file of nothing but comments still takes
// all defaults.
func documentRoot(doc *yaml.Node) *yaml.Node {
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		return resolveAliases(doc.Content[0])
	}
	if doc.Kind == 0 {
		return NullNode()
	}
	return resolveAliases(doc)
}
