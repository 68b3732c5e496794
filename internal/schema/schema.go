// Package schema validates YAML documents against composable validators.
//
// Validators work on yaml.v3 nodes rather than decoded values so that every
// error carries a file:line:column position and so that defaults, key
// aliasing, and scalar upgrades can rewrite the tree before it is decoded
// into Go types. A validator returns a normalized node that a plain
// node.Decode is able to handle.
package schema

import "gopkg.in/yaml.v3"

// Validator checks one node of a document and returns its normalized form.
// Implementations report problems into the Collector and keep going; the
// returned node is best-effort when errors were reported.
type Validator interface {
	Validate(node *yaml.Node, c *Collector) *yaml.Node

	// DefaultNode returns the node to use when the value is absent.
	// The second return is false when absence is an error.
	DefaultNode() (*yaml.Node, bool)
}

const (
	tagNull = "!!null"
	tagStr  = "!!str"
	tagMap  = "!!map"
	tagSeq  = "!!seq"
)

// IsNull reports whether the node is an explicit or implicit null.
func IsNull(n *yaml.Node) bool {
	if n == nil {
		return true
	}
	return n.Kind == yaml.ScalarNode && n.Tag == tagNull
}

// NullNode returns a fresh null scalar node.
func NullNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tagNull, Value: ""}
}

// ScalarNode returns a fresh string scalar node.
func ScalarNode(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tagStr, Value: value}
}

// MapNode returns a fresh mapping node with the given flat key/value content.
func MapNode(content ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: tagMap, Content: content}
}

// SeqNode returns a fresh sequence node with the given content.
func SeqNode(content ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Tag: tagSeq, Content: content}
}

// localTag returns the node's local tag ("!Name" without the bang) or "".
// Standard resolved tags ("!!str" and friends) are not local tags.
func localTag(n *yaml.Node) string {
	if len(n.Tag) > 1 && n.Tag[0] == '!' && n.Tag[1] != '!' {
		return n.Tag[1:]
	}
	return ""
}

// withPos copies the source node's position onto a synthesized node so that
// downstream errors point at something sensible.
func withPos(n, src *yaml.Node) *yaml.Node {
	if n != nil && src != nil && n.Line == 0 {
		n.Line = src.Line
		n.Column = src.Column
	}
	return n
}

// resolveAliases replaces alias nodes with their anchor targets so that
// validators never see yaml.AliasNode. Anchored subtrees are shared, not
// copied; validation of a shared subtree is idempotent so this is safe.
func resolveAliases(n *yaml.Node) *yaml.Node {
	if n == nil {
		return nil
	}
	if n.Kind == yaml.AliasNode {
		return resolveAliases(n.Alias)
	}
	for i, child := range n.Content {
		n.Content[i] = resolveAliases(child)
	}
	return n
}
