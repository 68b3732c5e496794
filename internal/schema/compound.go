package schema

import (
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// FromScalarFunc upgrades a bare scalar into mapping content (flat key/value
// pairs) so a field can grow from a shorthand scalar form into a full
// structure without breaking existing configs.
type FromScalarFunc func(scalar *yaml.Node) []*yaml.Node

// Structure validates a mapping with a fixed member set.
//
// Missing members take their validator's default; members with no default
// are reported as missing. A member named with underscores also matches the
// dashed spelling in the document ("work_dir" matches "work-dir"). Keys
// starting with "_" pass through unvalidated so documents can hold private
// anchors; any other unknown key is an error.
type Structure struct {
	members    []structMember
	optional   bool
	fromScalar FromScalarFunc
}

type structMember struct {
	name      string
	validator Validator
}

func NewStructure() Structure { return Structure{} }

func (s Structure) Member(name string, v Validator) Structure {
	ms := make([]structMember, len(s.members), len(s.members)+1)
	copy(ms, s.members)
	s.members = append(ms, structMember{name: name, validator: v})
	return s
}

func (s Structure) Optional() Structure {
	s.optional = true
	return s
}

// Parser installs a scalar upgrade function.
func (s Structure) Parser(f FromScalarFunc) Structure {
	s.fromScalar = f
	return s
}

func (s Structure) DefaultNode() (*yaml.Node, bool) {
	if s.optional {
		return NullNode(), true
	}
	var content []*yaml.Node
	for _, m := range s.members {
		def, ok := m.validator.DefaultNode()
		if !ok {
			continue
		}
		content = append(content, ScalarNode(m.name), def)
	}
	return MapNode(content...), true
}

func (s Structure) Validate(node *yaml.Node, c *Collector) *yaml.Node {
	var pairs []*yaml.Node
	switch {
	case node.Kind == yaml.MappingNode:
		pairs = node.Content
	case IsNull(node):
		def, _ := s.DefaultNode()
		return withPos(def, node)
	case node.Kind == yaml.ScalarNode && s.fromScalar != nil:
		pairs = s.fromScalar(node)
	default:
		c.Validation(node, "value must be mapping")
		return node
	}

	byKey := make(map[string]*yaml.Node, len(pairs)/2)
	var order []string
	for i := 0; i+1 < len(pairs); i += 2 {
		byKey[pairs[i].Value] = pairs[i+1]
		order = append(order, pairs[i].Value)
	}

	var content []*yaml.Node
	consumed := make(map[string]bool)
	for _, m := range s.members {
		key := m.name
		value, ok := byKey[key]
		if !ok {
			key = strings.ReplaceAll(m.name, "_", "-")
			value, ok = byKey[key]
		}
		if ok {
			consumed[key] = true
			value = m.validator.Validate(value, c)
		} else {
			def, hasDefault := m.validator.DefaultNode()
			if !hasDefault {
				c.Validation(node, "field %s is expected", m.name)
				continue
			}
			value = withPos(def, node)
		}
		content = append(content, ScalarNode(m.name), value)
	}

	var unknown []string
	for _, key := range order {
		if consumed[key] {
			continue
		}
		if strings.HasPrefix(key, "_") {
			// Private keys are carried through untouched.
			content = append(content, ScalarNode(key), byKey[key])
			continue
		}
		unknown = append(unknown, key)
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		c.Validation(node, "keys %v are not expected", unknown)
	}
	return withPos(MapNode(content...), node)
}

// Enum validates a value selected by YAML local tag, e.g. `!Install [gcc]`.
// Each option has its own validator for the tagged value. With AllowPlain, a
// bare scalar equal to an option name selects that option with a null value.
type Enum struct {
	options    []enumOption
	optional   bool
	defaultTag string
	allowPlain bool
}

type enumOption struct {
	name      string
	validator Validator
}

func NewEnum() Enum { return Enum{} }

func (e Enum) Option(name string, v Validator) Enum {
	opts := make([]enumOption, len(e.options), len(e.options)+1)
	copy(opts, e.options)
	e.options = append(opts, enumOption{name: name, validator: v})
	return e
}

func (e Enum) Optional() Enum {
	e.optional = true
	return e
}

// AllowPlain accepts a bare scalar matching an option name. Incompatible
// with DefaultTag.
func (e Enum) AllowPlain() Enum {
	if e.defaultTag != "" {
		panic("schema: DefaultTag and AllowPlain are not compatible")
	}
	e.allowPlain = true
	return e
}

// DefaultTag selects an option for untagged values. Incompatible with
// AllowPlain.
func (e Enum) DefaultTag(name string) Enum {
	if e.allowPlain {
		panic("schema: DefaultTag and AllowPlain are not compatible")
	}
	e.defaultTag = name
	return e
}

func (e Enum) DefaultNode() (*yaml.Node, bool) {
	if !e.optional {
		return nil, false
	}
	n := NullNode()
	if e.defaultTag != "" {
		n.Tag = "!" + e.defaultTag
	}
	return n, true
}

func (e Enum) names() []string {
	names := make([]string, len(e.options))
	for i, opt := range e.options {
		names[i] = opt.name
	}
	return names
}

func (e Enum) Validate(node *yaml.Node, c *Collector) *yaml.Node {
	tag := localTag(node)
	if tag == "" {
		if e.allowPlain && node.Kind == yaml.ScalarNode {
			for _, opt := range e.options {
				if opt.name == node.Value {
					out := opt.validator.Validate(withPos(NullNode(), node), c)
					out.Tag = "!" + opt.name
					return out
				}
			}
		}
		if e.defaultTag == "" {
			c.Validation(node, "one of the tags %v expected", e.names())
			return node
		}
		tag = e.defaultTag
	}
	for _, opt := range e.options {
		if opt.name != tag {
			continue
		}
		out := opt.validator.Validate(untag(node), c)
		out.Tag = "!" + tag
		return out
	}
	c.Validation(node, "the tag %s is not expected", tag)
	return node
}

// untag strips a local tag, resolving the bare value the option validator
// should see. A tagged empty scalar (`!UbuntuUniverse`) is a null value.
func untag(node *yaml.Node) *yaml.Node {
	out := *node
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Value == "" || node.Value == "~" || node.Value == "null" {
			return withPos(NullNode(), node)
		}
		out.Tag = tagStr
	case yaml.MappingNode:
		out.Tag = tagMap
	case yaml.SequenceNode:
		out.Tag = tagSeq
	}
	return &out
}

// Mapping validates a map with uniform key and value validators. A null
// value is an empty map. Keys are validated as scalars.
type Mapping struct {
	key        Validator
	value      Validator
	fromScalar FromScalarFunc
}

func NewMapping(key, value Validator) Mapping {
	return Mapping{key: key, value: value}
}

// Parser installs a scalar upgrade function.
func (m Mapping) Parser(f FromScalarFunc) Mapping {
	m.fromScalar = f
	return m
}

func (m Mapping) DefaultNode() (*yaml.Node, bool) {
	return MapNode(), true
}

func (m Mapping) Validate(node *yaml.Node, c *Collector) *yaml.Node {
	var pairs []*yaml.Node
	switch {
	case node.Kind == yaml.MappingNode:
		pairs = node.Content
	case IsNull(node):
		return withPos(MapNode(), node)
	case node.Kind == yaml.ScalarNode && m.fromScalar != nil:
		pairs = m.fromScalar(node)
	default:
		c.Validation(node, "value must be mapping")
		return node
	}
	content := make([]*yaml.Node, 0, len(pairs))
	for i := 0; i+1 < len(pairs); i += 2 {
		key := m.key.Validate(pairs[i], c)
		value := m.value.Validate(pairs[i+1], c)
		content = append(content, key, value)
	}
	return withPos(MapNode(content...), node)
}

// FromSeqFunc splits a bare scalar into sequence elements.
type FromSeqFunc func(scalar *yaml.Node) []*yaml.Node

// Sequence validates a list with a uniform element validator. A null value
// is an empty list.
type Sequence struct {
	element    Validator
	fromScalar FromSeqFunc
}

func NewSequence(element Validator) Sequence {
	return Sequence{element: element}
}

// Parser installs a scalar-to-list upgrade function.
func (s Sequence) Parser(f FromSeqFunc) Sequence {
	s.fromScalar = f
	return s
}

func (s Sequence) DefaultNode() (*yaml.Node, bool) {
	return SeqNode(), true
}

func (s Sequence) Validate(node *yaml.Node, c *Collector) *yaml.Node {
	var items []*yaml.Node
	switch {
	case node.Kind == yaml.SequenceNode:
		items = node.Content
	case IsNull(node):
		return withPos(SeqNode(), node)
	case node.Kind == yaml.ScalarNode && s.fromScalar != nil:
		items = s.fromScalar(node)
	default:
		c.Validation(node, "value must be sequence")
		return node
	}
	content := make([]*yaml.Node, 0, len(items))
	for _, item := range items {
		content = append(content, s.element.Validate(item, c))
	}
	return withPos(SeqNode(content...), node)
}

// Anything accepts any value untouched. Useful when the decoded type does
// its own checking.
type Anything struct{}

func (Anything) DefaultNode() (*yaml.Node, bool) { return nil, false }

func (Anything) Validate(node *yaml.Node, _ *Collector) *yaml.Node {
	return node
}

// Nothing accepts only null. Mostly useful for bare enum options.
type Nothing struct{}

func (Nothing) DefaultNode() (*yaml.Node, bool) { return nil, false }

func (Nothing) Validate(node *yaml.Node, c *Collector) *yaml.Node {
	if !IsNull(node) {
		c.Validation(node, "null expected")
	}
	return node
}
