package schema

import (
	"path"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Scalar validates a scalar value: string, bool, number, or path.
// Use Numeric or Directory when range or path constraints are needed.
type Scalar struct {
	optional bool
	def      *string
	minLen   *int
	maxLen   *int
}

func NewScalar() Scalar { return Scalar{} }

func (s Scalar) Optional() Scalar {
	s.optional = true
	return s
}

func (s Scalar) Default(value string) Scalar {
	s.def = &value
	return s
}

func (s Scalar) MinLength(n int) Scalar {
	s.minLen = &n
	return s
}

func (s Scalar) MaxLength(n int) Scalar {
	s.maxLen = &n
	return s
}

func (s Scalar) DefaultNode() (*yaml.Node, bool) {
	if s.def != nil {
		return ScalarNode(*s.def), true
	}
	if s.optional {
		return NullNode(), true
	}
	return nil, false
}

func (s Scalar) Validate(node *yaml.Node, c *Collector) *yaml.Node {
	if IsNull(node) && s.optional {
		return node
	}
	if node.Kind != yaml.ScalarNode || IsNull(node) {
		c.Validation(node, "value must be scalar")
		return node
	}
	if s.minLen != nil && len(node.Value) < *s.minLen {
		c.Validation(node, "value must be at least %d characters", *s.minLen)
	}
	if s.maxLen != nil && len(node.Value) > *s.maxLen {
		c.Validation(node, "value must be at most %d characters", *s.maxLen)
	}
	// Normalize to a string so unquoted booleans and numbers decode into
	// string fields.
	out := *node
	out.Tag = tagStr
	return &out
}

// numericSuffixes are multipliers accepted by Numeric, in match order.
var numericSuffixes = []struct {
	suffix string
	mult   int64
}{
	{"ki", 1024},
	{"Mi", 1048576},
	{"Gi", 1024 * 1024 * 1024},
	{"k", 1000},
	{"M", 1000000},
	{"G", 1000000000},
}

// parseNumeric parses an integer with optional unit suffix (k, M, G, ki,
// Mi, Gi) or radix prefix (0x, 0o, 0b). The suffix must be a proper suffix:
// a bare "k" is not a number.
func parseNumeric(src string) (int64, bool) {
	mult := int64(1)
	for _, s := range numericSuffixes {
		if len(s.suffix) < len(src) && strings.HasSuffix(src, s.suffix) {
			mult = s.mult
			src = src[:len(src)-len(s.suffix)]
			break
		}
	}
	if val, err := strconv.ParseInt(src, 10, 64); err == nil {
		return val * mult, true
	}
	if len(src) > 2 {
		var base int
		switch src[:2] {
		case "0x":
			base = 16
		case "0o":
			base = 8
		case "0b":
			base = 2
		default:
			return 0, false
		}
		if val, err := strconv.ParseInt(src[2:], base, 64); err == nil {
			return val * mult, true
		}
	}
	return 0, false
}

// Numeric validates an integer scalar with optional bounds. It accepts
// human-friendly unit suffixes (100k, 16Mi) and 0x/0o/0b radix prefixes,
// and normalizes the node to a plain decimal so Decode sees an ordinary int.
type Numeric struct {
	optional bool
	def      *int64
	min      *int64
	max      *int64
}

func NewNumeric() Numeric { return Numeric{} }

func (v Numeric) Optional() Numeric {
	v.optional = true
	return v
}

func (v Numeric) Default(value int64) Numeric {
	v.def = &value
	return v
}

func (v Numeric) Min(value int64) Numeric {
	v.min = &value
	return v
}

func (v Numeric) Max(value int64) Numeric {
	v.max = &value
	return v
}

func (v Numeric) DefaultNode() (*yaml.Node, bool) {
	if v.def != nil {
		return ScalarNode(strconv.FormatInt(*v.def, 10)), true
	}
	if v.optional {
		return NullNode(), true
	}
	return nil, false
}

func (v Numeric) Validate(node *yaml.Node, c *Collector) *yaml.Node {
	if IsNull(node) && v.optional {
		return node
	}
	if node.Kind != yaml.ScalarNode || IsNull(node) {
		c.Validation(node, "value must be scalar")
		return node
	}
	val, ok := parseNumeric(node.Value)
	if !ok {
		c.Validation(node, "value must be numeric")
		return node
	}
	if v.min != nil && val < *v.min {
		c.Validation(node, "value must be at least %d", *v.min)
	}
	if v.max != nil && val > *v.max {
		c.Validation(node, "value must be at most %d", *v.max)
	}
	out := &yaml.Node{
		Kind:   yaml.ScalarNode,
		Tag:    "!!int",
		Value:  strconv.FormatInt(val, 10),
		Line:   node.Line,
		Column: node.Column,
	}
	return out
}

// Directory validates a path scalar, optionally forcing it to be absolute
// or relative. Relative paths reject ".." components so a config cannot
// escape its project directory.
type Directory struct {
	optional bool
	def      *string
	absolute *bool
}

func NewDirectory() Directory { return Directory{} }

func (d Directory) Optional() Directory {
	d.optional = true
	return d
}

func (d Directory) Default(value string) Directory {
	d.def = &value
	return d
}

func (d Directory) Absolute(value bool) Directory {
	d.absolute = &value
	return d
}

func (d Directory) DefaultNode() (*yaml.Node, bool) {
	if d.def != nil {
		return ScalarNode(*d.def), true
	}
	if d.optional {
		return NullNode(), true
	}
	return nil, false
}

func (d Directory) Validate(node *yaml.Node, c *Collector) *yaml.Node {
	if IsNull(node) && d.optional {
		return node
	}
	if node.Kind != yaml.ScalarNode || IsNull(node) {
		c.Validation(node, "path expected")
		return node
	}
	if d.absolute == nil {
		return node
	}
	isAbs := path.IsAbs(node.Value)
	if *d.absolute {
		if !isAbs {
			c.Validation(node, "path must be absolute")
		}
		return node
	}
	if isAbs {
		c.Validation(node, "path must not be absolute")
		return node
	}
	for _, part := range strings.Split(node.Value, "/") {
		if part == ".." {
			c.Validation(node, "the /../ is not allowed in path")
			break
		}
	}
	return node
}
