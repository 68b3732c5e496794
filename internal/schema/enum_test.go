package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func stepValidator() Validator {
	return NewEnum().
		AllowPlain().
		Option("Alpha", Nothing{}).
		Option("Beta", Nothing{}).
		Option("Gamma", NewNumeric().Optional().Default(7)).
		Option("Delta", testStructValidator())
}

// parseVariant validates a document and returns the selected tag plus the
// normalized value node.
func parseVariant(t *testing.T, body string) (string, *yaml.Node) {
	t.Helper()
	node, err := ParseBytes("<inline text>", []byte(body), stepValidator())
	require.NoError(t, err)
	require.NotEmpty(t, node.Tag)
	return node.Tag, node
}

func TestEnum_BareTag(t *testing.T) {
	tag, node := parseVariant(t, "!Alpha")
	assert.Equal(t, "!Alpha", tag)
	assert.Equal(t, yaml.ScalarNode, node.Kind)
}

func TestEnum_TaggedNull(t *testing.T) {
	tag, _ := parseVariant(t, "!Alpha null")
	assert.Equal(t, "!Alpha", tag)
}

func TestEnum_PlainScalarSelectsOption(t *testing.T) {
	tag, _ := parseVariant(t, "Alpha")
	assert.Equal(t, "!Alpha", tag)
}

func TestEnum_TaggedScalarValue(t *testing.T) {
	tag, node := parseVariant(t, "!Gamma 5")
	assert.Equal(t, "!Gamma", tag)
	var n int
	clean := *node
	clean.Tag = "!!int"
	require.NoError(t, clean.Decode(&n))
	assert.Equal(t, 5, n)
}

func TestEnum_TaggedStruct(t *testing.T) {
	tag, node := parseVariant(t, "!Delta\nintkey: 1\nstrkey: a")
	assert.Equal(t, "!Delta", tag)
	var out testStruct
	clean := *node
	clean.Tag = "!!map"
	require.NoError(t, clean.Decode(&out))
	assert.Equal(t, testStruct{IntKey: 1, StrKey: "a"}, out)
}

func TestEnum_TaggedStructDefaults(t *testing.T) {
	tag, node := parseVariant(t, "!Delta")
	assert.Equal(t, "!Delta", tag)
	var out testStruct
	clean := *node
	clean.Tag = "!!map"
	require.NoError(t, clean.Decode(&out))
	assert.Equal(t, testStruct{IntKey: 123, StrKey: "default_value"}, out)
}

func TestEnum_UnknownTag(t *testing.T) {
	_, err := ParseBytes("f", []byte("!Omega 1"), stepValidator())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "the tag Omega is not expected")
}

func TestEnum_MissingTag(t *testing.T) {
	v := NewEnum().
		Option("Alpha", Nothing{}).
		Option("Beta", Nothing{})
	_, err := ParseBytes("f", []byte("12"), v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "one of the tags [Alpha Beta] expected")
}

func TestEnum_DefaultTag(t *testing.T) {
	v := NewEnum().
		DefaultTag("Gamma").
		Option("Alpha", Nothing{}).
		Option("Gamma", NewNumeric().Optional().Default(7))
	node, err := ParseBytes("f", []byte("5"), v)
	require.NoError(t, err)
	assert.Equal(t, "!Gamma", node.Tag)
}

func TestEnum_InSequence(t *testing.T) {
	v := NewSequence(stepValidator())
	node, err := ParseBytes("f", []byte("- !Alpha\n- !Gamma 5"), v)
	require.NoError(t, err)
	require.Len(t, node.Content, 2)
	assert.Equal(t, "!Alpha", node.Content[0].Tag)
	assert.Equal(t, "!Gamma", node.Content[1].Tag)
}

func TestEnum_OptionalDefaults(t *testing.T) {
	v := NewStructure().Member("val", stepValidator().(Enum).Optional())
	node, err := ParseBytes("f", []byte("{}"), v)
	require.NoError(t, err)
	require.Len(t, node.Content, 2)
	assert.True(t, IsNull(node.Content[1]))
}
