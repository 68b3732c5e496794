package schema

import (
	"fmt"
	"strings"

	"github.com/joomcode/errorx"
	"gopkg.in/yaml.v3"
)

// Error kinds reported while loading a document. Open and parse errors are
// fatal; validation and decode errors are collected so a single load reports
// everything wrong with the file at once.
var (
	Errors = errorx.NewNamespace("schema")

	OpenError       = Errors.NewType("open")
	ParseError      = Errors.NewType("parse")
	ValidationError = Errors.NewType("validation")
	DecodeError     = Errors.NewType("decode")
)

// Pos identifies a location in a parsed document.
type Pos struct {
	File   string
	Line   int
	Column int
}

func (p Pos) String() string {
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// List is the full set of errors collected while loading one document.
type List struct {
	errs []error
}

func (l *List) Error() string {
	lines := make([]string, len(l.errs))
	for i, e := range l.errs {
		lines[i] = e.Error()
	}
	return strings.Join(lines, "\n")
}

// All returns the individual errors in report order.
func (l *List) All() []error {
	return l.errs
}

// Collector accumulates errors for one document. Validators report into it
// and keep going, so every problem in the file surfaces in one pass.
type Collector struct {
	file string
	errs []error
}

func NewCollector(file string) *Collector {
	return &Collector{file: file}
}

// PosOf returns the position of a node within the collector's document.
func (c *Collector) PosOf(n *yaml.Node) Pos {
	return Pos{File: c.file, Line: n.Line, Column: n.Column}
}

// Validation records a validation error at the node's position.
func (c *Collector) Validation(n *yaml.Node, format string, args ...interface{}) {
	c.errs = append(c.errs, ValidationError.New("%s: %s",
		c.PosOf(n), fmt.Sprintf(format, args...)))
}

// Decode records a decode error at the node's position.
func (c *Collector) Decode(n *yaml.Node, format string, args ...interface{}) {
	c.errs = append(c.errs, DecodeError.New("%s: %s",
		c.PosOf(n), fmt.Sprintf(format, args...)))
}

// Len returns the number of errors collected so far.
func (c *Collector) Len() int {
	return len(c.errs)
}

// Err returns the collected errors as a single *List, or nil if none.
func (c *Collector) Err() error {
	if len(c.errs) == 0 {
		return nil
	}
	return &List{errs: c.errs}
}
