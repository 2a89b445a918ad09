package tree

import (
	"io"

	"github.com/cockroachdb/errors"
)

// TreeDisplay is implemented by every value that can be rendered as a tree.
type TreeDisplay interface {
	// TreeFmt writes the complete lines for the value and its descendants,
	// using ctx.Indent as the left margin of its own lines.
	TreeFmt(w io.Writer, ctx Context, tctx Transient) error

	// TypeNameFmt writes a short parenthesized type name such as " (int)".
	TypeNameFmt(w io.Writer) error
}

// ErrWrite marks errors returned by the output sink.
var ErrWrite = errors.New("tree: write failed")

const (
	// BranchMid and BranchLast prefix labelled children.
	BranchMid  = "├──"
	BranchLast = "└──"

	// ItemMid and ItemLast prefix sequence items and leaf values.
	ItemMid  = "├─"
	ItemLast = "└─"

	extendMid  = "|  "
	extendLast = "   "
)

// Context is the configuration inherited down the render call tree. It is
// passed by value; nodes derive copies for their children.
type Context struct {
	Indent    string
	Sparsity  int
	ShowTypes bool

	// Rename overrides the label of the next branch line a node writes for
	// itself. Nodes that read it clear it before recursing.
	Rename string
}

// Transient carries one-level-only state from a container to a flattened
// child. Children always receive the zero value unless they are flattened.
type Transient struct {
	Flattened bool
	Last      bool
}

// Child returns the context of a child one level deeper.
func (c Context) Child(last bool) Context {
	if last {
		c.Indent += extendLast
	} else {
		c.Indent += extendMid
	}
	c.Rename = ""
	return c
}

// Nest returns the context one level deeper without a continuation bar.
func (c Context) Nest() Context {
	return c.Child(true)
}

// Plain returns c with any pending rename cleared.
func (c Context) Plain() Context {
	c.Rename = ""
	return c
}

// WithRename returns c with a label override for the next branch line.
func (c Context) WithRename(name string) Context {
	c.Rename = name
	return c
}

// Label returns the pending rename or def when there is none.
func (c Context) Label(def string) string {
	if c.Rename != "" {
		return c.Rename
	}
	return def
}

// Depth is the nesting depth encoded in the indent.
func (c Context) Depth() int {
	return len(c.Indent) / len(extendMid)
}

// Fill writes the sparsity filler lines. With bar set each line continues
// the vertical connector, otherwise it is the bare indent.
func (c Context) Fill(w io.Writer, bar bool) error {
	line := c.Indent + "\n"
	if bar {
		line = c.Indent + "|\n"
	}
	for i := 0; i < c.Sparsity; i++ {
		if err := WriteString(w, line); err != nil {
			return err
		}
	}
	return nil
}

// WriteString writes s to w, marking any failure with ErrWrite.
func WriteString(w io.Writer, s string) error {
	if _, err := io.WriteString(w, s); err != nil {
		return errors.Mark(err, ErrWrite)
	}
	return nil
}

// WriteLeaf writes a single value line followed by the sparsity filler.
func WriteLeaf(w io.Writer, ctx Context, text string) error {
	if err := WriteString(w, ctx.Indent+ItemLast+text+"\n"); err != nil {
		return err
	}
	return ctx.Fill(w, false)
}

// WriteLabel writes a branch line for child: indent, glyph and label, then
// the child's type name when types are shown.
func WriteLabel(w io.Writer, ctx Context, glyph, label string, child TreeDisplay) error {
	if err := WriteString(w, ctx.Indent+glyph+label); err != nil {
		return err
	}
	if ctx.ShowTypes && child != nil {
		if err := child.TypeNameFmt(w); err != nil {
			return err
		}
	}
	return WriteString(w, "\n")
}

// WriteTypeName writes " (name)".
func WriteTypeName(w io.Writer, name string) error {
	return WriteString(w, " ("+name+")")
}
