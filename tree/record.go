package tree

import (
	"cmp"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
)

// Field is one labelled child of a record.
type Field struct {
	Name  string
	Value TreeDisplay

	// Flatten splices the value's own children in place of the field.
	Flatten bool
}

// FmtFields writes fields as labelled branches. Only the final field that
// writes anything gets the closing glyph, and when the record is itself
// flattened only if the parent marked it last.
func FmtFields(w io.Writer, ctx Context, tctx Transient, fields []Field) error {
	ctx = ctx.Plain()
	for n := len(fields); n > 0 && fields[n-1].Flatten && empty(fields[n-1].Value); n-- {
		fields = fields[:n-1]
	}
	if len(fields) == 0 {
		if tctx.Flattened {
			return nil
		}
		return ctx.Fill(w, false)
	}
	if !tctx.Flattened {
		if err := ctx.Fill(w, true); err != nil {
			return err
		}
	}
	closing := !tctx.Flattened || tctx.Last
	for i := range fields {
		f := &fields[i]
		last := closing && i == len(fields)-1
		if f.Flatten {
			if err := f.Value.TreeFmt(w, ctx, Transient{Flattened: true, Last: last}); err != nil {
				return err
			}
			continue
		}
		glyph := BranchMid
		if last {
			glyph = BranchLast
		}
		if err := WriteLabel(w, ctx, glyph, f.Name, f.Value); err != nil {
			return err
		}
		if err := f.Value.TreeFmt(w, ctx.Child(last), Transient{}); err != nil {
			return err
		}
	}
	return nil
}

// empty reports whether a flattened value has no children to splice.
func empty(v TreeDisplay) bool {
	l, ok := v.(interface{ Len() int })
	return ok && l.Len() == 0
}

// Record is an ordered list of named children.
type Record []Field

func (r Record) Len() int { return len(r) }

func (r Record) TreeFmt(w io.Writer, ctx Context, tctx Transient) error {
	return FmtFields(w, ctx, tctx, r)
}

func (r Record) TypeNameFmt(w io.Writer) error {
	return WriteTypeName(w, "Record")
}

// Tuple is a fixed sequence of positional children labelled by index.
type Tuple []TreeDisplay

func (t Tuple) Len() int { return len(t) }

func (t Tuple) TreeFmt(w io.Writer, ctx Context, tctx Transient) error {
	return FmtTuple(w, ctx, tctx, t)
}

func (t Tuple) TypeNameFmt(w io.Writer) error {
	return WriteTypeName(w, "Tuple")
}

// FmtTuple writes items as index-labelled branches. An empty tuple is the
// unit value.
func FmtTuple(w io.Writer, ctx Context, tctx Transient, items []TreeDisplay) error {
	if len(items) == 0 {
		return Unit{}.TreeFmt(w, ctx, tctx)
	}
	fields := make([]Field, len(items))
	for i, item := range items {
		fields[i] = Field{Name: strconv.Itoa(i), Value: item}
	}
	return FmtFields(w, ctx, tctx, fields)
}

// Map renders its entries as a record ordered by key.
type Map[K cmp.Ordered, V TreeDisplay] map[K]V

func (m Map[K, V]) Len() int { return len(m) }

func (m Map[K, V]) TreeFmt(w io.Writer, ctx Context, tctx Transient) error {
	keys := slices.Sorted(maps.Keys(m))
	fields := make([]Field, len(keys))
	for i, k := range keys {
		fields[i] = Field{Name: fmt.Sprint(k), Value: m[k]}
	}
	return FmtFields(w, ctx, tctx, fields)
}

func (m Map[K, V]) TypeNameFmt(w io.Writer) error {
	return WriteTypeName(w, "Map")
}
