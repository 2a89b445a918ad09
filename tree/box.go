package tree

import "io"

// Box is an owning wrapper; it renders exactly as its value.
type Box[T TreeDisplay] struct {
	Value T
}

func NewBox[T TreeDisplay](v T) Box[T] {
	return Box[T]{Value: v}
}

func (b Box[T]) TreeFmt(w io.Writer, ctx Context, tctx Transient) error {
	return b.Value.TreeFmt(w, ctx, tctx)
}

func (b Box[T]) TypeNameFmt(w io.Writer) error {
	if err := WriteString(w, " (Box) ->"); err != nil {
		return err
	}
	return b.Value.TypeNameFmt(w)
}

type ref struct {
	v TreeDisplay
}

// Ref wraps a borrowed value; it renders exactly as v and prefixes the
// type name with " ->".
func Ref(v TreeDisplay) TreeDisplay {
	return ref{v: v}
}

func (r ref) TreeFmt(w io.Writer, ctx Context, tctx Transient) error {
	return r.v.TreeFmt(w, ctx, tctx)
}

func (r ref) TypeNameFmt(w io.Writer) error {
	if err := WriteString(w, " ->"); err != nil {
		return err
	}
	return r.v.TypeNameFmt(w)
}
