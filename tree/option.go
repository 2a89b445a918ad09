package tree

import "io"

// Option holds a value that may be absent.
type Option[T TreeDisplay] struct {
	value T
	ok    bool
}

func Some[T TreeDisplay](v T) Option[T] {
	return Option[T]{value: v, ok: true}
}

func None[T TreeDisplay]() Option[T] {
	return Option[T]{}
}

func (o Option[T]) Get() (T, bool) {
	return o.value, o.ok
}

func (o Option[T]) IsNone() bool {
	return !o.ok
}

// TreeFmt renders a present value in place, with no line of its own.
func (o Option[T]) TreeFmt(w io.Writer, ctx Context, tctx Transient) error {
	if !o.ok {
		return FmtNone(w, ctx)
	}
	return o.value.TreeFmt(w, ctx, tctx)
}

func (o Option[T]) TypeNameFmt(w io.Writer) error {
	return WriteTypeName(w, "Option")
}

// FmtNone writes the line for an absent value.
func FmtNone(w io.Writer, ctx Context) error {
	return WriteLeaf(w, ctx, "None")
}

// Nothing is an absent value of unknown type.
type Nothing struct{}

func (Nothing) TreeFmt(w io.Writer, ctx Context, _ Transient) error {
	return FmtNone(w, ctx)
}

func (Nothing) TypeNameFmt(w io.Writer) error {
	return WriteTypeName(w, "Option")
}

func (Nothing) IsNone() bool { return true }
