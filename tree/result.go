package tree

import "io"

// Result holds either a success value or a failure value.
type Result[T, E TreeDisplay] struct {
	ok     T
	err    E
	failed bool
}

func Ok[T, E TreeDisplay](v T) Result[T, E] {
	return Result[T, E]{ok: v}
}

func Err[T, E TreeDisplay](e E) Result[T, E] {
	return Result[T, E]{err: e, failed: true}
}

func (r Result[T, E]) IsErr() bool {
	return r.failed
}

func (r Result[T, E]) TreeFmt(w io.Writer, ctx Context, _ Transient) error {
	if r.failed {
		return FmtResult(w, ctx, "Err", r.err)
	}
	return FmtResult(w, ctx, "Ok", r.ok)
}

func (r Result[T, E]) TypeNameFmt(w io.Writer) error {
	return WriteTypeName(w, "Result")
}

// FmtResult writes the arm line one level in and the held value one level
// further.
func FmtResult(w io.Writer, ctx Context, arm string, v TreeDisplay) error {
	inner := ctx.Nest()
	if err := inner.Fill(w, true); err != nil {
		return err
	}
	if err := WriteString(w, inner.Indent+ItemLast+arm+"\n"); err != nil {
		return err
	}
	return v.TreeFmt(w, inner.Nest(), Transient{})
}
