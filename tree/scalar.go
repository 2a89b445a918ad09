package tree

import (
	"fmt"
	"io"
	"reflect"
)

// Primitive is the set of scalar kinds rendered as a single value line.
type Primitive interface {
	~bool |
		~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64 | ~complex64 | ~complex128 |
		~string
}

// Scalar renders a primitive value as a leaf.
type Scalar[T Primitive] struct {
	V T
}

func Val[T Primitive](v T) Scalar[T] {
	return Scalar[T]{V: v}
}

func (s Scalar[T]) TreeFmt(w io.Writer, ctx Context, _ Transient) error {
	return WriteLeaf(w, ctx, FormatScalar(s.V))
}

func (s Scalar[T]) TypeNameFmt(w io.Writer) error {
	return WriteTypeName(w, reflect.TypeFor[T]().String())
}

// FormatScalar gives the canonical text of a scalar: strings are quoted,
// everything else uses its default format.
func FormatScalar(v any) string {
	if reflect.ValueOf(v).Kind() == reflect.String {
		return fmt.Sprintf("%q", v)
	}
	return fmt.Sprint(v)
}

// Rune renders a character in quoted form.
type Rune rune

func (r Rune) TreeFmt(w io.Writer, ctx Context, _ Transient) error {
	return WriteLeaf(w, ctx, fmt.Sprintf("%q", rune(r)))
}

func (r Rune) TypeNameFmt(w io.Writer) error {
	return WriteTypeName(w, "rune")
}

// Unit is the empty value.
type Unit struct{}

func (Unit) TreeFmt(w io.Writer, ctx Context, _ Transient) error {
	return WriteLeaf(w, ctx, "()")
}

func (Unit) TypeNameFmt(w io.Writer) error {
	return WriteTypeName(w, "()")
}

// Text renders preformatted text as a leaf under an arbitrary type name.
type Text struct {
	S    string
	Type string
}

func (t Text) TreeFmt(w io.Writer, ctx Context, _ Transient) error {
	return WriteLeaf(w, ctx, t.S)
}

func (t Text) TypeNameFmt(w io.Writer) error {
	return WriteTypeName(w, t.Type)
}
