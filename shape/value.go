package shape

import (
	"cmp"
	"fmt"
	"io"
	"reflect"
	"slices"

	"github.com/signadot/treedisplay/tree"
)

var (
	treeDisplayType = reflect.TypeFor[tree.TreeDisplay]()
	stringerType    = reflect.TypeFor[fmt.Stringer]()
	errorType       = reflect.TypeFor[error]()
)

// Of returns a tree view of v. Struct plans are compiled on first use, so
// attribute errors surface when the view is rendered; use New to get them
// up front. The static type T matters when it is a registered union.
func Of[T any](v T) tree.TreeDisplay {
	return nodeOf(reflect.ValueOf(&v).Elem())
}

// New is Of after compiling the plans of every type reachable from T and
// from the dynamic type of v.
func New[T any](v T) (tree.TreeDisplay, error) {
	if err := Check[T](); err != nil {
		return nil, err
	}
	if dt := reflect.TypeOf(any(v)); dt != nil && dt != reflect.TypeFor[T]() {
		if err := Compile(dt); err != nil {
			return nil, err
		}
	}
	return Of(v), nil
}

// Sprint renders v to a string.
func Sprint[T any](v T, opts ...tree.PrintOption) (string, error) {
	d, err := New(v)
	if err != nil {
		return "", err
	}
	return tree.Sprint(d, opts...)
}

// Fprint renders v to w.
func Fprint[T any](w io.Writer, v T, opts ...tree.PrintOption) error {
	d, err := New(v)
	if err != nil {
		return err
	}
	return tree.Fprint(w, d, opts...)
}

// Render writes v by its declared shape, ignoring any TreeFmt method of T
// itself. Generated TreeFmt methods call it.
func Render[T any](w io.Writer, v T, ctx tree.Context, tctx tree.Transient) error {
	return baseNode(reflect.ValueOf(&v).Elem()).TreeFmt(w, ctx, tctx)
}

// TypeName writes the type name fragment of v. Generated TypeNameFmt
// methods call it.
func TypeName[T any](w io.Writer, v T) error {
	return baseNode(reflect.ValueOf(&v).Elem()).TypeNameFmt(w)
}

func nodeOf(v reflect.Value) tree.TreeDisplay {
	if !v.IsValid() {
		return tree.Nothing{}
	}
	t := v.Type()
	switch t.Kind() {
	case reflect.Interface:
		if u := lookupUnion(t); u != nil {
			return unionNode{u: u, v: v}
		}
		if v.IsNil() {
			return tree.Nothing{}
		}
		return nodeOf(v.Elem())
	case reflect.Pointer:
		if v.IsNil() {
			return tree.Nothing{}
		}
	}
	if v.CanInterface() {
		if t.Implements(treeDisplayType) {
			return v.Interface().(tree.TreeDisplay)
		}
		if v.CanAddr() && reflect.PointerTo(t).Implements(treeDisplayType) {
			return v.Addr().Interface().(tree.TreeDisplay)
		}
	}
	return baseNode(v)
}

// baseNode is the structural view of v.
func baseNode(v reflect.Value) tree.TreeDisplay {
	t := v.Type()
	switch t.Kind() {
	case reflect.Interface:
		return nodeOf(v)
	case reflect.Pointer:
		if v.IsNil() {
			return tree.Nothing{}
		}
		return tree.Ref(nodeOf(v.Elem()))
	}
	if textual(t) && v.CanInterface() {
		return textNode(v)
	}
	switch t.Kind() {
	case reflect.Struct:
		p, err := planFor(t)
		if err != nil {
			return errNode{err: err}
		}
		return recordNode{p: p, v: v}
	case reflect.Slice, reflect.Array:
		return seqNode{v: v}
	case reflect.Map:
		return mapNode{v: v}
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128,
		reflect.String:
		return tree.Text{S: formatKind(v), Type: t.String()}
	}
	return tree.Text{S: "<" + t.String() + ">", Type: t.String()}
}

// textual reports whether t renders through its String or Error method:
// scalars and opaque structs such as time.Time do, containers don't.
func textual(t reflect.Type) bool {
	if !t.Implements(stringerType) && !t.Implements(errorType) {
		return false
	}
	switch t.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return false
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if t.Field(i).IsExported() {
				return false
			}
		}
	}
	return true
}

func textNode(v reflect.Value) tree.TreeDisplay {
	var s string
	switch x := v.Interface().(type) {
	case error:
		s = x.Error()
	case fmt.Stringer:
		s = x.String()
	}
	return tree.Text{S: s, Type: v.Type().String()}
}

func formatKind(v reflect.Value) string {
	if v.Kind() == reflect.String {
		return fmt.Sprintf("%q", v.String())
	}
	if v.CanInterface() {
		return fmt.Sprint(v.Interface())
	}
	return v.String()
}

type seqNode struct {
	v reflect.Value
}

func (n seqNode) Len() int { return n.v.Len() }

func (n seqNode) TreeFmt(w io.Writer, ctx tree.Context, _ tree.Transient) error {
	return tree.FmtItems(w, ctx.Plain(), n.v.Len(), func(i int) tree.TreeDisplay {
		return nodeOf(n.v.Index(i))
	})
}

func (n seqNode) TypeNameFmt(w io.Writer) error {
	return tree.WriteTypeName(w, "Array")
}

type mapNode struct {
	v reflect.Value
}

func (n mapNode) Len() int { return n.v.Len() }

func (n mapNode) TreeFmt(w io.Writer, ctx tree.Context, tctx tree.Transient) error {
	return tree.FmtFields(w, ctx, tctx, mapFields(n.v))
}

func (n mapNode) TypeNameFmt(w io.Writer) error {
	return tree.WriteTypeName(w, "Map")
}

// mapFields returns the entries of a map ordered by key.
func mapFields(v reflect.Value) tree.Record {
	keys := v.MapKeys()
	slices.SortFunc(keys, compareKeys)
	res := make(tree.Record, len(keys))
	for i, k := range keys {
		res[i] = tree.Field{Name: keyLabel(k), Value: nodeOf(v.MapIndex(k))}
	}
	return res
}

func keyLabel(k reflect.Value) string {
	if k.CanInterface() {
		return fmt.Sprint(k.Interface())
	}
	return k.String()
}

func compareKeys(a, b reflect.Value) int {
	for a.Kind() == reflect.Interface && !a.IsNil() {
		a = a.Elem()
	}
	for b.Kind() == reflect.Interface && !b.IsNil() {
		b = b.Elem()
	}
	if a.Kind() != b.Kind() {
		return cmp.Compare(a.Kind(), b.Kind())
	}
	switch a.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cmp.Compare(a.Int(), b.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return cmp.Compare(a.Uint(), b.Uint())
	case reflect.Float32, reflect.Float64:
		return cmp.Compare(a.Float(), b.Float())
	case reflect.String:
		return cmp.Compare(a.String(), b.String())
	case reflect.Bool:
		return cmp.Compare(boolInt(a.Bool()), boolInt(b.Bool()))
	}
	return cmp.Compare(keyLabel(a), keyLabel(b))
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// errNode carries a plan compilation error to render time.
type errNode struct {
	err error
}

func (n errNode) TreeFmt(io.Writer, tree.Context, tree.Transient) error { return n.err }
func (n errNode) TypeNameFmt(io.Writer) error { return n.err }
