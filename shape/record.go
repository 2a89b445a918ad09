package shape

import (
	"io"
	"reflect"

	"github.com/signadot/treedisplay/casing"
	"github.com/signadot/treedisplay/debug"
	"github.com/signadot/treedisplay/tree"
)

// recordNode renders a struct through its plan.
type recordNode struct {
	p *plan
	v reflect.Value
}

func (n recordNode) TreeFmt(w io.Writer, ctx tree.Context, tctx tree.Transient) error {
	if n.p.attrs.Transparent {
		return nodeOf(n.v.Field(n.p.fields[0].index)).TreeFmt(w, ctx.Plain(), tctx)
	}
	fields, err := n.fields()
	if err != nil {
		return err
	}
	return tree.FmtFields(w, ctx, tctx, fields)
}

func (n recordNode) TypeNameFmt(w io.Writer) error {
	if n.p.attrs.Transparent {
		return nodeOf(n.v.Field(n.p.fields[0].index)).TypeNameFmt(w)
	}
	return tree.WriteTypeName(w, n.p.name)
}

// fields evaluates the skip conditions and returns the children that are
// rendered, in declaration order. Flattened children that would contribute
// nothing are dropped so the last rendered field gets the closing glyph.
func (n recordNode) fields() ([]tree.Field, error) {
	res := make([]tree.Field, 0, len(n.p.fields)+1)
	if tag := n.p.attrs.Tag; tag != "" {
		res = append(res, tree.Field{Name: tag, Value: tree.Val(n.p.attrs.Name(n.p.name, casing.None))})
	}
	for _, fp := range n.p.fields {
		fv := n.v.Field(fp.index)
		skip, err := fp.skipped(n.p, fv, n.v)
		if err != nil {
			return nil, err
		}
		if skip {
			if debug.Render() {
				log := debug.Logger("render")
				log.Debug().Str("type", n.p.name).Str("field", fp.goName).Stringer("skip", fp.skip).Msg("skipped")
			}
			continue
		}
		if !fp.flatten {
			res = append(res, tree.Field{Name: fp.label, Value: nodeOf(fv)})
			continue
		}
		child, err := flattened(fv)
		if err != nil {
			return nil, err
		}
		if child.Len() > 0 {
			res = append(res, tree.Field{Value: child, Flatten: true})
		}
	}
	return res, nil
}

func (fp *fieldPlan) skipped(p *plan, fv, parent reflect.Value) (bool, error) {
	switch fp.skip {
	case SkipIf:
		skip, err := fp.pred.eval(fv, parent)
		if err != nil {
			return false, &PredicateError{Type: p.typ.String(), Field: fp.goName, Expr: fp.pred.src, Err: err}
		}
		return skip, nil
	case SkipIfTrue:
		return fv.Bool(), nil
	case SkipIfFalse:
		return !fv.Bool(), nil
	case SkipIfNone:
		return isNone(fv), nil
	case SkipIfEmpty:
		return isEmpty(fv), nil
	}
	return false, nil
}

// flattened returns the children a flattened field splices into its parent.
func flattened(v reflect.Value) (tree.Record, error) {
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, nil
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Struct:
		p, err := planFor(v.Type())
		if err != nil {
			return nil, err
		}
		if p.attrs.Transparent {
			return tree.Record{{Name: p.fields[0].label, Value: nodeOf(v.Field(p.fields[0].index))}}, nil
		}
		return recordNode{p: p, v: v}.fields()
	case reflect.Map:
		return mapFields(v), nil
	}
	return nil, nil
}

func isNone(v reflect.Value) bool {
	if nilable(v.Type()) && v.IsNil() {
		return true
	}
	if v.Type().Implements(noneType) && v.CanInterface() {
		return v.Interface().(interface{ IsNone() bool }).IsNone()
	}
	return false
}

func isEmpty(v reflect.Value) bool {
	if nilable(v.Type()) && v.IsNil() {
		return true
	}
	if v.Type().Implements(lengthType) && v.CanInterface() {
		return v.Interface().(interface{ Len() int }).Len() == 0
	}
	if lengthy(v.Type()) {
		return v.Len() == 0
	}
	return false
}
