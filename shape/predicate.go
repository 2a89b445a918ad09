package shape

import (
	"reflect"

	"github.com/cockroachdb/errors"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// predicate is a compiled skip_if expression. It sees the field as `value`
// and the struct holding it as `parent`.
type predicate struct {
	src string
	prg *vm.Program
}

func predicateOpts(field, parent reflect.Type) []expr.Option {
	return []expr.Option{
		expr.Env(map[string]any{
			"value":  reflect.Zero(field).Interface(),
			"parent": reflect.Zero(parent).Interface(),
		}),
		expr.AsBool(),
		expr.Function("isZero", func(params ...any) (any, error) {
			if len(params) != 1 {
				return nil, errors.Newf("isZero takes 1 argument, got %d", len(params))
			}
			if params[0] == nil {
				return true, nil
			}
			return reflect.ValueOf(params[0]).IsZero(), nil
		}),
	}
}

func compilePredicate(src string, field, parent reflect.Type) (*predicate, error) {
	prg, err := expr.Compile(src, predicateOpts(field, parent)...)
	if err != nil {
		return nil, err
	}
	return &predicate{src: src, prg: prg}, nil
}

func (p *predicate) eval(value, parent reflect.Value) (bool, error) {
	env := map[string]any{
		"value":  interfaceOf(value),
		"parent": interfaceOf(parent),
	}
	res, err := expr.Run(p.prg, env)
	if err != nil {
		return false, err
	}
	b, ok := res.(bool)
	if !ok {
		return false, errors.Newf("expected bool, got %T", res)
	}
	return b, nil
}

func interfaceOf(v reflect.Value) any {
	if !v.IsValid() || !v.CanInterface() {
		return nil
	}
	return v.Interface()
}
