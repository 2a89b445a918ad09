package shape

import (
	"reflect"
	"strconv"
	"sync"

	"github.com/signadot/treedisplay/casing"
	"github.com/signadot/treedisplay/debug"
)

// plan is the compiled layout of a struct type. Plans are immutable once
// published and shared by every render of the type.
type plan struct {
	typ    reflect.Type
	name   string
	attrs  ContainerAttrs
	fields []*fieldPlan

	// labels is every label the type contributes when it is flattened
	// into a parent, including those of its own flattened fields.
	labels []string
}

type fieldPlan struct {
	index   int
	goName  string
	label   string
	typ     reflect.Type
	skip    SkipKind
	pred    *predicate
	flatten bool
}

var (
	plans     sync.Map // reflect.Type -> *plan
	compileMu sync.Mutex

	attrsType  = reflect.TypeFor[Attrs]()
	noneType   = reflect.TypeFor[interface{ IsNone() bool }]()
	lengthType = reflect.TypeFor[interface{ Len() int }]()
)

// Compile checks the attributes of t and of every type reachable from it
// through fields, elements and pointers, and caches the resulting plans.
// Rendering compiles lazily, so calling Compile is only needed to surface
// attribute errors early.
func Compile(t reflect.Type) error {
	compileMu.Lock()
	defer compileMu.Unlock()
	c := newCompiler()
	if err := c.reach(t); err != nil {
		return err
	}
	c.publish()
	return nil
}

// Check is Compile for a type parameter.
func Check[T any]() error {
	return Compile(reflect.TypeFor[T]())
}

func planFor(t reflect.Type) (*plan, error) {
	if p, ok := plans.Load(t); ok {
		return p.(*plan), nil
	}
	compileMu.Lock()
	defer compileMu.Unlock()
	c := newCompiler()
	p, err := c.plan(t)
	if err != nil {
		return nil, err
	}
	c.publish()
	return p, nil
}

// compiler holds the plans of one compilation. A plan is entered in pending
// before its fields are compiled so recursive types terminate; nothing is
// published unless the whole compilation succeeds.
type compiler struct {
	pending map[reflect.Type]*plan
	seen    map[reflect.Type]bool
}

func newCompiler() *compiler {
	return &compiler{
		pending: map[reflect.Type]*plan{},
		seen:    map[reflect.Type]bool{},
	}
}

func (c *compiler) publish() {
	for t, p := range c.pending {
		plans.Store(t, p)
	}
}

func (c *compiler) reach(t reflect.Type) error {
	for !c.seen[t] {
		c.seen[t] = true
		switch t.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Array:
			t = t.Elem()
		case reflect.Map:
			if err := c.reach(t.Key()); err != nil {
				return err
			}
			t = t.Elem()
		case reflect.Struct:
			_, err := c.plan(t)
			return err
		default:
			return nil
		}
	}
	return nil
}

func (c *compiler) plan(t reflect.Type) (*plan, error) {
	if p, ok := plans.Load(t); ok {
		return p.(*plan), nil
	}
	if p, ok := c.pending[t]; ok {
		return p, nil
	}
	p := &plan{typ: t, name: t.Name()}
	if p.name == "" {
		p.name = t.String()
	}
	c.pending[t] = p

	attrs, err := containerAttrs(t)
	if err != nil {
		return nil, err
	}
	p.attrs = *attrs

	labels := map[string]bool{}
	claim := func(label, field string) error {
		if labels[label] {
			return (&AttrError{Message: "duplicate label " + strconv.Quote(label)}).at(t.String(), field)
		}
		labels[label] = true
		p.labels = append(p.labels, label)
		return nil
	}
	if attrs.Tag != "" {
		labels[attrs.Tag] = true
		p.labels = append(p.labels, attrs.Tag)
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Type == attrsType || f.Name == "_" {
			continue
		}
		fp, err := c.field(p, f, i)
		if err != nil {
			return nil, err
		}
		if fp == nil {
			continue
		}
		if attrs.Tuple {
			fp.label = strconv.Itoa(len(p.fields))
		}
		switch {
		case !fp.flatten:
			if err := claim(fp.label, f.Name); err != nil {
				return nil, err
			}
		case structLike(fp.typ):
			inner, err := c.plan(indirect(fp.typ))
			if err != nil {
				return nil, err
			}
			if inner == p {
				break
			}
			for _, l := range inner.labels {
				if err := claim(l, f.Name); err != nil {
					return nil, err
				}
			}
		}
		p.fields = append(p.fields, fp)
	}

	if attrs.Transparent {
		if len(p.fields) != 1 {
			return nil, (&AttrError{
				Attrs:   []string{"transparent"},
				Message: "requires exactly one field, found " + strconv.Itoa(len(p.fields)),
			}).at(t.String(), "")
		}
		if fp := p.fields[0]; fp.skip != SkipNever || fp.flatten {
			return nil, (&AttrError{
				Attrs:   []string{"transparent"},
				Message: "the field of a transparent type cannot be skipped or flattened",
			}).at(t.String(), fp.goName)
		}
	}
	if debug.Plan() {
		log := debug.Logger("plan")
		log.Debug().Str("type", t.String()).Int("fields", len(p.fields)).
			Bool("transparent", attrs.Transparent).Bool("tuple", attrs.Tuple).Msg("compiled")
	}
	return p, nil
}

func containerAttrs(t reflect.Type) (*ContainerAttrs, error) {
	var (
		res   *ContainerAttrs
		owner string
	)
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Type != attrsType {
			continue
		}
		if res != nil {
			return nil, (&AttrError{Message: "container attributes declared twice, on " + owner + " and " + f.Name}).at(t.String(), "")
		}
		a, err := ParseContainerAttrs(f.Tag.Get(TagKey))
		if err != nil {
			return nil, asAttrError(err).at(t.String(), "")
		}
		res, owner = a, f.Name
	}
	if res == nil {
		res = &ContainerAttrs{}
	}
	return res, nil
}

func (c *compiler) field(p *plan, f reflect.StructField, i int) (*fieldPlan, error) {
	tname := p.typ.String()
	fa, err := ParseFieldAttrs(f.Tag.Get(TagKey))
	if err != nil {
		return nil, asAttrError(err).at(tname, f.Name)
	}
	if fa.Skip == SkipAlways {
		return nil, nil
	}
	if f.Anonymous && fa.Rename == "" && fa.RenameCase == casing.None && structLike(f.Type) && !opaque(f.Type) {
		fa.Flatten = true
	}
	// promoted fields of an unexported embedded struct are still readable
	if !f.IsExported() && !(f.Anonymous && fa.Flatten) {
		return nil, nil
	}
	fail := func(attr, msg string, err error) (*fieldPlan, error) {
		return nil, (&AttrError{Attrs: []string{attr}, Message: msg, Err: err}).at(tname, f.Name)
	}
	fp := &fieldPlan{
		index:   i,
		goName:  f.Name,
		label:   fa.Label(f.Name, p.attrs.RenameAll),
		typ:     f.Type,
		skip:    fa.Skip,
		flatten: fa.Flatten,
	}
	switch fa.Skip {
	case SkipIfTrue, SkipIfFalse:
		if f.Type.Kind() != reflect.Bool {
			return fail(fa.Skip.String(), "requires a bool field, not "+f.Type.String(), nil)
		}
	case SkipIfNone:
		if !nilable(f.Type) && !f.Type.Implements(noneType) {
			return fail("skip_if_none", f.Type.String()+" has no none value", nil)
		}
	case SkipIfEmpty:
		if !lengthy(f.Type) && !f.Type.Implements(lengthType) {
			return fail("skip_if_empty", f.Type.String()+" has no length", nil)
		}
	case SkipIf:
		pred, err := compilePredicate(fa.SkipIf, f.Type, p.typ)
		if err != nil {
			return fail("skip_if", "invalid expression", err)
		}
		fp.pred = pred
	}
	if fa.Flatten {
		if !structLike(f.Type) && indirect(f.Type).Kind() != reflect.Map {
			return fail("flatten", "requires a struct or map field, not "+f.Type.String(), nil)
		}
		if opaque(f.Type) {
			return fail("flatten", f.Type.String()+" renders through its own methods and has no fields to splice", nil)
		}
	}
	if err := c.reach(f.Type); err != nil {
		return nil, err
	}
	return fp, nil
}

func asAttrError(err error) *AttrError {
	if ae, ok := err.(*AttrError); ok {
		return ae
	}
	return &AttrError{Message: "invalid attributes", Err: err}
}

func indirect(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

func structLike(t reflect.Type) bool {
	return indirect(t).Kind() == reflect.Struct
}

// opaque reports whether a struct renders through its own String, Error or
// TreeFmt method with no exported fields behind it, like time.Time or
// tree.Option.
func opaque(t reflect.Type) bool {
	t = indirect(t)
	if t.Kind() != reflect.Struct {
		return false
	}
	if textual(t) {
		return true
	}
	if !t.Implements(treeDisplayType) && !reflect.PointerTo(t).Implements(treeDisplayType) {
		return false
	}
	for i := 0; i < t.NumField(); i++ {
		if f := t.Field(i); f.IsExported() && f.Type != attrsType {
			return false
		}
	}
	return true
}

func nilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	}
	return false
}

func lengthy(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map, reflect.Chan:
		return true
	}
	return false
}
