package shape

import (
	"io"
	"reflect"
	"strconv"
	"sync"

	"github.com/signadot/treedisplay/debug"
	"github.com/signadot/treedisplay/tree"
)

// A union is an interface type whose implementations were registered as
// its variants. Values of the interface render as the chosen variant, with
// the variant's name shown according to the union's tagging mode.
type union struct {
	iface    reflect.Type
	cfg      UnionConfig
	variants map[reflect.Type]*variant
}

type variant struct {
	typ  reflect.Type
	name string
	skip bool

	// plan is set for struct variants
	plan *plan
}

var unions = struct {
	sync.RWMutex
	m map[reflect.Type]*union
}{m: map[reflect.Type]*union{}}

func lookupUnion(t reflect.Type) *union {
	unions.RLock()
	defer unions.RUnlock()
	return unions.m[t]
}

// RegisterUnion declares the dynamic types of variants as the variants of
// the interface I. Only the types of the given values matter.
//
//	shape.MustRegisterUnion[Shape](shape.UnionConfig{Tag: "kind"}, Circle{}, Square{})
func RegisterUnion[I any](cfg UnionConfig, variants ...I) error {
	it := reflect.TypeFor[I]()
	types := make([]reflect.Type, 0, len(variants))
	for i, v := range variants {
		vt := reflect.TypeOf(any(v))
		if vt == nil {
			return &UnionError{Union: it.String(), Message: "variant " + strconv.Itoa(i) + " is nil"}
		}
		types = append(types, vt)
	}
	return RegisterUnionType(it, cfg, types...)
}

// MustRegisterUnion is RegisterUnion, panicking on error. It is meant for
// init functions.
func MustRegisterUnion[I any](cfg UnionConfig, variants ...I) {
	if err := RegisterUnion(cfg, variants...); err != nil {
		panic(err)
	}
}

// RegisterUnionType is RegisterUnion with explicit types.
func RegisterUnionType(iface reflect.Type, cfg UnionConfig, variants ...reflect.Type) error {
	uname := iface.String()
	fail := func(variant, msg string, err error) error {
		return &UnionError{Union: uname, Variant: variant, Message: msg, Err: err}
	}
	if iface.Kind() != reflect.Interface {
		return fail("", "not an interface type", nil)
	}
	if iface.NumMethod() == 0 {
		return fail("", "the empty interface cannot be a union", nil)
	}
	if err := cfg.Validate(); err != nil {
		return fail("", "invalid attributes", err)
	}
	if len(variants) == 0 {
		return fail("", "no variants", nil)
	}
	u := &union{iface: iface, cfg: cfg, variants: make(map[reflect.Type]*variant, len(variants))}
	names := map[string]string{}

	compileMu.Lock()
	defer compileMu.Unlock()
	c := newCompiler()
	for _, vt := range variants {
		goName := indirect(vt).Name()
		if goName == "" {
			goName = vt.String()
		}
		if !vt.Implements(iface) {
			return fail(goName, "does not implement "+uname, nil)
		}
		if _, dup := u.variants[vt]; dup {
			return fail(goName, "registered twice", nil)
		}
		vr := &variant{typ: vt}
		if base := indirect(vt); base.Kind() == reflect.Struct {
			p, err := c.plan(base)
			if err != nil {
				return fail(goName, "invalid variant", err)
			}
			vr.plan = p
			vr.skip = p.attrs.Skip
			vr.name = p.attrs.Name(goName, cfg.RenameAll)
		} else {
			if err := c.reach(vt); err != nil {
				return fail(goName, "invalid variant", err)
			}
			vr.name = cfg.RenameAll.Apply(goName)
		}
		if cfg.Tag != "" && cfg.Content == "" && !vr.skip {
			if vr.plan == nil || vr.plan.attrs.Transparent || vr.plan.attrs.Tuple {
				return fail(goName, "an internally tagged union needs struct variants", nil)
			}
		}
		if other, dup := names[vr.name]; dup {
			return fail(goName, "name "+strconv.Quote(vr.name)+" is also used by "+other, nil)
		}
		names[vr.name] = goName
		u.variants[vt] = vr
	}

	unions.Lock()
	defer unions.Unlock()
	if _, dup := unions.m[iface]; dup {
		return fail("", "already registered", nil)
	}
	c.publish()
	unions.m[iface] = u
	if debug.Plan() {
		log := debug.Logger("plan")
		log.Debug().Str("union", uname).Int("variants", len(u.variants)).Msg("registered")
	}
	return nil
}

// unit reports whether the variant has no payload at all.
func (vr *variant) unit() bool {
	return vr.plan != nil && len(vr.plan.fields) == 0 && vr.plan.attrs.Tag == ""
}

// payload is the rendering of the variant's value without its name.
func (vr *variant) payload(v reflect.Value) tree.TreeDisplay {
	if vr.plan == nil {
		return nodeOf(v)
	}
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return tree.Nothing{}
		}
		v = v.Elem()
	}
	return recordNode{p: vr.plan, v: v}
}

type unionNode struct {
	u *union
	v reflect.Value
}

func (n unionNode) TreeFmt(w io.Writer, ctx tree.Context, tctx tree.Transient) error {
	if n.v.IsNil() {
		return tree.FmtNone(w, ctx)
	}
	dyn := n.v.Elem()
	vr, ok := n.u.variants[dyn.Type()]
	if !ok {
		return nodeOf(dyn).TreeFmt(w, ctx, tctx)
	}
	if debug.Render() {
		log := debug.Logger("render")
		log.Debug().Str("union", n.u.iface.String()).Str("variant", vr.name).Bool("skip", vr.skip).Msg("dispatch")
	}
	if vr.skip {
		return ctx.Fill(w, false)
	}
	cfg := n.u.cfg
	switch {
	case cfg.Untagged:
		if vr.unit() {
			return tree.WriteLeaf(w, ctx.Plain(), vr.name)
		}
		return vr.payload(dyn).TreeFmt(w, ctx.Plain(), tctx)
	case cfg.Content != "":
		fields := []tree.Field{{Name: cfg.Tag, Value: tree.Val(vr.name)}}
		if !vr.unit() {
			fields = append(fields, tree.Field{Name: cfg.Content, Value: vr.payload(dyn)})
		}
		return tree.FmtFields(w, ctx, tctx, fields)
	case cfg.Tag != "":
		fields := []tree.Field{{Name: cfg.Tag, Value: tree.Val(vr.name)}}
		if rec, ok := vr.payload(dyn).(recordNode); ok {
			rest, err := rec.fields()
			if err != nil {
				return err
			}
			fields = append(fields, rest...)
		}
		return tree.FmtFields(w, ctx, tctx, fields)
	}
	return variantNode{name: vr.name, payload: vr.payload(dyn)}.TreeFmt(w, ctx.WithRename(vr.name), tctx)
}

func (n unionNode) TypeNameFmt(w io.Writer) error {
	return tree.WriteTypeName(w, n.u.iface.Name())
}

// variantNode writes a variant name as a branch with the payload under it.
type variantNode struct {
	name    string
	payload tree.TreeDisplay
}

func (n variantNode) TreeFmt(w io.Writer, ctx tree.Context, _ tree.Transient) error {
	if err := tree.WriteLabel(w, ctx, tree.BranchLast, ctx.Label(n.name), n.payload); err != nil {
		return err
	}
	return n.payload.TreeFmt(w, ctx.Nest(), tree.Transient{})
}

func (n variantNode) TypeNameFmt(w io.Writer) error {
	return n.payload.TypeNameFmt(w)
}
