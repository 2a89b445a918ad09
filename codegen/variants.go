package codegen

import (
	"fmt"
	"go/types"
	"sort"
)

// FindVariants returns the named types of pkg that implement the interface
// named iface, in declaration order. A type whose pointer implements the
// interface, but not the type itself, is returned as a pointer variant.
// Interfaces and generic types are never variants.
func FindVariants(pkg *types.Package, iface string) ([]*Variant, error) {
	obj := pkg.Scope().Lookup(iface)
	if obj == nil {
		return nil, fmt.Errorf("type %q not found in package %q", iface, pkg.Path())
	}
	tn, ok := obj.(*types.TypeName)
	if !ok {
		return nil, fmt.Errorf("%q is not a type name", iface)
	}
	it, ok := tn.Type().Underlying().(*types.Interface)
	if !ok {
		return nil, fmt.Errorf("%q is not an interface", iface)
	}
	if it.NumMethods() == 0 {
		return nil, fmt.Errorf("%q has no methods, every type would be a variant", iface)
	}

	type found struct {
		v   *Variant
		obj types.Object
	}
	var res []found
	scope := pkg.Scope()
	for _, name := range scope.Names() {
		o, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || o.IsAlias() {
			continue
		}
		named, ok := o.Type().(*types.Named)
		if !ok || types.IsInterface(named) || named.TypeParams().Len() > 0 {
			continue
		}
		_, isStruct := named.Underlying().(*types.Struct)
		switch {
		case types.Implements(named, it):
			res = append(res, found{&Variant{Name: name, Struct: isStruct}, o})
		case types.Implements(types.NewPointer(named), it):
			res = append(res, found{&Variant{Name: name, Pointer: true, Struct: isStruct}, o})
		}
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].obj.Pos() < res[j].obj.Pos()
	})
	variants := make([]*Variant, len(res))
	for i := range res {
		variants[i] = res[i].v
	}
	return variants, nil
}

// ResolveUnions fills in the variants of each union from pkg and checks
// that they suit the union's tagging.
func ResolveUnions(pkg *types.Package, unions []*UnionInfo) error {
	for _, u := range unions {
		variants, err := FindVariants(pkg, u.Name)
		if err != nil {
			return fmt.Errorf("%s: union %s: %w", u.Pos, u.Name, err)
		}
		if len(variants) == 0 {
			return fmt.Errorf("%s: union %s has no variants in package %s", u.Pos, u.Name, pkg.Name())
		}
		if u.Config.Tag != "" && u.Config.Content == "" {
			for _, v := range variants {
				if !v.Struct {
					return fmt.Errorf("%s: union %s: variant %s: an internally tagged union needs struct variants", u.Pos, u.Name, v.Name)
				}
			}
		}
		u.Variants = variants
	}
	return nil
}
