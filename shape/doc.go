// Package shape renders user-declared Go types as trees.
//
// Structs render as records of their exported fields, interfaces registered
// with [RegisterUnion] render as tagged choices, and the remaining kinds map
// onto the built-ins of the tree package. Rendering is controlled by `tree`
// struct tags.
//
// # Usage
//
//	type Point struct {
//	    shape.Attrs `tree:"rename_all_snake"`
//	    XPos  int
//	    YPos  int
//	    Label string `tree:"skip_if_empty"`
//	}
//	out, err := shape.Sprint(Point{XPos: 1, YPos: 2})
//	// ├──x_pos
//	// |  └─1
//	// └──y_pos
//	//    └─2
//
// # Field Attributes
//
//   - skip or - : never render the field
//   - skip_if=expr : skip when the expr-lang expression is true; it sees
//     the field as value and the struct as parent
//   - skip_if_true, skip_if_false : for bool fields
//   - skip_if_none : skip nil values and values whose IsNone() is true
//   - skip_if_empty : skip values of length zero
//   - rename=name, rename_pascal, rename_snake, rename_kebab, rename_camel
//   - flatten : splice a struct or map field's children into the parent
//
// # Container Attributes
//
// Container attributes go on the tag of an [Attrs] field:
//
//   - transparent : render as the single field
//   - tag=name : add a first field holding the type name
//   - tuple : label fields by position
//   - rename_all_pascal, rename_all_snake, rename_all_kebab, rename_all_camel
//   - skip, rename=name and the rename_* forms, when the type is a variant
//
// Unions take a [UnionConfig] with Tag, Content, Untagged and RenameAll.
//
// Conflicting or misplaced attributes are reported as [*AttrError] when a
// type's plan is compiled, which happens on first use or through [Compile].
//
// # Related Packages
//
//   - github.com/signadot/treedisplay/tree - the rendering core
//   - github.com/signadot/treedisplay/codegen - generated methods
package shape
