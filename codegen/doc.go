// Package codegen generates TreeFmt and TypeNameFmt methods for Go structs
// and union registrations for interfaces.
//
// A struct is picked up when one of its fields carries a `tree` tag, when
// it has a shape.Attrs marker field, or when its doc comment holds a
// //treedisplay:generate directive. An interface becomes a union with
//
//	//treedisplay:union tag=kind rename_all_snake
//	type Shape interface{ area() float64 }
//
// Attributes are checked while generating, so malformed or conflicting
// attributes fail the generator instead of a later render.
//
// Generated code appears in *_treedisplay.go files. The methods delegate to
// shape.Render and shape.TypeName; the unions are registered from an init
// function.
//
// # Related Packages
//
//   - github.com/signadot/treedisplay/shape - Attributes and rendering
//   - github.com/signadot/treedisplay/cmd/treedisplay-gen - Command line
package codegen
