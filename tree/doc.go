// Package tree renders values as indented tree diagrams.
//
// Every renderable value implements [TreeDisplay]. Built-in implementations
// cover scalars, sequences, optional and fallible values, tuples, boxes and
// ordered records; user-declared structs and unions are covered by the shape
// package, either by reflection or through generated methods.
//
// # Usage
//
//	v := tree.Record{
//	    {Name: "a", Value: tree.Val(1)},
//	    {Name: "b", Value: tree.Val(2)},
//	}
//	out, err := tree.Sprint(v)
//	// ├──a
//	// |  └─1
//	// └──b
//	//    └─2
//
//	// With options
//	out, err = tree.Sprint(v, tree.ShowTypes(true), tree.Sparsity(1))
//
// # Related Packages
//
//   - github.com/signadot/treedisplay/shape - struct tags, unions and reflection
//   - github.com/signadot/treedisplay/treetest - fixture comparison
package tree
