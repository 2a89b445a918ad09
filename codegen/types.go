package codegen

import (
	"go/ast"
	"go/token"

	"github.com/signadot/treedisplay/shape"
)

// TypeInfo holds a struct declaration that gets generated methods.
type TypeInfo struct {
	// Name is the struct type name
	Name string

	// TypeParams are the names of the type parameters, if any
	TypeParams []string

	// Package is the package name this type belongs to
	Package string

	// FilePath is the path to the source file containing this type
	FilePath string

	// Pos is the position of the type name
	Pos token.Position

	// Attrs are the container attributes, from an Attrs marker field
	Attrs *shape.ContainerAttrs

	// Fields holds the fields in declaration order
	Fields []*FieldInfo

	// ASTNode is the original AST node for this struct
	ASTNode *ast.StructType
}

// FieldInfo holds one field of a struct declaration.
type FieldInfo struct {
	Name       string
	Attrs      *shape.FieldAttrs
	ASTType    ast.Expr
	IsEmbedded bool
	Pos        token.Position
}

// UnionInfo holds an interface declared as a union with a
// //treedisplay:union directive.
type UnionInfo struct {
	// Name is the interface type name
	Name string

	// Config is parsed from the directive arguments
	Config shape.UnionConfig

	FilePath string
	Pos      token.Position

	// Variants are filled in from type information, see FindVariants
	Variants []*Variant
}

// Variant is a type implementing a union interface.
type Variant struct {
	Name string

	// Pointer is set when only the pointer type implements the interface
	Pointer bool

	// Struct is set when the underlying type is a struct
	Struct bool
}

// Expr is the Go type expression of the variant.
func (v *Variant) Expr() string {
	if v.Pointer {
		return "*" + v.Name
	}
	return v.Name
}

// PackageInfo holds information about a Go package
type PackageInfo struct {
	// Path is the package import path (e.g., "example.com/geo/shapes")
	Path string

	// Dir is the directory containing the package
	Dir string

	// Name is the package name (e.g., "shapes")
	Name string

	// Files contains paths to all .go files in the package
	Files []string
}

// CodegenConfig holds configuration for code generation
type CodegenConfig struct {
	// OutputFile is the output file for generated Go code (default: <package>_treedisplay.go)
	OutputFile string

	// Dir is the directory to scan for Go files (default: current directory)
	Dir string

	// Recursive indicates whether to scan subdirectories recursively
	Recursive bool

	// Package is the current package being processed
	Package *PackageInfo
}
