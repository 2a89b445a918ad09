package codegen

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"reflect"
	"strconv"
	"strings"

	"github.com/signadot/treedisplay/shape"
)

const (
	directivePrefix   = "//treedisplay:"
	generateDirective = "generate"
	unionDirective    = "union"

	shapeImportSuffix = "/treedisplay/shape"
)

// ParseFile parses a Go source file and returns its AST.
func ParseFile(filename string) (*ast.File, *token.FileSet, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, nil, parser.ParseComments)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse file %q: %w", filename, err)
	}
	return file, fset, nil
}

// ExtractTypes extracts the structs needing generated methods and the
// interfaces declared as unions from an AST file. Attributes are validated
// as they are extracted.
//
// Structs that already declare TreeFmt by hand are left out.
func ExtractTypes(file *ast.File, fset *token.FileSet, filePath string) ([]*TypeInfo, []*UnionInfo, error) {
	var (
		structs []*TypeInfo
		unions  []*UnionInfo
	)
	shapeName := shapeImportName(file)
	declared := DeclaredMethods(file)

	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}
		for _, spec := range genDecl.Specs {
			typeSpec, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			name := typeSpec.Name.Name
			pos := fset.Position(typeSpec.Name.Pos())

			directives := ExtractDirectives(genDecl.Doc, typeSpec.Doc)

			switch t := typeSpec.Type.(type) {
			case *ast.InterfaceType:
				args, ok := directives[unionDirective]
				if !ok {
					continue
				}
				cfg, err := shape.ParseUnionConfig(args)
				if err != nil {
					return nil, nil, fmt.Errorf("%s: union %s: %w", pos, name, err)
				}
				unions = append(unions, &UnionInfo{
					Name:     name,
					Config:   cfg,
					FilePath: filePath,
					Pos:      pos,
				})

			case *ast.StructType:
				_, generate := directives[generateDirective]
				info, tagged, err := extractStruct(fset, t, shapeName)
				if err != nil {
					return nil, nil, fmt.Errorf("%s: struct %s: %w", pos, name, err)
				}
				if !generate && !tagged {
					continue
				}
				if declared[name]["TreeFmt"] {
					continue
				}
				info.Name = name
				info.Package = file.Name.Name
				info.FilePath = filePath
				info.Pos = pos
				info.ASTNode = t
				if typeSpec.TypeParams != nil {
					for _, field := range typeSpec.TypeParams.List {
						for _, n := range field.Names {
							info.TypeParams = append(info.TypeParams, n.Name)
						}
					}
				}
				structs = append(structs, info)

			default:
				if _, ok := directives[generateDirective]; ok {
					return nil, nil, fmt.Errorf("%s: %s: //treedisplay:generate applies to struct types", pos, name)
				}
			}
		}
	}
	return structs, unions, nil
}

// ExtractDirectives collects //treedisplay:name args lines from doc
// comments, keyed by name. Repeated directives have their arguments
// joined.
func ExtractDirectives(docs ...*ast.CommentGroup) map[string]string {
	res := map[string]string{}
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		for _, c := range doc.List {
			if !strings.HasPrefix(c.Text, directivePrefix) {
				continue
			}
			rest := strings.TrimPrefix(c.Text, directivePrefix)
			name, args, _ := strings.Cut(rest, " ")
			args = strings.TrimSpace(args)
			if prev, ok := res[name]; ok && prev != "" {
				args = prev + " " + args
			}
			res[name] = strings.TrimSpace(args)
		}
	}
	return res
}

// extractStruct collects the fields and attributes of a struct type. The
// returned bool reports whether the struct carries any tree attributes.
func extractStruct(fset *token.FileSet, st *ast.StructType, shapeName string) (*TypeInfo, bool, error) {
	info := &TypeInfo{Attrs: &shape.ContainerAttrs{}}
	tagged := false
	markers := 0
	if st.Fields == nil {
		return info, false, nil
	}
	for _, field := range st.Fields.List {
		tag, hasTag, err := getFieldTag(field, shape.TagKey)
		if err != nil {
			return nil, false, err
		}
		if isAttrsMarker(field.Type, shapeName) {
			markers++
			if markers > 1 {
				return nil, false, fmt.Errorf("container attributes declared twice")
			}
			attrs, err := shape.ParseContainerAttrs(tag)
			if err != nil {
				return nil, false, err
			}
			info.Attrs = attrs
			tagged = true
			continue
		}
		if hasTag {
			tagged = true
		}
		fa, err := shape.ParseFieldAttrs(tag)
		if err != nil {
			return nil, false, fmt.Errorf("field %s: %w", fieldLabel(field), err)
		}
		pos := fset.Position(field.Pos())
		if len(field.Names) == 0 {
			name, err := getEmbeddedFieldName(field.Type)
			if err != nil {
				return nil, false, err
			}
			info.Fields = append(info.Fields, &FieldInfo{
				Name:       name,
				Attrs:      fa,
				ASTType:    field.Type,
				IsEmbedded: true,
				Pos:        pos,
			})
			continue
		}
		for _, n := range field.Names {
			if n.Name == "_" || !n.IsExported() {
				continue
			}
			info.Fields = append(info.Fields, &FieldInfo{
				Name:    n.Name,
				Attrs:   fa,
				ASTType: field.Type,
				Pos:     pos,
			})
		}
	}
	if info.Attrs.Transparent {
		n := 0
		for _, f := range info.Fields {
			if f.Attrs.Skip != shape.SkipAlways {
				n++
			}
		}
		if n != 1 {
			return nil, false, fmt.Errorf("transparent requires exactly one field, found %d", n)
		}
	}
	return info, tagged, nil
}

func fieldLabel(field *ast.Field) string {
	if len(field.Names) > 0 {
		return field.Names[0].Name
	}
	name, err := getEmbeddedFieldName(field.Type)
	if err != nil {
		return "<embedded>"
	}
	return name
}

// getFieldTag extracts a specific tag value from a field's tag string.
func getFieldTag(field *ast.Field, tagName string) (string, bool, error) {
	if field.Tag == nil {
		return "", false, nil
	}
	raw, err := strconv.Unquote(field.Tag.Value)
	if err != nil {
		return "", false, fmt.Errorf("malformed struct tag %s: %w", field.Tag.Value, err)
	}
	v, ok := reflect.StructTag(raw).Lookup(tagName)
	return v, ok, nil
}

// isAttrsMarker reports whether expr names shape.Attrs.
func isAttrsMarker(expr ast.Expr, shapeName string) bool {
	sel, ok := expr.(*ast.SelectorExpr)
	if !ok || shapeName == "" {
		return false
	}
	x, ok := sel.X.(*ast.Ident)
	return ok && x.Name == shapeName && sel.Sel.Name == "Attrs"
}

// shapeImportName returns the local name of the shape package in file, or
// "" if it isn't imported.
func shapeImportName(file *ast.File) string {
	for _, imp := range file.Imports {
		path := strings.Trim(imp.Path.Value, `"`)
		if !strings.HasSuffix(path, shapeImportSuffix) {
			continue
		}
		if imp.Name != nil {
			return imp.Name.Name
		}
		return "shape"
	}
	return ""
}

// DeclaredMethods maps receiver type names to the methods declared on them.
func DeclaredMethods(file *ast.File) map[string]map[string]bool {
	res := map[string]map[string]bool{}
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Recv == nil || len(fn.Recv.List) == 0 {
			continue
		}
		name := receiverName(fn.Recv.List[0].Type)
		if name == "" {
			continue
		}
		if res[name] == nil {
			res[name] = map[string]bool{}
		}
		res[name][fn.Name.Name] = true
	}
	return res
}

func receiverName(expr ast.Expr) string {
	switch x := expr.(type) {
	case *ast.Ident:
		return x.Name
	case *ast.StarExpr:
		return receiverName(x.X)
	case *ast.IndexExpr:
		return receiverName(x.X)
	case *ast.IndexListExpr:
		return receiverName(x.X)
	}
	return ""
}

// getEmbeddedFieldName extracts the field name from an embedded field type.
func getEmbeddedFieldName(expr ast.Expr) (string, error) {
	switch x := expr.(type) {
	case *ast.Ident:
		return x.Name, nil
	case *ast.SelectorExpr:
		return x.Sel.Name, nil
	case *ast.StarExpr:
		return getEmbeddedFieldName(x.X)
	case *ast.IndexExpr:
		return getEmbeddedFieldName(x.X)
	case *ast.IndexListExpr:
		return getEmbeddedFieldName(x.X)
	default:
		return "", fmt.Errorf("unsupported embedded field type: %T", expr)
	}
}
