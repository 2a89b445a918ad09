package codegen

import (
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/signadot/treedisplay/casing"
	"github.com/signadot/treedisplay/shape"
)

func TestGenerate(t *testing.T) {
	structs := []*TypeInfo{
		{Name: "Point"},
		{Name: "Pair", TypeParams: []string{"K", "V"}},
	}
	unions := []*UnionInfo{
		{
			Name:   "Shape",
			Config: shape.UnionConfig{Tag: "kind", RenameAll: casing.Snake},
			Variants: []*Variant{
				{Name: "Circle", Struct: true},
				{Name: "Square", Pointer: true, Struct: true},
			},
		},
		{
			Name:     "Plain",
			Variants: []*Variant{{Name: "Meters"}},
		},
	}
	out, err := Generate("geom", structs, unions)
	if err != nil {
		t.Fatal(err)
	}
	src := string(out)

	if _, err := parser.ParseFile(token.NewFileSet(), "gen.go", out, parser.ParseComments); err != nil {
		t.Fatalf("generated code does not parse: %v\n%s", err, src)
	}

	for _, want := range []string{
		GeneratedHeader,
		"package geom",
		`"github.com/signadot/treedisplay/casing"`,
		"func (v Point) TreeFmt(w io.Writer, ctx tree.Context, tctx tree.Transient) error {",
		"return shape.Render(w, v, ctx, tctx)",
		"func (v Pair[K, V]) TypeNameFmt(w io.Writer) error {",
		"return shape.TypeName(w, v)",
		`shape.MustRegisterUnion[Shape](shape.UnionConfig{Tag: "kind", RenameAll: casing.Snake},`,
		"*new(*Square),",
		"shape.MustRegisterUnion[Plain](shape.UnionConfig{},",
		"*new(Meters),",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("generated code lacks %q:\n%s", want, src)
		}
	}
}

func TestGenerateUnionsOnly(t *testing.T) {
	out, err := Generate("p", nil, []*UnionInfo{{Name: "U", Variants: []*Variant{{Name: "A"}}}})
	if err != nil {
		t.Fatal(err)
	}
	src := string(out)
	if strings.Contains(src, `"io"`) || strings.Contains(src, "/tree\"") || strings.Contains(src, "/casing\"") {
		t.Errorf("unexpected imports:\n%s", src)
	}
}

func TestGenerateUnresolvedUnion(t *testing.T) {
	if _, err := Generate("p", nil, []*UnionInfo{{Name: "U"}}); err == nil {
		t.Error("expected an error for a union without variants")
	}
}
