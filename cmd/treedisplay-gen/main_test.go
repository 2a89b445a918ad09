package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/signadot/treedisplay/codegen"
)

func TestProcessPackage(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"point.go": "package geom\n\ntype Point struct {\n\tX int `tree:\"rename=x\"`\n\tY int\n}\n\n//treedisplay:generate\ntype Size struct{ W, H int }\n",
		"manual.go": "package geom\n\ntype Manual struct {\n\tN int `tree:\"rename=n\"`\n}\n",
		"manual_fmt.go": "package geom\n\nimport \"io\"\n\nfunc (Manual) TreeFmt(io.Writer) error { return nil }\n",
	}
	for name, src := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	pkgs, err := codegen.DiscoverPackages(dir, false)
	if err != nil || len(pkgs) != 1 {
		t.Fatalf("discover: %v %v", pkgs, err)
	}

	out := filepath.Join(dir, "geom_treedisplay.go")
	for i := 0; i < 2; i++ {
		if i == 1 {
			// the generated file is now part of the package
			pkgs, err = codegen.DiscoverPackages(dir, false)
			if err != nil {
				t.Fatal(err)
			}
		}
		if err := processPackage(&Config{}, pkgs[0], codegen.NewPackageLoader()); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		d, err := os.ReadFile(out)
		if err != nil {
			t.Fatal(err)
		}
		src := string(d)
		if !strings.HasPrefix(src, codegen.GeneratedHeader) {
			t.Errorf("run %d: missing header", i)
		}
		for _, want := range []string{"func (v Point) TreeFmt(", "func (v Size) TypeNameFmt("} {
			if !strings.Contains(src, want) {
				t.Errorf("run %d: output lacks %q:\n%s", i, want, src)
			}
		}
		if strings.Contains(src, "Manual") {
			t.Errorf("run %d: hand written TreeFmt was overridden:\n%s", i, src)
		}
	}
}

func TestProcessPackageNothingToDo(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.go"), []byte("package a\n\ntype A struct{ N int }\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	pkgs, err := codegen.DiscoverPackages(dir, false)
	if err != nil {
		t.Fatal(err)
	}
	if err := processPackage(&Config{OutputFile: "out.go"}, pkgs[0], codegen.NewPackageLoader()); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "out.go")); !os.IsNotExist(err) {
		t.Errorf("unexpected output file: %v", err)
	}
}
