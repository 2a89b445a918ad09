package codegen

import (
	"errors"
	"fmt"
	"go/build"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
)

// DiscoverPackages lists the Go packages in dir, and with recursive set in
// its subdirectories too. Hidden, underscore, vendor and testdata
// directories are never entered. Import paths are derived from the
// enclosing go.mod when there is one.
func DiscoverPackages(dir string, recursive bool) ([]*PackageInfo, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for %q: %w", dir, err)
	}
	mod := findModule(root)

	var res []*PackageInfo
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && (!recursive || ignoredDir(d.Name())) {
			return filepath.SkipDir
		}
		pkg, err := packageAt(p, mod)
		if err != nil {
			return err
		}
		if pkg != nil {
			res = append(res, pkg)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory %q: %w", dir, err)
	}
	return res, nil
}

func ignoredDir(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") ||
		name == "vendor" || name == "testdata"
}

// packageAt returns the package in dir, or nil when dir holds no buildable
// non-test Go files.
func packageAt(dir string, mod *module) (*PackageInfo, error) {
	bp, err := build.ImportDir(dir, 0)
	var noGo *build.NoGoError
	switch {
	case errors.As(err, &noGo):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("%s: %w", dir, err)
	case len(bp.GoFiles) == 0:
		return nil, nil
	}
	files := make([]string, len(bp.GoFiles))
	for i, f := range bp.GoFiles {
		files[i] = filepath.Join(dir, f)
	}
	return &PackageInfo{
		Path:  mod.importPath(dir, bp.ImportPath),
		Dir:   dir,
		Name:  bp.Name,
		Files: files,
	}, nil
}

type module struct {
	path string
	dir  string
}

// findModule looks for go.mod in dir and its parents.
func findModule(dir string) *module {
	for {
		data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
		if err == nil {
			if mp := modfile.ModulePath(data); mp != "" {
				return &module{path: mp, dir: dir}
			}
			return nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil
		}
		dir = parent
	}
}

func (m *module) importPath(dir, def string) string {
	if m == nil {
		return def
	}
	rel, err := filepath.Rel(m.dir, dir)
	if err != nil || strings.HasPrefix(rel, "..") {
		return def
	}
	if rel == "." {
		return m.path
	}
	return path.Join(m.path, filepath.ToSlash(rel))
}
