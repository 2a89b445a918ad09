package codegen

import (
	"fmt"
	"go/types"
	"sync"

	"golang.org/x/tools/go/packages"

	"github.com/signadot/treedisplay/debug"
)

// PackageLoader loads and caches type-checked Go packages.
type PackageLoader struct {
	cache map[string]*packages.Package
	mu    sync.RWMutex
}

// NewPackageLoader creates a new PackageLoader.
func NewPackageLoader() *PackageLoader {
	return &PackageLoader{
		cache: make(map[string]*packages.Package),
	}
}

// LoadDir loads the package in dir.
func (l *PackageLoader) LoadDir(dir string) (*packages.Package, error) {
	l.mu.RLock()
	if pkg, ok := l.cache[dir]; ok {
		l.mu.RUnlock()
		return pkg, nil
	}
	l.mu.RUnlock()

	l.mu.Lock()
	defer l.mu.Unlock()

	// Check again in case it was loaded while we were waiting for the lock
	if pkg, ok := l.cache[dir]; ok {
		return pkg, nil
	}

	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedImports | packages.NeedTypes | packages.NeedTypesInfo,
		Dir:  dir,
	}
	pkgs, err := packages.Load(cfg, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to load package in %q: %w", dir, err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no package found in %q", dir)
	}
	pkg := pkgs[0]
	// Type errors are tolerated: code may refer to methods that have not
	// been generated yet.
	if len(pkg.Errors) > 0 && debug.Codegen() {
		log := debug.Logger("codegen")
		log.Debug().Str("dir", dir).Int("errors", len(pkg.Errors)).Str("first", pkg.Errors[0].Error()).Msg("package loaded with errors")
	}
	l.cache[dir] = pkg
	return pkg, nil
}

// Types returns the type information of the package in dir.
func (l *PackageLoader) Types(dir string) (*types.Package, error) {
	pkg, err := l.LoadDir(dir)
	if err != nil {
		return nil, err
	}
	if pkg.Types == nil {
		return nil, fmt.Errorf("package %q has no type information", pkg.PkgPath)
	}
	return pkg.Types, nil
}
