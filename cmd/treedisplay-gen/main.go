package main

import (
	"context"
	"fmt"
	"go/ast"
	"os"
	"path/filepath"
	"strings"

	"github.com/scott-cotton/cli"

	"github.com/signadot/treedisplay/codegen"
)

func main() {
	cli.MainContext(context.Background(), MainCommand())
}

func MainCommand() *cli.Command {
	cfg := &Config{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}

	return cli.NewCommand("treedisplay-gen").
		WithSynopsis("treedisplay-gen [opts]").
		WithDescription("Generate TreeFmt/TypeNameFmt methods for structs with tree tags and register interfaces marked //treedisplay:union.").
		WithOpts(sOpts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return run(cfg, cc, args)
		})
}

type Config struct {
	OutputFile string `cli:"name=o desc='name of the generated file in each package directory (default: <package>_treedisplay.go)'"`
	Dir        string `cli:"name=dir desc='directory to scan for Go files (default: current directory)'"`
	Recursive  bool   `cli:"name=recursive desc='scan subdirectories recursively'"`
}

func run(cfg *Config, cc *cli.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("%w: unexpected arguments %v", cli.ErrUsage, args)
	}
	if strings.ContainsRune(cfg.OutputFile, filepath.Separator) {
		return fmt.Errorf("%w: -o names a file, not a path", cli.ErrUsage)
	}
	dir := cfg.Dir
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}
	}

	packages, err := codegen.DiscoverPackages(dir, cfg.Recursive)
	if err != nil {
		return fmt.Errorf("failed to discover packages: %w", err)
	}
	if len(packages) == 0 {
		return fmt.Errorf("no Go packages found in %q", dir)
	}

	loader := codegen.NewPackageLoader()
	for _, pkg := range packages {
		fmt.Fprintf(cc.Out, "Processing package: %s\n", pkg.Name)
		if err := processPackage(cfg, pkg, loader); err != nil {
			return fmt.Errorf("failed to process package %q: %w", pkg.Path, err)
		}
	}
	return nil
}

func processPackage(cfg *Config, pkg *codegen.PackageInfo, loader *codegen.PackageLoader) error {
	config := &codegen.CodegenConfig{
		OutputFile: cfg.OutputFile,
		Dir:        pkg.Dir,
		Package:    pkg,
	}
	if config.OutputFile == "" {
		config.OutputFile = pkg.Name + "_treedisplay.go"
	}
	config.OutputFile = filepath.Join(pkg.Dir, config.OutputFile)

	var (
		allStructs []*codegen.TypeInfo
		allUnions  []*codegen.UnionInfo
		files      []*ast.File
	)
	for _, filePath := range pkg.Files {
		file, fset, err := codegen.ParseFile(filePath)
		if err != nil {
			return err
		}
		// Output of earlier runs is regenerated, never read.
		if ast.IsGenerated(file) {
			continue
		}
		structs, unions, err := codegen.ExtractTypes(file, fset, filePath)
		if err != nil {
			return fmt.Errorf("failed to extract types from %q: %w", filePath, err)
		}
		files = append(files, file)
		allStructs = append(allStructs, structs...)
		allUnions = append(allUnions, unions...)
	}

	// A method may be declared in a different file than its type.
	declared := map[string]map[string]bool{}
	for _, f := range files {
		for recv, methods := range codegen.DeclaredMethods(f) {
			if declared[recv] == nil {
				declared[recv] = map[string]bool{}
			}
			for m := range methods {
				declared[recv][m] = true
			}
		}
	}
	structs := allStructs[:0]
	for _, s := range allStructs {
		if !declared[s.Name]["TreeFmt"] {
			structs = append(structs, s)
		}
	}

	if len(structs) == 0 && len(allUnions) == 0 {
		return nil
	}

	if len(allUnions) > 0 {
		tpkg, err := loader.Types(pkg.Dir)
		if err != nil {
			return err
		}
		if err := codegen.ResolveUnions(tpkg, allUnions); err != nil {
			return err
		}
	}

	code, err := codegen.Generate(pkg.Name, structs, allUnions)
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}
	if err := os.WriteFile(config.OutputFile, code, 0644); err != nil {
		return fmt.Errorf("failed to write output file %q: %w", config.OutputFile, err)
	}
	return nil
}
