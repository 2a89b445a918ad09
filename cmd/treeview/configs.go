package main

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"

	"github.com/signadot/treedisplay/tree"
)

type MainConfig struct {
	Types      bool   `cli:"name=types desc='show type names after labels'"`
	Sparsity   int    `cli:"name=sparsity desc='filler lines around sibling groups'"`
	Indent     string `cli:"name=indent desc='left margin of the root'"`
	Color      bool   `cli:"name=color desc='color diff output'"`
	ConfigFile string `cli:"name=config desc='yaml file with defaults for the options above'"`

	Out      string
	CloseOut func() error

	Main *cli.Command
}

// FileConfig is the content of a -config file. Options given on the
// command line take precedence.
type FileConfig struct {
	Types    *bool   `yaml:"types"`
	Sparsity *int    `yaml:"sparsity"`
	Indent   *string `yaml:"indent"`
	Color    *bool   `yaml:"color"`
}

func loadFileConfig(path string) (*FileConfig, error) {
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config %q: %w", path, err)
	}
	fc := &FileConfig{}
	if err := yaml.UnmarshalWithOptions(d, fc, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("error decoding config %q: %w", path, err)
	}
	return fc, nil
}

func (cfg *MainConfig) apply(fc *FileConfig) {
	if fc.Types != nil && !cfg.optSet("types") {
		cfg.Types = *fc.Types
	}
	if fc.Sparsity != nil && !cfg.optSet("sparsity") {
		cfg.Sparsity = *fc.Sparsity
	}
	if fc.Indent != nil && !cfg.optSet("indent") {
		cfg.Indent = *fc.Indent
	}
	if fc.Color != nil && !cfg.optSet("color") {
		cfg.Color = *fc.Color
	}
}

// optSet reports whether the main option name was given on the command
// line.
func (cfg *MainConfig) optSet(name string) bool {
	if cfg.Main == nil {
		return false
	}
	for _, opt := range cfg.Main.Opts {
		if opt.Name == name {
			return opt.Value != nil
		}
	}
	return false
}

func (cfg *MainConfig) printOpts() []tree.PrintOption {
	return []tree.PrintOption{
		tree.ShowTypes(cfg.Types),
		tree.Sparsity(cfg.Sparsity),
		tree.Indent(cfg.Indent),
	}
}

// useColor reports whether output to w is colored: -color decides when
// given, otherwise color is on for terminals.
func (cfg *MainConfig) useColor(w io.Writer) bool {
	if cfg.Color || cfg.optSet("color") {
		return cfg.Color
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

type RenderConfig struct {
	*MainConfig

	Render *cli.Command
}

type DiffConfig struct {
	*MainConfig
	Reverse bool `cli:"name=r desc='reverse the diff'"`
	Docs    bool `cli:"name=docs desc='inputs are yaml or json documents to render first'"`

	Diff *cli.Command
}

type CheckConfig struct {
	*MainConfig
	Fixture string `cli:"name=fixture desc='expected tree output'"`
	Update  bool   `cli:"name=update desc='rewrite the fixture instead of comparing'"`

	Check *cli.Command
}
