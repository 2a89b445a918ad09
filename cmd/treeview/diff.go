package main

import (
	"fmt"
	"io"
	"os"

	"github.com/scott-cotton/cli"

	"github.com/signadot/treedisplay/treetest"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	from, err := diffInput(cfg, args[0])
	if err != nil {
		return err
	}
	to, err := diffInput(cfg, args[1])
	if err != nil {
		return err
	}
	if cfg.Reverse {
		from, to = to, from
	}
	var colors *diffColors
	if cfg.useColor(cc.Out) {
		colors = newDiffColors()
	}
	differs, err := writeDiff(cc.Out, from, to, colors)
	if err != nil {
		return err
	}
	if differs {
		return cli.ExitCodeErr(1)
	}
	return nil
}

// diffInput is the tree text of file: its content, or with -docs the
// rendering of its documents.
func diffInput(cfg *DiffConfig, file string) (string, error) {
	if cfg.Docs {
		return renderInputs(cfg.MainConfig, nil, []string{file})
	}
	d, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("could not read %q: %w", file, err)
	}
	return treetest.Normalize(string(d)), nil
}

// writeDiff writes the changed lines between from and to and reports
// whether there were any.
func writeDiff(w io.Writer, from, to string, colors *diffColors) (bool, error) {
	lines := treetest.LineDiff(from, to)
	if !treetest.Changed(lines) {
		return false, nil
	}
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, colors.line(l, l.String())); err != nil {
			return true, err
		}
	}
	return true, nil
}
