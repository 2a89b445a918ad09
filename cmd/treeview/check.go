package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/scott-cotton/cli"

	"github.com/signadot/treedisplay/treetest"
)

func check(cfg *CheckConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Check.Parse(cc, args)
	if err != nil {
		return err
	}
	if cfg.Fixture == "" {
		return fmt.Errorf("%w: check requires -fixture", cli.ErrUsage)
	}
	actual, err := renderInputs(cfg.MainConfig, cc.In, args)
	if err != nil {
		return err
	}
	var colors *diffColors
	if cfg.useColor(cc.Out) {
		colors = newDiffColors()
	}
	ok, err := checkFixture(cc.Out, cfg.Fixture, actual, cfg.Update, colors)
	if err != nil {
		return err
	}
	if !ok {
		return cli.ExitCodeErr(1)
	}
	return nil
}

// checkFixture compares actual with the fixture, or rewrites the fixture
// when update is set. A mismatch is reported on w with its diff and ok is
// false; other failures are returned.
func checkFixture(w io.Writer, fixture, actual string, update bool, colors *diffColors) (bool, error) {
	if update {
		if err := treetest.UpdateFile(fixture, actual); err != nil {
			return false, err
		}
		fmt.Fprintf(w, "updated %s\n", fixture)
		return true, nil
	}
	err := treetest.CheckFile(fixture, actual)
	if err == nil {
		return true, nil
	}
	var me *treetest.MismatchError
	if !errors.As(err, &me) {
		return false, err
	}
	fmt.Fprintf(w, "%s differs (-expected +actual):\n", fixture)
	for _, l := range me.Lines {
		fmt.Fprintln(w, colors.line(l, l.String()))
	}
	fmt.Fprintf(w, "actual output written to %s\n", treetest.ActualPath(fixture))
	return false, nil
}
