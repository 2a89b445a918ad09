package main

import (
	"github.com/fatih/color"

	"github.com/signadot/treedisplay/treetest"
)

// diffColors maps diff operations to the functions coloring their lines.
type diffColors struct {
	Map map[treetest.Op]func(format string, a ...any) string
}

func newDiffColors() *diffColors {
	res := &diffColors{Map: map[treetest.Op]func(string, ...any) string{}}
	res.Map[treetest.Removed] = forced(color.FgRed)
	res.Map[treetest.Added] = forced(color.FgGreen)
	return res
}

// forced returns a color func that colors even when stdout is not a
// terminal; whether to color is decided by the caller.
func forced(attrs ...color.Attribute) func(string, ...any) string {
	c := color.New(attrs...)
	c.EnableColor()
	return c.SprintfFunc()
}

func (c *diffColors) line(l treetest.Line, text string) string {
	if c == nil {
		return text
	}
	f, ok := c.Map[l.Op]
	if !ok {
		return text
	}
	return f("%s", text)
}
