package treetest

import (
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// Op is the kind of a diff line.
type Op int

const (
	Same Op = iota
	Removed
	Added
)

func (o Op) Prefix() string {
	switch o {
	case Removed:
		return "-"
	case Added:
		return "+"
	default:
		return " "
	}
}

// Line is one line of a line diff.
type Line struct {
	Op   Op
	Text string
}

// LineDiff computes the line diff turning from into to. Each distinct line
// is mapped to a rune so the diff runs over whole lines.
func LineDiff(from, to string) []Line {
	lineMap := map[string]rune{}
	runeMap := map[rune]string{}
	fromRunes := mapLinesTo(lineMap, runeMap, from)
	toRunes := mapLinesTo(lineMap, runeMap, to)
	diffCfg := diffpatch.New()
	diffs := diffCfg.DiffMainRunes(fromRunes, toRunes, false)
	var res []Line
	for i := range diffs {
		diff := &diffs[i]
		op := Same
		switch diff.Type {
		case diffpatch.DiffDelete:
			op = Removed
		case diffpatch.DiffInsert:
			op = Added
		}
		for _, r := range diff.Text {
			res = append(res, Line{Op: op, Text: runeMap[r]})
		}
	}
	return res
}

// runes start above the surrogate range so every line gets a valid rune
const firstLineRune = 0xE000

func mapLinesTo(lineMap map[string]rune, runeMap map[rune]string, s string) []rune {
	lines := strings.Split(s, "\n")
	res := make([]rune, len(lines))
	for i, line := range lines {
		r, ok := lineMap[line]
		if !ok {
			r = rune(firstLineRune + len(lineMap))
			lineMap[line] = r
			runeMap[r] = line
		}
		res[i] = r
	}
	return res
}

// Format renders lines in unified style, one prefixed line per entry.
// Trailing whitespace is made visible with a '$' marker.
func Format(lines []Line) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// String is the line with its prefix, as written by Format.
func (l Line) String() string {
	return l.Op.Prefix() + visible(l.Text)
}

func visible(s string) string {
	if strings.TrimRight(s, " \t") != s {
		return s + "$"
	}
	return s
}

// Changed reports whether any line differs.
func Changed(lines []Line) bool {
	for _, l := range lines {
		if l.Op != Same {
			return true
		}
	}
	return false
}
