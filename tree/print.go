package tree

import (
	"io"
	"strings"
)

// Fprint renders v to w. A write failure aborts the traversal and is
// returned; output already written is not retracted.
func Fprint(w io.Writer, v TreeDisplay, opts ...PrintOption) error {
	return v.TreeFmt(w, NewContext(opts...), Transient{})
}

// Sprint renders v to a string.
func Sprint(v TreeDisplay, opts ...PrintOption) (string, error) {
	buf := &strings.Builder{}
	if err := Fprint(buf, v, opts...); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func MustSprint(v TreeDisplay, opts ...PrintOption) string {
	s, err := Sprint(v, opts...)
	if err != nil {
		panic(err)
	}
	return s
}
