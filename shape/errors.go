package shape

import (
	"fmt"
	"strings"
)

// AttrError reports malformed or conflicting attributes on a declared shape.
// It is returned when a plan is compiled, before anything is rendered.
type AttrError struct {
	Type    string
	Field   string
	Attrs   []string
	Message string
	Err     error
}

func (e *AttrError) Error() string {
	var b strings.Builder
	b.WriteString("attribute error")
	switch {
	case e.Type != "" && e.Field != "":
		fmt.Fprintf(&b, " on %s.%s", e.Type, e.Field)
	case e.Type != "":
		fmt.Fprintf(&b, " on %s", e.Type)
	case e.Field != "":
		fmt.Fprintf(&b, " on field %s", e.Field)
	}
	if len(e.Attrs) > 0 {
		fmt.Fprintf(&b, " [%s]", strings.Join(e.Attrs, ", "))
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *AttrError) Unwrap() error {
	return e.Err
}

func (e *AttrError) at(typ, field string) *AttrError {
	if e.Type == "" {
		e.Type = typ
	}
	if e.Field == "" {
		e.Field = field
	}
	return e
}

// PredicateError reports a skip_if expression that failed while rendering.
type PredicateError struct {
	Type  string
	Field string
	Expr  string
	Err   error
}

func (e *PredicateError) Error() string {
	return fmt.Sprintf("skip_if %q on %s.%s: %v", e.Expr, e.Type, e.Field, e.Err)
}

func (e *PredicateError) Unwrap() error {
	return e.Err
}

// UnionError reports an invalid union registration.
type UnionError struct {
	Union   string
	Variant string
	Message string
	Err     error
}

func (e *UnionError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Variant != "" {
		return fmt.Sprintf("union %s variant %s: %s", e.Union, e.Variant, msg)
	}
	return fmt.Sprintf("union %s: %s", e.Union, msg)
}

func (e *UnionError) Unwrap() error {
	return e.Err
}
