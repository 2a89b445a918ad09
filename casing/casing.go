// Package casing converts identifiers between naming conventions.
package casing

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/iancoleman/strcase"
)

type Case int

const (
	None Case = iota
	Pascal
	Snake
	Kebab
	Camel
)

var ErrBadCase = errors.New("bad case")

func ParseCase(v string) (Case, error) {
	c, ok := map[string]Case{
		"pascal": Pascal,
		"snake":  Snake,
		"kebab":  Kebab,
		"camel":  Camel,
	}[v]
	if ok {
		return c, nil
	}
	return None, errors.Wrapf(ErrBadCase, "%q", v)
}

// Apply converts name to case c. None leaves the name unchanged.
func (c Case) Apply(name string) string {
	switch c {
	case Pascal:
		return strcase.ToCamel(name)
	case Snake:
		return strcase.ToSnake(name)
	case Kebab:
		return strcase.ToKebab(name)
	case Camel:
		return strcase.ToLowerCamel(name)
	default:
		return name
	}
}

func (c Case) String() string {
	d, err := c.MarshalText()
	if err != nil {
		return err.Error()
	}
	return string(d)
}

func (c Case) MarshalText() ([]byte, error) {
	switch c {
	case None:
		return []byte("none"), nil
	case Pascal:
		return []byte("pascal"), nil
	case Snake:
		return []byte("snake"), nil
	case Kebab:
		return []byte("kebab"), nil
	case Camel:
		return []byte("camel"), nil
	default:
		return nil, fmt.Errorf("<err: %d is not a case>", int(c))
	}
}

func (c *Case) UnmarshalText(d []byte) error {
	pc, err := ParseCase(string(d))
	if err != nil {
		return err
	}
	*c = pc
	return nil
}

func Pascalize(s string) string { return Pascal.Apply(s) }
func Snakify(s string) string   { return Snake.Apply(s) }
func Kebabify(s string) string  { return Kebab.Apply(s) }
func Camelize(s string) string  { return Camel.Apply(s) }
