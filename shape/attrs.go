package shape

import (
	"slices"
	"strings"

	"github.com/signadot/treedisplay/casing"
)

// Attrs marks container attributes. Embed it, or declare a blank field of
// this type, and put the attributes on its tag:
//
//	type Point struct {
//		shape.Attrs `tree:"rename_all_snake"`
//		XPos, YPos  int
//	}
type Attrs struct{}

// SkipKind says when a field is left out of the rendering.
type SkipKind int

const (
	SkipNever SkipKind = iota
	SkipAlways
	SkipIf
	SkipIfTrue
	SkipIfFalse
	SkipIfNone
	SkipIfEmpty
)

var skipKeys = map[string]SkipKind{
	"-":             SkipAlways,
	"skip":          SkipAlways,
	"skip_if":       SkipIf,
	"skip_if_true":  SkipIfTrue,
	"skip_if_false": SkipIfFalse,
	"skip_if_none":  SkipIfNone,
	"skip_if_empty": SkipIfEmpty,
}

func (k SkipKind) String() string {
	for name, v := range skipKeys {
		if v == k && name != "-" {
			return name
		}
	}
	return "never"
}

var renameKeys = map[string]casing.Case{
	"rename":        casing.None,
	"rename_pascal": casing.Pascal,
	"rename_snake":  casing.Snake,
	"rename_kebab":  casing.Kebab,
	"rename_camel":  casing.Camel,
}

var renameAllKeys = map[string]casing.Case{
	"rename_all_pascal": casing.Pascal,
	"rename_all_snake":  casing.Snake,
	"rename_all_kebab":  casing.Kebab,
	"rename_all_camel":  casing.Camel,
}

// keys that only make sense on a container
var containerOnly = []string{"transparent", "tag", "content", "untagged", "tuple"}

// keys that only make sense on a field
var fieldOnly = []string{"flatten", "skip_if", "skip_if_true", "skip_if_false", "skip_if_none", "skip_if_empty"}

// FieldAttrs are the attributes of one record field.
type FieldAttrs struct {
	Skip       SkipKind
	SkipIf     string
	Rename     string
	RenameCase casing.Case
	Flatten    bool
}

// Label returns the rendered name of a field declared as goName, given the
// container's rename_all case.
func (a *FieldAttrs) Label(goName string, all casing.Case) string {
	switch {
	case a.Rename != "":
		return a.Rename
	case a.RenameCase != casing.None:
		return a.RenameCase.Apply(goName)
	default:
		return all.Apply(goName)
	}
}

// ContainerAttrs are the attributes of a struct type. Skip and the rename
// forms only apply when the type is a union variant.
type ContainerAttrs struct {
	Transparent bool
	Tuple       bool
	Tag         string
	Content     string
	Untagged    bool
	RenameAll   casing.Case
	Skip        bool
	Rename      string
	RenameCase  casing.Case
}

// Name returns the rendered name of a type or variant declared as goName.
func (a *ContainerAttrs) Name(goName string, all casing.Case) string {
	switch {
	case a.Rename != "":
		return a.Rename
	case a.RenameCase != casing.None:
		return a.RenameCase.Apply(goName)
	default:
		return all.Apply(goName)
	}
}

// UnionConfig are the attributes of a union.
type UnionConfig struct {
	Tag       string
	Content   string
	Untagged  bool
	RenameAll casing.Case
}

// ParseFieldAttrs parses and checks the tag of a field. Checks needing the
// field's type happen when the owning plan is compiled.
func ParseFieldAttrs(tag string) (*FieldAttrs, error) {
	m, err := ParseStructTag(tag)
	if err != nil {
		return nil, &AttrError{Message: "malformed tag", Err: err}
	}
	if err := misplaced(m, containerOnly, "is a container attribute"); err != nil {
		return nil, err
	}
	for k := range m {
		if _, ok := renameAllKeys[k]; ok {
			return nil, &AttrError{Attrs: []string{k}, Message: "is a container attribute"}
		}
	}
	a := &FieldAttrs{}
	if a.Skip, a.SkipIf, err = parseSkip(m); err != nil {
		return nil, err
	}
	if a.Rename, a.RenameCase, err = parseRename(m); err != nil {
		return nil, err
	}
	_, a.Flatten = m["flatten"]
	if a.Flatten && (a.Rename != "" || a.RenameCase != casing.None) {
		return nil, &AttrError{
			Attrs:   conflicting(m, "flatten", renameKeys),
			Message: "a flattened field has no label to rename",
		}
	}
	return a, nil
}

// ParseContainerAttrs parses and checks the tag of an Attrs marker field.
func ParseContainerAttrs(tag string) (*ContainerAttrs, error) {
	m, err := ParseStructTag(tag)
	if err != nil {
		return nil, &AttrError{Message: "malformed tag", Err: err}
	}
	if err := misplaced(m, fieldOnly, "is a field attribute"); err != nil {
		return nil, err
	}
	a := &ContainerAttrs{}
	_, a.Transparent = m["transparent"]
	_, a.Tuple = m["tuple"]
	_, a.Untagged = m["untagged"]
	_, skip := m["skip"]
	_, dash := m["-"]
	a.Skip = skip || dash
	a.Tag, a.Content = m["tag"], m["content"]
	if err := checkTagging(m, a.Tag, a.Content, a.Untagged); err != nil {
		return nil, err
	}
	if a.Transparent && hasKey(m, "tag") {
		return nil, &AttrError{Attrs: []string{"tag", "transparent"}, Message: "a transparent type has no fields to tag"}
	}
	if a.Transparent && a.Tuple {
		return nil, &AttrError{Attrs: []string{"transparent", "tuple"}, Message: "conflicting layouts"}
	}
	if a.Rename, a.RenameCase, err = parseRename(m); err != nil {
		return nil, err
	}
	if a.RenameAll, err = parseRenameAll(m); err != nil {
		return nil, err
	}
	return a, nil
}

// ParseUnionConfig parses union attributes written in tag syntax, as found
// in a //treedisplay:union directive.
func ParseUnionConfig(s string) (UnionConfig, error) {
	var cfg UnionConfig
	m, err := ParseStructTag(strings.Join(strings.Fields(s), ","))
	if err != nil {
		return cfg, &AttrError{Message: "malformed union attributes", Err: err}
	}
	if err := misplaced(m, append([]string{"flatten", "transparent", "tuple", "skip", "-"}, fieldOnly...), "does not apply to a union"); err != nil {
		return cfg, err
	}
	cfg.Tag, cfg.Content = m["tag"], m["content"]
	_, cfg.Untagged = m["untagged"]
	if cfg.RenameAll, err = parseRenameAll(m); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Validate checks the tagging attributes of cfg.
func (cfg UnionConfig) Validate() error {
	m := map[string]string{}
	if cfg.Tag != "" {
		m["tag"] = cfg.Tag
	}
	if cfg.Content != "" {
		m["content"] = cfg.Content
	}
	if cfg.Untagged {
		m["untagged"] = ""
	}
	return checkTagging(m, cfg.Tag, cfg.Content, cfg.Untagged)
}

func checkTagging(m map[string]string, tag, content string, untagged bool) error {
	if hasKey(m, "tag") && tag == "" {
		return &AttrError{Attrs: []string{"tag"}, Message: "requires a name"}
	}
	if hasKey(m, "content") && content == "" {
		return &AttrError{Attrs: []string{"content"}, Message: "requires a name"}
	}
	if content != "" && tag == "" {
		return &AttrError{Attrs: []string{"content"}, Message: "requires tag"}
	}
	if untagged && (tag != "" || content != "") {
		return &AttrError{Attrs: conflicting(m, "untagged", map[string]casing.Case{"tag": 0, "content": 0}), Message: "an untagged union has no tag"}
	}
	if tag != "" && tag == content {
		return &AttrError{Attrs: []string{"content", "tag"}, Message: "tag and content need distinct names"}
	}
	return nil
}

func parseSkip(m map[string]string) (SkipKind, string, error) {
	var found []string
	kind := SkipNever
	for k := range m {
		if sk, ok := skipKeys[k]; ok {
			found = append(found, k)
			kind = sk
		}
	}
	if len(found) > 1 {
		slices.Sort(found)
		return SkipNever, "", &AttrError{Attrs: found, Message: "only one skip attribute is allowed"}
	}
	if kind == SkipIf {
		expr := strings.TrimSpace(m["skip_if"])
		if expr == "" {
			return SkipNever, "", &AttrError{Attrs: found, Message: "requires an expression"}
		}
		return kind, expr, nil
	}
	return kind, "", nil
}

func parseRename(m map[string]string) (string, casing.Case, error) {
	var found []string
	for k := range m {
		if _, ok := renameKeys[k]; ok {
			found = append(found, k)
		}
	}
	switch len(found) {
	case 0:
		return "", casing.None, nil
	case 1:
	default:
		slices.Sort(found)
		return "", casing.None, &AttrError{Attrs: found, Message: "only one rename attribute is allowed"}
	}
	if found[0] == "rename" {
		if m["rename"] == "" {
			return "", casing.None, &AttrError{Attrs: found, Message: "requires a name"}
		}
		return m["rename"], casing.None, nil
	}
	return "", renameKeys[found[0]], nil
}

func parseRenameAll(m map[string]string) (casing.Case, error) {
	var found []string
	for k := range m {
		if _, ok := renameAllKeys[k]; ok {
			found = append(found, k)
		}
	}
	switch len(found) {
	case 0:
		return casing.None, nil
	case 1:
		return renameAllKeys[found[0]], nil
	default:
		slices.Sort(found)
		return casing.None, &AttrError{Attrs: found, Message: "only one rename_all attribute is allowed"}
	}
}

func misplaced(m map[string]string, keys []string, msg string) error {
	var found []string
	for _, k := range keys {
		if hasKey(m, k) {
			found = append(found, k)
		}
	}
	if len(found) == 0 {
		return nil
	}
	return &AttrError{Attrs: found, Message: msg}
}

func conflicting[V any](m map[string]string, key string, others map[string]V) []string {
	res := []string{key}
	for k := range m {
		if _, ok := others[k]; ok {
			res = append(res, k)
		}
	}
	slices.Sort(res)
	return res
}

func hasKey(m map[string]string, k string) bool {
	_, ok := m[k]
	return ok
}
