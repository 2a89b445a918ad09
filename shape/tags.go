package shape

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// TagKey is the struct tag key holding rendering attributes.
const TagKey = "tree"

// ParseStructTag splits a tag value into keys and values. Items are
// separated by commas and are either flags or key=value pairs:
//
//	tree:"rename=id,skip_if='value in [1, 2]'"
//
// A value holding a comma must be single or double quoted; the quotes are
// removed.
func ParseStructTag(tag string) (map[string]string, error) {
	items, err := splitTag(tag)
	if err != nil {
		return nil, err
	}
	res := make(map[string]string, len(items))
	for _, item := range items {
		key, value, _ := strings.Cut(item, "=")
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, errors.Newf("invalid tag: empty key in %q", item)
		}
		if _, dup := res[key]; dup {
			return nil, errors.Newf("invalid tag: duplicate key %q", key)
		}
		res[key] = unquote(strings.TrimSpace(value))
	}
	return res, nil
}

// splitTag cuts tag at the commas outside quotes, dropping blank items.
func splitTag(tag string) ([]string, error) {
	var (
		items []string
		quote byte
		start int
	)
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			items = append(items, s)
		}
	}
	for i := 0; i < len(tag); i++ {
		switch c := tag[i]; {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == ',':
			add(tag[start:i])
			start = i + 1
		}
	}
	if quote != 0 {
		return nil, errors.Newf("invalid tag: unterminated quote in %q", tag)
	}
	add(tag[start:])
	return items, nil
}

func unquote(v string) string {
	if n := len(v); n >= 2 && (v[0] == '\'' || v[0] == '"') && v[n-1] == v[0] {
		return v[1 : n-1]
	}
	return v
}
