package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/signadot/treedisplay/tree"
)

// readDocs decodes every yaml or json document in r, keeping mapping keys
// in document order.
func readDocs(r io.Reader) ([]any, error) {
	dec := yaml.NewDecoder(r, yaml.UseOrderedMap())
	var docs []any
	for i := 0; ; i++ {
		var v any
		err := dec.Decode(&v)
		if errors.Is(err, io.EOF) {
			return docs, nil
		}
		if err != nil {
			return nil, fmt.Errorf("error decoding document %d: %w", i, err)
		}
		docs = append(docs, v)
	}
}

// readDocsFile reads the documents of file, or of in when file is -.
func readDocsFile(in io.Reader, file string) ([]any, error) {
	if file == "-" {
		return readDocs(in)
	}
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("could not open %q: %w", file, err)
	}
	defer f.Close()
	docs, err := readDocs(f)
	if err != nil {
		return nil, fmt.Errorf("error processing %s: %w", file, err)
	}
	return docs, nil
}

// document is a yaml mapping.
type document tree.Record

func (d document) Len() int { return len(d) }

func (d document) TreeFmt(w io.Writer, ctx tree.Context, tctx tree.Transient) error {
	return tree.FmtFields(w, ctx, tctx, d)
}

func (d document) TypeNameFmt(w io.Writer) error {
	return tree.WriteTypeName(w, "Map")
}

// toTree converts a decoded document value to a tree node. Mapping keys
// become labels, sequences become indexed items and null becomes None.
func toTree(v any) tree.TreeDisplay {
	switch x := v.(type) {
	case nil:
		return tree.Nothing{}
	case yaml.MapSlice:
		d := make(document, 0, len(x))
		for _, item := range x {
			d = append(d, tree.Field{Name: keyLabel(item.Key), Value: toTree(item.Value)})
		}
		return d
	case map[string]any:
		return toTree(sortedMapSlice(x))
	case []any:
		items := make(tree.Slice[tree.TreeDisplay], len(x))
		for i := range x {
			items[i] = toTree(x[i])
		}
		return items
	case string:
		return tree.Val(x)
	case bool:
		return tree.Val(x)
	case int:
		return tree.Val(x)
	case int64:
		return tree.Val(x)
	case uint64:
		return tree.Val(x)
	case float64:
		return tree.Val(x)
	case time.Time:
		return tree.Text{S: x.Format(time.RFC3339Nano), Type: "Timestamp"}
	default:
		return tree.Text{S: fmt.Sprint(x), Type: fmt.Sprintf("%T", x)}
	}
}

func keyLabel(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	return fmt.Sprint(k)
}

func sortedMapSlice(m map[string]any) yaml.MapSlice {
	res := make(yaml.MapSlice, 0, len(m))
	for k, v := range m {
		res = append(res, yaml.MapItem{Key: k, Value: v})
	}
	slices.SortFunc(res, func(a, b yaml.MapItem) int {
		return strings.Compare(a.Key.(string), b.Key.(string))
	})
	return res
}
