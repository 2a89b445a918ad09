package tree

import (
	"io"
	"strconv"
)

// Slice renders its elements as indexed items.
type Slice[T TreeDisplay] []T

func (s Slice[T]) Len() int { return len(s) }

func (s Slice[T]) TreeFmt(w io.Writer, ctx Context, _ Transient) error {
	return FmtItems(w, ctx, len(s), func(i int) TreeDisplay { return s[i] })
}

func (s Slice[T]) TypeNameFmt(w io.Writer) error {
	return WriteTypeName(w, "Array")
}

// FmtItems writes n sequence items, fetching each with at. An empty
// sequence writes only the sparsity filler.
func FmtItems(w io.Writer, ctx Context, n int, at func(int) TreeDisplay) error {
	if n == 0 {
		return ctx.Fill(w, false)
	}
	if err := ctx.Fill(w, true); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		item := at(i)
		last := i == n-1
		glyph := ItemMid
		if last {
			glyph = ItemLast
		}
		if err := WriteLabel(w, ctx, glyph, "["+strconv.Itoa(i)+"]", item); err != nil {
			return err
		}
		if err := item.TreeFmt(w, ctx.Child(last), Transient{}); err != nil {
			return err
		}
	}
	return nil
}
