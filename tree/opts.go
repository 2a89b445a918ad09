package tree

// PrintOption configures the root Context of a print.
type PrintOption func(*Context)

// ShowTypes appends type name fragments after branch labels.
func ShowTypes(v bool) PrintOption {
	return func(c *Context) { c.ShowTypes = v }
}

// Sparsity sets the number of filler lines emitted around sibling groups.
// Zero, the default, gives dense output.
func Sparsity(n int) PrintOption {
	return func(c *Context) {
		if n < 0 {
			n = 0
		}
		c.Sparsity = n
	}
}

func Dense() PrintOption {
	return Sparsity(0)
}

// Indent sets the left margin of the root.
func Indent(s string) PrintOption {
	return func(c *Context) { c.Indent = s }
}

// NewContext builds the root context from opts.
func NewContext(opts ...PrintOption) Context {
	c := Context{}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
