package shape

import (
	"io"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/signadot/treedisplay/tree"
)

type Pair struct {
	A int
	B string
}

type Skips struct {
	Always int                           `tree:"skip"`
	Dash   int                           `tree:"-"`
	Big    int                           `tree:"skip_if='value > 10'"`
	Flag   bool                          `tree:"skip_if_true"`
	Ptr    *int                          `tree:"skip_if_none"`
	Items  []int                         `tree:"skip_if_empty"`
	Opt    tree.Option[tree.Scalar[int]] `tree:"skip_if_none"`
	Last   string                        `tree:"skip_if='parent.Flag'"`
	hidden int
}

type Inner struct {
	X int
	Y int `tree:"skip_if='value == 0'"`
}

type Outer struct {
	Name string
	In   Inner `tree:"flatten"`
}

type OuterPtr struct {
	In   *Inner `tree:"flatten"`
	Tail int    `tree:"skip_if='value == 0'"`
}

type Base struct {
	ID int
}

type Derived struct {
	Base
	Extra string
}

type RenamedBase struct {
	Base  `tree:"rename=base"`
	Extra string
}

type Stamped struct {
	time.Time
	X int
}

type Person struct {
	Attrs     `tree:"rename_all_snake"`
	FirstName string
	LastName  string `tree:"rename=surname"`
	HomeTown  string `tree:"rename_kebab"`
}

type Tagged struct {
	Attrs `tree:"tag=type"`
	N     int
}

type Wrapper struct {
	_     Attrs `tree:"transparent"`
	Inner Pair
}

type HasWrapper struct {
	W Wrapper
}

type Point3 struct {
	Attrs   `tree:"tuple"`
	X, Y, Z int
}

type Node struct {
	Val  int
	Next *Node
}

type Misc struct {
	P     *int
	D     time.Duration
	M     map[int]string
	Empty []string
}

func sprint(t *testing.T, d tree.TreeDisplay, opts ...tree.PrintOption) string {
	t.Helper()
	s, err := tree.Sprint(d, opts...)
	if err != nil {
		t.Fatalf("Sprint() error = %v", err)
	}
	return s
}

func TestRender(t *testing.T) {
	five := 5
	tests := []struct {
		name string
		v    tree.TreeDisplay
		opts []tree.PrintOption
		want string
	}{
		{
			name: "record",
			v:    Of(Pair{A: 1, B: "x"}),
			want: "├──A\n|  └─1\n└──B\n   └─\"x\"\n",
		},
		{
			name: "record sparse",
			v:    Of(Pair{A: 1, B: "x"}),
			opts: []tree.PrintOption{tree.Sparsity(1)},
			want: "|\n├──A\n|  └─1\n|  \n└──B\n   └─\"x\"\n   \n",
		},
		{
			name: "nothing skipped",
			v: Of(Skips{
				Big: 3, Ptr: &five, Items: []int{7},
				Opt: tree.Some(tree.Val(9)), Last: "end",
			}),
			want: "├──Big\n|  └─3\n" +
				"├──Flag\n|  └─false\n" +
				"├──Ptr\n|  └─5\n" +
				"├──Items\n|  └─[0]\n|     └─7\n" +
				"├──Opt\n|  └─9\n" +
				"└──Last\n   └─\"end\"\n",
		},
		{
			name: "trailing fields skipped",
			v:    Of(Skips{Big: 1, Flag: true, Last: "gone"}),
			want: "└──Big\n   └─1\n",
		},
		{
			name: "everything skipped",
			v:    Of(Skips{Big: 11, Flag: true}),
			want: "",
		},
		{
			name: "everything skipped sparse",
			v:    Of(Skips{Big: 11, Flag: true}),
			opts: []tree.PrintOption{tree.Sparsity(2)},
			want: "\n\n",
		},
		{
			name: "flatten last",
			v:    Of(Outer{Name: "n", In: Inner{X: 1}}),
			want: "├──Name\n|  └─\"n\"\n└──X\n   └─1\n",
		},
		{
			name: "flatten pointer",
			v:    Of(OuterPtr{In: &Inner{X: 1, Y: 2}}),
			want: "├──X\n|  └─1\n└──Y\n   └─2\n",
		},
		{
			name: "flatten nil pointer",
			v:    Of(OuterPtr{Tail: 4}),
			want: "└──Tail\n   └─4\n",
		},
		{
			name: "flatten then field",
			v:    Of(OuterPtr{In: &Inner{X: 1}, Tail: 4}),
			want: "├──X\n|  └─1\n└──Tail\n   └─4\n",
		},
		{
			name: "embedded",
			v:    Of(Derived{Base: Base{ID: 1}, Extra: "e"}),
			want: "├──ID\n|  └─1\n└──Extra\n   └─\"e\"\n",
		},
		{
			name: "embedded stringer stays a field",
			v:    Of(Stamped{Time: time.Unix(0, 0).UTC(), X: 1}),
			want: "├──Time\n|  └─1970-01-01 00:00:00 +0000 UTC\n└──X\n   └─1\n",
		},
		{
			name: "embedded renamed",
			v:    Of(RenamedBase{Base: Base{ID: 1}, Extra: "e"}),
			want: "├──base\n|  └──ID\n|     └─1\n└──Extra\n   └─\"e\"\n",
		},
		{
			name: "renames",
			v:    Of(Person{FirstName: "a", LastName: "b", HomeTown: "c"}),
			want: "├──first_name\n|  └─\"a\"\n├──surname\n|  └─\"b\"\n└──home-town\n   └─\"c\"\n",
		},
		{
			name: "record tag",
			v:    Of(Tagged{N: 1}),
			want: "├──type\n|  └─\"Tagged\"\n└──N\n   └─1\n",
		},
		{
			name: "transparent",
			v:    Of(Wrapper{Inner: Pair{A: 1, B: "x"}}),
			want: "├──A\n|  └─1\n└──B\n   └─\"x\"\n",
		},
		{
			name: "transparent types",
			v:    Of(HasWrapper{W: Wrapper{Inner: Pair{A: 1, B: "x"}}}),
			opts: []tree.PrintOption{tree.ShowTypes(true)},
			want: "└──W (Pair)\n   ├──A (int)\n   |  └─1\n   └──B (string)\n      └─\"x\"\n",
		},
		{
			name: "tuple struct",
			v:    Of(Point3{X: 1, Y: 2, Z: 3}),
			want: "├──0\n|  └─1\n├──1\n|  └─2\n└──2\n   └─3\n",
		},
		{
			name: "recursive",
			v:    Of(Node{Val: 1, Next: &Node{Val: 2}}),
			want: "├──Val\n|  └─1\n└──Next\n   ├──Val\n   |  └─2\n   └──Next\n      └─None\n",
		},
		{
			name: "misc kinds",
			v:    Of(Misc{D: time.Second, M: map[int]string{10: "x", 2: "y"}}),
			want: "├──P\n|  └─None\n" +
				"├──D\n|  └─1s\n" +
				"├──M\n|  ├──2\n|  |  └─\"y\"\n|  └──10\n|     └─\"x\"\n" +
				"└──Empty\n",
		},
		{
			name: "misc types",
			v:    Of(Misc{D: time.Second}),
			opts: []tree.PrintOption{tree.ShowTypes(true)},
			want: "├──P (Option)\n|  └─None\n" +
				"├──D (time.Duration)\n|  └─1s\n" +
				"├──M (Map)\n" +
				"└──Empty (Array)\n",
		},
		{
			name: "built-in values pass through",
			v:    Of(map[string]tree.TreeDisplay{"b": tree.Val(2), "a": tree.Unit{}}),
			want: "├──a\n|  └─()\n└──b\n   └─2\n",
		},
		{
			name: "pointer root",
			v:    Of(&Pair{A: 1}),
			opts: []tree.PrintOption{tree.Indent("> ")},
			want: "> ├──A\n> |  └─1\n> └──B\n>    └─\"\"\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sprint(t, tt.v, tt.opts...)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// Skipping fields may only remove lines: what remains is identical to the
// output with the skipped fields present.
func TestSkipRemovesLines(t *testing.T) {
	five := 5
	full := sprint(t, Of(Skips{Big: 3, Ptr: &five, Items: []int{7}, Opt: tree.Some(tree.Val(9)), Last: "end"}))
	part := sprint(t, Of(Skips{Big: 3, Ptr: &five, Last: "end"}))
	fullLines := strings.Split(full, "\n")
	for _, line := range strings.Split(part, "\n") {
		found := false
		for _, fl := range fullLines {
			if fl == line {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("line %q of the partial rendering is not in the full one", line)
		}
	}
}

// Only the final rendered child of a record uses the closing glyph.
func TestSingleClosingBranch(t *testing.T) {
	vals := []Skips{
		{Big: 1},
		{Big: 1, Flag: true},
		{Big: 20, Items: []int{1, 2}},
		{Big: 20, Flag: true, Opt: tree.Some(tree.Val(1))},
	}
	for _, v := range vals {
		out := sprint(t, Of(v))
		var closing int
		for _, line := range strings.Split(out, "\n") {
			if strings.HasPrefix(line, tree.BranchLast) {
				closing++
			}
		}
		if closing != 1 {
			t.Errorf("%+v: %d top level closing branches in\n%s", v, closing, out)
		}
	}
}

func TestAttrErrors(t *testing.T) {
	type BadBool struct {
		N int `tree:"skip_if_true"`
	}
	type BadNone struct {
		N int `tree:"skip_if_none"`
	}
	type BadEmpty struct {
		N int `tree:"skip_if_empty"`
	}
	type BadExpr struct {
		N int `tree:"skip_if='parent.Missing > 1'"`
	}
	type NotBool struct {
		N int `tree:"skip_if='value + 1'"`
	}
	type BadFlatten struct {
		N int `tree:"flatten"`
	}
	type BadTransparent struct {
		_    Attrs `tree:"transparent"`
		A, B int
	}
	type BadConflict struct {
		N *int `tree:"skip_if_none,skip_if_empty"`
	}
	type BadNested struct {
		Items []BadBool
	}
	type DupLabel struct {
		A int
		B int `tree:"rename=A"`
	}
	type FlattenOption struct {
		A int
		O tree.Option[tree.Scalar[int]] `tree:"flatten"`
	}
	type FlattenTime struct {
		T time.Time `tree:"flatten"`
	}
	type Shadowed struct {
		Base
		ID int
	}
	type ShadowedFirst struct {
		ID int
		Base
	}
	type TwoAttrs struct {
		Attrs `tree:"tuple"`
		_     Attrs `tree:"transparent"`
		A     int
	}
	tests := []struct {
		name  string
		typ   reflect.Type
		field string
	}{
		{"skip_if_true on int", reflect.TypeFor[BadBool](), "N"},
		{"skip_if_none on int", reflect.TypeFor[BadNone](), "N"},
		{"skip_if_empty on int", reflect.TypeFor[BadEmpty](), "N"},
		{"unknown field in expression", reflect.TypeFor[BadExpr](), "N"},
		{"non-bool expression", reflect.TypeFor[NotBool](), "N"},
		{"flatten scalar", reflect.TypeFor[BadFlatten](), "N"},
		{"transparent with two fields", reflect.TypeFor[BadTransparent](), ""},
		{"two skip attributes", reflect.TypeFor[BadConflict](), "N"},
		{"nested through slice", reflect.TypeFor[BadNested](), "N"},
		{"duplicate label", reflect.TypeFor[DupLabel](), "B"},
		{"two attribute markers", reflect.TypeFor[TwoAttrs](), ""},
		{"flatten option", reflect.TypeFor[FlattenOption](), "O"},
		{"flatten stringer", reflect.TypeFor[FlattenTime](), "T"},
		{"outer label after promoted one", reflect.TypeFor[Shadowed](), "ID"},
		{"promoted label after outer one", reflect.TypeFor[ShadowedFirst](), "Base"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Compile(tt.typ)
			var ae *AttrError
			if !errors.As(err, &ae) {
				t.Fatalf("Compile() error = %v, want *AttrError", err)
			}
			if ae.Field != tt.field {
				t.Errorf("field = %q, want %q (%v)", ae.Field, tt.field, err)
			}
		})
	}
}

func TestAttrErrorAtRender(t *testing.T) {
	type Bad struct {
		N string `tree:"skip_if_false"`
	}
	if _, err := New(Bad{}); err == nil {
		t.Error("New() should report the attribute error")
	}
	_, err := tree.Sprint(Of(Bad{}))
	var ae *AttrError
	if !errors.As(err, &ae) {
		t.Fatalf("Sprint() error = %v, want *AttrError", err)
	}
	if !strings.Contains(ae.Error(), "Bad.N") {
		t.Errorf("error %q does not name the field", ae.Error())
	}
}

func TestPredicateError(t *testing.T) {
	type P struct {
		N int `tree:"skip_if='isZero(value, value)'"`
	}
	_, err := Sprint(P{N: 1})
	var pe *PredicateError
	if !errors.As(err, &pe) {
		t.Fatalf("Sprint() error = %v, want *PredicateError", err)
	}
	if pe.Field != "N" || pe.Expr != "isZero(value, value)" {
		t.Errorf("PredicateError = %+v", pe)
	}
}

func TestIsZeroPredicate(t *testing.T) {
	type P struct {
		A Pair `tree:"skip_if='isZero(value)'"`
		B int
	}
	got, err := Sprint(P{B: 1})
	if err != nil {
		t.Fatal(err)
	}
	if want := "└──B\n   └─1\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

type failWriter struct {
	n int
}

var errSink = errors.New("sink closed")

func (f *failWriter) Write(p []byte) (int, error) {
	if f.n == 0 {
		return 0, errSink
	}
	f.n--
	return len(p), nil
}

func TestWriteError(t *testing.T) {
	err := Fprint(&failWriter{n: 3}, Node{Val: 1, Next: &Node{Val: 2}})
	if !errors.Is(err, tree.ErrWrite) || !errors.Is(err, errSink) {
		t.Errorf("Fprint() error = %v", err)
	}
	if err := Fprint(io.Discard, Node{Val: 1}); err != nil {
		t.Errorf("Fprint() error = %v", err)
	}
}

func TestConcurrentRender(t *testing.T) {
	type Fresh struct {
		A Pair
		B []Node `tree:"skip_if_empty"`
	}
	v := Fresh{A: Pair{A: 1}, B: []Node{{Val: 1}}}
	want := sprint(t, Of(v))
	var wg sync.WaitGroup
	errs := make(chan string, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := Sprint(v)
			if err != nil || got != want {
				errs <- got
			}
		}()
	}
	wg.Wait()
	close(errs)
	for got := range errs {
		t.Errorf("concurrent render differs:\n%s", got)
	}
}

type selfRendered struct {
	N int
}

func (s selfRendered) TreeFmt(w io.Writer, ctx tree.Context, tctx tree.Transient) error {
	return Render(w, s, ctx, tctx)
}

func (s selfRendered) TypeNameFmt(w io.Writer) error {
	return TypeName(w, s)
}

func TestRenderBypassesMethods(t *testing.T) {
	got := sprint(t, Of(selfRendered{N: 3}), tree.ShowTypes(true))
	if want := "└──N (int)\n   └─3\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	var b strings.Builder
	if err := TypeName(&b, selfRendered{}); err != nil || b.String() != " (selfRendered)" {
		t.Errorf("TypeName() = %q, %v", b.String(), err)
	}
}
