package shape

import (
	"reflect"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/signadot/treedisplay/casing"
	"github.com/signadot/treedisplay/tree"
)

type Op interface{ op() }
type TaggedOp interface{ op() }
type AdjacentOp interface{ op() }
type UntaggedOp interface{ op() }

type First uint

type Second struct {
	Attrs `tree:"tuple"`
	A, B  int
}

type Third struct {
	Attrs   `tree:"rename_all_snake"`
	Seventh int
	Eighth  int
}

type Fourth struct{}

type Fifth struct {
	Attrs `tree:"rename=fifth!"`
	V     int
}

type Hidden struct {
	Attrs `tree:"skip"`
	V     int
}

func (First) op()  {}
func (Second) op() {}
func (Third) op()  {}
func (Fourth) op() {}
func (Fifth) op()  {}
func (Hidden) op() {}

type Program struct {
	Ops []Op
}

func init() {
	MustRegisterUnion[Op](UnionConfig{}, First(0), Second{}, Third{}, Fourth{}, Fifth{}, Hidden{})
	MustRegisterUnion[TaggedOp](UnionConfig{Tag: "t"}, Third{}, Fourth{}, Hidden{})
	MustRegisterUnion[AdjacentOp](UnionConfig{Tag: "t", Content: "c", RenameAll: casing.Snake}, First(0), Third{}, Fourth{})
	MustRegisterUnion[UntaggedOp](UnionConfig{Untagged: true}, First(0), Third{}, Fourth{})
}

func TestUnionRender(t *testing.T) {
	tests := []struct {
		name string
		v    tree.TreeDisplay
		opts []tree.PrintOption
		want string
	}{
		{
			name: "value variant",
			v:    Of[Op](First(5)),
			want: "└──First\n   └─5\n",
		},
		{
			name: "tuple variant",
			v:    Of[Op](Second{A: 1, B: 2}),
			want: "└──Second\n   ├──0\n   |  └─1\n   └──1\n      └─2\n",
		},
		{
			name: "struct variant sparse",
			v:    Of[Op](Third{Seventh: 8, Eighth: 9}),
			opts: []tree.PrintOption{tree.Sparsity(1)},
			want: "└──Third\n" +
				"   |\n" +
				"   ├──seventh\n" +
				"   |  └─8\n" +
				"   |  \n" +
				"   └──eighth\n" +
				"      └─9\n" +
				"      \n",
		},
		{
			name: "unit variant",
			v:    Of[Op](Fourth{}),
			want: "└──Fourth\n",
		},
		{
			name: "renamed variant",
			v:    Of[Op](Fifth{V: 1}),
			want: "└──fifth!\n   └──V\n      └─1\n",
		},
		{
			name: "skipped variant",
			v:    Of[Op](Hidden{V: 1}),
			opts: []tree.PrintOption{tree.Sparsity(1)},
			want: "\n",
		},
		{
			name: "nil union",
			v:    Of[Op](nil),
			want: "└─None\n",
		},
		{
			name: "concrete type is a plain record",
			v:    Of(Third{Seventh: 8, Eighth: 9}),
			want: "├──seventh\n|  └─8\n└──eighth\n   └─9\n",
		},
		{
			name: "internally tagged",
			v:    Of[TaggedOp](Third{Seventh: 8, Eighth: 9}),
			want: "├──t\n|  └─\"Third\"\n├──seventh\n|  └─8\n└──eighth\n   └─9\n",
		},
		{
			name: "internally tagged unit",
			v:    Of[TaggedOp](Fourth{}),
			want: "└──t\n   └─\"Fourth\"\n",
		},
		{
			name: "internally tagged skip",
			v:    Of[TaggedOp](Hidden{}),
			want: "",
		},
		{
			name: "adjacent value",
			v:    Of[AdjacentOp](First(5)),
			want: "├──t\n|  └─\"first\"\n└──c\n   └─5\n",
		},
		{
			name: "adjacent struct",
			v:    Of[AdjacentOp](Third{Seventh: 8, Eighth: 9}),
			want: "├──t\n|  └─\"third\"\n└──c\n   ├──seventh\n   |  └─8\n   └──eighth\n      └─9\n",
		},
		{
			name: "adjacent unit",
			v:    Of[AdjacentOp](Fourth{}),
			want: "└──t\n   └─\"fourth\"\n",
		},
		{
			name: "untagged value",
			v:    Of[UntaggedOp](First(5)),
			want: "└─5\n",
		},
		{
			name: "untagged unit",
			v:    Of[UntaggedOp](Fourth{}),
			want: "└─Fourth\n",
		},
		{
			name: "untagged struct",
			v:    Of[UntaggedOp](Third{Seventh: 8, Eighth: 9}),
			want: "├──seventh\n|  └─8\n└──eighth\n   └─9\n",
		},
		{
			name: "union elements",
			v:    Of(Program{Ops: []Op{First(1), Fourth{}}}),
			want: "└──Ops\n   ├─[0]\n   |  └──First\n   |     └─1\n   └─[1]\n      └──Fourth\n",
		},
		{
			name: "union element types",
			v:    Of(Program{Ops: []Op{First(1)}}),
			opts: []tree.PrintOption{tree.ShowTypes(true)},
			want: "└──Ops (Array)\n   └─[0] (Op)\n      └──First (shape.First)\n         └─1\n",
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

type badOp interface{ bad() }
type dupOp interface{ op() }

type Shadow struct {
	Attrs `tree:"rename=Third"`
}

type Plain int

func (Plain) bad()  {}
func (Shadow) op()  {}
func (Fourth) bad() {}

func TestUnionRegistrationErrors(t *testing.T) {
	tests := []struct {
		name string
		reg  func() error
	}{
		{"internal tag on value variant", func() error {
			return RegisterUnion[badOp](UnionConfig{Tag: "t"}, Plain(0), Fourth{})
		}},
		{"content without tag", func() error {
			return RegisterUnion[badOp](UnionConfig{Content: "c"}, Fourth{})
		}},
		{"untagged with tag", func() error {
			return RegisterUnion[badOp](UnionConfig{Tag: "t", Untagged: true}, Fourth{})
		}},
		{"name collision", func() error {
			return RegisterUnion[dupOp](UnionConfig{}, Third{}, Shadow{})
		}},
		{"duplicate variant", func() error {
			return RegisterUnion[dupOp](UnionConfig{}, Fourth{}, Fourth{})
		}},
		{"registered twice", func() error {
			return RegisterUnion[Op](UnionConfig{}, Fourth{})
		}},
		{"no variants", func() error {
			return RegisterUnion[dupOp](UnionConfig{})
		}},
		{"nil variant", func() error {
			return RegisterUnion[dupOp](UnionConfig{}, nil)
		}},
		{"empty interface", func() error {
			return RegisterUnion[any](UnionConfig{}, 1)
		}},
		{"not an interface", func() error {
			return RegisterUnionType(reflect.TypeFor[Plain](), UnionConfig{}, reflect.TypeFor[Plain]())
		}},
		{"not an implementation", func() error {
			return RegisterUnionType(reflect.TypeFor[dupOp](), UnionConfig{}, reflect.TypeFor[Plain]())
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.reg()
			var ue *UnionError
			if !errors.As(err, &ue) {
				t.Fatalf("error = %v, want *UnionError", err)
			}
		})
	}
	if lookupUnion(reflect.TypeFor[dupOp]()) != nil || lookupUnion(reflect.TypeFor[badOp]()) != nil {
		t.Error("failed registrations must not leave a union behind")
	}
}

func TestMustRegisterUnionPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	MustRegisterUnion[Op](UnionConfig{}, First(0))
}
