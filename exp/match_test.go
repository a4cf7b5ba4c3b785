package exp

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/hyperlambda/encode"
	"github.com/signadot/hyperlambda/ir"
	"github.com/signadot/hyperlambda/parse"
)

func TestEntitySet(t *testing.T) {
	tests := []struct {
		name string
		expr string
		v    any
		want string
	}{
		{
			name: "value",
			expr: "/data/foo?value",
			v:    "new",
			want: "data\n  foo:new\n    x:int:5\n  foo:new",
		},
		{
			name: "value cast",
			expr: "/data/foo/x?value.int",
			v:    "7",
			want: "data\n  foo:bar\n    x:int:7\n  foo:baz",
		},
		{
			name: "name",
			expr: "/data/1?name",
			v:    5,
			want: "data\n  foo:bar\n    x:int:5\n  5:baz",
		},
		{
			name: "remove node",
			expr: "/data/foo",
			v:    nil,
			want: "data",
		},
		{
			name: "node from text",
			expr: "/data/0",
			v:    "a:b\n  c:d",
			want: "data\n  a:b\n    c:d\n  foo:baz",
		},
		{
			name: "null value",
			expr: "/data/1?value",
			v:    nil,
			want: "data\n  foo:bar\n    x:int:5\n  foo",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := parse.MustParse("data\n  foo:bar\n    x:int:5\n  foo:baz")
			m := eval(t, tc.expr, doc)
			for i := range m.Nodes {
				if err := m.Entity(i).Set(tc.v); err != nil {
					t.Fatal(err)
				}
			}
			if diff := cmp.Diff(tc.want, encode.MustString(doc.Children...)); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestEntitySetFromLivingNode(t *testing.T) {
	doc := parse.MustParse("src:x\n  a:1\ndst:y")
	src, dst := doc.Children[0], doc.Children[1]
	m := eval(t, "/../dst", dst)
	if err := m.Entity(0).Set(ir.Ref{N: src}); err != nil {
		t.Fatal(err)
	}
	if dst.Name != "src" || dst.Value != "x" || dst.Len() != 1 {
		t.Errorf("destination not replaced: %s", dst)
	}
	if src.Len() != 1 || src.Children[0].Parent != src {
		t.Errorf("source was modified")
	}
	if dst.Children[0] == src.Children[0] {
		t.Errorf("destination shares children with the source")
	}
	if dst.Parent != doc || doc.Children[1] != dst {
		t.Errorf("destination lost its place")
	}
}

func TestEntityReadOnly(t *testing.T) {
	doc := parse.MustParse(testDoc)
	for _, src := range []string{"/data?count", "/data?path"} {
		m := eval(t, src, doc)
		if err := m.Entity(0).Set("x"); !errors.Is(err, ErrReadOnly) {
			t.Errorf("%s: expected read only error, got %v", src, err)
		}
	}
}

func TestSourceNodes(t *testing.T) {
	ns, err := SourceNodes("a:1\nb\n  c")
	if err != nil {
		t.Fatal(err)
	}
	if len(ns) != 2 || ns[0].Parent != nil || ns[1].Parent != nil {
		t.Fatalf("expected 2 detached nodes, got %d", len(ns))
	}
	if diff := cmp.Diff("a:1\nb\n  c", encode.MustString(ns...)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	ns, err = SourceNodes(5)
	if err != nil {
		t.Fatal(err)
	}
	if len(ns) != 1 || ns[0].Name != "" || ns[0].Value != 5 {
		t.Errorf("scalar source: got %v", ns)
	}

	if ns, _ := SourceNodes(nil); ns != nil {
		t.Errorf("nil source gave %v", ns)
	}

	if _, err := SourceNode("a\nb"); !errors.Is(err, ErrSource) {
		t.Errorf("expected a single node error, got %v", err)
	}
}
