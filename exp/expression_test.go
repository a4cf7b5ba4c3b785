package exp

import (
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/hyperlambda/ir"
	"github.com/signadot/hyperlambda/parse"
)

const testDoc = `data
  foo:bar
    x:int:5
    y:hello
  foo:baz
  howdy:world
  :empty
other:int:5`

func show(ns []*ir.Node) []string {
	var res []string
	for _, n := range ns {
		res = append(res, n.Name+"="+ir.MustString(n.Value))
	}
	return res
}

func eval(t *testing.T, src string, from *ir.Node) *Match {
	t.Helper()
	e, err := Parse(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	m, err := e.Evaluate(from)
	if err != nil {
		t.Fatalf("eval %q: %v", src, err)
	}
	return m
}

func TestIterators(t *testing.T) {
	tests := []struct {
		expr string
		want []string
	}{
		{"/data/*", []string{"foo=bar", "foo=baz", "howdy=world", "=empty"}},
		{"/data/foo", []string{"foo=bar", "foo=baz"}},
		{`/"data"/howdy`, []string{"howdy=world"}},
		{"/data/=baz", []string{"foo=baz"}},
		{"/data/foo/=hello", []string{"y=hello"}},
		{"/=:int:5", []string{"other=5"}},
		{"/=5", []string{"other=5"}},
		{"/=:long:5", nil},
		{`/data/="/^ba/"`, []string{"foo=bar", "foo=baz"}},
		{`/data/="/^BA[RZ]$/i"`, []string{"foo=bar", "foo=baz"}},
		{"/data/~ow", []string{"howdy=world"}},
		{"/data/1", []string{"foo=baz"}},
		{"/data/9", nil},
		{"/data/0/+", []string{"foo=baz"}},
		{"/data/0/+2", []string{"howdy=world"}},
		{"/data/1/-", []string{"foo=bar"}},
		{"/data/0/-", nil},
		{"/data/*/[1,3]", []string{"foo=baz", "howdy=world"}},
		{"/data/*/[2,]", []string{"howdy=world", "=empty"}},
		{"/data/*/[,1]", []string{"foo=bar"}},
		{"/data/*/%2", []string{"foo=bar", "howdy=world"}},
		{"/data/foo/*/..data", []string{"data="}},
		{"/data/foo/*/.", []string{"foo=bar"}},
		{"/data/**", []string{"data=", "foo=bar", "x=5", "y=hello", "foo=baz", "howdy=world", "=empty"}},
		{"/data//", []string{"=empty"}},
		{`/data/""`, []string{"=empty"}},
		{"/data/0/>", []string{"x=5"}},
		{"/data/1/<", []string{"y=hello"}},
		{"/data/(/foo|/howdy)", []string{"foo=bar", "foo=baz", "howdy=world"}},
		{"/data/(/howdy|/foo|/foo)", []string{"foo=bar", "foo=baz", "howdy=world"}},
		{"/data/(/*!/foo)", []string{"howdy=world", "=empty"}},
		{"/data/(/foo&/=baz)", []string{"foo=baz"}},
		{"/data/(/foo^/=baz)", []string{"foo=bar"}},
		{"/data/(/foo|/howdy)/[1,2]", []string{"foo=baz"}},
		{"/other|/data/howdy", []string{"howdy=world", "other=5"}},
		{"/nope/*", nil},
	}
	doc := parse.MustParse(testDoc)
	for _, tc := range tests {
		t.Run(tc.expr, func(t *testing.T) {
			m := eval(t, tc.expr, doc)
			if diff := cmp.Diff(tc.want, show(m.Nodes)); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestRelative(t *testing.T) {
	doc := parse.MustParse(testDoc)
	x := doc.Children[0].Children[0].Children[0]
	tests := []struct {
		expr string
		want []string
	}{
		{"/.", []string{"foo=bar"}},
		{"/+", []string{"y=hello"}},
		{"/../other", []string{"other=5"}},
		{"/./.", []string{"data="}},
		{"", []string{"x=5"}},
		{"?node", []string{"x=5"}},
	}
	for _, tc := range tests {
		m := eval(t, tc.expr, x)
		if diff := cmp.Diff(tc.want, show(m.Nodes)); diff != "" {
			t.Errorf("%q (-want +got):\n%s", tc.expr, diff)
		}
	}
}

func TestKinds(t *testing.T) {
	tests := []struct {
		expr string
		want []any
	}{
		{"/data/foo?value", []any{"bar", "baz"}},
		{"/data/*?name", []any{"foo", "foo", "howdy", ""}},
		{"/data/*?count", []any{4}},
		{"/nope?count", []any{0}},
		{"/data/foo/x?value.string", []any{"5"}},
		{"/other?value.double", []any{5.0}},
		{"/data/foo/y?value.int", nil},
		{"/data/1?path", []any{"/../0/1"}},
	}
	doc := parse.MustParse(testDoc)
	for _, tc := range tests {
		m := eval(t, tc.expr, doc)
		got, err := m.Values()
		if tc.want == nil {
			if err == nil {
				t.Errorf("%q: expected conversion error, got %v", tc.expr, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: %v", tc.expr, err)
			continue
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("%q (-want +got):\n%s", tc.expr, diff)
		}
	}
}

func TestNodeValuesAreRefs(t *testing.T) {
	doc := parse.MustParse(testDoc)
	m := eval(t, "/data/howdy", doc)
	vs, err := m.Values()
	if err != nil {
		t.Fatal(err)
	}
	ref, ok := vs[0].(ir.Ref)
	if !ok || ref.N != doc.Children[0].Children[2] {
		t.Errorf("expected a reference to the living node, got %#v", vs[0])
	}
}

func TestPathRoundTrip(t *testing.T) {
	doc := parse.MustParse(testDoc)
	deep := doc.Children[0].Children[0].Children[1]
	all := append([]*ir.Node{doc}, doc.Descendants()...)
	for _, n := range all {
		m := eval(t, n.Path(), deep)
		if len(m.Nodes) != 1 || m.Nodes[0] != n {
			t.Errorf("%s selected %v", n.Path(), show(m.Nodes))
		}
	}
}

func TestSetAlgebra(t *testing.T) {
	doc := parse.MustParse(testDoc)
	tests := []struct {
		a, b string
	}{
		{"/~o", "/=baz"},
		{"/howdy", "/foo"},
		{"/*", "/foo/."},
		{"/foo/*", "/*/x"},
		{"/**", "/=world"},
	}
	for _, tc := range tests {
		a := eval(t, "/data"+tc.a, doc).Nodes
		b := eval(t, "/data"+tc.b, doc).Nodes
		inB := map[*ir.Node]bool{}
		for _, n := range b {
			inB[n] = true
		}
		var wantUnion, wantDiff []*ir.Node
		for _, n := range doc.Descendants() {
			inA := slices.Contains(a, n)
			if inA || inB[n] {
				wantUnion = append(wantUnion, n)
			}
			if inA && !inB[n] {
				wantDiff = append(wantDiff, n)
			}
		}
		union := eval(t, "/data/("+tc.a+"|"+tc.b+")", doc).Nodes
		if d := cmp.Diff(show(wantUnion), show(union)); d != "" {
			t.Errorf("%s|%s (-want +got):\n%s", tc.a, tc.b, d)
		}
		diff := eval(t, "/data/("+tc.a+"!"+tc.b+")", doc).Nodes
		if d := cmp.Diff(show(wantDiff), show(diff)); d != "" {
			t.Errorf("%s!%s (-want +got):\n%s", tc.a, tc.b, d)
		}
	}
	// operators apply left to right
	got := eval(t, "/data/(/~o!/=baz|/=world)", doc).Nodes
	if d := cmp.Diff([]string{"foo=bar", "howdy=world"}, show(got)); d != "" {
		t.Errorf("chained (-want +got):\n%s", d)
	}
}

func TestRefIterator(t *testing.T) {
	root := ir.New("", nil)
	target := root.Add("t", "v")
	owned := ir.New("inner", "w")
	p := root.Add("p", ir.Ref{N: target})
	root.Add("q", owned)
	m := eval(t, "/../p/#", p)
	if len(m.Nodes) != 1 || m.Nodes[0] != target {
		t.Errorf("ref: got %v", show(m.Nodes))
	}
	m = eval(t, "/../q/#", p)
	if len(m.Nodes) != 1 || m.Nodes[0] != owned {
		t.Errorf("owned node: got %v", show(m.Nodes))
	}
}

func TestFormat(t *testing.T) {
	doc := parse.MustParse(`data
  foo:bar
name:data
q1:x:/../{0}/foo?value
  :data
q2:x:/../{0}/foo?value
  :{0}a
    :dat
q3:x:/../{0}/foo?value
  :x:/../name?value`)
	for i, q := range doc.Children[2:] {
		e, ok := q.Value.(*Expression)
		if !ok {
			t.Fatalf("q%d: value is %T", i+1, q.Value)
		}
		if !e.Lazy() {
			t.Errorf("q%d: expected a lazy expression", i+1)
		}
		m, err := e.Evaluate(q)
		if err != nil {
			t.Fatalf("q%d: %v", i+1, err)
		}
		vs, err := m.Values()
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff([]any{"bar"}, vs); diff != "" {
			t.Errorf("q%d (-want +got):\n%s", i+1, diff)
		}
	}
}

func TestFormatString(t *testing.T) {
	doc := parse.MustParse(`v:succ
s:{0}{1}
  :x:/../v?value
  :ess
  named:ignored`)
	s := doc.Children[1]
	if !HasFormat(s) {
		t.Fatal("expected a formatted string")
	}
	got, err := FormatNode(s)
	if err != nil {
		t.Fatal(err)
	}
	if got != "success" {
		t.Errorf("got %q", got)
	}
}

func TestParseErrors(t *testing.T) {
	for _, src := range []string{
		"foo",
		"/a)",
		"/(/a",
		"/a?bogus",
		"/a?value.nosuchtype",
		"/[1]",
		"/[3,1]",
		"/%0",
		"/-x",
		`/="/[/"`,
	} {
		_, err := Parse(src)
		if err == nil {
			t.Errorf("%q: expected an error", src)
			continue
		}
		var xe *Error
		if !errors.As(err, &xe) {
			t.Errorf("%q: expected *Error, got %T", src, err)
		}
	}
}
