package lambda

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/hyperlambda/encode"
	"github.com/signadot/hyperlambda/event"
	"github.com/signadot/hyperlambda/ir"
	"github.com/signadot/hyperlambda/parse"
)

func newContext(opts ...event.ContextOption) *event.Context {
	reg := event.NewRegistry()
	Register(reg)
	opts = append([]event.ContextOption{
		event.WithEvaluator(Interpreter{}),
		event.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}, opts...)
	return event.NewContext(reg, opts...)
}

func execIn(t *testing.T, ctx *event.Context, src string) *ir.Node {
	t.Helper()
	root := parse.MustParse(src)
	if err := ctx.Exec(root, 0); err != nil {
		t.Fatalf("exec: %v", err)
	}
	return root
}

func exec(t *testing.T, src string) *ir.Node {
	t.Helper()
	return execIn(t, newContext(), src)
}

func execErr(src string) error {
	return newContext().Exec(parse.MustParse(src), 0)
}

func childNames(n *ir.Node) []string {
	var res []string
	for _, c := range n.Children {
		res = append(res, c.Name)
	}
	return res
}

func TestSetFanOut(t *testing.T) {
	root := exec(t, `_data
  _1
  _2
set:x:/-/**?value
  src:success`)
	want := "_data:success\n  _1:success\n  _2:success"
	if diff := cmp.Diff(want, encode.MustString(root.Children[0])); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestSet(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "value from expression",
			src: `_x:foo
_y
set:x:/-?value
  src:x:/../_x?value`,
			want: "_x:foo\n_y:foo",
		},
		{
			name: "name",
			src: `_x
_y
set:x:/-?name
  src:_renamed`,
			want: "_x\n_renamed",
		},
		{
			name: "remove node",
			src: `_x
_y
set:x:/../_x`,
			want: "_y",
		},
		{
			name: "null value",
			src: `_x
_y:foo
set:x:/../_y?value`,
			want: "_x\n_y",
		},
		{
			name: "node from children",
			src: `_x
_y
set:x:/../_x
  src
    _new:value
      c:1`,
			want: "_new:value\n  c:1\n_y",
		},
		{
			name: "node from text",
			src: `_x
_y
set:x:/../_x
  src:"_parsed:yes\n  inner"`,
			want: "_parsed:yes\n  inner\n_y",
		},
		{
			name: "relative source",
			src: `_data
  a:1
    v:x
  b:2
    v:y
_y
set:x:/../_data/*?value
  rel-src:x:/*/v?value`,
			want: "_data\n  a:x\n    v:x\n  b:y\n    v:y\n_y",
		},
		{
			name: "formatted source",
			src: `_a:A
_x
set:x:/-?value
  src:{0}-{1}
    :x:/../_a?value
    :b`,
			want: "_a:A\n_x:A-b",
		},
		{
			name: "event source",
			src: `_x
_y
set:x:/../_y?value
  fetch
    src:x:/../_x?name`,
			want: "_x\n_y:_x",
		},
		{
			name: "several values concatenated",
			src: `_p
  :su
  :cc
  :ess
_x
set:x:/../_x?value
  src:x:/../_p/*?value`,
			want: "_p\n  :su\n  :cc\n  :ess\n_x:success",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			root := exec(t, tc.src)
			var data []*ir.Node
			for _, c := range root.Children {
				if !Executable(c.Name) {
					data = append(data, c)
				}
			}
			if diff := cmp.Diff(tc.want, encode.MustString(data...)); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestSetLeavesArguments(t *testing.T) {
	root := exec(t, `_x
set:x:/-?value
  fetch
    src:x:/../_x?name`)
	set := root.Children[1]
	want := "set:x:/-?value\n  fetch\n    src:x:/../_x?name"
	if diff := cmp.Diff(want, encode.MustString(set)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestSetErrors(t *testing.T) {
	for _, src := range []string{
		"_x\nset:_x",
		"_x\nset:x:/-\n  src:a\n  rel-src:x:/.",
		"_x\nset:x:/-\n  src\n    a\n    b",
		"_x\nset:x:/-?count\n  src:1",
	} {
		err := execErr(src)
		var le *event.LambdaError
		if !errors.As(err, &le) {
			t.Errorf("%q: expected a lambda error, got %v", src, err)
		}
	}
}

func TestAdd(t *testing.T) {
	root := exec(t, `_data
  foo1:bar1
  foo2:bar2
_dest
add:x:/-
  src:x:/../_data/*`)
	if diff := cmp.Diff("_dest\n  foo1:bar1\n  foo2:bar2", encode.MustString(root.Children[1])); diff != "" {
		t.Errorf("destination (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff("_data\n  foo1:bar1\n  foo2:bar2", encode.MustString(root.Children[0])); diff != "" {
		t.Errorf("source changed (-want +got):\n%s", diff)
	}
	if root.Children[0].Children[0] == root.Children[1].Children[0] {
		t.Errorf("added nodes are not copies")
	}
}

func TestInsertion(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "append several sources",
			src: `_d
  a
append:x:/../_d
  src
    b
  src:c
  src:x:/../_d/*`,
			want: []string{"a", "b", "c", "a"},
		},
		{
			name: "insert before",
			src: `_d
  a
  b
insert-before:x:/../_d/b
  src
    x
    y`,
			want: []string{"a", "x", "y", "b"},
		},
		{
			name: "insert after",
			src: `_d
  a
  b
insert-after:x:/../_d/a
  src
    x
    y`,
			want: []string{"a", "x", "y", "b"},
		},
		{
			name: "relative source",
			src: `_d
  a
    _v:x
  b
    _v:y
add:x:/../_d/*
  rel-src:x:/*?value`,
			want: []string{"a", "b"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			root := exec(t, tc.src)
			if diff := cmp.Diff(tc.want, childNames(root.Child("_d"))); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestAddRelativeSource(t *testing.T) {
	root := exec(t, `_d
  a
    _v:x
  b
    _v:y
add:x:/../_d/*
  rel-src:x:/*?value`)
	want := "_d\n  a\n    _v:x\n    x\n  b\n    _v:y\n    y"
	if diff := cmp.Diff(want, encode.MustString(root.Child("_d"))); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestCursor(t *testing.T) {
	root := exec(t, `_out
set:x:
add:x:/../_out
  src:ran
add:x:/..
  src
    add:x:/../_out
      src:appended`)
	if diff := cmp.Diff([]string{"ran", "appended"}, childNames(root.Child("_out"))); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if root.Child("set") != nil {
		t.Errorf("set did not remove itself")
	}
}

func TestFetch(t *testing.T) {
	root := exec(t, `_result
add:x:/-
  fetch
    src:x:/+/*
    _tmp
      _foo1:bar1
      _foo2:bar2
    src:x:/+/*
    _tmp
      _foo3:bar3
fetch
  src:x:/+?value
  _v:hello`)
	if diff := cmp.Diff("_result\n  _foo1:bar1\n  _foo2:bar2\n  _foo3:bar3", encode.MustString(root.Children[0])); diff != "" {
		t.Errorf("result (-want +got):\n%s", diff)
	}
	f := root.Children[1].Children[0]
	if diff := cmp.Diff([]string{"src", "_tmp", "src", "_tmp"}, childNames(f)); diff != "" {
		t.Errorf("fetch arguments not restored (-want +got):\n%s", diff)
	}
	standalone := root.Children[2]
	if standalone.Value != "hello" || standalone.Len() != 0 {
		t.Errorf("standalone fetch: %s", encode.MustString(standalone))
	}
}

func TestLambdaScopes(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantX   string
		wantLen int
	}{
		{
			name: "lambda",
			src: `_x:orig
lambda
  set:x:/../_x?value
    src:changed
  set:x:/-`,
			wantX:   "changed",
			wantLen: 1,
		},
		{
			name: "copy",
			src: `_x:orig
lambda.copy
  set:x:/../_x?value
    src:changed
  set:x:/-`,
			wantX:   "orig",
			wantLen: 2,
		},
		{
			name: "immutable",
			src: `_x:orig
lambda.immutable
  set:x:/../_x?value
    src:changed
  set:x:/-`,
			wantX:   "changed",
			wantLen: 2,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			root := exec(t, tc.src)
			if got := root.Children[0].Value; got != tc.wantX {
				t.Errorf("_x is %v, want %s", got, tc.wantX)
			}
			if got := root.Children[1].Len(); got != tc.wantLen {
				t.Errorf("block has %d children, want %d", got, tc.wantLen)
			}
		})
	}
}

func TestLambdaReference(t *testing.T) {
	root := exec(t, `_out
_code
  add:x:/../_out
    src:x:/../_code/_p?value
lambda:x:/../_code
  _p:param`)
	if diff := cmp.Diff([]string{"param"}, childNames(root.Child("_out"))); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"add"}, childNames(root.Child("_code"))); diff != "" {
		t.Errorf("parameters left behind (-want +got):\n%s", diff)
	}
}

func TestLambdaString(t *testing.T) {
	root := exec(t, `lambda:"event:app.from-string\n  return:int:7"
app.from-string`)
	if got := root.Children[1].Value; got != 7 {
		t.Errorf("got %v", got)
	}
}

func TestLambdaSingle(t *testing.T) {
	root := exec(t, `_out
_exe1
  add:x:/../_out
    src:first
_exe2
  add:x:/../_out
    src:second
lambda.single:x:/../~_exe/*`)
	if diff := cmp.Diff([]string{"first"}, childNames(root.Child("_out"))); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if err := execErr("lambda.single"); err == nil {
		t.Errorf("expected an error without a value")
	}
}

func TestLambdaRecursionBounded(t *testing.T) {
	src := "_x\n  lambda:x:/../_x\nlambda:x:/-"
	for _, ctx := range []*event.Context{newContext(), newContext(event.WithMaxDepth(16))} {
		err := ctx.Exec(parse.MustParse(src), 0)
		if !errors.Is(err, event.ErrDepth) {
			t.Fatalf("got %v, want %v", err, event.ErrDepth)
		}
		var le *event.LambdaError
		if !errors.As(err, &le) || le.Node == nil {
			t.Errorf("%v carries no node", err)
		}
		// the context stays usable once the recursion unwinds
		execIn(t, ctx, "_out\nadd:x:/../_out\n  src:ok")
	}
}

func TestReturn(t *testing.T) {
	root := exec(t, `event:app.answer
  return:int:42
  set:x:/..?value
    src:unreached
app.answer
event:app.list
  return
    a:1
    b:2
app.list`)
	if got := root.Children[1].Value; got != 42 {
		t.Errorf("return value: got %v", got)
	}
	if diff := cmp.Diff("app.list\n  a:1\n  b:2", encode.MustString(root.Children[3])); diff != "" {
		t.Errorf("return nodes (-want +got):\n%s", diff)
	}
}

func TestKeywordsRegistered(t *testing.T) {
	reg := event.NewRegistry()
	Register(reg)
	if diff := cmp.Diff(Keywords(), reg.Keywords()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	for _, kw := range []string{"set", "if", "while", "fork", "call-base", "try"} {
		if !reg.IsKeyword(kw) {
			t.Errorf("%s is not a keyword", kw)
		}
	}
}
