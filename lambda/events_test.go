package lambda

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/hyperlambda/encode"
	"github.com/signadot/hyperlambda/event"
	"github.com/signadot/hyperlambda/ir"
	"github.com/signadot/hyperlambda/parse"
)

func TestOverride(t *testing.T) {
	ctx := newContext()
	root := execIn(t, ctx, `_out
event:app.base
  add:x:/../_out
    src:base
event:app.super
  add:x:/../_out
    src:super
  call-base
    _out
  add:x:/../_out
    src:x:/../call-base/*/*
override:app.base
  with:app.super
app.base
  _out`)
	want := "app.base\n  _out\n    super\n    base"
	if diff := cmp.Diff(want, encode.MustString(root.Children[len(root.Children)-1])); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string][]string{"app.base": {"app.super"}}, ctx.Registry.Overrides()); diff != "" {
		t.Errorf("overrides (-want +got):\n%s", diff)
	}

	root = execIn(t, ctx, `remove-override:app.base
  with:app.super
app.base
  _out`)
	want = "app.base\n  _out\n    base"
	if diff := cmp.Diff(want, encode.MustString(root.Children[1])); diff != "" {
		t.Errorf("after removal (-want +got):\n%s", diff)
	}
}

func TestListOverrides(t *testing.T) {
	root := exec(t, `override:app.a
  with:app.b
  with:app.c
override:other
  with:app.d
list-overrides:app`)
	want := "list-overrides:app\n  app.a\n    with:app.b\n    with:app.c"
	if diff := cmp.Diff(want, encode.MustString(root.Children[2])); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestEventDeclaration(t *testing.T) {
	ctx := newContext()
	root := execIn(t, ctx, `event:app.one
  overrides:app.zero
  return:int:1
get-event:app.one
list-events:app.
remove-event:app.one
list-events:app.`)
	if diff := cmp.Diff("get-event:app.one\n  app.one\n    return:int:1", encode.MustString(root.Children[1])); diff != "" {
		t.Errorf("get-event (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff("list-events:app.\n  lambda:app.one", encode.MustString(root.Children[2])); diff != "" {
		t.Errorf("list-events (-want +got):\n%s", diff)
	}
	if got := root.Children[4].Len(); got != 0 {
		t.Errorf("event still listed after removal: %s", encode.MustString(root.Children[4]))
	}
	if diff := cmp.Diff([]string{"app.one"}, ctx.Registry.Supers("app.zero")); diff != "" {
		t.Errorf("overrides child (-want +got):\n%s", diff)
	}
}

func TestEmptyEventRemoves(t *testing.T) {
	ctx := newContext()
	execIn(t, ctx, "event:app.gone\n  _x\nevent:app.gone")
	if len(ctx.Registry.Lambda("app.gone")) != 0 {
		t.Errorf("event not removed")
	}
}

func TestListEventsPrivate(t *testing.T) {
	root := exec(t, `event:_private
  _x
event:public.ev
  _x
list-events
  _x`)
	got := root.Children[2]
	for _, c := range got.Children {
		if c.Value == "_private" {
			t.Errorf("private event listed")
		}
	}
	if got.FindFirst(func(n *ir.Node) bool { return n.Name == "lambda" && n.Value == "public.ev" }) == nil {
		t.Errorf("public event missing:\n%s", encode.MustString(got))
	}
	if got.FindFirst(func(n *ir.Node) bool { return n.Name == "keyword" && n.Value == "set" }) == nil {
		t.Errorf("keywords missing")
	}
}

func TestProtectedEvent(t *testing.T) {
	ctx := newContext()
	execIn(t, ctx, "event:app.safe\n  protected:bool:true\n  return:int:1")
	for _, src := range []string{
		"event:app.safe\n  return:int:2",
		"remove-event:app.safe",
		"override:app.safe\n  with:app.other",
		"try\n  event:app.safe\n    return:int:2\ncatch\n  _x",
		"event:set\n  _x",
	} {
		err := ctx.Exec(parse.MustParse(src), 0)
		if !event.IsSecurity(err) {
			t.Errorf("%q: expected a security error, got %v", src, err)
		}
	}
	root := execIn(t, ctx, "app.safe")
	if got := root.Children[0].Value; got != 1 {
		t.Errorf("protected event changed: %v", got)
	}
}

func TestThrowCatch(t *testing.T) {
	root := exec(t, `_out
_fin
try
  throw:boom
  add:x:/../_out
    src:unreached
catch
  set:x:/../_out?value
    src:{0}/{1}
      :x:/..catch/message?value
      :x:/..catch/type?value
finally
  set:x:/../_fin?value
    src:done`)
	if got := root.Child("_out").Value; got != "boom/lambda" {
		t.Errorf("catch: got %v", got)
	}
	if root.Child("_out").Len() != 0 {
		t.Errorf("try body kept running")
	}
	if got := root.Child("_fin").Value; got != "done" {
		t.Errorf("finally: got %v", got)
	}
	if diff := cmp.Diff([]string{"set"}, childNames(root.Child("catch"))); diff != "" {
		t.Errorf("catch arguments left behind (-want +got):\n%s", diff)
	}
}

func TestFinallyWithoutCatch(t *testing.T) {
	ctx := newContext()
	root := parse.MustParse(`_fin
try
  throw
finally
  set:x:/../_fin?value
    src:done`)
	err := ctx.Exec(root, 0)
	var le *event.LambdaError
	if !errors.As(err, &le) || le.Msg != "no message" {
		t.Errorf("got %v", err)
	}
	if got := root.Child("_fin").Value; got != "done" {
		t.Errorf("finally: got %v", got)
	}
}

func TestTryFollowerPosition(t *testing.T) {
	for _, src := range []string{"catch\n  _x", "_y\nfinally\n  _x"} {
		var le *event.LambdaError
		if err := execErr(src); !errors.As(err, &le) {
			t.Errorf("%q: got %v", src, err)
		}
	}
}
