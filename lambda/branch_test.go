package lambda

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/hyperlambda/event"
)

func TestIfCondition(t *testing.T) {
	tests := []struct {
		cond string
		want bool
	}{
		{cond: "=:int:5", want: true},
		{cond: "=:int:6", want: false},
		{cond: ">:int:3", want: true},
		{cond: "<:int:3", want: false},
		{cond: ">=:int:5", want: true},
		{cond: "<=:int:4", want: false},
		{cond: "=:5", want: false},
		{cond: "!=:5", want: true},
		{cond: "!=:int:5", want: false},
		{cond: "not", want: false},
		{cond: "=:int:6\n  not", want: true},
		{cond: "=:int:6\n  or:bool:true", want: true},
		{cond: "=:int:5\n  and:bool:false", want: false},
		{cond: "=:int:5\n  and\n    fetch\n      src:x:/../_v?value\n    =:int:5", want: true},
		{cond: "~:5", want: true},
		{cond: "!~:7", want: true},
	}
	for _, tc := range tests {
		t.Run(tc.cond, func(t *testing.T) {
			root := exec(t, "_v:int:5\n_out\nif:x:/../_v?value\n  "+tc.cond+"\n  set:x:/../_out?value\n    src:yes")
			got := root.Child("_out").Value == "yes"
			if got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIfExists(t *testing.T) {
	tests := []struct {
		name string
		val  string
		want bool
	}{
		{name: "no match", val: "x:/../_none", want: false},
		{name: "one node", val: "x:/../_v", want: true},
		{name: "several nodes", val: "x:/../_v|/../_out", want: true},
		{name: "null value", val: "x:/../_out?value", want: false},
		{name: "zero", val: "int:0", want: false},
		{name: "false", val: "bool:false", want: false},
		{name: "text", val: "foo", want: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			root := exec(t, "_v:int:5\n_out\nif:"+tc.val+"\n  set:x:/../_out?value\n    src:yes")
			got := root.Child("_out").Value == "yes"
			if got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestElseChain(t *testing.T) {
	src := func(v int) string {
		return "_v:int:" + string(rune('0'+v)) + `
_out
if:x:/../_v?value
  =:int:1
  set:x:/../_out?value
    src:one
else-if:x:/../_v?value
  =:int:2
  set:x:/../_out?value
    src:two
else-if:x:/../_v?value
  =:int:2
  set:x:/../_out?value
    src:again
else
  set:x:/../_out?value
    src:other`
	}
	for v, want := range map[int]string{1: "one", 2: "two", 3: "other"} {
		root := exec(t, src(v))
		if got := root.Child("_out").Value; got != want {
			t.Errorf("%d: got %v, want %s", v, got, want)
		}
	}
}

func TestEventCondition(t *testing.T) {
	root := exec(t, `event:app.yes
  return:bool:true
_out
if
  app.yes
  set:x:/../_out?value
    src:yes`)
	if got := root.Child("_out").Value; got != "yes" {
		t.Errorf("got %v", got)
	}
	if got := root.Child("if").Child("app.yes").Value; got != nil {
		t.Errorf("condition node not restored: %v", got)
	}
}

func TestBranchErrors(t *testing.T) {
	for _, src := range []string{
		"else\n  _x",
		"_x\nelse-if:bool:true\n  _x",
		"if",
		"if:bool:true\n  not:bool:true",
		"switch:a\n  foo",
		"switch:a\n  default\n    _x\n  default\n    _y",
		"case:a",
	} {
		var le *event.LambdaError
		if err := execErr(src); !errors.As(err, &le) {
			t.Errorf("%q: expected a lambda error, got %v", src, err)
		}
	}
}

func TestSwitch(t *testing.T) {
	src := func(v string) string {
		return "_out\nswitch:" + v + `
  case:a
  case:b
    add:x:/../_out
      src:ab
  case:c
    add:x:/../_out
      src:c
  default
    add:x:/../_out
      src:default`
	}
	tests := map[string][]string{
		"a": {"ab"},
		"b": {"ab"},
		"c": {"c"},
		"d": {"default"},
	}
	for v, want := range tests {
		root := exec(t, src(v))
		if diff := cmp.Diff(want, childNames(root.Child("_out"))); diff != "" {
			t.Errorf("%s (-want +got):\n%s", v, diff)
		}
	}
}

func TestSwitchExpression(t *testing.T) {
	root := exec(t, `_v:int:2
_out
switch:x:/../_v?value
  case:int:1
    set:x:/../_out?value
      src:one
  case:int:2
    set:x:/../_out?value
      src:two`)
	if got := root.Child("_out").Value; got != "two" {
		t.Errorf("got %v", got)
	}
}
