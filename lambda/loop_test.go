package lambda

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/hyperlambda/event"
)

func TestWhileSetsOwnCondition(t *testing.T) {
	root := exec(t, `_out
while:int:1
  add:x:/../_out
    src:ran
  set:x:/..while?value
    src:int:0`)
	if diff := cmp.Diff([]string{"ran"}, childNames(root.Child("_out"))); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestWhileBreak(t *testing.T) {
	root := exec(t, `_out
while:bool:true
  add:x:/../_out
    src:a
  if:x:/../_out/*?count
    =:int:3
    break
  continue
  add:x:/../_out
    src:unreached`)
	if diff := cmp.Diff([]string{"a", "a", "a"}, childNames(root.Child("_out"))); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestWhileGuard(t *testing.T) {
	err := execErr("while:bool:true\n  _x")
	var le *event.LambdaError
	if !errors.As(err, &le) {
		t.Fatalf("expected an iteration error, got %v", err)
	}
	root := exec(t, `_n
while:bool:true
  _unchecked:bool:true
  add:x:/../_n
    src:x
  if:x:/../_n/10000
    break`)
	if got := root.Child("_n").Len(); got != 10001 {
		t.Errorf("unchecked loop ran %d times", got)
	}
}

func TestForEach(t *testing.T) {
	root := exec(t, `_data
  a:1
  b:2
  c:3
_out
for-each:x:/../_data/*
  add:x:/../_out
    src:x:/..for-each/_dp/#?name`)
	if diff := cmp.Diff([]string{"a", "b", "c"}, childNames(root.Child("_out"))); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if root.Child("for-each").Child("_dp") != nil {
		t.Errorf("_dp left behind")
	}
}

func TestForEachChangesLivingNodes(t *testing.T) {
	root := exec(t, `_data
  a:1
  b:2
for-each:x:/../_data/*
  set:x:/..for-each/_dp/#?value
    src:done`)
	for _, c := range root.Child("_data").Children {
		if c.Value != "done" {
			t.Errorf("%s: %v", c.Name, c.Value)
		}
	}
}

func TestForEachValues(t *testing.T) {
	root := exec(t, `_data
  :a
  :b
_out:""
for-each:x:/../_data/*?value
  set:x:/../_out?value
    src:{0}{1}
      :x:/../_out?value
      :x:/..for-each/_dp?value`)
	if got := root.Child("_out").Value; got != "ab" {
		t.Errorf("got %v", got)
	}
}

func TestLoopBodyMutability(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "default body is mutable",
			src: `_out
for-each:x:/../_items/*
  _marker:x
  add:x:/../_out
    src:x:/..for-each/_marker?value
  set:x:/..for-each/_marker`,
			want: []string{"x"},
		},
		{
			name: "lambda body is restored",
			src: `_out
for-each:x:/../_items/*
  lambda
    _marker:x
    add:x:/../_out
      src:x:/..lambda/_marker?value
    set:x:/..lambda/_marker`,
			want: []string{"x", "x"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			root := exec(t, "_items\n  a\n  b\n"+tc.src)
			if diff := cmp.Diff(tc.want, childNames(root.Child("_out"))); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestBreakOutsideLoop(t *testing.T) {
	root := exec(t, `_out
add:x:/-
  src:a
break
add:x:/../_out
  src:b`)
	if diff := cmp.Diff([]string{"a"}, childNames(root.Child("_out"))); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}
