package libdiff

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/hyperlambda/encode"
	"github.com/signadot/hyperlambda/event"
	"github.com/signadot/hyperlambda/ir"
	"github.com/signadot/hyperlambda/lambda"
	"github.com/signadot/hyperlambda/parse"
)

func TestDiff(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		want     string
	}{
		{
			name: "append",
			from: "a\nb",
			to:   "a\nb\nc",
			want: "insert:int:2\n  c",
		},
		{
			name: "delete",
			from: "a\nb\nc",
			to:   "a\nc",
			want: "delete:int:1\n  b",
		},
		{
			name: "value",
			from: "a:1\nb",
			to:   "a:2\nb",
			want: "change:int:0\n  value\n    from:1\n    to:2",
		},
		{
			name: "nested",
			from: "a\n  b:1",
			to:   "a\n  b:2",
			want: "change:int:0\n  children\n    change:int:0\n      value\n        from:1\n        to:2",
		},
		{
			name: "rename",
			from: "a",
			to:   "b",
			want: "replace:int:0\n  from\n    a\n  to\n    b",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := Diff(parse.MustParse(tc.from), parse.MustParse(tc.to))
			if d == nil {
				t.Fatal("no diff")
			}
			if diff := cmp.Diff(tc.want, encode.MustString(d.Children...)); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestDiffEqual(t *testing.T) {
	src := "a:int:1\n  b\n    c:\"x\\ny\"\nd"
	if d := Diff(parse.MustParse(src), parse.MustParse(src)); d != nil {
		t.Errorf("got %s", encode.MustString(d))
	}
}

func TestPatchRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
	}{
		{name: "replace run", from: "a\nb\nc\nd", to: "x\nb\ny\nd\ne\nf"},
		{name: "delete all", from: "a\nb\nc", to: ""},
		{name: "insert all", from: "", to: "a\nb"},
		{name: "uneven run", from: "a\nb\nc\nd\ne", to: "a\nx\ne"},
		{name: "types", from: "a:int:1\nb:1", to: "a:1\nb:int:1"},
		{
			name: "nested",
			from: "a\n  b:1\n  c\n    d:x\nz",
			to:   "a\n  c\n    d:y\n    e\n  b:1\nz:int:2",
		},
		{
			name: "text",
			from: "a:\"line one\\nline two\\nline three\"",
			to:   "a:\"line one\\nline 2\\nline three\\nline four\"",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			from, to := parse.MustParse(tc.from), parse.MustParse(tc.to)
			d := Diff(from, to)
			if d == nil {
				t.Fatal("no diff")
			}
			doc := from.Clone()
			if err := Patch(doc, d); err != nil {
				t.Fatalf("patch: %v", err)
			}
			if diff := cmp.Diff(encode.MustString(to.Children...), encode.MustString(doc.Children...)); diff != "" {
				t.Errorf("patch (-want +got):\n%s", diff)
			}
			r, err := Reverse(d)
			if err != nil {
				t.Fatalf("reverse: %v", err)
			}
			doc = to.Clone()
			if err := Patch(doc, r); err != nil {
				t.Fatalf("patch reversed: %v", err)
			}
			if diff := cmp.Diff(encode.MustString(from.Children...), encode.MustString(doc.Children...)); diff != "" {
				t.Errorf("reversed (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTextChange(t *testing.T) {
	d := Diff(parse.MustParse("a:\"x\\ny\""), parse.MustParse("a:\"x\\nz\""))
	if d == nil || d.First().Child(textKey) == nil {
		t.Fatalf("expected a text patch, got %v", d)
	}
}

func TestPatchErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		diff string
		want error
	}{
		{name: "wrong name", doc: "x", diff: "delete:int:0\n  b", want: ErrConflict},
		{name: "out of range", doc: "x", diff: "delete:int:3\n  x", want: ErrConflict},
		{name: "stale value", doc: "a:3", diff: "change:int:0\n  value\n    from:1\n    to:2", want: ErrConflict},
		{name: "unknown", doc: "x", diff: "move:int:0", want: ErrInvalid},
		{name: "no index", doc: "x", diff: "delete\n  x", want: ErrInvalid},
		{name: "no to", doc: "x", diff: "replace:int:0\n  from\n    x", want: ErrInvalid},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Patch(parse.MustParse(tc.doc), parse.MustParse(tc.diff))
			if !errors.Is(err, tc.want) {
				t.Errorf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestString(t *testing.T) {
	from := "one\ntwo\nthree\n"
	to := "one\n2\nthree\nfour\n"
	p := DiffString(from, to)
	if !strings.HasPrefix(p, "@@ -") {
		t.Fatalf("unexpected patch %q", p)
	}
	got, err := PatchString(from, p)
	if err != nil {
		t.Fatal(err)
	}
	if got != to {
		t.Errorf("got %q", got)
	}
	got, err = PatchString(to, ReverseString(p))
	if err != nil {
		t.Fatal(err)
	}
	if got != from {
		t.Errorf("reversed: got %q", got)
	}
	if DiffString(from, from) != "" {
		t.Errorf("equal texts differ")
	}
}

func TestLines(t *testing.T) {
	want := "  a\n- b\n+ c\n"
	if diff := cmp.Diff(want, Lines("a\nb\n", "a\nc\n")); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func run(t *testing.T, src string) *ir.Node {
	t.Helper()
	reg := event.NewRegistry()
	lambda.Register(reg)
	Register(reg)
	ctx := event.NewContext(reg,
		event.WithEvaluator(lambda.Interpreter{}),
		event.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	root := parse.MustParse(src)
	if err := ctx.Exec(root, 0); err != nil {
		t.Fatalf("exec: %v", err)
	}
	return root
}

func TestDiffEvents(t *testing.T) {
	root := run(t, `_a
  x:1
  y:2
_b
  x:1
  y:3
  z
diff
  from:x:/../_a/*
  to:x:/../_b/*
diff.patch:x:/../_a
  diff:x:/../diff`)
	if got := root.Child("diff").Value; got != true {
		t.Errorf("diff value: %v", got)
	}
	want := encode.MustString(root.Child("_b").Children...)
	if diff := cmp.Diff(want, encode.MustString(root.Child("_a").Children...)); diff != "" {
		t.Errorf("patched (-want +got):\n%s", diff)
	}
}

func TestDiffEventsEqual(t *testing.T) {
	root := run(t, `diff
  from
    a:1
  to
    a:1`)
	d := root.Child("diff")
	if d.Value != false || d.Len() != 0 {
		t.Errorf("got %s", encode.MustString(d))
	}
}

func TestDiffText(t *testing.T) {
	root := run(t, `diff.text
  from:"a\nb\nc"
  to:"a\nB\nc"`)
	p, _ := root.Child("diff.text").Value.(string)
	got, err := PatchString("a\nb\nc", p)
	if err != nil {
		t.Fatal(err)
	}
	if got != "a\nB\nc" {
		t.Errorf("got %q", got)
	}
}
