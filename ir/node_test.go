package ir

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func names(ns []*Node) []string {
	res := make([]string, len(ns))
	for i, n := range ns {
		res[i] = n.Name
	}
	return res
}

func checkIndexes(t *testing.T, n *Node) {
	t.Helper()
	for i, c := range n.Children {
		if c.Parent != n {
			t.Errorf("child %d %q has wrong parent", i, c.Name)
		}
		if c.ParentIndex != i {
			t.Errorf("child %q has index %d, want %d", c.Name, c.ParentIndex, i)
		}
	}
}

func TestAddInsertUntie(t *testing.T) {
	root := New("root", nil)
	a := root.Add("a", 1)
	root.Add("b", 2)
	c := root.Add("c", 3)
	root.Insert(1, New("x", nil))
	if diff := cmp.Diff([]string{"a", "x", "b", "c"}, names(root.Children)); diff != "" {
		t.Fatalf("after insert (-want +got):\n%s", diff)
	}
	checkIndexes(t, root)

	a.Untie()
	if a.Parent != nil {
		t.Errorf("untied node kept its parent")
	}
	if diff := cmp.Diff([]string{"x", "b", "c"}, names(root.Children)); diff != "" {
		t.Fatalf("after untie (-want +got):\n%s", diff)
	}
	checkIndexes(t, root)

	other := New("other", nil)
	other.AddNode(c)
	if diff := cmp.Diff([]string{"x", "b"}, names(root.Children)); diff != "" {
		t.Errorf("re-parenting did not un-tie (-want +got):\n%s", diff)
	}
	if c.Parent != other || other.Len() != 1 {
		t.Errorf("re-parented node not attached to new parent")
	}
	checkIndexes(t, root)
}

func TestInsertSameParent(t *testing.T) {
	root := New("", nil)
	a := root.Add("a", nil)
	root.Add("b", nil)
	root.Add("c", nil)
	root.Insert(2, a)
	if diff := cmp.Diff([]string{"b", "c", "a"}, names(root.Children)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	checkIndexes(t, root)
}

func TestClone(t *testing.T) {
	shared := New("shared", "s")
	root := New("root", nil)
	nested := New("nested", nil)
	nested.Add("inner", 5)
	child := root.Add("child", nested)
	child.Add("ref", Ref{N: shared})
	child.Add("blob", []byte("abc"))

	cl := root.Clone()
	if cl.Parent != nil {
		t.Errorf("clone has a parent")
	}
	cc := cl.Children[0]
	if cc == child {
		t.Fatalf("clone shares children")
	}
	cn := cc.Value.(*Node)
	if cn == nested {
		t.Errorf("nested node value was aliased")
	}
	if cn.Children[0].Value != 5 {
		t.Errorf("nested node value not copied")
	}
	if cc.Children[0].Value.(Ref).N != shared {
		t.Errorf("ref value was not aliased")
	}
	cc.Children[1].Value.([]byte)[0] = 'x'
	if string(child.Children[1].Value.([]byte)) != "abc" {
		t.Errorf("blob value was aliased")
	}
	checkIndexes(t, cl)
	checkIndexes(t, cc)
}

func TestSiblingsAndRoot(t *testing.T) {
	root := New("", nil)
	a := root.Add("a", nil)
	b := root.Add("b", nil)
	d := b.Add("d", nil)
	if a.Next() != b || b.Prev() != a || a.Prev() != nil || b.Next() != nil {
		t.Errorf("sibling navigation broken")
	}
	if d.Root() != root {
		t.Errorf("wrong root")
	}
	if a.Sibling(1) != b || b.Sibling(-1) != a || b.Sibling(-2) != nil {
		t.Errorf("Sibling offsets broken")
	}
	if !a.Before(d) || d.Before(a) || !b.Before(d) {
		t.Errorf("document order broken")
	}
}

func TestReplaceAndBecome(t *testing.T) {
	root := New("", nil)
	root.Add("a", nil)
	b := root.Add("b", nil)
	root.Add("c", nil)
	b.Replace(New("x", 1))
	if diff := cmp.Diff([]string{"a", "x", "c"}, names(root.Children)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	checkIndexes(t, root)

	src := New("y", "v")
	src.Add("k1", nil)
	src.Add("k2", nil)
	x := root.Children[1]
	x.Become(src)
	if x.Name != "y" || x.Value != "v" || x.Len() != 2 || src.Len() != 0 {
		t.Errorf("Become did not move content: %q %v %d", x.Name, x.Value, x.Len())
	}
	checkIndexes(t, x)
}

func TestPath(t *testing.T) {
	root := New("", nil)
	a := root.Add("a", nil)
	a.Add("a0", nil)
	a1 := a.Add("a1", nil)
	deep := a1.Add("deep", nil)
	for _, n := range []*Node{root, a, a1, deep} {
		got, err := deep.GetPath(n.Path())
		if err != nil {
			t.Fatalf("%s: %v", n.Path(), err)
		}
		if got != n {
			t.Errorf("path %s resolved to %q", n.Path(), got.Name)
		}
	}
	if deep.Path() != "/../0/1/0" {
		t.Errorf("got path %q", deep.Path())
	}
}
