package ir

import "slices"

type Node struct {
	Name        string
	Value       any
	Parent      *Node
	ParentIndex int
	Children    []*Node
}

// Ref is a value which refers to a node without owning it.
type Ref struct {
	N *Node
}

func New(name string, value any) *Node {
	return &Node{Name: name, Value: value}
}

// FromNodes returns a parent-less node holding nodes as children.
func FromNodes(nodes ...*Node) *Node {
	res := &Node{}
	res.AddNodes(nodes...)
	return res
}

func (n *Node) Len() int {
	return len(n.Children)
}

// Add appends a new child with the given name and value and returns it.
func (n *Node) Add(name string, value any) *Node {
	return n.AddNode(&Node{Name: name, Value: value})
}

// AddNode appends c, un-tying it from its current parent first.
func (n *Node) AddNode(c *Node) *Node {
	c.Untie()
	c.Parent = n
	c.ParentIndex = len(n.Children)
	n.Children = append(n.Children, c)
	return c
}

func (n *Node) AddNodes(cs ...*Node) *Node {
	for _, c := range cs {
		n.AddNode(c)
	}
	return n
}

// Insert places c at index i, un-tying it from its current parent first. An
// index past the end appends.
func (n *Node) Insert(i int, c *Node) *Node {
	c.Untie()
	if i < 0 {
		i = 0
	}
	if i >= len(n.Children) {
		return n.AddNode(c)
	}
	c.Parent = n
	n.Children = slices.Insert(n.Children, i, c)
	n.renumber(i)
	return c
}

// Untie detaches n from its parent and returns n.
func (n *Node) Untie() *Node {
	p := n.Parent
	if p == nil {
		return n
	}
	i := n.ParentIndex
	if i >= len(p.Children) || p.Children[i] != n {
		i = slices.Index(p.Children, n)
	}
	if i != -1 {
		p.Children = slices.Delete(p.Children, i, i+1)
		p.renumber(i)
	}
	n.Parent = nil
	n.ParentIndex = 0
	return n
}

// Clear removes all children of n and returns n.
func (n *Node) Clear() *Node {
	for _, c := range n.Children {
		c.Parent = nil
		c.ParentIndex = 0
	}
	n.Children = nil
	return n
}

// Replace puts other where n is in n's parent. n is un-tied.
func (n *Node) Replace(other *Node) *Node {
	p := n.Parent
	if p == nil {
		return other
	}
	i := n.ParentIndex
	n.Untie()
	return p.Insert(i, other)
}

// Become gives n the name, value and children of src, which is emptied.
func (n *Node) Become(src *Node) *Node {
	n.Name = src.Name
	n.Value = src.Value
	n.Clear()
	kids := src.Children
	src.Children = nil
	for _, c := range kids {
		c.Parent = nil
		n.AddNode(c)
	}
	return n
}

func (n *Node) renumber(from int) {
	for i := from; i < len(n.Children); i++ {
		n.Children[i].ParentIndex = i
	}
}

// Clone returns a deep copy of n without a parent. Nested *Node values are
// cloned too, Ref values are not.
func (n *Node) Clone() *Node {
	res := &Node{Name: n.Name, Value: cloneValue(n.Value)}
	if len(n.Children) != 0 {
		res.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			cc := c.Clone()
			cc.Parent = res
			cc.ParentIndex = i
			res.Children[i] = cc
		}
	}
	return res
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case *Node:
		if x == nil {
			return x
		}
		return x.Clone()
	case []byte:
		return slices.Clone(x)
	default:
		return v
	}
}

// CloneChildren returns clones of the children of n.
func (n *Node) CloneChildren() []*Node {
	res := make([]*Node, len(n.Children))
	for i, c := range n.Children {
		res[i] = c.Clone()
	}
	return res
}

func (n *Node) Root() *Node {
	for n.Parent != nil {
		n = n.Parent
	}
	return n
}

// IsAttached reports whether n is still a child of p.
func (n *Node) IsAttached(p *Node) bool {
	return n.Parent == p && p != nil
}

func (n *Node) Next() *Node {
	p := n.Parent
	if p == nil || n.ParentIndex+1 >= len(p.Children) {
		return nil
	}
	return p.Children[n.ParentIndex+1]
}

func (n *Node) Prev() *Node {
	p := n.Parent
	if p == nil || n.ParentIndex == 0 {
		return nil
	}
	return p.Children[n.ParentIndex-1]
}

// Sibling returns the sibling at offset d, negative offsets go backwards.
func (n *Node) Sibling(d int) *Node {
	p := n.Parent
	if p == nil {
		return nil
	}
	i := n.ParentIndex + d
	if i < 0 || i >= len(p.Children) {
		return nil
	}
	return p.Children[i]
}

func (n *Node) First() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[0]
}

func (n *Node) Last() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[len(n.Children)-1]
}

// Child returns the first child named name.
func (n *Node) Child(name string) *Node {
	return n.FindFirst(func(c *Node) bool { return c.Name == name })
}

// FindFirst returns the first child satisfying pred.
func (n *Node) FindFirst(pred func(*Node) bool) *Node {
	for _, c := range n.Children {
		if pred(c) {
			return c
		}
	}
	return nil
}

// FindAll returns the children satisfying pred.
func (n *Node) FindAll(pred func(*Node) bool) []*Node {
	var res []*Node
	for _, c := range n.Children {
		if pred(c) {
			res = append(res, c)
		}
	}
	return res
}

// ChildOrAdd returns the first child named name, adding it if absent.
func (n *Node) ChildOrAdd(name string) *Node {
	if c := n.Child(name); c != nil {
		return c
	}
	return n.Add(name, nil)
}

// Visit calls f on n and its descendants in document order. Returning false
// from f skips the children of the visited node.
func (n *Node) Visit(f func(*Node) bool) {
	if !f(n) {
		return
	}
	for _, c := range n.Children {
		c.Visit(f)
	}
}

// Descendants returns all nodes below n in document order.
func (n *Node) Descendants() []*Node {
	var res []*Node
	for _, c := range n.Children {
		c.Visit(func(d *Node) bool {
			res = append(res, d)
			return true
		})
	}
	return res
}

// Depth is the number of ancestors of n.
func (n *Node) Depth() int {
	d := 0
	for p := n.Parent; p != nil; p = p.Parent {
		d++
	}
	return d
}

// Before reports whether n comes before o in document order. Nodes of
// different trees are ordered arbitrarily but consistently by depth.
func (n *Node) Before(o *Node) bool {
	a, b := n.indexPath(), o.indexPath()
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

func (n *Node) indexPath() []int {
	var res []int
	for x := n; x.Parent != nil; x = x.Parent {
		res = append(res, x.ParentIndex)
	}
	slices.Reverse(res)
	return res
}

func (n *Node) String() string {
	s, err := encodeNodes([]*Node{n})
	if err != nil {
		return n.Name
	}
	return s
}
