package exp

import (
	"regexp"
	"slices"
	"strings"

	"github.com/signadot/hyperlambda/ir"
)

// iterator maps the current result to the next one.
type iterator interface {
	eval(in []*ir.Node) []*ir.Node
}

// iterFunc lifts a per node function into an iterator, dropping nil and
// repeated results.
type iterFunc func(n *ir.Node, yield func(*ir.Node))

func (f iterFunc) eval(in []*ir.Node) []*ir.Node {
	var res []*ir.Node
	seen := map[*ir.Node]bool{}
	for _, n := range in {
		f(n, func(m *ir.Node) {
			if m == nil || seen[m] {
				return
			}
			seen[m] = true
			res = append(res, m)
		})
	}
	return res
}

func rootIter() iterator {
	return iterFunc(func(n *ir.Node, yield func(*ir.Node)) { yield(n.Root()) })
}

func parentIter() iterator {
	return iterFunc(func(n *ir.Node, yield func(*ir.Node)) { yield(n.Parent) })
}

func childrenIter() iterator {
	return iterFunc(func(n *ir.Node, yield func(*ir.Node)) {
		for _, c := range n.Children {
			yield(c)
		}
	})
}

func descendantsIter() iterator {
	return iterFunc(func(n *ir.Node, yield func(*ir.Node)) {
		yield(n)
		for _, d := range n.Descendants() {
			yield(d)
		}
	})
}

func siblingIter(off int) iterator {
	return iterFunc(func(n *ir.Node, yield func(*ir.Node)) { yield(n.Sibling(off)) })
}

func numberedIter(i int) iterator {
	return iterFunc(func(n *ir.Node, yield func(*ir.Node)) {
		if i >= 0 && i < len(n.Children) {
			yield(n.Children[i])
		}
	})
}

func namedIter(name string) iterator {
	return iterFunc(func(n *ir.Node, yield func(*ir.Node)) {
		for _, c := range n.Children {
			if c.Name == name {
				yield(c)
			}
		}
	})
}

func containsIter(sub string) iterator {
	return iterFunc(func(n *ir.Node, yield func(*ir.Node)) {
		for _, c := range n.Children {
			if strings.Contains(c.Name, sub) {
				yield(c)
			}
		}
	})
}

func namedAncestorIter(name string) iterator {
	return iterFunc(func(n *ir.Node, yield func(*ir.Node)) {
		for p := n.Parent; p != nil; p = p.Parent {
			if p.Name == name {
				yield(p)
				return
			}
		}
	})
}

// refIter follows node values to the node they hold.
func refIter() iterator {
	return iterFunc(func(n *ir.Node, yield func(*ir.Node)) {
		switch v := n.Value.(type) {
		case *ir.Node:
			yield(v)
		case ir.Ref:
			yield(v.N)
		}
	})
}

// valuedIter selects the children whose value equals want. Untyped
// values compare by their text form; nil values never match.
func valuedIter(want any, typed bool) iterator {
	match := func(v any) bool {
		if v == nil {
			return false
		}
		if typed {
			return ir.Equal(v, want)
		}
		s, err := ir.ToString(v)
		return err == nil && s == want
	}
	return iterFunc(func(n *ir.Node, yield func(*ir.Node)) {
		for _, c := range n.Children {
			if match(c.Value) {
				yield(c)
			}
		}
	})
}

func valuedRegexIter(re *regexp.Regexp) iterator {
	return iterFunc(func(n *ir.Node, yield func(*ir.Node)) {
		for _, c := range n.Children {
			if c.Value == nil {
				continue
			}
			s, err := ir.ToString(c.Value)
			if err == nil && re.MatchString(s) {
				yield(c)
			}
		}
	})
}

// docPrev is the node preceding n in document order.
func docPrev(n *ir.Node) *ir.Node {
	p := n.Prev()
	if p == nil {
		return n.Parent
	}
	for len(p.Children) > 0 {
		p = p.Children[len(p.Children)-1]
	}
	return p
}

// docNext is the node following n in document order.
func docNext(n *ir.Node) *ir.Node {
	if len(n.Children) > 0 {
		return n.Children[0]
	}
	for ; n != nil; n = n.Parent {
		if nx := n.Next(); nx != nil {
			return nx
		}
	}
	return nil
}

func shiftLeftIter() iterator {
	return iterFunc(func(n *ir.Node, yield func(*ir.Node)) { yield(docPrev(n)) })
}

func shiftRightIter() iterator {
	return iterFunc(func(n *ir.Node, yield func(*ir.Node)) { yield(docNext(n)) })
}

// rangeIter keeps results with index in [from, to); a negative bound is
// open.
type rangeIter struct {
	from, to int
}

func (r rangeIter) eval(in []*ir.Node) []*ir.Node {
	from, to := max(r.from, 0), len(in)
	if r.to >= 0 {
		to = min(r.to, len(in))
	}
	if from >= to {
		return nil
	}
	return slices.Clone(in[from:to])
}

// moduloIter keeps every nth result starting with the first.
type moduloIter int

func (m moduloIter) eval(in []*ir.Node) []*ir.Node {
	var res []*ir.Node
	for i, n := range in {
		if i%int(m) == 0 {
			res = append(res, n)
		}
	}
	return res
}
