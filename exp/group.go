package exp

import (
	"slices"

	"github.com/signadot/hyperlambda/ir"
)

type logical int

const (
	opOr logical = iota
	opAnd
	opXor
	opNot
)

// term is one operand of a group: an iterator chain and the operator
// combining its result with the result so far.
type term struct {
	op    logical
	chain []iterator
}

// group evaluates each term from the group root and combines the results.
type group struct {
	parent *group
	terms  []*term
}

func newGroup(parent *group) *group {
	return &group{parent: parent, terms: []*term{{op: opOr}}}
}

func (g *group) last() *term {
	return g.terms[len(g.terms)-1]
}

func (g *group) add(it iterator) {
	t := g.last()
	t.chain = append(t.chain, it)
}

func (g *group) addLogical(op logical) {
	g.terms = append(g.terms, &term{op: op})
}

func (g *group) eval(in []*ir.Node) []*ir.Node {
	var res []*ir.Node
	for _, t := range g.terms {
		nodes := in
		for _, it := range t.chain {
			nodes = it.eval(nodes)
			if len(nodes) == 0 {
				break
			}
		}
		res = combine(t.op, res, nodes)
	}
	if len(g.terms) > 1 {
		sortDocOrder(res)
	}
	return res
}

func combine(op logical, lhs, rhs []*ir.Node) []*ir.Node {
	in := func(ns []*ir.Node) map[*ir.Node]bool {
		m := make(map[*ir.Node]bool, len(ns))
		for _, n := range ns {
			m[n] = true
		}
		return m
	}
	var res []*ir.Node
	switch op {
	case opOr:
		seen := map[*ir.Node]bool{}
		for _, n := range slices.Concat(lhs, rhs) {
			if !seen[n] {
				seen[n] = true
				res = append(res, n)
			}
		}
	case opAnd:
		r := in(rhs)
		for _, n := range lhs {
			if r[n] {
				res = append(res, n)
			}
		}
	case opXor:
		l, r := in(lhs), in(rhs)
		for _, n := range lhs {
			if !r[n] {
				res = append(res, n)
			}
		}
		for _, n := range rhs {
			if !l[n] {
				res = append(res, n)
			}
		}
	case opNot:
		r := in(rhs)
		for _, n := range lhs {
			if !r[n] {
				res = append(res, n)
			}
		}
	}
	return res
}

func sortDocOrder(ns []*ir.Node) {
	slices.SortStableFunc(ns, func(a, b *ir.Node) int {
		switch {
		case a == b:
			return 0
		case a.Before(b):
			return -1
		case b.Before(a):
			return 1
		}
		return 0
	})
}
