package lambda

import (
	"github.com/signadot/hyperlambda/event"
	"github.com/signadot/hyperlambda/exp"
	"github.com/signadot/hyperlambda/ir"
)

// set assigns its source to every match of its destination. A node
// destination is replaced by the source node, or removed when there is no
// source.
func set(ctx *event.Context, args *ir.Node) error {
	m, err := destination(args)
	if err != nil {
		return err
	}
	srcs, rels, err := sourceArgs(args)
	if err != nil {
		return err
	}
	if len(rels) > 1 {
		return event.NewLambdaError(args, "multiple relative sources")
	}
	var v any
	if len(rels) == 0 {
		if v, err = sourceValue(ctx, args, srcs); err != nil {
			return err
		}
	}
	for i := range m.Nodes {
		ent := m.Entity(i)
		x := v
		if len(rels) == 1 {
			vs, err := relValues(rels[0], ent.Node)
			if err != nil {
				return event.WrapError(rels[0], err)
			}
			if x, err = ir.Concat(vs); err != nil {
				return err
			}
		}
		if err := ent.Set(own(x, ent.Kind)); err != nil {
			return event.WrapError(args, err)
		}
	}
	return nil
}

// own gives a value destination its own copy of a node value.
func own(v any, k exp.Kind) any {
	if n, ok := v.(*ir.Node); ok && k == exp.KindValue {
		return n.Clone()
	}
	return v
}

// insertion computes the nodes to insert at dest for add and insert
// keywords.
func insertion(ctx *event.Context, args *ir.Node, place func(dest *ir.Node, ns []*ir.Node) error) error {
	dests, err := nodeDestination(args)
	if err != nil {
		return err
	}
	srcs, rels, err := sourceArgs(args)
	if err != nil {
		return err
	}
	var ns []*ir.Node
	if len(rels) == 0 {
		if ns, err = sourceNodes(ctx, srcs); err != nil {
			return err
		}
	}
	for i, dest := range dests {
		batch := ns
		if len(rels) > 0 {
			batch = nil
			for _, rel := range rels {
				vs, err := relValues(rel, dest)
				if err != nil {
					return event.WrapError(rel, err)
				}
				for _, v := range vs {
					x, err := exp.SourceNodes(v)
					if err != nil {
						return event.WrapError(rel, err)
					}
					batch = append(batch, x...)
				}
			}
		} else if i < len(dests)-1 {
			batch = cloneAll(ns)
		}
		if err := place(dest, batch); err != nil {
			return err
		}
	}
	return nil
}

// add appends its source nodes to the children of each destination.
func add(ctx *event.Context, args *ir.Node) error {
	return insertion(ctx, args, func(dest *ir.Node, ns []*ir.Node) error {
		dest.AddNodes(ns...)
		return nil
	})
}

// insertBefore inserts its source nodes before each destination.
func insertBefore(ctx *event.Context, args *ir.Node) error {
	return insertion(ctx, args, func(dest *ir.Node, ns []*ir.Node) error {
		if dest.Parent == nil {
			return event.NewLambdaError(args, "cannot insert next to a root node")
		}
		p, at := dest.Parent, dest.ParentIndex
		for i, n := range ns {
			p.Insert(at+i, n)
		}
		return nil
	})
}

// insertAfter inserts its source nodes after each destination.
func insertAfter(ctx *event.Context, args *ir.Node) error {
	return insertion(ctx, args, func(dest *ir.Node, ns []*ir.Node) error {
		if dest.Parent == nil {
			return event.NewLambdaError(args, "cannot insert next to a root node")
		}
		p, at := dest.Parent, dest.ParentIndex+1
		for i, n := range ns {
			p.Insert(at+i, n)
		}
		return nil
	})
}
