package lambda

import (
	"fmt"

	"github.com/signadot/hyperlambda/event"
	"github.com/signadot/hyperlambda/exp"
	"github.com/signadot/hyperlambda/ir"
)

// names returns the values of n as strings, skipping nulls.
func names(n *ir.Node) ([]string, error) {
	vs, err := exp.Values(n)
	if err != nil {
		return nil, err
	}
	res := make([]string, 0, len(vs))
	for _, v := range vs {
		if v == nil {
			continue
		}
		s, err := ir.ToString(v)
		if err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, nil
}

// destination evaluates the expression in the value of args.
func destination(args *ir.Node) (*exp.Match, error) {
	e, ok := args.Value.(*exp.Expression)
	if !ok {
		return nil, event.NewLambdaError(args, "destination must be an expression, got %s", describe(args.Value))
	}
	return e.Evaluate(args)
}

// nodeDestination is destination for keywords which need nodes.
func nodeDestination(args *ir.Node) ([]*ir.Node, error) {
	m, err := destination(args)
	if err != nil {
		return nil, err
	}
	if m.Kind != exp.KindNode {
		return nil, event.NewLambdaError(args, "destination must select nodes, not %s", m.Kind)
	}
	return m.Nodes, nil
}

func describe(v any) string {
	if v == nil {
		return "nothing"
	}
	return fmt.Sprintf("%q", ir.MustString(v))
}

// keep saves the value and children of n and returns a function restoring
// them.
func keep(n *ir.Node) func() {
	v := n.Value
	kids := n.CloneChildren()
	return func() {
		n.Clear()
		n.AddNodes(kids...)
		n.Value = v
	}
}

// isSource reports whether a child named name is a source argument.
func isSource(name string) bool {
	switch name {
	case "src", "source":
		return true
	}
	return false
}

func isRelSource(name string) bool {
	switch name {
	case "rel-src", "rel-source":
		return true
	}
	return false
}

// sourceArgs returns the children of args which provide its source: src
// and event children, and rel-src children separately. Mixing the two is an
// error.
func sourceArgs(args *ir.Node) (srcs, rels []*ir.Node, err error) {
	for _, c := range args.Children {
		switch {
		case !Executable(c.Name):
		case isRelSource(c.Name):
			rels = append(rels, c)
		default:
			srcs = append(srcs, c)
		}
	}
	if len(srcs) > 0 && len(rels) > 0 {
		return nil, nil, event.NewLambdaError(args, "cannot mix relative and absolute sources")
	}
	return srcs, rels, nil
}

// raiseSource raises the event child c and returns its result: the value it
// was left with or else its children. c is restored afterwards.
func raiseSource(ctx *event.Context, c *ir.Node) (any, []*ir.Node, error) {
	restore := keep(c)
	defer restore()
	if err := statement(ctx, c); err != nil {
		return nil, nil, err
	}
	if c.Value != nil {
		return c.Value, nil, nil
	}
	return nil, c.CloneChildren(), nil
}

// sourceValue returns the value a keyword such as set assigns: the value or
// single child of a src child or the result of an event child. Without a
// source the value is nil.
func sourceValue(ctx *event.Context, args *ir.Node, srcs []*ir.Node) (any, error) {
	switch len(srcs) {
	case 0:
		return nil, nil
	case 1:
	default:
		return nil, event.NewLambdaError(args, "multiple sources")
	}
	c := srcs[0]
	if isSource(c.Name) {
		if c.Value != nil {
			return exp.Value(c)
		}
		return onlyChild(c, c.Children)
	}
	v, kids, err := raiseSource(ctx, c)
	if err != nil || v != nil {
		return v, err
	}
	return onlyChild(c, kids)
}

func onlyChild(at *ir.Node, kids []*ir.Node) (any, error) {
	switch len(kids) {
	case 0:
		return nil, nil
	case 1:
		return kids[0].Clone(), nil
	}
	return nil, event.NewLambdaError(at, "source has %d nodes, expected one", len(kids))
}

// sourceNodes returns detached nodes to insert, in argument order: the
// values of src children converted to nodes, or their children, and the
// results of event children.
func sourceNodes(ctx *event.Context, srcs []*ir.Node) ([]*ir.Node, error) {
	var res []*ir.Node
	for _, c := range srcs {
		if isSource(c.Name) {
			if c.Value == nil {
				res = append(res, c.CloneChildren()...)
				continue
			}
			vs, err := exp.Values(c)
			if err != nil {
				return nil, event.WrapError(c, err)
			}
			for _, v := range vs {
				ns, err := exp.SourceNodes(v)
				if err != nil {
					return nil, event.WrapError(c, err)
				}
				res = append(res, ns...)
			}
			continue
		}
		v, kids, err := raiseSource(ctx, c)
		if err != nil {
			return nil, err
		}
		if v == nil {
			res = append(res, kids...)
			continue
		}
		ns, err := exp.SourceNodes(v)
		if err != nil {
			return nil, event.WrapError(c, err)
		}
		res = append(res, ns...)
	}
	return res, nil
}

// relValues evaluates the relative source rel from the destination dest.
// Placeholders are resolved with the children of rel.
func relValues(rel, dest *ir.Node) ([]any, error) {
	e, ok := rel.Value.(*exp.Expression)
	if !ok {
		return nil, event.NewLambdaError(rel, "relative source must be an expression")
	}
	m, err := e.Eval(dest, rel)
	if err != nil {
		return nil, err
	}
	return m.Values()
}

// cloneAll returns copies of ns.
func cloneAll(ns []*ir.Node) []*ir.Node {
	res := make([]*ir.Node, len(ns))
	for i, n := range ns {
		res[i] = n.Clone()
	}
	return res
}
