package lambda

import (
	"github.com/signadot/hyperlambda/event"
	"github.com/signadot/hyperlambda/exp"
	"github.com/signadot/hyperlambda/ir"
)

// blocks returns the nodes a lambda keyword executes when it has a value.
// References and node values are executed where they are; anything else is
// converted to text and parsed into a new tree.
func blocks(args *ir.Node) ([]*ir.Node, error) {
	vs, err := exp.Values(args)
	if err != nil {
		return nil, event.WrapError(args, err)
	}
	res := make([]*ir.Node, 0, len(vs))
	for _, v := range vs {
		switch x := v.(type) {
		case nil:
			continue
		case ir.Ref:
			res = append(res, x.N)
		case *ir.Node:
			res = append(res, x)
		default:
			n, err := ir.ToNode(x)
			if err != nil {
				return nil, event.WrapError(args, err)
			}
			res = append(res, n)
		}
	}
	return res, nil
}

// runWith runs the children of block with copies of params appended, which
// are removed again afterwards.
func runWith(ctx *event.Context, block *ir.Node, params []*ir.Node) error {
	added := cloneAll(params)
	block.AddNodes(added...)
	defer func() {
		for _, n := range added {
			if n.Parent == block {
				n.Untie()
			}
		}
	}()
	return run(ctx, block, 0)
}

// lambdaKeyword executes its children, or the blocks its value denotes
// with its children as parameters. Changes made by the code persist.
func lambdaKeyword(ctx *event.Context, args *ir.Node) error {
	if args.Value == nil {
		return run(ctx, args, 0)
	}
	bs, err := blocks(args)
	if err != nil {
		return err
	}
	for _, b := range bs {
		if err := runWith(ctx, b, args.Children); err != nil {
			return err
		}
	}
	return nil
}

// lambdaCopy executes copies of its children or of the blocks its value
// denotes. A copy is a tree of its own, so the code cannot reach the nodes
// around it and its changes are discarded.
func lambdaCopy(ctx *event.Context, args *ir.Node) error {
	if args.Value == nil {
		cp := args.Clone()
		cp.Value = nil
		return isolated(ctx, cp)
	}
	bs, err := blocks(args)
	if err != nil {
		return err
	}
	for _, b := range bs {
		cp := b.Clone()
		cp.AddNodes(args.CloneChildren()...)
		if err := isolated(ctx, cp); err != nil {
			return err
		}
	}
	return nil
}

// isolated runs a tree of its own, which a return ends.
func isolated(ctx *event.Context, root *ir.Node) error {
	err := run(ctx, root, 0)
	if _, ok := asSignal(err); ok {
		return nil
	}
	return err
}

// lambdaImmutable executes its children, or the blocks its value denotes,
// where they are and restores them afterwards.
func lambdaImmutable(ctx *event.Context, args *ir.Node) error {
	if args.Value == nil {
		restore := keep(args)
		defer restore()
		return run(ctx, args, 0)
	}
	bs, err := blocks(args)
	if err != nil {
		return err
	}
	for _, b := range bs {
		restore := keep(b)
		err := runWith(ctx, b, args.Children)
		restore()
		if err != nil {
			return err
		}
	}
	return nil
}

// lambdaSingle executes the first node its value denotes as a statement,
// whatever its name. The remaining matches are ignored.
func lambdaSingle(ctx *event.Context, args *ir.Node) error {
	if args.Value == nil {
		return event.NewLambdaError(args, "nothing to execute")
	}
	vs, err := exp.Values(args)
	if err != nil {
		return event.WrapError(args, err)
	}
	if len(vs) == 0 || vs[0] == nil {
		return nil
	}
	var n *ir.Node
	switch x := vs[0].(type) {
	case ir.Ref:
		n = x.N
	case *ir.Node:
		n = x
	default:
		if n, err = exp.SourceNode(x); err != nil {
			return event.WrapError(args, err)
		}
	}
	return statement(ctx, n)
}

// fetch executes its children and replaces them with what its "src"
// children denote once done: nodes become its children and other values
// its value. Without sources only the value the code left remains.
func fetch(ctx *event.Context, args *ir.Node) error {
	if err := run(ctx, args, 0); err != nil {
		return err
	}
	var (
		res     []*ir.Node
		scalars []any
	)
	for _, c := range args.Children {
		if !isSource(c.Name) {
			continue
		}
		if c.Value == nil {
			res = append(res, c.CloneChildren()...)
			continue
		}
		vs, err := exp.Values(c)
		if err != nil {
			return event.WrapError(c, err)
		}
		for _, v := range vs {
			switch v.(type) {
			case ir.Ref, *ir.Node:
				ns, err := exp.SourceNodes(v)
				if err != nil {
					return event.WrapError(c, err)
				}
				res = append(res, ns...)
			default:
				scalars = append(scalars, v)
			}
		}
	}
	args.Clear()
	args.AddNodes(res...)
	if len(scalars) > 0 {
		v, err := ir.Concat(scalars)
		if err != nil {
			return event.WrapError(args, err)
		}
		args.Value = v
	}
	return nil
}
