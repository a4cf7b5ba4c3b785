package lambda

import (
	"github.com/signadot/hyperlambda/event"
	"github.com/signadot/hyperlambda/exp"
	"github.com/signadot/hyperlambda/ir"
)

// MaxIterations bounds a while loop unless it has an "_unchecked" child
// set to true.
const MaxIterations = 10000

// iterate runs the body of a loop from index start once. Changes the body
// makes to itself persist across iterations, except inside "lambda"
// children, which are restored after each iteration. It reports whether the
// loop goes on.
func iterate(ctx *event.Context, loop *ir.Node, start int) (bool, error) {
	var restore []func()
	for _, c := range loop.Children[start:] {
		if c.Name == "lambda" && c.Value == nil {
			restore = append(restore, keep(c))
		}
	}
	err := run(ctx, loop, start)
	for _, r := range restore {
		r()
	}
	if s, ok := asSignal(err); ok {
		switch s {
		case sigBreak:
			return false, nil
		case sigContinue:
			return true, nil
		}
	}
	return err == nil, err
}

// while executes its body as long as its condition holds.
func while(ctx *event.Context, args *ir.Node) error {
	unchecked := ir.ChildValue(args, "_unchecked", false)
	for i := 0; ; i++ {
		ok, start, err := condition(ctx, args)
		if err != nil || !ok {
			return err
		}
		if !unchecked && i >= MaxIterations {
			return event.NewLambdaError(args, "more than %d iterations, possibly an infinite loop", MaxIterations)
		}
		more, err := iterate(ctx, args, start)
		if err != nil || !more {
			return err
		}
	}
}

// forEach executes its body once for each result of its expression, with
// the current result as the value of a "_dp" child inserted first. Node
// results are passed as references to the living nodes.
func forEach(ctx *event.Context, args *ir.Node) error {
	var items []any
	switch args.Value.(type) {
	case *exp.Expression:
		m, err := destination(args)
		if err != nil {
			return err
		}
		if items, err = m.Values(); err != nil {
			return event.WrapError(args, err)
		}
	case nil:
		return nil
	default:
		n, err := ir.ToNode(args.Value)
		if err != nil {
			return event.WrapError(args, err)
		}
		for _, c := range n.Children {
			items = append(items, ir.Ref{N: c})
		}
	}
	for _, item := range items {
		dp := args.Insert(0, ir.New("_dp", item))
		more, err := iterate(ctx, args, 1)
		dp.Untie()
		if err != nil || !more {
			return err
		}
	}
	return nil
}

func breakKeyword(*event.Context, *ir.Node) error    { return sigBreak }
func continueKeyword(*event.Context, *ir.Node) error { return sigContinue }

// returnKeyword ends the current invocation. Its value becomes the value of
// the root being executed and copies of its children are appended there.
func returnKeyword(_ *event.Context, args *ir.Node) error {
	root := args.Root()
	v, err := exp.Value(args)
	if err != nil {
		return event.WrapError(args, err)
	}
	if v != nil {
		root.Value = own(v, exp.KindValue)
	}
	root.AddNodes(args.CloneChildren()...)
	return sigReturn
}
