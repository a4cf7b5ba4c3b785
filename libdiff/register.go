package libdiff

import (
	"github.com/signadot/hyperlambda/event"
	"github.com/signadot/hyperlambda/exp"
	"github.com/signadot/hyperlambda/ir"
)

// Register installs the diff events in reg as open natives:
//
//	diff        from and to children denote node lists; the operations
//	            replace the arguments and the value tells if they differ
//	diff.text   from and to children denote texts; the value becomes the
//	            text patch
//	diff.patch  applies the operations denoted by the diff child to the
//	            nodes denoted by the value
func Register(reg *event.Registry) {
	reg.Native("diff", diffEvent, event.NativeOpen)
	reg.Native("diff.text", diffText, event.NativeOpen)
	reg.Native("diff.patch", diffPatch, event.NativeOpen)
}

func diffEvent(ctx *event.Context, args *ir.Node) error {
	from, err := operand(args, fromKey)
	if err != nil {
		return err
	}
	to, err := operand(args, toKey)
	if err != nil {
		return err
	}
	d := DiffChildren(from, to)
	args.Clear()
	args.Value = d != nil
	if d != nil {
		args.AddNodes(d.CloneChildren()...)
	}
	return nil
}

func diffText(ctx *event.Context, args *ir.Node) error {
	texts := make([]string, 2)
	for i, key := range []string{fromKey, toKey} {
		c := args.Child(key)
		if c == nil {
			return event.NewLambdaError(args, "no %s argument", key)
		}
		v, err := exp.Value(c)
		if err != nil {
			return err
		}
		if texts[i], err = ir.ToString(v); err != nil {
			return err
		}
	}
	args.Clear()
	args.Value = DiffString(texts[0], texts[1])
	return nil
}

func diffPatch(ctx *event.Context, args *ir.Node) error {
	c := args.Child("diff")
	if c == nil {
		return event.NewLambdaError(args, "no diff argument")
	}
	ops, err := operand(args, "diff")
	if err != nil {
		return err
	}
	if c.Value != nil {
		var all []*ir.Node
		for _, n := range ops {
			all = append(all, n.Children...)
		}
		ops = all
	}
	d := ir.New("diff", nil)
	for _, op := range ops {
		d.AddNode(op.Clone())
	}
	vs, err := exp.Values(args)
	if err != nil {
		return err
	}
	for _, v := range vs {
		var target *ir.Node
		switch x := v.(type) {
		case ir.Ref:
			target = x.N
		case *ir.Node:
			target = x
		default:
			return event.NewLambdaError(args, "cannot patch a %T", v)
		}
		if err := Patch(target, d); err != nil {
			return event.WrapError(args, err)
		}
	}
	return nil
}

// operand returns the nodes denoted by the child of args named key: its
// children when it has no value, otherwise the nodes its value denotes, text
// being parsed.
func operand(args *ir.Node, key string) ([]*ir.Node, error) {
	c := args.Child(key)
	if c == nil {
		return nil, event.NewLambdaError(args, "no %s argument", key)
	}
	if c.Value == nil {
		return c.Children, nil
	}
	vs, err := exp.Values(c)
	if err != nil {
		return nil, err
	}
	var res []*ir.Node
	for _, v := range vs {
		switch x := v.(type) {
		case nil:
		case ir.Ref:
			res = append(res, x.N)
		case *ir.Node:
			res = append(res, x)
		default:
			n, err := ir.ToNode(x)
			if err != nil {
				return nil, event.WrapError(c, err)
			}
			res = append(res, n.Children...)
		}
	}
	return res, nil
}
