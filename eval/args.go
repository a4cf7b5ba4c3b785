package eval

import (
	"github.com/signadot/hyperlambda/exp"
	"github.com/signadot/hyperlambda/ir"
)

// inputNodes returns the nodes a conversion reads: the nodes the value of
// args denotes, text in the value being parsed, or else the children of
// args. The nodes returned may be living nodes and must not be changed.
func inputNodes(args *ir.Node) ([]*ir.Node, error) {
	if args.Value == nil {
		return args.Children, nil
	}
	vs, err := exp.Values(args)
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
				return nil, err
			}
			res = append(res, n.Children...)
		}
	}
	return res, nil
}

// text returns the value of args as a string.
func text(args *ir.Node) (string, error) {
	v, err := exp.Value(args)
	if err != nil || v == nil {
		return "", err
	}
	return ir.ToString(v)
}

// setResult replaces the arguments in args with the value v.
func setResult(args *ir.Node, v any) {
	args.Clear()
	args.Value = v
}

// setNodes replaces the arguments in args with the nodes ns.
func setNodes(args *ir.Node, ns []*ir.Node) {
	args.Clear()
	args.Value = nil
	args.AddNodes(ns...)
}
