package libdiff

import "github.com/signadot/hyperlambda/ir"

// MakeDiff returns the operation turning from into to at index i. A nil from
// gives an insertion, a nil to a deletion.
func MakeDiff(from, to *ir.Node, i int) *ir.Node {
	switch {
	case from == nil:
		op := ir.New(InsertOp, i)
		op.AddNode(to.Clone())
		return op
	case to == nil:
		op := ir.New(DeleteOp, i)
		op.AddNode(from.Clone())
		return op
	case from.Name == to.Name:
		op := diffNode(from, to)
		if op == nil {
			return nil
		}
		op.Value = i
		return op
	default:
		op := ir.New(ReplaceOp, i)
		op.Add(fromKey, nil).AddNode(from.Clone())
		op.Add(toKey, nil).AddNode(to.Clone())
		return op
	}
}

// diffNode returns a change operation for two nodes with the same name, or
// nil when they do not differ.
func diffNode(from, to *ir.Node) *ir.Node {
	op := ir.New(ChangeOp, nil)
	if !ir.Equal(from.Value, to.Value) {
		a, aok := from.Value.(string)
		b, bok := to.Value.(string)
		if aok && bok && multiLine(a) && multiLine(b) {
			op.Add(textKey, DiffString(a, b))
		} else {
			v := op.Add(valueKey, nil)
			v.Add(fromKey, copyValue(from.Value))
			v.Add(toKey, copyValue(to.Value))
		}
	}
	if d := DiffChildren(from.Children, to.Children); d != nil {
		op.AddNode(d)
	}
	if op.Len() == 0 {
		return nil
	}
	return op
}

func copyValue(v any) any {
	return ir.New("", v).Clone().Value
}
