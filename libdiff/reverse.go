package libdiff

import (
	"fmt"

	"github.com/signadot/hyperlambda/ir"
)

// Reverse returns the diff undoing diff.
func Reverse(diff *ir.Node) (*ir.Node, error) {
	res := ir.New(diff.Name, diff.Value)
	ins, dels := 0, 0
	for _, op := range diff.Children {
		i, err := index(op)
		if err != nil {
			return nil, err
		}
		r := op.Clone()
		r.Value = i + dels - ins
		switch op.Name {
		case InsertOp:
			r.Name = DeleteOp
			ins++
		case DeleteOp:
			r.Name = InsertOp
			dels++
		case ReplaceOp:
			if err := swap(r); err != nil {
				return nil, err
			}
		case ChangeOp:
			if err := reverseChange(r); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("%w: unknown operation %q at %s", ErrInvalid, op.Name, op.Path())
		}
		res.AddNode(r)
	}
	return res, nil
}

func reverseChange(op *ir.Node) error {
	if v := op.Child(valueKey); v != nil {
		if err := swap(v); err != nil {
			return err
		}
	}
	if t := op.Child(textKey); t != nil {
		p, _ := t.Value.(string)
		t.Value = ReverseString(p)
	}
	if c := op.Child(childrenKey); c != nil {
		rc, err := Reverse(c)
		if err != nil {
			return err
		}
		c.Replace(rc)
	}
	return nil
}

func swap(n *ir.Node) error {
	from, to := n.Child(fromKey), n.Child(toKey)
	if from == nil || to == nil {
		return fmt.Errorf("%w: %s at %s needs from and to", ErrInvalid, n.Name, n.Path())
	}
	from.Name, to.Name = toKey, fromKey
	n.AddNode(from)
	return nil
}
