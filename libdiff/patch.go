package libdiff

import (
	"errors"
	"fmt"

	"github.com/signadot/hyperlambda/ir"
)

var (
	ErrInvalid  = errors.New("invalid diff")
	ErrConflict = errors.New("diff does not apply")
)

// Patch applies the operations held by the children of diff to the children
// of doc.
func Patch(doc, diff *ir.Node) error {
	for _, op := range diff.Children {
		i, err := index(op)
		if err != nil {
			return err
		}
		switch op.Name {
		case InsertOp:
			if op.Len() != 1 || i > doc.Len() {
				return fmt.Errorf("%w: %s at %s", ErrInvalid, op.Name, op.Path())
			}
			doc.Insert(i, op.Children[0].Clone())
		case DeleteOp:
			if err := expect(doc, i, op.First()); err != nil {
				return err
			}
			doc.Children[i].Untie()
		case ReplaceOp:
			from, to := op.Child(fromKey), op.Child(toKey)
			if from == nil || to == nil || to.Len() != 1 {
				return fmt.Errorf("%w: %s at %s needs from and to", ErrInvalid, op.Name, op.Path())
			}
			if err := expect(doc, i, from.First()); err != nil {
				return err
			}
			doc.Children[i].Untie()
			doc.Insert(i, to.Children[0].Clone())
		case ChangeOp:
			if i >= doc.Len() {
				return fmt.Errorf("%w: no node at %d of %s", ErrConflict, i, doc.Path())
			}
			if err := patchNode(doc.Children[i], op); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: unknown operation %q at %s", ErrInvalid, op.Name, op.Path())
		}
	}
	return nil
}

func patchNode(n, op *ir.Node) error {
	if v := op.Child(valueKey); v != nil {
		from, to := v.Child(fromKey), v.Child(toKey)
		if from == nil || to == nil {
			return fmt.Errorf("%w: value at %s needs from and to", ErrInvalid, v.Path())
		}
		if !ir.Equal(n.Value, from.Value) {
			return fmt.Errorf("%w: %s has value %v, not %v", ErrConflict, n.Path(), n.Value, from.Value)
		}
		n.Value = copyValue(to.Value)
	}
	if t := op.Child(textKey); t != nil {
		s, ok := n.Value.(string)
		if !ok {
			return fmt.Errorf("%w: %s has no text value", ErrConflict, n.Path())
		}
		p, _ := t.Value.(string)
		res, err := PatchString(s, p)
		if err != nil {
			return fmt.Errorf("%s: %w", n.Path(), err)
		}
		n.Value = res
	}
	if c := op.Child(childrenKey); c != nil {
		return Patch(n, c)
	}
	return nil
}

// expect checks that doc has a node named like want at i.
func expect(doc *ir.Node, i int, want *ir.Node) error {
	if i >= doc.Len() {
		return fmt.Errorf("%w: no node at %d of %s", ErrConflict, i, doc.Path())
	}
	if want != nil && doc.Children[i].Name != want.Name {
		return fmt.Errorf("%w: found %q at %s, expected %q", ErrConflict, doc.Children[i].Name, doc.Children[i].Path(), want.Name)
	}
	return nil
}

func index(op *ir.Node) (int, error) {
	i, ok := op.Value.(int)
	if !ok || i < 0 {
		return 0, fmt.Errorf("%w: %s at %s has no index", ErrInvalid, op.Name, op.Path())
	}
	return i, nil
}
