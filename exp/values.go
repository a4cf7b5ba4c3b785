package exp

import "github.com/signadot/hyperlambda/ir"

// Values returns what the value of n denotes: the results of an expression
// evaluated from n, a string formatted with the children of n or the value
// itself. A nil value denotes nothing.
func Values(n *ir.Node) ([]any, error) {
	switch v := n.Value.(type) {
	case nil:
		return nil, nil
	case *Expression:
		m, err := v.Evaluate(n)
		if err != nil {
			return nil, err
		}
		return m.Values()
	case string:
		if HasFormat(n) {
			s, err := FormatNode(n)
			if err != nil {
				return nil, err
			}
			return []any{s}, nil
		}
	}
	return []any{n.Value}, nil
}

// Value combines the values of n into one with ir.Concat.
func Value(n *ir.Node) (any, error) {
	vs, err := Values(n)
	if err != nil {
		return nil, err
	}
	return ir.Concat(vs)
}
