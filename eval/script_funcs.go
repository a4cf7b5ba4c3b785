package eval

import (
	"os"

	"github.com/signadot/hyperlambda/exp"
	"github.com/signadot/hyperlambda/ir"

	"github.com/expr-lang/expr"
)

// exprOpts are the functions calc formulas may call, evaluated from n.
func exprOpts(n *ir.Node) []expr.Option {
	return []expr.Option{
		expr.Function("whereami", func(params ...any) (any, error) {
			return n.Path(), nil
		},
			new(func() string)),
		expr.Function("query", func(params ...any) (any, error) {
			e, err := exp.Parse(params[0].(string))
			if err != nil {
				return nil, err
			}
			m, err := e.Evaluate(n)
			if err != nil {
				return nil, err
			}
			vs, err := m.Values()
			if err != nil {
				return nil, err
			}
			res := make([]any, len(vs))
			for i, v := range vs {
				res[i] = plain(v)
			}
			return res, nil
		},
			new(func(string) []any)),
		expr.Function("getenv", func(params ...any) (any, error) {
			return os.Getenv(params[0].(string)), nil
		},
			new(func(string) string)),
	}
}
