package hyperlambda

import (
	"github.com/signadot/hyperlambda/debug"
	"github.com/signadot/hyperlambda/exp"
	"github.com/signadot/hyperlambda/ir"
)

// Query evaluates the expression x from root.
func Query(root *ir.Node, x string) (*exp.Match, error) {
	e, err := exp.Parse(x)
	if err != nil {
		return nil, err
	}
	return e.Evaluate(root)
}

// Match reports whether doc contains pattern: each child of pattern must
// match a distinct child of doc with the same name, in order. A pattern
// with a value only matches equal values.
func Match(doc, pattern *ir.Node) bool {
	if debug.Expr() {
		debug.Logf("match %q at %s", pattern.Name, doc.Path())
	}
	if pattern.Value != nil && !ir.Equal(doc.Value, pattern.Value) {
		return false
	}
	i := 0
	for _, pc := range pattern.Children {
		found := false
		for i < doc.Len() {
			dc := doc.Children[i]
			i++
			if dc.Name == pc.Name && Match(dc, pc) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
