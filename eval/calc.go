package eval

import (
	"fmt"

	"github.com/signadot/hyperlambda/debug"
	"github.com/signadot/hyperlambda/event"
	"github.com/signadot/hyperlambda/exp"
	"github.com/signadot/hyperlambda/ir"

	"github.com/expr-lang/expr"
)

var calcSym = &calcSymbol{name: calcName}

// Calc evaluates the formula in its value with expr-lang. Named children
// are the variables of the formula. The result replaces the arguments:
// scalars as the value, lists and maps as children.
func Calc() Symbol {
	return calcSym
}

const (
	calcName name = "calc"
)

type calcSymbol struct {
	name
}

func (s calcSymbol) Handle(_ *event.Context, args *ir.Node) error {
	if debug.Native() {
		debug.Logf("calc on %s", args.Path())
	}
	src, err := text(args)
	if err != nil {
		return err
	}
	if src == "" {
		return event.NewLambdaError(args, "%s needs a formula", s)
	}
	env := map[string]any{}
	for _, c := range args.Children {
		if c.Name == "" {
			continue
		}
		v, err := exp.Value(c)
		if err != nil {
			return event.WrapError(c, err)
		}
		env[c.Name] = plain(v)
	}
	prg, err := expr.Compile(src, exprOpts(args)...)
	if err != nil {
		return fmt.Errorf("compiling %q: %w", src, err)
	}
	res, err := expr.Run(prg, env)
	if err != nil {
		return err
	}
	switch res.(type) {
	case []any, map[string]any:
		n, err := FromAny(res)
		if err != nil {
			return err
		}
		setNodes(args, n.Children)
		return nil
	}
	setResult(args, scalar(res))
	return nil
}
