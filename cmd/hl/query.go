package main

import (
	"fmt"

	"github.com/signadot/hyperlambda"
	"github.com/signadot/hyperlambda/encode"
	"github.com/signadot/hyperlambda/exp"
	"github.com/signadot/hyperlambda/ir"

	"github.com/scott-cotton/cli"
)

func query(cfg *QueryConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Query.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: query requires an expression", cli.ErrUsage)
	}
	x := args[0]
	if _, err := exp.Parse(x); err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	for _, file := range inputs(args[1:]) {
		root, err := getLambdaFile(cc, file)
		if err != nil {
			return fmt.Errorf("error processing %s: %w", file, err)
		}
		m, err := hyperlambda.Query(root, x)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		if err := printMatch(cfg, cc, m); err != nil {
			return err
		}
	}
	return nil
}

func printMatch(cfg *QueryConfig, cc *cli.Context, m *exp.Match) error {
	if m.Kind == exp.KindNode && !cfg.Values {
		return encode.EncodeNodes(m.Nodes, cc.Out, cfg.encOpts(cc.Out)...)
	}
	vals, err := m.Values()
	if err != nil {
		return err
	}
	for _, v := range vals {
		if ref, ok := v.(ir.Ref); ok {
			v = ref.N.Value
		}
		s := ""
		if v != nil {
			s, err = ir.ToString(v)
			if err != nil {
				return err
			}
		}
		fmt.Fprintln(cc.Out, s)
	}
	return nil
}
