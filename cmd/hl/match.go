package main

import (
	"fmt"

	"github.com/signadot/hyperlambda"
	"github.com/signadot/hyperlambda/encode"
	"github.com/signadot/hyperlambda/ir"
	"github.com/signadot/hyperlambda/parse"

	"github.com/scott-cotton/cli"
)

func match(cfg *MatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Command.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: match requires a pattern", cli.ErrUsage)
	}
	var pattern *ir.Node
	if cfg.String {
		pattern, err = parse.Parse([]byte(args[0]))
	} else {
		pattern, err = getLambdaFile(cc, args[0])
	}
	if err != nil {
		return fmt.Errorf("error reading pattern: %w", err)
	}
	found := false
	for _, file := range inputs(args[1:]) {
		doc, err := getLambdaFile(cc, file)
		if err != nil {
			return fmt.Errorf("error processing %s: %w", file, err)
		}
		if !hyperlambda.Match(doc, pattern) {
			continue
		}
		found = true
		if !cfg.Print {
			fmt.Fprintln(cc.Out, file)
			continue
		}
		if err := encode.EncodeNodes(doc.Children, cc.Out, cfg.encOpts(cc.Out)...); err != nil {
			return err
		}
	}
	if !found {
		return cli.ExitCodeErr(1)
	}
	return nil
}
