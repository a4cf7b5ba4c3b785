package main

import (
	"fmt"
	"io"

	"github.com/signadot/hyperlambda"
	"github.com/signadot/hyperlambda/encode"
	"github.com/signadot/hyperlambda/libdiff"

	"github.com/scott-cotton/cli"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	if cfg.Lines {
		return diffLines(cc, args[0], args[1])
	}
	a, err := getLambdaFile(cc, args[0])
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", args[0], err)
	}
	b, err := getLambdaFile(cc, args[1])
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", args[1], err)
	}
	d := hyperlambda.Diff(a, b)
	if d == nil {
		return nil
	}
	if cfg.Reverse {
		if d, err = libdiff.Reverse(d); err != nil {
			return fmt.Errorf("error reversing: %w", err)
		}
	}
	if err := encode.EncodeNodes(d.Children, cc.Out, cfg.encOpts(cc.Out)...); err != nil {
		return err
	}
	return cli.ExitCodeErr(1)
}

func diffLines(cc *cli.Context, pa, pb string) error {
	a, err := readFile(cc, pa)
	if err != nil {
		return err
	}
	b, err := readFile(cc, pb)
	if err != nil {
		return err
	}
	if string(a) == string(b) {
		return nil
	}
	io.WriteString(cc.Out, libdiff.Lines(string(a), string(b)))
	return cli.ExitCodeErr(1)
}
